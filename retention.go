//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2026 Trinity Search. All rights reserved.
//
//  CONTACT: hello@trinitysearch.dev
//

package mergecore

import (
	"math"
	"sort"
)

// SourceRetention is the post-merge disposition of one previously tracked
// generation.
type SourceRetention int

const (
	// RetainAll means the generation was untouched by this merge; keep it
	// exactly as it is.
	RetainAll SourceRetention = iota
	// RetainDocumentIDsUpdates means the generation's postings are
	// subsumed by the merge output, but its deletion metadata must be
	// kept because an older, non-merged generation still relies on it to
	// suppress documents.
	RetainDocumentIDsUpdates
	// Delete means the generation's postings and deletion metadata are
	// both fully subsumed and it can be discarded.
	Delete
)

func (r SourceRetention) String() string {
	switch r {
	case RetainAll:
		return "RetainAll"
	case RetainDocumentIDsUpdates:
		return "RetainDocumentIDsUpdates"
	case Delete:
		return "Delete"
	default:
		return "Unknown"
	}
}

// TrackedSourceDisposition pairs a generation with its computed retention.
type TrackedSourceDisposition struct {
	Gen       uint64
	Retention SourceRetention
}

// ConsiderTrackedSources classifies every generation in trackedSources
// relative to candidateGens, the set of generations that just participated
// in a merge. trackedSources is sorted ascending as a side effect of a
// defensive copy; the input slice is not mutated.
//
// A generation not among the candidates is always RetainAll. A candidate
// generation is Delete unless some older generation in trackedSources is
// itself not a candidate, in which case it becomes
// RetainDocumentIDsUpdates: the older non-candidate generation may still
// depend on this one's deletion mask.
func ConsiderTrackedSources(candidateGens []uint64, trackedSources []uint64) []TrackedSourceDisposition {
	sorted := make([]uint64, len(trackedSources))
	copy(sorted, trackedSources)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	candidateSet := make(map[uint64]struct{}, len(candidateGens))
	for _, g := range candidateGens {
		candidateSet[g] = struct{}{}
	}

	res := make([]TrackedSourceDisposition, 0, len(sorted))
	lastNotCandidateIdx := math.MaxInt

	for i, gen := range sorted {
		if _, isCandidate := candidateSet[gen]; !isCandidate {
			lastNotCandidateIdx = i
			res = append(res, TrackedSourceDisposition{gen, RetainAll})
			continue
		}

		if lastNotCandidateIdx < i {
			res = append(res, TrackedSourceDisposition{gen, RetainDocumentIDsUpdates})
		} else {
			res = append(res, TrackedSourceDisposition{gen, Delete})
		}
	}

	return res
}
