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
	"sort"

	"github.com/weaviate/sroar"

	"github.com/trinitysearch/mergecore/codec"
	"github.com/trinitysearch/mergecore/maskregistry"
)

// MaxCandidates bounds the number of candidates a single merge may consider:
// Commit rejects a collection holding MaxCandidates or more. It mirrors the source implementation's
// require(candidates.size() < std::numeric_limits<uint16_t>::max()).
const MaxCandidates = 65535

// Candidate is one input to a merge: a generation, its term iterator, an
// optional postings accessor, and an optional deletion mask.
//
// A Candidate with a nil Accessor contributes only its MaskedDocuments; its
// Terms iterator, if set, is never advanced by the coordinator -- iterating
// it would be an invariant violation, since there is no accessor to decode
// the postings it points to.
type Candidate struct {
	Gen             uint64
	Terms           codec.TermIterator
	Accessor        codec.PostingsAccessor
	MaskedDocuments *sroar.Bitmap
}

// CandidateCollection owns the ordered set of input segments participating
// in one merge and the prefix structure that lets the coordinator build a
// masked-documents Registry for any candidate in O(1) once committed.
type CandidateCollection struct {
	candidates []Candidate

	// all holds only the non-empty mask sets, in descending-gen order.
	all []*sroar.Bitmap
	// prefixLen[i] is the number of entries of all that precede (are newer
	// than) candidates[i].
	prefixLen []int

	committed bool
}

// NewCandidateCollection wraps candidates for a merge. Callers must call
// Commit before Merge or ScannerRegistryFor.
func NewCandidateCollection(candidates []Candidate) *CandidateCollection {
	cc := &CandidateCollection{
		candidates: make([]Candidate, len(candidates)),
	}
	copy(cc.candidates, candidates)
	return cc
}

// Commit sorts candidates by generation descending and rebuilds the mask
// prefix structure used by ScannerRegistryFor. It must be called before any
// other CandidateCollection method, and exactly once per merge.
func (cc *CandidateCollection) Commit() {
	if len(cc.candidates) >= MaxCandidates {
		panic(&InvariantViolation{Msg: "too many merge candidates"})
	}

	sort.SliceStable(cc.candidates, func(i, j int) bool {
		return cc.candidates[i].Gen > cc.candidates[j].Gen
	})

	cc.all = cc.all[:0]
	cc.prefixLen = make([]int, len(cc.candidates))

	for i, c := range cc.candidates {
		cc.prefixLen[i] = len(cc.all)

		if c.MaskedDocuments != nil && !c.MaskedDocuments.IsEmpty() {
			cc.all = append(cc.all, c.MaskedDocuments)
		}
	}

	cc.committed = true
}

// ScannerRegistryFor returns the Registry composing every mask set strictly
// newer than candidate i. Commit must have already run.
func (cc *CandidateCollection) ScannerRegistryFor(i int) *maskregistry.Registry {
	if !cc.committed {
		panic(&InvariantViolation{Msg: "ScannerRegistryFor called before Commit"})
	}
	return maskregistry.New(cc.all, cc.prefixLen[i])
}

// Len reports the number of candidates.
func (cc *CandidateCollection) Len() int { return len(cc.candidates) }

// At returns the candidate at position i in gen-descending order. Commit
// must have already run.
func (cc *CandidateCollection) At(i int) Candidate { return cc.candidates[i] }

// Gens returns the generation numbers of every candidate, in the order
// Commit left them (descending). Useful as the candidate-set input to
// ConsiderTrackedSources.
func (cc *CandidateCollection) Gens() []uint64 {
	out := make([]uint64, len(cc.candidates))
	for i, c := range cc.candidates {
		out[i] = c.Gen
	}
	return out
}
