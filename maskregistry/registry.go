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

package maskregistry

import "github.com/weaviate/sroar"

// Registry answers membership tests against a fixed prefix of masked-document
// bitmaps. It holds a view (a Go slice header) over that prefix rather than
// copying it, so constructing a Registry is cheap and safe to do once per
// candidate, per merge.
type Registry struct {
	prefix []*sroar.Bitmap
}

// New builds a Registry over prefix[0:n]. It does not copy prefix; the
// caller (mergecore.CandidateCollection) must keep the backing array alive
// for the lifetime of the merge.
func New(prefix []*sroar.Bitmap, n int) *Registry {
	return &Registry{prefix: prefix[:n]}
}

// Empty reports whether this registry has no masks to apply at all, which
// is the common case and enables the merge coordinator's fast copy path.
func (r *Registry) Empty() bool {
	if r == nil {
		return true
	}
	return len(r.prefix) == 0
}

// Test reports whether docID is suppressed by any bitmap in the prefix.
func (r *Registry) Test(docID uint32) bool {
	if r.Empty() {
		return false
	}
	id := uint64(docID)
	for _, b := range r.prefix {
		if b != nil && b.Contains(id) {
			return true
		}
	}
	return false
}

// Owned is a Registry whose lifetime has been transferred to a callee, most
// notably a codec-native bulk merge (see codec.IndexSession.Merge). The
// merge core acquires one fresh per participant via
// CandidateCollection.ScannerRegistryFor and passes it by value into the
// participant list; nothing further needs to be released because Registry
// holds no resources beyond the borrowed slice view, but the type exists to
// make the ownership-transfer contract explicit in code rather than only in
// comments, matching the "moved" semantics the original merge core assigns
// to masked_documents_registry::release().
type Owned struct {
	*Registry
}

// Release hands off ownership of the registry to a callee. After Release
// the caller must not use r again.
func (r *Registry) Release() Owned {
	return Owned{Registry: r}
}

// Union materializes the flattened bitmap of everything this registry
// suppresses. Codec-native bulk merges that want to intersect a whole
// posting list against the mask in one shot (rather than testing doc ids
// one at a time) can use this instead of repeated Test calls.
func (r *Registry) Union() *sroar.Bitmap {
	out := sroar.NewBitmap()
	if r.Empty() {
		return out
	}
	for _, b := range r.prefix {
		if b != nil {
			out.Or(b)
		}
	}
	return out
}
