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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateCollection_CommitSortsDescending(t *testing.T) {
	cc := NewCandidateCollection([]Candidate{
		{Gen: 1},
		{Gen: 5},
		{Gen: 3},
	})
	cc.Commit()

	require.Equal(t, 3, cc.Len())
	assert.Equal(t, []uint64{5, 3, 1}, cc.Gens())
}

func TestCandidateCollection_MaskPrefixComposition(t *testing.T) {
	cc := NewCandidateCollection([]Candidate{
		{Gen: 3, MaskedDocuments: maskOf(100)},
		{Gen: 2}, // no mask
		{Gen: 1, MaskedDocuments: maskOf(200)},
	})
	cc.Commit()

	// gen 3 is the newest: nothing is newer than it.
	assert.True(t, cc.ScannerRegistryFor(0).Empty())

	// gen 2 sees only gen 3's mask.
	r1 := cc.ScannerRegistryFor(1)
	assert.True(t, r1.Test(100))
	assert.False(t, r1.Test(200))

	// gen 1 sees gen 3's mask; gen 2 contributed no mask set at all.
	r2 := cc.ScannerRegistryFor(2)
	assert.True(t, r2.Test(100))
	assert.False(t, r2.Test(200)) // gen 1's own mask never applies to itself
}

func TestCandidateCollection_EmptyMaskSetsAreExcludedFromPrefix(t *testing.T) {
	empty := maskOf() // no bits set

	cc := NewCandidateCollection([]Candidate{
		{Gen: 2, MaskedDocuments: empty},
		{Gen: 1},
	})
	cc.Commit()

	// candidate 1 should see no masks at all: candidate 0's mask set was
	// empty and must not have been appended to the prefix.
	assert.True(t, cc.ScannerRegistryFor(1).Empty())
}
