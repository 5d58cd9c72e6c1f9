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
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weaviate/sroar"

	"github.com/trinitysearch/mergecore/codec"
	"github.com/trinitysearch/mergecore/mergecoretest"
)

func hit(pos uint32) codec.Hit {
	return codec.Hit{Pos: pos, Payload: []byte{byte(pos)}}
}

func maskOf(ids ...uint64) *sroar.Bitmap {
	b := sroar.NewBitmap()
	for _, id := range ids {
		b.Set(id)
	}
	return b
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l.WithField("test", true)
}

// E1: two same-codec candidates share a term; newest generation wins on
// the overlapping document, and non-overlapping documents from both
// survive.
func TestMerge_E1_FastPathNewestWins(t *testing.T) {
	accG2, itG2 := mergecoretest.NewAccessor("v1", []mergecoretest.Term{
		{Term: "apple", Docs: []mergecoretest.Doc{
			{ID: 10, Hits: []codec.Hit{hit(1)}},
			{ID: 20, Hits: []codec.Hit{hit(2)}},
		}},
	})
	accG1, itG1 := mergecoretest.NewAccessor("v1", []mergecoretest.Term{
		{Term: "apple", Docs: []mergecoretest.Doc{
			{ID: 10, Hits: []codec.Hit{hit(99)}},
			{ID: 30, Hits: []codec.Hit{hit(3)}},
		}},
	})

	cc := NewCandidateCollection([]Candidate{
		{Gen: 2, Terms: itG2, Accessor: accG2},
		{Gen: 1, Terms: itG1, Accessor: accG1},
	})
	cc.Commit()

	is := mergecoretest.NewIndexSession("v1")
	sink := &mergecoretest.Sink{}

	err := Merge(cc, is, mergecoretest.Arena{}, sink, Options{}, discardLogger(), nil)
	require.NoError(t, err)
	require.Len(t, sink.Entries, 1)

	e := sink.Entries[0]
	assert.Equal(t, "apple", e.Term)
	assert.Equal(t, []uint32{10, 20, 30}, e.DocIDs())
	assert.Equal(t, []codec.Hit{hit(1)}, e.HitsFor(10)) // gen 2's hits win
	assert.Equal(t, 1, is.BulkMerges)
}

// E2: gen 2 masks document 20, but a generation's own mask never applies
// to its own postings -- only to strictly older generations.
func TestMerge_E2_OwnMaskDoesNotSuppressSelf(t *testing.T) {
	accG2, itG2 := mergecoretest.NewAccessor("v1", []mergecoretest.Term{
		{Term: "apple", Docs: []mergecoretest.Doc{
			{ID: 10, Hits: []codec.Hit{hit(1)}},
			{ID: 20, Hits: []codec.Hit{hit(2)}},
		}},
	})
	accG1, itG1 := mergecoretest.NewAccessor("v1", []mergecoretest.Term{
		{Term: "apple", Docs: []mergecoretest.Doc{
			{ID: 10, Hits: []codec.Hit{hit(99)}},
			{ID: 30, Hits: []codec.Hit{hit(3)}},
		}},
	})

	cc := NewCandidateCollection([]Candidate{
		{Gen: 2, Terms: itG2, Accessor: accG2, MaskedDocuments: maskOf(20)},
		{Gen: 1, Terms: itG1, Accessor: accG1},
	})
	cc.Commit()

	is := mergecoretest.NewIndexSession("v1")
	sink := &mergecoretest.Sink{}

	require.NoError(t, Merge(cc, is, mergecoretest.Arena{}, sink, Options{}, discardLogger(), nil))
	require.Len(t, sink.Entries, 1)
	assert.Equal(t, []uint32{10, 20, 30}, sink.Entries[0].DocIDs())
}

// E3: output term order follows the merge-sort of two disjoint-ish term
// streams, which must itself be lexicographic.
func TestMerge_E3_LexicographicTermOrder(t *testing.T) {
	accA, itA := mergecoretest.NewAccessor("v1", []mergecoretest.Term{
		{Term: "b", Docs: []mergecoretest.Doc{{ID: 1, Hits: []codec.Hit{hit(1)}}}},
		{Term: "d", Docs: []mergecoretest.Doc{{ID: 2, Hits: []codec.Hit{hit(1)}}}},
	})
	accB, itB := mergecoretest.NewAccessor("v1", []mergecoretest.Term{
		{Term: "a", Docs: []mergecoretest.Doc{{ID: 3, Hits: []codec.Hit{hit(1)}}}},
		{Term: "c", Docs: []mergecoretest.Doc{{ID: 4, Hits: []codec.Hit{hit(1)}}}},
		{Term: "d", Docs: []mergecoretest.Doc{{ID: 5, Hits: []codec.Hit{hit(1)}}}},
	})

	cc := NewCandidateCollection([]Candidate{
		{Gen: 2, Terms: itA, Accessor: accA},
		{Gen: 1, Terms: itB, Accessor: accB},
	})
	cc.Commit()

	is := mergecoretest.NewIndexSession("v1")
	sink := &mergecoretest.Sink{}

	require.NoError(t, Merge(cc, is, mergecoretest.Arena{}, sink, Options{}, discardLogger(), nil))
	require.True(t, sink.TermsAscending())

	var terms []string
	for _, e := range sink.Entries {
		terms = append(terms, e.Term)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, terms)
}

// E4: mixed codecs across three candidates force the slow decode/re-encode
// path; document ids are merged in ascending order and each overlap is won
// by the newest generation.
func TestMerge_E4_SlowPathMixedCodecs(t *testing.T) {
	acc3, it3 := mergecoretest.NewAccessor("codecA", []mergecoretest.Term{
		{Term: "x", Docs: []mergecoretest.Doc{{ID: 5, Hits: []codec.Hit{hit(30)}}}},
	})
	acc2, it2 := mergecoretest.NewAccessor("codecB", []mergecoretest.Term{
		{Term: "x", Docs: []mergecoretest.Doc{
			{ID: 5, Hits: []codec.Hit{hit(20)}},
			{ID: 7, Hits: []codec.Hit{hit(21)}},
		}},
	})
	acc1, it1 := mergecoretest.NewAccessor("codecC", []mergecoretest.Term{
		{Term: "x", Docs: []mergecoretest.Doc{
			{ID: 7, Hits: []codec.Hit{hit(10)}},
			{ID: 9, Hits: []codec.Hit{hit(11)}},
		}},
	})

	cc := NewCandidateCollection([]Candidate{
		{Gen: 3, Terms: it3, Accessor: acc3},
		{Gen: 2, Terms: it2, Accessor: acc2},
		{Gen: 1, Terms: it1, Accessor: acc1},
	})
	cc.Commit()

	is := mergecoretest.NewIndexSession("codecOut")
	sink := &mergecoretest.Sink{}

	require.NoError(t, Merge(cc, is, mergecoretest.Arena{}, sink, Options{}, discardLogger(), nil))
	require.Len(t, sink.Entries, 1)

	e := sink.Entries[0]
	assert.Equal(t, []uint32{5, 7, 9}, e.DocIDs())
	assert.Equal(t, []codec.Hit{hit(30)}, e.HitsFor(5))
	assert.Equal(t, []codec.Hit{hit(21)}, e.HitsFor(7))
	assert.Equal(t, 0, is.BulkMerges) // mixed codecs never hit the fast path
}

// E5: a term with zero documents is dropped entirely, never reaching the
// sink.
func TestMerge_E5_ZeroDocumentTermDropped(t *testing.T) {
	acc, it := mergecoretest.NewAccessor("v1", []mergecoretest.Term{
		{Term: "empty", Docs: nil},
		{Term: "full", Docs: []mergecoretest.Doc{{ID: 1, Hits: []codec.Hit{hit(1)}}}},
	})

	cc := NewCandidateCollection([]Candidate{{Gen: 1, Terms: it, Accessor: acc}})
	cc.Commit()

	is := mergecoretest.NewIndexSession("v1")
	sink := &mergecoretest.Sink{}

	require.NoError(t, Merge(cc, is, mergecoretest.Arena{}, sink, Options{}, discardLogger(), nil))
	require.Len(t, sink.Entries, 1)
	assert.Equal(t, "full", sink.Entries[0].Term)
}

// A single candidate with no mask and a matching codec takes the byte-level
// pass-through fast copy path, never allocating a decoder.
func TestMerge_SingleCandidateFastCopy(t *testing.T) {
	acc, it := mergecoretest.NewAccessor("v1", []mergecoretest.Term{
		{Term: "solo", Docs: []mergecoretest.Doc{{ID: 1, Hits: []codec.Hit{hit(1)}}}},
	})

	cc := NewCandidateCollection([]Candidate{{Gen: 1, Terms: it, Accessor: acc}})
	cc.Commit()

	is := mergecoretest.NewIndexSession("v1")
	sink := &mergecoretest.Sink{}

	require.NoError(t, Merge(cc, is, mergecoretest.Arena{}, sink, Options{}, discardLogger(), nil))
	require.Len(t, sink.Entries, 1)
	assert.Equal(t, 1, is.AppendedChunks)
}

// A mask-only candidate (no accessor) never enters the active working set,
// so its terms are never touched even if present.
func TestMerge_MaskOnlyCandidateNeverIterated(t *testing.T) {
	acc, it := mergecoretest.NewAccessor("v1", []mergecoretest.Term{
		{Term: "a", Docs: []mergecoretest.Doc{{ID: 1, Hits: []codec.Hit{hit(1)}}}},
	})

	maskOnlyIter := &neverTouchedIterator{t: t}

	cc := NewCandidateCollection([]Candidate{
		{Gen: 2, Terms: maskOnlyIter, Accessor: nil, MaskedDocuments: maskOf(99)},
		{Gen: 1, Terms: it, Accessor: acc},
	})
	cc.Commit()

	is := mergecoretest.NewIndexSession("v1")
	sink := &mergecoretest.Sink{}

	require.NoError(t, Merge(cc, is, mergecoretest.Arena{}, sink, Options{}, discardLogger(), nil))
	require.Len(t, sink.Entries, 1)
	assert.Equal(t, []uint32{1}, sink.Entries[0].DocIDs())
}

type neverTouchedIterator struct{ t *testing.T }

func (n *neverTouchedIterator) Cur() ([]byte, codec.TermIndexCtx) {
	n.t.Fatal("mask-only candidate's term iterator must never be read")
	return nil, codec.TermIndexCtx{}
}

func (n *neverTouchedIterator) Next() { n.t.Fatal("mask-only candidate's term iterator must never advance") }

func (n *neverTouchedIterator) Done() bool { return false }

func TestMerge_TooManyCandidatesPanics(t *testing.T) {
	candidates := make([]Candidate, MaxCandidates)
	cc := NewCandidateCollection(candidates)

	assert.Panics(t, func() { cc.Commit() })
}
