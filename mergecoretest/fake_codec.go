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

// Package mergecoretest provides an in-memory, uncompressed fake codec used
// to exercise mergecore.Merge in tests without depending on any real
// on-disk postings format. It plays the role the "asserting" test-framework
// segments and cursors play for a Lucene-style search core: a minimal,
// fully in-process stand-in for the collaborator interfaces.
package mergecoretest

import (
	"bytes"
	"sort"

	"github.com/trinitysearch/mergecore/codec"
)

// Doc is one posting: a document id and its hits, in the shape the fake
// codec stores and returns them.
type Doc struct {
	ID   uint32
	Hits []codec.Hit
}

// Term is one term's postings within a fake segment.
type Term struct {
	Term string
	Docs []Doc
}

// TermIter is a codec.TermIterator over a fixed, pre-sorted slice of Term.
// Terms must already be in ascending lexicographic order; NewAccessor
// enforces this.
type TermIter struct {
	terms []Term
	pos   int
}

func (it *TermIter) Cur() ([]byte, codec.TermIndexCtx) {
	t := it.terms[it.pos]
	return []byte(t.Term), codec.TermIndexCtx{Documents: uint32(len(t.Docs)), Chunk: t.Docs}
}

func (it *TermIter) Next() { it.pos++ }

func (it *TermIter) Done() bool { return it.pos >= len(it.terms) }

// Accessor is a codec.PostingsAccessor over a fixed set of terms tagged
// with a codec identifier.
type Accessor struct {
	CodecID string
	Terms   []Term
}

// NewAccessor builds an Accessor and a fresh TermIter over it, sorting
// terms lexicographically as a real segment's term dictionary would
// already guarantee.
func NewAccessor(codecID string, terms []Term) (*Accessor, *TermIter) {
	sorted := make([]Term, len(terms))
	copy(sorted, terms)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Term < sorted[j].Term })

	for _, t := range sorted {
		sort.Slice(t.Docs, func(i, j int) bool { return t.Docs[i].ID < t.Docs[j].ID })
	}

	return &Accessor{CodecID: codecID, Terms: sorted}, &TermIter{terms: sorted}
}

func (a *Accessor) CodecIdentifier() string { return a.CodecID }

func (a *Accessor) NewDecoder(ctx codec.TermIndexCtx) codec.Decoder {
	docs, _ := ctx.Chunk.([]Doc)
	return &Decoder{docs: docs}
}

// Decoder walks a fixed slice of Doc in ascending id order.
type Decoder struct {
	docs []Doc
	pos  int
}

func (d *Decoder) Begin() { d.pos = 0 }

func (d *Decoder) Cur() (docID uint32, freq uint32) {
	doc := d.docs[d.pos]
	return doc.ID, uint32(len(doc.Hits))
}

func (d *Decoder) Next() bool {
	d.pos++
	return d.pos < len(d.docs)
}

func (d *Decoder) MaterializeHits(buf []codec.Hit) {
	copy(buf, d.docs[d.pos].Hits)
}

// Encoder accumulates postings for whatever term is currently open. It is
// created once per IndexSession and reused across many begin_term/end_term
// brackets, exactly as the real merge coordinator does with the codec's
// production encoder.
type Encoder struct {
	curDocs  []Doc
	curID    uint32
	curHits  []codec.Hit
	building bool
}

func (e *Encoder) BeginTerm() {
	e.curDocs = nil
}

func (e *Encoder) BeginDocument(docID uint32) {
	e.curID = docID
	e.curHits = nil
	e.building = true
}

func (e *Encoder) NewHit(pos uint32, payload []byte) {
	cp := append([]byte(nil), payload...)
	e.curHits = append(e.curHits, codec.Hit{Pos: pos, Payload: cp})
}

func (e *Encoder) EndDocument() {
	e.curDocs = append(e.curDocs, Doc{ID: e.curID, Hits: e.curHits})
	e.building = false
}

func (e *Encoder) EndTerm() codec.TermIndexCtx {
	docs := e.curDocs
	e.curDocs = nil
	return codec.TermIndexCtx{Documents: uint32(len(docs)), Chunk: docs}
}

// IndexSession is the fake output session: an uncompressed in-memory
// segment builder tagged with its own codec identifier.
type IndexSession struct {
	CodecID string

	AppendedChunks int
	BulkMerges     int
	size           uint64
}

func NewIndexSession(codecID string) *IndexSession {
	return &IndexSession{CodecID: codecID}
}

func (s *IndexSession) CodecIdentifier() string { return s.CodecID }

func (s *IndexSession) NewEncoder() codec.Encoder { return &Encoder{} }

// AppendIndexChunk is only ever called by the coordinator when the source
// accessor's codec matches this session's, so it can just hand the source
// chunk back unchanged -- a real codec would copy raw bytes instead.
func (s *IndexSession) AppendIndexChunk(src codec.PostingsAccessor, ctx codec.TermIndexCtx) any {
	s.AppendedChunks++
	s.size += uint64(ctx.Documents)
	return ctx.Chunk
}

// Merge runs a doc-id k-way merge across participants, applying each
// participant's registry and keeping the newest generation's postings on a
// tie -- participants must already be ordered gen-descending, exactly as
// mergecore.Merge constructs them.
func (s *IndexSession) Merge(participants []codec.MergeParticipant, enc codec.Encoder) error {
	s.BulkMerges++

	type cursor struct {
		dec codec.Decoder
		reg codec.MaskTest
	}

	cursors := make([]cursor, 0, len(participants))
	for _, p := range participants {
		dec := p.Accessor.NewDecoder(p.Ctx)
		dec.Begin()
		cursors = append(cursors, cursor{dec: dec, reg: p.Registry})
	}

	for len(cursors) > 0 {
		lowestID, _ := cursors[0].dec.Cur()
		group := []int{0}

		for i := 1; i < len(cursors); i++ {
			id, _ := cursors[i].dec.Cur()
			switch {
			case id < lowestID:
				lowestID = id
				group = []int{i}
			case id == lowestID:
				group = append(group, i)
			}
		}

		winner := cursors[group[0]]
		if !winner.reg.Test(lowestID) {
			_, freq := winner.dec.Cur()
			buf := make([]codec.Hit, freq)
			winner.dec.MaterializeHits(buf)
			enc.BeginDocument(lowestID)
			for _, h := range buf {
				enc.NewHit(h.Pos, h.Payload)
			}
			enc.EndDocument()
		}

		for k := len(group) - 1; k >= 0; k-- {
			gi := group[k]
			if !cursors[gi].dec.Next() {
				cursors = append(cursors[:gi], cursors[gi+1:]...)
			}
		}
	}

	return nil
}

func (s *IndexSession) IndexSize() uint64 { return s.size }

// Arena is the trivial copying arena: it makes an owned copy of every
// slice, which is all a real bump allocator's CopyOf needs to guarantee.
type Arena struct{}

func (Arena) CopyOf(b []byte) []byte { return append([]byte(nil), b...) }

// SinkEntry is one captured (term, ctx) pair.
type SinkEntry struct {
	Term string
	Ctx  codec.TermIndexCtx
}

// Sink is a TermSink that records every emitted term for inspection.
type Sink struct {
	Entries []SinkEntry
}

func (s *Sink) Append(term []byte, ctx codec.TermIndexCtx) {
	s.Entries = append(s.Entries, SinkEntry{Term: string(term), Ctx: ctx})
}

// DocIDs extracts the document ids from an entry's chunk, in whatever
// order Encoder appended them (which Merge guarantees is ascending).
func (e SinkEntry) DocIDs() []uint32 {
	docs, _ := e.Ctx.Chunk.([]Doc)
	ids := make([]uint32, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids
}

// HitsFor returns the hits recorded for docID within this entry, or nil if
// docID isn't present.
func (e SinkEntry) HitsFor(docID uint32) []codec.Hit {
	docs, _ := e.Ctx.Chunk.([]Doc)
	for _, d := range docs {
		if d.ID == docID {
			return d.Hits
		}
	}
	return nil
}

// TermsAscending reports whether the recorded terms are in strict
// lexicographic order.
func (s *Sink) TermsAscending() bool {
	for i := 1; i < len(s.Entries); i++ {
		if bytes.Compare([]byte(s.Entries[i].Term), []byte(s.Entries[i-1].Term)) <= 0 {
			return false
		}
	}
	return true
}
