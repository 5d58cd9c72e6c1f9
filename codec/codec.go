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

// Package codec declares the collaborator interfaces the merge core consumes
// but never implements: term iterators, postings decoders/encoders, and the
// index sessions that own an output segment. The concrete byte layout behind
// any of these is a codec's own business; the merge core only ever calls
// through these interfaces.
package codec

import "math"

// MaxDocID is the sentinel value a decoder must never return as a live
// document id. Seeing it during a merge is an invariant violation.
const MaxDocID = math.MaxUint32

// TermIndexCtx is the opaque descriptor of a term's postings location within
// a segment, plus the one piece of information the merge core needs to make
// decisions without decoding: how many documents the term has.
type TermIndexCtx struct {
	Documents uint32
	Chunk     any
}

// Hit is a single occurrence of a term within a document.
type Hit struct {
	Pos     uint32
	Payload []byte
}

// TermIterator produces a lazy, finite, non-restartable, strictly
// lexicographically ascending sequence of (term, ctx) pairs. No duplicate
// term may appear twice within one iterator.
type TermIterator interface {
	// Cur returns the current pair. It must not be called after Done
	// reports true.
	Cur() (term []byte, ctx TermIndexCtx)
	// Next advances the iterator.
	Next()
	// Done reports whether the iterator is exhausted.
	Done() bool
}

// PostingsAccessor instantiates decoders for one segment. A candidate
// without a PostingsAccessor contributes only a deletion mask; its
// TermIterator, if any, must never be advanced.
type PostingsAccessor interface {
	CodecIdentifier() string
	NewDecoder(ctx TermIndexCtx) Decoder
}

// Decoder produces a lazy, finite sequence of postings for one term, in
// strictly ascending document-id order.
type Decoder interface {
	// Begin positions the decoder at the first document. It must be called
	// exactly once before Cur/Next.
	Begin()
	// Cur returns the current document id and its hit frequency.
	Cur() (docID uint32, freq uint32)
	// Next advances to the next document, reporting false when exhausted.
	Next() bool
	// MaterializeHits writes the freq hits for the current document into
	// buf, which the caller guarantees has capacity >= freq.
	MaterializeHits(buf []Hit)
}

// Encoder accepts a stream of begin_term -> (begin_document -> new_hit* ->
// end_document)* -> end_term for one term, with document ids strictly
// ascending within the term.
type Encoder interface {
	BeginTerm()
	BeginDocument(docID uint32)
	NewHit(pos uint32, payload []byte)
	EndDocument()
	// EndTerm finalizes the term and reports how many documents it holds.
	EndTerm() TermIndexCtx
}

// MergeParticipant is one input to a codec-native bulk merge: a source
// segment's accessor, the term's location within it, and the registry that
// must be applied to filter its postings. Ownership of Registry passes to
// the callee for the duration of the call (see maskregistry.Owned).
type MergeParticipant struct {
	Accessor PostingsAccessor
	Ctx      TermIndexCtx
	Registry MaskTest
}

// MaskTest is the minimal membership contract the codec-native bulk merge
// needs from a masked-documents registry, kept here (rather than importing
// package maskregistry) so codec implementations don't need to depend on
// the merge core's registry representation.
type MaskTest interface {
	Test(docID uint32) bool
	Empty() bool
}

// IndexSession is the output side of a merge: it owns the destination
// segment being written.
type IndexSession interface {
	CodecIdentifier() string
	NewEncoder() Encoder
	// AppendIndexChunk performs a byte-level pass-through copy of one
	// term's postings from src into the output segment. Valid only when
	// src's codec matches this session's codec.
	AppendIndexChunk(src PostingsAccessor, ctx TermIndexCtx) any
	// Merge runs a codec-native bulk merge of participants (all sharing
	// this session's codec) into enc, within a single begin_term/end_term
	// bracket owned by the caller.
	Merge(participants []MergeParticipant, enc Encoder) error
	// IndexSize reports the current byte size of the output, used for the
	// advisory flush-frequency hint.
	IndexSize() uint64
}
