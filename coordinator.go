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
	"bytes"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/trinitysearch/mergecore/codec"
)

// Arena is where output term bytes are copied to, so they outlive the
// input candidates' term iterators. A caller typically backs this with a
// bump allocator that is freed alongside the completed segment.
type Arena interface {
	CopyOf(b []byte) []byte
}

// TermSink receives the (term, term_index_ctx) pairs a merge produces, in
// the lexicographic order they're discovered.
type TermSink interface {
	Append(term []byte, ctx codec.TermIndexCtx)
}

// trackedCandidate pairs a Candidate with its position in the committed
// CandidateCollection, which is what ScannerRegistryFor needs and what
// must stay stable as candidates drop out of the active working set.
type trackedCandidate struct {
	originalIndex int
	candidate     Candidate
	lastTerm      []byte
}

// Merge runs the k-way term-stream merge described by cc against the
// output session is, copying emitted term bytes into arena and appending
// (term, ctx) pairs to sink. logger and metrics may be nil.
//
// cc.Commit must have already been called. Merge does not call it, so a
// caller can inspect cc.Gens() (e.g. to feed ConsiderTrackedSources) both
// before and after merging without re-sorting candidates.
func Merge(cc *CandidateCollection, is codec.IndexSession, arena Arena,
	sink TermSink, opts Options, logger logrus.FieldLogger, metrics *Metrics,
) error {
	if !cc.committed {
		panic(&InvariantViolation{Msg: "Merge called before CandidateCollection.Commit"})
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if metrics != nil {
		start := time.Now()
		defer func() { metrics.MergeDuration.Observe(time.Since(start).Seconds()) }()
	}

	active := make([]*trackedCandidate, 0, cc.Len())
	for i := 0; i < cc.Len(); i++ {
		c := cc.At(i)
		if i > 0 && c.Gen >= cc.At(i-1).Gen {
			panic(&InvariantViolation{Msg: "candidates not strictly gen-descending after Commit"})
		}
		if c.Terms != nil && !c.Terms.Done() && c.Accessor != nil {
			active = append(active, &trackedCandidate{originalIndex: i, candidate: c})
		}
	}

	if len(active) == 0 {
		return nil
	}

	outCodec := is.CodecIdentifier()
	enc := is.NewEncoder()
	hb := hitBuffer{slack: opts.hitSlack()}

	for len(active) > 0 {
		selectedIdx, toAdvance, sameCodec := selectTermGroup(active, outCodec)
		selectedTerm, _ := active[selectedIdx].candidate.Terms.Cur()
		outTerm := arena.CopyOf(selectedTerm)

		if len(toAdvance) == 1 {
			if err := mergeSingleCandidateTerm(cc, active[toAdvance[0]], outTerm,
				sameCodec, is, enc, &hb, sink, logger, metrics); err != nil {
				return errors.Wrap(err, "merge single-candidate term group")
			}
		} else if sameCodec {
			if err := mergeFastPathGroup(cc, active, toAdvance, outTerm, is, enc, sink, logger, metrics); err != nil {
				return errors.Wrap(err, "merge fast-path term group")
			}
		} else {
			if err := mergeSlowPathGroup(cc, active, toAdvance, outTerm, enc, &hb, sink, logger, metrics); err != nil {
				return errors.Wrap(err, "merge slow-path term group")
			}
		}

		if opts.FlushFreq != 0 && is.IndexSize() > opts.FlushFreq {
			maybeFlush()
		}

		active = advance(active, toAdvance)
	}

	return nil
}

// maybeFlush is the advisory durability checkpoint hook. The source
// implementation leaves this branch as `// TODO: support pending`; a
// no-op here preserves that behavior rather than inventing semantics the
// upstream code never had.
func maybeFlush() {}

// selectTermGroup walks active and returns the index of the
// lexicographically smallest current term, every index sharing that term
// (in ascending-index / descending-gen order), and whether every candidate
// in that group shares the output codec.
func selectTermGroup(active []*trackedCandidate, outCodec string) (selectedIdx int, toAdvance []int, sameCodec bool) {
	selectedTerm, _ := active[0].candidate.Terms.Cur()
	codecID := active[0].candidate.Accessor.CodecIdentifier()
	toAdvance = []int{0}
	sameCodec = codecID == outCodec

	for i := 1; i < len(active); i++ {
		term, _ := active[i].candidate.Terms.Cur()
		cmp := bytes.Compare(term, selectedTerm)

		switch {
		case cmp < 0:
			selectedTerm = term
			toAdvance = []int{i}
			codecID = active[i].candidate.Accessor.CodecIdentifier()
			sameCodec = codecID == outCodec
		case cmp == 0:
			if sameCodec {
				c := active[i].candidate.Accessor.CodecIdentifier()
				if c != codecID {
					sameCodec = false
				}
			}
			toAdvance = append(toAdvance, i)
		}
	}

	return toAdvance[0], toAdvance, sameCodec
}

func mergeSingleCandidateTerm(cc *CandidateCollection, tc *trackedCandidate, outTerm []byte,
	codecMatches bool, is codec.IndexSession, enc codec.Encoder,
	hb *hitBuffer, sink TermSink, logger logrus.FieldLogger, metrics *Metrics,
) error {
	_, ctx := tc.candidate.Terms.Cur()
	reg := cc.ScannerRegistryFor(tc.originalIndex)

	if codecMatches && reg.Empty() {
		if ctx.Documents == 0 {
			logger.WithField("component", "mergecore").Debug("zero-document term, skipping fast copy")
			metrics.observeZeroDocTerm()
			return nil
		}

		chunk := is.AppendIndexChunk(tc.candidate.Accessor, ctx)
		sink.Append(outTerm, codec.TermIndexCtx{Documents: ctx.Documents, Chunk: chunk})
		metrics.observeFastPathTerm()
		return nil
	}

	if ctx.Documents == 0 {
		logger.WithField("component", "mergecore").Debug("zero-document term, skipping")
		metrics.observeZeroDocTerm()
		return nil
	}

	dec := tc.candidate.Accessor.NewDecoder(ctx)
	dec.Begin()
	enc.BeginTerm()

	for {
		docID, freq := dec.Cur()
		if docID == codec.MaxDocID {
			panic(&InvariantViolation{Msg: "decoder returned sentinel max doc id"})
		}

		if !reg.Test(docID) {
			buf := hb.reserve(freq)
			dec.MaterializeHits(buf)
			enc.BeginDocument(docID)
			for _, h := range buf {
				enc.NewHit(h.Pos, h.Payload)
			}
			enc.EndDocument()
			metrics.observeMergedDocument()
		} else {
			metrics.observeMaskedDocument()
		}

		if !dec.Next() {
			break
		}
	}

	outCtx := enc.EndTerm()
	if outCtx.Documents > 0 {
		sink.Append(outTerm, outCtx)
		metrics.observeSlowPathTerm()
	}

	return nil
}

func mergeFastPathGroup(cc *CandidateCollection, active []*trackedCandidate, toAdvance []int,
	outTerm []byte, is codec.IndexSession, enc codec.Encoder, sink TermSink,
	logger logrus.FieldLogger, metrics *Metrics,
) error {
	participants := make([]codec.MergeParticipant, 0, len(toAdvance))

	for _, idx := range toAdvance {
		tc := active[idx]
		_, ctx := tc.candidate.Terms.Cur()
		if ctx.Documents == 0 {
			continue
		}

		reg := cc.ScannerRegistryFor(tc.originalIndex)
		participants = append(participants, codec.MergeParticipant{
			Accessor: tc.candidate.Accessor,
			Ctx:      ctx,
			Registry: reg.Release(),
		})
	}

	if len(participants) == 0 {
		return nil
	}

	enc.BeginTerm()
	if err := is.Merge(participants, enc); err != nil {
		return errors.Wrap(err, "codec-native bulk merge")
	}
	outCtx := enc.EndTerm()

	if outCtx.Documents > 0 {
		sink.Append(outTerm, outCtx)
		metrics.observeFastPathTerm()
	}

	return nil
}

type decoderEntry struct {
	dec codec.Decoder
	reg maskRegistryHandle
}

// maskRegistryHandle keeps the Test/Empty surface of a Registry available
// without importing the maskregistry package into every file, matching
// codec.MaskTest.
type maskRegistryHandle = interface {
	Test(docID uint32) bool
	Empty() bool
}

func mergeSlowPathGroup(cc *CandidateCollection, active []*trackedCandidate, toAdvance []int,
	outTerm []byte, enc codec.Encoder, hb *hitBuffer, sink TermSink,
	logger logrus.FieldLogger, metrics *Metrics,
) error {
	decoders := make([]decoderEntry, 0, len(toAdvance))

	for _, idx := range toAdvance {
		tc := active[idx]
		_, ctx := tc.candidate.Terms.Cur()
		if ctx.Documents == 0 {
			continue
		}

		dec := tc.candidate.Accessor.NewDecoder(ctx)
		reg := cc.ScannerRegistryFor(tc.originalIndex)
		dec.Begin()
		decoders = append(decoders, decoderEntry{dec: dec, reg: reg})
	}

	if len(decoders) == 0 {
		return nil
	}

	enc.BeginTerm()

	for len(decoders) > 0 {
		lowestID, _ := decoders[0].dec.Cur()
		group := []int{0}

		for i := 1; i < len(decoders); i++ {
			id, _ := decoders[i].dec.Cur()
			switch {
			case id < lowestID:
				lowestID = id
				group = []int{i}
			case id == lowestID:
				group = append(group, i)
			}
		}

		// group[0] is the lowest index in the working set, i.e. the
		// newest generation among those tied on doc id: newest wins.
		winner := decoders[group[0]]
		if !winner.reg.Test(lowestID) {
			_, freq := winner.dec.Cur()
			buf := hb.reserve(freq)
			winner.dec.MaterializeHits(buf)
			enc.BeginDocument(lowestID)
			for _, h := range buf {
				enc.NewHit(h.Pos, h.Payload)
			}
			enc.EndDocument()
			metrics.observeMergedDocument()
		} else {
			metrics.observeMaskedDocument()
		}

		for k := len(group) - 1; k >= 0; k-- {
			gi := group[k]
			if !decoders[gi].dec.Next() {
				decoders = append(decoders[:gi], decoders[gi+1:]...)
			}
		}
	}

	outCtx := enc.EndTerm()
	if outCtx.Documents > 0 {
		sink.Append(outTerm, outCtx)
		metrics.observeSlowPathTerm()
	}

	return nil
}

// advance moves every candidate in toAdvance to its next term, dropping any
// that become exhausted. toAdvance indices are processed from highest to
// lowest so earlier removals never invalidate later indices.
func advance(active []*trackedCandidate, toAdvance []int) []*trackedCandidate {
	for k := len(toAdvance) - 1; k >= 0; k-- {
		idx := toAdvance[k]
		tc := active[idx]

		if tc.lastTerm == nil {
			consumed, _ := tc.candidate.Terms.Cur()
			tc.lastTerm = consumed
		}

		tc.candidate.Terms.Next()

		if tc.candidate.Terms.Done() {
			active = append(active[:idx], active[idx+1:]...)
			continue
		}

		term, _ := tc.candidate.Terms.Cur()
		if bytes.Compare(term, tc.lastTerm) <= 0 {
			panic(&InvariantViolation{Msg: "term iterator breached lexicographic order"})
		}
		tc.lastTerm = term
	}
	return active
}

// hitBuffer is a single reusable buffer for a term's hits, grown on demand
// and never shrunk, matching the source's malloc/free-and-reallocate hit
// storage.
type hitBuffer struct {
	buf   []codec.Hit
	slack uint32
}

func (hb *hitBuffer) reserve(freq uint32) []codec.Hit {
	if freq > uint32(cap(hb.buf)) {
		hb.buf = make([]codec.Hit, freq+hb.slack)
	}
	return hb.buf[:freq]
}
