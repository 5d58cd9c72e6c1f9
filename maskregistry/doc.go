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

// Package maskregistry answers one question during a segment merge: "is
// document d masked (logically deleted) by any generation newer than the
// one currently being read?"
//
// Every candidate generation may carry its own deletion set, represented as
// a [github.com/weaviate/sroar.Bitmap]. When merging an older generation,
// the deletions of every strictly newer generation apply to it, but never
// the other way round. Rather than rebuild a combined bitmap for every one
// of the (fewer than 65535) candidates from scratch, mergecore.CandidateCollection
// precomputes a single flat, descending-gen-ordered slice of bitmaps once in
// Commit, and hands each candidate a Registry over the prefix of that
// slice that belongs to strictly newer generations. Constructing a Registry
// is therefore O(1) (it only reslices), and each Test is O(k) in the number
// of newer masked generations, never O(n) in the total candidate count.
package maskregistry
