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

// Package mergecore consolidates a set of previously built, immutable
// segments into a single output segment while honoring per-generation
// deletion masks. It is organized around three collaborating pieces: a
// CandidateCollection that owns the ordered input segments and their mask
// prefixes, a Merge function that runs the k-way term/document merge, and
// ConsiderTrackedSources, which decides what happens to prior generations
// once a merge lands.
//
// The package never opens files or decides on compression: it consumes the
// codec package's interfaces and leaves byte layout, query execution, and
// catalog bookkeeping to its callers.
package mergecore
