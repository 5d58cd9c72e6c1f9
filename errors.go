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

import "fmt"

// InvariantViolation marks a breach of a hard invariant the merge core
// relies on to be correct: MaxCandidates or more candidates, a
// non-descending generation order after Commit, or a decoder returning the
// sentinel maximum document id. These are programmer errors in a
// collaborator, not recoverable runtime conditions, so the coordinator
// panics rather than threading an error return through every call site;
// callers that need to isolate a merge should recover at the goroutine
// boundary.
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("mergecore: invariant violation: %s", e.Msg)
}
