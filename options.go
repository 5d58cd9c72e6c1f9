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

// Options tunes a single Merge invocation. Zero-value Options is safe: no
// flush hint fires and the hit buffer starts empty.
type Options struct {
	// FlushFreq, if non-zero, is a byte-size threshold on the output
	// index; the coordinator checks it after every term group and calls
	// the (currently advisory, no-op) flush hook when crossed.
	FlushFreq uint64

	// HitSlack pads the hit buffer's capacity beyond the largest freq seen
	// so far, amortizing reallocation. Matches the source implementation's
	// fixed +128 slack when left at zero.
	HitSlack uint32
}

const defaultHitSlack = 128

func (o Options) hitSlack() uint32 {
	if o.HitSlack == 0 {
		return defaultHitSlack
	}
	return o.HitSlack
}
