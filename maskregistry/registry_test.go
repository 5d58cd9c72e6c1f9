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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/weaviate/sroar"
)

func TestRegistryEmpty(t *testing.T) {
	r := New(nil, 0)
	assert.True(t, r.Empty())
	assert.False(t, r.Test(42))
}

func TestRegistryComposesPrefix(t *testing.T) {
	genNewest := sroar.NewBitmap()
	genNewest.Set(20)

	genMiddle := sroar.NewBitmap()
	genMiddle.Set(30)

	all := []*sroar.Bitmap{genNewest, genMiddle}

	// candidate 0 (the newest) sees nothing newer than itself
	r0 := New(all, 0)
	assert.True(t, r0.Empty())

	// candidate 1 sees only genNewest's mask
	r1 := New(all, 1)
	assert.False(t, r1.Empty())
	assert.True(t, r1.Test(20))
	assert.False(t, r1.Test(30))

	// candidate 2 sees both
	r2 := New(all, 2)
	assert.True(t, r2.Test(20))
	assert.True(t, r2.Test(30))
	assert.False(t, r2.Test(10))
}

func TestRegistryUnion(t *testing.T) {
	a := sroar.NewBitmap()
	a.Set(1)
	b := sroar.NewBitmap()
	b.Set(2)

	r := New([]*sroar.Bitmap{a, b}, 2)
	u := r.Union()

	assert.True(t, u.Contains(1))
	assert.True(t, u.Contains(2))
	assert.False(t, u.Contains(3))
}

func TestNilRegistryIsEmpty(t *testing.T) {
	var r *Registry
	assert.True(t, r.Empty())
	assert.False(t, r.Test(1))
}
