package exprmat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEntity is the minimal setOffset implementation layout_test needs
// to drive the layout engine directly without going through a real
// Entity.
type fakeEntity struct{ offset uint64 }

func (f *fakeEntity) setOffset(off uint64) { f.offset = off }

func TestLayoutEngine_PackThreeEntities(t *testing.T) {
	var l layoutEngine

	a, b, c := &fakeEntity{}, &fakeEntity{}, &fakeEntity{}

	offA := l.append(a, 4, 4)
	offB := l.append(b, 8, 8)
	offC := l.append(c, 1, 1)

	require.Equal(t, uint64(0), offA)
	require.Equal(t, uint64(8), offB)
	require.Equal(t, uint64(16), offC)

	assert.Equal(t, uint64(17), l.size())
	// struct_alignment is fixed from the *first* appended entity's
	// alignment (4), never revisited — the documented packing quirk.
	assert.Equal(t, uint64(8), l.align(), "align floors at 8 even though structAlignment==4")
	assert.Equal(t, uint64(4), l.structAlignment)
}

func TestLayoutEngine_AlignmentQuirkNotMaxOverMembers(t *testing.T) {
	var l layoutEngine

	small, big := &fakeEntity{}, &fakeEntity{}
	l.append(small, 1, 1)
	l.append(big, 8, 8)

	// If the engine took the max over all members, this would be 8.
	// It doesn't: structAlignment is pinned to the first entity's
	// alignment (1) by construction.
	assert.Equal(t, uint64(1), l.structAlignment)
	// The argument struct's own alignment still floors at 8.
	assert.Equal(t, uint64(8), l.align())
}

func TestLayoutEngine_ZeroSizeEntityOffsetsStayMonotonic(t *testing.T) {
	var l layoutEngine

	a, zero, b := &fakeEntity{}, &fakeEntity{}, &fakeEntity{}
	offA := l.append(a, 4, 4)
	offZero := l.append(zero, 0, 1)
	offB := l.append(b, 4, 4)

	assert.Equal(t, uint64(0), offA)
	assert.Equal(t, uint64(4), offZero)
	assert.Equal(t, uint64(4), offB, "a zero-size entity contributes no padding")
}

func TestLayoutEngine_Alignment1FollowingAlignment8NoPadding(t *testing.T) {
	var l layoutEngine

	big, small := &fakeEntity{}, &fakeEntity{}
	l.append(big, 8, 8)
	offSmall := l.append(small, 1, 1)

	assert.Equal(t, uint64(8), offSmall, "no padding is inserted after an 8-byte-aligned entity for an align-1 follower")
}

func TestRoundUp(t *testing.T) {
	cases := []struct{ v, align, want uint64 }{
		{0, 8, 0},
		{1, 8, 8},
		{8, 8, 8},
		{9, 8, 16},
		{3, 1, 3},
		{3, 0, 3},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, roundUp(c.v, c.align), "roundUp(%d,%d)", c.v, c.align)
	}
}
