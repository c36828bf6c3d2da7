package memtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutRoundTrip(t *testing.T) {
	want := []LayoutEntry{
		{Offset: 0, Size: 4, Alignment: 4},
		{Offset: 8, Size: 8, Alignment: 8},
		{Offset: 16, Size: 1, Alignment: 1},
	}

	encoded := EncodeLayout(want)
	require.NotEmpty(t, encoded)

	got, err := DecodeLayout(encoded)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLayoutRoundTripEmpty(t *testing.T) {
	encoded := EncodeLayout(nil)
	got, err := DecodeLayout(encoded)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLayoutDecodeTruncatedErrors(t *testing.T) {
	encoded := EncodeLayout([]LayoutEntry{{Offset: 1, Size: 2, Alignment: 4}})
	_, err := DecodeLayout(encoded[:len(encoded)-1])
	require.Error(t, err)
}
