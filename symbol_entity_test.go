package exprmat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tetratelabs/exprmat/internal/memtest"
)

func TestSymbolEntity_WritesLoadAddressWhenAvailable(t *testing.T) {
	space, _, frame := newTestSpace(t)

	sym := &memtest.Symbol{SymName: "main.counter", HasLoad: true, LoadAddr: 0x4096}

	m := NewMaterializer()
	off := m.AddSymbol(sym)

	structAddr, err := space.Malloc(m.Size(), m.Align(), PermRead|PermWrite, PolicyMirror)
	require.NoError(t, err)

	_, err = m.Materialize(frame, space, structAddr)
	require.NoError(t, err)

	got, err := space.ReadPointerFromMemory(structAddr + off)
	require.NoError(t, err)
	require.Equal(t, uint64(0x4096), got)
}

func TestSymbolEntity_FallsBackToFileAddress(t *testing.T) {
	space, _, frame := newTestSpace(t)

	sym := &memtest.Symbol{SymName: "main.fallback", HasLoad: false, FileAddr: 0x100}

	m := NewMaterializer()
	off := m.AddSymbol(sym)

	structAddr, err := space.Malloc(m.Size(), m.Align(), PermRead|PermWrite, PolicyMirror)
	require.NoError(t, err)

	_, err = m.Materialize(frame, space, structAddr)
	require.NoError(t, err)

	got, err := space.ReadPointerFromMemory(structAddr + off)
	require.NoError(t, err)
	require.Equal(t, uint64(0x100), got)
}
