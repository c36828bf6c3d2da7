package exprmat

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tetratelabs/exprmat/internal/memtest"
)

// A result entity with no prior allocation scratch-allocates its slot
// on materialize, then on dematerialize mints a new persistent
// variable from the bytes left there and frees the scratch region.
func TestResultEntity_MaterializeAllocatesAndMintsPersistentVariable(t *testing.T) {
	space, _, frame := newTestSpace(t)

	m := NewMaterializer()
	off := m.AddResult(memtest.Type{Size: 4, Align: 32}, false, false)

	structAddr, err := space.Malloc(m.Size(), m.Align(), PermRead|PermWrite, PolicyMirror)
	require.NoError(t, err)

	dem, err := m.Materialize(frame, space, structAddr)
	require.NoError(t, err)

	resultAddr, err := space.ReadPointerFromMemory(structAddr + off)
	require.NoError(t, err)
	require.NotZero(t, resultAddr)

	want := make([]byte, 4)
	binary.LittleEndian.PutUint32(want, 0xDEADBEEF)
	require.NoError(t, space.WriteMemory(resultAddr, want))

	resultVar, err := dem.Dematerialize(0, 0)
	require.NoError(t, err)
	require.NotNil(t, resultVar)
	require.Equal(t, want, resultVar.Data)
	require.True(t, resultVar.NeedsAllocation)
	require.Equal(t, []uint64{structAddr}, space.LiveAllocations(), "scratch result slot is freed once keep_in_memory is false")
}

func TestResultEntity_KeepInMemoryMarksLLDBAllocated(t *testing.T) {
	space, _, frame := newTestSpace(t)

	m := NewMaterializer()
	off := m.AddResult(memtest.Type{Size: 4, Align: 32}, false, true)

	structAddr, err := space.Malloc(m.Size(), m.Align(), PermRead|PermWrite, PolicyMirror)
	require.NoError(t, err)

	dem, err := m.Materialize(frame, space, structAddr)
	require.NoError(t, err)

	resultAddr, err := space.ReadPointerFromMemory(structAddr + off)
	require.NoError(t, err)

	resultVar, err := dem.Dematerialize(0, 0)
	require.NoError(t, err)
	require.True(t, resultVar.IsLLDBAllocated)
	require.False(t, resultVar.NeedsAllocation)
	require.Contains(t, space.LiveAllocations(), resultAddr, "keep_in_memory keeps the allocation alive")
}

func TestResultEntity_ProgramReferenceMaterializeIsNoOp(t *testing.T) {
	space, _, frame := newTestSpace(t)

	m := NewMaterializer()
	off := m.AddResult(memtest.Type{Size: 4, Align: 32}, true, false)

	structAddr, err := space.Malloc(m.Size(), m.Align(), PermRead|PermWrite, PolicyMirror)
	require.NoError(t, err)

	// Pre-fill the slot, simulating the compiled expression writing a
	// program address directly (materialize must not touch it).
	require.NoError(t, space.WritePointerToMemory(structAddr+off, 0x1234))

	_, err = m.Materialize(frame, space, structAddr)
	require.NoError(t, err)

	got, err := space.ReadPointerFromMemory(structAddr + off)
	require.NoError(t, err)
	require.Equal(t, uint64(0x1234), got, "materialize left the expression-written address untouched")
	require.Equal(t, []uint64{structAddr}, space.LiveAllocations())
}

func TestResultEntity_GenericDematerializeIsWrongEntry(t *testing.T) {
	e := newResultEntity(memtest.Type{Size: 4, Align: 32}, false, false)
	err := e.Dematerialize(nil, nil, 0, 0, 0)
	require.ErrorIs(t, err, ErrWrongEntry)
}
