package exprmat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tetratelabs/exprmat/internal/memtest"
)

// A register's bytes are copied into its slot on materialize and
// written back to the register on dematerialize.
func TestRegisterEntity_RoundTrip(t *testing.T) {
	space, _, frame := newTestSpace(t)

	initial, err := memtest.RegisterBytes("0000000000001111")
	require.NoError(t, err)
	frame.Regs.Set("rax", initial)

	m := NewMaterializer()
	info := RegisterInfo{Name: "rax", ByteSize: 8}
	off := m.AddRegister(info)

	structAddr, err := space.Malloc(m.Size(), m.Align(), PermRead|PermWrite, PolicyMirror)
	require.NoError(t, err)

	dem, err := m.Materialize(frame, space, structAddr)
	require.NoError(t, err)

	slot := make([]byte, 8)
	require.NoError(t, space.ReadMemory(slot, structAddr+off))
	require.Equal(t, initial, slot)

	mutated, err := memtest.RegisterBytes("0000000000002222")
	require.NoError(t, err)
	require.NoError(t, space.WriteMemory(structAddr+off, mutated))

	_, err = dem.Dematerialize(0, 0)
	require.NoError(t, err)

	require.Equal(t, mutated, frame.Regs.Get("rax"))
}

func TestRegisterEntity_NoFrame(t *testing.T) {
	space, _, _ := newTestSpace(t)

	m := NewMaterializer()
	info := RegisterInfo{Name: "rax", ByteSize: 8}
	m.AddRegister(info)

	structAddr, err := space.Malloc(m.Size(), m.Align(), PermRead|PermWrite, PolicyMirror)
	require.NoError(t, err)

	_, err = m.Materialize(nil, space, structAddr)
	require.ErrorIs(t, err, ErrNoFrame)
}

func TestRegisterEntity_SizeMismatch(t *testing.T) {
	space, _, frame := newTestSpace(t)
	frame.Regs.Set("al", []byte{1})

	e := newRegisterEntity(RegisterInfo{Name: "al", ByteSize: 2})
	err := e.Materialize(frame, space, 0)
	require.ErrorIs(t, err, ErrSizeMismatch)
}
