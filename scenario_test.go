package exprmat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tetratelabs/exprmat/internal/memtest"
)

// TestMaterializer_FromScenarioFixture drives a Materializer using the
// declarative register/symbol/persistent-variable fixture in
// testdata/scenarios/basic.yaml, rather than hand-building every
// collaborator inline as the other tests in this package do.
func TestMaterializer_FromScenarioFixture(t *testing.T) {
	sc, err := memtest.LoadScenario("internal/memtest/testdata/scenarios/basic.yaml")
	require.NoError(t, err)

	store := memtest.NewStore()
	tgt := &memtest.Target{Store: store}
	space := memtest.NewSpace(8, memtest.Scope{Tgt: tgt})
	regs := memtest.NewRegisters(space.GetByteOrder())
	frame := &memtest.Frame{Tgt: tgt, Order: space.GetByteOrder(), Regs: regs}

	for _, r := range sc.Registers {
		b, err := memtest.RegisterBytes(r.Hex)
		require.NoError(t, err)
		regs.Set(r.Name, b)
	}

	m := NewMaterializer()
	regOffsets := map[string]uint64{}
	for _, r := range sc.Registers {
		regOffsets[r.Name] = m.AddRegister(RegisterInfo{Name: r.Name, ByteSize: 8})
	}

	symOffsets := map[string]uint64{}
	for _, s := range sc.Symbols {
		sym := &memtest.Symbol{SymName: s.Name, HasLoad: s.HasLoad, LoadAddr: s.LoadAddr, FileAddr: s.FileAddr}
		symOffsets[s.Name] = m.AddSymbol(sym)
	}

	persistentVars := map[string]*PersistentVariable{}
	persistentOffsets := map[string]uint64{}
	for _, p := range sc.Persistent {
		pv := &PersistentVariable{
			Name:            p.Name,
			Type:            memtest.Type{Size: p.ByteSize, Align: p.ByteSize * 8},
			NeedsAllocation: p.NeedsAllocation,
			KeepInTarget:    p.KeepInTarget,
			IsLLDBAllocated: true,
			Data:            make([]byte, p.ByteSize),
		}
		if !p.NeedsAllocation {
			// Models a variable that already lives in the target (e.g.
			// one kept there by a prior expression); give it a real
			// backing address up front instead of relying on Materialize
			// to allocate one.
			addr, err := space.Malloc(p.ByteSize, p.ByteSize, PermRead|PermWrite, PolicyMirror)
			require.NoError(t, err)
			pv.setLiveAddress(addr)
		}
		persistentVars[p.Name] = pv
		persistentOffsets[p.Name] = m.AddPersistent(pv)
	}

	structAddr, err := space.Malloc(m.Size(), m.Align(), PermRead|PermWrite, PolicyMirror)
	require.NoError(t, err)

	dem, err := m.Materialize(frame, space, structAddr)
	require.NoError(t, err)

	// Symbols without a load address fall back to their file address.
	gotFallback, err := space.ReadPointerFromMemory(structAddr + symOffsets["main.fallback"])
	require.NoError(t, err)
	require.Equal(t, sc.Symbols[1].FileAddr, gotFallback)

	_, err = dem.Dematerialize(0, 0)
	require.NoError(t, err)

	_, hasLive := persistentVars["$2"].LiveAddress()
	require.True(t, hasLive, "keep_in_target variable stays addressable after the run")
}
