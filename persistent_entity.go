package exprmat

import "fmt"

// PersistentEntity stages a user "$"-variable: it may already exist in
// the inferior, or may need a fresh allocation there.
type PersistentEntity struct {
	entityBase
	variable *PersistentVariable
}

func newPersistentEntity(v *PersistentVariable) *PersistentEntity {
	return &PersistentEntity{entityBase: newEntityBase(pointerSize, pointerSize), variable: v}
}

func (p *PersistentEntity) Materialize(_ Frame, mm MemoryMap, structAddr uint64) error {
	v := p.variable

	if v.NeedsAllocation {
		addr, err := mm.Malloc(v.Type.ByteSize(), 8, PermRead|PermWrite, PolicyMirror)
		if err != nil {
			return fmt.Errorf("%w: persistent variable %q: %v", ErrAllocationFailed, v.Name, err)
		}
		v.setLiveAddress(addr)
		if v.KeepInTarget {
			v.NeedsAllocation = false
		}
		if err := mm.WriteMemory(addr, v.Data); err != nil {
			return fmt.Errorf("%w: persistent variable %q: %v", ErrWriteFailed, v.Name, err)
		}
	}

	liveAddr, hasLive := v.LiveAddress()
	switch {
	case v.IsProgramReference && hasLive:
	case v.IsLLDBAllocated:
	default:
		return fmt.Errorf("%w: persistent variable %q", ErrNotMaterialized, v.Name)
	}

	if err := mm.WritePointerToMemory(structAddr+p.offset, liveAddr); err != nil {
		return fmt.Errorf("%w: persistent variable %q: %v", ErrWriteFailed, v.Name, err)
	}
	return nil
}

// isLoadAddress is a conservative stand-in for distinguishing a live
// load address from a mere file address. Every address this package
// itself produces (via MemoryMap.Malloc or a pointer read back from
// the argument struct) is, by construction, a load address; the one
// source of file addresses in this package is SymbolEntity's fallback
// when a symbol has no load address yet, which never feeds a
// PersistentEntity. Zero is treated as "absent / not a load address"
// so a zeroed-out or never-set live location fails this check instead
// of silently validating.
func isLoadAddress(addr uint64) bool {
	return addr != 0
}

func (p *PersistentEntity) Dematerialize(_ Frame, mm MemoryMap, structAddr uint64, frameBottom, frameTop uint64) error {
	v := p.variable

	if !v.IsLLDBAllocated && !v.IsProgramReference {
		return fmt.Errorf("%w: persistent variable %q", ErrNotDematerialized, v.Name)
	}

	if v.IsProgramReference {
		if _, hasLive := v.LiveAddress(); !hasLive {
			addr, err := mm.ReadPointerFromMemory(structAddr + p.offset)
			if err != nil {
				return fmt.Errorf("%w: persistent variable %q: %v", ErrReadFailed, v.Name, err)
			}
			v.setLiveAddress(addr)
		}

		// An address inside the expression's own (about to be torn
		// down) stack frame cannot survive past this call: stop trusting
		// the program reference, freeze-dry the bytes below, and have the
		// next materialize allocate fresh storage for the variable.
		liveAddr, _ := v.LiveAddress()
		if withinFrame(liveAddr, frameBottom, frameTop) {
			v.IsLLDBAllocated = true
			v.NeedsAllocation = true
			v.NeedsFreezeDry = true
			v.IsProgramReference = false
		}
	}

	liveAddr, hasLive := v.LiveAddress()
	if !hasLive || !isLoadAddress(liveAddr) {
		return fmt.Errorf("%w: persistent variable %q: address %#x", ErrBadAddressForm, v.Name, liveAddr)
	}

	if v.NeedsFreezeDry || v.KeepInTarget {
		buf := make([]byte, v.Type.ByteSize())
		if err := mm.ReadMemory(buf, liveAddr); err != nil {
			return fmt.Errorf("%w: persistent variable %q: %v", ErrReadFailed, v.Name, err)
		}
		v.Data = buf
		v.NeedsFreezeDry = false
	}

	if v.NeedsAllocation && !v.KeepInTarget {
		if err := mm.Free(liveAddr); err != nil {
			return fmt.Errorf("%w: persistent variable %q: %v", ErrDeallocationFailed, v.Name, err)
		}
	}
	return nil
}

func (p *PersistentEntity) Wipe(MemoryMap) error { return nil }

func (p *PersistentEntity) Dump() string {
	v := p.variable
	return p.dumpHeader("PersistentEntity") + fmt.Sprintf(
		" name=%q needsAlloc=%v isProgRef=%v isLLDBAlloc=%v keepInTarget=%v needsFreezeDry=%v",
		v.Name, v.NeedsAllocation, v.IsProgramReference, v.IsLLDBAllocated, v.KeepInTarget, v.NeedsFreezeDry)
}

func withinFrame(addr, frameBottom, frameTop uint64) bool {
	return frameBottom <= addr && addr <= frameTop
}
