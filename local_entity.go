package exprmat

import "fmt"

// temporaryAllocation records a scratch region this package allocated
// in the inferior, present iff a live value had to be spilled there
// because it was not addressable. Shared shape between LocalEntity and
// ResultEntity.
type temporaryAllocation struct {
	addr uint64
	size uint64
	set  bool
}

// LocalEntity stages a frame-local variable: by its real address when
// addressable, otherwise via a scratch allocation.
type LocalEntity struct {
	entityBase
	variable    Variable
	isReference bool
	temp        temporaryAllocation
}

func newLocalEntity(v Variable) *LocalEntity {
	return &LocalEntity{
		entityBase:  newEntityBase(pointerSize, pointerSize),
		variable:    v,
		isReference: v.IsReferenceType(),
	}
}

// byteAlignFromBits converts a bit alignment (as DWARF types commonly
// report) to a byte alignment by rounding up to the next whole byte.
// An earlier version of this logic instead wrote `align & ^0x111`
// where `align & ^0x7` was almost certainly meant — ^0x111 clears
// bits 0, 4 and 8 rather than the low three bits, a typo'd literal. Unlike the layout engine's first-entity-only
// struct_alignment quirk (intentionally preserved for wire
// compatibility, see DESIGN.md), nothing depends on this mask
// observably leaking a wrong byte alignment, so this implements the
// evidently intended rounding rather than reproducing the typo.
func byteAlignFromBits(bitAlign uint64) uint64 {
	if bitAlign == 0 {
		return 1
	}
	return (bitAlign + 7) / 8
}

func (l *LocalEntity) Materialize(frame Frame, mm MemoryMap, structAddr uint64) error {
	vo, err := frame.ResolveVariable(l.variable)
	if err != nil {
		return fmt.Errorf("%w: local %q: %v", ErrReadFailed, l.variable.Name(), err)
	}

	if l.isReference {
		var extractor pointerExtractor
		if err := vo.GetData(&extractor); err != nil {
			return fmt.Errorf("%w: local %q: %v", ErrReadFailed, l.variable.Name(), err)
		}
		return l.writeSlot(mm, structAddr, extractor.ptr)
	}

	if addr, err := vo.AddressOf(); err == nil {
		return l.writeSlot(mm, structAddr, addr)
	}

	// Not addressable: spill to scratch in the inferior.
	typ := l.variable.Type()
	byteAlign := byteAlignFromBits(typ.BitAlign())

	if l.temp.set {
		return fmt.Errorf("%w: local %q", ErrDoubleAllocation, l.variable.Name())
	}

	var extractor bufExtractor
	if err := vo.GetData(&extractor); err != nil {
		return fmt.Errorf("%w: local %q: %v", ErrReadFailed, l.variable.Name(), err)
	}
	if uint64(len(extractor.buf)) != typ.ByteSize() {
		return fmt.Errorf("%w: local %q: got %d bytes, declared type is %d bytes",
			ErrSizeMismatch, l.variable.Name(), len(extractor.buf), typ.ByteSize())
	}

	addr, err := mm.Malloc(typ.ByteSize(), byteAlign, PermRead|PermWrite, PolicyMirror)
	if err != nil {
		return fmt.Errorf("%w: local %q: %v", ErrAllocationFailed, l.variable.Name(), err)
	}
	l.temp = temporaryAllocation{addr: addr, size: typ.ByteSize(), set: true}

	if err := mm.WriteMemory(addr, extractor.buf); err != nil {
		return fmt.Errorf("%w: local %q: %v", ErrWriteFailed, l.variable.Name(), err)
	}
	return l.writeSlot(mm, structAddr, addr)
}

func (l *LocalEntity) writeSlot(mm MemoryMap, structAddr, value uint64) error {
	if err := mm.WritePointerToMemory(structAddr+l.offset, value); err != nil {
		return fmt.Errorf("%w: local %q: %v", ErrWriteFailed, l.variable.Name(), err)
	}
	return nil
}

func (l *LocalEntity) Dematerialize(frame Frame, mm MemoryMap, _ uint64, _, _ uint64) error {
	if !l.temp.set {
		// Mutations went directly to the variable's real location.
		return nil
	}

	vo, err := frame.ResolveVariable(l.variable)
	if err != nil {
		return fmt.Errorf("%w: local %q: %v", ErrReadFailed, l.variable.Name(), err)
	}

	buf := make([]byte, l.temp.size)
	if err := mm.ReadMemory(buf, l.temp.addr); err != nil {
		return fmt.Errorf("%w: local %q: %v", ErrReadFailed, l.variable.Name(), err)
	}

	extractor := bufExtractor{buf: buf}
	if err := vo.SetData(&extractor); err != nil {
		return fmt.Errorf("%w: local %q: %v", ErrWriteFailed, l.variable.Name(), err)
	}
	vo.ValueUpdated()

	if err := mm.Free(l.temp.addr); err != nil {
		return fmt.Errorf("%w: local %q: %v", ErrDeallocationFailed, l.variable.Name(), err)
	}
	l.temp = temporaryAllocation{}
	return nil
}

func (l *LocalEntity) Wipe(mm MemoryMap) error {
	if !l.temp.set {
		return nil
	}
	err := mm.Free(l.temp.addr)
	l.temp = temporaryAllocation{}
	if err != nil {
		return fmt.Errorf("%w: local %q: %v", ErrDeallocationFailed, l.variable.Name(), err)
	}
	return nil
}

func (l *LocalEntity) Dump() string {
	return l.dumpHeader("LocalEntity") + fmt.Sprintf(" name=%q isReference=%v temp=%+v", l.variable.Name(), l.isReference, l.temp)
}
