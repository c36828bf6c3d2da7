package exprmat

import "fmt"

// RegisterEntity copies a CPU register's bytes into its slot and
// writes them back after the expression runs. Sized exactly to the
// register; alignment equals size, conservatively.
type RegisterEntity struct {
	entityBase
	info RegisterInfo
}

func newRegisterEntity(info RegisterInfo) *RegisterEntity {
	size := uint64(info.ByteSize)
	return &RegisterEntity{entityBase: newEntityBase(size, size), info: info}
}

func (r *RegisterEntity) Materialize(frame Frame, mm MemoryMap, structAddr uint64) error {
	if frame == nil {
		return ErrNoFrame
	}

	rv, err := frame.RegisterContext().ReadRegister(r.info)
	if err != nil {
		return fmt.Errorf("%w: register %q: %v", ErrReadFailed, r.info.Name, err)
	}
	if len(rv.Bytes) != r.info.ByteSize {
		return fmt.Errorf("%w: register %q: got %d bytes, expected %d", ErrSizeMismatch, r.info.Name, len(rv.Bytes), r.info.ByteSize)
	}

	if err := mm.WriteMemory(structAddr+r.offset, rv.Bytes); err != nil {
		return fmt.Errorf("%w: register %q: %v", ErrWriteFailed, r.info.Name, err)
	}
	return nil
}

func (r *RegisterEntity) Dematerialize(frame Frame, mm MemoryMap, structAddr uint64, _, _ uint64) error {
	if frame == nil {
		return ErrNoFrame
	}

	buf := make([]byte, r.info.ByteSize)
	if err := mm.ReadMemory(buf, structAddr+r.offset); err != nil {
		return fmt.Errorf("%w: register %q: %v", ErrReadFailed, r.info.Name, err)
	}

	rv := RegisterValue{Bytes: buf, Order: mm.GetByteOrder()}
	if err := frame.RegisterContext().WriteRegister(r.info, rv); err != nil {
		return fmt.Errorf("%w: register %q: %v", ErrWriteFailed, r.info.Name, err)
	}
	return nil
}

func (r *RegisterEntity) Wipe(MemoryMap) error { return nil }

func (r *RegisterEntity) Dump() string {
	return r.dumpHeader("RegisterEntity") + fmt.Sprintf(" name=%q", r.info.Name)
}
