package exprmat

import "fmt"

// ResultEntity reserves a slot for the expression's return value and,
// on dematerialize, promotes it to a new persistent variable.
type ResultEntity struct {
	entityBase
	resultType   Type
	isProgramRef bool
	keepInMemory bool
	temp         temporaryAllocation
}

func newResultEntity(typ Type, isProgramRef, keepInMemory bool) *ResultEntity {
	return &ResultEntity{
		entityBase:   newEntityBase(pointerSize, pointerSize),
		resultType:   typ,
		isProgramRef: isProgramRef,
		keepInMemory: keepInMemory,
	}
}

func (r *ResultEntity) Materialize(_ Frame, mm MemoryMap, structAddr uint64) error {
	if r.isProgramRef {
		// The expression itself will fill the pointer slot with a
		// program address; nothing to do here.
		return nil
	}

	if r.temp.set {
		return fmt.Errorf("%w: result slot", ErrDoubleAllocation)
	}

	byteAlign := byteAlignFromBits(r.resultType.BitAlign())
	addr, err := mm.Malloc(r.resultType.ByteSize(), byteAlign, PermRead|PermWrite, PolicyMirror)
	if err != nil {
		return fmt.Errorf("%w: result slot: %v", ErrAllocationFailed, err)
	}
	r.temp = temporaryAllocation{addr: addr, size: r.resultType.ByteSize(), set: true}

	if err := mm.WritePointerToMemory(structAddr+r.offset, addr); err != nil {
		return fmt.Errorf("%w: result slot: %v", ErrWriteFailed, err)
	}
	return nil
}

// Dematerialize implements the generic Entity interface but must never
// be reached: the Dematerializer recognizes the single ResultEntity by
// pointer identity and always routes it through DematerializeResult
// instead.
func (r *ResultEntity) Dematerialize(Frame, MemoryMap, uint64, uint64, uint64) error {
	return ErrWrongEntry
}

// DematerializeResult is the specialized form the Dematerializer calls
// for the one retained result entity. It mints a new persistent
// variable from the bytes the expression left behind and returns it.
func (r *ResultEntity) DematerializeResult(scope ExecutionScope, mm MemoryMap, structAddr uint64) (*PersistentVariable, error) {
	addr, err := mm.ReadPointerFromMemory(structAddr + r.offset)
	if err != nil {
		return nil, fmt.Errorf("%w: result slot: %v", ErrReadFailed, err)
	}

	target := scope.Target()
	if target == nil {
		return nil, ErrNoTarget
	}
	store := target.PersistentStore()

	name := store.GetNextPersistentVariableName()
	record := store.CreateVariable(scope, name, r.resultType, mm.GetByteOrder(), mm.GetAddressByteSize())
	record.setLiveAddress(addr)

	buf := make([]byte, r.resultType.ByteSize())
	if err := mm.ReadMemory(buf, addr); err != nil {
		return nil, fmt.Errorf("%w: result slot: %v", ErrReadFailed, err)
	}
	record.Data = buf

	if !r.keepInMemory && r.temp.set {
		record.NeedsAllocation = true
		if err := mm.Free(r.temp.addr); err != nil {
			return nil, fmt.Errorf("%w: result slot: %v", ErrDeallocationFailed, err)
		}
	} else {
		record.IsLLDBAllocated = true
	}
	r.temp = temporaryAllocation{}

	return record, nil
}

func (r *ResultEntity) Wipe(mm MemoryMap) error {
	if !r.keepInMemory && r.temp.set {
		err := mm.Free(r.temp.addr)
		r.temp = temporaryAllocation{}
		if err != nil {
			return fmt.Errorf("%w: result slot: %v", ErrDeallocationFailed, err)
		}
		return nil
	}
	r.temp = temporaryAllocation{}
	return nil
}

func (r *ResultEntity) Dump() string {
	return r.dumpHeader("ResultEntity") + fmt.Sprintf(" isProgramRef=%v keepInMemory=%v temp=%+v", r.isProgramRef, r.keepInMemory, r.temp)
}
