package exprmat

import "fmt"

// Entity is one typed slot in the argument struct. All five concrete
// entity kinds (PersistentEntity, LocalEntity, ResultEntity,
// SymbolEntity, RegisterEntity) implement it; kept deliberately small
// rather than grown into a deep hierarchy. The one outlier,
// ResultEntity's specialized dematerialize-with-out-result path, is
// reached by the Dematerializer recognizing the retained result
// pointer, not by widening this interface.
type Entity interface {
	// Size is the number of bytes this entity occupies in the argument
	// struct.
	Size() uint64
	// Alignment is a power of two no greater than the native pointer
	// width.
	Alignment() uint64
	// Offset is this entity's byte offset within the argument struct,
	// assigned once by the layout engine and frozen thereafter.
	Offset() uint64

	// Materialize copies this entity's current host-side value into
	// the argument struct at structAddr+Offset().
	Materialize(frame Frame, mm MemoryMap, structAddr uint64) error
	// Dematerialize reads this entity's slot back out of the argument
	// struct after the expression has run. frameBottom/frameTop bound
	// the expression's own (about to be torn down) stack frame, used
	// only by PersistentEntity to detect a program reference that
	// cannot outlive this call. Called on every entity except the one
	// ResultEntity, which the Dematerializer routes through
	// DematerializeResult instead.
	Dematerialize(frame Frame, mm MemoryMap, structAddr uint64, frameBottom, frameTop uint64) error
	// Wipe releases any scratch resource this entity owns without
	// copying data back. Must be idempotent.
	Wipe(mm MemoryMap) error

	// Dump renders a short diagnostic description of the entity's
	// current state.
	Dump() string
}

// setOffset is implemented by the entityBase embedded in every
// concrete entity; the layout engine uses it to assign the one offset
// an entity ever receives.
type setOffset interface {
	setOffset(off uint64)
}

// entityBase holds the (size, alignment, offset) triple common to
// every entity and freezes it the moment an offset is assigned: the
// layout engine calls setOffset exactly once per entity, and a second
// call is a bug, not a legitimate re-layout.
type entityBase struct {
	size      uint64
	alignment uint64
	offset    uint64
	offsetSet bool
}

func newEntityBase(size, alignment uint64) entityBase {
	return entityBase{size: size, alignment: alignment}
}

func (b *entityBase) Size() uint64      { return b.size }
func (b *entityBase) Alignment() uint64 { return b.alignment }
func (b *entityBase) Offset() uint64    { return b.offset }

func (b *entityBase) setOffset(off uint64) {
	if b.offsetSet {
		panic("exprmat: BUG: entity offset assigned twice")
	}
	b.offset = off
	b.offsetSet = true
}

func (b *entityBase) dumpHeader(kind string) string {
	return fmt.Sprintf("%s{size=%d align=%d offset=%d}", kind, b.size, b.alignment, b.offset)
}

// pointerSize is the slot width used by every entity whose struct
// value is itself an inferior address (persistent, local, symbol).
const pointerSize = 8
