package exprmat

// layoutEngine assembles heterogeneous entities into a packed struct
// with per-field alignment and a stable, insertion-ordered field
// layout. It never fails: every input is accepted as-is.
type layoutEngine struct {
	currentOffset   uint64
	structAlignment uint64
	hasFirst        bool
}

// append rounds currentOffset up to entity's alignment, assigns that
// as the entity's offset, advances currentOffset by entity's size, and
// returns the assigned offset.
//
// structAlignment is set once, from the *first* appended entity, and
// never revisited on subsequent appends. This is a deliberate quirk
// carried over unchanged from the original packing engine — the outer
// struct's alignment arguably ought to be the max over all members, but
// changing that now would be a silent behavior change for any caller
// relying on the current struct size/alignment math, so this
// reproduces it bit for bit rather than "fixing" it. See DESIGN.md for
// the open-question writeup.
func (l *layoutEngine) append(e setOffset, size, alignment uint64) uint64 {
	if !l.hasFirst {
		l.structAlignment = alignment
		l.hasFirst = true
	}

	offset := roundUp(l.currentOffset, alignment)
	e.setOffset(offset)
	l.currentOffset = offset + size
	return offset
}

// size is the minimum byte length the argument struct must have to
// hold every appended entity.
func (l *layoutEngine) size() uint64 { return l.currentOffset }

// align is the alignment the caller-allocated argument struct should
// satisfy: the layout engine's structAlignment, floored at 8. Since
// structAlignment comes from the first appended entity only, a later
// member whose alignment exceeds both that and 8 is not reflected here.
func (l *layoutEngine) align() uint64 {
	if l.structAlignment < 8 {
		return 8
	}
	return l.structAlignment
}

// roundUp rounds v up to the next multiple of alignment. alignment 0
// (an entity with no real alignment requirement) is treated as 1.
func roundUp(v, alignment uint64) uint64 {
	if alignment <= 1 {
		return v
	}
	return (v + alignment - 1) &^ (alignment - 1)
}
