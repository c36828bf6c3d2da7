package exprmat

import (
	"fmt"
	"runtime"
)

// Materializer owns the list of entities registered for one
// expression evaluation and drives the materialize half of the
// staging protocol.
type Materializer struct {
	layout   layoutEngine
	entities []Entity

	// result is a weak, non-owning handle to the single ResultEntity,
	// if one was added. The Dematerializer recognizes it by pointer
	// identity to route it through the specialized dematerialize path.
	result *ResultEntity

	// live is a weak, non-owning back-reference to the one outstanding
	// Dematerializer, if any. It is cleared when that handle is
	// consumed, and is used both to reject a second concurrent
	// Materialize call and to force a wipe if this Materializer is
	// garbage collected while a Dematerializer is still outstanding.
	live *Dematerializer
}

// NewMaterializer returns an empty Materializer ready to accept Add*
// calls.
func NewMaterializer() *Materializer {
	m := &Materializer{}
	runtime.SetFinalizer(m, (*Materializer).finalize)
	return m
}

func (m *Materializer) finalize() {
	if m.live != nil {
		m.live.wipe()
	}
}

// AddPersistent appends a PersistentEntity staging v and returns its
// offset in the eventual argument struct.
func (m *Materializer) AddPersistent(v *PersistentVariable) uint64 {
	e := newPersistentEntity(v)
	return m.add(e, e.size, e.alignment)
}

// AddLocal appends a LocalEntity staging v and returns its offset.
func (m *Materializer) AddLocal(v Variable) uint64 {
	e := newLocalEntity(v)
	return m.add(e, e.size, e.alignment)
}

// AddResult appends the (singular) ResultEntity reserving the
// expression's return slot and returns its offset. Calling this more
// than once per Materializer produces more than one result slot, but
// the Dematerializer only ever tracks the most recently added one via
// the weak handle — callers are expected to call this at most once.
func (m *Materializer) AddResult(typ Type, isProgramReference, keepInMemory bool) uint64 {
	e := newResultEntity(typ, isProgramReference, keepInMemory)
	off := m.add(e, e.size, e.alignment)
	m.result = e
	return off
}

// AddSymbol appends a SymbolEntity staging sym's load address and
// returns its offset.
func (m *Materializer) AddSymbol(sym Symbol) uint64 {
	e := newSymbolEntity(sym)
	return m.add(e, e.size, e.alignment)
}

// AddRegister appends a RegisterEntity staging info and returns its
// offset.
func (m *Materializer) AddRegister(info RegisterInfo) uint64 {
	e := newRegisterEntity(info)
	return m.add(e, e.size, e.alignment)
}

func (m *Materializer) add(e Entity, size, alignment uint64) uint64 {
	off := m.layout.append(e.(setOffset), size, alignment)
	m.entities = append(m.entities, e)
	return off
}

// Size returns the minimum byte length the caller's argument struct
// must have to hold every entity added so far.
func (m *Materializer) Size() uint64 { return m.layout.size() }

// Align returns the alignment the caller's argument struct should
// satisfy.
func (m *Materializer) Align() uint64 { return m.layout.align() }

// Materialize drives every entity's Materialize in insertion order,
// writing each one's current host-side value into structAddr. On the
// first failure it returns the error immediately without attempting
// subsequent entities and without rolling back entities already
// materialized — the caller must treat the whole struct as tainted.
func (m *Materializer) Materialize(frame Frame, mm MemoryMap, structAddr uint64) (*Dematerializer, error) {
	if m.live != nil {
		return nil, ErrAlreadyMaterialized
	}

	scope := bestScope(frame, mm)
	if scope == nil {
		return nil, ErrNoExecutionScope
	}

	for _, e := range m.entities {
		if err := e.Materialize(frame, mm, structAddr); err != nil {
			return nil, err
		}
	}

	d := &Dematerializer{
		m:          m,
		frame:      frame,
		mm:         mm,
		structAddr: structAddr,
		valid:      true,
	}
	m.live = d
	return d, nil
}

func bestScope(frame Frame, mm MemoryMap) ExecutionScope {
	if frame != nil {
		return frame
	}
	return mm.GetBestExecutionContextScope()
}

// Dump renders a diagnostic description of every entity's current
// state, one per line.
func (m *Materializer) Dump() string {
	out := fmt.Sprintf("Materializer{entities=%d size=%d align=%d}\n", len(m.entities), m.layout.size(), m.layout.align())
	for _, e := range m.entities {
		out += "  " + e.Dump() + "\n"
	}
	return out
}
