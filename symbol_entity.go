package exprmat

import "fmt"

// SymbolEntity writes the load address of a named symbol into its
// slot. Stateless across calls.
type SymbolEntity struct {
	entityBase
	symbol Symbol
}

func newSymbolEntity(s Symbol) *SymbolEntity {
	return &SymbolEntity{entityBase: newEntityBase(pointerSize, pointerSize), symbol: s}
}

func (s *SymbolEntity) Materialize(_ Frame, mm MemoryMap, structAddr uint64) error {
	target := mm.GetBestExecutionContextScope()
	if target == nil || target.Target() == nil {
		return ErrNoTarget
	}

	addr, ok := s.symbol.LoadAddress()
	if !ok {
		addr = s.symbol.FileAddress()
	}

	if err := mm.WritePointerToMemory(structAddr+s.offset, addr); err != nil {
		return fmt.Errorf("%w: symbol %q: %v", ErrWriteFailed, s.symbol.Name(), err)
	}
	return nil
}

func (s *SymbolEntity) Dematerialize(Frame, MemoryMap, uint64, uint64, uint64) error { return nil }

func (s *SymbolEntity) Wipe(MemoryMap) error { return nil }

func (s *SymbolEntity) Dump() string {
	return s.dumpHeader("SymbolEntity") + fmt.Sprintf(" name=%q", s.symbol.Name())
}
