package memtest

import (
	"fmt"

	"github.com/tetratelabs/exprmat"
)

// Target is a debuggee fixture owning a PersistentStore.
type Target struct {
	Store *Store
}

func (t *Target) PersistentStore() exprmat.PersistentStore { return t.Store }

// Scope adapts a Target to exprmat.ExecutionScope, for use as
// MemoryMap.GetBestExecutionContextScope's return value when no Frame
// is involved.
type Scope struct{ Tgt *Target }

func (s Scope) Target() exprmat.Target { return s.Tgt }

// Store is a PersistentStore fixture minting sequential "$N" names.
type Store struct {
	next int
	Vars map[string]*exprmat.PersistentVariable
}

func NewStore() *Store {
	return &Store{Vars: map[string]*exprmat.PersistentVariable{}}
}

func (s *Store) GetNextPersistentVariableName() string {
	s.next++
	return fmt.Sprintf("$%d", s.next)
}

func (s *Store) CreateVariable(_ exprmat.ExecutionScope, name string, typ exprmat.Type, _ exprmat.ByteOrder, _ int) *exprmat.PersistentVariable {
	v := &exprmat.PersistentVariable{Name: name, Type: typ}
	s.Vars[name] = v
	return v
}
