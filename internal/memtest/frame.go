package memtest

import (
	"fmt"

	"github.com/tetratelabs/exprmat"
)

// Frame is a stack frame fixture: a fixed set of variables, registers,
// and the target they belong to.
type Frame struct {
	Vars  []*Variable
	Regs  *Registers
	Tgt   *Target
	Order exprmat.ByteOrder
}

func (f *Frame) Target() exprmat.Target { return f.Tgt }

func (f *Frame) ResolveVariable(v exprmat.Variable) (exprmat.ValueObject, error) {
	mv, ok := v.(*Variable)
	if !ok {
		return nil, fmt.Errorf("memtest: frame cannot resolve variable of type %T", v)
	}
	for _, candidate := range f.Vars {
		if candidate == mv {
			return NewValueObject(mv, f.Order), nil
		}
	}
	return nil, fmt.Errorf("memtest: variable %q not in scope for this frame", mv.VarName)
}

func (f *Frame) RegisterContext() exprmat.RegisterContext { return f.Regs }

// Registers is a fixed-name register file fixture.
type Registers struct {
	values map[string][]byte
	order  exprmat.ByteOrder
}

func NewRegisters(order exprmat.ByteOrder) *Registers {
	return &Registers{values: map[string][]byte{}, order: order}
}

func (r *Registers) Set(name string, bytes []byte) { r.values[name] = bytes }

func (r *Registers) Get(name string) []byte { return r.values[name] }

// ReadRegister hands back whatever bytes were last Set for info.Name,
// verbatim — deliberately not validating length against info.ByteSize,
// since that mismatch check is exprmat.RegisterEntity's own job, not
// the collaborator's.
func (r *Registers) ReadRegister(info exprmat.RegisterInfo) (exprmat.RegisterValue, error) {
	b, ok := r.values[info.Name]
	if !ok {
		return exprmat.RegisterValue{}, fmt.Errorf("memtest: unknown register %q", info.Name)
	}
	return exprmat.RegisterValue{Bytes: append([]byte(nil), b...), Order: r.order}, nil
}

func (r *Registers) WriteRegister(info exprmat.RegisterInfo, value exprmat.RegisterValue) error {
	r.values[info.Name] = append([]byte(nil), value.Bytes...)
	return nil
}
