package memtest

import (
	"fmt"

	"github.com/tetratelabs/exprmat"
)

// Type is a minimal exprmat.Type: a fixed byte size and bit alignment.
type Type struct {
	Size  uint64
	Align uint64 // bits
}

func (t Type) ByteSize() uint64 { return t.Size }
func (t Type) BitAlign() uint64 { return t.Align }

// Variable is a frame-local variable fixture. If Addressable is true,
// AddressOf succeeds and returns Addr; otherwise it fails, forcing
// LocalEntity onto the scratch-allocation path.
type Variable struct {
	VarName     string
	VarType     Type
	Reference   bool
	Addressable bool
	Addr        uint64
	Value       []byte
}

func (v *Variable) Name() string          { return v.VarName }
func (v *Variable) Type() exprmat.Type    { return v.VarType }
func (v *Variable) IsReferenceType() bool { return v.Reference }

// ValueObject adapts a Variable to exprmat.ValueObject.
type ValueObject struct {
	v       *Variable
	order   exprmat.ByteOrder
	Updated int
}

func NewValueObject(v *Variable, order exprmat.ByteOrder) *ValueObject {
	return &ValueObject{v: v, order: order}
}

func (o *ValueObject) GetData(extractor exprmat.DataExtractor) error {
	extractor.SetData(o.v.Value, o.order)
	return nil
}

func (o *ValueObject) SetData(extractor exprmat.DataExtractor) error {
	data := extractor.Bytes()
	if uint64(len(data)) != uint64(len(o.v.Value)) && len(o.v.Value) != 0 {
		return fmt.Errorf("memtest: variable %q: set-data size %d disagrees with prior size %d", o.v.VarName, len(data), len(o.v.Value))
	}
	o.v.Value = append([]byte(nil), data...)
	return nil
}

func (o *ValueObject) AddressOf() (uint64, error) {
	if !o.v.Addressable {
		return 0, fmt.Errorf("memtest: variable %q is not addressable", o.v.VarName)
	}
	return o.v.Addr, nil
}

func (o *ValueObject) GetByteSize() uint64 { return uint64(len(o.v.Value)) }

func (o *ValueObject) ValueUpdated() { o.Updated++ }
