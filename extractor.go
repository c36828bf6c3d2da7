package exprmat

import "fmt"

// bufExtractor is a DataExtractor that just captures the raw bytes
// verbatim. User payload bytes are never byte-swapped by this package
// — only addresses and scalars this package itself constructs go
// through ByteOrder.
type bufExtractor struct {
	buf   []byte
	order ByteOrder
}

func (e *bufExtractor) SetData(data []byte, order ByteOrder) {
	e.buf = append([]byte(nil), data...)
	e.order = order
}

func (e *bufExtractor) Bytes() []byte  { return e.buf }
func (e *bufExtractor) Order() ByteOrder { return e.order }

// pointerExtractor is a DataExtractor specialized for decoding a
// single address-sized value (used when a variable's declared type is
// itself a reference and LocalEntity needs the referent address, not
// the variable's own address).
type pointerExtractor struct {
	ptr   uint64
	order ByteOrder
}

func (e *pointerExtractor) SetData(data []byte, order ByteOrder) {
	e.order = order
	switch len(data) {
	case 4:
		e.ptr = uint64(order.Uint32(data))
	case 8:
		e.ptr = order.Uint64(data)
	default:
		panic(fmt.Sprintf("exprmat: BUG: reference-typed value has unsupported address width %d", len(data)))
	}
}

func (e *pointerExtractor) Bytes() []byte {
	buf := make([]byte, 8)
	e.order.PutUint64(buf, e.ptr)
	return buf
}

func (e *pointerExtractor) Order() ByteOrder { return e.order }
