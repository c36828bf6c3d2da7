// Package memtest is a reference, in-memory fake of the collaborators
// exprmat treats as black boxes: a MemoryMap backed by a plain Go byte
// slice instead of a real inferior process, plus minimal
// Frame/ExecutionScope/PersistentStore/ValueObject implementations so
// the package's own tests have something concrete to materialize
// against.
//
// Nothing here is exported for use outside exprmat's own test suite;
// a real debugger supplies its own collaborators grounded in its
// actual process-control layer.
package memtest

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/tetratelabs/exprmat"
)

// Space is a MemoryMap backed by a growable byte slice, standing in
// for an inferior's address space. Addresses are offsets into buf
// plus baseAddr, so a freshly constructed Space never hands out
// address 0 (kept reserved, matching exprmat's "zero means absent"
// convention for live locations).
type Space struct {
	baseAddr uint64
	buf      []byte
	order    binary.ByteOrder
	addrSize int

	free   map[uint64]uint64 // addr -> size, for live allocations
	scope  exprmat.ExecutionScope
}

// NewSpace returns an empty little-endian Space with the given address
// width (4 or 8) and a default execution scope.
func NewSpace(addrSize int, scope exprmat.ExecutionScope) *Space {
	return &Space{
		baseAddr: 0x1000,
		order:    binary.LittleEndian,
		addrSize: addrSize,
		free:     map[uint64]uint64{},
		scope:    scope,
	}
}

func (s *Space) Malloc(size uint64, align uint64, _ exprmat.Permission, _ exprmat.AllocPolicy) (uint64, error) {
	if align == 0 {
		align = 1
	}
	cur := s.baseAddr + uint64(len(s.buf))
	padded := roundUp(cur, align)
	pad := padded - cur
	s.buf = append(s.buf, make([]byte, pad+size)...)
	s.free[padded] = size
	return padded, nil
}

func (s *Space) Free(addr uint64) error {
	if _, ok := s.free[addr]; !ok {
		return fmt.Errorf("memtest: double free or free of unknown address %#x", addr)
	}
	delete(s.free, addr)
	return nil
}

func (s *Space) bounds(addr, size uint64) (int, int, error) {
	if addr < s.baseAddr {
		return 0, 0, fmt.Errorf("memtest: address %#x below base %#x", addr, s.baseAddr)
	}
	start := int(addr - s.baseAddr)
	end := start + int(size)
	if end > len(s.buf) {
		return 0, 0, fmt.Errorf("memtest: access [%#x,%#x) out of bounds (space size %d)", addr, addr+size, len(s.buf))
	}
	return start, end, nil
}

func (s *Space) ReadMemory(dest []byte, addr uint64) error {
	start, end, err := s.bounds(addr, uint64(len(dest)))
	if err != nil {
		return err
	}
	copy(dest, s.buf[start:end])
	return nil
}

func (s *Space) WriteMemory(addr uint64, src []byte) error {
	start, end, err := s.bounds(addr, uint64(len(src)))
	if err != nil {
		return err
	}
	copy(s.buf[start:end], src)
	return nil
}

func (s *Space) ReadPointerFromMemory(addr uint64) (uint64, error) {
	buf := make([]byte, s.addrSize)
	if err := s.ReadMemory(buf, addr); err != nil {
		return 0, err
	}
	return s.decodeUint(buf), nil
}

func (s *Space) WritePointerToMemory(addr uint64, ptr uint64) error {
	return s.WriteScalarToMemory(addr, ptr, s.addrSize)
}

func (s *Space) WriteScalarToMemory(addr uint64, scalar uint64, byteCount int) error {
	buf := make([]byte, byteCount)
	s.encodeUint(buf, scalar)
	return s.WriteMemory(addr, buf)
}

func (s *Space) GetMemoryData(extractor exprmat.DataExtractor, addr uint64, size uint64) error {
	buf := make([]byte, size)
	if err := s.ReadMemory(buf, addr); err != nil {
		return err
	}
	extractor.SetData(buf, orderAdapter{s.order})
	return nil
}

func (s *Space) GetBestExecutionContextScope() exprmat.ExecutionScope { return s.scope }
func (s *Space) GetByteOrder() exprmat.ByteOrder                     { return orderAdapter{s.order} }
func (s *Space) GetAddressByteSize() int                             { return s.addrSize }

func (s *Space) decodeUint(buf []byte) uint64 {
	switch len(buf) {
	case 4:
		return uint64(s.order.Uint32(buf))
	default:
		return s.order.Uint64(append(buf, make([]byte, 8-len(buf))...)[:8])
	}
}

func (s *Space) encodeUint(buf []byte, v uint64) {
	switch len(buf) {
	case 4:
		s.order.PutUint32(buf, uint32(v))
	case 8:
		s.order.PutUint64(buf, v)
	default:
		tmp := make([]byte, 8)
		s.order.PutUint64(tmp, v)
		copy(buf, tmp)
	}
}

// LiveAllocations returns the currently outstanding allocation
// addresses, sorted, for leak assertions in tests.
func (s *Space) LiveAllocations() []uint64 {
	out := make([]uint64, 0, len(s.free))
	for addr := range s.free {
		out = append(out, addr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func roundUp(v, align uint64) uint64 {
	if align <= 1 {
		return v
	}
	return (v + align - 1) &^ (align - 1)
}

// orderAdapter makes a stdlib binary.ByteOrder satisfy exprmat.ByteOrder
// (which additionally needs Put* methods the read-only subset of
// encoding/binary.ByteOrder already exposes; this just names the type
// so method values above have something concrete to return).
type orderAdapter struct{ binary.ByteOrder }
