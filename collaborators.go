package exprmat

// Permission is a bitmask of access rights requested for a Malloc call,
// mirroring the permission bits a real memory map (or an mmap syscall)
// would accept.
type Permission uint8

const (
	PermRead Permission = 1 << iota
	PermWrite
	PermExec
)

// AllocPolicy selects how the memory map manages an allocation's
// lifetime and host-side visibility.
type AllocPolicy uint8

const (
	// PolicyMirror asks the memory map to keep a host-side shadow copy
	// of the allocation in addition to the inferior-resident bytes.
	// This package only ever requests PolicyMirror.
	PolicyMirror AllocPolicy = iota
)

// MemoryMap is the black-box service offering malloc/free/read/write
// in the inferior's address space. This package never implements it;
// internal/memtest provides a reference fake for tests.
type MemoryMap interface {
	Malloc(size uint64, align uint64, perm Permission, policy AllocPolicy) (uint64, error)
	Free(addr uint64) error

	ReadMemory(dest []byte, addr uint64) error
	WriteMemory(addr uint64, src []byte) error

	ReadPointerFromMemory(addr uint64) (uint64, error)
	WritePointerToMemory(addr uint64, ptr uint64) error
	WriteScalarToMemory(addr uint64, scalar uint64, byteCount int) error

	// GetMemoryData reads size bytes at addr and hands them, along with
	// the map's byte order, to extractor.
	GetMemoryData(extractor DataExtractor, addr uint64, size uint64) error

	GetBestExecutionContextScope() ExecutionScope
	GetByteOrder() ByteOrder
	GetAddressByteSize() int
}

// ByteOrder mirrors encoding/binary.ByteOrder's shape closely enough to
// be satisfied by it directly, without this package importing
// encoding/binary's interface type name into its own public surface.
type ByteOrder interface {
	Uint16([]byte) uint16
	Uint32([]byte) uint32
	Uint64([]byte) uint64
	PutUint16([]byte, uint16)
	PutUint32([]byte, uint32)
	PutUint64([]byte, uint64)
	String() string
}

// DataExtractor both receives raw bytes (the memory map or a
// ValueObject's GetData calls SetData to deposit them) and hands them
// back out (ValueObject's SetData calls Bytes/Order to read them back).
// One small interface plays both
// roles rather than splitting sink and source, mirroring how a real
// debugger's DataExtractor is a single reusable buffer-plus-byte-order
// value passed in either direction.
type DataExtractor interface {
	SetData(data []byte, order ByteOrder)
	Bytes() []byte
	Order() ByteOrder
}

// ExecutionScope is the minimal context a frame or memory map can
// supply: enough to identify a debuggee Target.
type ExecutionScope interface {
	Target() Target
}

// Target is the debuggee process, needed to mint persistent-variable
// names and create new persistent-variable records.
type Target interface {
	PersistentStore() PersistentStore
}

// PersistentStore is the persistent-variable naming/storage service;
// only the two operations this package actually calls are declared
// here, not the rest of its surface.
type PersistentStore interface {
	GetNextPersistentVariableName() string
	CreateVariable(scope ExecutionScope, name string, typ Type, order ByteOrder, addrSize int) *PersistentVariable
}

// PersistentVariable is a user-visible "$"-named record that survives
// across expression calls.
type PersistentVariable struct {
	Name string
	Type Type

	// Data is the host-side shadow of the variable's value. For a
	// freshly minted result variable it is filled in by
	// ResultEntity.DematerializeResult; for a pre-existing variable it
	// may already hold a value from a prior expression.
	Data []byte

	NeedsAllocation   bool
	IsProgramReference bool
	IsLLDBAllocated    bool
	KeepInTarget       bool
	NeedsFreezeDry     bool

	// liveAddr is the inferior address currently backing this
	// variable, valid only once one of IsLLDBAllocated/IsProgramReference
	// has been established by a materialize/dematerialize pass.
	liveAddr    uint64
	liveAddrSet bool
}

// LiveAddress returns the inferior address currently backing the
// variable and whether one has been established.
func (p *PersistentVariable) LiveAddress() (uint64, bool) {
	return p.liveAddr, p.liveAddrSet
}

func (p *PersistentVariable) setLiveAddress(addr uint64) {
	p.liveAddr = addr
	p.liveAddrSet = true
}

func (p *PersistentVariable) clearLiveAddress() {
	p.liveAddr = 0
	p.liveAddrSet = false
}

// Type is the minimal type descriptor this package needs: its wire
// size and bit alignment. Symbol resolution, DWARF reading and the
// rest of the type system live elsewhere and are not this package's
// concern.
type Type interface {
	ByteSize() uint64
	BitAlign() uint64
}

// Variable is a frame-local variable's descriptor, as resolved by the
// symbol/DWARF layer that owns variable lookup.
type Variable interface {
	Name() string
	Type() Type
	// IsReferenceType reports whether the variable's declared type is
	// itself a reference (e.g. a language-level reference/pointer
	// alias), in which case LocalEntity writes the referent address
	// rather than the variable's own address.
	IsReferenceType() bool
}

// ValueObject is a live view onto a variable's current value,
// resolved against a frame or an execution scope.
type ValueObject interface {
	GetData(extractor DataExtractor) error
	SetData(extractor DataExtractor) error
	// AddressOf returns the load address of the variable if it is
	// addressable, or an error if the live value has no stable address
	// (register-resident, constant-folded, etc).
	AddressOf() (uint64, error)
	GetByteSize() uint64
	ValueUpdated()
}

// Frame is a stack frame snapshot; used directly by LocalEntity and
// RegisterEntity, and may also satisfy ExecutionScope.
type Frame interface {
	ExecutionScope
	// ResolveVariable returns a ValueObject for v as seen from this
	// frame. LocalEntity always resolves its variable through the
	// frame, so staging a local requires a non-nil frame; there is no
	// fallback to the memory map's execution scope. RegisterEntity
	// also always requires a frame.
	ResolveVariable(v Variable) (ValueObject, error)
	RegisterContext() RegisterContext
}

// RegisterInfo names a CPU register and its width, as consumed by
// RegisterEntity.
type RegisterInfo struct {
	Name     string
	ByteSize int
}

// RegisterContext reads and writes CPU register values for a bound
// frame.
type RegisterContext interface {
	ReadRegister(info RegisterInfo) (RegisterValue, error)
	WriteRegister(info RegisterInfo, value RegisterValue) error
}

// RegisterValue is the raw byte content of a register, plus the byte
// order it should be interpreted under when reassembling a scalar.
type RegisterValue struct {
	Bytes []byte
	Order ByteOrder
}

// Symbol is an externally-visible named symbol; resolving one is
// someone else's job, but its two addresses are all SymbolEntity needs.
type Symbol interface {
	Name() string
	LoadAddress() (uint64, bool)
	FileAddress() uint64
}
