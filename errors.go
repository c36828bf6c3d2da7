package exprmat

import "errors"

// Sentinel errors returned by this package. Collaborator failures
// (allocation, read/write) are wrapped around these with fmt.Errorf
// and %w so callers can still match with errors.Is.
var (
	// ErrNoTarget means the execution scope could not produce a
	// debuggee target (needed to mint persistent variables or resolve
	// symbols).
	ErrNoTarget = errors.New("exprmat: no target available")

	// ErrNoExecutionScope means neither the frame nor the memory map
	// could produce an execution scope to operate against.
	ErrNoExecutionScope = errors.New("exprmat: no execution scope available")

	// ErrNoFrame means a register operation was attempted without a
	// bound stack frame.
	ErrNoFrame = errors.New("exprmat: no frame bound for register access")

	// ErrAllocationFailed means the memory map refused a Malloc request.
	ErrAllocationFailed = errors.New("exprmat: inferior allocation failed")

	// ErrDeallocationFailed means the memory map refused a Free request.
	ErrDeallocationFailed = errors.New("exprmat: inferior deallocation failed")

	// ErrReadFailed means a transfer from inferior memory failed.
	ErrReadFailed = errors.New("exprmat: read from inferior memory failed")

	// ErrWriteFailed means a transfer to inferior memory failed.
	ErrWriteFailed = errors.New("exprmat: write to inferior memory failed")

	// ErrSizeMismatch means a variable's live data size disagreed with
	// its declared type, or a register's data size differed from the
	// expected register width.
	ErrSizeMismatch = errors.New("exprmat: size mismatch")

	// ErrDoubleAllocation means an entity tried to create a scratch
	// allocation while one already existed.
	ErrDoubleAllocation = errors.New("exprmat: temporary allocation already exists")

	// ErrBadAddressForm means a live location was a file address where
	// a load address was required (or vice versa).
	ErrBadAddressForm = errors.New("exprmat: address is not in the expected form")

	// ErrNotMaterialized means a persistent entity's flags were
	// inconsistent with having a usable live location at materialize
	// time.
	ErrNotMaterialized = errors.New("exprmat: persistent variable is not materializable")

	// ErrNotDematerialized means a persistent entity's flags forbid
	// reading a value back at dematerialize time.
	ErrNotDematerialized = errors.New("exprmat: persistent variable is not dematerializable")

	// ErrAlreadyMaterialized means Materialize was called while a
	// Dematerializer for the same Materializer was still outstanding.
	ErrAlreadyMaterialized = errors.New("exprmat: materializer already has a live dematerializer")

	// ErrInvalidated means Dematerialize was called on a Dematerializer
	// that had already been consumed. (Wipe on a consumed handle is a
	// no-op and returns nil.)
	ErrInvalidated = errors.New("exprmat: dematerializer already consumed")

	// ErrWrongEntry means the generic Dematerialize path was invoked on
	// the entity that owns the expression's result slot; it must be
	// driven through the specialized result path instead.
	ErrWrongEntry = errors.New("exprmat: wrong dematerialize entry point for result entity")
)
