// Package exprmat stages the inputs and outputs of a JIT-compiled
// expression across the boundary between a debugger host and the
// memory space of the process being debugged.
//
// A caller registers one Entity per free variable of the expression
// (locals, persistent "$"-variables, symbols, registers, and a result
// slot) via the Materializer's Add* builders, then calls Materialize
// to copy their values into a packed struct at a caller-allocated
// address inside the inferior. After the compiled expression runs, the
// returned Dematerializer copies mutations back and, on the way, frees
// any scratch memory the materialize half had to allocate.
//
// This package never talks to the inferior directly; all memory
// traffic goes through the MemoryMap collaborator supplied by the
// caller (see collaborators.go), so it has no dependency on any
// specific debugger's process-control layer.
package exprmat
