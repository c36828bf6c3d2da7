package exprmat

import "fmt"

// Dematerializer is a single-use handle bound to one materialization
// instance.
type Dematerializer struct {
	m          *Materializer
	frame      Frame
	mm         MemoryMap
	structAddr uint64
	valid      bool
}

// IsValid reports whether this handle has not yet been consumed by
// Dematerialize or Wipe.
func (d *Dematerializer) IsValid() bool { return d.valid }

// Dematerialize drives every entity's Dematerialize in insertion
// order, reading each one's slot back out of the argument struct.
// frameBottom/frameTop bound the expression's own stack frame (used
// only by PersistentEntity). The single ResultEntity, identified by
// pointer equality against the Materializer's weak handle, is routed
// through its specialized dematerialize path instead and, on success,
// its freshly minted persistent variable is returned.
//
// Stops on the first error but always calls Wipe afterward regardless
// of success or failure.
func (d *Dematerializer) Dematerialize(frameBottom, frameTop uint64) (resultVar *PersistentVariable, err error) {
	defer d.wipe()

	if !d.valid {
		return nil, ErrInvalidated
	}

	scope := bestScope(d.frame, d.mm)
	if scope == nil {
		return nil, ErrNoExecutionScope
	}

	for _, e := range d.m.entities {
		if re, ok := e.(*ResultEntity); ok && d.m.result != nil && re == d.m.result {
			rv, rerr := d.m.result.DematerializeResult(scope, d.mm, d.structAddr)
			if rerr != nil {
				return nil, rerr
			}
			resultVar = rv
			continue
		}
		if err := e.Dematerialize(d.frame, d.mm, d.structAddr, frameBottom, frameTop); err != nil {
			return nil, err
		}
	}

	return resultVar, nil
}

// Wipe releases every entity's transient resource without copying data
// back, and invalidates the handle. Idempotent.
func (d *Dematerializer) Wipe() error {
	if !d.valid {
		return nil
	}
	return d.wipeErr()
}

// wipe is the internal, error-swallowing form used both by Wipe and by
// the deferred cleanup at the end of Dematerialize (which has already
// committed to returning its own error, if any).
func (d *Dematerializer) wipe() {
	_ = d.wipeErr()
}

func (d *Dematerializer) wipeErr() error {
	if !d.valid {
		return nil
	}
	d.valid = false
	if d.m.live == d {
		d.m.live = nil
	}

	var first error
	for _, e := range d.m.entities {
		if werr := e.Wipe(d.mm); werr != nil && first == nil {
			first = fmt.Errorf("exprmat: wipe: %w", werr)
		}
	}
	return first
}
