// Copyright (c) 2024 The netsmith authors
//
// MIT License

package bdd

import (
	"errors"
	"fmt"
)

// Error taxonomy of the engine. Recoverable conditions (configuration,
// memory) are returned, or recorded on the factory for operations that
// return handles; misuse of handles (ErrUseAfterFree, ErrCrossFactory) is a
// programming error and panics with a wrapped sentinel.
var (
	// ErrConfiguration indicates an invalid parameter: a bad variable
	// number, a shrinking variable order, a bad cache ratio, or mismatched
	// slice lengths in a batch Set.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrUseAfterFree indicates an operation on a handle that was already
	// freed, or that outlived its factory.
	ErrUseAfterFree = errors.New("use of freed BDD handle")

	// ErrCrossFactory indicates an operation mixing handles owned by
	// different factories.
	ErrCrossFactory = errors.New("operands from different factories")

	// ErrOutOfMemory indicates that the node table cannot grow any further.
	// The failed operation is aborted; the factory remains usable.
	ErrOutOfMemory = errors.New("unable to grow node table")

	// ErrFrozenPairing indicates a Set on a pairing that was already
	// installed.
	ErrFrozenPairing = errors.New("mutation of installed pairing")
)

// Error returns the sticky operation error of the factory, or the empty
// string when every operation so far succeeded. Operations that fail return
// a nil handle and record their error here.
func (f *Factory) Error() string {
	if f.err == nil {
		return ""
	}
	return f.err.Error()
}

// Errored reports whether an operation failed since the factory was created.
func (f *Factory) Errored() bool {
	return f.err != nil
}

func errConfigf(format string, a ...interface{}) error {
	return fmt.Errorf(format+": %w", append(a, ErrConfiguration)...)
}

func (f *Factory) seterror(sentinel error, format string, a ...interface{}) *BDD {
	err := fmt.Errorf(format+": %w", append(a, sentinel)...)
	if f.err != nil {
		err = fmt.Errorf("%v; %w", err, f.err)
	}
	f.err = err
	return nil
}
