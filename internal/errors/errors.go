// Package errors provides error handling for umlgraph.
//
// It re-exports the parts of github.com/cockroachdb/errors the tool uses,
// so callers get stack traces, wrapping and user-facing hints from a single
// import:
//
//	if err != nil {
//	    return errors.Wrapf(err, "failed to load %s", path)
//	}
//
//	return errors.WithHint(err, "supported notations: yuml, plantuml")
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages
var (
	WithHint      = crdb.WithHint
	WithHintf     = crdb.WithHintf
	WithDetail    = crdb.WithDetail
	WithDetailf   = crdb.WithDetailf
	GetAllHints   = crdb.GetAllHints
	FlattenHints  = crdb.FlattenHints
	GetAllDetails = crdb.GetAllDetails
)

// Inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// AssertionFailedf reports a programming fault. The returned error is
// meant to be panicked with, not handled.
var AssertionFailedf = crdb.AssertionFailedf

// Sentinel errors. Wrap them to add context; match with Is.
var (
	// ErrArtifactAccess means the source artifact could not be opened or read.
	ErrArtifactAccess = New("artifact access failed")

	// ErrUnresolvable marks a single artifact entry that could not be turned
	// into a type descriptor. Providers recover from it by skipping the entry.
	ErrUnresolvable = New("unresolvable type descriptor")

	// ErrUnknownNotation means no renderer is registered under the requested name.
	ErrUnknownNotation = New("unknown notation")
)

// IsArtifactAccessError checks if an error is or wraps ErrArtifactAccess
func IsArtifactAccessError(err error) bool {
	return err != nil && Is(err, ErrArtifactAccess)
}

// IsUnknownNotationError checks if an error is or wraps ErrUnknownNotation
func IsUnknownNotationError(err error) bool {
	return err != nil && Is(err, ErrUnknownNotation)
}

// WrapArtifactAccess marks err as an artifact access failure for path.
func WrapArtifactAccess(err error, path string) error {
	return Wrapf(Mark(err, ErrArtifactAccess), "cannot access artifact %s", path)
}
