// Package causalerr defines the error kinds shared across the causal-log
// packages: a Kind/Detail/Cause triple with a package-level Is helper
// for matching a Kind across error-wrapping boundaries.
package causalerr

import (
	"errors"
	"fmt"
)

// Kind identifies one of the error categories the log's operations can
// fail with.
type Kind uint32

const (
	// StoreMissing means a store handle was required but not supplied.
	StoreMissing Kind = iota
	// LogMissing means a Log argument was required but not supplied.
	LogMissing
	// BadArgument means a non-sequence was passed where a sequence was
	// required, or an unknown hash was used in a strict context.
	BadArgument
	// NotFound means Get(hash) failed to find the block.
	NotFound
	// Malformed means block bytes did not decode to a valid Entry.
	Malformed
	// NotALog means a metadata block lacked a heads field.
	NotALog
	// EmptyLog means ToHash was called on a Log with no entries.
	EmptyLog
	// StoreError means the underlying store failed during Put/Get.
	StoreError
)

var names = map[Kind]string{
	StoreMissing: "StoreMissing",
	LogMissing:   "LogMissing",
	BadArgument:  "BadArgument",
	NotFound:     "NotFound",
	Malformed:    "Malformed",
	NotALog:      "NotALog",
	EmptyLog:     "EmptyLog",
	StoreError:   "StoreError",
}

func (k Kind) String() string {
	if name, ok := names[k]; ok {
		return name
	}
	return "Unknown"
}

// Error is the error type returned by every causal-log operation. It
// carries the Kind, a human-readable detail (which names the hash or
// argument involved), and, where relevant, the underlying cause.
type Error struct {
	Kind   Kind
	Detail string
	Cause  error
}

// New creates an Error of the given Kind with a formatted detail message.
func New(kind Kind, format string, args ...interface{}) Error {
	return Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given Kind that records an underlying cause,
// used when a store implementation's own error needs to surface as one of
// our kinds (e.g. StoreError wrapping a disk I/O failure).
func Wrap(kind Kind, cause error, format string, args ...interface{}) Error {
	return Error{Kind: kind, Detail: fmt.Sprintf(format, args...), Cause: cause}
}

// Error implements the error interface.
func (e Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Unwrap allows errors.Is/errors.As to reach the wrapped cause.
func (e Error) Unwrap() error {
	return e.Cause
}

// Is reports whether err is a causal-log Error of the given Kind.
func Is(err error, kind Kind) bool {
	var cerr Error
	return errors.As(err, &cerr) && cerr.Kind == kind
}
