package storage

import (
	"errors"
	"fmt"
)

// Kind discriminates the structured error surface clients are expected to
// switch on; the message text itself is not part of the contract.
type Kind string

const (
	// KindNotFound means a locator or id has no corresponding record.
	KindNotFound Kind = "not_found"
	// KindNotActive means an operation required an unexpired version that
	// does not exist.
	KindNotActive Kind = "not_active"
	// KindCycleRejected means adding an edge would create a cycle within a
	// component.
	KindCycleRejected Kind = "cycle_rejected"
	// KindInvalidArgument means a precondition was violated, e.g. a
	// component locator not active at the operation time.
	KindInvalidArgument Kind = "invalid_argument"
	// KindStorageError means the backend refused a write or read.
	KindStorageError Kind = "storage_error"
	// KindConflict means (id, version) already exists.
	KindConflict Kind = "conflict"
	// KindInternal means an invariant was violated; it indicates a bug.
	KindInternal Kind = "internal"
)

// Error is the structured error chronograph surfaces across the engine,
// storage, and facade boundaries. Callers should branch on Kind, never on
// the message text.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is supports errors.Is(err, &storage.Error{Kind: storage.KindX}) by
// comparing Kind; a target that is not a *Error never matches.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newErr(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// NotFound builds a KindNotFound error for operation op.
func NotFound(op string) error { return newErr(KindNotFound, op, nil) }

// NotActive builds a KindNotActive error for operation op.
func NotActive(op string) error { return newErr(KindNotActive, op, nil) }

// CycleRejected builds a KindCycleRejected error for operation op.
func CycleRejected(op string) error { return newErr(KindCycleRejected, op, nil) }

// InvalidArgument builds a KindInvalidArgument error for operation op with
// a human-readable reason (not part of the structured contract).
func InvalidArgument(op, reason string) error {
	return newErr(KindInvalidArgument, op, errors.New(reason))
}

// StorageErr wraps a backend error as a KindStorageError.
func StorageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return newErr(KindStorageError, op, err)
}

// Conflict builds a KindConflict error for operation op.
func Conflict(op string) error { return newErr(KindConflict, op, nil) }

// Internal builds a KindInternal error for operation op, indicating an
// invariant violation rather than caller misuse.
func Internal(op, reason string) error {
	return newErr(KindInternal, op, errors.New(reason))
}

// KindOf extracts the Kind from err, or "" if err is not (or does not
// wrap) a *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
