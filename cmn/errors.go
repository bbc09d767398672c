package cmn

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error taxonomy, spec.md §7. Each kind is a distinct sentinel so callers can
// branch with errors.Is/errors.As; package boundaries wrap with
// github.com/pkg/errors to retain a stack for diagnostics, matching the
// teacher's ais/prxtxn.go and reb/ec.go error-wrapping style.
type Kind int

const (
	KindInvalidArgument Kind = iota
	KindNotFound
	KindAlreadyExists
	KindIOError
	KindCryptoError
	KindChecksumMismatch
	KindReconstructionFailure
	KindOutOfMemory
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindNotFound:
		return "NotFound"
	case KindAlreadyExists:
		return "AlreadyExists"
	case KindIOError:
		return "IOError"
	case KindCryptoError:
		return "CryptoError"
	case KindChecksumMismatch:
		return "ChecksumMismatch"
	case KindReconstructionFailure:
		return "ReconstructionFailure"
	case KindOutOfMemory:
		return "OutOfMemory"
	default:
		return "Unknown"
	}
}

// Error is the concrete type behind every sentinel below. It never embeds
// the S3/Auth layer -- that belongs to the out-of-scope HTTP collaborator.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is enables errors.Is(err, cmn.ErrNotFound) style matching purely on Kind,
// ignoring Message/cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func NewError(kind Kind, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, a...)}
}

// WrapError attaches a stack trace to cause via github.com/pkg/errors, the
// same way the teacher's ais/prxtxn.go and reb/ec.go wrap errors at package
// boundaries, before storing it as this Error's cause.
func WrapError(kind Kind, cause error, format string, a ...interface{}) *Error {
	if cause != nil {
		cause = errors.WithStack(cause)
	}
	return &Error{Kind: kind, Message: fmt.Sprintf(format, a...), cause: cause}
}

// Sentinels used with errors.Is.
var (
	ErrInvalidArgument      = &Error{Kind: KindInvalidArgument}
	ErrNotFound             = &Error{Kind: KindNotFound}
	ErrAlreadyExists        = &Error{Kind: KindAlreadyExists}
	ErrIOError              = &Error{Kind: KindIOError}
	ErrCryptoError          = &Error{Kind: KindCryptoError}
	ErrChecksumMismatch     = &Error{Kind: KindChecksumMismatch}
	ErrReconstructionFailed = &Error{Kind: KindReconstructionFailure}
	ErrOutOfMemory          = &Error{Kind: KindOutOfMemory}
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsInvalidArgument(err error) bool { return errors.Is(err, ErrInvalidArgument) }
