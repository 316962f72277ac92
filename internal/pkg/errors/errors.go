package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Code standardizes failure semantics across services and repos.
type Code string

const (
	CodeValidation   Code = "validation"
	CodeNotFound     Code = "not_found"
	CodeUnauthorized Code = "unauthorized"
	CodeConflict     Code = "conflict"
	CodeRetryable    Code = "retryable"
	CodeInternal     Code = "internal"
)

var (
	// ErrInvalidArgument is the sentinel for caller input validation failures.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound is the sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is the sentinel for authentication failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict is the sentinel for uniqueness/concurrency conflicts.
	ErrConflict = errors.New("conflict")
	// ErrRetryable is the sentinel for transient store failures.
	ErrRetryable = errors.New("transient failure")
)

// Error is the canonical error wrapper carried across layers.
type Error struct {
	Code    Code
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is match a coded error against the package sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidArgument:
		return e.Code == CodeValidation
	case ErrNotFound:
		return e.Code == CodeNotFound
	case ErrUnauthorized:
		return e.Code == CodeUnauthorized
	case ErrConflict:
		return e.Code == CodeConflict
	case ErrRetryable:
		return e.Code == CodeRetryable
	}
	return false
}

// New builds a coded error with explicit operation and message.
func New(code Code, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

func Invalid(op, message string) error {
	return New(CodeValidation, op, message, ErrInvalidArgument)
}

func NotFound(op, message string) error {
	return New(CodeNotFound, op, message, ErrNotFound)
}

func Unauthorized(op, message string) error {
	return New(CodeUnauthorized, op, message, ErrUnauthorized)
}

func Conflict(op, message string) error {
	return New(CodeConflict, op, message, ErrConflict)
}

func Internal(op, message string, cause error) error {
	return New(CodeInternal, op, message, cause)
}

// Wrap annotates an existing error with a code, preserving the cause chain.
func Wrap(code Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return New(code, op, err.Error(), err)
}

// CodeOf extracts the code when err carries one, CodeInternal otherwise.
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return CodeInternal
}

// Classify maps store and infrastructure failures into the taxonomy.
// Already-coded errors pass through untouched.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var coded *Error
	if errors.As(err, &coded) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return Wrap(CodeNotFound, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Wrap(CodeRetryable, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return Wrap(CodeConflict, op, err) // unique_violation
		case "23503":
			return Wrap(CodeValidation, op, err) // foreign_key_violation
		case "40001", "40P01", "55P03":
			return Wrap(CodeRetryable, op, err) // serialization/deadlock/lock_not_available
		}
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "duplicate key"), strings.Contains(msg, "already exists"),
		strings.Contains(msg, "unique constraint"):
		return Wrap(CodeConflict, op, err)
	case strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "serialization"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "temporar"):
		return Wrap(CodeRetryable, op, err)
	default:
		return Wrap(CodeInternal, op, err)
	}
}
