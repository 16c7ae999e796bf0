package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRoot  = errors.New("invalid crawl root")
	ErrUnreadable   = errors.New("document unreadable")
	ErrStaleOffset  = errors.New("stale offset")
	ErrNotFound     = errors.New("not found")
	ErrFormat       = errors.New("invalid snapshot format")
	ErrInvalidInput = errors.New("invalid input")
)

// Exit codes returned by the command-line tools.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitUsage    = 2
	ExitNotFound = 3
	ExitCorrupt  = 4
)

type AppError struct {
	Err     error
	Message string
	Code    int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, code int, message string) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: message,
		Code:    code,
	}
}

func Newf(sentinel error, code int, format string, args ...any) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: fmt.Sprintf(format, args...),
		Code:    code,
	}
}

func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}

	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidRoot):
		return ExitUsage
	case errors.Is(err, ErrNotFound):
		return ExitNotFound
	case errors.Is(err, ErrFormat):
		return ExitCorrupt
	default:
		return ExitFailure
	}
}
