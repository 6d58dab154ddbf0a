package ledger

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrExceedsTotal = errors.New("payments would exceed order total")
)

type ledgerError struct {
	kind error
	msg  string
}

func (e *ledgerError) Error() string { return e.msg }
func (e *ledgerError) Unwrap() error { return e.kind }

func notFound(format string, args ...any) error {
	return &ledgerError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

func invalid(format string, args ...any) error {
	return &ledgerError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

func exceedsTotal(paid, total float64) error {
	return &ledgerError{
		kind: ErrExceedsTotal,
		msg:  fmt.Sprintf("total paid %.2f would exceed order total %.2f", paid, total),
	}
}
