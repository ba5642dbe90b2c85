package workflow

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Failure kinds surfaced to the gateway. Only ErrConflict and
// ErrStoreUnavailable are worth retrying; the rest need different input.
var (
	ErrNotFound            = errors.New("not found")
	ErrNotAvailable        = errors.New("book not available")
	ErrDuplicateBorrow     = errors.New("user already has this book borrowed")
	ErrBorrowLimitExceeded = errors.New("borrow limit exceeded")
	ErrForbidden           = errors.New("forbidden")
	ErrConflict            = errors.New("conflicting concurrent update, retry")
	ErrStoreUnavailable    = errors.New("store unavailable")
)

var kinds = []error{
	ErrNotFound,
	ErrNotAvailable,
	ErrDuplicateBorrow,
	ErrBorrowLimitExceeded,
	ErrForbidden,
	ErrConflict,
	ErrStoreUnavailable,
}

// Retryable reports whether the caller may retry the same call unchanged.
func Retryable(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrStoreUnavailable)
}

// translate maps store-level failures onto the taxonomy. Errors that are
// already a kind pass through untouched.
func translate(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return err
		}
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrStoreUnavailable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "one_borrowed"):
			// the partial unique index on open (user, book) borrows
			return ErrDuplicateBorrow
		case pgErr.Code == "23505":
			return ErrConflict
		case pgErr.Code == "40001" || pgErr.Code == "40P01" || pgErr.Code == "55P03":
			// serialization failure, deadlock, lock not available
			return ErrConflict
		case strings.HasPrefix(pgErr.Code, "08") || pgErr.Code == "57P01" || pgErr.Code == "53300":
			return ErrStoreUnavailable
		}
	}
	return err
}
