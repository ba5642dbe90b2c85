package workflow

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func Test_translate(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{
			name: "nil_stays_nil",
			in:   nil,
			want: nil,
		},
		{
			name: "taxonomy_kind_passes_through",
			in:   ErrBorrowLimitExceeded,
			want: ErrBorrowLimitExceeded,
		},
		{
			name: "wrapped_kind_passes_through",
			in:   fmt.Errorf("approve: %w", ErrNotAvailable),
			want: ErrNotAvailable,
		},
		{
			name: "gorm_record_not_found",
			in:   gorm.ErrRecordNotFound,
			want: ErrNotFound,
		},
		{
			name: "context_deadline",
			in:   context.DeadlineExceeded,
			want: ErrStoreUnavailable,
		},
		{
			name: "unique_violation_on_open_borrow_index",
			in:   &pgconn.PgError{Code: "23505", ConstraintName: "lib_transactions_one_borrowed_per_user_book"},
			want: ErrDuplicateBorrow,
		},
		{
			name: "other_unique_violation_is_conflict",
			in:   &pgconn.PgError{Code: "23505", ConstraintName: "lib_users_username_key"},
			want: ErrConflict,
		},
		{
			name: "serialization_failure",
			in:   &pgconn.PgError{Code: "40001"},
			want: ErrConflict,
		},
		{
			name: "deadlock_detected",
			in:   &pgconn.PgError{Code: "40P01"},
			want: ErrConflict,
		},
		{
			name: "lock_not_available",
			in:   &pgconn.PgError{Code: "55P03"},
			want: ErrConflict,
		},
		{
			name: "connection_failure",
			in:   &pgconn.PgError{Code: "08006"},
			want: ErrStoreUnavailable,
		},
		{
			name: "admin_shutdown",
			in:   &pgconn.PgError{Code: "57P01"},
			want: ErrStoreUnavailable,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := translate(tc.in)
			if tc.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tc.want)
		})
	}
}

func Test_translate_UnknownErrorIsKeptVerbatim(t *testing.T) {
	boom := errors.New("boom")
	got := translate(boom)
	assert.ErrorIs(t, got, boom)
	for _, kind := range kinds {
		assert.NotErrorIs(t, got, kind)
	}
}

func Test_Retryable(t *testing.T) {
	assert.True(t, Retryable(ErrConflict))
	assert.True(t, Retryable(ErrStoreUnavailable))
	assert.False(t, Retryable(ErrNotFound))
	assert.False(t, Retryable(ErrNotAvailable))
	assert.False(t, Retryable(ErrDuplicateBorrow))
	assert.False(t, Retryable(ErrBorrowLimitExceeded))
	assert.False(t, Retryable(ErrForbidden))
}
