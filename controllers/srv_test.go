package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-management-backend/workflow"
)

func Test_httpStatus(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want int
	}{
		{"not_found", workflow.ErrNotFound, http.StatusNotFound},
		{"forbidden", workflow.ErrForbidden, http.StatusForbidden},
		{"not_available", workflow.ErrNotAvailable, http.StatusConflict},
		{"duplicate_borrow", workflow.ErrDuplicateBorrow, http.StatusConflict},
		{"borrow_limit", workflow.ErrBorrowLimitExceeded, http.StatusConflict},
		{"conflict", workflow.ErrConflict, http.StatusConflict},
		{"store_unavailable", workflow.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{"wrapped_kind", fmt.Errorf("approve: %w", workflow.ErrNotFound), http.StatusNotFound},
		{"unknown_is_500", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, httpStatus(tc.in))
		})
	}
}

func Test_fail_HidesUnknownErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := &Srv{}

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	s.fail(c, errors.New("pq: password authentication failed for user postgres"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
	assert.NotContains(t, rec.Body.String(), "password")
}

func Test_fail_MarksRetryableErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := &Srv{}

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	s.fail(c, workflow.ErrStoreUnavailable)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"retryable":true`)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	s.fail(c, workflow.ErrDuplicateBorrow)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.NotContains(t, rec.Body.String(), "retryable")
}
