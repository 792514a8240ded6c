package storeerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errAppointmentNotFound = fmt.Errorf("appointment.repository: %w", ErrNotFound)

func TestWrap_KeepsKindAndCause(t *testing.T) {
	cause := &pq.Error{Code: CodeUniqueViolation, Message: "duplicate key"}

	err := error(Wrap(ErrConflict, "Create", fmt.Errorf("insert: %w", cause)))

	assert.ErrorIs(t, err, ErrConflict)
	var pqErr *pq.Error
	require.True(t, errors.As(err, &pqErr))
	assert.Equal(t, pq.ErrorCode(CodeUniqueViolation), pqErr.Code)

	var storeErr *StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, CodeUniqueViolation, storeErr.Code)
	assert.Equal(t, "Create", storeErr.Op)
	assert.Contains(t, err.Error(), "[23505]")
}

func TestWrap_RepositorySentinel(t *testing.T) {
	err := error(Wrap(errAppointmentNotFound, "GetByID", nil))

	assert.ErrorIs(t, err, errAppointmentNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, CodeOf(err))
	assert.Equal(t, "appointment.repository: storage: not found: GetByID", err.Error())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: CodeUniqueViolation}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: CodeCheckViolation}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsUniqueViolation(nil))
}
