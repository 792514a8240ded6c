package session

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()
	expires := now.Add(time.Hour)
	id := "2b1c8a8e-4d0f-4c3a-9b55-5e0d6a3f1c11"

	mock.ExpectQuery(`INSERT INTO sessions \(id,user_id,expires_at\)`).
		WithArgs(id, int64(1), expires).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectQuery(`SELECT id, user_id, expires_at, revoked_at, created_at FROM sessions WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "expires_at", "revoked_at", "created_at"}).
			AddRow(id, int64(1), expires, nil, now))

	s := &domain.Session{ID: id, UserID: 1, ExpiresAt: expires}
	require.NoError(t, repo.Create(context.Background(), s))
	assert.True(t, now.Equal(s.CreatedAt))

	got, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, got.IsActive(now))
}

func TestRepository_Revoke(t *testing.T) {
	repo, mock := newMock(t)
	at := time.Now()

	mock.ExpectExec(`UPDATE sessions SET revoked_at = COALESCE\(revoked_at, \$1\) WHERE id = \$2`).
		WithArgs(at, "known").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE sessions`).
		WithArgs(at, "unknown").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Revoke(context.Background(), "known", at))
	assert.ErrorIs(t, repo.Revoke(context.Background(), "unknown", at), ErrSessionNotFound)
}
