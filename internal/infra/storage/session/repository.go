package session

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
	"github.com/m04kA/MediTime-BookingService/internal/infra/storage/storeerr"
	"github.com/m04kA/MediTime-BookingService/pkg/dbmetrics"
	"github.com/m04kA/MediTime-BookingService/pkg/psqlbuilder"
)

const table = "sessions"

// Repository репозиторий серверных сессий
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сессий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет сессию (ID генерируется сервисом)
func (r *Repository) Create(ctx context.Context, s *domain.Session) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("id", "user_id", "expires_at").
		Values(s.ID, s.UserID, s.ExpiresAt).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return storeerr.Wrap(ErrBuildQuery, "Create", err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.CreatedAt); err != nil {
		return storeerr.Wrap(ErrExecQuery, "Create", err)
	}

	return nil
}

// Get получает сессию по ID
func (r *Repository) Get(ctx context.Context, id string) (*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "user_id", "expires_at", "revoked_at", "created_at").
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, storeerr.Wrap(ErrBuildQuery, "Get", err)
	}

	var s domain.Session
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.UserID, &s.ExpiresAt, &s.RevokedAt, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storeerr.Wrap(ErrSessionNotFound, "Get", nil)
	}
	if err != nil {
		return nil, storeerr.Wrap(ErrScanRow, "Get", err)
	}

	return &s, nil
}

// Revoke отзывает сессию, повторный отзыв сохраняет первое время
func (r *Repository) Revoke(ctx context.Context, id string, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("revoked_at", squirrel.Expr("COALESCE(revoked_at, ?)", at)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return storeerr.Wrap(ErrBuildQuery, "Revoke", err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return storeerr.Wrap(ErrExecQuery, "Revoke", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return storeerr.Wrap(ErrExecQuery, "Revoke", err)
	}
	if affected == 0 {
		return storeerr.Wrap(ErrSessionNotFound, "Revoke", nil)
	}

	return nil
}
