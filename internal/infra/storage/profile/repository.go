package profile

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
	"github.com/m04kA/MediTime-BookingService/internal/infra/storage/storeerr"
	"github.com/m04kA/MediTime-BookingService/pkg/dbmetrics"
	"github.com/m04kA/MediTime-BookingService/pkg/psqlbuilder"
)

const table = "profiles"

var columns = []string{
	"id",
	"email",
	"password_hash",
	"full_name",
	"phone",
	"role",
	"created_at",
	"updated_at",
}

// Repository репозиторий профилей пользователей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория профилей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает профиль, email хранится в нижнем регистре
func (r *Repository) Create(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	p.Email = normalizeEmail(p.Email)

	query, args, err := psqlbuilder.Insert(table).
		Columns("email", "password_hash", "full_name", "phone", "role").
		Values(p.Email, p.PasswordHash, p.FullName, p.Phone, p.Role).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, storeerr.Wrap(ErrBuildQuery, "Create", err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if storeerr.IsUniqueViolation(err) {
			return nil, storeerr.Wrap(ErrEmailTaken, "Create", err)
		}
		return nil, storeerr.Wrap(ErrExecQuery, "Create", err)
	}

	return p, nil
}

// GetByID получает профиль по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Profile, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByEmail получает профиль по email без учета регистра
func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	return r.getOne(ctx, "GetByEmail", squirrel.Eq{"email": normalizeEmail(email)})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Sqlizer) (*domain.Profile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(where).
		ToSql()
	if err != nil {
		return nil, storeerr.Wrap(ErrBuildQuery, op, err)
	}

	p, err := scanProfile(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storeerr.Wrap(ErrProfileNotFound, op, nil)
	}
	if err != nil {
		return nil, storeerr.Wrap(ErrScanRow, op, err)
	}

	return p, nil
}

// Update обновляет имя и телефон
func (r *Repository) Update(ctx context.Context, id int64, fullName string, phone *string) (*domain.Profile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("full_name", fullName).
		Set("phone", phone).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, storeerr.Wrap(ErrBuildQuery, "Update", err)
	}

	p, err := scanProfile(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storeerr.Wrap(ErrProfileNotFound, "Update", nil)
	}
	if err != nil {
		return nil, storeerr.Wrap(ErrExecQuery, "Update", err)
	}

	return p, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.PasswordHash,
		&p.FullName,
		&p.Phone,
		&p.Role,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
