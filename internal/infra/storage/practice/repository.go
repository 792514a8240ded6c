package practice

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

const (
	practicesTable = "practices"
	waitTimesTable = "wait_times"
)

var columns = []string{
	"id",
	"owner_id",
	"name",
	"specialty",
	"description",
	"address",
	"city",
	"postal_code",
	"phone",
	"email",
	"latitude",
	"longitude",
	"opening_hours",
	"created_at",
	"updated_at",
}

// Repository репозиторий практик и времени ожидания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория практик
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает практику
func (r *Repository) Create(ctx context.Context, p *domain.Practice) (*domain.Practice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(practicesTable).
		Columns(
			"owner_id",
			"name",
			"specialty",
			"description",
			"address",
			"city",
			"postal_code",
			"phone",
			"email",
			"latitude",
			"longitude",
			"opening_hours",
		).
		Values(
			p.OwnerID,
			p.Name,
			p.Specialty,
			p.Description,
			p.Address,
			p.City,
			p.PostalCode,
			p.Phone,
			p.Email,
			p.Latitude,
			p.Longitude,
			p.OpeningHours,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, storeerr.Wrap(ErrBuildQuery, "Create", err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, storeerr.Wrap(ErrExecQuery, "Create", err)
	}

	return p, nil
}

// GetByID получает практику по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Practice, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByOwner получает практику владельца (первую созданную)
func (r *Repository) GetByOwner(ctx context.Context, ownerID int64) (*domain.Practice, error) {
	return r.getOne(ctx, "GetByOwner", squirrel.Eq{"owner_id": ownerID})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Sqlizer) (*domain.Practice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(practicesTable).
		Where(where).
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, storeerr.Wrap(ErrBuildQuery, op, err)
	}

	p, err := scanPractice(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storeerr.Wrap(ErrPracticeNotFound, op, nil)
	}
	if err != nil {
		return nil, storeerr.Wrap(ErrScanRow, op, err)
	}

	return p, nil
}

// List получает практики по фильтру, сортировка по названию
// Search ищет по названию, городу и специализации без учета регистра
func (r *Repository) List(ctx context.Context, filter domain.PracticeFilter) ([]*domain.Practice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(practicesTable).
		OrderBy("name ASC")

	if filter.Specialty != nil && *filter.Specialty != "" {
		builder = builder.Where(squirrel.Eq{"specialty": *filter.Specialty})
	}

	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		pattern := "%" + escapeLike(strings.TrimSpace(*filter.Search)) + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"city": pattern},
			squirrel.ILike{"specialty": pattern},
		})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, storeerr.Wrap(ErrBuildQuery, "List", err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeerr.Wrap(ErrExecQuery, "List", err)
	}
	defer rows.Close()

	result := make([]*domain.Practice, 0)
	for rows.Next() {
		p, err := scanPractice(rows)
		if err != nil {
			return nil, storeerr.Wrap(ErrScanRow, "List", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeerr.Wrap(ErrScanRow, "List", err)
	}

	return result, nil
}

// Update обновляет настройки практики (owner_id не меняется)
func (r *Repository) Update(ctx context.Context, p *domain.Practice) (*domain.Practice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(practicesTable).
		Set("name", p.Name).
		Set("specialty", p.Specialty).
		Set("description", p.Description).
		Set("address", p.Address).
		Set("city", p.City).
		Set("postal_code", p.PostalCode).
		Set("phone", p.Phone).
		Set("email", p.Email).
		Set("latitude", p.Latitude).
		Set("longitude", p.Longitude).
		Set("opening_hours", p.OpeningHours).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": p.ID}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, storeerr.Wrap(ErrBuildQuery, "Update", err)
	}

	updated, err := scanPractice(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storeerr.Wrap(ErrPracticeNotFound, "Update", nil)
	}
	if err != nil {
		return nil, storeerr.Wrap(ErrExecQuery, "Update", err)
	}

	return updated, nil
}

// UpsertWaitTime создает или обновляет текущее время ожидания практики
func (r *Repository) UpsertWaitTime(ctx context.Context, practiceID int64, minutes int) (*domain.WaitTime, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(waitTimesTable).
		Columns("practice_id", "current_wait_minutes").
		Values(practiceID, minutes).
		Suffix("ON CONFLICT (practice_id) DO UPDATE SET current_wait_minutes = EXCLUDED.current_wait_minutes, updated_at = NOW() " +
			"RETURNING practice_id, current_wait_minutes, updated_at").
		ToSql()
	if err != nil {
		return nil, storeerr.Wrap(ErrBuildQuery, "UpsertWaitTime", err)
	}

	var w domain.WaitTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&w.PracticeID, &w.CurrentWaitMinutes, &w.UpdatedAt); err != nil {
		return nil, storeerr.Wrap(ErrExecQuery, "UpsertWaitTime", err)
	}

	return &w, nil
}

// GetWaitTime получает время ожидания практики
func (r *Repository) GetWaitTime(ctx context.Context, practiceID int64) (*domain.WaitTime, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("practice_id", "current_wait_minutes", "updated_at").
		From(waitTimesTable).
		Where(squirrel.Eq{"practice_id": practiceID}).
		ToSql()
	if err != nil {
		return nil, storeerr.Wrap(ErrBuildQuery, "GetWaitTime", err)
	}

	var w domain.WaitTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&w.PracticeID, &w.CurrentWaitMinutes, &w.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storeerr.Wrap(ErrWaitTimeNotFound, "GetWaitTime", nil)
	}
	if err != nil {
		return nil, storeerr.Wrap(ErrScanRow, "GetWaitTime", err)
	}

	return &w, nil
}

// ListWaitTimes получает время ожидания по списку практик (пустой список - все практики)
func (r *Repository) ListWaitTimes(ctx context.Context, practiceIDs []int64) (map[int64]*domain.WaitTime, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select("practice_id", "current_wait_minutes", "updated_at").
		From(waitTimesTable)
	if len(practiceIDs) > 0 {
		builder = builder.Where(squirrel.Eq{"practice_id": practiceIDs})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, storeerr.Wrap(ErrBuildQuery, "ListWaitTimes", err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeerr.Wrap(ErrExecQuery, "ListWaitTimes", err)
	}
	defer rows.Close()

	result := make(map[int64]*domain.WaitTime)
	for rows.Next() {
		var w domain.WaitTime
		if err := rows.Scan(&w.PracticeID, &w.CurrentWaitMinutes, &w.UpdatedAt); err != nil {
			return nil, storeerr.Wrap(ErrScanRow, "ListWaitTimes", err)
		}
		result[w.PracticeID] = &w
	}
	if err := rows.Err(); err != nil {
		return nil, storeerr.Wrap(ErrScanRow, "ListWaitTimes", err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPractice(row rowScanner) (*domain.Practice, error) {
	var p domain.Practice
	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.Specialty,
		&p.Description,
		&p.Address,
		&p.City,
		&p.PostalCode,
		&p.Phone,
		&p.Email,
		&p.Latitude,
		&p.Longitude,
		&p.OpeningHours,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
