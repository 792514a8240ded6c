package appointment

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
	"github.com/m04kA/MediTime-BookingService/internal/infra/storage/storeerr"
	"github.com/m04kA/MediTime-BookingService/pkg/dbmetrics"
	"github.com/m04kA/MediTime-BookingService/pkg/psqlbuilder"
)

const table = "appointments"

var columns = []string{
	"id",
	"practice_id",
	"patient_id",
	"appointment_date",
	"status",
	"notes",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями на прием
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись
// Если в контексте передана активная транзакция, использует её.
// Нарушение уникального индекса по слоту возвращается как ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("practice_id", "patient_id", "appointment_date", "status", "notes").
		Values(a.PracticeID, a.PatientID, a.AppointmentDate, a.Status, a.Notes).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, storeerr.Wrap(ErrBuildQuery, "Create", err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if storeerr.IsUniqueViolation(err) {
			return nil, storeerr.Wrap(ErrSlotTaken, "Create", err)
		}
		return nil, storeerr.Wrap(ErrExecQuery, "Create", err)
	}

	return a, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	// Смена статуса в транзакции блокирует строку
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, storeerr.Wrap(ErrBuildQuery, "GetByID", err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storeerr.Wrap(ErrAppointmentNotFound, "GetByID", nil)
	}
	if err != nil {
		return nil, storeerr.Wrap(ErrScanRow, "GetByID", err)
	}

	return a, nil
}

// GetByPatient получает записи пациента с данными практики
// upcoming: будущие, кроме отмененных, по возрастанию даты
// past: прошедшие (все статусы), по убыванию даты
func (r *Repository) GetByPatient(ctx context.Context, filter domain.PatientAppointmentsFilter) ([]*domain.AppointmentWithPractice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(
		"a.id",
		"a.practice_id",
		"a.patient_id",
		"a.appointment_date",
		"a.status",
		"a.notes",
		"a.created_at",
		"a.updated_at",
		"p.name",
		"p.address",
		"p.city",
		"p.phone",
	).
		From(table + " a").
		Join("practices p ON p.id = a.practice_id").
		Where(squirrel.Eq{"a.patient_id": filter.PatientID})

	switch filter.Scope {
	case domain.ScopePast:
		builder = builder.
			Where(squirrel.Lt{"a.appointment_date": filter.Now}).
			OrderBy("a.appointment_date DESC")
	default:
		builder = builder.
			Where(squirrel.GtOrEq{"a.appointment_date": filter.Now}).
			Where(squirrel.NotEq{"a.status": domain.StatusCancelled}).
			OrderBy("a.appointment_date ASC")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, storeerr.Wrap(ErrBuildQuery, "GetByPatient", err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeerr.Wrap(ErrExecQuery, "GetByPatient", err)
	}
	defer rows.Close()

	result := make([]*domain.AppointmentWithPractice, 0)
	for rows.Next() {
		var item domain.AppointmentWithPractice
		err := rows.Scan(
			&item.ID,
			&item.PracticeID,
			&item.PatientID,
			&item.AppointmentDate,
			&item.Status,
			&item.Notes,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.PracticeName,
			&item.PracticeAddress,
			&item.PracticeCity,
			&item.PracticePhone,
		)
		if err != nil {
			return nil, storeerr.Wrap(ErrScanRow, "GetByPatient", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, storeerr.Wrap(ErrScanRow, "GetByPatient", err)
	}

	return result, nil
}

// GetByPracticeAndDay получает записи практики за сутки [dayStart, dayEnd) с данными пациента
func (r *Repository) GetByPracticeAndDay(ctx context.Context, practiceID int64, dayStart, dayEnd time.Time) ([]*domain.AppointmentWithPatient, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"a.id",
		"a.practice_id",
		"a.patient_id",
		"a.appointment_date",
		"a.status",
		"a.notes",
		"a.created_at",
		"a.updated_at",
		"pr.full_name",
		"pr.phone",
	).
		From(table + " a").
		Join("profiles pr ON pr.id = a.patient_id").
		Where(squirrel.Eq{"a.practice_id": practiceID}).
		Where(squirrel.GtOrEq{"a.appointment_date": dayStart}).
		Where(squirrel.Lt{"a.appointment_date": dayEnd}).
		OrderBy("a.appointment_date ASC").
		ToSql()
	if err != nil {
		return nil, storeerr.Wrap(ErrBuildQuery, "GetByPracticeAndDay", err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeerr.Wrap(ErrExecQuery, "GetByPracticeAndDay", err)
	}
	defer rows.Close()

	result := make([]*domain.AppointmentWithPatient, 0)
	for rows.Next() {
		var item domain.AppointmentWithPatient
		err := rows.Scan(
			&item.ID,
			&item.PracticeID,
			&item.PatientID,
			&item.AppointmentDate,
			&item.Status,
			&item.Notes,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.PatientName,
			&item.PatientPhone,
		)
		if err != nil {
			return nil, storeerr.Wrap(ErrScanRow, "GetByPracticeAndDay", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, storeerr.Wrap(ErrScanRow, "GetByPracticeAndDay", err)
	}

	return result, nil
}

// GetBookedTimes возвращает время начала неотмененных записей практики за [dayStart, dayEnd)
// Внутри транзакции строки блокируются (FOR UPDATE) для проверки слота при создании записи
func (r *Repository) GetBookedTimes(ctx context.Context, practiceID int64, dayStart, dayEnd time.Time) ([]time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select("appointment_date").
		From(table).
		Where(squirrel.Eq{"practice_id": practiceID}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		Where(squirrel.GtOrEq{"appointment_date": dayStart}).
		Where(squirrel.Lt{"appointment_date": dayEnd}).
		OrderBy("appointment_date ASC")

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, storeerr.Wrap(ErrBuildQuery, "GetBookedTimes", err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeerr.Wrap(ErrExecQuery, "GetBookedTimes", err)
	}
	defer rows.Close()

	result := make([]time.Time, 0)
	for rows.Next() {
		var at time.Time
		if err := rows.Scan(&at); err != nil {
			return nil, storeerr.Wrap(ErrScanRow, "GetBookedTimes", err)
		}
		result = append(result, at)
	}
	if err := rows.Err(); err != nil {
		return nil, storeerr.Wrap(ErrScanRow, "GetBookedTimes", err)
	}

	return result, nil
}

// UpdateStatus обновляет статус записи и возвращает обновленную запись
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, storeerr.Wrap(ErrBuildQuery, "UpdateStatus", err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storeerr.Wrap(ErrAppointmentNotFound, "UpdateStatus", nil)
	}
	if err != nil {
		if storeerr.IsUniqueViolation(err) {
			// повторная активация отмененной записи на занятый слот
			return nil, storeerr.Wrap(ErrSlotTaken, "UpdateStatus", err)
		}
		return nil, storeerr.Wrap(ErrExecQuery, "UpdateStatus", err)
	}

	return a, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment
	err := row.Scan(
		&a.ID,
		&a.PracticeID,
		&a.PatientID,
		&a.AppointmentDate,
		&a.Status,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
