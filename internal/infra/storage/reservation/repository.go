package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-PetBookingService/internal/domain"
	"github.com/m04kA/SMC-PetBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-PetBookingService/pkg/psqlbuilder"
)

var reservationColumns = []string{
	"id",
	"requester_id",
	"provider_id",
	"offering_id",
	"offering_kind",
	"service_type",
	"offering_name",
	"unit_price",
	"pet_id",
	"pet_name",
	"start_date",
	"end_date",
	"start_time",
	"duration_minutes",
	"note",
	"contact_name",
	"contact_phone",
	"contact_email",
	"status",
	"status_reason",
	"cancelled_by",
	"created_at",
	"updated_at",
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её.
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"requester_id",
			"provider_id",
			"offering_id",
			"offering_kind",
			"service_type",
			"offering_name",
			"unit_price",
			"pet_id",
			"pet_name",
			"start_date",
			"end_date",
			"start_time",
			"duration_minutes",
			"note",
			"contact_name",
			"contact_phone",
			"contact_email",
			"status",
		).
		Values(
			res.RequesterID,
			res.ProviderID,
			res.OfferingID,
			res.OfferingKind,
			res.ServiceType,
			res.OfferingName,
			res.UnitPrice,
			res.PetID,
			res.PetName,
			res.StartDate,
			res.EndDate,
			res.StartTime,
			res.DurationMinutes,
			res.Note,
			res.Contact.Name,
			res.Contact.Phone,
			res.Contact.Email,
			res.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE) для смены статуса
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %w", ErrScanRow, err)
	}

	return res, nil
}

// List получает бронирования с фильтрацией по участнику, офферу и статусу
// Сортировка: сначала ближайшие по дате начала
func (r *Repository) List(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		OrderBy("start_date DESC", "start_time DESC", "id DESC")

	if filter.RequesterID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"requester_id": *filter.RequesterID})
	}
	if filter.ProviderID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"provider_id": *filter.ProviderID})
	}
	if filter.OfferingID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"offering_id": *filter.OfferingID})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	reservations := make([]*domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan reservation: %v", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return reservations, nil
}

// UpdateStatus сохраняет результат перехода статуса
func (r *Repository) UpdateStatus(ctx context.Context, res *domain.Reservation) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var cancelledBy *string
	if res.CancelledBy != nil {
		s := string(*res.CancelledBy)
		cancelledBy = &s
	}

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", res.Status).
		Set("status_reason", res.StatusReason).
		Set("cancelled_by", cancelledBy).
		Set("updated_at", res.UpdatedAt).
		Where(squirrel.Eq{"id": res.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var (
		res         domain.Reservation
		cancelledBy sql.NullString
		createdAt   sql.NullTime
		updatedAt   sql.NullTime
	)

	err := row.Scan(
		&res.ID,
		&res.RequesterID,
		&res.ProviderID,
		&res.OfferingID,
		&res.OfferingKind,
		&res.ServiceType,
		&res.OfferingName,
		&res.UnitPrice,
		&res.PetID,
		&res.PetName,
		&res.StartDate,
		&res.EndDate,
		&res.StartTime,
		&res.DurationMinutes,
		&res.Note,
		&res.Contact.Name,
		&res.Contact.Phone,
		&res.Contact.Email,
		&res.Status,
		&res.StatusReason,
		&cancelledBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.StartDate = domain.DateOnly(res.StartDate)
	res.EndDate = domain.DateOnly(res.EndDate)
	if cancelledBy.Valid {
		party := domain.Party(cancelledBy.String)
		res.CancelledBy = &party
	}
	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}
