package offering

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-PetBookingService/internal/domain"
	"github.com/m04kA/SMC-PetBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-PetBookingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-PetBookingService/pkg/txmanager"
	"github.com/m04kA/SMC-PetBookingService/pkg/types"
)

var offeringColumns = []string{
	"id",
	"provider_id",
	"service_type",
	"kind",
	"name",
	"price",
	"description",
	"contact_name",
	"contact_phone",
	"contact_email",
	"accepted_species",
	"status",
	"slot_duration_minutes",
	"available_weekdays",
	"available_times",
	"ledger_version",
	"created_at",
	"updated_at",
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// Repository репозиторий офферов и их журналов занятости
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория офферов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает оффер; журнал нового оффера всегда пустой
func (r *Repository) Create(ctx context.Context, o *domain.Offering) (*domain.Offering, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("offerings").
		Columns(
			"provider_id",
			"service_type",
			"kind",
			"name",
			"price",
			"description",
			"contact_name",
			"contact_phone",
			"contact_email",
			"accepted_species",
			"status",
			"slot_duration_minutes",
			"available_weekdays",
			"available_times",
		).
		Values(
			o.ProviderID,
			o.ServiceType,
			o.Kind,
			o.Name,
			o.Price,
			o.Description,
			o.Contact.Name,
			o.Contact.Phone,
			o.Contact.Email,
			pq.Array(nonNilStrings(o.AcceptedSpecies)),
			o.Status,
			o.SlotDurationMinutes,
			pq.Array(weekdaysToInts(o.AvailableWeekdays)),
			pq.Array(timesToStrings(o.AvailableTimes)),
		).
		Suffix("RETURNING id, ledger_version, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&o.ID,
		&o.LedgerVersion,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	o.Ledger = make([]domain.BookingUnit, 0)
	return o, nil
}

// GetByID получает оффер вместе с журналом.
// Внутри транзакции строка оффера блокируется (FOR UPDATE), чтобы проверка
// доступности и запись журнала выполнялись атомарно.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Offering, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(offeringColumns...).
		From("offerings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	o, err := scanOffering(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOfferingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan offering: %w", ErrScanRow, err)
	}

	ledger, err := r.loadLedger(ctx, executor, id)
	if err != nil {
		return nil, err
	}
	o.Ledger = ledger

	return o, nil
}

// ListByProvider возвращает офферы провайдера без журналов
func (r *Repository) ListByProvider(ctx context.Context, providerID int64, activeOnly bool) ([]*domain.Offering, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(offeringColumns...).
		From("offerings").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("id ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": domain.OfferingActive})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByProvider - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByProvider - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	offerings := make([]*domain.Offering, 0)
	for rows.Next() {
		o, err := scanOffering(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByProvider - scan offering: %v", ErrScanRow, err)
		}
		offerings = append(offerings, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByProvider - rows error: %w", ErrScanRow, err)
	}

	return offerings, nil
}

// UpdateStatus меняет статус оффера
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.OfferingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("offerings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
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
		return ErrOfferingNotFound
	}

	return nil
}

// SaveLedger перезаписывает журнал оффера.
// Версия журнала проверяется оптимистично: если она изменилась с момента
// чтения, возвращается ошибка, оборачивающая txmanager.ErrConcurrentUpdate.
// При успехе o.LedgerVersion увеличивается.
func (r *Repository) SaveLedger(ctx context.Context, o *domain.Offering) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("offerings").
		Set("ledger_version", squirrel.Expr("ledger_version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": o.ID, "ledger_version": o.LedgerVersion}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SaveLedger - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SaveLedger - bump version: %w", ErrExecQuery, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SaveLedger - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: offering id=%d version=%d: %w",
			ErrLedgerVersionMismatch, o.ID, o.LedgerVersion, txmanager.ErrConcurrentUpdate)
	}

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("offering_ledger").
		Where(squirrel.Eq{"offering_id": o.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SaveLedger - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: SaveLedger - delete ledger: %w", ErrExecQuery, err)
	}

	if len(o.Ledger) > 0 {
		insertBuilder := psqlbuilder.Insert("offering_ledger").
			Columns("offering_id", "start_date", "end_date", "start_time", "duration_minutes")
		for _, u := range o.Ledger {
			var duration sql.NullInt64
			if u.DurationMinutes > 0 {
				duration = sql.NullInt64{Int64: int64(u.DurationMinutes), Valid: true}
			}
			insertBuilder = insertBuilder.Values(o.ID, u.StartDate, u.EndDate, u.StartTime, duration)
		}

		insertQuery, insertArgs, err := insertBuilder.ToSql()
		if err != nil {
			return fmt.Errorf("%w: SaveLedger - build insert query: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return fmt.Errorf("%w: SaveLedger - insert ledger: %w", ErrExecQuery, err)
		}
	}

	o.LedgerVersion++
	return nil
}

func (r *Repository) loadLedger(ctx context.Context, executor DBExecutor, offeringID int64) ([]domain.BookingUnit, error) {
	query, args, err := psqlbuilder.Select("start_date", "end_date", "start_time", "duration_minutes").
		From("offering_ledger").
		Where(squirrel.Eq{"offering_id": offeringID}).
		OrderBy("start_date ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: loadLedger - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: loadLedger - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	ledger := make([]domain.BookingUnit, 0)
	for rows.Next() {
		var (
			u        domain.BookingUnit
			duration sql.NullInt64
		)
		if err := rows.Scan(&u.StartDate, &u.EndDate, &u.StartTime, &duration); err != nil {
			return nil, fmt.Errorf("%w: loadLedger - scan entry: %v", ErrScanRow, err)
		}
		u.StartDate = domain.DateOnly(u.StartDate)
		u.EndDate = domain.DateOnly(u.EndDate)
		u.DurationMinutes = int(duration.Int64)
		ledger = append(ledger, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadLedger - rows error: %w", ErrScanRow, err)
	}

	return ledger, nil
}

func scanOffering(row rowScanner) (*domain.Offering, error) {
	var (
		o         domain.Offering
		species   []string
		weekdays  []int64
		times     []string
		createdAt sql.NullTime
		updatedAt sql.NullTime
	)

	err := row.Scan(
		&o.ID,
		&o.ProviderID,
		&o.ServiceType,
		&o.Kind,
		&o.Name,
		&o.Price,
		&o.Description,
		&o.Contact.Name,
		&o.Contact.Phone,
		&o.Contact.Email,
		pq.Array(&species),
		&o.Status,
		&o.SlotDurationMinutes,
		pq.Array(&weekdays),
		pq.Array(&times),
		&o.LedgerVersion,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.AcceptedSpecies = nonNilStrings(species)
	o.AvailableWeekdays = make([]time.Weekday, 0, len(weekdays))
	for _, d := range weekdays {
		o.AvailableWeekdays = append(o.AvailableWeekdays, time.Weekday(d))
	}
	o.AvailableTimes = make([]types.TimeString, 0, len(times))
	for _, t := range times {
		o.AvailableTimes = append(o.AvailableTimes, types.TimeString(t))
	}
	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time

	return &o, nil
}

func weekdaysToInts(days []time.Weekday) []int64 {
	out := make([]int64, 0, len(days))
	for _, d := range days {
		out = append(out, int64(d))
	}
	return out
}

func timesToStrings(times []types.TimeString) []string {
	out := make([]string, 0, len(times))
	for _, t := range times {
		out = append(out, string(t))
	}
	return out
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
