package rate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/dates"
	"github.com/m04kA/SMC-RentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RentalService/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"unit_id",
	"start_date",
	"end_date",
	"weekday_price",
	"weekend_price",
	"min_stay",
	"created_at",
}

// Repository репозиторий ценовых периодов (таблица rates)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория ценовых периодов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет ценовой период
func (r *Repository) Create(ctx context.Context, period *domain.RatePeriod) (*domain.RatePeriod, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("rates").
		Columns(
			"unit_id",
			"start_date",
			"end_date",
			"weekday_price",
			"weekend_price",
			"min_stay",
		).
		Values(
			period.UnitID,
			dates.Format(period.StartDate),
			dates.Format(period.EndDate),
			period.WeekdayPrice,
			period.WeekendPrice,
			period.MinStay,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&period.ID, &period.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return period, nil
}

// GetByID получает ценовой период по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.RatePeriod, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("rates").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	period, err := scanPeriod(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan rate: %w", ErrScanRow, err)
	}

	return period, nil
}

// GetByUnit возвращает все периоды юнита в порядке создания.
// Порядок важен: резолвер берёт первый период, покрывающий дату.
func (r *Repository) GetByUnit(ctx context.Context, unitID int64) ([]domain.RatePeriod, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("rates").
		Where(squirrel.Eq{"unit_id": unitID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByUnit - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUnit - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	periods := make([]domain.RatePeriod, 0)
	for rows.Next() {
		period, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByUnit - scan row: %w", ErrScanRow, err)
		}
		periods = append(periods, *period)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByUnit - rows error: %w", ErrScanRow, err)
	}

	return periods, nil
}

// Delete удаляет ценовой период
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("rates").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrRateNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPeriod(row rowScanner) (*domain.RatePeriod, error) {
	var period domain.RatePeriod
	var weekday, weekend sql.NullInt64

	err := row.Scan(
		&period.ID,
		&period.UnitID,
		&period.StartDate,
		&period.EndDate,
		&weekday,
		&weekend,
		&period.MinStay,
		&period.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	period.StartDate = dates.Normalize(period.StartDate)
	period.EndDate = dates.Normalize(period.EndDate)
	if weekday.Valid {
		period.WeekdayPrice = &weekday.Int64
	}
	if weekend.Valid {
		period.WeekendPrice = &weekend.Int64
	}

	return &period, nil
}
