package block

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

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
	"reason",
	"lock_source",
	"lock_owner_booking_id",
	"created_at",
}

// Repository репозиторий блокировок юнитов (таблица unit_blocks)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория блоков
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет блок
func (r *Repository) Create(ctx context.Context, block *domain.Block) (*domain.Block, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("unit_blocks").
		Columns("unit_id", "start_date", "end_date", "reason", "lock_source", "lock_owner_booking_id").
		Values(
			block.UnitID,
			dates.Format(block.StartDate),
			dates.Format(block.EndDate),
			block.Reason,
			block.Source,
			block.LockOwnerBookingID,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&block.ID, &block.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return block, nil
}

// GetByID получает блок по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Block, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("unit_blocks").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	block, err := scanBlock(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBlockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan block: %w", ErrScanRow, err)
	}

	return block, nil
}

// GetOverlapping возвращает блоки юнита, пересекающие [start, end)
func (r *Repository) GetOverlapping(ctx context.Context, unitID int64, start, end time.Time) ([]*domain.Block, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("unit_blocks").
		Where(squirrel.Eq{"unit_id": unitID}).
		Where(squirrel.Lt{"start_date": dates.Format(end)}).
		Where(squirrel.Gt{"end_date": dates.Format(start)}).
		OrderBy("start_date ASC", "id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "GetOverlapping", query, args)
}

// GetByUnit возвращает блоки юнита, опционально пересекающие период [from, to)
func (r *Repository) GetByUnit(ctx context.Context, unitID int64, from, to *time.Time) ([]*domain.Block, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("unit_blocks").
		Where(squirrel.Eq{"unit_id": unitID})

	if from != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"end_date": dates.Format(*from)})
	}
	if to != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_date": dates.Format(*to)})
	}

	query, args, err := selectBuilder.OrderBy("start_date ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUnit - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "GetByUnit", query, args)
}

// Delete удаляет блок. Возвращает false, если блока уже нет.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("unit_blocks").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}

// DeleteByOwner удаляет все блоки, принадлежащие бронированию, и возвращает их
func (r *Repository) DeleteByOwner(ctx context.Context, bookingID int64) ([]*domain.Block, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("unit_blocks").
		Where(squirrel.Eq{"lock_owner_booking_id": bookingID}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: DeleteByOwner - build delete query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "DeleteByOwner", query, args)
}

func (r *Repository) query(ctx context.Context, executor dbmetrics.DBExecutor, op, query string, args []interface{}) ([]*domain.Block, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	blocks := make([]*domain.Block, 0)
	for rows.Next() {
		block, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}
		blocks = append(blocks, block)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return blocks, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBlock(row rowScanner) (*domain.Block, error) {
	var block domain.Block
	var source string
	var owner sql.NullInt64

	err := row.Scan(
		&block.ID,
		&block.UnitID,
		&block.StartDate,
		&block.EndDate,
		&block.Reason,
		&source,
		&owner,
		&block.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	block.Source = domain.LockSource(source)
	block.StartDate = dates.Normalize(block.StartDate)
	block.EndDate = dates.Normalize(block.EndDate)
	if owner.Valid {
		block.LockOwnerBookingID = &owner.Int64
	}

	return &block, nil
}
