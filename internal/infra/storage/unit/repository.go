package unit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RentalService/pkg/psqlbuilder"
)

// Repository репозиторий юнитов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория юнитов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create регистрирует юнит
func (r *Repository) Create(ctx context.Context, unit *domain.Unit) (*domain.Unit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("units").
		Columns("property_id", "name", "capacity", "base_price", "description").
		Values(unit.PropertyID, unit.Name, unit.Capacity, unit.BasePrice, unit.Description).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&unit.ID, &unit.CreatedAt, &unit.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return unit, nil
}

// GetByID получает юнит по ID.
// Внутри транзакции строка юнита блокируется (FOR UPDATE): все писатели
// бронирований и блоков одного юнита выстраиваются в очередь.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Unit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"property_id",
		"name",
		"capacity",
		"base_price",
		"description",
		"created_at",
		"updated_at",
	).
		From("units").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var unit domain.Unit
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&unit.ID,
		&unit.PropertyID,
		&unit.Name,
		&unit.Capacity,
		&unit.BasePrice,
		&unit.Description,
		&unit.CreatedAt,
		&unit.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnitNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan unit: %w", ErrScanRow, err)
	}

	return &unit, nil
}
