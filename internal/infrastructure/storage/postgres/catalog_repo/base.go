// Package catalog_repo provides the PostgreSQL implementation of catalog
// repositories. One generic Repo serves every catalog; each type maps to a
// table whose columns are the "db" tags of the entity.
package catalog_repo

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/entity"
	"backoffice/internal/domain"
	"backoffice/internal/domain/catalogs/rubro"
	"backoffice/internal/domain/filter"
	"backoffice/internal/infrastructure/storage/postgres"
)

// uniqueViolation is the SQLSTATE raised by the partial unique index on codes.
const uniqueViolation = "23505"

// orderColumn keeps list results in insertion order. It is filled by the
// database and never mapped onto entities.
const orderColumn = "seq"

// Repo provides CRUD operations over one catalog table.
type Repo[T entity.Entity[T]] struct {
	txm        *postgres.TxManager
	tableName  string
	entityName string
	codeColumn string
	selectCols []string
	validCols  map[string]bool
}

// Compile-time check
var _ domain.CatalogRepository[rubro.Rubro] = (*Repo[rubro.Rubro])(nil)

// NewRepo creates a repository for T stored in tableName.
func NewRepo[T entity.Entity[T]](txm *postgres.TxManager, tableName, entityName string) *Repo[T] {
	var zero T
	cols := postgres.ExtractDBColumns[T]()
	valid := make(map[string]bool, len(cols))
	for _, c := range cols {
		valid[c] = true
	}
	return &Repo[T]{
		txm:        txm,
		tableName:  tableName,
		entityName: entityName,
		codeColumn: zero.CodeField(),
		selectCols: cols,
		validCols:  valid,
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *Repo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *Repo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(r.tableName)
}

// columns returns the stored column values of e, skipping the excluded ones.
func (r *Repo[T]) columns(e T, exclude ...string) map[string]any {
	data := postgres.StructToMap(e)
	out := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if slices.Contains(exclude, col) {
			continue
		}
		if val, ok := data[col]; ok {
			out[col] = val
		}
	}
	return out
}

// Create implements domain.CatalogRepository.
func (r *Repo[T]) Create(ctx context.Context, e T) error {
	sql, args, err := r.insertQuery(e).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return r.mapWriteError(err)
	}
	return nil
}

func (r *Repo[T]) insertQuery(e T) squirrel.InsertBuilder {
	return r.Builder().
		Insert(r.tableName).
		SetMap(r.columns(e))
}

// Update implements domain.CatalogRepository.
func (r *Repo[T]) Update(ctx context.Context, e T) error {
	sql, args, err := r.updateQuery(e).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return r.mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, e.EntityID())
	}
	return nil
}

func (r *Repo[T]) updateQuery(e T) squirrel.UpdateBuilder {
	return r.Builder().
		Update(r.tableName).
		SetMap(r.columns(e, "id")).
		Where(squirrel.Eq{"id": e.EntityID()})
}

// SetRetired implements domain.CatalogRepository.
func (r *Repo[T]) SetRetired(ctx context.Context, id string, retired bool) error {
	sql, args, err := r.Builder().
		Update(r.tableName).
		Set(entity.FieldRetired, retired).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build retire: %w", err)
	}
	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return r.mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, id)
	}
	return nil
}

// GetByID implements domain.CatalogRepository.
func (r *Repo[T]) GetByID(ctx context.Context, id string) (T, error) {
	var e T
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return e, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &e, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return e, apperror.NewNotFound(r.entityName, id)
		}
		return e, fmt.Errorf("get %s by id: %w", r.tableName, err)
	}
	return e, nil
}

// FindByCode implements domain.CatalogRepository.
func (r *Repo[T]) FindByCode(ctx context.Context, code string) ([]T, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{r.codeColumn: code}).
		OrderBy(orderColumn).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var out []T
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("find %s by code: %w", r.tableName, err)
	}
	return out, nil
}

// List implements domain.CatalogRepository.
func (r *Repo[T]) List(ctx context.Context, f domain.ListFilter) ([]T, error) {
	q, err := r.listQuery(f)
	if err != nil {
		return nil, err
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	out := make([]T, 0)
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.tableName, err)
	}
	return out, nil
}

func (r *Repo[T]) listQuery(f domain.ListFilter) (squirrel.SelectBuilder, error) {
	q := r.baseSelect()
	if retired := f.State.RetiredValue(); retired != nil {
		q = q.Where(squirrel.Eq{entity.FieldRetired: *retired})
	}

	q, err := r.applyFilters(q, f.Items)
	if err != nil {
		return q, err
	}
	return q.OrderBy(orderColumn), nil
}

// CountActive implements domain.ActiveCounter.
func (r *Repo[T]) CountActive(ctx context.Context, field string, value any) (int64, error) {
	q, err := r.countActiveQuery(field, value)
	if err != nil {
		return 0, err
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var n int64
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", r.tableName, err)
	}
	return n, nil
}

func (r *Repo[T]) countActiveQuery(field string, value any) (squirrel.SelectBuilder, error) {
	q := r.Builder().
		Select("COUNT(*)").
		From(r.tableName).
		Where(squirrel.Eq{entity.FieldRetired: false})
	return r.applyFilters(q, []filter.Item{filter.Eq(field, value)})
}

// applyFilters adds WHERE clauses for filter items. Only mapped columns are
// accepted, which keeps user input out of identifiers.
func (r *Repo[T]) applyFilters(q squirrel.SelectBuilder, items []filter.Item) (squirrel.SelectBuilder, error) {
	for _, item := range items {
		if !r.validCols[item.Field] {
			return q, apperror.NewValidation(fmt.Sprintf("Filtro inválido: '%s'", item.Field))
		}

		switch item.Operator {
		case filter.Equal:
			q = q.Where(squirrel.Eq{item.Field: item.Value})
		case filter.NotEqual:
			q = q.Where(squirrel.Or{
				squirrel.NotEq{item.Field: item.Value},
				squirrel.Eq{item.Field: nil},
			})
		case filter.IsNull:
			q = q.Where(squirrel.Eq{item.Field: nil})
		case filter.IsNotNull:
			q = q.Where(squirrel.NotEq{item.Field: nil})
		default:
			return q, fmt.Errorf("unsupported operator %q", item.Operator)
		}
	}
	return q, nil
}

// mapWriteError turns a code uniqueness violation into the lifecycle conflict
// the service would have raised had it seen the competing row.
func (r *Repo[T]) mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperror.NewDuplicateActive(r.entityName, r.codeColumn).WithCause(err)
	}
	return fmt.Errorf("write %s: %w", r.tableName, err)
}
