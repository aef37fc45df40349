package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"mealshare/internal/storage"
)

const uniqueViolationCode = "23505"

// CrudRepo provides generic CRUD operations over one table.
// T is the record shape; scan maps one result row onto it.
type CrudRepo[T any] struct {
	db      *pgxpool.Pool
	sb      sq.StatementBuilderType
	table   string
	columns []string
	scan    func(row pgx.Row) (T, error)
}

func NewCrudRepo[T any](db *pgxpool.Pool, table string, columns []string, scan func(row pgx.Row) (T, error)) *CrudRepo[T] {
	return &CrudRepo[T]{
		db:      db,
		sb:      sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		table:   table,
		columns: columns,
		scan:    scan,
	}
}

func (r *CrudRepo[T]) FindAll(ctx context.Context) ([]T, error) {
	const op = "repository.crud_repository.FindAll"

	query, args, err := r.sb.Select(r.columns...).
		From(r.table).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r.queryMany(ctx, op, query, args)
}

// FindByID returns nil without error when no row matches.
func (r *CrudRepo[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	const op = "repository.crud_repository.FindByID"

	return r.findOne(ctx, op, sq.Eq{"id": id})
}

func (r *CrudRepo[T]) FindByField(ctx context.Context, field string, value interface{}) ([]T, error) {
	const op = "repository.crud_repository.FindByField"

	query, args, err := r.sb.Select(r.columns...).
		From(r.table).
		Where(sq.Eq{field: value}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r.queryMany(ctx, op, query, args)
}

// FindOneByField returns nil without error when no row matches.
func (r *CrudRepo[T]) FindOneByField(ctx context.Context, field string, value interface{}) (*T, error) {
	const op = "repository.crud_repository.FindOneByField"

	return r.findOne(ctx, op, sq.Eq{field: value})
}

// Create inserts a row using exactly the supplied fields and returns the
// store-assigned id. A unique-constraint violation surfaces as
// storage.ErrUniqueViolation; callers that know which constraint guards
// their table translate it into a domain error.
func (r *CrudRepo[T]) Create(ctx context.Context, fields map[string]interface{}) (int64, error) {
	const op = "repository.crud_repository.Create"

	query, args, err := r.sb.Insert(r.table).
		SetMap(fields).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return 0, fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, storage.ErrUniqueViolation)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// Update patches only the supplied fields on the row matching id.
func (r *CrudRepo[T]) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	const op = "repository.crud_repository.Update"

	if len(fields) == 0 {
		return fmt.Errorf("%s: no fields to update", op)
	}

	query, args, err := r.sb.Update(r.table).
		SetMap(fields).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Delete physically removes the row. The public soft-delete path never
// calls this; it exists for administrative cleanup.
func (r *CrudRepo[T]) Delete(ctx context.Context, id int64) error {
	const op = "repository.crud_repository.Delete"

	query, args, err := r.sb.Delete(r.table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *CrudRepo[T]) ExistsByField(ctx context.Context, field string, value interface{}) (bool, error) {
	const op = "repository.crud_repository.ExistsByField"

	query, args, err := r.sb.Select("1").
		From(r.table).
		Where(sq.Eq{field: value}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var one int
	err = r.db.QueryRow(ctx, query, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return true, nil
}

func (r *CrudRepo[T]) findOne(ctx context.Context, op string, where sq.Eq) (*T, error) {
	query, args, err := r.sb.Select(r.columns...).
		From(r.table).
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	record, err := r.scan(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &record, nil
}

func (r *CrudRepo[T]) queryMany(ctx context.Context, op, query string, args []interface{}) ([]T, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var records []T
	for rows.Next() {
		record, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return records, nil
}
