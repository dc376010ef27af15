package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "erp-system/pkg/errors"
	"erp-system/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// listParams - белый список полей для фильтра, сортировки и поиска.
// Ключ - имя в query, значение - колонка в SQL.
type listParams struct {
	Filters      map[string]string
	Sorts        map[string]string
	Search       []string
	DefaultOrder string
}

// applyConditions добавляет в builder условия filter[...] и search.
// Значения через запятую превращаются в IN.
func (p listParams) applyConditions(builder sq.SelectBuilder, filter types.Filter) sq.SelectBuilder {
	for key, val := range filter.Filter {
		column, ok := p.Filters[key]
		if !ok {
			continue
		}
		if s, isStr := val.(string); isStr && strings.Contains(s, ",") {
			builder = builder.Where(sq.Eq{column: strings.Split(s, ",")})
			continue
		}
		builder = builder.Where(sq.Eq{column: val})
	}

	if filter.Search != "" && len(p.Search) > 0 {
		pattern := "%" + filter.Search + "%"
		or := sq.Or{}
		for _, col := range p.Search {
			or = append(or, sq.ILike{col: pattern})
		}
		builder = builder.Where(or)
	}
	return builder
}

func (p listParams) applyOrder(builder sq.SelectBuilder, filter types.Filter) sq.SelectBuilder {
	applied := false
	for field, direction := range filter.Sort {
		column, ok := p.Sorts[field]
		if !ok {
			continue
		}
		builder = builder.OrderBy(fmt.Sprintf("%s %s", column, strings.ToUpper(direction)))
		applied = true
	}
	if !applied && p.DefaultOrder != "" {
		builder = builder.OrderBy(p.DefaultOrder)
	}
	return builder
}

// applyPage: пагинация только при WithPagination и Limit > 0.
func applyPage(builder sq.SelectBuilder, filter types.Filter) sq.SelectBuilder {
	if filter.WithPagination && filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}
	return builder
}

// countRows выполняет base как SELECT COUNT(*). Колонок в base быть не должно.
func countRows(ctx context.Context, q querier, base sq.SelectBuilder) (uint64, error) {
	query, args, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}
	var total uint64
	if err := q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count query: %w", err)
	}
	return total, nil
}

// mapDBError переводит ошибки драйвера в ошибки приложения.
func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return apperrors.NewHttpError(apperrors.ErrConflict.Code, "record already exists", err, map[string]interface{}{"constraint": pgErr.ConstraintName})
		case "23503":
			return apperrors.NewHttpError(apperrors.ErrBadRequest.Code, "referenced record does not exist or is still in use", err, nil)
		case "23514":
			return apperrors.NewHttpError(apperrors.ErrBadRequest.Code, "value violates a check constraint", err, nil)
		}
	}
	return err
}

// execAffectingOne возвращает ErrNotFound, если не затронута ни одна строка.
func execAffectingOne(ctx context.Context, q querier, builder sq.Sqlizer) error {
	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return mapDBError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}
