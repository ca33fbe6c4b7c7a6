package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/safar/shop-admin/internal/database"
)

const MaxLimit = 100

type OffsetPage[T any] struct {
	Items      []T    `json:"items"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
	Sort       string `json:"sort"`
}

// ListParams carries the filters shared by every admin listing.
type ListParams struct {
	Page           int
	Limit          int
	Query          string
	Sort           string
	IncludeDeleted bool
}

// Normalize clamps page to >= 1 and limit to [1, MaxLimit]; a zero limit
// takes defaultLimit.
func (p ListParams) Normalize(defaultLimit int) ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.Limit == 0:
		p.Limit = defaultLimit
	case p.Limit < 1:
		p.Limit = 1
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
	}
	p.Query = strings.TrimSpace(p.Query)
	return p
}

func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}
	return totalPages
}

type SortSpec struct {
	Column    string
	Direction string
}

func (s SortSpec) String() string {
	return s.Column + ":" + strings.ToLower(s.Direction)
}

// orderBy appends an id tie-breaker so pages are stable.
func (s SortSpec) orderBy() string {
	if s.Column == "id" {
		return "id " + s.Direction
	}
	return s.Column + " " + s.Direction + ", id ASC"
}

// ParseSort reads "column:dir". Columns outside allowed fall back to def; a
// missing or unknown direction means ascending.
func ParseSort(raw string, allowed []string, def SortSpec) SortSpec {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}

	column, dir, _ := strings.Cut(raw, ":")
	column = strings.ToLower(strings.TrimSpace(column))

	known := false
	for _, c := range allowed {
		if c == column {
			known = true
			break
		}
	}
	if !known {
		return def
	}

	direction := "ASC"
	if strings.EqualFold(strings.TrimSpace(dir), "desc") {
		direction = "DESC"
	}
	return SortSpec{Column: column, Direction: direction}
}

type whereClause struct {
	conds []string
	args  []any
}

func (w *whereClause) add(cond string, args ...any) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

// search adds a case-insensitive substring match OR'ed across columns.
func (w *whereClause) search(q string, columns ...string) {
	if q == "" || len(columns) == 0 {
		return
	}
	pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = "LOWER(" + col + ") LIKE ?"
		w.args = append(w.args, pattern)
	}
	w.conds = append(w.conds, "("+strings.Join(parts, " OR ")+")")
}

func (w *whereClause) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// listPage runs the COUNT and the paged SELECT for one table.
func listPage[T any](
	ctx context.Context,
	q database.Querier,
	table, columns string,
	where whereClause,
	sort SortSpec,
	p ListParams,
	scan func(rowScanner) (T, error),
) (*OffsetPage[T], error) {
	var total int64
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+where.String(), where.args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", table, err)
	}

	query := `SELECT ` + columns + ` FROM ` + table + where.String() +
		` ORDER BY ` + sort.orderBy() + ` LIMIT ? OFFSET ?`
	args := append(append([]any{}, where.args...), p.Limit, p.Offset())

	items, err := queryAll(ctx, q, table, query, args, scan)
	if err != nil {
		return nil, err
	}

	return &OffsetPage[T]{
		Items:      items,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: TotalPages(total, p.Limit),
		Sort:       sort.String(),
	}, nil
}

func queryAll[T any](ctx context.Context, q database.Querier, table, query string, args []any, scan func(rowScanner) (T, error)) ([]T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return items, nil
}
