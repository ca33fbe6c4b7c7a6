package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/safar/shop-admin/internal/database"
	"github.com/safar/shop-admin/internal/models"
)

type BulkAction string

const (
	BulkStatus   BulkAction = "status"
	BulkDelete   BulkAction = "delete"
	BulkPosition BulkAction = "position"
)

// BulkRequest applies one action to many rows. For BulkPosition, Value is an
// object mapping id to position and IDs is ignored.
type BulkRequest struct {
	IDs         []int64         `json:"ids"`
	Action      BulkAction      `json:"action"`
	Value       json.RawMessage `json:"value"`
	DeletedByID *int64          `json:"deleted_by_id"`
}

type bulkTarget struct {
	table     string
	statuses  []string
	positions bool
	deletedBy bool
}

func runBulk(ctx context.Context, db *database.DB, target bulkTarget, req BulkRequest) (int64, error) {
	switch req.Action {
	case BulkStatus:
		status, err := bulkStatusValue(req.Value, target.statuses)
		if err != nil {
			return 0, err
		}
		ids, err := bulkIDs(req.IDs)
		if err != nil {
			return 0, err
		}
		placeholders, args := database.In(ids)
		return execAffected(ctx, db,
			`UPDATE `+target.table+`
			 SET status = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id IN (`+placeholders+`) AND deleted = ?`,
			append(append([]any{status}, args...), false)...)

	case BulkDelete:
		ids, err := bulkIDs(req.IDs)
		if err != nil {
			return 0, err
		}
		set := setClause{}
		set.add("deleted", true)
		set.add("deleted_at", time.Now().UTC().Truncate(time.Microsecond))
		if target.deletedBy {
			set.add("deleted_by_id", req.DeletedByID)
		}
		placeholders, args := database.In(ids)
		return execAffected(ctx, db,
			`UPDATE `+target.table+` SET `+set.String()+`
			 WHERE id IN (`+placeholders+`) AND deleted = ?`,
			append(append(set.args, args...), false)...)

	case BulkPosition:
		if !target.positions {
			break
		}
		positions, err := bulkPositions(req.Value)
		if err != nil {
			return 0, err
		}
		return updatePositions(ctx, db, target.table, positions)
	}

	return 0, invalid("unsupported bulk action %q", req.Action)
}

func bulkIDs(ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, invalid("ids must be a non-empty array")
	}
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, invalid("invalid id %d", id)
		}
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out, nil
}

func bulkStatusValue(raw json.RawMessage, allowed []string) (string, error) {
	var status string
	if err := json.Unmarshal(raw, &status); err != nil || !models.ValidStatus(status, allowed) {
		return "", invalid("value must be one of: %s", strings.Join(allowed, ", "))
	}
	return status, nil
}

func bulkPositions(raw json.RawMessage) (map[int64]int, error) {
	var byKey map[string]int
	if err := json.Unmarshal(raw, &byKey); err != nil || len(byKey) == 0 {
		return nil, invalid("value must be an object mapping id to position")
	}
	positions := make(map[int64]int, len(byKey))
	for key, pos := range byKey {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil || id <= 0 {
			return nil, invalid("invalid id %q", key)
		}
		positions[id] = pos
	}
	return positions, nil
}

// updatePositions writes every position inside one transaction, in id order so
// concurrent batches lock rows in the same sequence.
func updatePositions(ctx context.Context, db *database.DB, table string, positions map[int64]int) (int64, error) {
	ids := make([]int64, 0, len(positions))
	for id := range positions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var affected int64
	err := database.WithRetry(ctx, db, database.DefaultTxOptions(), func(tx *database.Tx) error {
		affected = 0
		for _, id := range ids {
			n, err := execAffected(ctx, tx,
				`UPDATE `+table+`
				 SET position = ?, updated_at = CURRENT_TIMESTAMP
				 WHERE id = ? AND deleted = ?`,
				positions[id], id, false)
			if err != nil {
				return err
			}
			affected += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

func execAffected(ctx context.Context, q database.Querier, query string, args ...any) (int64, error) {
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("exec update: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return rowsAffected, nil
}

// softDelete flags one live row as deleted. A row that is missing or already
// deleted yields notFound.
func softDelete(ctx context.Context, q database.Querier, table string, id int64, deletedByID *int64, withDeletedBy bool, notFound error) (time.Time, error) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	set := setClause{}
	set.add("deleted", true)
	set.add("deleted_at", now)
	if withDeletedBy {
		set.add("deleted_by_id", deletedByID)
	}

	n, err := execAffected(ctx, q,
		`UPDATE `+table+` SET `+set.String()+` WHERE id = ? AND deleted = ?`,
		append(set.args, id, false)...)
	if err != nil {
		return time.Time{}, fmt.Errorf("delete from %s: %w", table, err)
	}
	if n == 0 {
		return time.Time{}, notFound
	}
	return now, nil
}

// setStatus validates status against allowed and writes it to a live row.
func setStatus(ctx context.Context, q database.Querier, table string, id int64, status string, allowed []string, notFound error) error {
	if !models.ValidStatus(status, allowed) {
		return invalid("status must be one of: %s", strings.Join(allowed, ", "))
	}
	if err := ensureLive(ctx, q, table, id, notFound); err != nil {
		return err
	}
	_, err := q.ExecContext(ctx,
		`UPDATE `+table+` SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted = ?`,
		status, id, false)
	if err != nil {
		return fmt.Errorf("update %s status: %w", table, err)
	}
	return nil
}

func ensureLive(ctx context.Context, q database.Querier, table string, id int64, notFound error) error {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE id = ? AND deleted = ?`, id, false).Scan(&one)
	if err == sql.ErrNoRows {
		return notFound
	}
	if err != nil {
		return fmt.Errorf("lookup %s: %w", table, err)
	}
	return nil
}

// nextPosition returns max(position)+1 over rows matching where.
func nextPosition(ctx context.Context, q database.Querier, table string, where whereClause) (int, error) {
	var next int
	err := q.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), 0) + 1 FROM `+table+where.String(), where.args...).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next %s position: %w", table, err)
	}
	return next, nil
}

// slugTaken reports whether another row (id != excludeID) already uses candidate.
func slugTaken(q database.Querier, table string, excludeID int64) func(context.Context, string) (bool, error) {
	return func(ctx context.Context, candidate string) (bool, error) {
		var exists bool
		err := q.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM `+table+` WHERE slug = ? AND id <> ?)`,
			candidate, excludeID).Scan(&exists)
		if err != nil {
			return false, fmt.Errorf("check %s slug: %w", table, err)
		}
		return exists, nil
	}
}
