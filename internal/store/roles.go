package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/safar/shop-admin/internal/database"
	"github.com/safar/shop-admin/internal/models"
)

const roleColumns = `id, title, description, permissions, deleted, deleted_at, created_at, updated_at`

var roleSortColumns = []string{"id", "title", "created_at", "updated_at"}

type RoleInput struct {
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	Permissions json.RawMessage `json:"permissions"`
}

type RolePatch struct {
	Title       Optional[string]          `json:"title"`
	Description Optional[*string]         `json:"description"`
	Permissions Optional[json.RawMessage] `json:"permissions"`
}

type Roles struct {
	db *database.DB
}

func NewRoles(db *database.DB) *Roles {
	return &Roles{db: db}
}

func scanRole(row rowScanner) (models.Role, error) {
	var role models.Role
	var permissions []byte
	err := row.Scan(
		&role.ID,
		&role.Title,
		&role.Description,
		&permissions,
		&role.Deleted,
		&role.DeletedAt,
		&role.CreatedAt,
		&role.UpdatedAt,
	)
	if len(permissions) > 0 {
		role.Permissions = json.RawMessage(permissions)
	}
	return role, err
}

// permissionsArg turns a permissions payload into a column value. The drivers
// need text, not bytes, for JSON columns; an absent or null payload is NULL.
func permissionsArg(raw json.RawMessage) (any, error) {
	trimmedRaw := strings.TrimSpace(string(raw))
	if trimmedRaw == "" || trimmedRaw == "null" {
		return nil, nil
	}
	if !json.Valid([]byte(trimmedRaw)) {
		return nil, invalid("permissions must be valid JSON")
	}
	return trimmedRaw, nil
}

func (s *Roles) Get(ctx context.Context, id int64, includeDeleted bool) (*models.Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE id = ?`
	args := []any{id}
	if !includeDeleted {
		query += ` AND deleted = ?`
		args = append(args, false)
	}

	role, err := scanRole(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrRoleNotFound
		}
		return nil, fmt.Errorf("get role: %w", err)
	}

	return &role, nil
}

func (s *Roles) List(ctx context.Context, p ListParams) (*OffsetPage[models.Role], error) {
	p = p.Normalize(10)
	sort := ParseSort(p.Sort, roleSortColumns, SortSpec{Column: "id", Direction: "ASC"})

	where := whereClause{}
	if !p.IncludeDeleted {
		where.add("deleted = ?", false)
	}
	where.search(p.Query, "title", "description")

	return listPage(ctx, s.db, "roles", roleColumns, where, sort, p, scanRole)
}

func (s *Roles) Create(ctx context.Context, in RoleInput) (*models.Role, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("title is required")
	}
	permissions, err := permissionsArg(in.Permissions)
	if err != nil {
		return nil, err
	}

	id, err := database.InsertID(ctx, s.db,
		`INSERT INTO roles (title, description, permissions, deleted, created_at, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		title, trimmed(in.Description), permissions, false)
	if err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}

	return s.Get(ctx, id, false)
}

func (s *Roles) Update(ctx context.Context, id int64, patch RolePatch) (*models.Role, error) {
	if _, err := s.Get(ctx, id, false); err != nil {
		return nil, err
	}

	set := setClause{}
	if patch.Title.Set {
		title := strings.TrimSpace(patch.Title.Value)
		if title == "" {
			return nil, invalid("title is required")
		}
		set.add("title", title)
	}
	if patch.Description.Set {
		set.add("description", trimmed(patch.Description.Value))
	}
	if patch.Permissions.Set {
		permissions, err := permissionsArg(patch.Permissions.Value)
		if err != nil {
			return nil, err
		}
		set.add("permissions", permissions)
	}

	if set.empty() {
		return nil, ErrNothingToUpdate
	}

	_, err := s.db.ExecContext(ctx,
		`UPDATE roles SET `+set.String()+` WHERE id = ? AND deleted = ?`,
		append(set.args, id, false)...)
	if err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}

	return s.Get(ctx, id, false)
}

func (s *Roles) Delete(ctx context.Context, id int64, _ *int64) (time.Time, error) {
	return softDelete(ctx, s.db, "roles", id, nil, false, database.ErrRoleNotFound)
}
