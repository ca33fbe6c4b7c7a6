package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/safar/shop-admin/internal/database"
	"github.com/safar/shop-admin/internal/models"
	"github.com/safar/shop-admin/internal/password"
)

// userColumns leaves out the password hash.
const userColumns = `id, role_id, full_name, email, phone, avatar, status, deleted, deleted_at, created_at, updated_at`

var userSortColumns = []string{"id", "full_name", "email", "status", "created_at", "updated_at"}

type UserInput struct {
	RoleID   *int64  `json:"role_id"`
	FullName string  `json:"full_name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Phone    *string `json:"phone"`
	Avatar   *string `json:"avatar"`
	Status   string  `json:"status"`
}

type UserPatch struct {
	RoleID   Optional[*int64]  `json:"role_id"`
	FullName Optional[string]  `json:"full_name"`
	Email    Optional[string]  `json:"email"`
	Password Optional[string]  `json:"password"`
	Phone    Optional[*string] `json:"phone"`
	Avatar   Optional[*string] `json:"avatar"`
	Status   Optional[string]  `json:"status"`
}

type UserListParams struct {
	ListParams
	Status string
	RoleID *int64
}

type Users struct {
	db     *database.DB
	hasher password.Hasher
}

func NewUsers(db *database.DB, hasher password.Hasher) *Users {
	return &Users{db: db, hasher: hasher}
}

func scanUser(row rowScanner) (models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.RoleID,
		&user.FullName,
		&user.Email,
		&user.Phone,
		&user.Avatar,
		&user.Status,
		&user.Deleted,
		&user.DeletedAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

func (s *Users) Get(ctx context.Context, id int64, includeDeleted bool) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	args := []any{id}
	if !includeDeleted {
		query += ` AND deleted = ?`
		args = append(args, false)
	}

	user, err := scanUser(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (s *Users) List(ctx context.Context, p UserListParams) (*OffsetPage[models.User], error) {
	p.ListParams = p.ListParams.Normalize(10)
	sort := ParseSort(p.Sort, userSortColumns, SortSpec{Column: "id", Direction: "ASC"})

	where := whereClause{}
	if !p.IncludeDeleted {
		where.add("deleted = ?", false)
	}
	where.search(p.Query, "full_name", "email", "phone")
	if p.Status != "" {
		where.add("status = ?", p.Status)
	}
	if p.RoleID != nil {
		where.add("role_id = ?", *p.RoleID)
	}

	return listPage(ctx, s.db, "users", userColumns, where, sort, p.ListParams, scanUser)
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", invalid("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", invalid("email %q is not a valid address", raw)
	}
	return email, nil
}

// emailTaken reports whether a live user other than excludeID owns email.
func (s *Users) emailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = ? AND deleted = ? AND id <> ?)`,
		email, false, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user email: %w", err)
	}
	return exists, nil
}

func (s *Users) hash(pw string) (string, error) {
	if pw == "" {
		return "", invalid("password is required")
	}
	hashed, err := s.hasher.Hash([]byte(pw))
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func (s *Users) ensureRole(ctx context.Context, roleID *int64) error {
	if roleID == nil {
		return nil
	}
	return ensureLive(ctx, s.db, "roles", *roleID, invalid("role %d not found", *roleID))
}

// Create stores a user with a lowercased email and a bcrypt password hash.
func (s *Users) Create(ctx context.Context, in UserInput) (*models.User, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = models.StatusActive
	}
	if !models.ValidStatus(in.Status, models.UserStatuses) {
		return nil, invalid("status must be one of: %s", strings.Join(models.UserStatuses, ", "))
	}
	if err := s.ensureRole(ctx, in.RoleID); err != nil {
		return nil, err
	}

	taken, err := s.emailTaken(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hashed, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	id, err := database.InsertID(ctx, s.db,
		`INSERT INTO users (role_id, full_name, email, password, phone, avatar, status, deleted, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		in.RoleID, strings.TrimSpace(in.FullName), email, hashed, trimmed(in.Phone), in.Avatar, in.Status, false)
	if err != nil {
		if database.IsUniqueViolation(err, "email") {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.Get(ctx, id, false)
}

func (s *Users) Update(ctx context.Context, id int64, patch UserPatch) (*models.User, error) {
	if _, err := s.Get(ctx, id, false); err != nil {
		return nil, err
	}
	err := rejectNulls(
		nullCheck{"email", patch.Email.Null},
		nullCheck{"password", patch.Password.Null},
		nullCheck{"status", patch.Status.Null},
	)
	if err != nil {
		return nil, err
	}

	set := setClause{}
	if patch.RoleID.Set {
		if err := s.ensureRole(ctx, patch.RoleID.Value); err != nil {
			return nil, err
		}
		set.add("role_id", patch.RoleID.Value)
	}
	if patch.FullName.Set {
		set.add("full_name", strings.TrimSpace(patch.FullName.Value))
	}
	if patch.Email.Set {
		email, err := normalizeEmail(patch.Email.Value)
		if err != nil {
			return nil, err
		}
		taken, err := s.emailTaken(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailTaken
		}
		set.add("email", email)
	}
	if patch.Password.Set {
		hashed, err := s.hash(patch.Password.Value)
		if err != nil {
			return nil, err
		}
		set.add("password", hashed)
	}
	if patch.Phone.Set {
		set.add("phone", trimmed(patch.Phone.Value))
	}
	if patch.Avatar.Set {
		set.add("avatar", patch.Avatar.Value)
	}
	if patch.Status.Set {
		if !models.ValidStatus(patch.Status.Value, models.UserStatuses) {
			return nil, invalid("status must be one of: %s", strings.Join(models.UserStatuses, ", "))
		}
		set.add("status", patch.Status.Value)
	}

	if set.empty() {
		return nil, ErrNothingToUpdate
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE users SET `+set.String()+` WHERE id = ? AND deleted = ?`,
		append(set.args, id, false)...)
	if err != nil {
		if database.IsUniqueViolation(err, "email") {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	return s.Get(ctx, id, false)
}

func (s *Users) SetStatus(ctx context.Context, id int64, status string) (*models.User, error) {
	if err := setStatus(ctx, s.db, "users", id, status, models.UserStatuses, database.ErrUserNotFound); err != nil {
		return nil, err
	}
	return s.Get(ctx, id, false)
}

// Delete soft-deletes a user, which frees the email for a new account.
func (s *Users) Delete(ctx context.Context, id int64, _ *int64) (time.Time, error) {
	return softDelete(ctx, s.db, "users", id, nil, false, database.ErrUserNotFound)
}

func (s *Users) Bulk(ctx context.Context, req BulkRequest) (int64, error) {
	return runBulk(ctx, s.db, bulkTarget{
		table:    "users",
		statuses: models.UserStatuses,
	}, req)
}
