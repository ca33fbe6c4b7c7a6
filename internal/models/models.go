package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID                 int64           `json:"id"`
	CategoryID         *int64          `json:"category_id"`
	Title              string          `json:"title"`
	Description        *string         `json:"description"`
	Price              decimal.Decimal `json:"price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	Stock              int             `json:"stock"`
	Thumbnail          *string         `json:"thumbnail"`
	Status             string          `json:"status"`
	Featured           bool            `json:"featured"`
	Position           int             `json:"position"`
	Slug               string          `json:"slug"`
	RatingAvg          decimal.Decimal `json:"rating_avg"`
	RatingCount        int             `json:"rating_count"`
	CreatedByID        *int64          `json:"created_by_id"`
	UpdatedByID        *int64          `json:"updated_by_id"`
	DeletedByID        *int64          `json:"deleted_by_id"`
	Deleted            bool            `json:"deleted"`
	DeletedAt          *time.Time      `json:"deleted_at"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type Category struct {
	ID          int64      `json:"id"`
	ParentID    *int64     `json:"parent_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Thumbnail   *string    `json:"thumbnail"`
	Status      string     `json:"status"`
	Position    int        `json:"position"`
	Slug        string     `json:"slug"`
	Deleted     bool       `json:"deleted"`
	DeletedAt   *time.Time `json:"deleted_at"`
	DeletedByID *int64     `json:"deleted_by_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Role struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	Permissions json.RawMessage `json:"permissions"`
	Deleted     bool            `json:"deleted"`
	DeletedAt   *time.Time      `json:"deleted_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// User never serializes its password hash.
type User struct {
	ID        int64      `json:"id"`
	RoleID    *int64     `json:"role_id"`
	FullName  string     `json:"full_name"`
	Email     string     `json:"email"`
	Password  string     `json:"-"`
	Phone     *string    `json:"phone"`
	Avatar    *string    `json:"avatar"`
	Status    string     `json:"status"`
	Deleted   bool       `json:"deleted"`
	DeletedAt *time.Time `json:"deleted_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusBanned   = "banned"
)

// CatalogStatuses apply to products and categories.
var CatalogStatuses = []string{StatusActive, StatusInactive}

var UserStatuses = []string{StatusActive, StatusInactive, StatusBanned}

func ValidStatus(status string, allowed []string) bool {
	for _, s := range allowed {
		if s == status {
			return true
		}
	}
	return false
}
