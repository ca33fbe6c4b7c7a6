package api

import (
	"context"
	"time"

	"github.com/safar/shop-admin/internal/models"
	"github.com/safar/shop-admin/internal/store"
)

type ProductStore interface {
	List(ctx context.Context, p store.ProductListParams) (*store.OffsetPage[models.Product], error)
	Get(ctx context.Context, id int64, includeDeleted bool) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	Create(ctx context.Context, in store.ProductInput) (*models.Product, error)
	Update(ctx context.Context, id int64, patch store.ProductPatch) (*models.Product, error)
	SetStatus(ctx context.Context, id int64, status string) (*models.Product, error)
	Delete(ctx context.Context, id int64, deletedByID *int64) (time.Time, error)
	Bulk(ctx context.Context, req store.BulkRequest) (int64, error)
}

type CategoryStore interface {
	List(ctx context.Context, p store.CategoryListParams) (*store.OffsetPage[models.Category], error)
	Tree(ctx context.Context, p store.CategoryListParams) ([]*models.CategoryNode, error)
	Get(ctx context.Context, id int64, includeDeleted bool) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, in store.CategoryInput) (*models.Category, error)
	Update(ctx context.Context, id int64, patch store.CategoryPatch) (*models.Category, error)
	SetStatus(ctx context.Context, id int64, status string) (*models.Category, error)
	Delete(ctx context.Context, id int64, deletedByID *int64) (time.Time, error)
	Bulk(ctx context.Context, req store.BulkRequest) (int64, error)
}

type UserStore interface {
	List(ctx context.Context, p store.UserListParams) (*store.OffsetPage[models.User], error)
	Get(ctx context.Context, id int64, includeDeleted bool) (*models.User, error)
	Create(ctx context.Context, in store.UserInput) (*models.User, error)
	Update(ctx context.Context, id int64, patch store.UserPatch) (*models.User, error)
	SetStatus(ctx context.Context, id int64, status string) (*models.User, error)
	Delete(ctx context.Context, id int64, deletedByID *int64) (time.Time, error)
	Bulk(ctx context.Context, req store.BulkRequest) (int64, error)
}

type RoleStore interface {
	List(ctx context.Context, p store.ListParams) (*store.OffsetPage[models.Role], error)
	Get(ctx context.Context, id int64, includeDeleted bool) (*models.Role, error)
	Create(ctx context.Context, in store.RoleInput) (*models.Role, error)
	Update(ctx context.Context, id int64, patch store.RolePatch) (*models.Role, error)
	Delete(ctx context.Context, id int64, deletedByID *int64) (time.Time, error)
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler serves the admin and storefront routes.
type Handler struct {
	Products   ProductStore
	Categories CategoryStore
	Users      UserStore
	Roles      RoleStore
	DB         Pinger
}

func NewHandler(products ProductStore, categories CategoryStore, users UserStore, roles RoleStore, db Pinger) *Handler {
	return &Handler{
		Products:   products,
		Categories: categories,
		Users:      users,
		Roles:      roles,
		DB:         db,
	}
}
