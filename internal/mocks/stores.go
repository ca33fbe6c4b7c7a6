package mocks

import (
	"context"
	"time"

	"github.com/safar/shop-admin/internal/models"
	"github.com/safar/shop-admin/internal/store"
	"github.com/stretchr/testify/mock"
)

type ProductStore struct{ mock.Mock }

func (m *ProductStore) List(ctx context.Context, p store.ProductListParams) (*store.OffsetPage[models.Product], error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.OffsetPage[models.Product]), args.Error(1)
}

func (m *ProductStore) Get(ctx context.Context, id int64, includeDeleted bool) (*models.Product, error) {
	args := m.Called(ctx, id, includeDeleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductStore) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductStore) Create(ctx context.Context, in store.ProductInput) (*models.Product, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductStore) Update(ctx context.Context, id int64, patch store.ProductPatch) (*models.Product, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductStore) SetStatus(ctx context.Context, id int64, status string) (*models.Product, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductStore) Delete(ctx context.Context, id int64, deletedByID *int64) (time.Time, error) {
	args := m.Called(ctx, id, deletedByID)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *ProductStore) Bulk(ctx context.Context, req store.BulkRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

type CategoryStore struct{ mock.Mock }

func (m *CategoryStore) List(ctx context.Context, p store.CategoryListParams) (*store.OffsetPage[models.Category], error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.OffsetPage[models.Category]), args.Error(1)
}

func (m *CategoryStore) Tree(ctx context.Context, p store.CategoryListParams) ([]*models.CategoryNode, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CategoryNode), args.Error(1)
}

func (m *CategoryStore) Get(ctx context.Context, id int64, includeDeleted bool) (*models.Category, error) {
	args := m.Called(ctx, id, includeDeleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *CategoryStore) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *CategoryStore) Create(ctx context.Context, in store.CategoryInput) (*models.Category, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *CategoryStore) Update(ctx context.Context, id int64, patch store.CategoryPatch) (*models.Category, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *CategoryStore) SetStatus(ctx context.Context, id int64, status string) (*models.Category, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *CategoryStore) Delete(ctx context.Context, id int64, deletedByID *int64) (time.Time, error) {
	args := m.Called(ctx, id, deletedByID)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *CategoryStore) Bulk(ctx context.Context, req store.BulkRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

type UserStore struct{ mock.Mock }

func (m *UserStore) List(ctx context.Context, p store.UserListParams) (*store.OffsetPage[models.User], error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.OffsetPage[models.User]), args.Error(1)
}

func (m *UserStore) Get(ctx context.Context, id int64, includeDeleted bool) (*models.User, error) {
	args := m.Called(ctx, id, includeDeleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserStore) Create(ctx context.Context, in store.UserInput) (*models.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserStore) Update(ctx context.Context, id int64, patch store.UserPatch) (*models.User, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserStore) SetStatus(ctx context.Context, id int64, status string) (*models.User, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserStore) Delete(ctx context.Context, id int64, deletedByID *int64) (time.Time, error) {
	args := m.Called(ctx, id, deletedByID)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *UserStore) Bulk(ctx context.Context, req store.BulkRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

type RoleStore struct{ mock.Mock }

func (m *RoleStore) List(ctx context.Context, p store.ListParams) (*store.OffsetPage[models.Role], error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.OffsetPage[models.Role]), args.Error(1)
}

func (m *RoleStore) Get(ctx context.Context, id int64, includeDeleted bool) (*models.Role, error) {
	args := m.Called(ctx, id, includeDeleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Role), args.Error(1)
}

func (m *RoleStore) Create(ctx context.Context, in store.RoleInput) (*models.Role, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Role), args.Error(1)
}

func (m *RoleStore) Update(ctx context.Context, id int64, patch store.RolePatch) (*models.Role, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Role), args.Error(1)
}

func (m *RoleStore) Delete(ctx context.Context, id int64, deletedByID *int64) (time.Time, error) {
	args := m.Called(ctx, id, deletedByID)
	return args.Get(0).(time.Time), args.Error(1)
}

type Pinger struct{ mock.Mock }

func (m *Pinger) PingContext(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
