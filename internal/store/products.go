package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/safar/shop-admin/internal/database"
	"github.com/safar/shop-admin/internal/models"
	"github.com/safar/shop-admin/internal/slug"
	"github.com/shopspring/decimal"
)

const productColumns = `id, category_id, title, description, price, discount_percentage, stock,
	thumbnail, status, featured, position, slug, rating_avg, rating_count,
	created_by_id, updated_by_id, deleted_by_id, deleted, deleted_at, created_at, updated_at`

var productSortColumns = []string{
	"id", "title", "price", "stock", "position", "status", "featured",
	"rating_avg", "created_at", "updated_at",
}

var hundred = decimal.NewFromInt(100)

type ProductInput struct {
	CategoryID         *int64          `json:"category_id"`
	Title              string          `json:"title"`
	Description        *string         `json:"description"`
	Price              decimal.Decimal `json:"price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	Stock              int             `json:"stock"`
	Thumbnail          *string         `json:"thumbnail"`
	Status             string          `json:"status"`
	Featured           bool            `json:"featured"`
	Position           *int            `json:"position"`
	Slug               string          `json:"slug"`
	CreatedByID        *int64          `json:"created_by_id"`
}

// ProductPatch lists the fields a product update may touch.
type ProductPatch struct {
	CategoryID         Optional[*int64]          `json:"category_id"`
	Title              Optional[string]          `json:"title"`
	Description        Optional[*string]         `json:"description"`
	Price              Optional[decimal.Decimal] `json:"price"`
	DiscountPercentage Optional[decimal.Decimal] `json:"discount_percentage"`
	Stock              Optional[int]             `json:"stock"`
	Thumbnail          Optional[*string]         `json:"thumbnail"`
	Status             Optional[string]          `json:"status"`
	Featured           Optional[bool]            `json:"featured"`
	Position           Optional[int]             `json:"position"`
	Slug               Optional[string]          `json:"slug"`
	UpdatedByID        Optional[*int64]          `json:"updated_by_id"`
}

type ProductListParams struct {
	ListParams
	Status     string
	Featured   *bool
	CategoryID *int64
}

type Products struct {
	db *database.DB
}

func NewProducts(db *database.DB) *Products {
	return &Products{db: db}
}

func scanProduct(row rowScanner) (models.Product, error) {
	var product models.Product
	err := row.Scan(
		&product.ID,
		&product.CategoryID,
		&product.Title,
		&product.Description,
		&product.Price,
		&product.DiscountPercentage,
		&product.Stock,
		&product.Thumbnail,
		&product.Status,
		&product.Featured,
		&product.Position,
		&product.Slug,
		&product.RatingAvg,
		&product.RatingCount,
		&product.CreatedByID,
		&product.UpdatedByID,
		&product.DeletedByID,
		&product.Deleted,
		&product.DeletedAt,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	return product, err
}

func (s *Products) Get(ctx context.Context, id int64, includeDeleted bool) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`
	args := []any{id}
	if !includeDeleted {
		query += ` AND deleted = ?`
		args = append(args, false)
	}

	product, err := scanProduct(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &product, nil
}

// GetBySlug returns a live product by slug.
func (s *Products) GetBySlug(ctx context.Context, productSlug string) (*models.Product, error) {
	product, err := scanProduct(s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE slug = ? AND deleted = ?`,
		productSlug, false))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product by slug: %w", err)
	}

	return &product, nil
}

func (s *Products) List(ctx context.Context, p ProductListParams) (*OffsetPage[models.Product], error) {
	p.ListParams = p.ListParams.Normalize(20)
	sort := ParseSort(p.Sort, productSortColumns, SortSpec{Column: "position", Direction: "ASC"})

	where := whereClause{}
	if !p.IncludeDeleted {
		where.add("deleted = ?", false)
	}
	where.search(p.Query, "title", "slug")
	if p.Status != "" {
		where.add("status = ?", p.Status)
	}
	if p.Featured != nil {
		where.add("featured = ?", *p.Featured)
	}
	if p.CategoryID != nil {
		where.add("category_id = ?", *p.CategoryID)
	}

	return listPage(ctx, s.db, "products", productColumns, where, sort, p.ListParams, scanProduct)
}

func (in *ProductInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return invalid("title is required")
	}
	in.Description = trimmed(in.Description)
	if in.Status == "" {
		in.Status = models.StatusActive
	}
	if !models.ValidStatus(in.Status, models.CatalogStatuses) {
		return invalid("status must be one of: %s", strings.Join(models.CatalogStatuses, ", "))
	}
	if err := validateProductNumbers(in.Price, in.DiscountPercentage, in.Stock); err != nil {
		return err
	}
	return nil
}

func validateProductNumbers(price, discount decimal.Decimal, stock int) error {
	if price.IsNegative() {
		return invalid("price must not be negative")
	}
	if discount.IsNegative() || discount.GreaterThan(hundred) {
		return invalid("discount_percentage must be between 0 and 100")
	}
	if stock < 0 {
		return invalid("stock must not be negative")
	}
	return nil
}

// Create inserts a product. A missing position becomes the global max+1 and
// the slug is derived from the client slug or the title.
func (s *Products) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	position := 0
	if in.Position != nil {
		position = *in.Position
	} else {
		next, err := nextPosition(ctx, s.db, "products", whereClause{})
		if err != nil {
			return nil, err
		}
		position = next
	}

	var id int64
	base := slug.Make(slugSource(in.Slug, in.Title))
	_, err := writeWithSlug(ctx, s.db, "products", 0, base, func(candidate string) error {
		var err error
		id, err = database.InsertID(ctx, s.db,
			`INSERT INTO products (category_id, title, description, price, discount_percentage, stock,
				thumbnail, status, featured, position, slug, created_by_id, updated_by_id, deleted,
				created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
			in.CategoryID, in.Title, in.Description, in.Price, in.DiscountPercentage, in.Stock,
			in.Thumbnail, in.Status, in.Featured, position, candidate, in.CreatedByID, in.CreatedByID, false)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	return s.Get(ctx, id, false)
}

func (p ProductPatch) rejectNulls() error {
	return rejectNulls(
		nullCheck{"title", p.Title.Null},
		nullCheck{"price", p.Price.Null},
		nullCheck{"discount_percentage", p.DiscountPercentage.Null},
		nullCheck{"stock", p.Stock.Null},
		nullCheck{"status", p.Status.Null},
		nullCheck{"featured", p.Featured.Null},
		nullCheck{"position", p.Position.Null},
	)
}

// Update applies the fields present in patch. Changing the title regenerates
// the slug unless the patch also carries one.
func (s *Products) Update(ctx context.Context, id int64, patch ProductPatch) (*models.Product, error) {
	current, err := s.Get(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if err := patch.rejectNulls(); err != nil {
		return nil, err
	}

	set := setClause{}
	title := current.Title
	if patch.CategoryID.Set {
		set.add("category_id", patch.CategoryID.Value)
	}
	if patch.Title.Set {
		title = strings.TrimSpace(patch.Title.Value)
		if title == "" {
			return nil, invalid("title is required")
		}
		set.add("title", title)
	}
	if patch.Description.Set {
		set.add("description", trimmed(patch.Description.Value))
	}

	price, discount, stock := current.Price, current.DiscountPercentage, current.Stock
	if patch.Price.Set {
		price = patch.Price.Value
		set.add("price", price)
	}
	if patch.DiscountPercentage.Set {
		discount = patch.DiscountPercentage.Value
		set.add("discount_percentage", discount)
	}
	if patch.Stock.Set {
		stock = patch.Stock.Value
		set.add("stock", stock)
	}
	if err := validateProductNumbers(price, discount, stock); err != nil {
		return nil, err
	}

	if patch.Thumbnail.Set {
		set.add("thumbnail", patch.Thumbnail.Value)
	}
	if patch.Status.Set {
		if !models.ValidStatus(patch.Status.Value, models.CatalogStatuses) {
			return nil, invalid("status must be one of: %s", strings.Join(models.CatalogStatuses, ", "))
		}
		set.add("status", patch.Status.Value)
	}
	if patch.Featured.Set {
		set.add("featured", patch.Featured.Value)
	}
	if patch.Position.Set {
		set.add("position", patch.Position.Value)
	}
	if patch.UpdatedByID.Set {
		set.add("updated_by_id", patch.UpdatedByID.Value)
	}

	var slugBase string
	switch {
	case patch.Slug.Set:
		slugBase = slug.Make(slugSource(patch.Slug.Value, title))
	case title != current.Title:
		slugBase = slug.Make(title)
	}

	if set.empty() && slugBase == "" {
		return nil, ErrNothingToUpdate
	}

	write := func(candidate string) error {
		final := set.clone()
		if candidate != "" {
			final.add("slug", candidate)
		}
		_, err := s.db.ExecContext(ctx,
			`UPDATE products SET `+final.String()+` WHERE id = ? AND deleted = ?`,
			append(final.args, id, false)...)
		return err
	}

	if slugBase != "" {
		_, err = writeWithSlug(ctx, s.db, "products", id, slugBase, write)
	} else {
		err = write("")
	}
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	return s.Get(ctx, id, false)
}

func (s *Products) SetStatus(ctx context.Context, id int64, status string) (*models.Product, error) {
	if err := setStatus(ctx, s.db, "products", id, status, models.CatalogStatuses, database.ErrProductNotFound); err != nil {
		return nil, err
	}
	return s.Get(ctx, id, false)
}

func (s *Products) Delete(ctx context.Context, id int64, deletedByID *int64) (time.Time, error) {
	return softDelete(ctx, s.db, "products", id, deletedByID, true, database.ErrProductNotFound)
}

func (s *Products) Bulk(ctx context.Context, req BulkRequest) (int64, error) {
	return runBulk(ctx, s.db, bulkTarget{
		table:     "products",
		statuses:  models.CatalogStatuses,
		positions: true,
		deletedBy: true,
	}, req)
}
