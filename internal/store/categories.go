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
)

const categoryColumns = `id, parent_id, title, description, thumbnail, status, position, slug,
	deleted, deleted_at, deleted_by_id, created_at, updated_at`

var categorySortColumns = []string{"id", "title", "position", "status", "created_at", "updated_at"}

type CategoryInput struct {
	ParentID    *int64  `json:"parent_id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Thumbnail   *string `json:"thumbnail"`
	Status      string  `json:"status"`
	Position    *int    `json:"position"`
	Slug        string  `json:"slug"`
}

type CategoryPatch struct {
	ParentID    Optional[*int64]  `json:"parent_id"`
	Title       Optional[string]  `json:"title"`
	Description Optional[*string] `json:"description"`
	Thumbnail   Optional[*string] `json:"thumbnail"`
	Status      Optional[string]  `json:"status"`
	Position    Optional[int]     `json:"position"`
	Slug        Optional[string]  `json:"slug"`
}

// CategoryListParams filters categories. RootsOnly selects rows without a
// parent and wins over ParentID.
type CategoryListParams struct {
	ListParams
	Status    string
	ParentID  *int64
	RootsOnly bool
}

type Categories struct {
	db *database.DB
}

func NewCategories(db *database.DB) *Categories {
	return &Categories{db: db}
}

func scanCategory(row rowScanner) (models.Category, error) {
	var category models.Category
	err := row.Scan(
		&category.ID,
		&category.ParentID,
		&category.Title,
		&category.Description,
		&category.Thumbnail,
		&category.Status,
		&category.Position,
		&category.Slug,
		&category.Deleted,
		&category.DeletedAt,
		&category.DeletedByID,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	return category, err
}

func (s *Categories) Get(ctx context.Context, id int64, includeDeleted bool) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM product_categories WHERE id = ?`
	args := []any{id}
	if !includeDeleted {
		query += ` AND deleted = ?`
		args = append(args, false)
	}

	category, err := scanCategory(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	return &category, nil
}

func (s *Categories) GetBySlug(ctx context.Context, categorySlug string) (*models.Category, error) {
	category, err := scanCategory(s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM product_categories WHERE slug = ? AND deleted = ?`,
		categorySlug, false))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category by slug: %w", err)
	}

	return &category, nil
}

func (p CategoryListParams) where() whereClause {
	where := whereClause{}
	if !p.IncludeDeleted {
		where.add("deleted = ?", false)
	}
	where.search(strings.TrimSpace(p.Query), "title", "slug", "description")
	if p.Status != "" {
		where.add("status = ?", p.Status)
	}
	switch {
	case p.RootsOnly:
		where.add("parent_id IS NULL")
	case p.ParentID != nil:
		where.add("parent_id = ?", *p.ParentID)
	}
	return where
}

func (s *Categories) List(ctx context.Context, p CategoryListParams) (*OffsetPage[models.Category], error) {
	p.ListParams = p.ListParams.Normalize(20)
	sort := ParseSort(p.Sort, categorySortColumns, SortSpec{Column: "position", Direction: "ASC"})
	return listPage(ctx, s.db, "product_categories", categoryColumns, p.where(), sort, p.ListParams, scanCategory)
}

// Tree loads every category matching p, unpaged, and nests it. Rows whose
// parent was filtered out become roots.
func (s *Categories) Tree(ctx context.Context, p CategoryListParams) ([]*models.CategoryNode, error) {
	where := p.where()
	query := `SELECT ` + categoryColumns + ` FROM product_categories` + where.String() + ` ORDER BY position ASC, id ASC`
	categories, err := queryAll(ctx, s.db, "product_categories", query, where.args, scanCategory)
	if err != nil {
		return nil, err
	}
	return models.BuildCategoryTree(categories), nil
}

func (s *Categories) siblingsWhere(parentID *int64) whereClause {
	where := whereClause{}
	if parentID == nil {
		where.add("parent_id IS NULL")
	} else {
		where.add("parent_id = ?", *parentID)
	}
	return where
}

// Create inserts a category at the end of its sibling list unless a position
// is given. The parent, if any, must be a live category.
func (s *Categories) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, invalid("title is required")
	}
	in.Description = trimmed(in.Description)
	if in.Status == "" {
		in.Status = models.StatusActive
	}
	if !models.ValidStatus(in.Status, models.CatalogStatuses) {
		return nil, invalid("status must be one of: %s", strings.Join(models.CatalogStatuses, ", "))
	}
	if in.ParentID != nil {
		if err := ensureLive(ctx, s.db, "product_categories", *in.ParentID, invalid("parent category %d not found", *in.ParentID)); err != nil {
			return nil, err
		}
	}

	position := 0
	if in.Position != nil {
		position = *in.Position
	} else {
		next, err := nextPosition(ctx, s.db, "product_categories", s.siblingsWhere(in.ParentID))
		if err != nil {
			return nil, err
		}
		position = next
	}

	var id int64
	base := slug.Make(slugSource(in.Slug, in.Title))
	_, err := writeWithSlug(ctx, s.db, "product_categories", 0, base, func(candidate string) error {
		var err error
		id, err = database.InsertID(ctx, s.db,
			`INSERT INTO product_categories (parent_id, title, description, thumbnail, status, position, slug,
				deleted, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
			in.ParentID, in.Title, in.Description, in.Thumbnail, in.Status, position, candidate, false)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	return s.Get(ctx, id, false)
}

func (p CategoryPatch) rejectNulls() error {
	return rejectNulls(
		nullCheck{"title", p.Title.Null},
		nullCheck{"status", p.Status.Null},
		nullCheck{"position", p.Position.Null},
	)
}

// Update applies the fields present in patch. Re-parenting is checked against
// the new parent's whole ancestor chain inside the same transaction as the
// write, with the chain rows locked.
func (s *Categories) Update(ctx context.Context, id int64, patch CategoryPatch) (*models.Category, error) {
	current, err := s.Get(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if err := patch.rejectNulls(); err != nil {
		return nil, err
	}

	set := setClause{}
	title := current.Title
	if patch.ParentID.Set {
		if patch.ParentID.Value != nil && *patch.ParentID.Value == id {
			return nil, invalid("a category cannot be its own parent")
		}
		set.add("parent_id", patch.ParentID.Value)
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
	if patch.Thumbnail.Set {
		set.add("thumbnail", patch.Thumbnail.Value)
	}
	if patch.Status.Set {
		if !models.ValidStatus(patch.Status.Value, models.CatalogStatuses) {
			return nil, invalid("status must be one of: %s", strings.Join(models.CatalogStatuses, ", "))
		}
		set.add("status", patch.Status.Value)
	}
	if patch.Position.Set {
		set.add("position", patch.Position.Value)
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
		return database.WithTransaction(ctx, s.db, database.DefaultTxOptions(), func(tx *database.Tx) error {
			if patch.ParentID.Set && patch.ParentID.Value != nil {
				if err := checkAncestry(ctx, tx, id, *patch.ParentID.Value); err != nil {
					return err
				}
			}
			_, err := tx.ExecContext(ctx,
				`UPDATE product_categories SET `+final.String()+` WHERE id = ? AND deleted = ?`,
				append(final.args, id, false)...)
			return err
		})
	}

	if slugBase != "" {
		_, err = writeWithSlug(ctx, s.db, "product_categories", id, slugBase, write)
	} else {
		err = write("")
	}
	if err != nil {
		if IsValidation(err) {
			return nil, err
		}
		return nil, fmt.Errorf("update category: %w", err)
	}

	return s.Get(ctx, id, false)
}

// checkAncestry walks up from parentID and rejects the move when it reaches id.
// The parent itself must be live; ancestors above it may be deleted.
func checkAncestry(ctx context.Context, q database.Querier, id, parentID int64) error {
	cursor := &parentID
	visited := make(map[int64]bool)

	for depth := 0; cursor != nil; depth++ {
		if *cursor == id {
			return invalid("a category cannot be moved under its own descendant")
		}
		if visited[*cursor] {
			return nil
		}
		visited[*cursor] = true

		var next *int64
		var deleted bool
		err := q.QueryRowContext(ctx,
			`SELECT parent_id, deleted FROM product_categories WHERE id = ? FOR UPDATE`,
			*cursor).Scan(&next, &deleted)
		if err == sql.ErrNoRows {
			if depth == 0 {
				return invalid("parent category %d not found", parentID)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("walk category ancestors: %w", err)
		}
		if depth == 0 && deleted {
			return invalid("parent category %d not found", parentID)
		}
		cursor = next
	}

	return nil
}

func (s *Categories) SetStatus(ctx context.Context, id int64, status string) (*models.Category, error) {
	if err := setStatus(ctx, s.db, "product_categories", id, status, models.CatalogStatuses, database.ErrCategoryNotFound); err != nil {
		return nil, err
	}
	return s.Get(ctx, id, false)
}

// Delete soft-deletes one category. Its children keep their parent_id and
// surface as roots in trees that exclude deleted rows.
func (s *Categories) Delete(ctx context.Context, id int64, deletedByID *int64) (time.Time, error) {
	return softDelete(ctx, s.db, "product_categories", id, deletedByID, true, database.ErrCategoryNotFound)
}

func (s *Categories) Bulk(ctx context.Context, req BulkRequest) (int64, error) {
	return runBulk(ctx, s.db, bulkTarget{
		table:     "product_categories",
		statuses:  models.CatalogStatuses,
		positions: true,
		deletedBy: true,
	}, req)
}
