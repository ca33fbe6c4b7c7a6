//go:build integration

package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/safar/shop-admin/internal/database"
	"github.com/safar/shop-admin/internal/models"
	"github.com/safar/shop-admin/internal/password"
	"github.com/safar/shop-admin/internal/store"
	"golang.org/x/crypto/bcrypt"
)

func TestCategoryHierarchy(t *testing.T) {
	forEachDialect(t, func(t *testing.T, db *database.DB) {
		ctx := context.Background()
		categories := store.NewCategories(db)

		root, err := categories.Create(ctx, store.CategoryInput{Title: "Fruit"})
		if err != nil {
			t.Fatalf("Create category: %v", err)
		}
		otherRoot, err := categories.Create(ctx, store.CategoryInput{Title: "Drinks"})
		if err != nil {
			t.Fatalf("Create category: %v", err)
		}
		child, err := categories.Create(ctx, store.CategoryInput{Title: "Citrus", ParentID: &root.ID})
		if err != nil {
			t.Fatalf("Create category: %v", err)
		}
		grandchild, err := categories.Create(ctx, store.CategoryInput{Title: "Lemons", ParentID: &child.ID})
		if err != nil {
			t.Fatalf("Create category: %v", err)
		}

		if root.Position != 1 || otherRoot.Position != 2 || child.Position != 1 || grandchild.Position != 1 {
			t.Errorf("Expected per-parent positions 1,2,1,1, got %d,%d,%d,%d",
				root.Position, otherRoot.Position, child.Position, grandchild.Position)
		}

		missing := int64(999)
		if _, err := categories.Create(ctx, store.CategoryInput{Title: "Lost", ParentID: &missing}); !store.IsValidation(err) {
			t.Errorf("Expected validation error for missing parent, got %v", err)
		}

		if _, err := categories.Update(ctx, root.ID, store.CategoryPatch{ParentID: store.Some(&root.ID)}); !store.IsValidation(err) {
			t.Errorf("Expected self-parent rejection, got %v", err)
		}
		if _, err := categories.Update(ctx, root.ID, store.CategoryPatch{ParentID: store.Some(&grandchild.ID)}); !store.IsValidation(err) {
			t.Errorf("Expected descendant-parent rejection, got %v", err)
		}

		moved, err := categories.Update(ctx, child.ID, store.CategoryPatch{ParentID: store.Some(&otherRoot.ID)})
		if err != nil {
			t.Fatalf("Move category: %v", err)
		}
		if moved.ParentID == nil || *moved.ParentID != otherRoot.ID {
			t.Errorf("Expected parent %d, got %v", otherRoot.ID, moved.ParentID)
		}

		detached, err := categories.Update(ctx, child.ID, store.CategoryPatch{ParentID: store.Some[*int64](nil)})
		if err != nil {
			t.Fatalf("Detach category: %v", err)
		}
		if detached.ParentID != nil {
			t.Errorf("Expected root category, got parent %v", *detached.ParentID)
		}

		roots, err := categories.List(ctx, store.CategoryListParams{RootsOnly: true})
		if err != nil {
			t.Fatalf("List categories: %v", err)
		}
		if roots.Total != 3 {
			t.Errorf("Expected 3 roots, got %d", roots.Total)
		}

		bySlug, err := categories.GetBySlug(ctx, "lemons")
		if err != nil {
			t.Fatalf("Get category by slug: %v", err)
		}
		if bySlug.ID != grandchild.ID {
			t.Errorf("Expected category %d, got %d", grandchild.ID, bySlug.ID)
		}
	})
}

func TestCategoryTree(t *testing.T) {
	forEachDialect(t, func(t *testing.T, db *database.DB) {
		ctx := context.Background()
		categories := store.NewCategories(db)

		parent, err := categories.Create(ctx, store.CategoryInput{Title: "Hidden", Status: models.StatusInactive})
		if err != nil {
			t.Fatalf("Create category: %v", err)
		}
		child, err := categories.Create(ctx, store.CategoryInput{Title: "Visible", ParentID: &parent.ID})
		if err != nil {
			t.Fatalf("Create category: %v", err)
		}
		if _, err := categories.Create(ctx, store.CategoryInput{Title: "Leaf", ParentID: &child.ID}); err != nil {
			t.Fatalf("Create category: %v", err)
		}

		tree, err := categories.Tree(ctx, store.CategoryListParams{Status: models.StatusActive})
		if err != nil {
			t.Fatalf("Build tree: %v", err)
		}
		if len(tree) != 1 || tree[0].ID != child.ID {
			t.Fatalf("Expected orphaned child promoted to root, got %d roots", len(tree))
		}
		if len(tree[0].Children) != 1 || tree[0].Children[0].Title != "Leaf" {
			t.Errorf("Expected Leaf under Visible")
		}

		full, err := categories.Tree(ctx, store.CategoryListParams{})
		if err != nil {
			t.Fatalf("Build tree: %v", err)
		}
		if models.Count(full) != 3 || len(full) != 1 {
			t.Errorf("Expected one root holding all 3 nodes, got %d roots, %d nodes", len(full), models.Count(full))
		}

		if _, err := categories.Delete(ctx, parent.ID, nil); err != nil {
			t.Fatalf("Delete category: %v", err)
		}
		if _, err := categories.Delete(ctx, parent.ID, nil); !errors.Is(err, database.ErrCategoryNotFound) {
			t.Errorf("Expected second delete to be not found, got %v", err)
		}
		full, err = categories.Tree(ctx, store.CategoryListParams{})
		if err != nil {
			t.Fatalf("Build tree: %v", err)
		}
		if len(full) != 1 || full[0].ID != child.ID {
			t.Errorf("Expected children of a deleted category to surface as roots")
		}
	})
}

func TestUsers(t *testing.T) {
	forEachDialect(t, func(t *testing.T, db *database.DB) {
		ctx := context.Background()
		roles := store.NewRoles(db)
		users := store.NewUsers(db, password.BcryptHasher{Cost: bcrypt.MinCost})

		role, err := roles.Create(ctx, store.RoleInput{Title: "Editor", Permissions: json.RawMessage(`["products.edit"]`)})
		if err != nil {
			t.Fatalf("Create role: %v", err)
		}

		user, err := users.Create(ctx, store.UserInput{
			FullName: "Nguyen Van A",
			Email:    " Admin@Shop.Example ",
			Password: "s3cret!",
			RoleID:   &role.ID,
		})
		if err != nil {
			t.Fatalf("Create user: %v", err)
		}
		if user.Email != "admin@shop.example" || user.Status != "active" || user.Password != "" {
			t.Errorf("Unexpected user: %+v", user)
		}

		var hash string
		if err := db.QueryRowContext(ctx, `SELECT password FROM users WHERE id = ?`, user.ID).Scan(&hash); err != nil {
			t.Fatalf("Read hash: %v", err)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret!")); err != nil {
			t.Errorf("Stored password is not a bcrypt hash of the input: %v", err)
		}

		if _, err := users.Create(ctx, store.UserInput{Email: "ADMIN@shop.example", Password: "x"}); !errors.Is(err, store.ErrEmailTaken) {
			t.Errorf("Expected ErrEmailTaken, got %v", err)
		}
		if _, err := users.Create(ctx, store.UserInput{Email: "no-password@shop.example"}); !store.IsValidation(err) {
			t.Errorf("Expected validation error without password, got %v", err)
		}

		other, err := users.Create(ctx, store.UserInput{Email: "other@shop.example", Password: "x"})
		if err != nil {
			t.Fatalf("Create user: %v", err)
		}
		if _, err := users.Update(ctx, other.ID, store.UserPatch{Email: store.Some("admin@shop.example")}); !errors.Is(err, store.ErrEmailTaken) {
			t.Errorf("Expected ErrEmailTaken on update, got %v", err)
		}

		affected, err := users.Bulk(ctx, store.BulkRequest{IDs: []int64{user.ID, other.ID}, Action: store.BulkStatus, Value: json.RawMessage(`"banned"`)})
		if err != nil {
			t.Fatalf("Bulk status: %v", err)
		}
		if affected != 2 {
			t.Errorf("Expected 2 users banned, got %d", affected)
		}
		if _, err := users.Bulk(ctx, store.BulkRequest{IDs: []int64{user.ID}, Action: store.BulkStatus, Value: json.RawMessage(`"superadmin"`)}); !store.IsValidation(err) {
			t.Errorf("Expected validation error for superadmin, got %v", err)
		}

		if _, err := users.Delete(ctx, user.ID, nil); err != nil {
			t.Fatalf("Delete user: %v", err)
		}
		reused, err := users.Create(ctx, store.UserInput{Email: "admin@shop.example", Password: "again"})
		if err != nil {
			t.Fatalf("Expected email to be free after delete: %v", err)
		}

		page, err := users.List(ctx, store.UserListParams{ListParams: store.ListParams{Query: "shop.example"}})
		if err != nil {
			t.Fatalf("List users: %v", err)
		}
		if page.Total != 2 || page.Limit != 10 || page.Items[0].ID != other.ID || page.Items[1].ID != reused.ID {
			t.Errorf("Unexpected user page: total=%d limit=%d", page.Total, page.Limit)
		}

		page, err = users.List(ctx, store.UserListParams{RoleID: &role.ID, ListParams: store.ListParams{IncludeDeleted: true}})
		if err != nil {
			t.Fatalf("List users: %v", err)
		}
		if page.Total != 1 || !page.Items[0].Deleted {
			t.Errorf("Expected the deleted editor, got total=%d", page.Total)
		}
	})
}

func TestRoles(t *testing.T) {
	forEachDialect(t, func(t *testing.T, db *database.DB) {
		ctx := context.Background()
		roles := store.NewRoles(db)

		role, err := roles.Create(ctx, store.RoleInput{Title: "Viewer"})
		if err != nil {
			t.Fatalf("Create role: %v", err)
		}
		if role.Permissions != nil {
			t.Errorf("Expected null permissions, got %s", role.Permissions)
		}

		updated, err := roles.Update(ctx, role.ID, store.RolePatch{Permissions: store.Some(json.RawMessage(`{"products": ["view"]}`))})
		if err != nil {
			t.Fatalf("Update role: %v", err)
		}
		var perms map[string][]string
		if err := json.Unmarshal(updated.Permissions, &perms); err != nil || len(perms["products"]) != 1 {
			t.Errorf("Expected permissions round trip, got %s", updated.Permissions)
		}

		if _, err := roles.Update(ctx, role.ID, store.RolePatch{Permissions: store.Some(json.RawMessage(`{oops`))}); !store.IsValidation(err) {
			t.Errorf("Expected invalid JSON rejection, got %v", err)
		}

		if _, err := roles.Delete(ctx, role.ID, nil); err != nil {
			t.Fatalf("Delete role: %v", err)
		}
		if _, err := roles.Delete(ctx, role.ID, nil); !errors.Is(err, database.ErrRoleNotFound) {
			t.Errorf("Expected second delete to be not found, got %v", err)
		}
		if _, err := roles.Get(ctx, role.ID, false); !errors.Is(err, database.ErrRoleNotFound) {
			t.Errorf("Expected deleted role to be hidden, got %v", err)
		}
	})
}
