//go:build integration

package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/safar/shop-admin/internal/database"
	"github.com/safar/shop-admin/internal/store"
	"github.com/shopspring/decimal"
)

func TestProductSlugs(t *testing.T) {
	forEachDialect(t, func(t *testing.T, db *database.DB) {
		ctx := context.Background()
		products := store.NewProducts(db)

		first, err := products.Create(ctx, store.ProductInput{Title: "Táo Mỹ", Price: decimal.NewFromInt(25000)})
		if err != nil {
			t.Fatalf("Create product: %v", err)
		}
		second, err := products.Create(ctx, store.ProductInput{Title: "Táo Mỹ"})
		if err != nil {
			t.Fatalf("Create product: %v", err)
		}

		if first.Slug != "tao-my" || second.Slug != "tao-my-1" {
			t.Errorf("Expected tao-my and tao-my-1, got %s and %s", first.Slug, second.Slug)
		}

		if _, err := products.Delete(ctx, first.ID, nil); err != nil {
			t.Fatalf("Delete product: %v", err)
		}
		third, err := products.Create(ctx, store.ProductInput{Title: "Tao my"})
		if err != nil {
			t.Fatalf("Create product: %v", err)
		}
		if third.Slug != "tao-my-2" {
			t.Errorf("Expected deleted rows to keep their slug, got %s", third.Slug)
		}

		renamed, err := products.Update(ctx, second.ID, store.ProductPatch{Title: store.Some("Cam Sành")})
		if err != nil {
			t.Fatalf("Update product: %v", err)
		}
		if renamed.Slug != "cam-sanh" {
			t.Errorf("Expected slug regenerated from title, got %s", renamed.Slug)
		}

		explicit, err := products.Update(ctx, second.ID, store.ProductPatch{
			Title: store.Some("Cam Vinh"),
			Slug:  store.Some("Cam Đặc Biệt"),
		})
		if err != nil {
			t.Fatalf("Update product: %v", err)
		}
		if explicit.Slug != "cam-dac-biet" {
			t.Errorf("Expected client slug to win, got %s", explicit.Slug)
		}

		same, err := products.Update(ctx, second.ID, store.ProductPatch{Stock: store.Some(4)})
		if err != nil {
			t.Fatalf("Update product: %v", err)
		}
		if same.Slug != "cam-dac-biet" || same.Stock != 4 {
			t.Errorf("Expected slug untouched and stock 4, got %s and %d", same.Slug, same.Stock)
		}
	})
}

func TestConcurrentProductSlugs(t *testing.T) {
	forEachDialect(t, func(t *testing.T, db *database.DB) {
		ctx := context.Background()
		products := store.NewProducts(db)

		concurrency := 4
		var wg sync.WaitGroup
		slugs := make(chan string, concurrency)
		errs := make(chan error, concurrency)

		for i := 0; i < concurrency; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				product, err := products.Create(ctx, store.ProductInput{Title: "Flash Sale"})
				if err != nil {
					errs <- err
					return
				}
				slugs <- product.Slug
			}()
		}

		wg.Wait()
		close(slugs)
		close(errs)

		for err := range errs {
			t.Errorf("Concurrent create failed: %v", err)
		}

		seen := make(map[string]bool)
		for s := range slugs {
			if seen[s] {
				t.Errorf("Duplicate slug %s", s)
			}
			seen[s] = true
		}
	})
}

func TestProductLifecycle(t *testing.T) {
	forEachDialect(t, func(t *testing.T, db *database.DB) {
		ctx := context.Background()
		products := store.NewProducts(db)

		product, err := products.Create(ctx, store.ProductInput{
			Title:              "  Phone  ",
			Price:              decimal.RequireFromString("199.99"),
			DiscountPercentage: decimal.NewFromInt(10),
			Stock:              3,
		})
		if err != nil {
			t.Fatalf("Create product: %v", err)
		}
		if product.Title != "Phone" || product.Status != "active" || product.Position != 1 {
			t.Errorf("Unexpected defaults: %+v", product)
		}
		if !product.Price.Equal(decimal.RequireFromString("199.99")) {
			t.Errorf("Expected price 199.99, got %s", product.Price)
		}

		next, err := products.Create(ctx, store.ProductInput{Title: "Case"})
		if err != nil {
			t.Fatalf("Create product: %v", err)
		}
		if next.Position != 2 {
			t.Errorf("Expected position 2, got %d", next.Position)
		}

		again, err := products.Get(ctx, product.ID, false)
		if err != nil {
			t.Fatalf("Get product: %v", err)
		}
		a, _ := json.Marshal(again)
		b, _ := json.Marshal(mustGetProduct(t, products, product.ID))
		if string(a) != string(b) {
			t.Errorf("Repeated reads differ:\n%s\n%s", a, b)
		}

		if _, err := products.Update(ctx, 999, store.ProductPatch{Title: store.Some("x")}); !errors.Is(err, database.ErrProductNotFound) {
			t.Errorf("Expected ErrProductNotFound, got %v", err)
		}
		if _, err := products.Update(ctx, product.ID, store.ProductPatch{}); !errors.Is(err, store.ErrNothingToUpdate) {
			t.Errorf("Expected ErrNothingToUpdate, got %v", err)
		}
		if _, err := products.SetStatus(ctx, product.ID, "archived"); !store.IsValidation(err) {
			t.Errorf("Expected validation error, got %v", err)
		}

		updated, err := products.SetStatus(ctx, product.ID, "inactive")
		if err != nil {
			t.Fatalf("Set status: %v", err)
		}
		if updated.Status != "inactive" {
			t.Errorf("Expected inactive, got %s", updated.Status)
		}

		deletedBy := next.ID
		deletedAt, err := products.Delete(ctx, product.ID, &deletedBy)
		if err != nil {
			t.Fatalf("Delete product: %v", err)
		}
		if _, err := products.Delete(ctx, product.ID, &deletedBy); !errors.Is(err, database.ErrProductNotFound) {
			t.Errorf("Expected second delete to be not found, got %v", err)
		}
		if _, err := products.Get(ctx, product.ID, false); !errors.Is(err, database.ErrProductNotFound) {
			t.Errorf("Expected deleted product to be hidden, got %v", err)
		}

		gone, err := products.Get(ctx, product.ID, true)
		if err != nil {
			t.Fatalf("Get deleted product: %v", err)
		}
		if !gone.Deleted || gone.DeletedAt == nil || !gone.DeletedAt.Equal(deletedAt) {
			t.Errorf("Expected deleted_at %v, got %+v", deletedAt, gone.DeletedAt)
		}
		if gone.DeletedByID == nil || *gone.DeletedByID != deletedBy {
			t.Errorf("Expected deleted_by_id %d, got %v", deletedBy, gone.DeletedByID)
		}
	})
}

func mustGetProduct(t *testing.T, products *store.Products, id int64) any {
	t.Helper()
	product, err := products.Get(context.Background(), id, false)
	if err != nil {
		t.Fatalf("Get product: %v", err)
	}
	return product
}

func TestProductList(t *testing.T) {
	forEachDialect(t, func(t *testing.T, db *database.DB) {
		ctx := context.Background()
		products := store.NewProducts(db)

		for i := 1; i <= 25; i++ {
			in := store.ProductInput{Title: fmt.Sprintf("Item %02d", i), Featured: i%5 == 0}
			if i == 7 {
				in.Title = "Áo Thun"
			}
			if _, err := products.Create(ctx, in); err != nil {
				t.Fatalf("Create product: %v", err)
			}
		}

		page, err := products.List(ctx, store.ProductListParams{ListParams: store.ListParams{Limit: 99999}})
		if err != nil {
			t.Fatalf("List products: %v", err)
		}
		if page.Limit != 100 || page.Total != 25 || len(page.Items) != 25 || page.TotalPages != 1 {
			t.Errorf("Unexpected page: limit=%d total=%d items=%d pages=%d", page.Limit, page.Total, len(page.Items), page.TotalPages)
		}
		if page.Sort != "position:asc" || page.Items[0].Position != 1 {
			t.Errorf("Expected position ordering, got %s", page.Sort)
		}

		page, err = products.List(ctx, store.ProductListParams{ListParams: store.ListParams{Page: 3, Limit: 10, Sort: "title:desc"}})
		if err != nil {
			t.Fatalf("List products: %v", err)
		}
		if len(page.Items) != 5 || page.TotalPages != 3 || page.Sort != "title:desc" {
			t.Errorf("Unexpected third page: items=%d pages=%d sort=%s", len(page.Items), page.TotalPages, page.Sort)
		}

		page, err = products.List(ctx, store.ProductListParams{ListParams: store.ListParams{Query: "ITEM 1"}})
		if err != nil {
			t.Fatalf("List products: %v", err)
		}
		if page.Total != 10 {
			t.Errorf("Expected 10 matches for ITEM 1, got %d", page.Total)
		}

		page, err = products.List(ctx, store.ProductListParams{ListParams: store.ListParams{Query: "ao-thun"}})
		if err != nil {
			t.Fatalf("List products: %v", err)
		}
		if page.Total != 1 {
			t.Errorf("Expected slug search to match, got %d", page.Total)
		}

		featured := true
		page, err = products.List(ctx, store.ProductListParams{Featured: &featured})
		if err != nil {
			t.Fatalf("List products: %v", err)
		}
		if page.Total != 5 {
			t.Errorf("Expected 5 featured products, got %d", page.Total)
		}
	})
}

func TestProductBulk(t *testing.T) {
	forEachDialect(t, func(t *testing.T, db *database.DB) {
		ctx := context.Background()
		products := store.NewProducts(db)

		var ids []int64
		for i := 0; i < 3; i++ {
			p, err := products.Create(ctx, store.ProductInput{Title: fmt.Sprintf("Bulk %d", i)})
			if err != nil {
				t.Fatalf("Create product: %v", err)
			}
			ids = append(ids, p.ID)
		}
		if _, err := products.Delete(ctx, ids[2], nil); err != nil {
			t.Fatalf("Delete product: %v", err)
		}

		affected, err := products.Bulk(ctx, store.BulkRequest{
			IDs:    append(ids, 999),
			Action: store.BulkStatus,
			Value:  json.RawMessage(`"inactive"`),
		})
		if err != nil {
			t.Fatalf("Bulk status: %v", err)
		}
		if affected != 2 {
			t.Errorf("Expected 2 live rows affected, got %d", affected)
		}

		if _, err := products.Bulk(ctx, store.BulkRequest{IDs: ids, Action: store.BulkStatus, Value: json.RawMessage(`"banned"`)}); !store.IsValidation(err) {
			t.Errorf("Expected validation error for banned product status, got %v", err)
		}

		affected, err = products.Bulk(ctx, store.BulkRequest{
			Action: store.BulkPosition,
			Value:  json.RawMessage(fmt.Sprintf(`{"%d": 30, "%d": 10}`, ids[0], ids[1])),
		})
		if err != nil {
			t.Fatalf("Bulk position: %v", err)
		}
		if affected != 2 {
			t.Errorf("Expected 2 positions updated, got %d", affected)
		}

		// The second position overflows INT, so the whole batch must roll back.
		_, err = products.Bulk(ctx, store.BulkRequest{
			Action: store.BulkPosition,
			Value:  json.RawMessage(fmt.Sprintf(`{"%d": 5, "%d": 3000000000}`, ids[0], ids[1])),
		})
		if err == nil {
			t.Fatal("Expected out-of-range position to fail")
		}
		first, err := products.Get(ctx, ids[0], false)
		if err != nil {
			t.Fatalf("Get product: %v", err)
		}
		if first.Position != 30 {
			t.Errorf("Expected position 30 after rollback, got %d", first.Position)
		}

		page, err := products.List(ctx, store.ProductListParams{})
		if err != nil {
			t.Fatalf("List products: %v", err)
		}
		if len(page.Items) != 2 || page.Items[0].ID != ids[1] {
			t.Errorf("Expected reordered list to start with %d", ids[1])
		}

		affected, err = products.Bulk(ctx, store.BulkRequest{IDs: ids, Action: store.BulkDelete})
		if err != nil {
			t.Fatalf("Bulk delete: %v", err)
		}
		if affected != 2 {
			t.Errorf("Expected 2 rows deleted, got %d", affected)
		}
	})
}
