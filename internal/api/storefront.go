package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/safar/shop-admin/internal/database"
	"github.com/safar/shop-admin/internal/models"
	"github.com/safar/shop-admin/internal/store"
)

// PublicProducts lists active products. Deleted rows and status overrides
// from the query string are never honored.
func (h *Handler) PublicProducts(c *gin.Context) {
	params, err := productListParams(c)
	if err != nil {
		respondError(c, err)
		return
	}
	params.Status = models.StatusActive
	params.IncludeDeleted = false

	page, err := h.Products.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	respondPage(c, page)
}

func (h *Handler) PublicProduct(c *gin.Context) {
	product, err := h.Products.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	if product.Status != models.StatusActive {
		respondError(c, database.ErrProductNotFound)
		return
	}

	respondJSON(c, http.StatusOK, product)
}

func (h *Handler) PublicCategories(c *gin.Context) {
	tree, err := h.Categories.Tree(c.Request.Context(), store.CategoryListParams{Status: models.StatusActive})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, tree)
}

func (h *Handler) PublicCategory(c *gin.Context) {
	category, err := h.Categories.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	if category.Status != models.StatusActive {
		respondError(c, database.ErrCategoryNotFound)
		return
	}

	respondJSON(c, http.StatusOK, category)
}

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.DB.PingContext(ctx); err != nil {
		loggerFrom(c).Error("health check failed", "error", err)
		respondMessage(c, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"status": "ok"})
}
