package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/safar/shop-admin/internal/models"
	"github.com/safar/shop-admin/internal/store"
)

func categoryListParams(c *gin.Context) (store.CategoryListParams, error) {
	params := store.CategoryListParams{
		ListParams: listParams(c),
		Status:     c.Query("status"),
	}

	if strings.EqualFold(strings.TrimSpace(c.Query("parent_id")), "null") {
		params.RootsOnly = true
		return params, nil
	}
	parentID, err := queryID(c, "parent_id")
	if err != nil {
		return params, err
	}
	params.ParentID = parentID
	return params, nil
}

// ListCategories pages through categories, or returns the whole filtered set
// nested when tree=1.
func (h *Handler) ListCategories(c *gin.Context) {
	params, err := categoryListParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if queryFlag(c, "tree") {
		tree, err := h.Categories.Tree(c.Request.Context(), params)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, Response{
			Success: true,
			Data:    tree,
			Meta:    gin.H{"total": models.Count(tree)},
		})
		return
	}

	page, err := h.Categories.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	respondPage(c, page)
}

func (h *Handler) GetCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	category, err := h.Categories.Get(c.Request.Context(), id, queryFlag(c, "includeDeleted"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, category)
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req store.CategoryInput
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.Categories.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, category)
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var patch store.CategoryPatch
	if !bindJSON(c, &patch) {
		return
	}

	category, err := h.Categories.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, category)
}

func (h *Handler) UpdateCategoryStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.Categories.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, category)
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req deleteRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	deletedAt, err := h.Categories.Delete(c.Request.Context(), id, req.DeletedByID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Category deleted",
		Meta:    DeleteMeta{DeletedAt: deletedAt, DeletedBy: req.DeletedByID},
	})
}

func (h *Handler) BulkEditCategories(c *gin.Context) {
	var req store.BulkRequest
	if !bindJSON(c, &req) {
		return
	}

	affected, err := h.Categories.Bulk(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondBulk(c, affected, "categories")
}
