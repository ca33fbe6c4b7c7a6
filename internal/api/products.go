package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safar/shop-admin/internal/store"
)

func productListParams(c *gin.Context) (store.ProductListParams, error) {
	featured, err := queryBool(c, "featured")
	if err != nil {
		return store.ProductListParams{}, err
	}
	categoryID, err := queryID(c, "category_id")
	if err != nil {
		return store.ProductListParams{}, err
	}
	return store.ProductListParams{
		ListParams: listParams(c),
		Status:     c.Query("status"),
		Featured:   featured,
		CategoryID: categoryID,
	}, nil
}

func (h *Handler) ListProducts(c *gin.Context) {
	params, err := productListParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	page, err := h.Products.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	respondPage(c, page)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	product, err := h.Products.Get(c.Request.Context(), id, queryFlag(c, "includeDeleted"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, product)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req store.ProductInput
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.Products.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, product)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var patch store.ProductPatch
	if !bindJSON(c, &patch) {
		return
	}

	product, err := h.Products.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, product)
}

func (h *Handler) UpdateProductStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.Products.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, product)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req deleteRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	deletedAt, err := h.Products.Delete(c.Request.Context(), id, req.DeletedByID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Product deleted",
		Meta:    DeleteMeta{DeletedAt: deletedAt, DeletedBy: req.DeletedByID},
	})
}

func (h *Handler) BulkEditProducts(c *gin.Context) {
	var req store.BulkRequest
	if !bindJSON(c, &req) {
		return
	}

	affected, err := h.Products.Bulk(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondBulk(c, affected, "products")
}

func respondBulk(c *gin.Context, affected int64, noun string) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: fmt.Sprintf("Updated %d %s", affected, noun),
		Data:    gin.H{"affected": affected},
	})
}
