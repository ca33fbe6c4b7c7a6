package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/safar/shop-admin/internal/store"
)

// parseID reads the :id path segment. A malformed id answers 400 and
// returns false.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondMessage(c, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// bindOptionalJSON accepts an empty body.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func listParams(c *gin.Context) store.ListParams {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return store.ListParams{
		Page:           page,
		Limit:          limit,
		Query:          c.Query("q"),
		Sort:           c.Query("sort"),
		IncludeDeleted: queryFlag(c, "includeDeleted"),
	}
}

func queryFlag(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}

// queryBool returns nil when key is absent.
func queryBool(c *gin.Context, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, &store.ValidationError{Message: "invalid " + key}
	}
	return &v, nil
}

// queryID returns nil when key is absent.
func queryID(c *gin.Context, key string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return nil, &store.ValidationError{Message: "invalid " + key}
	}
	return &v, nil
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

type deleteRequest struct {
	DeletedByID *int64 `json:"deleted_by_id"`
}
