package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/safar/shop-admin/internal/database"
	"github.com/safar/shop-admin/internal/slug"
	"github.com/safar/shop-admin/internal/store"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Meta    any    `json:"meta,omitempty"`
}

type ListMeta struct {
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	Total      int64  `json:"total"`
	TotalPages int    `json:"totalPages"`
	Sort       string `json:"sort"`
}

type DeleteMeta struct {
	DeletedAt time.Time `json:"deletedAt"`
	DeletedBy *int64    `json:"deletedBy"`
}

func respondJSON(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Success: true, Data: data})
}

func respondPage[T any](c *gin.Context, page *store.OffsetPage[T]) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    page.Items,
		Meta: ListMeta{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      page.Total,
			TotalPages: page.TotalPages,
			Sort:       page.Sort,
		},
	})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{Success: status < http.StatusBadRequest, Message: message})
}

// respondError maps store and database errors onto HTTP statuses. Anything
// unrecognized is logged in full and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	status, message := errorStatus(err)
	if status == http.StatusInternalServerError {
		loggerFrom(c).Error("request failed",
			"error", err,
			"method", c.Request.Method,
			"path", c.FullPath(),
		)
	}
	respondMessage(c, status, message)
}

var notFoundMessages = []struct {
	err     error
	message string
}{
	{database.ErrProductNotFound, "Product not found"},
	{database.ErrCategoryNotFound, "Category not found"},
	{database.ErrUserNotFound, "User not found"},
	{database.ErrRoleNotFound, "Role not found"},
}

func errorStatus(err error) (int, string) {
	for _, nf := range notFoundMessages {
		if errors.Is(err, nf.err) {
			return http.StatusNotFound, nf.message
		}
	}

	var validation *store.ValidationError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Message
	case errors.Is(err, store.ErrEmailTaken):
		return http.StatusConflict, "Email already in use"
	case errors.Is(err, slug.ErrExhausted):
		return http.StatusConflict, "Could not generate a unique slug"
	case database.IsUniqueViolation(err, ""):
		return http.StatusConflict, "Record already exists"
	case database.IsForeignKeyViolation(err):
		return http.StatusBadRequest, "Referenced record does not exist"
	}

	return http.StatusInternalServerError, "Internal server error"
}

func loggerFrom(c *gin.Context) *slog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if logger, ok := v.(*slog.Logger); ok {
			return logger
		}
	}
	return slog.Default()
}
