package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safar/shop-admin/internal/store"
)

func (h *Handler) ListRoles(c *gin.Context) {
	page, err := h.Roles.List(c.Request.Context(), listParams(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondPage(c, page)
}

func (h *Handler) GetRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	role, err := h.Roles.Get(c.Request.Context(), id, queryFlag(c, "includeDeleted"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, role)
}

func (h *Handler) CreateRole(c *gin.Context) {
	var req store.RoleInput
	if !bindJSON(c, &req) {
		return
	}

	role, err := h.Roles.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, role)
}

func (h *Handler) UpdateRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var patch store.RolePatch
	if !bindJSON(c, &patch) {
		return
	}

	role, err := h.Roles.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, role)
}

func (h *Handler) DeleteRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	deletedAt, err := h.Roles.Delete(c.Request.Context(), id, nil)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Role deleted",
		Meta:    DeleteMeta{DeletedAt: deletedAt},
	})
}
