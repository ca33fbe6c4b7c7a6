package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safar/shop-admin/internal/store"
)

func (h *Handler) ListUsers(c *gin.Context) {
	roleID, err := queryID(c, "role_id")
	if err != nil {
		respondError(c, err)
		return
	}

	page, err := h.Users.List(c.Request.Context(), store.UserListParams{
		ListParams: listParams(c),
		Status:     c.Query("status"),
		RoleID:     roleID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondPage(c, page)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.Users.Get(c.Request.Context(), id, queryFlag(c, "includeDeleted"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, user)
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req store.UserInput
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.Users.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, user)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var patch store.UserPatch
	if !bindJSON(c, &patch) {
		return
	}

	user, err := h.Users.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, user)
}

func (h *Handler) UpdateUserStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.Users.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, user)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	deletedAt, err := h.Users.Delete(c.Request.Context(), id, nil)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "User deleted",
		Meta:    DeleteMeta{DeletedAt: deletedAt},
	})
}

func (h *Handler) BulkEditUsers(c *gin.Context) {
	var req store.BulkRequest
	if !bindJSON(c, &req) {
		return
	}

	affected, err := h.Users.Bulk(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondBulk(c, affected, "users")
}
