package server

import (
	"errors"
	"net/http"

	"github.com/contesthub/backend/internal/bookmarks"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type addBookmarkPayload struct {
	UserID    string `json:"userId"`
	ContestID string `json:"contestId"`
}

func (h *httpHandler) handleListBookmarks(c *gin.Context) {
	items, err := h.bookmarks.List(c.Request.Context(), c.Query("userId"))
	if errors.Is(err, bookmarks.ErrMissingUserID) {
		respondError(c, http.StatusBadRequest, "userId is required")
		return
	}
	if err != nil {
		h.logger.Error("bookmark listing failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to list bookmarks")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(items),
		"data":    items,
	})
}

func (h *httpHandler) handleAddBookmark(c *gin.Context) {
	var payload addBookmarkPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	bookmark, err := h.bookmarks.Add(c.Request.Context(), payload.UserID, payload.ContestID)
	switch {
	case errors.Is(err, bookmarks.ErrMissingUserID), errors.Is(err, bookmarks.ErrMissingContestID):
		respondError(c, http.StatusBadRequest, "userId and contestId are required")
		return
	case errors.Is(err, bookmarks.ErrContestNotFound):
		respondError(c, http.StatusNotFound, "contest not found")
		return
	case errors.Is(err, bookmarks.ErrDuplicate):
		respondError(c, http.StatusBadRequest, "contest already bookmarked")
		return
	case err != nil:
		h.logger.Error("bookmark create failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to create bookmark")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    bookmark,
	})
}

func (h *httpHandler) handleRemoveBookmark(c *gin.Context) {
	err := h.bookmarks.Remove(c.Request.Context(), c.Param("id"), c.Query("userId"))
	switch {
	case errors.Is(err, bookmarks.ErrNotFound):
		respondError(c, http.StatusNotFound, "bookmark not found")
		return
	case errors.Is(err, bookmarks.ErrNotOwner):
		respondError(c, http.StatusUnauthorized, "not authorized to delete this bookmark")
		return
	case err != nil:
		h.logger.Error("bookmark delete failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to delete bookmark")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{},
	})
}
