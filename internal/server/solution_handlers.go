package server

import (
	"errors"
	"net/http"

	"github.com/contesthub/backend/internal/solutions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type addSolutionPayload struct {
	ContestID string `json:"contestId"`
	VideoURL  string `json:"videoUrl"`
	VideoID   string `json:"videoId"`
	AddedBy   string `json:"addedBy"`
}

func (h *httpHandler) handleGetSolution(c *gin.Context) {
	solution, err := h.solutions.GetByContest(c.Request.Context(), c.Param("contestId"))
	if errors.Is(err, solutions.ErrNotFound) {
		respondError(c, http.StatusNotFound, "no solution found for this contest")
		return
	}
	if err != nil {
		h.logger.Error("solution lookup failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to load solution")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    solution,
	})
}

func (h *httpHandler) handleAddSolution(c *gin.Context) {
	var payload addSolutionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	solution, err := h.solutions.Create(c.Request.Context(), solutions.CreateRequest{
		ContestID: payload.ContestID,
		VideoURL:  payload.VideoURL,
		VideoID:   payload.VideoID,
		AddedBy:   payload.AddedBy,
	})
	switch {
	case errors.Is(err, solutions.ErrMissingContestID),
		errors.Is(err, solutions.ErrMissingVideoURL),
		errors.Is(err, solutions.ErrMissingAddedBy):
		respondError(c, http.StatusBadRequest, "contestId, videoUrl and addedBy are required")
		return
	case errors.Is(err, solutions.ErrContestNotFound):
		respondError(c, http.StatusNotFound, "contest not found")
		return
	case errors.Is(err, solutions.ErrDuplicate):
		respondError(c, http.StatusBadRequest, "contest already has a solution")
		return
	case err != nil:
		h.logger.Error("solution create failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to create solution")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    solution,
	})
}

func (h *httpHandler) handleFetchSolutions(c *gin.Context) {
	matched, err := h.videos.FetchAndMatch(c.Request.Context())
	if err != nil {
		h.logger.Error("video matching failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to match solution videos")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"matched": matched},
	})
}
