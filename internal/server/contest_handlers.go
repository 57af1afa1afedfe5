package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/contesthub/backend/internal/contests"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type contestPayload struct {
	contests.Contest
	Status contests.Status `json:"status"`
}

func (h *httpHandler) contestPayloads(items []contests.Contest) []contestPayload {
	now := h.clock()
	payloads := make([]contestPayload, 0, len(items))
	for _, contest := range items {
		payloads = append(payloads, contestPayload{Contest: contest, Status: contest.StatusAt(now)})
	}
	return payloads
}

func (h *httpHandler) handleListContests(c *gin.Context) {
	filter := contests.Filter{}

	if raw := c.Query("platform"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			platform, err := contests.ParsePlatform(part)
			if err != nil {
				respondError(c, http.StatusBadRequest, "invalid platform: "+strings.TrimSpace(part))
				return
			}
			filter.Platforms = append(filter.Platforms, platform)
		}
	}

	if raw := c.Query("status"); raw != "" {
		status, err := contests.ParseStatus(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid status: "+raw)
			return
		}
		filter.Status = status
	}

	filter.Search = c.Query("search")

	// A leading "-" on the sort field requests descending order.
	if raw := c.Query("sort"); raw != "" {
		filter.SortField = strings.TrimPrefix(raw, "-")
		filter.SortDesc = strings.HasPrefix(raw, "-")
	}

	page, ok := parsePositiveInt(c, "page", 1)
	if !ok {
		return
	}
	limit, ok := parsePositiveInt(c, "limit", contests.DefaultLimit)
	if !ok {
		return
	}
	filter.Page = page
	filter.Limit = limit

	items, pagination, err := h.contests.List(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, contests.ErrInvalidSort) {
			respondError(c, http.StatusBadRequest, "invalid sort field")
			return
		}
		h.logger.Error("contest listing failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to list contests")
		return
	}

	payloads := h.contestPayloads(items)
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"count":      len(payloads),
		"total":      pagination.Total,
		"pagination": pagination,
		"data":       payloads,
	})
}

func (h *httpHandler) handleGetContest(c *gin.Context) {
	contest, err := h.contests.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, contests.ErrNotFound) {
		respondError(c, http.StatusNotFound, "contest not found")
		return
	}
	if err != nil {
		h.logger.Error("contest lookup failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to load contest")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    contestPayload{Contest: contest, Status: contest.StatusAt(h.clock())},
	})
}

func (h *httpHandler) handleFetchContests(c *gin.Context) {
	report := h.ingestion.Run(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    report.Outcomes,
	})
}

// parsePositiveInt reads a 1-based integer query parameter, writing a 400
// response itself when the value is malformed.
func parsePositiveInt(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		respondError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return value, true
}
