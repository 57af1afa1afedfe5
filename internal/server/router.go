package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/contesthub/backend/internal/bookmarks"
	"github.com/contesthub/backend/internal/contests"
	"github.com/contesthub/backend/internal/ingest"
	"github.com/contesthub/backend/internal/solutions"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	errMissingContestsService  = errors.New("contests service dependency required")
	errMissingBookmarksService = errors.New("bookmarks service dependency required")
	errMissingSolutionsService = errors.New("solutions service dependency required")
	errMissingIngestionRunner  = errors.New("ingestion runner dependency required")
	errMissingVideoMatcher     = errors.New("video matcher dependency required")
)

// IngestionRunner triggers one synchronous ingestion run.
type IngestionRunner interface {
	Run(ctx context.Context) ingest.Report
}

// VideoMatcher triggers one video-to-contest matching pass.
type VideoMatcher interface {
	FetchAndMatch(ctx context.Context) (int, error)
}

// Dependencies wires the HTTP surface to the domain services.
type Dependencies struct {
	Contests   *contests.Service
	Bookmarks  *bookmarks.Service
	Solutions  *solutions.Service
	Ingestion  IngestionRunner
	Videos     VideoMatcher
	AdminToken string
	Clock      func() time.Time
	Logger     *zap.Logger
}

// NewHTTPHandler builds the REST surface consumed by the web client.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Contests == nil {
		return nil, errMissingContestsService
	}
	if deps.Bookmarks == nil {
		return nil, errMissingBookmarksService
	}
	if deps.Solutions == nil {
		return nil, errMissingSolutionsService
	}
	if deps.Ingestion == nil {
		return nil, errMissingIngestionRunner
	}
	if deps.Videos == nil {
		return nil, errMissingVideoMatcher
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		contests:   deps.Contests,
		bookmarks:  deps.Bookmarks,
		solutions:  deps.Solutions,
		ingestion:  deps.Ingestion,
		videos:     deps.Videos,
		adminToken: deps.AdminToken,
		clock:      clock,
		logger:     logger,
	}

	router.GET("/contests", handler.handleListContests)
	router.GET("/contests/:id", handler.handleGetContest)
	router.GET("/bookmarks", handler.handleListBookmarks)
	router.POST("/bookmarks", handler.handleAddBookmark)
	router.DELETE("/bookmarks/:id", handler.handleRemoveBookmark)
	router.GET("/solutions/contest/:contestId", handler.handleGetSolution)
	router.POST("/solutions", handler.handleAddSolution)

	privileged := router.Group("/")
	privileged.Use(handler.requireAdminToken)
	privileged.POST("/contests/fetch", handler.handleFetchContests)
	privileged.POST("/solutions/fetch", handler.handleFetchSolutions)

	return router, nil
}

type httpHandler struct {
	contests   *contests.Service
	bookmarks  *bookmarks.Service
	solutions  *solutions.Service
	ingestion  IngestionRunner
	videos     VideoMatcher
	adminToken string
	clock      func() time.Time
	logger     *zap.Logger
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// requireAdminToken guards the privileged trigger endpoints with the static
// bearer token from configuration. Authentication proper lives outside this
// service.
func (h *httpHandler) requireAdminToken(c *gin.Context) {
	if h.adminToken == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "admin endpoints disabled"})
		return
	}
	header := c.GetHeader("Authorization")
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if !strings.HasPrefix(header, "Bearer ") || token != h.adminToken {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}
	c.Next()
}
