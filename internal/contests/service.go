package contests

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	errMissingDatabase   = errors.New("database handle is required")
	errMissingIDProvider = errors.New("id provider is required")
	// ErrNotFound indicates no contest exists for the requested identifier.
	ErrNotFound = errors.New("contests: contest not found")
	// ErrInvalidSort indicates an unrecognized sort field.
	ErrInvalidSort = errors.New("contests: invalid sort field")
	noOpLogger     = zap.NewNop()
)

// ServiceError carries a stable operation.reason code alongside the cause.
type ServiceError struct {
	code string
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

func (e *ServiceError) Code() string {
	return e.code
}

const (
	opServiceNew  = "contests.service.new"
	opUpsertBatch = "contests.upsert_batch"
	opList        = "contests.list"
	opGet         = "contests.get"
	opAllPlatform = "contests.all_by_platform"
)

func newServiceError(operation, reason string, cause error) error {
	code := fmt.Sprintf("%s.%s", operation, reason)
	return &ServiceError{code: code, err: cause}
}

// IDProvider issues identifiers for newly inserted contests.
type IDProvider interface {
	NewID() (string, error)
}

// ServiceConfig describes the dependencies of the contest store service.
type ServiceConfig struct {
	Database   *gorm.DB
	Clock      func() time.Time
	IDProvider IDProvider
	Logger     *zap.Logger
}

// Service owns reads and keyed upserts over the contest collection. Ingestion
// is its only writer; the query surface is read-only.
type Service struct {
	db         *gorm.DB
	clock      func() time.Time
	idProvider IDProvider
	logger     *zap.Logger
}

// NewService validates dependencies and constructs the contest service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, newServiceError(opServiceNew, "missing_database", errMissingDatabase)
	}
	if cfg.IDProvider == nil {
		return nil, newServiceError(opServiceNew, "missing_id_provider", errMissingIDProvider)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	return &Service{
		db:         cfg.Database,
		clock:      clock,
		idProvider: cfg.IDProvider,
		logger:     logger,
	}, nil
}

// DefaultLimit is the page size used when the caller does not specify one.
const DefaultLimit = 100

const maxLimit = 500

// Filter narrows and orders a contest listing.
type Filter struct {
	Platforms []Platform
	Status    Status
	Search    string
	SortField string
	SortDesc  bool
	Page      int
	Limit     int
}

// Pagination describes the window a listing returned.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

var sortColumns = map[string]string{
	"":          "start_time_s",
	"startTime": "start_time_s",
	"name":      "name",
	"duration":  "duration_minutes",
}

// UpsertBatch writes normalized contests by reconciliation key. Records with
// a known (platform, platform_contest_id) are fully overwritten in place;
// unseen keys insert. Duplicate keys within the batch collapse to the first
// occurrence. Re-running with identical input leaves the store unchanged
// apart from the natural overwrite.
func (s *Service) UpsertBatch(ctx context.Context, batch []Contest) (int, error) {
	deduped := make([]Contest, 0, len(batch))
	seen := make(map[string]struct{}, len(batch))
	for _, contest := range batch {
		if contest.PlatformContestID == "" || contest.Name == "" {
			continue
		}
		if _, ok := seen[contest.Key()]; ok {
			continue
		}
		seen[contest.Key()] = struct{}{}
		deduped = append(deduped, contest)
	}
	if len(deduped) == 0 {
		return 0, nil
	}

	now := s.clock().UTC().Unix()
	for i := range deduped {
		id, err := s.idProvider.NewID()
		if err != nil {
			s.logError(opUpsertBatch, "id_generation_failed", err)
			return 0, newServiceError(opUpsertBatch, "id_generation_failed", err)
		}
		deduped[i].ContestID = id
		deduped[i].CreatedAtSeconds = now
		deduped[i].UpdatedAtSeconds = now
	}

	// The surrogate id and created_at of an existing row survive overwrite.
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "platform"}, {Name: "platform_contest_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "url", "start_time_s", "end_time_s", "duration_minutes", "updated_at_s",
		}),
	}).Create(&deduped).Error
	if err != nil {
		s.logError(opUpsertBatch, "upsert_failed", err)
		return 0, newServiceError(opUpsertBatch, "upsert_failed", err)
	}

	return len(deduped), nil
}

// List answers a filtered, paginated, sorted read over the contest store.
// Status is derived from the service clock at query time. An out-of-range
// page yields an empty item list with consistent pagination metadata.
func (s *Service) List(ctx context.Context, filter Filter) ([]Contest, Pagination, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	column, ok := sortColumns[filter.SortField]
	if !ok {
		return nil, Pagination{}, newServiceError(opList, "invalid_sort_field",
			fmt.Errorf("%w: %q", ErrInvalidSort, filter.SortField))
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	query := s.db.WithContext(ctx).Model(&Contest{})
	if len(filter.Platforms) > 0 {
		query = query.Where("platform IN ?", filter.Platforms)
	}
	now := s.clock().UTC().Unix()
	switch filter.Status {
	case StatusUpcoming:
		query = query.Where("start_time_s > ?", now)
	case StatusOngoing:
		query = query.Where("start_time_s <= ? AND end_time_s >= ?", now, now)
	case StatusPast:
		query = query.Where("end_time_s < ?", now)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		s.logError(opList, "count_failed", err)
		return nil, Pagination{}, newServiceError(opList, "count_failed", err)
	}

	var items []Contest
	err := query.Order(column + " " + direction).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		s.logError(opList, "query_failed", err)
		return nil, Pagination{}, newServiceError(opList, "query_failed", err)
	}

	pagination := Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
	}
	return items, pagination, nil
}

// Get returns one contest by surrogate identifier.
func (s *Service) Get(ctx context.Context, contestID string) (Contest, error) {
	var contest Contest
	err := s.db.WithContext(ctx).
		Where("contest_id = ?", contestID).
		Take(&contest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Contest{}, ErrNotFound
	}
	if err != nil {
		s.logError(opGet, "query_failed", err, zap.String("contest_id", contestID))
		return Contest{}, newServiceError(opGet, "query_failed", err)
	}
	return contest, nil
}

// AllByPlatform returns every stored contest for one platform in insertion
// order. The video matcher scans this set.
func (s *Service) AllByPlatform(ctx context.Context, platform Platform) ([]Contest, error) {
	var items []Contest
	err := s.db.WithContext(ctx).
		Where("platform = ?", platform).
		Order("created_at_s ASC, contest_id ASC").
		Find(&items).Error
	if err != nil {
		s.logError(opAllPlatform, "query_failed", err, zap.String("platform", platform.String()))
		return nil, newServiceError(opAllPlatform, "query_failed", err)
	}
	return items, nil
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.logger.Error("contests service error", attrs...)
}
