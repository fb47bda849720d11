package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/export"
	problem "github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/helpers/problem"
	util "github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/helpers/util"
	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/models"
	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/repositories"
	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/serializers"
)

const (
	// MaxHistoricalRecords caps the historical export. The self-only export is
	// deliberately unbounded: a user's own corpus is trusted, third-party
	// aggregate export is not.
	MaxHistoricalRecords = 10000

	// RetryAfterSeconds is the hint returned with rate-limit errors.
	RetryAfterSeconds = 3600

	dateLayout = "2006-01-02"
)

// DownloadsAPIService orchestrates the export flows and the usage reporting
// over the download ledger.
type DownloadsAPIService struct {
	posts     repositories.PostRepository
	downloads repositories.DownloadLogRepository
	users     repositories.UserRepository

	// maxHistoricalRecords is MaxHistoricalRecords unless overridden in tests.
	maxHistoricalRecords int
}

func NewDownloadsAPIService(posts repositories.PostRepository, downloads repositories.DownloadLogRepository, users repositories.UserRepository) *DownloadsAPIService {
	return &DownloadsAPIService{
		posts:                posts,
		downloads:            downloads,
		users:                users,
		maxHistoricalRecords: MaxHistoricalRecords,
	}
}

// WithMaxHistoricalRecords overrides the export ceiling, for tests.
func (s *DownloadsAPIService) WithMaxHistoricalRecords(max int) *DownloadsAPIService {
	s.maxHistoricalRecords = max
	return s
}

// exportFlow parameterizes the shared export sequence: both endpoints run the
// exact same steps and differ only in kind, ceiling and record selection.
type exportFlow struct {
	kind           string
	filenamePrefix string
	maxRecords     int // 0 = unbounded
	filters        datatypes.JSONMap
	build          func(ctx context.Context) ([]models.BlogPost, error)
}

// DownloadHistoricalPosts exports everything visible to the user, subject to
// the optional filters and the record ceiling.
func (s *DownloadsAPIService) DownloadHistoricalPosts(ctx context.Context, user *models.User, params *models.HistoricalDownloadParams, meta models.RequestMeta) (*models.ExportFile, error) {
	format, err := normalizeFormat(params.Format)
	if err != nil {
		return nil, err
	}
	filters, err := s.resolveFilters(ctx, params)
	if err != nil {
		return nil, err
	}

	flow := exportFlow{
		kind:           models.HistoricalPosts,
		filenamePrefix: "historical_posts",
		maxRecords:     s.maxHistoricalRecords,
		filters: datatypes.JSONMap{
			"date_from":       params.DateFrom,
			"date_to":         params.DateTo,
			"format":          format,
			"include_private": params.IncludePrivate,
			"category":        params.Category,
		},
		build: func(ctx context.Context) ([]models.BlogPost, error) {
			return s.posts.FindExportablePosts(ctx, user, filters)
		},
	}
	return s.runExport(ctx, user, flow, format, meta)
}

// DownloadMyPosts exports the user's own posts, unfiltered and unbounded.
func (s *DownloadsAPIService) DownloadMyPosts(ctx context.Context, user *models.User, params *models.MyPostsDownloadParams, meta models.RequestMeta) (*models.ExportFile, error) {
	format, err := normalizeFormat(params.Format)
	if err != nil {
		return nil, err
	}

	flow := exportFlow{
		kind:           models.UserPosts,
		filenamePrefix: "my_posts",
		filters:        datatypes.JSONMap{"format": format},
		build: func(ctx context.Context) ([]models.BlogPost, error) {
			return s.posts.FindPostsByAuthor(ctx, user)
		},
	}
	return s.runExport(ctx, user, flow, format, meta)
}

// runExport is the shared orchestration sequence: rate check, ledger entry,
// record selection, size guard, rendering, ledger completion, cooldown update.
// Every failure past ledger creation is recorded on the entry; the client only
// ever sees the entry's request id, never the raw cause.
func (s *DownloadsAPIService) runExport(ctx context.Context, user *models.User, flow exportFlow, format string, meta models.RequestMeta) (*models.ExportFile, error) {
	start := time.Now()

	// Rate check happens before the ledger entry exists so blocked attempts
	// do not pile up as failed rows.
	if !user.CanDownload() {
		return nil, problem.NewTooManyRequests(
			"Download rate limit exceeded. Please wait before requesting another download.",
			RetryAfterSeconds,
		)
	}

	entry := &models.DownloadLog{
		Id:             uuid.New().String(),
		UserID:         user.Id,
		DownloadType:   flow.kind,
		FileFormat:     format,
		IpAddress:      meta.IpAddress,
		UserAgent:      meta.UserAgent,
		FiltersApplied: flow.filters,
		RequestedAt:    time.Now().UTC(),
	}
	if err := s.downloads.Create(ctx, entry); err != nil {
		return nil, err
	}

	posts, err := flow.build(ctx)
	if err != nil {
		return nil, s.failEntry(ctx, entry, err)
	}

	count := len(posts)
	if flow.maxRecords > 0 && count > flow.maxRecords {
		message := fmt.Sprintf("Too many records requested. Maximum allowed: %d", flow.maxRecords)
		if err := s.downloads.MarkFailed(ctx, entry, message); err != nil {
			log.Printf("[ERROR] could not finalize download log %s: %v", entry.Id, err)
		}
		return nil, problem.NewPayloadTooLarge(flow.maxRecords, count)
	}

	exportedAt := time.Now().UTC()
	content, contentType, extension, err := export.Render(format, serializers.SerializePosts(posts), exportedAt)
	if err != nil {
		return nil, s.failEntry(ctx, entry, err)
	}

	payload := []byte(content)
	elapsed := time.Since(start).Seconds()
	if err := s.downloads.MarkCompleted(ctx, entry, uint(count), uint(len(payload)), elapsed); err != nil {
		return nil, s.failEntry(ctx, entry, err)
	}

	// Both flows consume the hourly cooldown: they perform equivalent bulk
	// I/O. Tracking failures are logged, not surfaced; the export succeeded.
	if err := s.users.MarkDownloaded(ctx, user); err != nil {
		log.Printf("[WARN] could not update download tracking for user %s: %v", user.Id, err)
	}

	log.Printf("[INFO] user %s downloaded %d posts as %s in %.2fs", user.Username, count, format, elapsed)

	return &models.ExportFile{
		Filename:    fmt.Sprintf("%s_%s.%s", flow.filenamePrefix, exportedAt.Format("20060102_150405"), extension),
		ContentType: contentType,
		Content:     payload,
	}, nil
}

func (s *DownloadsAPIService) failEntry(ctx context.Context, entry *models.DownloadLog, cause error) error {
	log.Printf("[ERROR] download %s failed: %v", entry.Id, cause)
	if err := s.downloads.MarkFailed(ctx, entry, cause.Error()); err != nil {
		log.Printf("[ERROR] could not finalize download log %s: %v", entry.Id, err)
	}
	return problem.NewDownloadFailed(entry.Id)
}

// resolveFilters validates the date range and resolves the free-text category
// to a concrete id. An unmatched category is forgiven: the clause is dropped
// and a warning logged.
func (s *DownloadsAPIService) resolveFilters(ctx context.Context, params *models.HistoricalDownloadParams) (models.PostFilters, error) {
	filters := models.PostFilters{IncludePrivate: params.IncludePrivate}

	if params.DateFrom != "" {
		from, err := time.Parse(dateLayout, params.DateFrom)
		if err != nil {
			return filters, problem.NewBadRequest("date_from", "",
				problem.InvalidParam{Name: "date_from", Reason: "must be a date in the form YYYY-MM-DD"})
		}
		filters.DateFrom = &from
	}
	if params.DateTo != "" {
		to, err := time.Parse(dateLayout, params.DateTo)
		if err != nil {
			return filters, problem.NewBadRequest("date_to", "",
				problem.InvalidParam{Name: "date_to", Reason: "must be a date in the form YYYY-MM-DD"})
		}
		filters.DateTo = &to
	}
	if filters.DateFrom != nil && filters.DateTo != nil && filters.DateFrom.After(*filters.DateTo) {
		return filters, problem.NewBadRequest("date_from", "",
			problem.InvalidParam{Name: "date_from", Reason: "date_from cannot be after date_to"})
	}

	if params.Category != "" {
		category, err := s.posts.FindCategoryByName(ctx, params.Category)
		if err != nil {
			return filters, err
		}
		if category == nil {
			log.Printf("[WARN] category not found: %s", params.Category)
		} else {
			filters.CategoryID = &category.Id
		}
	}
	return filters, nil
}

// GetUsageStats aggregates the user's ledger into the usage summary and one
// page of history, newest first.
func (s *DownloadsAPIService) GetUsageStats(ctx context.Context, user *models.User, page, perPage int) (*models.DownloadUsageResponse, models.Pagination, error) {
	logs, total, err := s.downloads.ListByUser(ctx, user.Id, page, perPage)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	recentSince := time.Now().UTC().AddDate(0, 0, -30)
	totals, err := s.downloads.GetUsageTotals(ctx, user.Id, recentSince)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	stats := models.UsageStats{
		TotalDownloads:        totals.TotalDownloads,
		SuccessfulDownloads:   totals.SuccessfulDownloads,
		FailedDownloads:       totals.FailedDownloads,
		TotalDataDownloadedMb: round2(float64(totals.TotalBytes) / (1024 * 1024)),
		RecentDownloads30Days: totals.RecentDownloads,
		CanDownloadNow:        user.CanDownload(),
	}
	if totals.TotalDownloads > 0 {
		stats.SuccessRate = round2(float64(totals.SuccessfulDownloads) / float64(totals.TotalDownloads) * 100)
	}
	if user.LastDownload != nil {
		last := user.LastDownload.Format(time.RFC3339)
		stats.LastDownload = &last
	}

	results := serializers.SerializeDownloadLogs(logs)
	for i := range results {
		results[i].UserEmail = user.Email
	}

	pagination := util.BuildPagination(page, perPage, int(total))
	return &models.DownloadUsageResponse{
		Results:    results,
		Pagination: pagination,
		UsageStats: stats,
	}, pagination, nil
}

func normalizeFormat(format string) (string, error) {
	switch format {
	case "":
		return models.FormatJSON, nil
	case models.FormatJSON, models.FormatCSV, models.FormatXML:
		return format, nil
	default:
		return "", problem.NewBadRequest("format", "",
			problem.InvalidParam{
				Name:   "format",
				Reason: fmt.Sprintf("unsupported format %q. Supported formats: json, csv, xml", format),
			})
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
