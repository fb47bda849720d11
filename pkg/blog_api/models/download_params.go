package models

import "time"

// HistoricalDownloadParams is the request body for POST /downloads/historical-posts.
// Dates use the YYYY-MM-DD form; bounds are inclusive on publication date.
type HistoricalDownloadParams struct {
	DateFrom       string `json:"date_from,omitempty" binding:"omitempty,datetime=2006-01-02"`
	DateTo         string `json:"date_to,omitempty" binding:"omitempty,datetime=2006-01-02"`
	Format         string `json:"format,omitempty" binding:"omitempty,oneof=json csv xml"`
	IncludePrivate bool   `json:"include_private,omitempty"`
	Category       string `json:"category,omitempty"`
}

// MyPostsDownloadParams is the request body for POST /downloads/my-posts.
type MyPostsDownloadParams struct {
	Format string `json:"format,omitempty" binding:"omitempty,oneof=json csv xml"`
}

// PostFilters is the validated filter set handed to the post repository. The
// free-text category filter is resolved to CategoryID by the orchestrator; an
// unmatched category leaves it nil.
type PostFilters struct {
	DateFrom       *time.Time
	DateTo         *time.Time
	CategoryID     *string
	IncludePrivate bool
}

// ExportFile is a rendered payload ready to be served as an attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// UsageStatsParams carries the pagination query for GET /downloads/usage-stats.
type UsageStatsParams struct {
	Page    int `query:"page"`
	PerPage int `query:"perPage"`
}

// UsageStats summarizes a user's ledger history.
type UsageStats struct {
	TotalDownloads        int64   `json:"total_downloads"`
	SuccessfulDownloads   int64   `json:"successful_downloads"`
	FailedDownloads       int64   `json:"failed_downloads"`
	SuccessRate           float64 `json:"success_rate"`
	TotalDataDownloadedMb float64 `json:"total_data_downloaded_mb"`
	RecentDownloads30Days int64   `json:"recent_downloads_30_days"`
	LastDownload          *string `json:"last_download"`
	CanDownloadNow        bool    `json:"can_download_now"`
}

// DownloadLogResponse is the external view of one ledger entry.
type DownloadLogResponse struct {
	RequestId             string  `json:"request_id"`
	UserEmail             string  `json:"user_email"`
	DownloadType          string  `json:"download_type"`
	FileFormat            string  `json:"file_format"`
	TotalRecords          uint    `json:"total_records"`
	FileSizeBytes         uint    `json:"file_size_bytes"`
	FileSizeDisplay       string  `json:"file_size_display"`
	ProcessingTimeSeconds float64 `json:"processing_time_seconds"`
	ProcessingTimeDisplay string  `json:"processing_time_display"`
	IsSuccessful          bool    `json:"is_successful"`
	ErrorMessage          string  `json:"error_message,omitempty"`
	RequestedAt           string  `json:"requested_at"`
	CompletedAt           *string `json:"completed_at"`
}

// DownloadUsageResponse is the body of GET /downloads/usage-stats.
type DownloadUsageResponse struct {
	Results    []DownloadLogResponse `json:"results"`
	Pagination Pagination            `json:"pagination"`
	UsageStats UsageStats            `json:"usage_stats"`
}

// Pagination mirrors the listing metadata also emitted as response headers.
type Pagination struct {
	Next           *int `json:"next,omitempty"`
	Previous       *int `json:"previous,omitempty"`
	CurrentPage    int  `json:"currentPage"`
	RecordsPerPage int  `json:"recordsPerPage"`
	TotalPages     int  `json:"totalPages"`
	TotalRecords   int  `json:"totalRecords"`
}

// RequestMeta is the client metadata captured on every ledger entry.
type RequestMeta struct {
	IpAddress string
	UserAgent string
}
