package models

import (
	"time"

	"gorm.io/datatypes"
)

// Download kinds. CategoryPosts is reserved: the ledger enum keeps it even
// though no endpoint emits it yet.
const (
	HistoricalPosts = "historical_posts"
	UserPosts       = "user_posts"
	CategoryPosts   = "category_posts"
)

// Supported export formats. The set is closed; see export.Render.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXML  = "xml"
)

// DownloadLog is one ledger entry per export attempt. A row is created in the
// pending state (CompletedAt nil) before any expensive work, then receives
// exactly one terminal update marking it successful or failed.
type DownloadLog struct {
	// Id is the opaque request identifier, generated at creation. It is the
	// value surfaced on 500 responses for support correlation.
	Id           string `gorm:"column:id;primaryKey"`
	UserID       string `gorm:"column:user_id;index:idx_download_logs_user"`
	User         *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	DownloadType string `gorm:"index:idx_download_logs_type"`
	FileFormat   string

	// Request details, captured for audit only. FiltersApplied is an opaque
	// snapshot of the raw request body and is never parsed back.
	IpAddress      string
	UserAgent      string
	FiltersApplied datatypes.JSONMap

	// Outcome, written by the single terminal update.
	TotalRecords          uint
	FileSizeBytes         uint
	ProcessingTimeSeconds float64
	IsSuccessful          bool
	ErrorMessage          string

	RequestedAt time.Time `gorm:"index:idx_download_logs_user;index:idx_download_logs_type"`
	CompletedAt *time.Time
}

// Pending reports whether the entry still awaits its terminal update.
func (d *DownloadLog) Pending() bool {
	return d.CompletedAt == nil
}
