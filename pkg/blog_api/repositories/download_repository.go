package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/models"
)

// UsageTotals is the raw aggregate the usage reporter builds its summary from.
type UsageTotals struct {
	TotalDownloads      int64
	SuccessfulDownloads int64
	FailedDownloads     int64
	TotalBytes          int64
	RecentDownloads     int64
}

type DownloadLogRepository interface {
	Create(ctx context.Context, log *models.DownloadLog) error
	// MarkCompleted applies the single terminal update for a successful export.
	MarkCompleted(ctx context.Context, log *models.DownloadLog, totalRecords uint, fileSize uint, processingTime float64) error
	// MarkFailed applies the single terminal update for a failed export.
	MarkFailed(ctx context.Context, log *models.DownloadLog, errorMessage string) error
	// ListByUser returns one page of a user's entries, newest first.
	ListByUser(ctx context.Context, userID string, page, perPage int) ([]models.DownloadLog, int64, error)
	// GetUsageTotals aggregates a user's ledger; recentSince bounds the
	// trailing-window count.
	GetUsageTotals(ctx context.Context, userID string, recentSince time.Time) (UsageTotals, error)
	// SweepStalePending fails pending entries requested before the cutoff.
	SweepStalePending(ctx context.Context, cutoff time.Time, message string) (int64, error)
	// PurgeOlderThan deletes entries requested before the cutoff.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type downloadLogRepository struct {
	db *gorm.DB
}

func NewDownloadLogRepository(db *gorm.DB) DownloadLogRepository {
	return &downloadLogRepository{db: db}
}

func (r *downloadLogRepository) Create(ctx context.Context, log *models.DownloadLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *downloadLogRepository) MarkCompleted(ctx context.Context, log *models.DownloadLog, totalRecords uint, fileSize uint, processingTime float64) error {
	now := time.Now().UTC()
	log.IsSuccessful = true
	log.TotalRecords = totalRecords
	log.FileSizeBytes = fileSize
	log.ProcessingTimeSeconds = processingTime
	log.CompletedAt = &now
	return r.db.WithContext(ctx).Model(log).Updates(map[string]interface{}{
		"is_successful":           true,
		"total_records":           totalRecords,
		"file_size_bytes":         fileSize,
		"processing_time_seconds": processingTime,
		"completed_at":            now,
	}).Error
}

func (r *downloadLogRepository) MarkFailed(ctx context.Context, log *models.DownloadLog, errorMessage string) error {
	now := time.Now().UTC()
	log.IsSuccessful = false
	log.ErrorMessage = errorMessage
	log.CompletedAt = &now
	return r.db.WithContext(ctx).Model(log).Updates(map[string]interface{}{
		"is_successful": false,
		"error_message": errorMessage,
		"completed_at":  now,
	}).Error
}

func (r *downloadLogRepository) ListByUser(ctx context.Context, userID string, page, perPage int) ([]models.DownloadLog, int64, error) {
	var total int64
	base := r.db.WithContext(ctx).Model(&models.DownloadLog{}).Where("user_id = ?", userID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.DownloadLog
	err := base.
		Order("requested_at DESC").Order("id DESC").
		Limit(perPage).Offset((page - 1) * perPage).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (r *downloadLogRepository) GetUsageTotals(ctx context.Context, userID string, recentSince time.Time) (UsageTotals, error) {
	var totals UsageTotals
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.DownloadLog{}).Where("user_id = ?", userID)
	}

	if err := base().Count(&totals.TotalDownloads).Error; err != nil {
		return UsageTotals{}, err
	}
	if err := base().Where("is_successful = ?", true).Count(&totals.SuccessfulDownloads).Error; err != nil {
		return UsageTotals{}, err
	}
	totals.FailedDownloads = totals.TotalDownloads - totals.SuccessfulDownloads

	err := base().Where("is_successful = ?", true).
		Select("COALESCE(SUM(file_size_bytes), 0)").
		Scan(&totals.TotalBytes).Error
	if err != nil {
		return UsageTotals{}, err
	}

	err = base().Where("requested_at >= ?", recentSince).Count(&totals.RecentDownloads).Error
	if err != nil {
		return UsageTotals{}, err
	}
	return totals, nil
}

func (r *downloadLogRepository) SweepStalePending(ctx context.Context, cutoff time.Time, message string) (int64, error) {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&models.DownloadLog{}).
		Where("completed_at IS NULL AND requested_at < ?", cutoff).
		Updates(map[string]interface{}{
			"is_successful": false,
			"error_message": message,
			"completed_at":  now,
		})
	return res.RowsAffected, res.Error
}

func (r *downloadLogRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("requested_at < ?", cutoff).
		Delete(&models.DownloadLog{})
	return res.RowsAffected, res.Error
}
