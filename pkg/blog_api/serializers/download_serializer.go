package serializers

import (
	"fmt"
	"time"

	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/models"
)

// SerializeDownloadLog builds the external view of one ledger entry.
func SerializeDownloadLog(log models.DownloadLog) models.DownloadLogResponse {
	out := models.DownloadLogResponse{
		RequestId:             log.Id,
		DownloadType:          log.DownloadType,
		FileFormat:            log.FileFormat,
		TotalRecords:          log.TotalRecords,
		FileSizeBytes:         log.FileSizeBytes,
		FileSizeDisplay:       FileSizeDisplay(log.FileSizeBytes),
		ProcessingTimeSeconds: log.ProcessingTimeSeconds,
		ProcessingTimeDisplay: ProcessingTimeDisplay(log.ProcessingTimeSeconds),
		IsSuccessful:          log.IsSuccessful,
		ErrorMessage:          log.ErrorMessage,
		RequestedAt:           log.RequestedAt.Format(time.RFC3339),
	}
	if log.User != nil {
		out.UserEmail = log.User.Email
	}
	if log.CompletedAt != nil {
		completed := log.CompletedAt.Format(time.RFC3339)
		out.CompletedAt = &completed
	}
	return out
}

func SerializeDownloadLogs(logs []models.DownloadLog) []models.DownloadLogResponse {
	out := make([]models.DownloadLogResponse, len(logs))
	for i, log := range logs {
		out[i] = SerializeDownloadLog(log)
	}
	return out
}

// ProcessingTimeDisplay renders a duration for humans: "N/A" for zero,
// milliseconds under a second, then seconds, then minutes.
func ProcessingTimeDisplay(seconds float64) string {
	if seconds == 0 {
		return "N/A"
	}
	if seconds < 1 {
		return fmt.Sprintf("%.0fms", seconds*1000)
	}
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}
	minutes := int(seconds) / 60
	remaining := seconds - float64(minutes*60)
	return fmt.Sprintf("%dm %.0fs", minutes, remaining)
}

// FileSizeDisplay renders a byte count for humans: "N/A" for zero, otherwise
// the largest unit that keeps the value under 1024.
func FileSizeDisplay(bytes uint) string {
	if bytes == 0 {
		return "N/A"
	}
	size := float64(bytes)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024.0 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024.0
	}
	return fmt.Sprintf("%.1f TB", size)
}
