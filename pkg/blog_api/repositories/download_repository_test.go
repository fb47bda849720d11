package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/models"
	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/repositories"
)

func pendingLog(userID, id string) *models.DownloadLog {
	return &models.DownloadLog{
		Id:             id,
		UserID:         userID,
		DownloadType:   models.HistoricalPosts,
		FileFormat:     models.FormatJSON,
		IpAddress:      "203.0.113.7",
		UserAgent:      "test-agent",
		FiltersApplied: datatypes.JSONMap{"format": "json"},
		RequestedAt:    time.Now().UTC(),
	}
}

func TestDownloadLog_Lifecycle(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewDownloadLogRepository(db)
	seedUser(t, db, "alice", "alice@example.com")

	entry := pendingLog("alice", "dl1")
	require.NoError(t, repo.Create(context.Background(), entry))
	assert.True(t, entry.Pending())
	assert.False(t, entry.IsSuccessful)

	var stored models.DownloadLog
	require.NoError(t, db.First(&stored, "id = ?", "dl1").Error)
	assert.Nil(t, stored.CompletedAt)

	require.NoError(t, repo.MarkCompleted(context.Background(), entry, 42, 1024, 0.5))
	assert.False(t, entry.Pending())

	require.NoError(t, db.First(&stored, "id = ?", "dl1").Error)
	require.NotNil(t, stored.CompletedAt)
	assert.True(t, stored.IsSuccessful)
	assert.Equal(t, uint(42), stored.TotalRecords)
	assert.Equal(t, uint(1024), stored.FileSizeBytes)
	assert.InDelta(t, 0.5, stored.ProcessingTimeSeconds, 1e-9)
	assert.Empty(t, stored.ErrorMessage)
}

func TestDownloadLog_MarkFailed(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewDownloadLogRepository(db)
	seedUser(t, db, "alice", "alice@example.com")

	entry := pendingLog("alice", "dl1")
	require.NoError(t, repo.Create(context.Background(), entry))
	require.NoError(t, repo.MarkFailed(context.Background(), entry, "query exploded"))

	var stored models.DownloadLog
	require.NoError(t, db.First(&stored, "id = ?", "dl1").Error)
	require.NotNil(t, stored.CompletedAt)
	assert.False(t, stored.IsSuccessful)
	assert.Equal(t, "query exploded", stored.ErrorMessage)
}

func TestDownloadLog_ListByUser(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewDownloadLogRepository(db)
	seedUser(t, db, "alice", "alice@example.com")
	seedUser(t, db, "bob", "bob@example.com")

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"a1", "a2", "a3"} {
		entry := pendingLog("alice", id)
		entry.RequestedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.Create(context.Background(), entry))
	}
	require.NoError(t, repo.Create(context.Background(), pendingLog("bob", "b1")))

	logs, total, err := repo.ListByUser(context.Background(), "alice", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, logs, 2)
	assert.Equal(t, "a3", logs[0].Id, "newest first")
	assert.Equal(t, "a2", logs[1].Id)

	logs, _, err = repo.ListByUser(context.Background(), "alice", 2, 2)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "a1", logs[0].Id)
}

func TestDownloadLog_UsageTotals(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewDownloadLogRepository(db)
	seedUser(t, db, "alice", "alice@example.com")

	ctx := context.Background()

	ok1 := pendingLog("alice", "ok1")
	require.NoError(t, repo.Create(ctx, ok1))
	require.NoError(t, repo.MarkCompleted(ctx, ok1, 10, 100, 0.1))

	ok2 := pendingLog("alice", "ok2")
	require.NoError(t, repo.Create(ctx, ok2))
	require.NoError(t, repo.MarkCompleted(ctx, ok2, 20, 200, 0.2))

	bad := pendingLog("alice", "bad")
	require.NoError(t, repo.Create(ctx, bad))
	require.NoError(t, repo.MarkFailed(ctx, bad, "boom"))

	// An old entry outside the trailing window.
	old := pendingLog("alice", "old")
	old.RequestedAt = time.Now().UTC().AddDate(0, 0, -45)
	require.NoError(t, repo.Create(ctx, old))
	require.NoError(t, repo.MarkFailed(ctx, old, "stale"))

	totals, err := repo.GetUsageTotals(ctx, "alice", time.Now().UTC().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(4), totals.TotalDownloads)
	assert.Equal(t, int64(2), totals.SuccessfulDownloads)
	assert.Equal(t, int64(2), totals.FailedDownloads)
	assert.Equal(t, int64(300), totals.TotalBytes, "failed downloads do not count")
	assert.Equal(t, int64(3), totals.RecentDownloads)
}

func TestDownloadLog_SweepAndPurge(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewDownloadLogRepository(db)
	seedUser(t, db, "alice", "alice@example.com")

	ctx := context.Background()
	now := time.Now().UTC()

	stale := pendingLog("alice", "stale")
	stale.RequestedAt = now.Add(-2 * time.Hour)
	require.NoError(t, repo.Create(ctx, stale))

	fresh := pendingLog("alice", "fresh")
	require.NoError(t, repo.Create(ctx, fresh))

	ancient := pendingLog("alice", "ancient")
	ancient.RequestedAt = now.AddDate(-1, 0, 0)
	require.NoError(t, repo.Create(ctx, ancient))
	require.NoError(t, repo.MarkFailed(ctx, ancient, "old failure"))

	swept, err := repo.SweepStalePending(ctx, now.Add(-time.Hour), "request did not complete")
	require.NoError(t, err)
	assert.Equal(t, int64(1), swept)

	var stored models.DownloadLog
	require.NoError(t, db.First(&stored, "id = ?", "stale").Error)
	require.NotNil(t, stored.CompletedAt)
	assert.False(t, stored.IsSuccessful)
	assert.Equal(t, "request did not complete", stored.ErrorMessage)

	stored = models.DownloadLog{}
	require.NoError(t, db.First(&stored, "id = ?", "fresh").Error)
	assert.Nil(t, stored.CompletedAt, "fresh pending entry untouched")

	purged, err := repo.PurgeOlderThan(ctx, now.AddDate(0, -6, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	var count int64
	require.NoError(t, db.Model(&models.DownloadLog{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestUserRepository_MarkDownloaded(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewUserRepository(db)
	user := seedUser(t, db, "alice", "alice@example.com")

	require.Nil(t, user.LastDownload)
	require.NoError(t, repo.MarkDownloaded(context.Background(), user))

	assert.NotNil(t, user.LastDownload)
	assert.Equal(t, uint(1), user.DownloadCount)

	stored, err := repo.GetUserByID(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotNil(t, stored.LastDownload)
	assert.Equal(t, uint(1), stored.DownloadCount)
	assert.False(t, stored.CanDownload(), "cooldown engaged after download")

	require.NoError(t, repo.MarkDownloaded(context.Background(), stored))
	stored, err = repo.GetUserByID(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, uint(2), stored.DownloadCount, "lifetime counter is monotonic")
}

func TestUserRepository_GetUserByEmail(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewUserRepository(db)
	seedUser(t, db, "alice", "alice@example.com")

	user, err := repo.GetUserByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Id)

	missing, err := repo.GetUserByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
