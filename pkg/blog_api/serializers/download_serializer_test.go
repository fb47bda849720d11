package serializers_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/models"
	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/serializers"
)

func TestProcessingTimeDisplay(t *testing.T) {
	assert.Equal(t, "N/A", serializers.ProcessingTimeDisplay(0))
	assert.Equal(t, "250ms", serializers.ProcessingTimeDisplay(0.25))
	assert.Equal(t, "1.5s", serializers.ProcessingTimeDisplay(1.5))
	assert.Equal(t, "59.9s", serializers.ProcessingTimeDisplay(59.9))
	assert.Equal(t, "1m 0s", serializers.ProcessingTimeDisplay(60))
	assert.Equal(t, "2m 30s", serializers.ProcessingTimeDisplay(150))
}

func TestFileSizeDisplay(t *testing.T) {
	assert.Equal(t, "N/A", serializers.FileSizeDisplay(0))
	assert.Equal(t, "512.0 B", serializers.FileSizeDisplay(512))
	assert.Equal(t, "1.0 KB", serializers.FileSizeDisplay(1024))
	assert.Equal(t, "1.5 KB", serializers.FileSizeDisplay(1536))
	assert.Equal(t, "2.0 MB", serializers.FileSizeDisplay(2*1024*1024))
	assert.Equal(t, "3.0 GB", serializers.FileSizeDisplay(3*1024*1024*1024))
}

func TestSerializeDownloadLog(t *testing.T) {
	requested := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	completed := requested.Add(2 * time.Second)

	entry := models.DownloadLog{
		Id:                    "dl1",
		UserID:                "alice",
		User:                  &models.User{Id: "alice", Email: "alice@example.com"},
		DownloadType:          models.HistoricalPosts,
		FileFormat:            models.FormatCSV,
		TotalRecords:          7,
		FileSizeBytes:         2048,
		ProcessingTimeSeconds: 2.0,
		IsSuccessful:          true,
		RequestedAt:           requested,
		CompletedAt:           &completed,
	}

	out := serializers.SerializeDownloadLog(entry)
	assert.Equal(t, "dl1", out.RequestId)
	assert.Equal(t, "alice@example.com", out.UserEmail)
	assert.Equal(t, "2.0 KB", out.FileSizeDisplay)
	assert.Equal(t, "2.0s", out.ProcessingTimeDisplay)
	assert.Equal(t, "2024-05-01T10:00:00Z", out.RequestedAt)
	require.NotNil(t, out.CompletedAt)
	assert.Equal(t, "2024-05-01T10:00:02Z", *out.CompletedAt)
}

func TestSerializeDownloadLog_Pending(t *testing.T) {
	entry := models.DownloadLog{
		Id:           "dl2",
		UserID:       "alice",
		DownloadType: models.UserPosts,
		FileFormat:   models.FormatJSON,
		RequestedAt:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	out := serializers.SerializeDownloadLog(entry)
	assert.Empty(t, out.UserEmail)
	assert.Equal(t, "N/A", out.FileSizeDisplay)
	assert.Equal(t, "N/A", out.ProcessingTimeDisplay)
	assert.Nil(t, out.CompletedAt)
	assert.False(t, out.IsSuccessful)
}

func TestSerializePost_NilAssociations(t *testing.T) {
	post := models.BlogPost{
		Id:        "p1",
		Title:     "Bare post",
		AuthorID:  "alice",
		Status:    models.StatusDraft,
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	out := serializers.SerializePost(post)
	assert.Equal(t, "p1", out.Id)
	assert.Empty(t, out.Author.Username)
	assert.Nil(t, out.Category.Name)
	assert.Nil(t, out.PublicationDate)
	assert.NotNil(t, out.Tags)
	assert.Empty(t, out.Tags)
	assert.Equal(t, "2024-05-01T10:00:00Z", out.CreatedAt)
}

func TestSerializePosts_PreservesOrder(t *testing.T) {
	posts := []models.BlogPost{
		{Id: "b", AuthorID: "alice"},
		{Id: "a", AuthorID: "alice"},
	}
	out := serializers.SerializePosts(posts)
	require.Len(t, out, 2)
	assert.Equal(t, "b", out[0].Id)
	assert.Equal(t, "a", out[1].Id)
}
