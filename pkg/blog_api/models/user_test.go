package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/models"
)

func TestUser_CanDownload(t *testing.T) {
	user := &models.User{Id: "u1"}
	assert.True(t, user.CanDownload(), "fresh account has no cooldown")

	justNow := time.Now().UTC()
	user.LastDownload = &justNow
	assert.False(t, user.CanDownload(), "cooldown active right after a download")

	fiftyNine := time.Now().UTC().Add(-59 * time.Minute)
	user.LastDownload = &fiftyNine
	assert.False(t, user.CanDownload(), "cooldown still active at 59 minutes")

	sixtyOne := time.Now().UTC().Add(-61 * time.Minute)
	user.LastDownload = &sixtyOne
	assert.True(t, user.CanDownload(), "cooldown elapsed after the boundary")
}

func TestUser_FullName(t *testing.T) {
	assert.Equal(t, "Alice Doe", (&models.User{FirstName: "Alice", LastName: "Doe"}).FullName())
	assert.Equal(t, "Alice", (&models.User{FirstName: "Alice"}).FullName())
	assert.Equal(t, "", (&models.User{}).FullName())
}

func TestBlogPost_CanBeViewedBy(t *testing.T) {
	author := &models.User{Id: "author"}
	reader := &models.User{Id: "reader"}

	private := &models.BlogPost{AuthorID: "author", IsPublic: false, Status: models.StatusPublished}
	assert.True(t, private.CanBeViewedBy(author))
	assert.False(t, private.CanBeViewedBy(reader))

	draft := &models.BlogPost{AuthorID: "author", IsPublic: true, Status: models.StatusDraft}
	assert.True(t, draft.CanBeViewedBy(author))
	assert.False(t, draft.CanBeViewedBy(reader))

	published := &models.BlogPost{AuthorID: "author", IsPublic: true, Status: models.StatusPublished}
	assert.True(t, published.CanBeViewedBy(reader))
	assert.False(t, published.CanBeViewedBy(nil))
}
