package serializers

import (
	"time"

	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/models"
)

// SerializePost flattens a post with its preloaded relations into the
// renderer-facing snapshot. Timestamps become RFC 3339 strings here so the
// renderers never see time.Time values.
func SerializePost(post models.BlogPost) models.PostExport {
	out := models.PostExport{
		Id:        post.Id,
		Title:     post.Title,
		Content:   post.Content,
		Excerpt:   post.Excerpt,
		IsPublic:  post.IsPublic,
		Status:    post.Status,
		ViewCount: post.ViewCount,
		LikeCount: post.LikeCount,
		CreatedAt: post.CreatedAt.Format(time.RFC3339),
		UpdatedAt: post.UpdatedAt.Format(time.RFC3339),
		Tags:      make([]models.TagExport, len(post.Tags)),
	}

	if post.Author != nil {
		out.Author = models.AuthorExport{
			Username: post.Author.Username,
			Email:    post.Author.Email,
			FullName: post.Author.FullName(),
		}
	}
	if post.Category != nil {
		out.Category = models.CategoryExport{
			Name: &post.Category.Name,
			Slug: &post.Category.Slug,
		}
	}
	if post.PublicationDate != nil {
		formatted := post.PublicationDate.Format(time.RFC3339)
		out.PublicationDate = &formatted
	}
	for i, tag := range post.Tags {
		out.Tags[i] = models.TagExport{Name: tag.Name, Slug: tag.Slug}
	}
	return out
}

func SerializePosts(posts []models.BlogPost) []models.PostExport {
	out := make([]models.PostExport, len(posts))
	for i, post := range posts {
		out[i] = SerializePost(post)
	}
	return out
}
