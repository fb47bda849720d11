package models

// PostExport is the flattened, relation-resolved snapshot of a post handed to
// the renderers. Building it up front keeps the renderers pure: they never
// touch storage or the clock except for the export wrapper's own timestamp.
type PostExport struct {
	Id              string         `json:"id"`
	Title           string         `json:"title"`
	Content         string         `json:"content"`
	Excerpt         string         `json:"excerpt"`
	Author          AuthorExport   `json:"author"`
	Category        CategoryExport `json:"category"`
	Tags            []TagExport    `json:"tags"`
	IsPublic        bool           `json:"is_public"`
	Status          string         `json:"status"`
	ViewCount       uint           `json:"view_count"`
	LikeCount       uint           `json:"like_count"`
	CreatedAt       string         `json:"created_at"`
	UpdatedAt       string         `json:"updated_at"`
	PublicationDate *string        `json:"publication_date"`
}

type AuthorExport struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// CategoryExport uses nullable fields so an uncategorized post still renders
// a category object with null members, matching the JSON contract.
type CategoryExport struct {
	Name *string `json:"name"`
	Slug *string `json:"slug"`
}

type TagExport struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}
