package models

import "time"

// Post lifecycle states.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Category groups blog posts. Managed by the blog service; read-only here.
type Category struct {
	Id          string `gorm:"column:id;primaryKey"`
	Name        string `json:"name" gorm:"uniqueIndex"`
	Description string `json:"description,omitempty"`
	Slug        string `json:"slug" gorm:"uniqueIndex"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Tag labels blog posts. Read-only here.
type Tag struct {
	Id        string `gorm:"column:id;primaryKey"`
	Name      string `json:"name" gorm:"uniqueIndex"`
	Slug      string `json:"slug" gorm:"uniqueIndex"`
	CreatedAt time.Time
}

// BlogPost is the exported entity. The download service never mutates it.
type BlogPost struct {
	Id              string     `gorm:"column:id;primaryKey"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug" gorm:"uniqueIndex"`
	Content         string     `json:"content"`
	Excerpt         string     `json:"excerpt,omitempty"`
	AuthorID        string     `gorm:"column:author_id;index"`
	Author          *User      `gorm:"foreignKey:AuthorID"`
	CategoryID      *string    `gorm:"column:category_id"`
	Category        *Category  `gorm:"foreignKey:CategoryID"`
	Tags            []Tag      `gorm:"many2many:post_tags;"`
	IsPublic        bool       `json:"isPublic" gorm:"index:idx_posts_visibility"`
	Status          string     `json:"status" gorm:"index:idx_posts_visibility"`
	MetaDescription string     `json:"metaDescription,omitempty"`
	CreatedAt       time.Time  `gorm:"index"`
	UpdatedAt       time.Time
	PublicationDate *time.Time `gorm:"index"`
	ViewCount       uint       `json:"viewCount"`
	LikeCount       uint       `json:"likeCount"`
}

func (p *BlogPost) IsPublished() bool {
	return p.Status == StatusPublished
}

// CanBeViewedBy mirrors the visibility predicate used by the export query:
// authors always see their own posts, everyone else only public published ones.
func (p *BlogPost) CanBeViewedBy(user *User) bool {
	if user == nil {
		return false
	}
	if p.AuthorID == user.Id {
		return true
	}
	return p.IsPublic && p.IsPublished()
}
