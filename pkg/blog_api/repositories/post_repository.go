package repositories

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/models"
)

type PostRepository interface {
	// FindExportablePosts returns the posts visible to user under the optional
	// filters, newest-created first with id as the tie-break.
	FindExportablePosts(ctx context.Context, user *models.User, filters models.PostFilters) ([]models.BlogPost, error)
	// FindPostsByAuthor returns every post owned by user, same ordering.
	FindPostsByAuthor(ctx context.Context, user *models.User) ([]models.BlogPost, error)
	// FindCategoryByName matches case-insensitively on a name fragment and
	// returns nil without error when nothing matches.
	FindCategoryByName(ctx context.Context, name string) (*models.Category, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) FindExportablePosts(ctx context.Context, user *models.User, filters models.PostFilters) ([]models.BlogPost, error) {
	// Base predicate: everything publicly published plus the requester's own
	// posts regardless of visibility or status.
	query := r.db.WithContext(ctx).Model(&models.BlogPost{}).
		Where("(is_public = ? AND status = ?) OR author_id = ?", true, models.StatusPublished, user.Id)

	if filters.DateFrom != nil {
		query = query.Where("publication_date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("publication_date <= ?", *filters.DateTo)
	}
	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if !filters.IncludePrivate {
		query = query.Where("is_public = ? OR (author_id = ? AND is_public = ?)", true, user.Id, false)
	}

	var posts []models.BlogPost
	err := query.
		Preload("Author").Preload("Category").Preload("Tags").
		Order("created_at DESC").Order("id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) FindPostsByAuthor(ctx context.Context, user *models.User) ([]models.BlogPost, error) {
	var posts []models.BlogPost
	err := r.db.WithContext(ctx).
		Where("author_id = ?", user.Id).
		Preload("Author").Preload("Category").Preload("Tags").
		Order("created_at DESC").Order("id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) FindCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	pattern := "%" + strings.ToLower(name) + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", pattern).
		Order("name").
		First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}
