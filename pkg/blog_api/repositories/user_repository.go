package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/models"
)

type UserRepository interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// MarkDownloaded advances the cooldown anchor and the lifetime counter in
	// one atomic row update. The row update is the only concurrency guard:
	// two requests racing through the cooldown check within the same instant
	// is accepted, the window is measured in hours.
	MarkDownloaded(ctx context.Context, user *models.User) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) MarkDownloaded(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.Id).
		Updates(map[string]interface{}{
			"download_count": gorm.Expr("download_count + 1"),
			"last_download":  now,
		}).Error
	if err != nil {
		return err
	}
	user.LastDownload = &now
	user.DownloadCount++
	return nil
}
