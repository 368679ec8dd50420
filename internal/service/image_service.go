package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"plume-backend/internal/model"
)

// DefaultAvatarURL is served when an alias is created without any avatar spec.
const DefaultAvatarURL = "/static/avatar/default.png"

// ImageService creates image records. The bytes themselves live in the
// external media service; this service only persists the reference rows,
// under the caller's transaction.
type ImageService struct {
	db *gorm.DB
}

func NewImageService(db *gorm.DB) *ImageService {
	return &ImageService{db: db}
}

// CreateFromSource registers an image fetched from a remote source URL.
func (s *ImageService) CreateFromSource(ctx context.Context, tx *gorm.DB, sourceURL string) (*model.Image, error) {
	if sourceURL == "" {
		return nil, errors.New("image source url is empty")
	}
	img := &model.Image{URL: sourceURL, SourceURL: sourceURL}
	if err := tx.WithContext(ctx).Create(img).Error; err != nil {
		return nil, err
	}
	return img, nil
}

// CreateDefault registers the placeholder avatar image.
func (s *ImageService) CreateDefault(ctx context.Context, tx *gorm.DB) (*model.Image, error) {
	img := &model.Image{URL: DefaultAvatarURL}
	if err := tx.WithContext(ctx).Create(img).Error; err != nil {
		return nil, err
	}
	return img, nil
}

// GetByID loads an existing image; ErrTargetNotFound when absent.
func (s *ImageService) GetByID(ctx context.Context, tx *gorm.DB, id int64) (*model.Image, error) {
	var img model.Image
	err := tx.WithContext(ctx).First(&img, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("image %d: %w", id, ErrTargetNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &img, nil
}
