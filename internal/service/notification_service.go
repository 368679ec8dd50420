package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"plume-backend/internal/model"
)

// ErrTargetNotFound is returned when a referenced entity does not exist at
// resolution time, e.g. the blog behind a follow notification.
var ErrTargetNotFound = errors.New("target not found")

// NotificationService writes and reads follower notifications. Creation and
// cleanup always run under the caller's transaction so they commit or roll
// back together with the triggering edge.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// CreateFollow records that sourceAliasID started following the given target.
// A blog target is resolved to its owning alias; an alias target is the
// recipient directly.
func (s *NotificationService) CreateFollow(ctx context.Context, tx *gorm.DB, sourceAliasID int64, target Target) (*model.Notification, error) {
	var targetAliasID int64
	switch target.Kind {
	case model.TargetBlog:
		var blog model.Blog
		err := tx.WithContext(ctx).First(&blog, target.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("blog %d: %w", target.ID, ErrTargetNotFound)
		}
		if err != nil {
			return nil, err
		}
		targetAliasID = blog.AliasID
	case model.TargetAlias:
		targetAliasID = target.ID
	default:
		return nil, ErrInvalidTargetKind
	}

	n := &model.Notification{
		Type:          model.NotificationFollow,
		SourceAliasID: sourceAliasID,
		TargetAliasID: targetAliasID,
		IsSeen:        false,
	}
	if err := tx.WithContext(ctx).Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// DeleteFollow removes the follow notification keyed by (source, target).
// Matching zero rows is not an error.
func (s *NotificationService) DeleteFollow(ctx context.Context, tx *gorm.DB, sourceAliasID, targetAliasID int64) error {
	return tx.WithContext(ctx).
		Where("type = ? AND source_alias_id = ? AND target_alias_id = ?",
			model.NotificationFollow, sourceAliasID, targetAliasID).
		Delete(&model.Notification{}).Error
}

// List returns the alias's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, aliasID int64, page, size int) ([]model.Notification, error) {
	var items []model.Notification
	offset := (page - 1) * size
	if offset < 0 {
		offset = 0
	}
	err := s.db.WithContext(ctx).
		Where("target_alias_id = ?", aliasID).
		Order("id DESC").
		Offset(offset).
		Limit(size).
		Find(&items).Error
	return items, err
}

// MarkSeen flags one of the alias's notifications as read.
func (s *NotificationService) MarkSeen(ctx context.Context, aliasID, notificationID int64) error {
	res := s.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ? AND target_alias_id = ?", notificationID, aliasID).
		Update("is_seen", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("notification %d: %w", notificationID, ErrTargetNotFound)
	}
	return nil
}

// UnseenCount returns how many unread notifications the alias has.
func (s *NotificationService) UnseenCount(ctx context.Context, aliasID int64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("target_alias_id = ? AND is_seen = ?", aliasID, false).
		Count(&count).Error
	return count, err
}
