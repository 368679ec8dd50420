package service

import (
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"plume-backend/internal/config"
)

// Registry aggregates all business services for handler injection.
type Registry struct {
	User         *UserService
	Alias        *AliasService
	Follow       *FollowService
	Notification *NotificationService
	Tag          *TagService
	Relevance    *RelevanceService
	Image        *ImageService
	Post         *PostService
	Community    *CommunityService
}

// NewRegistry wires the service graph. defaults and nsfwTagID come from
// validated configuration.
func NewRegistry(
	db *gorm.DB,
	rdb *redis.Client,
	feedWriter *kafka.Writer,
	defaults *config.Defaults,
	nsfwTagID int64,
	log *zap.Logger,
) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	notificationSvc := NewNotificationService(db)
	followSvc := NewFollowService(db, notificationSvc)
	tagSvc := NewTagService(db, rdb, log)
	relevanceSvc := NewRelevanceService(db, followSvc, tagSvc, nsfwTagID)
	imageSvc := NewImageService(db)
	return &Registry{
		User:         NewUserService(db),
		Alias:        NewAliasService(db, followSvc, imageSvc, defaults, log),
		Follow:       followSvc,
		Notification: notificationSvc,
		Tag:          tagSvc,
		Relevance:    relevanceSvc,
		Image:        imageSvc,
		Post:         NewPostService(db, rdb, relevanceSvc, feedWriter, log),
		Community:    NewCommunityService(db, followSvc),
	}
}
