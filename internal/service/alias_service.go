package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"plume-backend/internal/config"
	"plume-backend/internal/model"
)

// AvatarSpec selects how a new alias gets its avatar: an already-persisted
// image, a remote source to import, or neither for the default placeholder.
type AvatarSpec struct {
	ImageID   int64
	SourceURL string
}

// CreateAliasInput carries everything the bootstrap needs.
type CreateAliasInput struct {
	Name   string
	User   *model.User
	Avatar *AvatarSpec
}

// AliasService bootstraps new aliases: the alias row, its avatar, and the
// deployment-configured default follows and memberships, all inside one
// transaction. A failure anywhere leaves no partial alias behind.
type AliasService struct {
	db        *gorm.DB
	followSvc *FollowService
	imageSvc  *ImageService
	defaults  *config.Defaults
	log       *zap.Logger
}

func NewAliasService(db *gorm.DB, followSvc *FollowService, imageSvc *ImageService, defaults *config.Defaults, log *zap.Logger) *AliasService {
	if defaults == nil {
		defaults = &config.Defaults{}
	}
	return &AliasService{db: db, followSvc: followSvc, imageSvc: imageSvc, defaults: defaults, log: log}
}

// CreateAlias runs the bootstrap under the caller's transaction. Avatar
// resolution completes and the alias is saved before any fan-out begins.
func (s *AliasService) CreateAlias(ctx context.Context, tx *gorm.DB, input CreateAliasInput) (*model.Alias, error) {
	if input.User == nil {
		return nil, errors.New("alias owner is required")
	}
	if input.Name == "" {
		return nil, errors.New("alias name is required")
	}

	alias := &model.Alias{
		UserID:  input.User.ID,
		Name:    input.Name,
		IsMinor: input.User.IsMinor,
	}

	img, err := s.resolveAvatar(ctx, tx, input.Avatar)
	if err != nil {
		return nil, err
	}
	alias.AvatarImageID = &img.ID
	alias.ImageURL = img.URL

	if err := tx.WithContext(ctx).Create(alias).Error; err != nil {
		return nil, err
	}

	if err := s.fanOutDefaults(ctx, tx, alias.ID); err != nil {
		return nil, err
	}

	if s.log != nil {
		s.log.Info("bootstrapped alias",
			zap.Int64("aliasId", alias.ID),
			zap.Int64("userId", alias.UserID),
			zap.String("name", alias.Name),
		)
	}
	return alias, nil
}

// CreateAliasTx is the handler-facing wrapper that owns the transaction.
func (s *AliasService) CreateAliasTx(ctx context.Context, input CreateAliasInput) (*model.Alias, error) {
	var alias *model.Alias
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := s.CreateAlias(ctx, tx, input)
		if err != nil {
			return err
		}
		alias = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return alias, nil
}

// GetByID loads an alias; nil when absent.
func (s *AliasService) GetByID(ctx context.Context, id int64) (*model.Alias, error) {
	var alias model.Alias
	err := s.db.WithContext(ctx).First(&alias, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &alias, nil
}

// resolveAvatar picks exactly one of the three avatar branches.
func (s *AliasService) resolveAvatar(ctx context.Context, tx *gorm.DB, spec *AvatarSpec) (*model.Image, error) {
	switch {
	case spec != nil && spec.ImageID > 0:
		return s.imageSvc.GetByID(ctx, tx, spec.ImageID)
	case spec != nil && spec.SourceURL != "":
		return s.imageSvc.CreateFromSource(ctx, tx, spec.SourceURL)
	default:
		return s.imageSvc.CreateDefault(ctx, tx)
	}
}

// fanOutDefaults wires the configured default follows and memberships. The
// statements share one transaction handle, so they run in order; the first
// failure aborts the whole bootstrap.
func (s *AliasService) fanOutDefaults(ctx context.Context, tx *gorm.DB, aliasID int64) error {
	for _, blogID := range s.defaults.FollowBlogIDs {
		target := Target{Kind: model.TargetBlog, ID: blogID}
		if _, _, err := s.followSvc.Create(ctx, tx, aliasID, target, model.RelationFollow); err != nil {
			return fmt.Errorf("default follow blog %d: %w", blogID, err)
		}
	}
	for _, communityID := range s.defaults.MemberCommunityIDs {
		// membership needs both the follow edge and the member row
		target := Target{Kind: model.TargetCommunity, ID: communityID}
		if _, _, err := s.followSvc.Create(ctx, tx, aliasID, target, model.RelationFollow); err != nil {
			return fmt.Errorf("default member community %d: %w", communityID, err)
		}
		var community model.Community
		err := tx.WithContext(ctx).First(&community, communityID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("default member community %d: %w", communityID, ErrTargetNotFound)
		}
		if err != nil {
			return err
		}
		member := &model.CommunityMember{CommunityID: communityID, AliasID: aliasID}
		if err := tx.WithContext(ctx).Create(member).Error; err != nil {
			return fmt.Errorf("default member community %d: %w", communityID, err)
		}
	}
	for _, communityID := range s.defaults.FollowCommunityIDs {
		target := Target{Kind: model.TargetCommunity, ID: communityID}
		if _, _, err := s.followSvc.Create(ctx, tx, aliasID, target, model.RelationFollow); err != nil {
			return fmt.Errorf("default follow community %d: %w", communityID, err)
		}
	}
	return nil
}
