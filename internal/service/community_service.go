package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"plume-backend/internal/model"
)

// CommunityService manages communities and explicit membership. Joining is a
// membership row plus a follow edge so the community's output lands in the
// member's feed; leaving removes both.
type CommunityService struct {
	db        *gorm.DB
	followSvc *FollowService
}

func NewCommunityService(db *gorm.DB, followSvc *FollowService) *CommunityService {
	return &CommunityService{db: db, followSvc: followSvc}
}

func (s *CommunityService) Create(ctx context.Context, community *model.Community) error {
	return s.db.WithContext(ctx).Create(community).Error
}

// GetByID loads a community; nil when absent.
func (s *CommunityService) GetByID(ctx context.Context, id int64) (*model.Community, error) {
	var community model.Community
	err := s.db.WithContext(ctx).First(&community, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &community, nil
}

// Join adds the alias as a member and follows the community, atomically.
func (s *CommunityService) Join(ctx context.Context, communityID, aliasID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var community model.Community
		err := tx.First(&community, communityID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("community %d: %w", communityID, ErrTargetNotFound)
		}
		if err != nil {
			return err
		}
		target := Target{Kind: model.TargetCommunity, ID: communityID}
		if _, _, err := s.followSvc.Create(ctx, tx, aliasID, target, model.RelationFollow); err != nil {
			return err
		}
		member := &model.CommunityMember{CommunityID: communityID, AliasID: aliasID}
		// rejoining is a no-op, same as re-following
		res := tx.Where(member).FirstOrCreate(member)
		return res.Error
	})
}

// Leave removes membership and the follow edge.
func (s *CommunityService) Leave(ctx context.Context, communityID, aliasID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("community_id = ? AND alias_id = ?", communityID, aliasID).
			Delete(&model.CommunityMember{}).Error; err != nil {
			return err
		}
		target := Target{Kind: model.TargetCommunity, ID: communityID}
		return s.followSvc.Destroy(ctx, tx, aliasID, target, model.RelationFollow)
	})
}

// IsMember reports whether the alias holds a membership row.
func (s *CommunityService) IsMember(ctx context.Context, communityID, aliasID int64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.CommunityMember{}).
		Where("community_id = ? AND alias_id = ?", communityID, aliasID).
		Count(&count).Error
	return count > 0, err
}
