package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"plume-backend/internal/model"
)

var (
	// ErrInvalidRelationType rejects relation types outside {follow, block}
	// before any database access.
	ErrInvalidRelationType = errors.New("invalid relation type")
	// ErrInvalidTargetKind rejects target kinds outside
	// {blog, community, tag, alias}; a dangling edge with no target must
	// never be persisted.
	ErrInvalidTargetKind = errors.New("invalid target kind")
	// ErrInvalidTargetID rejects non-positive target ids for the same
	// dangling-edge reason.
	ErrInvalidTargetID = errors.New("invalid target id")
	// ErrInvalidViewerAlias rejects edge mutations for the anonymous viewer
	// (alias id 0) and for negative ids; anonymous viewers hold no edges.
	ErrInvalidViewerAlias = errors.New("invalid viewer alias id")
)

// Target is the tagged form of a follow edge's destination.
type Target struct {
	Kind model.TargetKind
	ID   int64
}

// FollowService creates and destroys follow/block edges. All mutations run
// under the caller's ambient transaction handle; the service never opens its
// own transaction.
type FollowService struct {
	db              *gorm.DB
	notificationSvc *NotificationService
}

func NewFollowService(db *gorm.DB, notificationSvc *NotificationService) *FollowService {
	return &FollowService{db: db, notificationSvc: notificationSvc}
}

// Create finds or creates the edge for (viewer, target, relType). The bool
// result reports whether a new row was inserted. A follow on a blog or alias
// that actually inserts also writes the follower notification inside the same
// transaction; the found-existing branch never re-notifies, so repeated calls
// stay idempotent end to end.
func (s *FollowService) Create(ctx context.Context, tx *gorm.DB, viewerAliasID int64, target Target, relType model.RelationType) (*model.FollowEdge, bool, error) {
	if err := validateEdgeParams(viewerAliasID, target, relType); err != nil {
		return nil, false, err
	}

	// The lookup condition is spelled out; a struct condition would drop
	// zero-valued fields and match across viewers.
	edge := model.FollowEdge{
		ViewerAliasID: viewerAliasID,
		TargetKind:    target.Kind,
		TargetID:      target.ID,
		RelationType:  relType,
	}
	res := tx.WithContext(ctx).
		Where("viewer_alias_id = ? AND target_kind = ? AND target_id = ? AND relation_type = ?",
			viewerAliasID, target.Kind, target.ID, relType).
		FirstOrCreate(&edge)
	if res.Error != nil {
		// Concurrent creators race on the composite unique index; the loser
		// re-reads the surviving row.
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			err := tx.WithContext(ctx).
				Where("viewer_alias_id = ? AND target_kind = ? AND target_id = ? AND relation_type = ?",
					viewerAliasID, target.Kind, target.ID, relType).
				First(&edge).Error
			return &edge, false, err
		}
		return nil, false, res.Error
	}
	created := res.RowsAffected > 0

	if created && relType == model.RelationFollow && notifiableKind(target.Kind) {
		if _, err := s.notificationSvc.CreateFollow(ctx, tx, viewerAliasID, target); err != nil {
			return nil, false, err
		}
	}
	return &edge, created, nil
}

// Destroy deletes the matching edge. For follow edges on blogs and aliases it
// also removes the follower notification. Both deletes are attempted even
// when one matches nothing.
func (s *FollowService) Destroy(ctx context.Context, tx *gorm.DB, viewerAliasID int64, target Target, relType model.RelationType) error {
	if err := validateEdgeParams(viewerAliasID, target, relType); err != nil {
		return err
	}

	if err := tx.WithContext(ctx).
		Where("viewer_alias_id = ? AND target_kind = ? AND target_id = ? AND relation_type = ?",
			viewerAliasID, target.Kind, target.ID, relType).
		Delete(&model.FollowEdge{}).Error; err != nil {
		return err
	}

	if relType == model.RelationFollow && notifiableKind(target.Kind) {
		// The cleanup keys the notification on the raw target id as an alias
		// id even when the kind is blog, whereas Create resolves the blog's
		// owning alias first. Long-standing quirk, kept deliberately.
		if err := s.notificationSvc.DeleteFollow(ctx, tx, viewerAliasID, target.ID); err != nil {
			return err
		}
	}
	return nil
}

// CreateTx runs Create inside its own transaction, for callers that are not
// already part of a larger unit of work.
func (s *FollowService) CreateTx(ctx context.Context, viewerAliasID int64, target Target, relType model.RelationType) (*model.FollowEdge, bool, error) {
	var (
		edge    *model.FollowEdge
		created bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		edge, created, err = s.Create(ctx, tx, viewerAliasID, target, relType)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return edge, created, nil
}

// DestroyTx runs Destroy inside its own transaction.
func (s *FollowService) DestroyTx(ctx context.Context, viewerAliasID int64, target Target, relType model.RelationType) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.Destroy(ctx, tx, viewerAliasID, target, relType)
	})
}

// Exists reports whether the exact edge is present.
func (s *FollowService) Exists(ctx context.Context, viewerAliasID int64, target Target, relType model.RelationType) (bool, error) {
	if !relType.Valid() {
		return false, ErrInvalidRelationType
	}
	if !target.Kind.Valid() {
		return false, ErrInvalidTargetKind
	}
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.FollowEdge{}).
		Where("viewer_alias_id = ? AND target_kind = ? AND target_id = ? AND relation_type = ?",
			viewerAliasID, target.Kind, target.ID, relType).
		Count(&count).Error
	return count > 0, err
}

// TagTargetIDs returns the ids of every tag the viewer has an edge of the
// given type toward. Used by the relevance resolver.
func (s *FollowService) TagTargetIDs(ctx context.Context, tx *gorm.DB, viewerAliasID int64, relType model.RelationType) ([]int64, error) {
	var ids []int64
	err := tx.WithContext(ctx).
		Model(&model.FollowEdge{}).
		Where("viewer_alias_id = ? AND target_kind = ? AND relation_type = ?",
			viewerAliasID, model.TargetTag, relType).
		Pluck("target_id", &ids).Error
	return ids, err
}

// BlogFollowerIDs returns the alias ids following a blog, for feed fan-out.
func (s *FollowService) BlogFollowerIDs(ctx context.Context, blogID int64) ([]int64, error) {
	var ids []int64
	err := s.db.WithContext(ctx).
		Model(&model.FollowEdge{}).
		Where("target_kind = ? AND target_id = ? AND relation_type = ?",
			model.TargetBlog, blogID, model.RelationFollow).
		Pluck("viewer_alias_id", &ids).Error
	return ids, err
}

// validateEdgeParams rejects malformed edge mutations before any I/O. The
// anonymous viewer may read but never holds edges of its own.
func validateEdgeParams(viewerAliasID int64, target Target, relType model.RelationType) error {
	if !relType.Valid() {
		return ErrInvalidRelationType
	}
	if !target.Kind.Valid() {
		return ErrInvalidTargetKind
	}
	if target.ID <= 0 {
		return ErrInvalidTargetID
	}
	if viewerAliasID <= 0 {
		return ErrInvalidViewerAlias
	}
	return nil
}

// notifiableKind reports whether a follow on this kind addresses a real
// alias identity and therefore produces a notification.
func notifiableKind(kind model.TargetKind) bool {
	return kind == model.TargetBlog || kind == model.TargetAlias
}
