package service

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"

	"plume-backend/internal/model"
)

// ErrNSFWTagNotConfigured is returned when NSFW exclusion is required
// (anonymous viewer or explicit opt-out) but no NSFW tag id is configured.
var ErrNSFWTagNotConfigured = errors.New("nsfw tag id not configured")

// TagHierarchy is the contract of the tag graph owner: the closure of a tag,
// including the tag itself. The resolver assumes nothing about how the graph
// is stored.
type TagHierarchy interface {
	Descendants(ctx context.Context, tagID int64) ([]int64, error)
}

// RelevanceSet holds the two independent tag-id sets a viewer's feed is
// personalized with. The resolver never subtracts Blocks from Follows;
// block-wins precedence belongs to the feed consumer.
type RelevanceSet struct {
	Follows map[int64]struct{}
	Blocks  map[int64]struct{}
}

// RelevanceService computes relevance sets from the viewer's tag edges and
// the tag hierarchy's closure operation.
type RelevanceService struct {
	db        *gorm.DB
	followSvc *FollowService
	hierarchy TagHierarchy
	nsfwTagID int64
}

func NewRelevanceService(db *gorm.DB, followSvc *FollowService, hierarchy TagHierarchy, nsfwTagID int64) *RelevanceService {
	return &RelevanceService{db: db, followSvc: followSvc, hierarchy: hierarchy, nsfwTagID: nsfwTagID}
}

// RelevantTagIDsDB resolves against the service's own read handle, for
// callers outside any transaction.
func (s *RelevanceService) RelevantTagIDsDB(ctx context.Context, viewerAliasID int64, suppressNSFW bool) (*RelevanceSet, error) {
	return s.RelevantTagIDs(ctx, s.db, viewerAliasID, suppressNSFW)
}

// RelevantTagIDs resolves the viewer's followed and blocked tag closures.
// The NSFW tag is forced into the block expansion for the anonymous viewer
// (alias id 0) or when suppressNSFW is set, whether or not the viewer holds
// any explicit block edges.
//
// Edge reads run sequentially on the caller's handle (a gorm transaction is
// not goroutine-safe); the two closure expansions only touch the hierarchy
// collaborator and run concurrently.
func (s *RelevanceService) RelevantTagIDs(ctx context.Context, tx *gorm.DB, viewerAliasID int64, suppressNSFW bool) (*RelevanceSet, error) {
	followedIDs, err := s.followSvc.TagTargetIDs(ctx, tx, viewerAliasID, model.RelationFollow)
	if err != nil {
		return nil, err
	}
	blockedIDs, err := s.followSvc.TagTargetIDs(ctx, tx, viewerAliasID, model.RelationBlock)
	if err != nil {
		return nil, err
	}

	if suppressNSFW || viewerAliasID == model.AnonymousAliasID {
		if s.nsfwTagID <= 0 {
			return nil, ErrNSFWTagNotConfigured
		}
		blockedIDs = append(blockedIDs, s.nsfwTagID)
	}

	var (
		wg                  sync.WaitGroup
		follows, blocks     map[int64]struct{}
		followErr, blockErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		follows, followErr = s.expand(ctx, followedIDs)
	}()
	go func() {
		defer wg.Done()
		blocks, blockErr = s.expand(ctx, blockedIDs)
	}()
	wg.Wait()
	if followErr != nil {
		return nil, followErr
	}
	if blockErr != nil {
		return nil, blockErr
	}
	return &RelevanceSet{Follows: follows, Blocks: blocks}, nil
}

// expand unions the closure of every seed tag.
func (s *RelevanceService) expand(ctx context.Context, seeds []int64) (map[int64]struct{}, error) {
	out := make(map[int64]struct{}, len(seeds))
	for _, id := range seeds {
		descendants, err := s.hierarchy.Descendants(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, d := range descendants {
			out[d] = struct{}{}
		}
	}
	return out, nil
}
