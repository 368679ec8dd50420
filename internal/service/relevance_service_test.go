package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plume-backend/internal/model"
)

const testNSFWTagID = int64(1000)

func TestRelevantTagIDsExpandsFollowClosure(t *testing.T) {
	db := setupTestDB(t)
	followSvc := newFollowService(db)
	tagSvc := NewTagService(db, nil, nil)
	svc := NewRelevanceService(db, followSvc, tagSvc, testNSFWTagID)
	ctx := context.Background()

	root, c1, c2, g := seedTagTree(t, db)
	_, _, err := followSvc.Create(ctx, db, 5, Target{Kind: model.TargetTag, ID: root}, model.RelationFollow)
	require.NoError(t, err)

	rel, err := svc.RelevantTagIDs(ctx, db, 5, false)
	require.NoError(t, err)

	for _, id := range []int64{root, c1, c2, g} {
		assert.Contains(t, rel.Follows, id)
	}
	assert.Len(t, rel.Follows, 4)
	assert.Empty(t, rel.Blocks)
}

func TestRelevantTagIDsExpandsBlockClosure(t *testing.T) {
	db := setupTestDB(t)
	followSvc := newFollowService(db)
	tagSvc := NewTagService(db, nil, nil)
	svc := NewRelevanceService(db, followSvc, tagSvc, testNSFWTagID)
	ctx := context.Background()

	_, c1, _, g := seedTagTree(t, db)
	_, _, err := followSvc.Create(ctx, db, 5, Target{Kind: model.TargetTag, ID: c1}, model.RelationBlock)
	require.NoError(t, err)

	rel, err := svc.RelevantTagIDs(ctx, db, 5, false)
	require.NoError(t, err)

	assert.Contains(t, rel.Blocks, c1)
	assert.Contains(t, rel.Blocks, g)
	assert.Len(t, rel.Blocks, 2)
}

func TestAnonymousViewerForcesNSFWBlock(t *testing.T) {
	db := setupTestDB(t)
	followSvc := newFollowService(db)
	tagSvc := NewTagService(db, nil, nil)
	ctx := context.Background()

	nsfw := &model.Tag{Name: "nsfw"}
	require.NoError(t, db.Create(nsfw).Error)
	child := &model.Tag{Name: "nsfw-child", ParentID: &nsfw.ID}
	require.NoError(t, db.Create(child).Error)

	svc := NewRelevanceService(db, followSvc, tagSvc, nsfw.ID)

	// alias 0 holds no explicit block edges
	rel, err := svc.RelevantTagIDs(ctx, db, model.AnonymousAliasID, false)
	require.NoError(t, err)

	assert.Contains(t, rel.Blocks, nsfw.ID)
	assert.Contains(t, rel.Blocks, child.ID)
	assert.Empty(t, rel.Follows)
}

func TestSuppressNSFWFlagForcesBlockForLoggedInViewer(t *testing.T) {
	db := setupTestDB(t)
	followSvc := newFollowService(db)
	tagSvc := NewTagService(db, nil, nil)
	ctx := context.Background()

	nsfw := &model.Tag{Name: "nsfw"}
	require.NoError(t, db.Create(nsfw).Error)
	svc := NewRelevanceService(db, followSvc, tagSvc, nsfw.ID)

	rel, err := svc.RelevantTagIDs(ctx, db, 5, true)
	require.NoError(t, err)
	assert.Contains(t, rel.Blocks, nsfw.ID)

	rel, err = svc.RelevantTagIDs(ctx, db, 5, false)
	require.NoError(t, err)
	assert.NotContains(t, rel.Blocks, nsfw.ID)
}

func TestNSFWRequiredButNotConfigured(t *testing.T) {
	db := setupTestDB(t)
	followSvc := newFollowService(db)
	tagSvc := NewTagService(db, nil, nil)
	svc := NewRelevanceService(db, followSvc, tagSvc, 0)
	ctx := context.Background()

	_, err := svc.RelevantTagIDs(ctx, db, model.AnonymousAliasID, false)
	assert.ErrorIs(t, err, ErrNSFWTagNotConfigured)

	_, err = svc.RelevantTagIDs(ctx, db, 5, true)
	assert.ErrorIs(t, err, ErrNSFWTagNotConfigured)

	// a logged-in viewer without suppression never needs the NSFW id
	_, err = svc.RelevantTagIDs(ctx, db, 5, false)
	assert.NoError(t, err)
}

// A tag both followed and blocked appears in both sets; precedence is the
// feed consumer's decision, not the resolver's.
func TestFollowAndBlockSetsStayIndependent(t *testing.T) {
	db := setupTestDB(t)
	followSvc := newFollowService(db)
	tagSvc := NewTagService(db, nil, nil)
	svc := NewRelevanceService(db, followSvc, tagSvc, testNSFWTagID)
	ctx := context.Background()

	root, c1, c2, g := seedTagTree(t, db)
	_, _, err := followSvc.Create(ctx, db, 5, Target{Kind: model.TargetTag, ID: root}, model.RelationFollow)
	require.NoError(t, err)
	_, _, err = followSvc.Create(ctx, db, 5, Target{Kind: model.TargetTag, ID: c1}, model.RelationBlock)
	require.NoError(t, err)

	rel, err := svc.RelevantTagIDs(ctx, db, 5, false)
	require.NoError(t, err)

	for _, id := range []int64{root, c1, c2, g} {
		assert.Contains(t, rel.Follows, id, "blocked descendants are not subtracted from follows")
	}
	assert.Contains(t, rel.Blocks, c1)
	assert.Contains(t, rel.Blocks, g)
	assert.NotContains(t, rel.Blocks, c2)
}
