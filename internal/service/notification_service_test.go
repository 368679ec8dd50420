package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plume-backend/internal/model"
)

func TestCreateFollowNotificationResolvesBlogOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db)
	ctx := context.Background()

	blog := seedBlog(t, db, 42)

	n, err := svc.CreateFollow(ctx, db, 7, Target{Kind: model.TargetBlog, ID: blog.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(42), n.TargetAliasID)
	assert.Equal(t, int64(7), n.SourceAliasID)
	assert.False(t, n.IsSeen)
}

func TestCreateFollowNotificationAliasTargetIsDirect(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db)
	ctx := context.Background()

	n, err := svc.CreateFollow(ctx, db, 7, Target{Kind: model.TargetAlias, ID: 9})
	require.NoError(t, err)
	assert.Equal(t, int64(9), n.TargetAliasID)
}

func TestCreateFollowNotificationMissingBlog(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db)
	ctx := context.Background()

	_, err := svc.CreateFollow(ctx, db, 7, Target{Kind: model.TargetBlog, ID: 404})
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestCreateFollowNotificationRejectsNonNotifiableKinds(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db)
	ctx := context.Background()

	for _, kind := range []model.TargetKind{model.TargetTag, model.TargetCommunity} {
		_, err := svc.CreateFollow(ctx, db, 7, Target{Kind: kind, ID: 1})
		assert.ErrorIs(t, err, ErrInvalidTargetKind, string(kind))
	}
}

func TestDeleteFollowNotificationMatchingNothing(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db)
	ctx := context.Background()

	assert.NoError(t, svc.DeleteFollow(ctx, db, 7, 9))
}

func TestListMarkSeenAndUnseenCount(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNotificationService(db)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		_, err := svc.CreateFollow(ctx, db, i, Target{Kind: model.TargetAlias, ID: 9})
		require.NoError(t, err)
	}
	// noise for another alias
	_, err := svc.CreateFollow(ctx, db, 1, Target{Kind: model.TargetAlias, ID: 10})
	require.NoError(t, err)

	items, err := svc.List(ctx, 9, 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, int64(3), items[0].SourceAliasID, "newest first")

	count, err := svc.UnseenCount(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	require.NoError(t, svc.MarkSeen(ctx, 9, items[0].ID))
	count, err = svc.UnseenCount(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// cannot mark another alias's notification
	err = svc.MarkSeen(ctx, 10, items[1].ID)
	assert.ErrorIs(t, err, ErrTargetNotFound)
}
