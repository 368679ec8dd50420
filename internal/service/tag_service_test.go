package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plume-backend/internal/model"
)

func TestDescendantsWalksTransitiveChildren(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTagService(db, nil, nil)
	ctx := context.Background()

	root, c1, c2, g := seedTagTree(t, db)

	ids, err := svc.Descendants(ctx, root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{root, c1, c2, g}, ids)

	ids, err = svc.Descendants(ctx, c1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{c1, g}, ids)
}

func TestDescendantsLeafAndUnknownIDsYieldSelf(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTagService(db, nil, nil)
	ctx := context.Background()

	_, _, c2, _ := seedTagTree(t, db)

	ids, err := svc.Descendants(ctx, c2)
	require.NoError(t, err)
	assert.Equal(t, []int64{c2}, ids)

	// an id without a tag row behaves as a leaf, not an error
	ids, err = svc.Descendants(ctx, 9999)
	require.NoError(t, err)
	assert.Equal(t, []int64{9999}, ids)
}

func TestDescendantsServedFromLocalCache(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTagService(db, nil, nil)
	ctx := context.Background()

	root, c1, c2, g := seedTagTree(t, db)

	first, err := svc.Descendants(ctx, root)
	require.NoError(t, err)

	// a child added behind the cache's back is not visible until expiry
	stale := &model.Tag{Name: "late", ParentID: &c2}
	require.NoError(t, db.Create(stale).Error)

	second, err := svc.Descendants(ctx, root)
	require.NoError(t, err)
	assert.ElementsMatch(t, first, second)
	assert.ElementsMatch(t, []int64{root, c1, c2, g}, second)
}

func TestCreateTagRequiresExistingParent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTagService(db, nil, nil)
	ctx := context.Background()

	missing := int64(777)
	err := svc.Create(ctx, &model.Tag{Name: "orphan", ParentID: &missing})
	require.ErrorIs(t, err, ErrTargetNotFound)

	var count int64
	require.NoError(t, db.Model(&model.Tag{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateTagInvalidatesAncestorClosures(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTagService(db, nil, nil)
	ctx := context.Background()

	root, _, c2, _ := seedTagTree(t, db)

	// warm both closures
	_, err := svc.Descendants(ctx, root)
	require.NoError(t, err)
	_, err = svc.Descendants(ctx, c2)
	require.NoError(t, err)

	child := &model.Tag{Name: "new-child", ParentID: &c2}
	require.NoError(t, svc.Create(ctx, child))

	ids, err := svc.Descendants(ctx, c2)
	require.NoError(t, err)
	assert.Contains(t, ids, child.ID)

	ids, err = svc.Descendants(ctx, root)
	require.NoError(t, err)
	assert.Contains(t, ids, child.ID)
}

func TestGetTagByID(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTagService(db, nil, nil)
	ctx := context.Background()

	root, _, _, _ := seedTagTree(t, db)

	tag, err := svc.GetByID(ctx, root)
	require.NoError(t, err)
	require.NotNil(t, tag)
	assert.Equal(t, "root", tag.Name)

	tag, err = svc.GetByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, tag)
}
