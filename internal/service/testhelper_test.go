package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"plume-backend/internal/model"
)

// setupTestDB opens an in-memory store with the full schema so the services
// can be exercised hermetically.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// each :memory: connection is its own database; keep the pool at one
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Alias{},
		&model.Blog{},
		&model.Post{},
		&model.PostTag{},
		&model.Community{},
		&model.CommunityMember{},
		&model.Tag{},
		&model.FollowEdge{},
		&model.Notification{},
		&model.Image{},
	))
	return db
}

func newFollowService(db *gorm.DB) *FollowService {
	return NewFollowService(db, NewNotificationService(db))
}

// seedBlog creates an alias-owned blog and returns both.
func seedBlog(t *testing.T, db *gorm.DB, ownerAliasID int64) *model.Blog {
	t.Helper()
	alias := &model.Alias{ID: ownerAliasID, UserID: ownerAliasID, Name: "owner"}
	require.NoError(t, db.Create(alias).Error)
	blog := &model.Blog{AliasID: ownerAliasID, Name: "owner-blog"}
	require.NoError(t, db.Create(blog).Error)
	return blog
}

// seedTagTree builds root → {c1, c2}, c1 → g and returns the ids in order
// root, c1, c2, g.
func seedTagTree(t *testing.T, db *gorm.DB) (int64, int64, int64, int64) {
	t.Helper()
	root := &model.Tag{Name: "root"}
	require.NoError(t, db.Create(root).Error)
	c1 := &model.Tag{Name: "c1", ParentID: &root.ID}
	require.NoError(t, db.Create(c1).Error)
	c2 := &model.Tag{Name: "c2", ParentID: &root.ID}
	require.NoError(t, db.Create(c2).Error)
	g := &model.Tag{Name: "g", ParentID: &c1.ID}
	require.NoError(t, db.Create(g).Error)
	return root.ID, c1.ID, c2.ID, g.ID
}
