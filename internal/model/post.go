package model

import "time"

// Post is a single published entry on a blog.
type Post struct {
	ID         int64     `gorm:"column:id;primaryKey" json:"id"`
	BlogID     int64     `gorm:"column:blog_id;index;not null" json:"blogId"`
	AliasID    int64     `gorm:"column:alias_id;index;not null" json:"aliasId"`
	Title      string    `gorm:"column:title;type:varchar(128)" json:"title"`
	Content    string    `gorm:"column:content;type:text" json:"content"`
	CreateTime time.Time `gorm:"column:create_time;autoCreateTime" json:"createTime"`
	UpdateTime time.Time `gorm:"column:update_time;autoUpdateTime" json:"updateTime"`
}

func (Post) TableName() string { return "posts" }

// PostTag links a post to a tag; the feed filter reads these to apply the
// viewer's relevance sets.
type PostTag struct {
	ID     int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PostID int64 `gorm:"column:post_id;uniqueIndex:idx_post_tag;not null" json:"postId"`
	TagID  int64 `gorm:"column:tag_id;uniqueIndex:idx_post_tag;not null" json:"tagId"`
}

func (PostTag) TableName() string { return "post_tags" }
