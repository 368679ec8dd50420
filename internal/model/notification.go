package model

import "time"

// NotificationFollow is the type written when an alias gains a follower.
const NotificationFollow = "follow"

// Notification is delivered to a target alias. For follow notifications the
// post/comment references stay nil.
type Notification struct {
	ID               int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Type             string    `gorm:"column:type;type:varchar(16);not null" json:"type"`
	SourceAliasID    int64     `gorm:"column:source_alias_id;index;not null" json:"sourceAliasId"`
	TargetAliasID    int64     `gorm:"column:target_alias_id;index;not null" json:"targetAliasId"`
	TargetBlogPostID *int64    `gorm:"column:target_blog_post_id" json:"targetBlogPostId"`
	TargetCommentID  *int64    `gorm:"column:target_comment_id" json:"targetCommentId"`
	IsSeen           bool      `gorm:"column:is_seen;default:false" json:"isSeen"`
	CreateTime       time.Time `gorm:"column:create_time;autoCreateTime" json:"createTime"`
	UpdateTime       time.Time `gorm:"column:update_time;autoUpdateTime" json:"updateTime"`
}

func (Notification) TableName() string { return "notifications" }
