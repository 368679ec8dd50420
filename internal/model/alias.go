package model

import "time"

// Alias is a user-controlled pseudonymous identity. IsMinor is copied from
// the owning user at creation and never re-derived afterwards.
type Alias struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID        int64     `gorm:"column:user_id;index;not null" json:"userId"`
	Name          string    `gorm:"column:name;type:varchar(64);not null" json:"name"`
	IsMinor       bool      `gorm:"column:is_minor" json:"isMinor"`
	AvatarImageID *int64    `gorm:"column:avatar_image_id" json:"avatarImageId"`
	ImageURL      string    `gorm:"column:image_url;type:varchar(255)" json:"imageUrl"`
	CreateTime    time.Time `gorm:"column:create_time;autoCreateTime" json:"createTime"`
	UpdateTime    time.Time `gorm:"column:update_time;autoUpdateTime" json:"updateTime"`
}

func (Alias) TableName() string { return "aliases" }

// AnonymousAliasID is the sentinel viewer id for a logged-out request.
const AnonymousAliasID int64 = 0
