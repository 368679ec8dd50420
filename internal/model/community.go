package model

import "time"

// Community is a shared publishing space aliases can join or follow.
type Community struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(64);not null" json:"name"`
	Description string    `gorm:"column:description;type:varchar(255)" json:"description"`
	CreateTime  time.Time `gorm:"column:create_time;autoCreateTime" json:"createTime"`
	UpdateTime  time.Time `gorm:"column:update_time;autoUpdateTime" json:"updateTime"`
}

func (Community) TableName() string { return "communities" }

// CommunityMember records actual membership, which is distinct from merely
// following a community's output.
type CommunityMember struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CommunityID int64     `gorm:"column:community_id;uniqueIndex:idx_community_member;not null" json:"communityId"`
	AliasID     int64     `gorm:"column:alias_id;uniqueIndex:idx_community_member;not null" json:"aliasId"`
	CreateTime  time.Time `gorm:"column:create_time;autoCreateTime" json:"createTime"`
}

func (CommunityMember) TableName() string { return "community_members" }
