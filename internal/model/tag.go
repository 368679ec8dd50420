package model

import "time"

// Tag is a node in the tag hierarchy. ParentID is nil for roots.
type Tag struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name       string    `gorm:"column:name;type:varchar(64);uniqueIndex;not null" json:"name"`
	ParentID   *int64    `gorm:"column:parent_id;index" json:"parentId"`
	CreateTime time.Time `gorm:"column:create_time;autoCreateTime" json:"createTime"`
	UpdateTime time.Time `gorm:"column:update_time;autoUpdateTime" json:"updateTime"`
}

func (Tag) TableName() string { return "tags" }
