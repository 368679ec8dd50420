package model

import "time"

// Blog is a publishing surface owned by exactly one alias.
type Blog struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	AliasID     int64     `gorm:"column:alias_id;index;not null" json:"aliasId"`
	Name        string    `gorm:"column:name;type:varchar(64);not null" json:"name"`
	Description string    `gorm:"column:description;type:varchar(255)" json:"description"`
	CreateTime  time.Time `gorm:"column:create_time;autoCreateTime" json:"createTime"`
	UpdateTime  time.Time `gorm:"column:update_time;autoUpdateTime" json:"updateTime"`
}

func (Blog) TableName() string { return "blogs" }
