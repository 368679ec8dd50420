package model

import "time"

// User is the account that owns aliases.
type User struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Email      string    `gorm:"column:email;type:varchar(128);uniqueIndex" json:"email"`
	NickName   string    `gorm:"column:nick_name;type:varchar(64)" json:"nickName"`
	IsMinor    bool      `gorm:"column:is_minor" json:"isMinor"`
	CreateTime time.Time `gorm:"column:create_time;autoCreateTime" json:"createTime"`
	UpdateTime time.Time `gorm:"column:update_time;autoUpdateTime" json:"updateTime"`
}

func (User) TableName() string { return "users" }
