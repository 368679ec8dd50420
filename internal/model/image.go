package model

import "time"

// Image is a stored media record; the bytes live in the external media
// service, this row only carries the serving URL.
type Image struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	URL        string    `gorm:"column:url;type:varchar(255);not null" json:"url"`
	SourceURL  string    `gorm:"column:source_url;type:varchar(255)" json:"sourceUrl"`
	CreateTime time.Time `gorm:"column:create_time;autoCreateTime" json:"createTime"`
}

func (Image) TableName() string { return "images" }
