package model

import (
	"time"
)

// ProgressUpdateModel 运动员发布的进展
type ProgressUpdateModel struct {
	Id         int64     `json:"id" gorm:"primaryKey"`
	CampaignId int64     `json:"campaign_id" gorm:"not null;index"`
	Title      string    `json:"title" gorm:"size:200;not null"`
	Content    string    `json:"content" gorm:"type:text"`
	DatePosted time.Time `json:"date_posted" gorm:"autoCreateTime"`
}

// TableName 自定义表名
func (ProgressUpdateModel) TableName() string {
	return "progress_update"
}
