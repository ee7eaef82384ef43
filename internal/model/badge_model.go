package model

import (
	"time"
)

// BadgeModel 徽章定义，由运维预先创建
type BadgeModel struct {
	Id          int64      `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Name        string     `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Description string     `json:"description" gorm:"type:text"`
	DateAwarded *time.Time `json:"date_awarded"` // 最近一次新增获得者的时间
}

// TableName 自定义表名
func (BadgeModel) TableName() string {
	return "badge"
}

// BadgeSupporterModel 徽章获得者，联合主键保证同一徽章只授予一次
type BadgeSupporterModel struct {
	BadgeId     int64     `json:"badge_id" gorm:"primaryKey;autoIncrement:false"`
	SupporterId int64     `json:"supporter_id" gorm:"primaryKey;autoIncrement:false;index"`
	AwardedAt   time.Time `json:"awarded_at" gorm:"not null"`
}

// TableName 自定义表名
func (BadgeSupporterModel) TableName() string {
	return "badge_supporter"
}
