package model

import (
	"time"
)

// BadgeEvaluationModel 提交后未完成的徽章评估，由定时任务重试
type BadgeEvaluationModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PledgeId    int64                 `json:"pledge_id" gorm:"not null;uniqueIndex"`
	CampaignId  int64                 `json:"campaign_id" gorm:"not null;index"`
	SupporterId int64                 `json:"supporter_id" gorm:"not null"`
	Status      BadgeEvaluationStatus `json:"status" gorm:"size:20;not null;index"`
	Attempts    int                   `json:"attempts" gorm:"not null"`
	LastError   string                `json:"last_error" gorm:"type:text"`
}

// BadgeEvaluationStatus 评估状态
type BadgeEvaluationStatus string

const (
	BadgeEvaluationPending BadgeEvaluationStatus = "pending" // 待重试
	BadgeEvaluationDone    BadgeEvaluationStatus = "done"    // 已完成
	BadgeEvaluationFailed  BadgeEvaluationStatus = "failed"  // 超过重试次数
)

// TableName 自定义表名
func (BadgeEvaluationModel) TableName() string {
	return "badge_evaluation"
}
