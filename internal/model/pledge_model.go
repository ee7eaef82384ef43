package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PledgeModel 捐赠记录，金额、活动和捐赠者在创建后不可修改
type PledgeModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(14,2);not null"`
	Comment     string          `json:"comment" gorm:"size:200"`
	Anonymous   bool            `json:"anonymous" gorm:"not null"`
	IsFulfilled bool            `json:"is_fulfilled" gorm:"not null"`

	CampaignId  int64 `json:"campaign_id" gorm:"not null;index"`
	SupporterId int64 `json:"supporter_id" gorm:"not null;index"`
}

// TableName 自定义表名
func (PledgeModel) TableName() string {
	return "pledge"
}
