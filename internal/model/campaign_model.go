package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CampaignModel 运动员筹款活动
type CampaignModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 运动员信息
	FirstName        string `json:"first_name" gorm:"not null"`
	LastName         string `json:"last_name" gorm:"not null"`
	Bio              string `json:"bio" gorm:"type:text"`
	Age              int    `json:"age"`
	Sport            string `json:"sport"`
	FundingBreakdown string `json:"funding_breakdown" gorm:"type:text"`
	Achievements     string `json:"achievements" gorm:"type:text"`
	Image            string `json:"image"`
	Video            string `json:"video"`
	ProgressUpdates  string `json:"progress_updates" gorm:"type:text"`

	// 筹款信息，funds_raised 只能通过账本入账修改
	Goal        decimal.Decimal `json:"goal" gorm:"type:decimal(14,2);not null"`
	FundsRaised decimal.Decimal `json:"funds_raised" gorm:"type:decimal(14,2);not null;default:0"`
	IsOpen      bool            `json:"is_open" gorm:"not null;index"`

	OwnerId int64 `json:"owner_id" gorm:"not null;index"`
}

// FundsRemaining 剩余目标金额，超额时为 0
func (c *CampaignModel) FundsRemaining() decimal.Decimal {
	remaining := c.Goal.Sub(c.FundsRaised)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// TableName 自定义表名
func (CampaignModel) TableName() string {
	return "campaign"
}
