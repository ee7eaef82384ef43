package logic

import (
	"github.com/blues/afs/internal/model"
	"github.com/shopspring/decimal"
)

// PledgeValidator 捐赠校验，不修改任何状态
type PledgeValidator struct {
	minAmount decimal.Decimal
}

// NewPledgeValidator 创建捐赠校验器，minAmount 小于 1 时按 1 处理
func NewPledgeValidator(minAmount decimal.Decimal) *PledgeValidator {
	if minAmount.LessThan(decimal.NewFromInt(1)) {
		minAmount = decimal.NewFromInt(1)
	}
	return &PledgeValidator{minAmount: minAmount}
}

// MinAmount 最小捐赠金额
func (v *PledgeValidator) MinAmount() decimal.Decimal {
	return v.minAmount
}

// Validate 校验捐赠请求，campaign 为 nil 表示未提供活动
func (v *PledgeValidator) Validate(amount decimal.Decimal, campaign *model.CampaignModel, role model.Role) error {
	if !role.CanPledge() {
		return ErrForbidden
	}
	if campaign == nil {
		return ErrMissingCampaign
	}
	if !amount.IsPositive() {
		return validationError(ErrInvalidAmount, "金额必须大于0")
	}
	if !model.FitsMoneyColumn(amount) {
		return validationError(ErrInvalidAmount, "金额最多两位小数且不能超过 "+model.MaxMoney.String())
	}
	if amount.LessThan(v.minAmount) {
		return validationError(ErrInvalidAmount, "金额低于最小限制 "+v.minAmount.String())
	}
	if !campaign.IsOpen {
		return ErrCampaignClosed
	}
	return nil
}
