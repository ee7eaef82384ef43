package logic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blues/afs/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// campaignEditableFields 创建者可修改的字段，goal/funds_raised/is_open/owner_id 不在其中
var campaignEditableFields = map[string]bool{
	"first_name":        true,
	"last_name":         true,
	"bio":               true,
	"age":               true,
	"sport":             true,
	"funding_breakdown": true,
	"achievements":      true,
	"image":             true,
	"video":             true,
	"progress_updates":  true,
}

// CampaignFilter 活动列表筛选条件
type CampaignFilter struct {
	Sport   string
	OwnerId int64
	IsOpen  *bool
}

// CampaignStats 活动统计信息
type CampaignStats struct {
	CampaignId           int64           `json:"campaign_id"`
	Goal                 decimal.Decimal `json:"goal"`
	FundsRaised          decimal.Decimal `json:"funds_raised"`
	FundsRemaining       decimal.Decimal `json:"funds_remaining"`
	CompletionPercentage float64         `json:"completion_percentage"`
	PledgeCount          int64           `json:"pledge_count"`
	SupporterCount       int64           `json:"supporter_count"`
	IsOpen               bool            `json:"is_open"`
}

// CampaignLogic 活动业务逻辑
type CampaignLogic struct {
	db *gorm.DB
}

// NewCampaignLogic 创建活动业务逻辑
func NewCampaignLogic(db *gorm.DB) *CampaignLogic {
	return &CampaignLogic{db: db}
}

// CreateCampaign 创建活动，仅运动员角色可操作
func (c *CampaignLogic) CreateCampaign(ctx context.Context, ownerId int64, role model.Role, campaign *model.CampaignModel) error {
	if !role.CanCreateCampaign() {
		return ErrForbidden
	}
	if err := c.validateCampaign(campaign); err != nil {
		return err
	}

	// 设置默认值
	campaign.Id = 0
	campaign.OwnerId = ownerId
	campaign.FundsRaised = decimal.Zero
	campaign.IsOpen = true

	if err := c.db.WithContext(ctx).Create(campaign).Error; err != nil {
		return persistenceError("创建活动失败", err)
	}
	return nil
}

// GetCampaign 获取活动详情
func (c *CampaignLogic) GetCampaign(ctx context.Context, id int64) (*model.CampaignModel, error) {
	return findCampaign(c.db.WithContext(ctx), id)
}

// GetCampaigns 分页获取活动列表
func (c *CampaignLogic) GetCampaigns(ctx context.Context, filter CampaignFilter, page, pageSize int) ([]model.CampaignModel, int64, error) {
	var campaigns []model.CampaignModel
	var total int64

	page, pageSize = normalizePage(page, pageSize)

	scope := func(db *gorm.DB) *gorm.DB {
		if filter.Sport != "" {
			db = db.Where("sport = ?", filter.Sport)
		}
		if filter.OwnerId > 0 {
			db = db.Where("owner_id = ?", filter.OwnerId)
		}
		if filter.IsOpen != nil {
			db = db.Where("is_open = ?", *filter.IsOpen)
		}
		return db
	}

	if err := c.db.WithContext(ctx).Model(&model.CampaignModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, persistenceError("获取活动总数失败", err)
	}

	offset := (page - 1) * pageSize
	if err := c.db.WithContext(ctx).Scopes(scope).
		Offset(offset).
		Limit(pageSize).
		Order("id DESC").
		Find(&campaigns).Error; err != nil {
		return nil, 0, persistenceError("获取活动列表失败", err)
	}

	return campaigns, total, nil
}

// UpdateCampaign 修改活动资料，仅创建者可操作，不能修改筹款字段
func (c *CampaignLogic) UpdateCampaign(ctx context.Context, id, ownerId int64, role model.Role, updates map[string]interface{}) (*model.CampaignModel, error) {
	if !role.CanCreateCampaign() {
		return nil, ErrForbidden
	}
	for field := range updates {
		if !campaignEditableFields[field] {
			return nil, validationError(ErrInvalidCampaign, "字段不可修改: "+field)
		}
	}

	campaign, err := c.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign.OwnerId != ownerId {
		return nil, ErrNotOwner
	}
	if len(updates) == 0 {
		return campaign, nil
	}

	// 在副本上应用修改并整体校验，类型不符的值视为校验错误
	updated, err := applyCampaignUpdates(campaign, updates)
	if err != nil {
		return nil, err
	}
	if err := c.validateCampaign(updated); err != nil {
		return nil, err
	}

	fields := make([]string, 0, len(updates))
	for field := range updates {
		fields = append(fields, field)
	}
	if err := c.db.WithContext(ctx).Model(campaign).Select(fields).Updates(updated).Error; err != nil {
		return nil, persistenceError("更新活动失败", err)
	}
	return c.GetCampaign(ctx, id)
}

// applyCampaignUpdates 返回应用了 updates 的活动副本
func applyCampaignUpdates(campaign *model.CampaignModel, updates map[string]interface{}) (*model.CampaignModel, error) {
	data, err := json.Marshal(updates)
	if err != nil {
		return nil, validationError(ErrInvalidCampaign, err.Error())
	}
	updated := *campaign
	if err := json.Unmarshal(data, &updated); err != nil {
		return nil, validationError(ErrInvalidCampaign, "字段类型错误")
	}
	return &updated, nil
}

// DeleteCampaign 删除活动及其捐赠、进展和待评估记录
func (c *CampaignLogic) DeleteCampaign(ctx context.Context, id, ownerId int64) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		campaign, err := findCampaign(lockForUpdate(tx), id)
		if err != nil {
			return err
		}
		if campaign.OwnerId != ownerId {
			return ErrNotOwner
		}

		for _, m := range []interface{}{
			&model.PledgeModel{},
			&model.ProgressUpdateModel{},
			&model.BadgeEvaluationModel{},
		} {
			if err := tx.Where("campaign_id = ?", id).Delete(m).Error; err != nil {
				return persistenceError("删除活动关联记录失败", err)
			}
		}

		if err := tx.Delete(&model.CampaignModel{}, id).Error; err != nil {
			return persistenceError("删除活动失败", err)
		}
		return nil
	})
}

// GetCampaignStats 获取活动统计信息
func (c *CampaignLogic) GetCampaignStats(ctx context.Context, id int64) (*CampaignStats, error) {
	campaign, err := c.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}

	stats := &CampaignStats{
		CampaignId:     campaign.Id,
		Goal:           campaign.Goal,
		FundsRaised:    campaign.FundsRaised,
		FundsRemaining: campaign.FundsRemaining(),
		IsOpen:         campaign.IsOpen,
	}

	if err := c.db.WithContext(ctx).Model(&model.PledgeModel{}).Where("campaign_id = ?", id).Count(&stats.PledgeCount).Error; err != nil {
		return nil, persistenceError("获取捐赠数量失败", err)
	}

	if err := c.db.WithContext(ctx).Model(&model.PledgeModel{}).Where("campaign_id = ?", id).Distinct("supporter_id").Count(&stats.SupporterCount).Error; err != nil {
		return nil, persistenceError("获取捐赠者数量失败", err)
	}

	// 计算完成百分比
	if campaign.Goal.IsPositive() {
		stats.CompletionPercentage = campaign.FundsRaised.Div(campaign.Goal).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
	}

	return stats, nil
}

// validateCampaign 验证活动数据
func (c *CampaignLogic) validateCampaign(campaign *model.CampaignModel) error {
	if strings.TrimSpace(campaign.FirstName) == "" || strings.TrimSpace(campaign.LastName) == "" {
		return validationError(ErrInvalidCampaign, "运动员姓名不能为空")
	}
	if !campaign.Goal.IsPositive() {
		return validationError(ErrInvalidCampaign, "目标金额必须大于0")
	}
	if !model.FitsMoneyColumn(campaign.Goal) {
		return validationError(ErrInvalidCampaign, "目标金额最多两位小数且不能超过 "+model.MaxMoney.String())
	}
	if campaign.Age < 0 {
		return validationError(ErrInvalidCampaign, fmt.Sprintf("年龄无效: %d", campaign.Age))
	}
	return nil
}
