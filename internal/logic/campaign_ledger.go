package logic

import (
	"context"
	"errors"

	"github.com/blues/afs/internal/database"
	"github.com/blues/afs/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CampaignLedger 活动账本，funds_raised 的唯一写入入口
type CampaignLedger struct {
	db *gorm.DB
}

// NewCampaignLedger 创建活动账本
func NewCampaignLedger(db *gorm.DB) *CampaignLedger {
	return &CampaignLedger{db: db}
}

// Remaining 剩余目标金额，不会为负
func (l *CampaignLedger) Remaining(campaign *model.CampaignModel) decimal.Decimal {
	return campaign.FundsRemaining()
}

// Credit 在事务 tx 中为活动入账
//
// 使用条件更新完成读-改-写，并发入账不会互相覆盖；活动已关闭时不修改任何数据。
func (l *CampaignLedger) Credit(tx *gorm.DB, campaignId int64, amount decimal.Decimal) error {
	if !amount.IsPositive() || !model.FitsMoneyColumn(amount) {
		return ErrInvalidAmount
	}

	raised, err := creditedValue(tx, campaignId, amount)
	if err != nil {
		return err
	}

	result := tx.Model(&model.CampaignModel{}).
		Where("id = ? AND is_open = ?", campaignId, true).
		Update("funds_raised", raised)
	if result.Error != nil {
		return persistenceError("活动入账失败", result.Error)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	// 未更新任何行: 活动不存在或已关闭
	var count int64
	if err := tx.Model(&model.CampaignModel{}).Where("id = ?", campaignId).Count(&count).Error; err != nil {
		return persistenceError("查询活动失败", err)
	}
	if count == 0 {
		return ErrCampaignNotFound
	}
	return ErrCampaignClosed
}

// creditedValue 入账后的 funds_raised
//
// sqlite 的 decimal 列按浮点存储，在库内相加会产生误差，改为读出后用 decimal 计算；
// 单连接保证读写之间没有其他入账。
func creditedValue(tx *gorm.DB, campaignId int64, amount decimal.Decimal) (interface{}, error) {
	if tx.Dialector.Name() != database.DriverSQLite {
		return gorm.Expr("funds_raised + ?", amount), nil
	}

	var current model.CampaignModel
	err := tx.Select("id", "funds_raised").First(&current, campaignId).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, persistenceError("查询活动失败", err)
	}
	return current.FundsRaised.Add(amount), nil
}

// Close 关闭活动，仅创建者可操作
func (l *CampaignLedger) Close(ctx context.Context, campaignId, ownerId int64) (*model.CampaignModel, error) {
	return l.setOpen(ctx, campaignId, ownerId, false)
}

// Reopen 重新开放活动，仅创建者可操作
func (l *CampaignLedger) Reopen(ctx context.Context, campaignId, ownerId int64) (*model.CampaignModel, error) {
	return l.setOpen(ctx, campaignId, ownerId, true)
}

func (l *CampaignLedger) setOpen(ctx context.Context, campaignId, ownerId int64, open bool) (*model.CampaignModel, error) {
	var campaign model.CampaignModel
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&campaign, campaignId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCampaignNotFound
			}
			return persistenceError("获取活动失败", err)
		}
		if campaign.OwnerId != ownerId {
			return ErrNotOwner
		}
		if campaign.IsOpen == open {
			return nil
		}
		if err := tx.Model(&campaign).Update("is_open", open).Error; err != nil {
			return persistenceError("更新活动状态失败", err)
		}
		campaign.IsOpen = open
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

// lockForUpdate 对查询加行锁，sqlite 依赖单连接串行
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == database.DriverSQLite {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
