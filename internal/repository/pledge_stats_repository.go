package repository

import (
	"context"

	"github.com/blues/afs/internal/model"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PledgeStatsRepository 捐赠统计查询
type PledgeStatsRepository struct {
	db *gorm.DB
}

// NewPledgeStatsRepository 创建捐赠统计查询
func NewPledgeStatsRepository(db *gorm.DB) *PledgeStatsRepository {
	return &PledgeStatsRepository{db: db}
}

// TotalPledged 捐赠者在所有活动上的捐赠总额
func (r *PledgeStatsRepository) TotalPledged(ctx context.Context, supporterId int64) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&model.PledgeModel{}).
		Select("COALESCE(ROUND(SUM(amount), 2), 0) AS total").
		Where("supporter_id = ?", supporterId).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "failed to sum pledges of supporter %d", supporterId)
	}
	return result.Total, nil
}

// FirstPledgeId 活动的第一笔捐赠ID，没有捐赠时返回 0
func (r *PledgeStatsRepository) FirstPledgeId(ctx context.Context, campaignId int64) (int64, error) {
	var result struct {
		FirstId int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.PledgeModel{}).
		Select("COALESCE(MIN(id), 0) AS first_id").
		Where("campaign_id = ?", campaignId).
		Scan(&result).Error
	if err != nil {
		return 0, errors.Wrapf(err, "failed to find first pledge of campaign %d", campaignId)
	}
	return result.FirstId, nil
}
