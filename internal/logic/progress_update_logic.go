package logic

import (
	"context"
	"errors"

	"github.com/blues/afs/internal/model"
	"gorm.io/gorm"
)

var ErrProgressUpdateNotFound = newError(KindNotFound, "进展不存在")

// ProgressUpdateLogic 活动进展业务逻辑
type ProgressUpdateLogic struct {
	db *gorm.DB
}

// NewProgressUpdateLogic 创建活动进展业务逻辑
func NewProgressUpdateLogic(db *gorm.DB) *ProgressUpdateLogic {
	return &ProgressUpdateLogic{db: db}
}

// CreateProgressUpdate 发布进展，仅活动创建者可操作
func (p *ProgressUpdateLogic) CreateProgressUpdate(ctx context.Context, ownerId int64, update *model.ProgressUpdateModel) error {
	if update.Title == "" {
		return validationError(ErrInvalidCampaign, "进展标题不能为空")
	}

	campaign, err := findCampaign(p.db.WithContext(ctx), update.CampaignId)
	if err != nil {
		return err
	}
	if campaign.OwnerId != ownerId {
		return ErrNotOwner
	}

	update.Id = 0
	if err := p.db.WithContext(ctx).Create(update).Error; err != nil {
		return persistenceError("发布进展失败", err)
	}
	return nil
}

// GetProgressUpdate 获取进展详情
func (p *ProgressUpdateLogic) GetProgressUpdate(ctx context.Context, id int64) (*model.ProgressUpdateModel, error) {
	var update model.ProgressUpdateModel
	if err := p.db.WithContext(ctx).First(&update, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgressUpdateNotFound
		}
		return nil, persistenceError("获取进展失败", err)
	}
	return &update, nil
}

// GetCampaignProgressUpdates 获取活动的全部进展，最新的在前
func (p *ProgressUpdateLogic) GetCampaignProgressUpdates(ctx context.Context, campaignId int64) ([]model.ProgressUpdateModel, error) {
	if _, err := findCampaign(p.db.WithContext(ctx), campaignId); err != nil {
		return nil, err
	}

	var updates []model.ProgressUpdateModel
	if err := p.db.WithContext(ctx).
		Where("campaign_id = ?", campaignId).
		Order("date_posted DESC, id DESC").
		Find(&updates).Error; err != nil {
		return nil, persistenceError("获取进展列表失败", err)
	}
	return updates, nil
}
