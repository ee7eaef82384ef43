package repository

import (
	"context"
	"time"

	"github.com/blues/afs/internal/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BadgeRepository 徽章目录与获得者存储
type BadgeRepository struct {
	db *gorm.DB
}

// NewBadgeRepository 创建徽章存储
func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{db: db}
}

// FindBadge 按名称查找徽章，不存在时返回 nil, nil
func (r *BadgeRepository) FindBadge(ctx context.Context, name string) (*model.BadgeModel, error) {
	var badge model.BadgeModel
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&badge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to find badge %q", name)
	}
	return &badge, nil
}

// AwardBadge 幂等地授予徽章，仅在新增获得者时刷新 date_awarded
func (r *BadgeRepository) AwardBadge(ctx context.Context, badgeId, supporterId int64, at time.Time) (bool, error) {
	added := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member := model.BadgeSupporterModel{
			BadgeId:     badgeId,
			SupporterId: supporterId,
			AwardedAt:   at,
		}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&member)
		if result.Error != nil {
			return errors.Wrap(result.Error, "failed to insert badge supporter")
		}
		if result.RowsAffected == 0 {
			return nil
		}

		if err := tx.Model(&model.BadgeModel{}).Where("id = ?", badgeId).Update("date_awarded", at).Error; err != nil {
			return errors.Wrap(err, "failed to refresh badge award date")
		}
		added = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

// ListBadges 获取全部徽章及获得者数量
func (r *BadgeRepository) ListBadges(ctx context.Context) ([]BadgeSummary, error) {
	var badges []model.BadgeModel
	if err := r.db.WithContext(ctx).Order("name").Find(&badges).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list badges")
	}

	var counts []struct {
		BadgeId int64
		Total   int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.BadgeSupporterModel{}).
		Select("badge_id, COUNT(*) AS total").
		Group("badge_id").
		Scan(&counts).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to count badge supporters")
	}

	totals := make(map[int64]int64, len(counts))
	for _, c := range counts {
		totals[c.BadgeId] = c.Total
	}

	summaries := make([]BadgeSummary, 0, len(badges))
	for _, b := range badges {
		summaries = append(summaries, BadgeSummary{
			Id:             b.Id,
			Name:           b.Name,
			Description:    b.Description,
			DateAwarded:    b.DateAwarded,
			SupporterCount: totals[b.Id],
		})
	}
	return summaries, nil
}

// ListSupporterBadges 获取捐赠者持有的徽章
func (r *BadgeRepository) ListSupporterBadges(ctx context.Context, supporterId int64) ([]model.BadgeModel, error) {
	var badges []model.BadgeModel
	err := r.db.WithContext(ctx).
		Joins("JOIN badge_supporter ON badge_supporter.badge_id = badge.id").
		Where("badge_supporter.supporter_id = ?", supporterId).
		Order("badge.name").
		Find(&badges).Error
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list badges of supporter %d", supporterId)
	}
	return badges, nil
}

// EnsureBadges 按名称预置徽章，已存在的跳过，返回新建数量
func (r *BadgeRepository) EnsureBadges(ctx context.Context, badges []model.BadgeModel) (int, error) {
	created := 0
	for i := range badges {
		result := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
			Create(&badges[i])
		if result.Error != nil {
			return created, errors.Wrapf(result.Error, "failed to create badge %q", badges[i].Name)
		}
		created += int(result.RowsAffected)
	}
	return created, nil
}

// BadgeSummary 徽章及获得者数量
type BadgeSummary struct {
	Id             int64      `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	DateAwarded    *time.Time `json:"date_awarded"`
	SupporterCount int64      `json:"supporter_count"`
}
