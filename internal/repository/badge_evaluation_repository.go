package repository

import (
	"context"

	"github.com/blues/afs/internal/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BadgeEvaluationRepository 待重试的徽章评估
type BadgeEvaluationRepository struct {
	db *gorm.DB
}

// NewBadgeEvaluationRepository 创建徽章评估存储
func NewBadgeEvaluationRepository(db *gorm.DB) *BadgeEvaluationRepository {
	return &BadgeEvaluationRepository{db: db}
}

// Enqueue 记录一次失败的评估，同一捐赠只保留一条
func (r *BadgeEvaluationRepository) Enqueue(ctx context.Context, pledge *model.PledgeModel, cause error) error {
	record := model.BadgeEvaluationModel{
		PledgeId:    pledge.Id,
		CampaignId:  pledge.CampaignId,
		SupporterId: pledge.SupporterId,
		Status:      model.BadgeEvaluationPending,
		LastError:   cause.Error(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "pledge_id"}}, DoNothing: true}).
		Create(&record).Error
	if err != nil {
		return errors.Wrapf(err, "failed to enqueue badge evaluation for pledge %d", pledge.Id)
	}
	return nil
}

// ListPending 获取待重试的评估
func (r *BadgeEvaluationRepository) ListPending(ctx context.Context, limit int) ([]model.BadgeEvaluationModel, error) {
	var records []model.BadgeEvaluationModel
	err := r.db.WithContext(ctx).
		Where("status = ?", model.BadgeEvaluationPending).
		Order("id").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list pending badge evaluations")
	}
	return records, nil
}

// MarkDone 标记评估完成
func (r *BadgeEvaluationRepository) MarkDone(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).
		Model(&model.BadgeEvaluationModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     model.BadgeEvaluationDone,
			"last_error": "",
		}).Error
	return errors.Wrapf(err, "failed to mark badge evaluation %d done", id)
}

// MarkFailed 记录一次失败，达到 maxAttempts 后不再重试
func (r *BadgeEvaluationRepository) MarkFailed(ctx context.Context, record *model.BadgeEvaluationModel, cause error, maxAttempts int) error {
	attempts := record.Attempts + 1
	status := model.BadgeEvaluationPending
	if attempts >= maxAttempts {
		status = model.BadgeEvaluationFailed
	}

	err := r.db.WithContext(ctx).
		Model(&model.BadgeEvaluationModel{}).
		Where("id = ?", record.Id).
		Updates(map[string]interface{}{
			"status":     status,
			"attempts":   attempts,
			"last_error": cause.Error(),
		}).Error
	if err != nil {
		return errors.Wrapf(err, "failed to record badge evaluation %d failure", record.Id)
	}

	record.Attempts = attempts
	record.Status = status
	return nil
}
