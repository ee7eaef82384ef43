package logic

import (
	"context"
	"errors"
	"fmt"

	"github.com/blues/afs/internal/logger"
	"github.com/blues/afs/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreatePledgeRequest 捐赠请求
type CreatePledgeRequest struct {
	Amount        decimal.Decimal
	Comment       string
	Anonymous     bool
	CampaignId    int64 // 0 表示未提供
	SupporterId   int64
	SupporterRole model.Role
}

// PledgeResult 捐赠结果
type PledgeResult struct {
	PledgeId               int64           `json:"pledge_id"`
	CampaignId             int64           `json:"campaign_id"`
	CampaignFundsRaised    decimal.Decimal `json:"campaign_funds_raised"`
	CampaignFundsRemaining decimal.Decimal `json:"campaign_funds_remaining"`
	BadgesNewlyAwarded     []string        `json:"badges_newly_awarded"`
}

// PledgeUpdate 可修改的捐赠字段，金额不可修改
type PledgeUpdate struct {
	Comment     *string
	Anonymous   *bool
	IsFulfilled *bool
}

// BadgeEvaluationQueue 记录失败的徽章评估以便重试
type BadgeEvaluationQueue interface {
	Enqueue(ctx context.Context, pledge *model.PledgeModel, cause error) error
}

// PledgeLogic 捐赠业务逻辑
type PledgeLogic struct {
	db        *gorm.DB
	validator *PledgeValidator
	ledger    *CampaignLedger
	evaluator *BadgeEvaluator
	queue     BadgeEvaluationQueue
}

// NewPledgeLogic 创建捐赠业务逻辑，evaluator 和 queue 可以为 nil
func NewPledgeLogic(db *gorm.DB, validator *PledgeValidator, ledger *CampaignLedger, evaluator *BadgeEvaluator, queue BadgeEvaluationQueue) *PledgeLogic {
	return &PledgeLogic{
		db:        db,
		validator: validator,
		ledger:    ledger,
		evaluator: evaluator,
		queue:     queue,
	}
}

// Submit 创建捐赠并为活动入账
//
// 捐赠记录与入账在同一事务中提交；徽章评估在提交后执行，失败只记录日志并进入重试队列。
func (p *PledgeLogic) Submit(ctx context.Context, req *CreatePledgeRequest) (*PledgeResult, error) {
	if err := p.precheck(ctx, req); err != nil {
		return nil, err
	}

	pledge := &model.PledgeModel{
		Amount:      req.Amount,
		Comment:     req.Comment,
		Anonymous:   req.Anonymous,
		CampaignId:  req.CampaignId,
		SupporterId: req.SupporterId,
	}
	var campaign model.CampaignModel

	// 开始事务
	tx := p.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, persistenceError("开启事务失败", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := p.apply(tx, req, pledge, &campaign); err != nil {
		tx.Rollback()
		return nil, err
	}

	// 提交事务
	if err := tx.Commit().Error; err != nil {
		return nil, persistenceError("提交事务失败", err)
	}

	logger.Info("Pledge %d of %s committed to campaign %d by supporter %d",
		pledge.Id, pledge.Amount.String(), campaign.Id, pledge.SupporterId)

	return &PledgeResult{
		PledgeId:               pledge.Id,
		CampaignId:             campaign.Id,
		CampaignFundsRaised:    campaign.FundsRaised,
		CampaignFundsRemaining: p.ledger.Remaining(&campaign),
		BadgesNewlyAwarded:     p.evaluate(ctx, pledge),
	}, nil
}

// precheck 事务外的预校验
func (p *PledgeLogic) precheck(ctx context.Context, req *CreatePledgeRequest) error {
	if req.SupporterId == 0 {
		return ErrForbidden
	}
	if req.CampaignId == 0 || !req.SupporterRole.CanPledge() {
		return p.validator.Validate(req.Amount, nil, req.SupporterRole)
	}

	campaign, err := findCampaign(p.db.WithContext(ctx), req.CampaignId)
	if err != nil {
		return err
	}
	return p.validator.Validate(req.Amount, campaign, req.SupporterRole)
}

// apply 在事务中锁定活动、重新校验、写入捐赠并入账
func (p *PledgeLogic) apply(tx *gorm.DB, req *CreatePledgeRequest, pledge *model.PledgeModel, campaign *model.CampaignModel) error {
	locked, err := findCampaign(lockForUpdate(tx), req.CampaignId)
	if err != nil {
		return err
	}
	if err := p.validator.Validate(req.Amount, locked, req.SupporterRole); err != nil {
		return err
	}

	if err := tx.Create(pledge).Error; err != nil {
		return persistenceError("创建捐赠记录失败", err)
	}

	if err := p.ledger.Credit(tx, locked.Id, req.Amount); err != nil {
		return err
	}

	if err := tx.First(campaign, locked.Id).Error; err != nil {
		return persistenceError("获取活动失败", err)
	}
	return nil
}

// evaluate 执行徽章评估，任何失败都不会影响已提交的捐赠
func (p *PledgeLogic) evaluate(ctx context.Context, pledge *model.PledgeModel) (awarded []string) {
	awarded = []string{}
	if p.evaluator == nil {
		return awarded
	}

	defer func() {
		if r := recover(); r != nil {
			p.reportSideEffect(ctx, pledge, &Error{Kind: KindSideEffect, Err: fmt.Errorf("panic: %v", r)})
			awarded = []string{}
		}
	}()

	names, err := p.evaluator.Evaluate(ctx, pledge)
	if err != nil {
		p.reportSideEffect(ctx, pledge, err)
		return awarded
	}
	return append(awarded, names...)
}

func (p *PledgeLogic) reportSideEffect(ctx context.Context, pledge *model.PledgeModel, err error) {
	logger.Error("Badge evaluation failed for pledge %d: %v", pledge.Id, err)
	if p.queue == nil {
		return
	}
	if qerr := p.queue.Enqueue(context.WithoutCancel(ctx), pledge, err); qerr != nil {
		logger.Error("Failed to enqueue badge evaluation for pledge %d: %v", pledge.Id, qerr)
	}
}

// GetPledge 获取捐赠详情
func (p *PledgeLogic) GetPledge(ctx context.Context, id int64) (*model.PledgeModel, error) {
	var pledge model.PledgeModel
	if err := p.db.WithContext(ctx).First(&pledge, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPledgeNotFound
		}
		return nil, persistenceError("获取捐赠记录失败", err)
	}
	return &pledge, nil
}

// GetCampaignPledges 分页获取活动的捐赠记录
func (p *PledgeLogic) GetCampaignPledges(ctx context.Context, campaignId int64, page, pageSize int) ([]model.PledgeModel, int64, error) {
	return p.listPledges(ctx, "campaign_id = ?", campaignId, page, pageSize)
}

// GetSupporterPledges 分页获取捐赠者的捐赠记录
func (p *PledgeLogic) GetSupporterPledges(ctx context.Context, supporterId int64, page, pageSize int) ([]model.PledgeModel, int64, error) {
	return p.listPledges(ctx, "supporter_id = ?", supporterId, page, pageSize)
}

func (p *PledgeLogic) listPledges(ctx context.Context, cond string, arg int64, page, pageSize int) ([]model.PledgeModel, int64, error) {
	var pledges []model.PledgeModel
	var total int64

	page, pageSize = normalizePage(page, pageSize)

	// 获取总数
	if err := p.db.WithContext(ctx).Model(&model.PledgeModel{}).Where(cond, arg).Count(&total).Error; err != nil {
		return nil, 0, persistenceError("获取捐赠总数失败", err)
	}

	// 获取数据
	offset := (page - 1) * pageSize
	if err := p.db.WithContext(ctx).Where(cond, arg).
		Offset(offset).
		Limit(pageSize).
		Order("id DESC").
		Find(&pledges).Error; err != nil {
		return nil, 0, persistenceError("获取捐赠列表失败", err)
	}

	return pledges, total, nil
}

// UpdatePledge 修改捐赠的附加信息，仅捐赠者本人可操作
func (p *PledgeLogic) UpdatePledge(ctx context.Context, id, supporterId int64, update PledgeUpdate) (*model.PledgeModel, error) {
	pledge, err := p.GetPledge(ctx, id)
	if err != nil {
		return nil, err
	}
	if pledge.SupporterId != supporterId {
		return nil, ErrNotOwner
	}

	updates := make(map[string]interface{})
	if update.Comment != nil {
		updates["comment"] = *update.Comment
	}
	if update.Anonymous != nil {
		updates["anonymous"] = *update.Anonymous
	}
	if update.IsFulfilled != nil {
		updates["is_fulfilled"] = *update.IsFulfilled
	}
	if len(updates) == 0 {
		return pledge, nil
	}

	if err := p.db.WithContext(ctx).Model(pledge).Updates(updates).Error; err != nil {
		return nil, persistenceError("更新捐赠记录失败", err)
	}
	return p.GetPledge(ctx, id)
}

// findCampaign 按ID获取活动
func findCampaign(db *gorm.DB, id int64) (*model.CampaignModel, error) {
	var campaign model.CampaignModel
	if err := db.First(&campaign, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, persistenceError("获取活动失败", err)
	}
	return &campaign, nil
}

// normalizePage 规范分页参数
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
