package logic

import (
	"context"
	"time"

	"github.com/blues/afs/internal/logger"
	"github.com/blues/afs/internal/model"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// BadgeCatalog 只读徽章目录
type BadgeCatalog interface {
	// FindBadge 按名称查找徽章，不存在时返回 nil, nil
	FindBadge(ctx context.Context, name string) (*model.BadgeModel, error)
}

// BadgeAwarder 授予徽章，重复授予返回 false
type BadgeAwarder interface {
	AwardBadge(ctx context.Context, badgeId, supporterId int64, at time.Time) (bool, error)
}

// PledgeStats 捐赠统计
type PledgeStats interface {
	// TotalPledged 捐赠者在所有活动上的捐赠总额
	TotalPledged(ctx context.Context, supporterId int64) (decimal.Decimal, error)
	// FirstPledgeId 活动的第一笔捐赠ID，没有捐赠时返回 0
	FirstPledgeId(ctx context.Context, campaignId int64) (int64, error)
}

// BadgeRules 徽章规则
type BadgeRules struct {
	TopDonorName      string
	FirstDonorName    string
	TopDonorThreshold decimal.Decimal
}

// DefaultBadgeRules 默认徽章规则
func DefaultBadgeRules() BadgeRules {
	return BadgeRules{
		TopDonorName:      "Top Donor",
		FirstDonorName:    "First Donor",
		TopDonorThreshold: decimal.NewFromInt(100),
	}
}

// BadgeEvaluator 捐赠提交后的徽章评估，只读取捐赠数据
type BadgeEvaluator struct {
	catalog BadgeCatalog
	awarder BadgeAwarder
	stats   PledgeStats
	rules   BadgeRules
	now     func() time.Time
}

// NewBadgeEvaluator 创建徽章评估器
func NewBadgeEvaluator(catalog BadgeCatalog, awarder BadgeAwarder, stats PledgeStats, rules BadgeRules) *BadgeEvaluator {
	return &BadgeEvaluator{
		catalog: catalog,
		awarder: awarder,
		stats:   stats,
		rules:   rules,
		now:     time.Now,
	}
}

// Evaluate 评估捐赠者是否获得新徽章，返回本次新授予的徽章名称
//
// 两项检查相互独立，一项失败不影响另一项；返回的错误为 KindSideEffect。
func (e *BadgeEvaluator) Evaluate(ctx context.Context, pledge *model.PledgeModel) ([]string, error) {
	var (
		awarded []string
		result  *multierror.Error
	)

	if name, err := e.checkTopDonor(ctx, pledge); err != nil {
		result = multierror.Append(result, err)
	} else if name != "" {
		awarded = append(awarded, name)
	}

	if name, err := e.checkFirstDonor(ctx, pledge); err != nil {
		result = multierror.Append(result, err)
	} else if name != "" {
		awarded = append(awarded, name)
	}

	if err := result.ErrorOrNil(); err != nil {
		return awarded, &Error{Kind: KindSideEffect, Err: err}
	}
	return awarded, nil
}

func (e *BadgeEvaluator) checkTopDonor(ctx context.Context, pledge *model.PledgeModel) (string, error) {
	total, err := e.stats.TotalPledged(ctx, pledge.SupporterId)
	if err != nil {
		return "", errors.Wrapf(err, "failed to sum pledges of supporter %d", pledge.SupporterId)
	}
	if total.LessThan(e.rules.TopDonorThreshold) {
		return "", nil
	}
	return e.award(ctx, e.rules.TopDonorName, pledge.SupporterId)
}

func (e *BadgeEvaluator) checkFirstDonor(ctx context.Context, pledge *model.PledgeModel) (string, error) {
	firstId, err := e.stats.FirstPledgeId(ctx, pledge.CampaignId)
	if err != nil {
		return "", errors.Wrapf(err, "failed to find first pledge of campaign %d", pledge.CampaignId)
	}
	if firstId != pledge.Id {
		return "", nil
	}
	return e.award(ctx, e.rules.FirstDonorName, pledge.SupporterId)
}

// award 授予徽章，徽章不存在时跳过
func (e *BadgeEvaluator) award(ctx context.Context, name string, supporterId int64) (string, error) {
	badge, err := e.catalog.FindBadge(ctx, name)
	if err != nil {
		return "", errors.Wrapf(err, "failed to look up badge %q", name)
	}
	if badge == nil {
		logger.Debug("Badge %q not provisioned, skipping", name)
		return "", nil
	}

	added, err := e.awarder.AwardBadge(ctx, badge.Id, supporterId, e.now())
	if err != nil {
		return "", errors.Wrapf(err, "failed to award badge %q to supporter %d", name, supporterId)
	}
	if !added {
		return "", nil
	}

	logger.Info("Awarded badge %q to supporter %d", name, supporterId)
	return name, nil
}
