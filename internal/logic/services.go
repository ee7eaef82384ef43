package logic

import (
	"github.com/blues/afs/internal/config"
	"github.com/blues/afs/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Services 组装好的业务逻辑和存储
type Services struct {
	Campaigns   *CampaignLogic
	Ledger      *CampaignLedger
	Pledges     *PledgeLogic
	Progress    *ProgressUpdateLogic
	Evaluator   *BadgeEvaluator
	Badges      *repository.BadgeRepository
	Evaluations *repository.BadgeEvaluationRepository
}

// NewServices 按配置组装业务逻辑
func NewServices(db *gorm.DB, cfg *config.Config) *Services {
	badges := repository.NewBadgeRepository(db)
	evaluations := repository.NewBadgeEvaluationRepository(db)
	evaluator := NewBadgeEvaluator(badges, badges, repository.NewPledgeStatsRepository(db), BadgeRulesFrom(cfg.Badge))
	ledger := NewCampaignLedger(db)
	validator := NewPledgeValidator(decimal.NewFromFloat(cfg.Pledge.MinAmount))

	return &Services{
		Campaigns:   NewCampaignLogic(db),
		Ledger:      ledger,
		Pledges:     NewPledgeLogic(db, validator, ledger, evaluator, evaluations),
		Progress:    NewProgressUpdateLogic(db),
		Evaluator:   evaluator,
		Badges:      badges,
		Evaluations: evaluations,
	}
}

// BadgeRulesFrom 从配置生成徽章规则，未配置的项使用默认值
func BadgeRulesFrom(cfg config.BadgeConfig) BadgeRules {
	rules := DefaultBadgeRules()
	if cfg.TopDonorName != "" {
		rules.TopDonorName = cfg.TopDonorName
	}
	if cfg.FirstDonorName != "" {
		rules.FirstDonorName = cfg.FirstDonorName
	}
	if cfg.TopDonorThreshold > 0 {
		rules.TopDonorThreshold = decimal.NewFromFloat(cfg.TopDonorThreshold)
	}
	return rules
}
