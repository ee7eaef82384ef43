package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blues/afs/internal/config"
	"github.com/blues/afs/internal/logger"
	"github.com/blues/afs/internal/logic"
	"github.com/blues/afs/internal/model"
	"github.com/go-co-op/gocron/v2"
	"github.com/panjf2000/ants/v2"
)

// EvaluationStore 待重试评估的存储
type EvaluationStore interface {
	ListPending(ctx context.Context, limit int) ([]model.BadgeEvaluationModel, error)
	MarkDone(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, record *model.BadgeEvaluationModel, cause error, maxAttempts int) error
}

// PledgeFinder 按ID读取捐赠
type PledgeFinder interface {
	GetPledge(ctx context.Context, id int64) (*model.PledgeModel, error)
}

// Evaluator 徽章评估
type Evaluator interface {
	Evaluate(ctx context.Context, pledge *model.PledgeModel) ([]string, error)
}

// BadgeRetryJob 重新执行提交后失败的徽章评估
type BadgeRetryJob struct {
	store     EvaluationStore
	pledges   PledgeFinder
	evaluator Evaluator
	config    config.TaskConfig
}

// NewBadgeRetryJob 创建徽章重试任务
func NewBadgeRetryJob(store EvaluationStore, pledges PledgeFinder, evaluator Evaluator, cfg config.TaskConfig) *BadgeRetryJob {
	if cfg.Interval <= 0 {
		cfg.Interval = 60
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = 1
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &BadgeRetryJob{
		store:     store,
		pledges:   pledges,
		evaluator: evaluator,
		config:    cfg,
	}
}

// GetName 获取任务名称
func (j *BadgeRetryJob) GetName() string {
	return "badge_evaluation_retry"
}

// GetSchedule 获取调度配置
func (j *BadgeRetryJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Interval) * time.Second)
}

// Execute 执行任务
func (j *BadgeRetryJob) Execute() {
	j.Run(context.Background())
}

// Run 处理一批待重试的评估，返回成功完成的数量
func (j *BadgeRetryJob) Run(ctx context.Context) int {
	records, err := j.store.ListPending(ctx, j.config.BatchSize)
	if err != nil {
		logger.Error("Failed to fetch pending badge evaluations: %v", err)
		return 0
	}
	if len(records) == 0 {
		return 0
	}

	logger.Info("Starting badge evaluation retry for %d pledges", len(records))

	pool, err := ants.NewPool(j.config.PoolSize)
	if err != nil {
		logger.Error("Failed to create pool of size %d: %v", j.config.PoolSize, err)
		return 0
	}
	defer pool.Release()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)
	for i := range records {
		record := &records[i]
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if j.retry(ctx, record) {
				mu.Lock()
				done++
				mu.Unlock()
			}
		})
		if err != nil {
			wg.Done()
			logger.Error("Failed to submit badge evaluation %d to pool: %v", record.Id, err)
		}
	}
	wg.Wait()

	logger.Info("Badge evaluation retry completed. Done %d of %d", done, len(records))
	return done
}

// retry 重新评估一条记录，捐赠已不存在时直接标记完成
func (j *BadgeRetryJob) retry(ctx context.Context, record *model.BadgeEvaluationModel) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			j.fail(ctx, record, fmt.Errorf("panic: %v", r))
			ok = false
		}
	}()

	pledge, err := j.pledges.GetPledge(ctx, record.PledgeId)
	if err != nil {
		if errors.Is(err, logic.ErrPledgeNotFound) {
			logger.Warn("Pledge %d of badge evaluation %d no longer exists", record.PledgeId, record.Id)
			return j.markDone(ctx, record)
		}
		j.fail(ctx, record, err)
		return false
	}

	awarded, err := j.evaluator.Evaluate(ctx, pledge)
	if err != nil {
		j.fail(ctx, record, err)
		return false
	}
	if len(awarded) > 0 {
		logger.Info("Retry of pledge %d awarded badges %v", pledge.Id, awarded)
	}
	return j.markDone(ctx, record)
}

func (j *BadgeRetryJob) markDone(ctx context.Context, record *model.BadgeEvaluationModel) bool {
	if err := j.store.MarkDone(ctx, record.Id); err != nil {
		logger.Error("Failed to mark badge evaluation %d done: %v", record.Id, err)
		return false
	}
	return true
}

func (j *BadgeRetryJob) fail(ctx context.Context, record *model.BadgeEvaluationModel, cause error) {
	logger.Warn("Badge evaluation %d for pledge %d failed: %v", record.Id, record.PledgeId, cause)
	if err := j.store.MarkFailed(ctx, record, cause, j.config.MaxAttempts); err != nil {
		logger.Error("Failed to record badge evaluation %d failure: %v", record.Id, err)
		return
	}
	if record.Status == model.BadgeEvaluationFailed {
		logger.Error("Badge evaluation %d for pledge %d gave up after %d attempts", record.Id, record.PledgeId, record.Attempts)
	}
}
