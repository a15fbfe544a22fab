package worker

import (
	"context"
	"errors"
	"time"

	"github.com/chamundam289/electro-hub-sub003/internal/config"
	"github.com/chamundam289/electro-hub-sub003/internal/constants"
	"github.com/chamundam289/electro-hub-sub003/internal/logger"
	"github.com/chamundam289/electro-hub-sub003/internal/queue"
	"github.com/chamundam289/electro-hub-sub003/internal/repository"

	"github.com/hibiken/asynq"
)

const (
	defaultLedgerRepairInterval = 10 * time.Minute
	defaultStatsRefreshInterval = 30 * time.Minute
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
	cfg      *config.Config
}

// NewService 创建异步队列服务
func NewService(cfg *config.Config, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Queue.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(&cfg.Queue)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
		cfg:      cfg,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.LedgerService != nil {
		go s.runLedgerRepairLoop(ctx)
	}
	if s.consumer != nil && s.consumer.AffiliateService != nil {
		go s.runStatsRefreshLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runLedgerRepairLoop 周期性补登带券订单缺失的核销记录
func (s *Service) runLedgerRepairLoop(ctx context.Context) {
	interval := defaultLedgerRepairInterval
	batchSize := 100
	if s.cfg != nil {
		if s.cfg.Ledger.RepairIntervalMinutes > 0 {
			interval = time.Duration(s.cfg.Ledger.RepairIntervalMinutes) * time.Minute
		}
		if s.cfg.Ledger.RepairBatchSize > 0 {
			batchSize = s.cfg.Ledger.RepairBatchSize
		}
	}

	runOnce := func() {
		repaired, err := s.consumer.LedgerService.RepairDrift(batchSize)
		if err != nil {
			logger.Warnw("worker_ledger_repair_loop_failed", "error", err)
			return
		}
		if repaired > 0 {
			logger.Infow("worker_ledger_repair_loop_done", "repaired", repaired)
		}
	}
	runOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}

// runStatsRefreshLoop 周期性全量重算活跃推广员统计
func (s *Service) runStatsRefreshLoop(ctx context.Context) {
	interval := defaultStatsRefreshInterval
	if s.cfg != nil && s.cfg.Affiliate.StatsRefreshMinutes > 0 {
		interval = time.Duration(s.cfg.Affiliate.StatsRefreshMinutes) * time.Minute
	}

	runOnce := func() {
		if err := s.refreshAllStats(); err != nil {
			logger.Warnw("worker_stats_refresh_loop_failed", "error", err)
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}

func (s *Service) refreshAllStats() error {
	page := 1
	for {
		affiliates, _, err := s.consumer.AffiliateService.List(listActiveAffiliates(page))
		if err != nil {
			return err
		}
		if len(affiliates) == 0 {
			return nil
		}
		for _, affiliate := range affiliates {
			if err := s.consumer.AffiliateService.RefreshStats(affiliate.ID); err != nil {
				logger.Warnw("worker_stats_refresh_one_failed",
					"affiliate_id", affiliate.ID,
					"error", err,
				)
			}
		}
		page++
	}
}

func listActiveAffiliates(page int) repository.AffiliateListFilter {
	return repository.AffiliateListFilter{
		Page:     page,
		PageSize: 100,
		Status:   constants.AffiliateStatusActive,
	}
}
