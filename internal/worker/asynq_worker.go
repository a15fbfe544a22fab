package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/chamundam289/electro-hub-sub003/internal/logger"
	"github.com/chamundam289/electro-hub-sub003/internal/provider"
	"github.com/chamundam289/electro-hub-sub003/internal/queue"
	"github.com/chamundam289/electro-hub-sub003/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderAwardCoins, c.handleOrderAwardCoins)
	mux.HandleFunc(queue.TaskAffiliateRefreshStats, c.handleAffiliateRefreshStats)
	mux.HandleFunc(queue.TaskLedgerRepair, c.handleLedgerRepair)
}

func (c *Consumer) handleOrderAwardCoins(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_award_coins_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderAwardCoinsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_award_coins_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_award_coins_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.LoyaltyService == nil {
		logger.Warnw("worker_award_coins_skip_service_nil", "order_id", payload.OrderID)
		return nil
	}
	if err := c.LoyaltyService.AwardForOrder(payload.OrderID); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			logger.Debugw("worker_award_coins_skip_order_not_found", "order_id", payload.OrderID)
			return nil
		}
		logger.Warnw("worker_award_coins_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleAffiliateRefreshStats(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_refresh_stats_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.AffiliateRefreshStatsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_refresh_stats_unmarshal_failed", "error", err)
		return err
	}
	if payload.AffiliateID == 0 {
		logger.Debugw("worker_refresh_stats_skip_invalid_payload", "affiliate_id", payload.AffiliateID)
		return nil
	}
	if c.AffiliateService == nil {
		logger.Warnw("worker_refresh_stats_skip_service_nil", "affiliate_id", payload.AffiliateID)
		return nil
	}
	if err := c.AffiliateService.RefreshStats(payload.AffiliateID); err != nil {
		if errors.Is(err, service.ErrAffiliateNotFound) {
			logger.Debugw("worker_refresh_stats_skip_affiliate_not_found", "affiliate_id", payload.AffiliateID)
			return nil
		}
		logger.Warnw("worker_refresh_stats_failed", "affiliate_id", payload.AffiliateID, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleLedgerRepair(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_ledger_repair_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.LedgerRepairPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_ledger_repair_unmarshal_failed", "error", err)
		return err
	}
	if c.LedgerService == nil {
		logger.Warnw("worker_ledger_repair_skip_service_nil")
		return nil
	}
	repaired, err := c.LedgerService.RepairDrift(payload.BatchSize)
	if err != nil {
		logger.Warnw("worker_ledger_repair_failed", "error", err)
		return err
	}
	if repaired > 0 {
		logger.Infow("worker_ledger_repair_done", "repaired", repaired)
	}
	return nil
}
