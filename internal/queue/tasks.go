package queue

import (
	"encoding/json"

	"github.com/chamundam289/electro-hub-sub003/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderAwardCoins 下单积分发放任务
	TaskOrderAwardCoins = constants.TaskOrderAwardCoins
	// TaskAffiliateRefreshStats 推广员统计刷新任务
	TaskAffiliateRefreshStats = constants.TaskAffiliateRefreshStats
	// TaskLedgerRepair 核销台账对账修复任务
	TaskLedgerRepair = constants.TaskLedgerRepair
)

// OrderAwardCoinsPayload 积分发放任务载荷
type OrderAwardCoinsPayload struct {
	OrderID uint `json:"order_id"`
}

// AffiliateRefreshStatsPayload 统计刷新任务载荷
type AffiliateRefreshStatsPayload struct {
	AffiliateID uint `json:"affiliate_id"`
}

// LedgerRepairPayload 对账修复任务载荷
type LedgerRepairPayload struct {
	BatchSize int `json:"batch_size"`
}

// NewOrderAwardCoinsTask 创建积分发放任务
func NewOrderAwardCoinsTask(payload OrderAwardCoinsPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderAwardCoins, body), nil
}

// NewAffiliateRefreshStatsTask 创建统计刷新任务
func NewAffiliateRefreshStatsTask(payload AffiliateRefreshStatsPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAffiliateRefreshStats, body), nil
}

// NewLedgerRepairTask 创建对账修复任务
func NewLedgerRepairTask(payload LedgerRepairPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerRepair, body), nil
}
