package service

import (
	"strings"

	"github.com/chamundam289/electro-hub-sub003/internal/constants"
	"github.com/chamundam289/electro-hub-sub003/internal/logger"
	"github.com/chamundam289/electro-hub-sub003/internal/models"
	"github.com/chamundam289/electro-hub-sub003/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 每消费 100 元奖励 1 枚积分
var loyaltyCoinUnit = decimal.NewFromInt(100)

// LoyaltyService 积分账户服务
type LoyaltyService struct {
	repo      repository.LoyaltyRepository
	orderRepo repository.OrderRepository
}

// NewLoyaltyService 创建积分服务
func NewLoyaltyService(repo repository.LoyaltyRepository, orderRepo repository.OrderRepository) *LoyaltyService {
	return &LoyaltyService{
		repo:      repo,
		orderRepo: orderRepo,
	}
}

// AccountSummary 积分账户概览
type AccountSummary struct {
	Phone        string                      `json:"phone"`
	Balance      int64                       `json:"balance"`
	Transactions []models.LoyaltyTransaction `json:"transactions"`
}

// AwardForOrder 按订单实付金额发放积分，每 100 元 1 枚，不足部分舍去。
// order_id+reason 唯一约束保证任务重试时不会重复发放。
func (s *LoyaltyService) AwardForOrder(orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order.Status == constants.OrderStatusCancelled {
		return nil
	}
	coins := order.TotalAmount.Decimal.Div(loyaltyCoinUnit).Floor().IntPart()
	if coins <= 0 {
		return nil
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		orderID := order.ID
		txn := &models.LoyaltyTransaction{
			Phone:   order.CustomerPhone,
			OrderID: &orderID,
			Reason:  constants.LoyaltyReasonOrderReward,
			Coins:   coins,
		}
		if err := repo.CreateTransaction(txn); err != nil {
			return err
		}
		return repo.AddCoins(order.CustomerPhone, coins)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return err
	}

	logger.Infow("loyalty_coins_awarded",
		"order_id", order.ID,
		"phone", order.CustomerPhone,
		"coins", coins,
	)
	return nil
}

// GetSummary 查询积分账户概览及近期流水
func (s *LoyaltyService) GetSummary(phone string) (*AccountSummary, error) {
	trimmed := strings.TrimSpace(phone)
	if trimmed == "" {
		return nil, ErrLoyaltyNotFound
	}
	account, err := s.repo.GetAccount(trimmed)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrLoyaltyNotFound
	}
	txns, _, err := s.repo.ListTransactions(trimmed, 1, 20)
	if err != nil {
		return nil, err
	}
	return &AccountSummary{
		Phone:        account.Phone,
		Balance:      account.Balance,
		Transactions: txns,
	}, nil
}

// AdminAdjust 管理端手工调整积分余额
func (s *LoyaltyService) AdminAdjust(phone string, coins int64) error {
	trimmed := strings.TrimSpace(phone)
	if trimmed == "" || coins == 0 {
		return ErrInvalidOrderData
	}
	return models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		txn := &models.LoyaltyTransaction{
			Phone:  trimmed,
			Reason: constants.LoyaltyReasonAdminAdjust,
			Coins:  coins,
		}
		if err := repo.CreateTransaction(txn); err != nil {
			return err
		}
		return repo.AddCoins(trimmed, coins)
	})
}
