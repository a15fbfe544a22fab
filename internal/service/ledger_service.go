package service

import (
	"strings"

	"github.com/chamundam289/electro-hub-sub003/internal/logger"
	"github.com/chamundam289/electro-hub-sub003/internal/models"
	"github.com/chamundam289/electro-hub-sub003/internal/repository"

	"gorm.io/gorm"
)

// LedgerService 优惠核销台账服务，维护 used_count 与使用记录的一致性
type LedgerService struct {
	couponRepo repository.CouponRepository
	usageRepo  repository.CouponUsageRepository
	orderRepo  repository.OrderRepository
	clickRepo  repository.AffiliateClickRepository
}

// NewLedgerService 创建台账服务
func NewLedgerService(couponRepo repository.CouponRepository, usageRepo repository.CouponUsageRepository, orderRepo repository.OrderRepository, clickRepo repository.AffiliateClickRepository) *LedgerService {
	return &LedgerService{
		couponRepo: couponRepo,
		usageRepo:  usageRepo,
		orderRepo:  orderRepo,
		clickRepo:  clickRepo,
	}
}

// RecordUsage 在事务内登记一次优惠券核销。
// 以 coupon_id+order_id 唯一约束兜底：同一订单重复登记时直接视为已完成。
// used_count 采用条件自增，达到上限时返回 ErrCouponUsageExhausted。
func (s *LedgerService) RecordUsage(tx *gorm.DB, coupon *models.Coupon, orderID uint, discount models.Money) error {
	usage := &models.CouponUsage{
		CouponID:       coupon.ID,
		OrderID:        orderID,
		DiscountAmount: discount,
	}
	if err := s.usageRepo.WithTx(tx).Create(usage); err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return err
	}

	affected, err := s.couponRepo.WithTx(tx).IncrementUsedCount(coupon.ID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCouponUsageExhausted
	}
	return nil
}

// MarkClickConverted 将推广点击标记为已转化，同一点击至多转化一次。
// 点击缺失或已全部转化不算错误，只是无归因可记。
func (s *LedgerService) MarkClickConverted(tx *gorm.DB, affiliateID uint, couponCode string, orderID uint) error {
	clickRepo := s.clickRepo.WithTx(tx)
	click, err := clickRepo.GetLatestUnconverted(affiliateID, couponCode)
	if err != nil {
		return err
	}
	if click == nil {
		click, err = clickRepo.GetLatestUnconverted(affiliateID, "")
		if err != nil {
			return err
		}
	}
	if click == nil {
		return nil
	}
	_, err = clickRepo.MarkConverted(click.ID, orderID)
	return err
}

// RepairDrift 对账修复：补登带券订单缺失的核销记录。
// 每轮处理一批，单条失败不中断整轮。
func (s *LedgerService) RepairDrift(limit int) (int, error) {
	orders, err := s.orderRepo.ListCouponOrdersMissingUsage(limit)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, order := range orders {
		coupon, err := s.couponRepo.GetByCode(NormalizeCouponCode(order.CouponCode))
		if err != nil {
			logger.Errorw("ledger_repair_lookup_failed",
				"order_id", order.ID,
				"coupon_code", order.CouponCode,
				"error", err,
			)
			continue
		}
		if coupon == nil {
			logger.Warnw("ledger_repair_coupon_missing",
				"order_id", order.ID,
				"coupon_code", order.CouponCode,
			)
			continue
		}

		err = models.DB.Transaction(func(tx *gorm.DB) error {
			return s.RecordUsage(tx, coupon, order.ID, order.DiscountAmount)
		})
		if err != nil {
			logger.Errorw("ledger_repair_record_failed",
				"order_id", order.ID,
				"coupon_id", coupon.ID,
				"error", err,
			)
			continue
		}
		repaired++
		logger.Infow("ledger_repair_recorded",
			"order_id", order.ID,
			"coupon_id", coupon.ID,
			"invoice_no", order.InvoiceNo,
		)
	}
	return repaired, nil
}

// isUniqueViolation 判断是否为唯一约束冲突，兼容 sqlite 与 postgres 的报错文案
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
