package service

import (
	"errors"
	"strings"
	"time"

	"github.com/chamundam289/electro-hub-sub003/internal/constants"
	"github.com/chamundam289/electro-hub-sub003/internal/models"
	"github.com/chamundam289/electro-hub-sub003/internal/repository"

	"github.com/shopspring/decimal"
)

// CouponService 优惠券校验与折扣计算服务
type CouponService struct {
	couponRepo repository.CouponRepository
}

// NewCouponService 创建优惠券服务
func NewCouponService(couponRepo repository.CouponRepository) *CouponService {
	return &CouponService{
		couponRepo: couponRepo,
	}
}

// CouponEvaluation 一次优惠券评估的结果
type CouponEvaluation struct {
	Coupon         *models.Coupon `json:"coupon"`
	DiscountAmount models.Money   `json:"discount_amount"`
	FinalAmount    models.Money   `json:"final_amount"`
}

// NormalizeCouponCode 优惠码规范化：去空白并统一大写
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Evaluate 评估优惠码对给定订单金额的效果，评估本身不改动任何状态。
// 校验顺序：存在性、启用状态、有效期、使用上限、金额门槛。
func (s *CouponService) Evaluate(code string, orderAmount models.Money, now time.Time) (*CouponEvaluation, error) {
	normalized := NormalizeCouponCode(code)
	if normalized == "" {
		return nil, ErrCouponInvalid
	}
	if orderAmount.Decimal.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidOrderAmount
	}

	coupon, err := s.couponRepo.GetByCode(normalized)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	if !coupon.IsActive {
		return nil, ErrCouponInactive
	}
	if couponExpired(coupon, now) {
		return nil, ErrCouponExpired
	}
	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return nil, ErrCouponUsageExhausted
	}
	if coupon.MinOrderAmount.Decimal.GreaterThan(decimal.Zero) &&
		orderAmount.Decimal.LessThan(coupon.MinOrderAmount.Decimal) {
		return nil, ErrCouponMinAmount
	}

	discount, err := calculateDiscount(coupon, orderAmount)
	if err != nil {
		return nil, err
	}

	final := orderAmount.Decimal.Sub(discount.Decimal)
	if final.LessThan(decimal.Zero) {
		final = decimal.Zero
	}

	return &CouponEvaluation{
		Coupon:         coupon,
		DiscountAmount: discount,
		FinalAmount:    models.NewMoneyFromDecimal(final),
	}, nil
}

// couponExpired 失效日期按自然日计算，当天整日仍然有效
func couponExpired(coupon *models.Coupon, now time.Time) bool {
	if coupon.ExpiresAt == nil {
		return false
	}
	expiry := *coupon.ExpiresAt
	endOfDay := time.Date(expiry.Year(), expiry.Month(), expiry.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), expiry.Location())
	return now.After(endOfDay)
}

// calculateDiscount 按类型计算折扣，折扣不超过订单金额
func calculateDiscount(coupon *models.Coupon, orderAmount models.Money) (models.Money, error) {
	var discount decimal.Decimal
	switch coupon.DiscountType {
	case constants.CouponTypeFixed:
		if coupon.DiscountValue.Decimal.LessThanOrEqual(decimal.Zero) {
			return models.Money{}, ErrCouponInvalid
		}
		discount = coupon.DiscountValue.Decimal
	case constants.CouponTypePercentage:
		if coupon.DiscountValue.Decimal.LessThanOrEqual(decimal.Zero) ||
			coupon.DiscountValue.Decimal.GreaterThan(decimal.NewFromInt(100)) {
			return models.Money{}, ErrCouponInvalid
		}
		percent := coupon.DiscountValue.Decimal.Div(decimal.NewFromInt(100))
		discount = orderAmount.Decimal.Mul(percent)
		if coupon.MaxDiscount.Decimal.GreaterThan(decimal.Zero) && discount.GreaterThan(coupon.MaxDiscount.Decimal) {
			discount = coupon.MaxDiscount.Decimal
		}
	default:
		return models.Money{}, ErrCouponInvalid
	}

	if discount.GreaterThan(orderAmount.Decimal) {
		discount = orderAmount.Decimal
	}
	return models.NewMoneyFromDecimal(discount), nil
}

// RejectKindForError 将校验错误映射为对外暴露的拒绝原因
func RejectKindForError(err error) string {
	switch {
	case errors.Is(err, ErrCouponNotFound), errors.Is(err, ErrCouponInvalid):
		return constants.CouponRejectInvalidCode
	case errors.Is(err, ErrCouponInactive):
		return constants.CouponRejectInactive
	case errors.Is(err, ErrCouponExpired):
		return constants.CouponRejectExpired
	case errors.Is(err, ErrCouponUsageExhausted):
		return constants.CouponRejectUsageExhausted
	case errors.Is(err, ErrCouponMinAmount):
		return constants.CouponRejectBelowMinimum
	}
	return ""
}
