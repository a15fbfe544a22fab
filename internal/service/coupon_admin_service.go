package service

import (
	"time"

	"github.com/chamundam289/electro-hub-sub003/internal/constants"
	"github.com/chamundam289/electro-hub-sub003/internal/models"
	"github.com/chamundam289/electro-hub-sub003/internal/repository"

	"github.com/shopspring/decimal"
)

// CouponAdminService 优惠券管理服务
type CouponAdminService struct {
	repo          repository.CouponRepository
	affiliateRepo repository.AffiliateRepository
}

// NewCouponAdminService 创建优惠券管理服务
func NewCouponAdminService(repo repository.CouponRepository, affiliateRepo repository.AffiliateRepository) *CouponAdminService {
	return &CouponAdminService{
		repo:          repo,
		affiliateRepo: affiliateRepo,
	}
}

// CouponInput 创建/更新优惠券输入
type CouponInput struct {
	Code           string
	DiscountType   string
	DiscountValue  models.Money
	MinOrderAmount models.Money
	MaxDiscount    models.Money
	UsageLimit     int
	ExpiresAt      *time.Time
	IsActive       *bool
	AffiliateID    uint
}

// Create 创建优惠券，优惠码统一存为大写
func (s *CouponAdminService) Create(input CouponInput) (*models.Coupon, error) {
	code := NormalizeCouponCode(input.Code)
	if err := validateCouponInput(code, input); err != nil {
		return nil, err
	}

	affiliate, err := s.affiliateRepo.GetByID(input.AffiliateID)
	if err != nil {
		return nil, err
	}
	if affiliate == nil {
		return nil, ErrAffiliateNotFound
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	coupon := &models.Coupon{
		Code:           code,
		DiscountType:   input.DiscountType,
		DiscountValue:  input.DiscountValue,
		MinOrderAmount: input.MinOrderAmount,
		MaxDiscount:    input.MaxDiscount,
		UsageLimit:     input.UsageLimit,
		UsedCount:      0,
		ExpiresAt:      input.ExpiresAt,
		IsActive:       isActive,
		AffiliateID:    affiliate.ID,
	}
	if err := s.repo.Create(coupon); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrCouponExists
		}
		return nil, err
	}
	return coupon, nil
}

// Update 更新优惠券，used_count 不可通过该入口修改
func (s *CouponAdminService) Update(id uint, input CouponInput) (*models.Coupon, error) {
	coupon, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}

	code := NormalizeCouponCode(input.Code)
	if err := validateCouponInput(code, input); err != nil {
		return nil, err
	}

	if input.AffiliateID != coupon.AffiliateID {
		affiliate, err := s.affiliateRepo.GetByID(input.AffiliateID)
		if err != nil {
			return nil, err
		}
		if affiliate == nil {
			return nil, ErrAffiliateNotFound
		}
		coupon.AffiliateID = affiliate.ID
	}

	coupon.Code = code
	coupon.DiscountType = input.DiscountType
	coupon.DiscountValue = input.DiscountValue
	coupon.MinOrderAmount = input.MinOrderAmount
	coupon.MaxDiscount = input.MaxDiscount
	coupon.UsageLimit = input.UsageLimit
	coupon.ExpiresAt = input.ExpiresAt
	if input.IsActive != nil {
		coupon.IsActive = *input.IsActive
	}

	if err := s.repo.Update(coupon); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrCouponExists
		}
		return nil, err
	}
	return coupon, nil
}

// SetActive 启用/停用优惠券
func (s *CouponAdminService) SetActive(id uint, active bool) (*models.Coupon, error) {
	coupon, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	if coupon.IsActive == active {
		return coupon, nil
	}
	if err := s.repo.SetActive(id, active); err != nil {
		return nil, err
	}
	coupon.IsActive = active
	return coupon, nil
}

// GetByID 查询优惠券详情
func (s *CouponAdminService) GetByID(id uint) (*models.Coupon, error) {
	coupon, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}

// List 查询优惠券列表
func (s *CouponAdminService) List(filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	return s.repo.List(filter)
}

func validateCouponInput(code string, input CouponInput) error {
	if code == "" {
		return ErrCouponInvalid
	}
	switch input.DiscountType {
	case constants.CouponTypeFixed:
		if input.DiscountValue.Decimal.LessThanOrEqual(decimal.Zero) {
			return ErrCouponInvalid
		}
	case constants.CouponTypePercentage:
		if input.DiscountValue.Decimal.LessThanOrEqual(decimal.Zero) ||
			input.DiscountValue.Decimal.GreaterThan(decimal.NewFromInt(100)) {
			return ErrCouponInvalid
		}
	default:
		return ErrCouponInvalid
	}
	if input.MinOrderAmount.Decimal.LessThan(decimal.Zero) ||
		input.MaxDiscount.Decimal.LessThan(decimal.Zero) ||
		input.UsageLimit < 0 {
		return ErrCouponInvalid
	}
	return nil
}
