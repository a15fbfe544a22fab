package service

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"github.com/chamundam289/electro-hub-sub003/internal/constants"
	"github.com/chamundam289/electro-hub-sub003/internal/logger"
	"github.com/chamundam289/electro-hub-sub003/internal/models"
	"github.com/chamundam289/electro-hub-sub003/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	affiliateCodeLength        = 8
	affiliateClickDedupeWindow = 10 * time.Minute
)

// AffiliateService 推广员业务服务
type AffiliateService struct {
	repo       repository.AffiliateRepository
	clickRepo  repository.AffiliateClickRepository
	orderRepo  repository.OrderRepository
	couponRepo repository.CouponRepository
}

// NewAffiliateService 创建推广员服务
func NewAffiliateService(repo repository.AffiliateRepository, clickRepo repository.AffiliateClickRepository, orderRepo repository.OrderRepository, couponRepo repository.CouponRepository) *AffiliateService {
	return &AffiliateService{
		repo:       repo,
		clickRepo:  clickRepo,
		orderRepo:  orderRepo,
		couponRepo: couponRepo,
	}
}

// AffiliateTrackClickInput 推广点击记录输入
type AffiliateTrackClickInput struct {
	AffiliateCode string
	CouponCode    string
	VisitorKey    string
	LandingPath   string
	Referrer      string
	ClientIP      string
	UserAgent     string
}

// CreateAffiliateInput 创建推广员输入
type CreateAffiliateInput struct {
	Name            string
	Phone           string
	CommissionType  string
	CommissionValue models.Money
}

// TrackClick 记录推广点击。短码无效或推广员停用时静默忽略，
// 同一访客在去重窗口内的重复点击不再记录。
func (s *AffiliateService) TrackClick(input AffiliateTrackClickInput) error {
	code := normalizeAffiliateCode(input.AffiliateCode)
	if code == "" {
		return nil
	}
	affiliate, err := s.repo.GetByCode(code)
	if err != nil {
		return err
	}
	if affiliate == nil || affiliate.Status != constants.AffiliateStatusActive {
		return nil
	}

	visitorKey := strings.TrimSpace(input.VisitorKey)
	if visitorKey != "" {
		duplicated, err := s.clickRepo.HasRecentClick(affiliate.ID, visitorKey, time.Now().Add(-affiliateClickDedupeWindow))
		if err != nil {
			return err
		}
		if duplicated {
			return nil
		}
	}

	click := &models.AffiliateClick{
		AffiliateID: affiliate.ID,
		CouponCode:  NormalizeCouponCode(input.CouponCode),
		VisitorKey:  visitorKey,
		LandingPath: strings.TrimSpace(input.LandingPath),
		Referrer:    strings.TrimSpace(input.Referrer),
		ClientIP:    strings.TrimSpace(input.ClientIP),
		UserAgent:   strings.TrimSpace(input.UserAgent),
		CreatedAt:   time.Now(),
	}
	return s.clickRepo.Create(click)
}

// RefreshStats 全量重算推广员聚合统计并覆盖写入
func (s *AffiliateService) RefreshStats(affiliateID uint) error {
	affiliate, err := s.repo.GetByID(affiliateID)
	if err != nil {
		return err
	}
	if affiliate == nil {
		return ErrAffiliateNotFound
	}

	totalSales, totalOrders, err := s.orderRepo.SumByAffiliate(affiliate.ID)
	if err != nil {
		return err
	}
	commission := calculateCommission(affiliate, totalSales, totalOrders)

	if err := s.repo.UpdateStats(affiliate.ID, totalSales, commission, totalOrders); err != nil {
		return err
	}
	logger.Infow("affiliate_stats_refreshed",
		"affiliate_id", affiliate.ID,
		"total_sales", totalSales.String(),
		"total_orders", totalOrders,
	)
	return nil
}

// Create 创建推广员，自动生成唯一推广短码
func (s *AffiliateService) Create(input CreateAffiliateInput) (*models.Affiliate, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNotFound
	}
	commissionType := strings.TrimSpace(input.CommissionType)
	if commissionType != constants.CommissionTypeFixed && commissionType != constants.CommissionTypePercentage {
		return nil, ErrInvalidOrderData
	}

	for attempt := 0; attempt < 5; attempt++ {
		code, err := generateAffiliateCode()
		if err != nil {
			return nil, err
		}
		affiliate := &models.Affiliate{
			Code:            code,
			Name:            name,
			Phone:           strings.TrimSpace(input.Phone),
			CommissionType:  commissionType,
			CommissionValue: input.CommissionValue,
			Status:          constants.AffiliateStatusActive,
		}
		if err := s.repo.Create(affiliate); err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return nil, err
		}
		return affiliate, nil
	}
	return nil, ErrAffiliateExists
}

// GetByCode 根据推广短码查询推广员
func (s *AffiliateService) GetByCode(code string) (*models.Affiliate, error) {
	affiliate, err := s.repo.GetByCode(normalizeAffiliateCode(code))
	if err != nil {
		return nil, err
	}
	if affiliate == nil {
		return nil, ErrAffiliateNotFound
	}
	return affiliate, nil
}

// GetByID 根据ID查询推广员
func (s *AffiliateService) GetByID(id uint) (*models.Affiliate, error) {
	affiliate, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if affiliate == nil {
		return nil, ErrAffiliateNotFound
	}
	return affiliate, nil
}

// List 查询推广员列表
func (s *AffiliateService) List(filter repository.AffiliateListFilter) ([]models.Affiliate, int64, error) {
	return s.repo.List(filter)
}

// ListClicks 查询推广点击列表
func (s *AffiliateService) ListClicks(filter repository.AffiliateClickListFilter) ([]models.AffiliateClick, int64, error) {
	return s.clickRepo.List(filter)
}

// SetStatus 更新推广员状态
func (s *AffiliateService) SetStatus(id uint, rawStatus string) (*models.Affiliate, error) {
	status := strings.TrimSpace(rawStatus)
	if status != constants.AffiliateStatusActive && status != constants.AffiliateStatusDisabled {
		return nil, ErrInvalidOrderData
	}
	affiliate, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if affiliate.Status == status {
		return affiliate, nil
	}
	affiliate.Status = status
	if err := s.repo.Update(affiliate); err != nil {
		return nil, err
	}
	return affiliate, nil
}

// calculateCommission 按佣金类型计算累计佣金
func calculateCommission(affiliate *models.Affiliate, totalSales models.Money, totalOrders int64) models.Money {
	switch affiliate.CommissionType {
	case constants.CommissionTypeFixed:
		return models.NewMoneyFromDecimal(
			affiliate.CommissionValue.Decimal.Mul(decimal.NewFromInt(totalOrders)))
	case constants.CommissionTypePercentage:
		percent := affiliate.CommissionValue.Decimal.Div(decimal.NewFromInt(100))
		return models.NewMoneyFromDecimal(totalSales.Decimal.Mul(percent))
	}
	return models.NewMoneyFromDecimal(decimal.Zero)
}

func normalizeAffiliateCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func generateAffiliateCode() (string, error) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	var builder strings.Builder
	builder.Grow(affiliateCodeLength)
	max := big.NewInt(int64(len(alphabet)))
	for i := 0; i < affiliateCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(alphabet[n.Int64()])
	}
	return builder.String(), nil
}
