package repository

import (
	"errors"
	"time"

	"github.com/chamundam289/electro-hub-sub003/internal/models"

	"gorm.io/gorm"
)

// AffiliateClickRepository 推广点击数据访问接口
type AffiliateClickRepository interface {
	Create(click *models.AffiliateClick) error
	HasRecentClick(affiliateID uint, visitorKey string, since time.Time) (bool, error)
	GetLatestUnconverted(affiliateID uint, couponCode string) (*models.AffiliateClick, error)
	MarkConverted(id uint, orderID uint) (int64, error)
	CountByAffiliate(affiliateID uint) (int64, error)
	List(filter AffiliateClickListFilter) ([]models.AffiliateClick, int64, error)
	WithTx(tx *gorm.DB) *GormAffiliateClickRepository
}

// GormAffiliateClickRepository GORM 实现
type GormAffiliateClickRepository struct {
	db *gorm.DB
}

// NewAffiliateClickRepository 创建推广点击仓库
func NewAffiliateClickRepository(db *gorm.DB) *GormAffiliateClickRepository {
	return &GormAffiliateClickRepository{db: db}
}

// WithTx 绑定事务
func (r *GormAffiliateClickRepository) WithTx(tx *gorm.DB) *GormAffiliateClickRepository {
	if tx == nil {
		return r
	}
	return &GormAffiliateClickRepository{db: tx}
}

// Create 记录一次点击
func (r *GormAffiliateClickRepository) Create(click *models.AffiliateClick) error {
	return r.db.Create(click).Error
}

// HasRecentClick 判断访客近期是否已记录过同一推广员的点击
func (r *GormAffiliateClickRepository) HasRecentClick(affiliateID uint, visitorKey string, since time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&models.AffiliateClick{}).
		Where("affiliate_id = ? AND visitor_key = ? AND created_at >= ?", affiliateID, visitorKey, since).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetLatestUnconverted 获取最近一条未转化的点击记录。
// couponCode 为空串时只匹配无码点击，不会落到其他优惠码的点击上
func (r *GormAffiliateClickRepository) GetLatestUnconverted(affiliateID uint, couponCode string) (*models.AffiliateClick, error) {
	var click models.AffiliateClick
	query := r.db.Where("affiliate_id = ? AND converted = ? AND coupon_code = ?", affiliateID, false, couponCode)
	if err := query.Order("id desc").First(&click).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &click, nil
}

// MarkConverted 将点击标记为已转化，converted 条件保证至多标记一次
func (r *GormAffiliateClickRepository) MarkConverted(id uint, orderID uint) (int64, error) {
	result := r.db.Model(&models.AffiliateClick{}).
		Where("id = ? AND converted = ?", id, false).
		Updates(map[string]interface{}{
			"converted": true,
			"order_id":  orderID,
		})
	return result.RowsAffected, result.Error
}

// CountByAffiliate 统计推广员点击总数
func (r *GormAffiliateClickRepository) CountByAffiliate(affiliateID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.AffiliateClick{}).
		Where("affiliate_id = ?", affiliateID).
		Count(&count).Error
	return count, err
}

// List 获取点击列表
func (r *GormAffiliateClickRepository) List(filter AffiliateClickListFilter) ([]models.AffiliateClick, int64, error) {
	var clicks []models.AffiliateClick
	query := r.db.Model(&models.AffiliateClick{})

	if filter.AffiliateID > 0 {
		query = query.Where("affiliate_id = ?", filter.AffiliateID)
	}
	if filter.CouponCode != "" {
		query = query.Where("coupon_code = ?", filter.CouponCode)
	}
	if filter.ConvertedOnly {
		query = query.Where("converted = ?", true)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at < ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("id desc").Find(&clicks).Error; err != nil {
		return nil, 0, err
	}
	return clicks, total, nil
}
