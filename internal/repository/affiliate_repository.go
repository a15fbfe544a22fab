package repository

import (
	"errors"

	"github.com/chamundam289/electro-hub-sub003/internal/models"

	"gorm.io/gorm"
)

// AffiliateRepository 推广员数据访问接口
type AffiliateRepository interface {
	GetByID(id uint) (*models.Affiliate, error)
	GetByCode(code string) (*models.Affiliate, error)
	Create(affiliate *models.Affiliate) error
	Update(affiliate *models.Affiliate) error
	List(filter AffiliateListFilter) ([]models.Affiliate, int64, error)
	UpdateStats(id uint, totalSales, totalCommission models.Money, totalOrders int64) error
	WithTx(tx *gorm.DB) *GormAffiliateRepository
}

// GormAffiliateRepository GORM 实现
type GormAffiliateRepository struct {
	db *gorm.DB
}

// NewAffiliateRepository 创建推广员仓库
func NewAffiliateRepository(db *gorm.DB) *GormAffiliateRepository {
	return &GormAffiliateRepository{db: db}
}

// WithTx 绑定事务
func (r *GormAffiliateRepository) WithTx(tx *gorm.DB) *GormAffiliateRepository {
	if tx == nil {
		return r
	}
	return &GormAffiliateRepository{db: tx}
}

// GetByID 根据ID获取推广员
func (r *GormAffiliateRepository) GetByID(id uint) (*models.Affiliate, error) {
	var affiliate models.Affiliate
	if err := r.db.First(&affiliate, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &affiliate, nil
}

// GetByCode 根据推广短码获取推广员
func (r *GormAffiliateRepository) GetByCode(code string) (*models.Affiliate, error) {
	var affiliate models.Affiliate
	if err := r.db.Where("code = ?", code).First(&affiliate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &affiliate, nil
}

// Create 创建推广员
func (r *GormAffiliateRepository) Create(affiliate *models.Affiliate) error {
	return r.db.Create(affiliate).Error
}

// Update 更新推广员
func (r *GormAffiliateRepository) Update(affiliate *models.Affiliate) error {
	return r.db.Save(affiliate).Error
}

// List 获取推广员列表
func (r *GormAffiliateRepository) List(filter AffiliateListFilter) ([]models.Affiliate, int64, error) {
	var affiliates []models.Affiliate
	query := r.db.Model(&models.Affiliate{})

	if filter.Code != "" {
		query = query.Where("code = ?", filter.Code)
	}
	if filter.Keyword != "" {
		keyword := "%" + filter.Keyword + "%"
		query = query.Where("name LIKE ? OR phone LIKE ?", keyword, keyword)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("id desc").Find(&affiliates).Error; err != nil {
		return nil, 0, err
	}
	return affiliates, total, nil
}

// UpdateStats 更新推广员聚合统计（worker 全量重算后覆盖写入）
func (r *GormAffiliateRepository) UpdateStats(id uint, totalSales, totalCommission models.Money, totalOrders int64) error {
	return r.db.Model(&models.Affiliate{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_sales":      totalSales,
			"total_commission": totalCommission,
			"total_orders":     totalOrders,
		}).Error
}
