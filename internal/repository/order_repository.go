package repository

import (
	"database/sql"
	"errors"

	"github.com/chamundam289/electro-hub-sub003/internal/constants"
	"github.com/chamundam289/electro-hub-sub003/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByInvoiceNo(invoiceNo string) (*models.Order, error)
	MaxInvoiceNo(prefix string) (string, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	UpdateStatus(id uint, status string) error
	ListCouponOrdersMissingUsage(limit int) ([]models.Order, error)
	SumByAffiliate(affiliateID uint) (models.Money, int64, error)
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create 创建订单（级联写入订单明细）
func (r *GormOrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// GetByID 根据ID获取订单
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByInvoiceNo 根据发票号获取订单
func (r *GormOrderRepository) GetByInvoiceNo(invoiceNo string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").Where("invoice_no = ?", invoiceNo).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// MaxInvoiceNo 返回指定前缀下当前最大的发票号，不存在时返回空串。
// 当月无订单时 MAX 为 NULL，需用 NullString 接收
func (r *GormOrderRepository) MaxInvoiceNo(prefix string) (string, error) {
	var invoiceNo sql.NullString
	err := r.db.Model(&models.Order{}).
		Where("invoice_no LIKE ?", prefix+"%").
		Select("MAX(invoice_no)").
		Scan(&invoiceNo).Error
	if err != nil {
		return "", err
	}
	return invoiceNo.String, nil
}

// List 获取订单列表
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order
	query := r.db.Model(&models.Order{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.InvoiceNo != "" {
		query = query.Where("invoice_no = ?", filter.InvoiceNo)
	}
	if filter.CustomerPhone != "" {
		query = query.Where("customer_phone = ?", filter.CustomerPhone)
	}
	if filter.CouponCode != "" {
		query = query.Where("coupon_code = ?", filter.CouponCode)
	}
	if filter.AffiliateID > 0 {
		query = query.Where("affiliate_id = ?", filter.AffiliateID)
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

	if err := query.Preload("Items").Order("id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus 更新订单状态
func (r *GormOrderRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Order{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}

// ListCouponOrdersMissingUsage 找出带券但缺少核销记录的订单，用于对账修复
func (r *GormOrderRepository) ListCouponOrdersMissingUsage(limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	var orders []models.Order
	err := r.db.Model(&models.Order{}).
		Where("coupon_code <> ''").
		Where("status <> ?", constants.OrderStatusCancelled).
		Where("id NOT IN (?)", r.db.Model(&models.CouponUsage{}).Select("order_id")).
		Order("id asc").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// SumByAffiliate 统计推广员名下有效订单的销售额与单量
func (r *GormOrderRepository) SumByAffiliate(affiliateID uint) (models.Money, int64, error) {
	var result struct {
		Total float64
		Count int64
	}
	err := r.db.Model(&models.Order{}).
		Where("affiliate_id = ?", affiliateID).
		Where("status <> ?", constants.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0) AS total, COUNT(*) AS count").
		Scan(&result).Error
	if err != nil {
		return models.Money{}, 0, err
	}
	return models.NewMoneyFromFloat(result.Total), result.Count, nil
}
