package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chamundam289/electro-hub-sub003/internal/constants"
	"github.com/chamundam289/electro-hub-sub003/internal/logger"
	"github.com/chamundam289/electro-hub-sub003/internal/models"
	"github.com/chamundam289/electro-hub-sub003/internal/queue"
	"github.com/chamundam289/electro-hub-sub003/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 发票号冲突时的最大重试次数
const invoiceMaxRetries = 3

// OrderService 订单服务，负责下单编排：校验、算价、核销、归因
type OrderService struct {
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	couponService *CouponService
	ledgerService *LedgerService
	queueClient   *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, couponService *CouponService, ledgerService *LedgerService, queueClient *queue.Client) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		couponService: couponService,
		ledgerService: ledgerService,
		queueClient:   queueClient,
	}
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Address       string
	City          string
	Pincode       string
	Items         []CreateOrderItem
	CouponCode    string
	ClientIP      string
}

// CreateOrderItem 创建订单项输入
type CreateOrderItem struct {
	ProductID uint
	Quantity  int
}

var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPlaced: {
		constants.OrderStatusConfirmed: true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusConfirmed: {
		constants.OrderStatusShipped:   true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered: true,
	},
}

// CreateOrder 创建订单。优惠券评估与核销在同一事务内完成，
// 评估通过但并发耗尽名额时整单回滚。
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if strings.TrimSpace(input.CustomerName) == "" || strings.TrimSpace(input.CustomerPhone) == "" {
		return nil, ErrInvalidOrderData
	}
	if len(input.Items) == 0 {
		return nil, ErrInvalidOrderItem
	}

	items, gross, err := s.buildOrderItems(input.Items)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	discount := models.NewMoneyFromDecimal(decimal.Zero)
	var evaluation *CouponEvaluation
	couponCode := NormalizeCouponCode(input.CouponCode)
	if couponCode != "" {
		evaluation, err = s.couponService.Evaluate(couponCode, gross, now)
		if err != nil {
			return nil, err
		}
		discount = evaluation.DiscountAmount
	}

	total := normalizeOrderAmount(gross.Decimal.Sub(discount.Decimal))

	var order *models.Order
	for attempt := 0; attempt < invoiceMaxRetries; attempt++ {
		invoiceNo, err := s.nextInvoiceNo(now)
		if err != nil {
			return nil, err
		}

		order = &models.Order{
			InvoiceNo:      invoiceNo,
			CustomerName:   strings.TrimSpace(input.CustomerName),
			CustomerPhone:  strings.TrimSpace(input.CustomerPhone),
			CustomerEmail:  strings.TrimSpace(input.CustomerEmail),
			Address:        strings.TrimSpace(input.Address),
			City:           strings.TrimSpace(input.City),
			Pincode:        strings.TrimSpace(input.Pincode),
			Status:         constants.OrderStatusPlaced,
			GrossAmount:    gross,
			DiscountAmount: discount,
			TotalAmount:    models.NewMoneyFromDecimal(total),
			ClientIP:       strings.TrimSpace(input.ClientIP),
			Items:          cloneOrderItems(items),
		}
		if evaluation != nil {
			order.CouponCode = evaluation.Coupon.Code
			order.DiscountType = evaluation.Coupon.DiscountType
			affiliateID := evaluation.Coupon.AffiliateID
			order.AffiliateID = &affiliateID
		}

		err = models.DB.Transaction(func(tx *gorm.DB) error {
			if err := s.orderRepo.WithTx(tx).Create(order); err != nil {
				return err
			}
			if evaluation != nil {
				if err := s.ledgerService.RecordUsage(tx, evaluation.Coupon, order.ID, discount); err != nil {
					return err
				}
			}
			return nil
		})
		if err == nil {
			break
		}
		if errors.Is(err, ErrCouponUsageExhausted) {
			return nil, ErrCouponUsageExhausted
		}
		if isUniqueViolation(err) {
			logger.Warnw("order_invoice_conflict_retry",
				"invoice_no", order.InvoiceNo,
				"attempt", attempt+1,
			)
			order = nil
			continue
		}
		logger.Errorw("order_create_failed",
			"invoice_no", order.InvoiceNo,
			"error", err,
		)
		return nil, ErrOrderCreateFailed
	}
	if order == nil || order.ID == 0 {
		return nil, ErrOrderConflict
	}

	// 点击转化属于订单落库后的归因动作，失败只记日志不影响已成交订单
	if evaluation != nil {
		if err := s.ledgerService.MarkClickConverted(nil, evaluation.Coupon.AffiliateID, evaluation.Coupon.Code, order.ID); err != nil {
			logger.Warnw("order_click_convert_failed",
				"order_id", order.ID,
				"affiliate_id", evaluation.Coupon.AffiliateID,
				"coupon_code", evaluation.Coupon.Code,
				"error", err,
			)
		}
	}

	s.enqueuePostOrderTasks(order)
	return order, nil
}

// GetByInvoiceNo 根据发票号查询订单
func (s *OrderService) GetByInvoiceNo(invoiceNo string) (*models.Order, error) {
	trimmed := strings.TrimSpace(invoiceNo)
	if trimmed == "" {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByInvoiceNo(strings.ToUpper(trimmed))
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetByID 根据ID查询订单
func (s *OrderService) GetByID(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// List 查询订单列表
func (s *OrderService) List(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// UpdateStatus 按状态机推进订单状态
func (s *OrderService) UpdateStatus(id uint, status string) (*models.Order, error) {
	order, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order.Status == status {
		return order, nil
	}
	if !allowedTransitions[order.Status][status] {
		return nil, ErrOrderStatusInvalid
	}
	if err := s.orderRepo.UpdateStatus(order.ID, status); err != nil {
		return nil, err
	}
	order.Status = status
	logger.Infow("order_status_updated",
		"order_id", order.ID,
		"invoice_no", order.InvoiceNo,
		"status", status,
	)
	return order, nil
}

func (s *OrderService) buildOrderItems(inputs []CreateOrderItem) ([]models.OrderItem, models.Money, error) {
	ids := make([]uint, 0, len(inputs))
	for _, item := range inputs {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return nil, models.Money{}, ErrInvalidOrderItem
		}
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.GetByIDs(ids)
	if err != nil {
		return nil, models.Money{}, err
	}
	byID := make(map[uint]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	items := make([]models.OrderItem, 0, len(inputs))
	gross := decimal.Zero
	for _, input := range inputs {
		product, ok := byID[input.ProductID]
		if !ok || !product.IsActive {
			return nil, models.Money{}, ErrProductNotAvailable
		}
		total := product.Price.Decimal.Mul(decimal.NewFromInt(int64(input.Quantity))).Round(2)
		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    input.Quantity,
			TotalPrice:  models.NewMoneyFromDecimal(total),
		})
		gross = gross.Add(total).Round(2)
	}
	return items, models.NewMoneyFromDecimal(gross), nil
}

// nextInvoiceNo 生成当月发票号：INV-YYYYMM-NNNN，序号按月从 1 递增
func (s *OrderService) nextInvoiceNo(now time.Time) (string, error) {
	prefix := fmt.Sprintf("%s-%s-", constants.InvoicePrefix, now.Format(constants.InvoiceMonthLayout))
	maxNo, err := s.orderRepo.MaxInvoiceNo(prefix)
	if err != nil {
		return "", err
	}
	seq := 1
	if maxNo != "" {
		parts := strings.Split(maxNo, "-")
		if last, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			seq = last + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

func (s *OrderService) enqueuePostOrderTasks(order *models.Order) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	if err := s.queueClient.EnqueueOrderAwardCoins(queue.OrderAwardCoinsPayload{
		OrderID: order.ID,
	}); err != nil {
		logger.Errorw("order_enqueue_award_coins_failed",
			"order_id", order.ID,
			"invoice_no", order.InvoiceNo,
			"error", err,
		)
	}
	if order.AffiliateID != nil {
		if err := s.queueClient.EnqueueAffiliateRefreshStats(queue.AffiliateRefreshStatsPayload{
			AffiliateID: *order.AffiliateID,
		}); err != nil {
			logger.Errorw("order_enqueue_refresh_stats_failed",
				"order_id", order.ID,
				"affiliate_id", *order.AffiliateID,
				"error", err,
			)
		}
	}
}

func cloneOrderItems(items []models.OrderItem) []models.OrderItem {
	cloned := make([]models.OrderItem, len(items))
	copy(cloned, items)
	return cloned
}

// normalizeOrderAmount 归一化金额精度与下限
func normalizeOrderAmount(amount decimal.Decimal) decimal.Decimal {
	normalized := amount.Round(2)
	if normalized.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return normalized
}
