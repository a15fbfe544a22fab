package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/chamundam289/electro-hub-sub003/internal/constants"
	"github.com/chamundam289/electro-hub-sub003/internal/models"
	"github.com/chamundam289/electro-hub-sub003/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type orderTestEnv struct {
	db  *gorm.DB
	svc *OrderService
}

func newOrderTestEnv(t *testing.T, name string) *orderTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Affiliate{}, &models.AffiliateClick{},
		&models.Coupon{}, &models.CouponUsage{},
		&models.Order{}, &models.OrderItem{},
		&models.Product{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	couponRepo := repository.NewCouponRepository(db)
	usageRepo := repository.NewCouponUsageRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	clickRepo := repository.NewAffiliateClickRepository(db)
	svc := NewOrderService(
		orderRepo,
		repository.NewProductRepository(db),
		NewCouponService(couponRepo),
		NewLedgerService(couponRepo, usageRepo, orderRepo, clickRepo),
		nil,
	)
	return &orderTestEnv{db: db, svc: svc}
}

func (e *orderTestEnv) createProduct(t *testing.T, slug string, price int64, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:     "Product " + slug,
		Slug:     slug,
		Category: "electronics",
		Price:    models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
		Stock:    100,
		IsActive: active,
	}
	if err := e.db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	// IsActive has a gorm default:true tag, so the zero value is skipped on insert
	if !active {
		if err := e.db.Model(product).Update("is_active", false).Error; err != nil {
			t.Fatalf("deactivate product failed: %v", err)
		}
	}
	return product
}

func (e *orderTestEnv) createCoupon(t *testing.T, code string, discountValue int64, usageLimit int) *models.Coupon {
	t.Helper()
	affiliate := &models.Affiliate{
		Code:            "AFF" + code,
		Name:            "Partner " + code,
		CommissionType:  constants.CommissionTypePercentage,
		CommissionValue: models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
		Status:          constants.AffiliateStatusActive,
	}
	if err := e.db.Create(affiliate).Error; err != nil {
		t.Fatalf("create affiliate failed: %v", err)
	}
	coupon := &models.Coupon{
		Code:          code,
		DiscountType:  constants.CouponTypeFixed,
		DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(discountValue)),
		UsageLimit:    usageLimit,
		IsActive:      true,
		AffiliateID:   affiliate.ID,
	}
	if err := e.db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	return coupon
}

func TestCreateOrderInvoiceSequence(t *testing.T) {
	env := newOrderTestEnv(t, "order_invoice_seq")
	product := env.createProduct(t, "earbuds", 500, true)

	input := CreateOrderInput{
		CustomerName:  "Asha",
		CustomerPhone: "9000000001",
		Items:         []CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
	}

	first, err := env.svc.CreateOrder(input)
	if err != nil {
		t.Fatalf("CreateOrder error: %v", err)
	}
	wantPrefix := fmt.Sprintf("INV-%s-", time.Now().Format("200601"))
	if first.InvoiceNo != wantPrefix+"0001" {
		t.Fatalf("expected %s0001, got %s", wantPrefix, first.InvoiceNo)
	}

	second, err := env.svc.CreateOrder(input)
	if err != nil {
		t.Fatalf("second CreateOrder error: %v", err)
	}
	if second.InvoiceNo != wantPrefix+"0002" {
		t.Fatalf("expected %s0002, got %s", wantPrefix, second.InvoiceNo)
	}
	if first.Status != constants.OrderStatusPlaced {
		t.Fatalf("expected placed status, got %s", first.Status)
	}
}

func TestCreateOrderWithCoupon(t *testing.T) {
	env := newOrderTestEnv(t, "order_with_coupon")
	product := env.createProduct(t, "band", 500, true)
	coupon := env.createCoupon(t, "FLAT200", 200, 0)

	order, err := env.svc.CreateOrder(CreateOrderInput{
		CustomerName:  "Ravi",
		CustomerPhone: "9000000002",
		Items:         []CreateOrderItem{{ProductID: product.ID, Quantity: 2}},
		CouponCode:    "flat200",
	})
	if err != nil {
		t.Fatalf("CreateOrder error: %v", err)
	}

	if !order.GrossAmount.Decimal.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected gross 1000, got %s", order.GrossAmount.String())
	}
	if !order.DiscountAmount.Decimal.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected discount 200, got %s", order.DiscountAmount.String())
	}
	if !order.TotalAmount.Decimal.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("expected total 800, got %s", order.TotalAmount.String())
	}
	if order.CouponCode != "FLAT200" {
		t.Fatalf("expected canonical coupon code, got %s", order.CouponCode)
	}
	if order.AffiliateID == nil || *order.AffiliateID != coupon.AffiliateID {
		t.Fatalf("expected affiliate attribution, got %+v", order.AffiliateID)
	}

	var usage models.CouponUsage
	if err := env.db.Where("coupon_id = ? AND order_id = ?", coupon.ID, order.ID).First(&usage).Error; err != nil {
		t.Fatalf("expected usage recorded: %v", err)
	}
	var reloaded models.Coupon
	if err := env.db.First(&reloaded, coupon.ID).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if reloaded.UsedCount != 1 {
		t.Fatalf("expected used_count 1, got %d", reloaded.UsedCount)
	}
}

func TestCreateOrderConvertsPendingClick(t *testing.T) {
	env := newOrderTestEnv(t, "order_click_convert")
	product := env.createProduct(t, "charger", 900, true)
	coupon := env.createCoupon(t, "TRACKED", 100, 0)

	click := &models.AffiliateClick{
		AffiliateID: coupon.AffiliateID,
		CouponCode:  coupon.Code,
		VisitorKey:  "visitor-9",
		CreatedAt:   time.Now(),
	}
	if err := env.db.Create(click).Error; err != nil {
		t.Fatalf("create click failed: %v", err)
	}

	order, err := env.svc.CreateOrder(CreateOrderInput{
		CustomerName:  "Meera",
		CustomerPhone: "9000000003",
		Items:         []CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
		CouponCode:    coupon.Code,
	})
	if err != nil {
		t.Fatalf("CreateOrder error: %v", err)
	}

	var reloaded models.AffiliateClick
	if err := env.db.First(&reloaded, click.ID).Error; err != nil {
		t.Fatalf("reload click failed: %v", err)
	}
	if !reloaded.Converted {
		t.Fatalf("expected click converted")
	}
	if reloaded.OrderID == nil || *reloaded.OrderID != order.ID {
		t.Fatalf("expected click linked to order %d, got %+v", order.ID, reloaded.OrderID)
	}
}

func TestCreateOrderClickFailureKeepsOrder(t *testing.T) {
	env := newOrderTestEnv(t, "order_click_failure")
	product := env.createProduct(t, "earbuds", 700, true)
	coupon := env.createCoupon(t, "KEEP100", 100, 0)

	// 点击表不可用时转化失败，但已落库订单和核销记录不受影响
	if err := env.db.Migrator().DropTable(&models.AffiliateClick{}); err != nil {
		t.Fatalf("drop table failed: %v", err)
	}

	order, err := env.svc.CreateOrder(CreateOrderInput{
		CustomerName:  "Rohit",
		CustomerPhone: "9000000008",
		Items:         []CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
		CouponCode:    coupon.Code,
	})
	if err != nil {
		t.Fatalf("CreateOrder error: %v", err)
	}
	if order == nil || order.ID == 0 {
		t.Fatalf("expected persisted order")
	}

	var orderCount int64
	if err := env.db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 1 {
		t.Fatalf("expected 1 order, got %d", orderCount)
	}
	var usageCount int64
	if err := env.db.Model(&models.CouponUsage{}).Where("order_id = ?", order.ID).Count(&usageCount).Error; err != nil {
		t.Fatalf("count usages failed: %v", err)
	}
	if usageCount != 1 {
		t.Fatalf("expected usage recorded, got %d", usageCount)
	}
}

func TestCreateOrderExhaustedCouponLeavesNoOrder(t *testing.T) {
	env := newOrderTestEnv(t, "order_coupon_exhausted")
	product := env.createProduct(t, "bottle", 600, true)
	coupon := env.createCoupon(t, "CAP1", 100, 1)
	if err := env.db.Model(&models.Coupon{}).Where("id = ?", coupon.ID).Update("used_count", 1).Error; err != nil {
		t.Fatalf("update used_count failed: %v", err)
	}

	_, err := env.svc.CreateOrder(CreateOrderInput{
		CustomerName:  "Kiran",
		CustomerPhone: "9000000004",
		Items:         []CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
		CouponCode:    coupon.Code,
	})
	if !errors.Is(err, ErrCouponUsageExhausted) {
		t.Fatalf("expected ErrCouponUsageExhausted, got: %v", err)
	}

	var orderCount int64
	if err := env.db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("expected no order persisted, got %d", orderCount)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	env := newOrderTestEnv(t, "order_validation")
	product := env.createProduct(t, "valid", 100, true)
	inactive := env.createProduct(t, "inactive", 100, false)

	cases := []struct {
		name  string
		input CreateOrderInput
		want  error
	}{
		{
			name: "blank customer name",
			input: CreateOrderInput{
				CustomerPhone: "9000000005",
				Items:         []CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
			},
			want: ErrInvalidOrderData,
		},
		{
			name: "no items",
			input: CreateOrderInput{
				CustomerName:  "Dev",
				CustomerPhone: "9000000005",
			},
			want: ErrInvalidOrderItem,
		},
		{
			name: "zero quantity",
			input: CreateOrderInput{
				CustomerName:  "Dev",
				CustomerPhone: "9000000005",
				Items:         []CreateOrderItem{{ProductID: product.ID, Quantity: 0}},
			},
			want: ErrInvalidOrderItem,
		},
		{
			name: "inactive product",
			input: CreateOrderInput{
				CustomerName:  "Dev",
				CustomerPhone: "9000000005",
				Items:         []CreateOrderItem{{ProductID: inactive.ID, Quantity: 1}},
			},
			want: ErrProductNotAvailable,
		},
	}
	for _, tc := range cases {
		if _, err := env.svc.CreateOrder(tc.input); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	env := newOrderTestEnv(t, "order_transitions")
	product := env.createProduct(t, "widget", 300, true)
	order, err := env.svc.CreateOrder(CreateOrderInput{
		CustomerName:  "Lina",
		CustomerPhone: "9000000006",
		Items:         []CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateOrder error: %v", err)
	}

	if _, err := env.svc.UpdateStatus(order.ID, constants.OrderStatusDelivered); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected placed->delivered rejected, got: %v", err)
	}

	for _, status := range []string{
		constants.OrderStatusConfirmed,
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
	} {
		updated, err := env.svc.UpdateStatus(order.ID, status)
		if err != nil {
			t.Fatalf("UpdateStatus to %s error: %v", status, err)
		}
		if updated.Status != status {
			t.Fatalf("expected %s, got %s", status, updated.Status)
		}
	}

	if _, err := env.svc.UpdateStatus(order.ID, constants.OrderStatusCancelled); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected delivered->cancelled rejected, got: %v", err)
	}
}

func TestGetByInvoiceNoCaseInsensitive(t *testing.T) {
	env := newOrderTestEnv(t, "order_invoice_lookup")
	product := env.createProduct(t, "lamp", 450, true)
	order, err := env.svc.CreateOrder(CreateOrderInput{
		CustomerName:  "Noor",
		CustomerPhone: "9000000007",
		Items:         []CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateOrder error: %v", err)
	}

	found, err := env.svc.GetByInvoiceNo("  " + order.InvoiceNo + " ")
	if err != nil {
		t.Fatalf("GetByInvoiceNo error: %v", err)
	}
	if found.ID != order.ID {
		t.Fatalf("expected order %d, got %d", order.ID, found.ID)
	}
	if len(found.Items) != 1 {
		t.Fatalf("expected items preloaded, got %d", len(found.Items))
	}

	if _, err := env.svc.GetByInvoiceNo("INV-000000-9999"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got: %v", err)
	}
}

func TestNormalizeOrderAmount(t *testing.T) {
	if got := normalizeOrderAmount(decimal.NewFromFloat(-0.5)); !got.Equal(decimal.Zero) {
		t.Fatalf("expected 0, got %s", got.String())
	}
	if got := normalizeOrderAmount(decimal.NewFromFloat(10.555)); !got.Equal(decimal.NewFromFloat(10.56)) {
		t.Fatalf("expected 10.56, got %s", got.String())
	}
}
