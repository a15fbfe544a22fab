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

func newCouponTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Affiliate{}, &models.Coupon{}, &models.CouponUsage{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func newCouponTestService(t *testing.T, db *gorm.DB) *CouponService {
	t.Helper()
	return NewCouponService(repository.NewCouponRepository(db))
}

func createTestAffiliate(t *testing.T, db *gorm.DB) *models.Affiliate {
	t.Helper()
	affiliate := &models.Affiliate{
		Code:            "PARTNER1",
		Name:            "Partner",
		CommissionType:  constants.CommissionTypePercentage,
		CommissionValue: models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
		Status:          constants.AffiliateStatusActive,
	}
	if err := db.Create(affiliate).Error; err != nil {
		t.Fatalf("create affiliate failed: %v", err)
	}
	return affiliate
}

func TestEvaluateFixedDiscount(t *testing.T) {
	db := newCouponTestDB(t, "coupon_eval_fixed")
	affiliate := createTestAffiliate(t, db)
	coupon := &models.Coupon{
		Code:          "FLAT200",
		DiscountType:  constants.CouponTypeFixed,
		DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(200)),
		IsActive:      true,
		AffiliateID:   affiliate.ID,
	}
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	svc := newCouponTestService(t, db)
	result, err := svc.Evaluate("flat200", models.NewMoneyFromDecimal(decimal.NewFromInt(1000)), time.Now())
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if !result.DiscountAmount.Decimal.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected discount 200, got %s", result.DiscountAmount.String())
	}
	if !result.FinalAmount.Decimal.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("expected final 800, got %s", result.FinalAmount.String())
	}
}

func TestEvaluateFixedDiscountClampedToOrderAmount(t *testing.T) {
	db := newCouponTestDB(t, "coupon_eval_clamp")
	affiliate := createTestAffiliate(t, db)
	coupon := &models.Coupon{
		Code:          "FLAT1500",
		DiscountType:  constants.CouponTypeFixed,
		DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(1500)),
		IsActive:      true,
		AffiliateID:   affiliate.ID,
	}
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	svc := newCouponTestService(t, db)
	result, err := svc.Evaluate("FLAT1500", models.NewMoneyFromDecimal(decimal.NewFromInt(1000)), time.Now())
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if !result.DiscountAmount.Decimal.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected discount clamped to 1000, got %s", result.DiscountAmount.String())
	}
	if !result.FinalAmount.Decimal.Equal(decimal.Zero) {
		t.Fatalf("expected final 0, got %s", result.FinalAmount.String())
	}
}

func TestEvaluatePercentageWithCap(t *testing.T) {
	db := newCouponTestDB(t, "coupon_eval_percent")
	affiliate := createTestAffiliate(t, db)
	coupon := &models.Coupon{
		Code:          "HALF",
		DiscountType:  constants.CouponTypePercentage,
		DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
		MaxDiscount:   models.NewMoneyFromDecimal(decimal.NewFromInt(300)),
		IsActive:      true,
		AffiliateID:   affiliate.ID,
	}
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	svc := newCouponTestService(t, db)
	result, err := svc.Evaluate("HALF", models.NewMoneyFromDecimal(decimal.NewFromInt(1000)), time.Now())
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if !result.DiscountAmount.Decimal.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expected discount capped at 300, got %s", result.DiscountAmount.String())
	}
	if !result.FinalAmount.Decimal.Equal(decimal.NewFromInt(700)) {
		t.Fatalf("expected final 700, got %s", result.FinalAmount.String())
	}
}

func TestEvaluateExpiryIsEndOfCalendarDay(t *testing.T) {
	db := newCouponTestDB(t, "coupon_eval_expiry")
	affiliate := createTestAffiliate(t, db)
	expiry := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	coupon := &models.Coupon{
		Code:          "JUNE",
		DiscountType:  constants.CouponTypeFixed,
		DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		ExpiresAt:     &expiry,
		IsActive:      true,
		AffiliateID:   affiliate.ID,
	}
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	svc := newCouponTestService(t, db)
	amount := models.NewMoneyFromDecimal(decimal.NewFromInt(500))

	// 失效当天整日仍然有效
	sameDay := time.Date(2026, 6, 15, 23, 0, 0, 0, time.UTC)
	if _, err := svc.Evaluate("JUNE", amount, sameDay); err != nil {
		t.Fatalf("expected coupon valid on expiry day, got: %v", err)
	}

	nextDay := time.Date(2026, 6, 16, 0, 0, 1, 0, time.UTC)
	if _, err := svc.Evaluate("JUNE", amount, nextDay); !errors.Is(err, ErrCouponExpired) {
		t.Fatalf("expected ErrCouponExpired, got: %v", err)
	}
}

func TestEvaluateUsageExhausted(t *testing.T) {
	db := newCouponTestDB(t, "coupon_eval_exhausted")
	affiliate := createTestAffiliate(t, db)
	coupon := &models.Coupon{
		Code:          "LIMITED",
		DiscountType:  constants.CouponTypeFixed,
		DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
		UsageLimit:    2,
		UsedCount:     2,
		IsActive:      true,
		AffiliateID:   affiliate.ID,
	}
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	svc := newCouponTestService(t, db)
	_, err := svc.Evaluate("LIMITED", models.NewMoneyFromDecimal(decimal.NewFromInt(500)), time.Now())
	if !errors.Is(err, ErrCouponUsageExhausted) {
		t.Fatalf("expected ErrCouponUsageExhausted, got: %v", err)
	}
}

func TestEvaluateBelowMinimumAmount(t *testing.T) {
	db := newCouponTestDB(t, "coupon_eval_minimum")
	affiliate := createTestAffiliate(t, db)
	coupon := &models.Coupon{
		Code:           "BIGSPEND",
		DiscountType:   constants.CouponTypeFixed,
		DiscountValue:  models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		MinOrderAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(800)),
		IsActive:       true,
		AffiliateID:    affiliate.ID,
	}
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	svc := newCouponTestService(t, db)
	_, err := svc.Evaluate("BIGSPEND", models.NewMoneyFromDecimal(decimal.NewFromInt(500)), time.Now())
	if !errors.Is(err, ErrCouponMinAmount) {
		t.Fatalf("expected ErrCouponMinAmount, got: %v", err)
	}

	// 刚好达到门槛时可用
	if _, err := svc.Evaluate("BIGSPEND", models.NewMoneyFromDecimal(decimal.NewFromInt(800)), time.Now()); err != nil {
		t.Fatalf("expected coupon valid at threshold, got: %v", err)
	}
}

func TestEvaluateInactiveAndMissing(t *testing.T) {
	db := newCouponTestDB(t, "coupon_eval_inactive")
	affiliate := createTestAffiliate(t, db)
	coupon := &models.Coupon{
		Code:          "PAUSED",
		DiscountType:  constants.CouponTypeFixed,
		DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
		IsActive:      false,
		AffiliateID:   affiliate.ID,
	}
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	// IsActive has a gorm default:true tag, so the zero value is skipped on insert
	if err := db.Model(coupon).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate coupon failed: %v", err)
	}

	svc := newCouponTestService(t, db)
	amount := models.NewMoneyFromDecimal(decimal.NewFromInt(500))
	if _, err := svc.Evaluate("PAUSED", amount, time.Now()); !errors.Is(err, ErrCouponInactive) {
		t.Fatalf("expected ErrCouponInactive, got: %v", err)
	}
	if _, err := svc.Evaluate("NOSUCH", amount, time.Now()); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("expected ErrCouponNotFound, got: %v", err)
	}
	if _, err := svc.Evaluate("   ", amount, time.Now()); !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("expected ErrCouponInvalid, got: %v", err)
	}
	if _, err := svc.Evaluate("PAUSED", models.NewMoneyFromDecimal(decimal.NewFromInt(-1)), time.Now()); !errors.Is(err, ErrInvalidOrderAmount) {
		t.Fatalf("expected ErrInvalidOrderAmount, got: %v", err)
	}
	if _, err := svc.Evaluate("PAUSED", models.Money{}, time.Now()); !errors.Is(err, ErrInvalidOrderAmount) {
		t.Fatalf("expected ErrInvalidOrderAmount for zero amount, got: %v", err)
	}
}

func TestEvaluateDoesNotMutateState(t *testing.T) {
	db := newCouponTestDB(t, "coupon_eval_readonly")
	affiliate := createTestAffiliate(t, db)
	coupon := &models.Coupon{
		Code:          "READONLY",
		DiscountType:  constants.CouponTypeFixed,
		DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		UsageLimit:    5,
		IsActive:      true,
		AffiliateID:   affiliate.ID,
	}
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	svc := newCouponTestService(t, db)
	amount := models.NewMoneyFromDecimal(decimal.NewFromInt(500))
	for i := 0; i < 3; i++ {
		if _, err := svc.Evaluate("READONLY", amount, time.Now()); err != nil {
			t.Fatalf("Evaluate error: %v", err)
		}
	}

	var reloaded models.Coupon
	if err := db.First(&reloaded, coupon.ID).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if reloaded.UsedCount != 0 {
		t.Fatalf("expected used_count untouched, got %d", reloaded.UsedCount)
	}
}

func TestNormalizeCouponCode(t *testing.T) {
	if got := NormalizeCouponCode("  save10 "); got != "SAVE10" {
		t.Fatalf("expected SAVE10, got %s", got)
	}
	if got := NormalizeCouponCode(""); got != "" {
		t.Fatalf("expected empty, got %s", got)
	}
}

func TestRejectKindForError(t *testing.T) {
	cases := []struct {
		err  error
		kind string
	}{
		{ErrCouponNotFound, constants.CouponRejectInvalidCode},
		{ErrCouponInvalid, constants.CouponRejectInvalidCode},
		{ErrCouponInactive, constants.CouponRejectInactive},
		{ErrCouponExpired, constants.CouponRejectExpired},
		{ErrCouponUsageExhausted, constants.CouponRejectUsageExhausted},
		{ErrCouponMinAmount, constants.CouponRejectBelowMinimum},
		{ErrOrderNotFound, ""},
	}
	for _, tc := range cases {
		if got := RejectKindForError(tc.err); got != tc.kind {
			t.Fatalf("RejectKindForError(%v): expected %q, got %q", tc.err, tc.kind, got)
		}
	}
}
