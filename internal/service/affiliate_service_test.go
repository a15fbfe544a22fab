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

func newAffiliateTestEnv(t *testing.T, name string) (*gorm.DB, *AffiliateService) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Affiliate{}, &models.AffiliateClick{},
		&models.Coupon{}, &models.Order{}, &models.OrderItem{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	svc := NewAffiliateService(
		repository.NewAffiliateRepository(db),
		repository.NewAffiliateClickRepository(db),
		repository.NewOrderRepository(db),
		repository.NewCouponRepository(db),
	)
	return db, svc
}

func createAffiliate(t *testing.T, db *gorm.DB, code, commissionType string, value int64, status string) *models.Affiliate {
	t.Helper()
	affiliate := &models.Affiliate{
		Code:            code,
		Name:            "Partner " + code,
		CommissionType:  commissionType,
		CommissionValue: models.NewMoneyFromDecimal(decimal.NewFromInt(value)),
		Status:          status,
	}
	if err := db.Create(affiliate).Error; err != nil {
		t.Fatalf("create affiliate failed: %v", err)
	}
	return affiliate
}

func TestTrackClickRecordsVisit(t *testing.T) {
	db, svc := newAffiliateTestEnv(t, "affiliate_track")
	affiliate := createAffiliate(t, db, "PROMO1", constants.CommissionTypePercentage, 5, constants.AffiliateStatusActive)

	err := svc.TrackClick(AffiliateTrackClickInput{
		AffiliateCode: "promo1",
		CouponCode:    "save10",
		VisitorKey:    "visitor-1",
		LandingPath:   "/products/earbuds",
		ClientIP:      "10.0.0.1",
	})
	if err != nil {
		t.Fatalf("TrackClick error: %v", err)
	}

	var click models.AffiliateClick
	if err := db.Where("affiliate_id = ?", affiliate.ID).First(&click).Error; err != nil {
		t.Fatalf("expected click recorded: %v", err)
	}
	if click.CouponCode != "SAVE10" {
		t.Fatalf("expected canonical coupon code, got %s", click.CouponCode)
	}
	if click.Converted {
		t.Fatalf("new click must not be converted")
	}
}

func TestTrackClickDedupeWindow(t *testing.T) {
	db, svc := newAffiliateTestEnv(t, "affiliate_dedupe")
	affiliate := createAffiliate(t, db, "PROMO2", constants.CommissionTypePercentage, 5, constants.AffiliateStatusActive)

	input := AffiliateTrackClickInput{
		AffiliateCode: affiliate.Code,
		VisitorKey:    "visitor-2",
	}
	for i := 0; i < 3; i++ {
		if err := svc.TrackClick(input); err != nil {
			t.Fatalf("TrackClick attempt %d error: %v", i+1, err)
		}
	}

	var count int64
	if err := db.Model(&models.AffiliateClick{}).Where("affiliate_id = ?", affiliate.ID).Count(&count).Error; err != nil {
		t.Fatalf("count clicks failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 click after dedupe, got %d", count)
	}
}

func TestTrackClickSilentOnUnknownOrDisabled(t *testing.T) {
	db, svc := newAffiliateTestEnv(t, "affiliate_silent")
	disabled := createAffiliate(t, db, "GONE", constants.CommissionTypeFixed, 10, constants.AffiliateStatusDisabled)

	if err := svc.TrackClick(AffiliateTrackClickInput{AffiliateCode: "NOSUCH"}); err != nil {
		t.Fatalf("unknown code should be silent, got: %v", err)
	}
	if err := svc.TrackClick(AffiliateTrackClickInput{AffiliateCode: disabled.Code}); err != nil {
		t.Fatalf("disabled affiliate should be silent, got: %v", err)
	}

	var count int64
	if err := db.Model(&models.AffiliateClick{}).Count(&count).Error; err != nil {
		t.Fatalf("count clicks failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no clicks recorded, got %d", count)
	}
}

func TestRefreshStatsPercentageCommission(t *testing.T) {
	db, svc := newAffiliateTestEnv(t, "affiliate_stats_pct")
	affiliate := createAffiliate(t, db, "PCT5", constants.CommissionTypePercentage, 5, constants.AffiliateStatusActive)

	orders := []models.Order{
		{InvoiceNo: "INV-202608-0001", CustomerName: "A", CustomerPhone: "1", Status: constants.OrderStatusPlaced, TotalAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(1000)), AffiliateID: &affiliate.ID},
		{InvoiceNo: "INV-202608-0002", CustomerName: "B", CustomerPhone: "2", Status: constants.OrderStatusConfirmed, TotalAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(500)), AffiliateID: &affiliate.ID},
		{InvoiceNo: "INV-202608-0003", CustomerName: "C", CustomerPhone: "3", Status: constants.OrderStatusCancelled, TotalAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(800)), AffiliateID: &affiliate.ID},
	}
	for i := range orders {
		if err := db.Create(&orders[i]).Error; err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}

	if err := svc.RefreshStats(affiliate.ID); err != nil {
		t.Fatalf("RefreshStats error: %v", err)
	}

	var reloaded models.Affiliate
	if err := db.First(&reloaded, affiliate.ID).Error; err != nil {
		t.Fatalf("reload affiliate failed: %v", err)
	}
	if !reloaded.TotalSales.Decimal.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("expected total_sales 1500 excluding cancelled, got %s", reloaded.TotalSales.String())
	}
	if reloaded.TotalOrders != 2 {
		t.Fatalf("expected 2 orders, got %d", reloaded.TotalOrders)
	}
	if !reloaded.TotalCommission.Decimal.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("expected commission 75, got %s", reloaded.TotalCommission.String())
	}
}

func TestRefreshStatsFixedCommission(t *testing.T) {
	db, svc := newAffiliateTestEnv(t, "affiliate_stats_fixed")
	affiliate := createAffiliate(t, db, "FIX20", constants.CommissionTypeFixed, 20, constants.AffiliateStatusActive)

	for i := 1; i <= 3; i++ {
		order := models.Order{
			InvoiceNo:     fmt.Sprintf("INV-202608-%04d", i),
			CustomerName:  "Buyer",
			CustomerPhone: fmt.Sprintf("90000%05d", i),
			Status:        constants.OrderStatusPlaced,
			TotalAmount:   models.NewMoneyFromDecimal(decimal.NewFromInt(300)),
			AffiliateID:   &affiliate.ID,
		}
		if err := db.Create(&order).Error; err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}

	if err := svc.RefreshStats(affiliate.ID); err != nil {
		t.Fatalf("RefreshStats error: %v", err)
	}

	var reloaded models.Affiliate
	if err := db.First(&reloaded, affiliate.ID).Error; err != nil {
		t.Fatalf("reload affiliate failed: %v", err)
	}
	if !reloaded.TotalCommission.Decimal.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected fixed commission 60, got %s", reloaded.TotalCommission.String())
	}
}

func TestRefreshStatsUnknownAffiliate(t *testing.T) {
	_, svc := newAffiliateTestEnv(t, "affiliate_stats_unknown")
	if err := svc.RefreshStats(999); !errors.Is(err, ErrAffiliateNotFound) {
		t.Fatalf("expected ErrAffiliateNotFound, got: %v", err)
	}
}

func TestCreateAffiliateGeneratesCode(t *testing.T) {
	db, svc := newAffiliateTestEnv(t, "affiliate_create")
	affiliate, err := svc.Create(CreateAffiliateInput{
		Name:            "New Partner",
		CommissionType:  constants.CommissionTypePercentage,
		CommissionValue: models.NewMoneyFromDecimal(decimal.NewFromInt(8)),
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if len(affiliate.Code) != affiliateCodeLength {
		t.Fatalf("expected %d-char code, got %q", affiliateCodeLength, affiliate.Code)
	}
	if affiliate.Status != constants.AffiliateStatusActive {
		t.Fatalf("expected active status, got %s", affiliate.Status)
	}

	var count int64
	if err := db.Model(&models.Affiliate{}).Count(&count).Error; err != nil {
		t.Fatalf("count affiliates failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 affiliate, got %d", count)
	}
}

func TestCreateAffiliateRejectsBadCommissionType(t *testing.T) {
	_, svc := newAffiliateTestEnv(t, "affiliate_create_bad")
	if _, err := svc.Create(CreateAffiliateInput{
		Name:           "Broken",
		CommissionType: "points",
	}); !errors.Is(err, ErrInvalidOrderData) {
		t.Fatalf("expected ErrInvalidOrderData, got: %v", err)
	}
}

func TestSetStatusValidation(t *testing.T) {
	db, svc := newAffiliateTestEnv(t, "affiliate_status")
	affiliate := createAffiliate(t, db, "TOGGLE", constants.CommissionTypeFixed, 10, constants.AffiliateStatusActive)

	updated, err := svc.SetStatus(affiliate.ID, constants.AffiliateStatusDisabled)
	if err != nil {
		t.Fatalf("SetStatus error: %v", err)
	}
	if updated.Status != constants.AffiliateStatusDisabled {
		t.Fatalf("expected disabled, got %s", updated.Status)
	}

	if _, err := svc.SetStatus(affiliate.ID, "archived"); !errors.Is(err, ErrInvalidOrderData) {
		t.Fatalf("expected ErrInvalidOrderData, got: %v", err)
	}
}
