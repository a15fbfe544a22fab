package public

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chamundam289/electro-hub-sub003/internal/constants"
	"github.com/chamundam289/electro-hub-sub003/internal/models"
	"github.com/chamundam289/electro-hub-sub003/internal/provider"
	"github.com/chamundam289/electro-hub-sub003/internal/repository"
	"github.com/chamundam289/electro-hub-sub003/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newCouponHandlerEnv(t *testing.T, name string) (*Handler, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Affiliate{}, &models.Coupon{}, &models.CouponUsage{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	c := &provider.Container{
		CouponService: service.NewCouponService(repository.NewCouponRepository(db)),
	}
	return New(c), db
}

func TestValidateCouponIncludesAffiliateID(t *testing.T) {
	handler, db := newCouponHandlerEnv(t, "handler_coupon_validate")

	affiliate := &models.Affiliate{
		Code:            "PARTNER7",
		Name:            "Partner",
		CommissionType:  constants.CommissionTypePercentage,
		CommissionValue: models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
		Status:          constants.AffiliateStatusActive,
	}
	if err := db.Create(affiliate).Error; err != nil {
		t.Fatalf("create affiliate failed: %v", err)
	}
	coupon := &models.Coupon{
		Code:          "SAVE100",
		DiscountType:  constants.CouponTypeFixed,
		DiscountValue: models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		IsActive:      true,
		AffiliateID:   affiliate.ID,
	}
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	r := gin.New()
	r.POST("/coupons/validate", handler.ValidateCoupon)

	req := httptest.NewRequest("POST", "/coupons/validate",
		strings.NewReader(`{"code":"save100","order_amount":1000}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var envelope struct {
		StatusCode int                    `json:"status_code"`
		Data       map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if envelope.StatusCode != 0 {
		t.Fatalf("expected status_code 0, got %d", envelope.StatusCode)
	}
	if valid, _ := envelope.Data["valid"].(bool); !valid {
		t.Fatalf("expected valid coupon, got %+v", envelope.Data)
	}
	affiliateID, ok := envelope.Data["affiliate_id"].(float64)
	if !ok || uint(affiliateID) != affiliate.ID {
		t.Fatalf("expected affiliate_id %d, got %v", affiliate.ID, envelope.Data["affiliate_id"])
	}
	if got, _ := envelope.Data["discount_amount"].(string); got != "100.00" {
		t.Fatalf("expected discount_amount 100.00, got %v", envelope.Data["discount_amount"])
	}
}

func TestValidateCouponRejectionHasNoAffiliateID(t *testing.T) {
	handler, _ := newCouponHandlerEnv(t, "handler_coupon_reject")

	r := gin.New()
	r.POST("/coupons/validate", handler.ValidateCoupon)

	req := httptest.NewRequest("POST", "/coupons/validate",
		strings.NewReader(`{"code":"NOSUCH","order_amount":1000}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var envelope struct {
		StatusCode int                    `json:"status_code"`
		Data       map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if valid, _ := envelope.Data["valid"].(bool); valid {
		t.Fatalf("expected invalid coupon, got %+v", envelope.Data)
	}
	if reason, _ := envelope.Data["reason"].(string); reason != constants.CouponRejectInvalidCode {
		t.Fatalf("expected reason %q, got %v", constants.CouponRejectInvalidCode, envelope.Data["reason"])
	}
	if _, present := envelope.Data["affiliate_id"]; present {
		t.Fatalf("expected no affiliate_id on rejection, got %v", envelope.Data["affiliate_id"])
	}
}
