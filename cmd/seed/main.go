package main

import (
	"time"

	"github.com/chamundam289/electro-hub-sub003/internal/config"
	"github.com/chamundam289/electro-hub-sub003/internal/constants"
	"github.com/chamundam289/electro-hub-sub003/internal/logger"
	"github.com/chamundam289/electro-hub-sub003/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 示例商品
	products := []models.Product{
		{
			Name:        "Wireless Earbuds Pro",
			Slug:        "wireless-earbuds-pro",
			Description: "True wireless earbuds with active noise cancellation",
			Category:    "electronics",
			Price:       models.NewMoneyFromFloat(2999),
			MRP:         models.NewMoneyFromFloat(3999),
			Stock:       200,
			IsActive:    true,
		},
		{
			Name:        "Smart Fitness Band",
			Slug:        "smart-fitness-band",
			Description: "Heart rate, sleep and activity tracking",
			Category:    "electronics",
			Price:       models.NewMoneyFromFloat(1499),
			MRP:         models.NewMoneyFromFloat(1999),
			Stock:       350,
			IsActive:    true,
		},
		{
			Name:        "USB-C Fast Charger 65W",
			Slug:        "usb-c-fast-charger-65w",
			Description: "GaN charger with dual ports",
			Category:    "accessories",
			Price:       models.NewMoneyFromFloat(899),
			MRP:         models.NewMoneyFromFloat(1299),
			Stock:       500,
			IsActive:    true,
		},
		{
			Name:        "Stainless Steel Bottle 1L",
			Slug:        "stainless-steel-bottle-1l",
			Description: "Vacuum insulated, keeps drinks cold for 24h",
			Category:    "lifestyle",
			Price:       models.NewMoneyFromFloat(599),
			MRP:         models.NewMoneyFromFloat(799),
			Stock:       800,
			IsActive:    true,
		},
	}
	for _, product := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", product.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", product.Slug)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.Slug)
		}
	}

	// 示例推广员
	affiliate := models.Affiliate{
		Name:            "Demo Partner",
		Code:            "DEMO2024",
		CommissionType:  constants.CommissionTypePercentage,
		CommissionValue: models.NewMoneyFromFloat(5),
		Status:          constants.AffiliateStatusActive,
	}
	var existingAffiliate models.Affiliate
	if err := models.DB.Where("code = ?", affiliate.Code).First(&existingAffiliate).Error; err != nil {
		if err := models.DB.Create(&affiliate).Error; err != nil {
			stdLog.Printf("Failed to create affiliate %s: %v", affiliate.Code, err)
		} else {
			stdLog.Printf("Created affiliate: %s", affiliate.Code)
			existingAffiliate = affiliate
		}
	} else {
		stdLog.Printf("Affiliate already exists: %s", affiliate.Code)
	}

	if existingAffiliate.ID == 0 {
		stdLog.Printf("Affiliate unavailable, skip coupon seed")
		return
	}

	// 示例优惠券
	expiresAt := time.Now().AddDate(0, 3, 0)
	coupons := []models.Coupon{
		{
			Code:           "WELCOME100",
			DiscountType:   constants.CouponTypeFixed,
			DiscountValue:  models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
			MinOrderAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(500)),
			UsageLimit:     1000,
			ExpiresAt:      &expiresAt,
			IsActive:       true,
			AffiliateID:    existingAffiliate.ID,
		},
		{
			Code:           "SAVE10",
			DiscountType:   constants.CouponTypePercentage,
			DiscountValue:  models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
			MaxDiscount:    models.NewMoneyFromDecimal(decimal.NewFromInt(300)),
			UsageLimit:     0,
			ExpiresAt:      &expiresAt,
			IsActive:       true,
			AffiliateID:    existingAffiliate.ID,
		},
	}
	for _, coupon := range coupons {
		var existing models.Coupon
		if err := models.DB.Where("code = ?", coupon.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&coupon).Error; err != nil {
				stdLog.Printf("Failed to create coupon %s: %v", coupon.Code, err)
			} else {
				stdLog.Printf("Created coupon: %s", coupon.Code)
			}
		} else {
			stdLog.Printf("Coupon already exists: %s", coupon.Code)
		}
	}

	stdLog.Printf("Seed finished")
}
