package router

import (
	"fmt"
	"strings"

	"github.com/chamundam289/electro-hub-sub003/internal/cache"
	"github.com/chamundam289/electro-hub-sub003/internal/config"
	adminhandlers "github.com/chamundam289/electro-hub-sub003/internal/http/handlers/admin"
	publichandlers "github.com/chamundam289/electro-hub-sub003/internal/http/handlers/public"
	"github.com/chamundam289/electro-hub-sub003/internal/logger"
	"github.com/chamundam289/electro-hub-sub003/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "eh"
	}
	redisClient := cache.Client()
	orderRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:order", redisPrefix),
		WindowSeconds: cfg.Security.OrderRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.OrderRateLimit.MaxAttempts,
		MessageKey:    "error.order_too_many",
	}
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.login_too_many",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.ListProducts)
			public.GET("/products/:slug", publicHandler.GetProduct)
			public.POST("/coupons/validate", publicHandler.ValidateCoupon)
			public.POST("/affiliate/track", publicHandler.TrackClick)
			public.POST("/orders", RateLimitMiddleware(redisClient, orderRule, KeyByIPAndJSONField("customer_phone")), publicHandler.CreateOrder)
			public.GET("/orders/by-invoice/:invoice_no", publicHandler.GetOrderByInvoice)
			public.GET("/loyalty/:phone", publicHandler.GetLoyaltyAccount)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("username")), adminHandler.Login)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
			{
				authorized.GET("/profile", adminHandler.GetProfile)

				// 商品管理
				authorized.GET("/products", adminHandler.ListAdminProducts)
				authorized.POST("/products", adminHandler.CreateProduct)
				authorized.PUT("/products/:id", adminHandler.UpdateProduct)

				// 优惠券管理
				authorized.POST("/coupons", adminHandler.CreateCoupon)
				authorized.GET("/coupons", adminHandler.ListCoupons)
				authorized.GET("/coupons/:id", adminHandler.GetCoupon)
				authorized.PUT("/coupons/:id", adminHandler.UpdateCoupon)
				authorized.PATCH("/coupons/:id/active", adminHandler.SetCouponActive)

				// 推广员管理
				authorized.POST("/affiliates", adminHandler.CreateAffiliate)
				authorized.GET("/affiliates", adminHandler.ListAffiliates)
				authorized.GET("/affiliates/:id", adminHandler.GetAffiliate)
				authorized.PATCH("/affiliates/:id/status", adminHandler.SetAffiliateStatus)
				authorized.POST("/affiliates/:id/refresh-stats", adminHandler.RefreshAffiliateStats)
				authorized.GET("/affiliates/:id/clicks", adminHandler.ListAffiliateClicks)

				// 订单管理
				authorized.GET("/orders", adminHandler.ListOrders)
				authorized.GET("/orders/:id", adminHandler.GetOrder)
				authorized.PATCH("/orders/:id/status", adminHandler.UpdateOrderStatus)

				// 积分管理
				authorized.GET("/loyalty/:phone", adminHandler.GetLoyaltyAccount)
				authorized.POST("/loyalty/adjust", adminHandler.AdjustLoyalty)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
