package provider

import (
	"github.com/chamundam289/electro-hub-sub003/internal/cache"
	"github.com/chamundam289/electro-hub-sub003/internal/config"
	"github.com/chamundam289/electro-hub-sub003/internal/logger"
	"github.com/chamundam289/electro-hub-sub003/internal/models"
	"github.com/chamundam289/electro-hub-sub003/internal/queue"
	"github.com/chamundam289/electro-hub-sub003/internal/repository"
	"github.com/chamundam289/electro-hub-sub003/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo          repository.AdminRepository
	ProductRepo        repository.ProductRepository
	CouponRepo         repository.CouponRepository
	CouponUsageRepo    repository.CouponUsageRepository
	OrderRepo          repository.OrderRepository
	AffiliateRepo      repository.AffiliateRepository
	AffiliateClickRepo repository.AffiliateClickRepository
	LoyaltyRepo        repository.LoyaltyRepository

	// Services
	AuthService        *service.AuthService
	ProductService     *service.ProductService
	CouponService      *service.CouponService
	CouponAdminService *service.CouponAdminService
	LedgerService      *service.LedgerService
	OrderService       *service.OrderService
	AffiliateService   *service.AffiliateService
	LoyaltyService     *service.LoyaltyService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.CouponUsageRepo = repository.NewCouponUsageRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.AffiliateRepo = repository.NewAffiliateRepository(db)
	c.AffiliateClickRepo = repository.NewAffiliateClickRepository(db)
	c.LoyaltyRepo = repository.NewLoyaltyRepository(db)
}

func (c *Container) initServices() {
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.ProductService = service.NewProductService(c.ProductRepo)
	c.CouponService = service.NewCouponService(c.CouponRepo)
	c.CouponAdminService = service.NewCouponAdminService(c.CouponRepo, c.AffiliateRepo)
	c.LedgerService = service.NewLedgerService(c.CouponRepo, c.CouponUsageRepo, c.OrderRepo, c.AffiliateClickRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo, c.CouponService, c.LedgerService, c.QueueClient)
	c.AffiliateService = service.NewAffiliateService(c.AffiliateRepo, c.AffiliateClickRepo, c.OrderRepo, c.CouponRepo)
	c.LoyaltyService = service.NewLoyaltyService(c.LoyaltyRepo, c.OrderRepo)
}
