package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chamundam289/electro-hub-sub003/internal/cache"
	"github.com/chamundam289/electro-hub-sub003/internal/logger"
	"github.com/chamundam289/electro-hub-sub003/internal/models"
	"github.com/chamundam289/electro-hub-sub003/internal/repository"
)

// 商品缓存有效期，接受短暂的展示延迟
const productCacheTTL = 60 * time.Second

// ProductService 商品服务
type ProductService struct {
	repo repository.ProductRepository
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// List 查询上架商品列表，列表首页走缓存
func (s *ProductService) List(ctx context.Context, filter repository.ProductListFilter) ([]models.Product, int64, error) {
	filter.OnlyActive = true
	cacheable := filter.Search == "" && filter.Page <= 1

	cacheKey := fmt.Sprintf("products:list:%s:%d", filter.Category, filter.PageSize)
	if cacheable {
		var cached struct {
			Products []models.Product `json:"products"`
			Total    int64            `json:"total"`
		}
		hit, err := cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			logger.Warnw("product_cache_read_failed", "key", cacheKey, "error", err)
		}
		if hit {
			return cached.Products, cached.Total, nil
		}
	}

	products, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, err
	}

	if cacheable {
		payload := struct {
			Products []models.Product `json:"products"`
			Total    int64            `json:"total"`
		}{Products: products, Total: total}
		if err := cache.SetJSON(ctx, cacheKey, payload, productCacheTTL); err != nil {
			logger.Warnw("product_cache_write_failed", "key", cacheKey, "error", err)
		}
	}
	return products, total, nil
}

// GetBySlug 根据短链查询上架商品
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	trimmed := strings.TrimSpace(slug)
	if trimmed == "" {
		return nil, ErrProductNotFound
	}

	cacheKey := "products:slug:" + trimmed
	var cached models.Product
	hit, err := cache.GetJSON(ctx, cacheKey, &cached)
	if err != nil {
		logger.Warnw("product_cache_read_failed", "key", cacheKey, "error", err)
	}
	if hit {
		return &cached, nil
	}

	product, err := s.repo.GetBySlug(trimmed)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}

	if err := cache.SetJSON(ctx, cacheKey, product, productCacheTTL); err != nil {
		logger.Warnw("product_cache_write_failed", "key", cacheKey, "error", err)
	}
	return product, nil
}

// AdminList 管理端查询商品列表（含下架）
func (s *ProductService) AdminList(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.repo.List(filter)
}

// Create 创建商品
func (s *ProductService) Create(product *models.Product) error {
	if strings.TrimSpace(product.Name) == "" || strings.TrimSpace(product.Slug) == "" {
		return ErrInvalidOrderData
	}
	if err := s.repo.Create(product); err != nil {
		if isUniqueViolation(err) {
			return ErrProductExists
		}
		return err
	}
	return nil
}

// Update 更新商品并失效缓存
func (s *ProductService) Update(ctx context.Context, product *models.Product) error {
	if err := s.repo.Update(product); err != nil {
		return err
	}
	if err := cache.Del(ctx, "products:slug:"+product.Slug); err != nil {
		logger.Warnw("product_cache_del_failed", "slug", product.Slug, "error", err)
	}
	return nil
}
