package admin

import (
	"errors"
	"strconv"

	handlershared "github.com/chamundam289/electro-hub-sub003/internal/http/handlers/shared"
	"github.com/chamundam289/electro-hub-sub003/internal/http/response"
	"github.com/chamundam289/electro-hub-sub003/internal/models"
	"github.com/chamundam289/electro-hub-sub003/internal/repository"
	"github.com/chamundam289/electro-hub-sub003/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductRequest 创建/更新商品请求
type ProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Slug        string  `json:"slug" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price" binding:"required"`
	MRP         float64 `json:"mrp"`
	ImageURL    string  `json:"image_url"`
	Stock       int     `json:"stock"`
	IsActive    *bool   `json:"is_active"`
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	product := &models.Product{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Category:    req.Category,
		Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(req.Price)),
		MRP:         models.NewMoneyFromDecimal(decimal.NewFromFloat(req.MRP)),
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		IsActive:    isActive,
	}
	if err := h.ProductService.Create(product); err != nil {
		switch {
		case errors.Is(err, service.ErrProductExists):
			respondError(c, response.CodeConflict, "error.invalid_params", nil)
		case errors.Is(err, service.ErrInvalidOrderData):
			respondError(c, response.CodeBadRequest, "error.invalid_params", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}
	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductRepo.GetByID(id)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if product == nil {
		respondError(c, response.CodeNotFound, "error.product_not_found", nil)
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	product.Name = req.Name
	product.Slug = req.Slug
	product.Description = req.Description
	product.Category = req.Category
	product.Price = models.NewMoneyFromDecimal(decimal.NewFromFloat(req.Price))
	product.MRP = models.NewMoneyFromDecimal(decimal.NewFromFloat(req.MRP))
	product.ImageURL = req.ImageURL
	product.Stock = req.Stock
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := h.ProductService.Update(c.Request.Context(), product); err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, product)
}

// ListAdminProducts 管理端查询商品列表（含下架）
func (h *Handler) ListAdminProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	products, total, err := h.ProductService.AdminList(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Category: c.Query("category"),
		Search:   c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, products, response.BuildPagination(page, pageSize, total))
}
