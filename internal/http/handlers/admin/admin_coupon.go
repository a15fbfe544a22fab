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

// CouponRequest 创建/更新优惠券请求
type CouponRequest struct {
	Code           string  `json:"code" binding:"required"`
	DiscountType   string  `json:"discount_type" binding:"required"`
	DiscountValue  float64 `json:"discount_value" binding:"required"`
	MinOrderAmount float64 `json:"min_order_amount"`
	MaxDiscount    float64 `json:"max_discount"`
	UsageLimit     int     `json:"usage_limit"`
	ExpiresAt      string  `json:"expires_at"`
	IsActive       *bool   `json:"is_active"`
	AffiliateID    uint    `json:"affiliate_id" binding:"required"`
}

func (r CouponRequest) toInput() (service.CouponInput, error) {
	expiresAt, err := parseTimeNullable(r.ExpiresAt)
	if err != nil {
		return service.CouponInput{}, err
	}
	return service.CouponInput{
		Code:           r.Code,
		DiscountType:   r.DiscountType,
		DiscountValue:  models.NewMoneyFromDecimal(decimal.NewFromFloat(r.DiscountValue)),
		MinOrderAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(r.MinOrderAmount)),
		MaxDiscount:    models.NewMoneyFromDecimal(decimal.NewFromFloat(r.MaxDiscount)),
		UsageLimit:     r.UsageLimit,
		ExpiresAt:      expiresAt,
		IsActive:       r.IsActive,
		AffiliateID:    r.AffiliateID,
	}, nil
}

func respondCouponAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCouponInvalid):
		respondError(c, response.CodeBadRequest, "error.coupon_invalid", nil)
	case errors.Is(err, service.ErrCouponExists):
		respondError(c, response.CodeConflict, "error.coupon_exists", nil)
	case errors.Is(err, service.ErrCouponNotFound):
		respondError(c, response.CodeNotFound, "error.coupon_not_found", nil)
	case errors.Is(err, service.ErrAffiliateNotFound):
		respondError(c, response.CodeBadRequest, "error.affiliate_not_found", nil)
	default:
		respondError(c, response.CodeInternal, "error.internal", err)
	}
}

// CreateCoupon 创建优惠券
func (h *Handler) CreateCoupon(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	coupon, err := h.CouponAdminService.Create(input)
	if err != nil {
		respondCouponAdminError(c, err)
		return
	}
	response.Success(c, coupon)
}

// UpdateCoupon 更新优惠券
func (h *Handler) UpdateCoupon(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	coupon, err := h.CouponAdminService.Update(id, input)
	if err != nil {
		respondCouponAdminError(c, err)
		return
	}
	response.Success(c, coupon)
}

// SetCouponActive 启用/停用优惠券
func (h *Handler) SetCouponActive(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	coupon, err := h.CouponAdminService.SetActive(id, *req.IsActive)
	if err != nil {
		respondCouponAdminError(c, err)
		return
	}
	response.Success(c, coupon)
}

// GetCoupon 查询优惠券详情
func (h *Handler) GetCoupon(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	coupon, err := h.CouponAdminService.GetByID(id)
	if err != nil {
		respondCouponAdminError(c, err)
		return
	}
	response.Success(c, coupon)
}

// ListCoupons 查询优惠券列表
func (h *Handler) ListCoupons(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	filter := repository.CouponListFilter{
		Page:     page,
		PageSize: pageSize,
		Code:     service.NormalizeCouponCode(c.Query("code")),
	}
	if affiliateID, err := strconv.ParseUint(c.Query("affiliate_id"), 10, 64); err == nil {
		filter.AffiliateID = uint(affiliateID)
	}
	if raw := c.Query("is_active"); raw != "" {
		active := raw == "true" || raw == "1"
		filter.IsActive = &active
	}

	coupons, total, err := h.CouponAdminService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, coupons, response.BuildPagination(page, pageSize, total))
}
