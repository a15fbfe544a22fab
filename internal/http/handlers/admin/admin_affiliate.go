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

// CreateAffiliateRequest 创建推广员请求
type CreateAffiliateRequest struct {
	Name            string  `json:"name" binding:"required"`
	Phone           string  `json:"phone"`
	CommissionType  string  `json:"commission_type" binding:"required"`
	CommissionValue float64 `json:"commission_value" binding:"required"`
}

// CreateAffiliate 创建推广员
func (h *Handler) CreateAffiliate(c *gin.Context) {
	var req CreateAffiliateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	affiliate, err := h.AffiliateService.Create(service.CreateAffiliateInput{
		Name:            req.Name,
		Phone:           req.Phone,
		CommissionType:  req.CommissionType,
		CommissionValue: models.NewMoneyFromDecimal(decimal.NewFromFloat(req.CommissionValue)),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAffiliateExists):
			respondError(c, response.CodeConflict, "error.affiliate_exists", nil)
		case errors.Is(err, service.ErrInvalidOrderData), errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeBadRequest, "error.invalid_params", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}
	response.Success(c, affiliate)
}

// GetAffiliate 查询推广员详情
func (h *Handler) GetAffiliate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	affiliate, err := h.AffiliateService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrAffiliateNotFound) {
			respondError(c, response.CodeNotFound, "error.affiliate_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, affiliate)
}

// ListAffiliates 查询推广员列表
func (h *Handler) ListAffiliates(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	affiliates, total, err := h.AffiliateService.List(repository.AffiliateListFilter{
		Page:     page,
		PageSize: pageSize,
		Code:     c.Query("code"),
		Keyword:  c.Query("keyword"),
		Status:   c.Query("status"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, affiliates, response.BuildPagination(page, pageSize, total))
}

// SetAffiliateStatus 更新推广员状态
func (h *Handler) SetAffiliateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	affiliate, err := h.AffiliateService.SetStatus(id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAffiliateNotFound):
			respondError(c, response.CodeNotFound, "error.affiliate_not_found", nil)
		case errors.Is(err, service.ErrInvalidOrderData):
			respondError(c, response.CodeBadRequest, "error.invalid_params", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}
	response.Success(c, affiliate)
}

// RefreshAffiliateStats 手动触发统计刷新
func (h *Handler) RefreshAffiliateStats(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.AffiliateService.RefreshStats(id); err != nil {
		if errors.Is(err, service.ErrAffiliateNotFound) {
			respondError(c, response.CodeNotFound, "error.affiliate_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	affiliate, err := h.AffiliateService.GetByID(id)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, affiliate)
}

// ListAffiliateClicks 查询推广点击列表
func (h *Handler) ListAffiliateClicks(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	filter := repository.AffiliateClickListFilter{
		Page:          page,
		PageSize:      pageSize,
		CouponCode:    service.NormalizeCouponCode(c.Query("coupon_code")),
		ConvertedOnly: c.Query("converted") == "true",
	}
	if affiliateID, err := strconv.ParseUint(c.Query("affiliate_id"), 10, 64); err == nil {
		filter.AffiliateID = uint(affiliateID)
	}

	clicks, total, err := h.AffiliateService.ListClicks(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, clicks, response.BuildPagination(page, pageSize, total))
}
