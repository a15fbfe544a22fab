package admin

import (
	"errors"

	"github.com/chamundam289/electro-hub-sub003/internal/http/response"
	"github.com/chamundam289/electro-hub-sub003/internal/service"

	"github.com/gin-gonic/gin"
)

// AdjustLoyaltyRequest 手工调整积分请求
type AdjustLoyaltyRequest struct {
	Phone string `json:"phone" binding:"required"`
	Coins int64  `json:"coins" binding:"required"`
}

// AdjustLoyalty 管理员手工调整积分余额
func (h *Handler) AdjustLoyalty(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	var req AdjustLoyaltyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	if err := h.LoyaltyService.AdminAdjust(req.Phone, req.Coins); err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	requestLog(c).Infow("loyalty_admin_adjust",
		"admin_id", adminID,
		"phone", req.Phone,
		"coins", req.Coins,
	)

	summary, err := h.LoyaltyService.GetSummary(req.Phone)
	if err != nil {
		if errors.Is(err, service.ErrLoyaltyNotFound) {
			respondError(c, response.CodeNotFound, "error.loyalty_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, summary)
}

// GetLoyaltyAccount 管理端查询积分账户
func (h *Handler) GetLoyaltyAccount(c *gin.Context) {
	phone := c.Param("phone")
	if phone == "" {
		respondError(c, response.CodeBadRequest, "error.invalid_params", nil)
		return
	}
	summary, err := h.LoyaltyService.GetSummary(phone)
	if err != nil {
		if errors.Is(err, service.ErrLoyaltyNotFound) {
			respondError(c, response.CodeNotFound, "error.loyalty_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, summary)
}
