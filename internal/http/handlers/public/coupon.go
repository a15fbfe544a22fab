package public

import (
	"time"

	"github.com/chamundam289/electro-hub-sub003/internal/http/response"
	"github.com/chamundam289/electro-hub-sub003/internal/models"
	"github.com/chamundam289/electro-hub-sub003/internal/service"

	"github.com/gin-gonic/gin"
)

// ValidateCouponRequest 优惠码校验请求
type ValidateCouponRequest struct {
	Code        string       `json:"code" binding:"required"`
	OrderAmount models.Money `json:"order_amount" binding:"required"`
}

// ValidateCouponResponse 优惠码校验响应
type ValidateCouponResponse struct {
	Valid          bool         `json:"valid"`
	Reason         string       `json:"reason,omitempty"`
	Code           string       `json:"code,omitempty"`
	DiscountType   string       `json:"discount_type,omitempty"`
	DiscountAmount models.Money `json:"discount_amount"`
	FinalAmount    models.Money `json:"final_amount"`
	AffiliateID    uint         `json:"affiliate_id,omitempty"`
}

// ValidateCoupon 校验优惠码并返回试算结果，校验不改动任何状态。
// 业务拒绝按结构化原因返回，不走错误响应。
func (h *Handler) ValidateCoupon(c *gin.Context) {
	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	evaluation, err := h.CouponService.Evaluate(req.Code, req.OrderAmount, time.Now())
	if err != nil {
		if kind := service.RejectKindForError(err); kind != "" {
			response.Success(c, ValidateCouponResponse{
				Valid:       false,
				Reason:      kind,
				FinalAmount: req.OrderAmount,
			})
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, ValidateCouponResponse{
		Valid:          true,
		Code:           evaluation.Coupon.Code,
		DiscountType:   evaluation.Coupon.DiscountType,
		DiscountAmount: evaluation.DiscountAmount,
		FinalAmount:    evaluation.FinalAmount,
		AffiliateID:    evaluation.Coupon.AffiliateID,
	})
}
