package public

import (
	"github.com/chamundam289/electro-hub-sub003/internal/http/response"
	"github.com/chamundam289/electro-hub-sub003/internal/service"

	"github.com/gin-gonic/gin"
)

// TrackClickRequest 推广点击上报请求
type TrackClickRequest struct {
	AffiliateCode string `json:"affiliate_code" binding:"required"`
	CouponCode    string `json:"coupon_code"`
	VisitorKey    string `json:"visitor_key"`
	LandingPath   string `json:"landing_path"`
	Referrer      string `json:"referrer"`
}

// TrackClick 上报推广点击。无效短码静默成功，避免向外暴露短码存在性。
func (h *Handler) TrackClick(c *gin.Context) {
	var req TrackClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	err := h.AffiliateService.TrackClick(service.AffiliateTrackClickInput{
		AffiliateCode: req.AffiliateCode,
		CouponCode:    req.CouponCode,
		VisitorKey:    req.VisitorKey,
		LandingPath:   req.LandingPath,
		Referrer:      req.Referrer,
		ClientIP:      c.ClientIP(),
		UserAgent:     c.Request.UserAgent(),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, nil)
}
