package public

import (
	"github.com/chamundam289/electro-hub-sub003/internal/http/response"
	"github.com/chamundam289/electro-hub-sub003/internal/service"

	"github.com/gin-gonic/gin"
)

// GetLoyaltyAccount 查询积分账户概览
func (h *Handler) GetLoyaltyAccount(c *gin.Context) {
	summary, err := h.LoyaltyService.GetSummary(c.Param("phone"))
	if err != nil {
		if err == service.ErrLoyaltyNotFound {
			respondError(c, response.CodeNotFound, "error.loyalty_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, summary)
}
