package public

import (
	"errors"

	"github.com/chamundam289/electro-hub-sub003/internal/http/response"
	"github.com/chamundam289/electro-hub-sub003/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

var couponErrorRules = []mappedHandlerError{
	{target: service.ErrCouponInvalid, code: response.CodeBadRequest, key: "error.coupon_invalid"},
	{target: service.ErrCouponNotFound, code: response.CodeBadRequest, key: "error.coupon_invalid"},
	{target: service.ErrCouponInactive, code: response.CodeBadRequest, key: "error.coupon_inactive"},
	{target: service.ErrCouponExpired, code: response.CodeBadRequest, key: "error.coupon_expired"},
	{target: service.ErrCouponUsageExhausted, code: response.CodeBadRequest, key: "error.coupon_usage_exhausted"},
	{target: service.ErrCouponMinAmount, code: response.CodeBadRequest, key: "error.coupon_min_amount"},
}

var orderCreateErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidOrderData, code: response.CodeBadRequest, key: "error.order_invalid"},
	{target: service.ErrInvalidOrderItem, code: response.CodeBadRequest, key: "error.order_invalid"},
	{target: service.ErrInvalidOrderAmount, code: response.CodeBadRequest, key: "error.order_amount_invalid"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, key: "error.product_not_found"},
	{target: service.ErrOrderConflict, code: response.CodeConflict, key: "error.order_conflict"},
}

func respondOrderCreateError(c *gin.Context, err error) {
	rules := make([]mappedHandlerError, 0, len(orderCreateErrorRules)+len(couponErrorRules))
	rules = append(rules, orderCreateErrorRules...)
	rules = append(rules, couponErrorRules...)
	respondWithMappedError(c, err, rules, response.CodeInternal, "error.order_create_failed")
}
