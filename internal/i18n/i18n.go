package i18n

import (
	"fmt"
	"strings"

	"github.com/chamundam289/electro-hub-sub003/internal/constants"

	"github.com/gin-gonic/gin"
)

// DefaultLocale 默认语言
const DefaultLocale = constants.LocaleEnUS

var messages = map[string]map[string]string{
	constants.LocaleEnUS: {
		"error.invalid_params":         "invalid request parameters",
		"error.unauthorized":           "unauthorized",
		"error.forbidden":              "forbidden",
		"error.not_found":              "resource not found",
		"error.internal":               "internal server error",
		"error.too_many_requests":      "too many requests, please retry later",
		"error.rate_limited":           "too many requests, please retry in %d seconds",
		"error.rate_limit_unavailable": "rate limit service unavailable",
		"error.login_too_many":         "too many login attempts, please retry in %d seconds",
		"error.order_too_many":         "orders placed too frequently, please retry in %d seconds",
		"error.auth_header_missing":    "authorization header missing",
		"error.auth_header_invalid":    "authorization header invalid",
		"error.token_invalid":          "token invalid or expired",
		"error.jwt_secret_missing":     "jwt secret not configured",
		"error.invalid_credentials":    "invalid username or password",
		"error.coupon_invalid":         "coupon code is invalid",
		"error.coupon_inactive":        "coupon is not active",
		"error.coupon_expired":         "coupon has expired",
		"error.coupon_usage_exhausted": "coupon usage limit reached",
		"error.coupon_min_amount":      "order amount below coupon minimum",
		"error.coupon_exists":          "coupon code already exists",
		"error.coupon_not_found":       "coupon not found",
		"error.order_invalid":          "invalid order data",
		"error.order_amount_invalid":   "invalid order amount",
		"error.order_conflict":         "order conflict, please retry",
		"error.order_create_failed":    "failed to create order",
		"error.order_not_found":        "order not found",
		"error.order_status_invalid":   "invalid order status",
		"error.affiliate_not_found":    "affiliate not found",
		"error.affiliate_exists":       "affiliate code already exists",
		"error.product_not_found":      "product not found",
		"error.loyalty_not_found":      "loyalty account not found",
	},
	constants.LocaleZhCN: {
		"error.invalid_params":         "请求参数无效",
		"error.unauthorized":           "未授权",
		"error.forbidden":              "无权访问",
		"error.not_found":              "资源不存在",
		"error.internal":               "服务器内部错误",
		"error.too_many_requests":      "请求过于频繁，请稍后重试",
		"error.rate_limited":           "请求过于频繁，请 %d 秒后重试",
		"error.rate_limit_unavailable": "限流服务不可用",
		"error.login_too_many":         "登录尝试过于频繁，请 %d 秒后重试",
		"error.order_too_many":         "下单过于频繁，请 %d 秒后重试",
		"error.auth_header_missing":    "缺少认证头",
		"error.auth_header_invalid":    "认证头格式错误",
		"error.token_invalid":          "令牌无效或已过期",
		"error.jwt_secret_missing":     "未配置 JWT 密钥",
		"error.invalid_credentials":    "用户名或密码错误",
		"error.coupon_invalid":         "优惠码无效",
		"error.coupon_inactive":        "优惠券未启用",
		"error.coupon_expired":         "优惠券已过期",
		"error.coupon_usage_exhausted": "优惠券已达使用上限",
		"error.coupon_min_amount":      "订单金额未达到优惠券门槛",
		"error.coupon_exists":          "优惠码已存在",
		"error.coupon_not_found":       "优惠券不存在",
		"error.order_invalid":          "订单数据无效",
		"error.order_amount_invalid":   "订单金额无效",
		"error.order_conflict":         "订单冲突，请重试",
		"error.order_create_failed":    "订单创建失败",
		"error.order_not_found":        "订单不存在",
		"error.order_status_invalid":   "订单状态无效",
		"error.affiliate_not_found":    "推广员不存在",
		"error.affiliate_exists":       "推广码已存在",
		"error.product_not_found":      "商品不存在",
		"error.loyalty_not_found":      "积分账户不存在",
	},
}

// ResolveLocale 解析请求语言，优先 query 参数，其次 Accept-Language 头
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if lang := c.Query("lang"); lang != "" {
		if locale := matchLocale(lang); locale != "" {
			return locale
		}
	}
	if header := c.GetHeader("Accept-Language"); header != "" {
		for _, part := range strings.Split(header, ",") {
			tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
			if locale := matchLocale(tag); locale != "" {
				return locale
			}
		}
	}
	return DefaultLocale
}

// T 返回指定语言的文案，找不到时回退默认语言，再回退 key 本身
func T(locale, key string) string {
	if msgs, ok := messages[locale]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	if msgs, ok := messages[DefaultLocale]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	return key
}

// Sprintf 返回带参数的文案
func Sprintf(locale, key string, args ...interface{}) string {
	format := T(locale, key)
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

func matchLocale(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	lower := strings.ToLower(tag)
	for _, locale := range constants.SupportedLocales {
		if strings.ToLower(locale) == lower {
			return locale
		}
	}
	switch {
	case strings.HasPrefix(lower, "zh"):
		return constants.LocaleZhCN
	case strings.HasPrefix(lower, "en"):
		return constants.LocaleEnUS
	}
	return ""
}
