package service

import "errors"

// 优惠券相关错误
var (
	ErrCouponInvalid        = errors.New("coupon invalid")
	ErrCouponNotFound       = errors.New("coupon not found")
	ErrCouponInactive       = errors.New("coupon inactive")
	ErrCouponExpired        = errors.New("coupon expired")
	ErrCouponUsageExhausted = errors.New("coupon usage exhausted")
	ErrCouponMinAmount      = errors.New("order amount below coupon minimum")
	ErrCouponExists         = errors.New("coupon code already exists")
)

// 订单相关错误
var (
	ErrInvalidOrderData    = errors.New("invalid order data")
	ErrInvalidOrderItem    = errors.New("invalid order item")
	ErrInvalidOrderAmount  = errors.New("invalid order amount")
	ErrOrderConflict       = errors.New("order conflict")
	ErrOrderCreateFailed   = errors.New("order create failed")
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderStatusInvalid  = errors.New("order status invalid")
	ErrProductNotAvailable = errors.New("product not available")
)

// 推广与账户相关错误
var (
	ErrAffiliateNotFound  = errors.New("affiliate not found")
	ErrAffiliateExists    = errors.New("affiliate code already exists")
	ErrProductNotFound    = errors.New("product not found")
	ErrProductExists      = errors.New("product slug already exists")
	ErrLoyaltyNotFound    = errors.New("loyalty account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("resource not found")
)
