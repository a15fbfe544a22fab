package constants

// 订单状态常量
const (
	OrderStatusPlaced    = "placed"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// 优惠券类型常量
const (
	CouponTypeFixed      = "fixed"
	CouponTypePercentage = "percentage"
)

// 优惠券校验失败原因常量（对外返回的 error_message 取值）
const (
	CouponRejectInvalidCode    = "invalid_code"
	CouponRejectInactive       = "inactive"
	CouponRejectExpired        = "expired"
	CouponRejectUsageExhausted = "usage_exhausted"
	CouponRejectBelowMinimum   = "below_minimum"
)

// 推广员状态常量
const (
	AffiliateStatusActive   = "active"
	AffiliateStatusDisabled = "disabled"
)

// 推广员佣金类型常量
const (
	CommissionTypeFixed      = "fixed"
	CommissionTypePercentage = "percentage"
)

// 积分流水原因常量
const (
	LoyaltyReasonOrderReward = "order_reward"
	LoyaltyReasonAdminAdjust = "admin_adjust"
)

// 发票编号常量
const (
	InvoicePrefix      = "INV"
	InvoiceMonthLayout = "200601"
)

// 队列常量
const (
	QueueDefault              = "default"
	TaskOrderAwardCoins       = "order:award_coins"
	TaskAffiliateRefreshStats = "affiliate:refresh_stats"
	TaskLedgerRepair          = "ledger:repair"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "eh"
)

// 站点语言常量
const (
	LocaleEnUS = "en-US"
	LocaleZhCN = "zh-CN"
)

// 支持的站点语言顺序（含回退顺序）
var SupportedLocales = []string{LocaleEnUS, LocaleZhCN}
