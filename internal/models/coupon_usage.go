package models

import (
	"time"
)

// CouponUsage 优惠券使用记录（coupon_id + order_id 唯一，保证每单只计一次）
type CouponUsage struct {
	ID             uint      `gorm:"primarykey" json:"id"`                                                     // 主键
	CouponID       uint      `gorm:"not null;index:idx_coupon_usage_unique,unique" json:"coupon_id"`           // 优惠券ID
	OrderID        uint      `gorm:"not null;index;index:idx_coupon_usage_unique,unique" json:"order_id"`      // 订单ID
	DiscountAmount Money     `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`             // 优惠金额
	CreatedAt      time.Time `gorm:"index" json:"created_at"`                                                  // 创建时间
}

// TableName 指定表名
func (CouponUsage) TableName() string {
	return "coupon_usages"
}
