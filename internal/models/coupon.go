package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon 优惠券（归属于某个推广员，编码统一存为大写）
type Coupon struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                          // 主键
	Code           string         `gorm:"uniqueIndex;not null" json:"code"`                              // 优惠码（大写规范形式）
	DiscountType   string         `gorm:"not null" json:"discount_type"`                                 // 类型（fixed/percentage）
	DiscountValue  Money          `gorm:"type:decimal(20,2);not null" json:"discount_value"`             // 数值（固定金额或百分比）
	MinOrderAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"min_order_amount"` // 使用门槛（0 表示不限制）
	MaxDiscount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"max_discount"`     // 最大优惠金额（仅百分比类型，0 表示不限制）
	UsageLimit     int            `gorm:"not null;default:0" json:"usage_limit"`                         // 总使用上限（0 表示不限制）
	UsedCount      int            `gorm:"not null;default:0" json:"used_count"`                          // 已使用次数
	ExpiresAt      *time.Time     `gorm:"index" json:"expires_at"`                                       // 失效日期（当天 23:59:59 前有效）
	IsActive       bool           `gorm:"not null;default:true" json:"is_active"`                        // 是否启用
	AffiliateID    uint           `gorm:"not null;index" json:"affiliate_id"`                            // 归属推广员ID
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                                       // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间

	Affiliate Affiliate `gorm:"foreignKey:AffiliateID" json:"affiliate,omitempty"` // 归属推广员
}

// TableName 指定表名
func (Coupon) TableName() string {
	return "coupons"
}
