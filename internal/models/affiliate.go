package models

import (
	"time"

	"gorm.io/gorm"
)

// Affiliate 推广员档案（拥有若干优惠券，佣金按归因订单累计）
type Affiliate struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                           // 主键
	Code            string         `gorm:"type:varchar(32);not null;uniqueIndex" json:"code"`              // 推广短码
	Name            string         `gorm:"type:varchar(128);not null" json:"name"`                         // 姓名
	Phone           string         `gorm:"type:varchar(32);index" json:"phone"`                            // 联系电话
	CommissionType  string         `gorm:"type:varchar(20);not null" json:"commission_type"`               // 佣金类型（fixed/percentage）
	CommissionValue Money          `gorm:"type:decimal(20,2);not null;default:0" json:"commission_value"`  // 佣金数值
	TotalSales      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_sales"`       // 累计销售额（worker 维护）
	TotalCommission Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_commission"`  // 累计佣金（worker 维护）
	TotalOrders     int64          `gorm:"not null;default:0" json:"total_orders"`                         // 累计订单数（worker 维护）
	Status          string         `gorm:"type:varchar(20);not null;index" json:"status"`                  // 状态（active/disabled）
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                        // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                                 // 软删除时间

	Coupons []Coupon `gorm:"foreignKey:AffiliateID" json:"coupons,omitempty"` // 名下优惠券
}

// TableName 指定表名
func (Affiliate) TableName() string {
	return "affiliates"
}
