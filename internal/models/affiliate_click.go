package models

import "time"

// AffiliateClick 推广点击记录（仅由账务更新器完成一次 未转化 → 已转化 的迁移）
type AffiliateClick struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                       // 主键
	AffiliateID uint      `gorm:"not null;index" json:"affiliate_id"`                         // 推广员ID
	CouponCode  string    `gorm:"type:varchar(64);not null;index" json:"coupon_code"`         // 携带的优惠码
	VisitorKey  string    `gorm:"type:varchar(128);index" json:"visitor_key"`                 // 访客标识
	LandingPath string    `gorm:"type:varchar(512)" json:"landing_path"`                      // 落地页面路径
	Referrer    string    `gorm:"type:varchar(1024)" json:"referrer"`                         // 来源地址
	ClientIP    string    `gorm:"type:varchar(64)" json:"client_ip"`                          // 客户端IP
	UserAgent   string    `gorm:"type:varchar(1024)" json:"user_agent"`                       // 客户端UA
	Converted   bool      `gorm:"not null;default:false;index" json:"converted"`              // 是否已转化
	OrderID     *uint     `gorm:"index" json:"order_id,omitempty"`                            // 转化订单ID（converted 为 true 时非空）
	CreatedAt   time.Time `gorm:"index;not null;default:CURRENT_TIMESTAMP" json:"created_at"` // 创建时间

	Affiliate Affiliate `gorm:"foreignKey:AffiliateID" json:"affiliate,omitempty"` // 推广员
}

// TableName 指定表名
func (AffiliateClick) TableName() string {
	return "affiliate_clicks"
}
