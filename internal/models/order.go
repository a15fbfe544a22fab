package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表（优惠相关字段在创建后不可变，退款走独立流程）
type Order struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                         // 主键
	InvoiceNo      string         `gorm:"uniqueIndex;not null" json:"invoice_no"`                       // 发票编号（INV-YYYYMM-NNNN，按月递增）
	CustomerName   string         `gorm:"type:varchar(128);not null" json:"customer_name"`              // 客户姓名
	CustomerPhone  string         `gorm:"type:varchar(32);not null;index" json:"customer_phone"`        // 客户电话
	CustomerEmail  string         `gorm:"type:varchar(255)" json:"customer_email"`                      // 客户邮箱
	Address        string         `gorm:"type:varchar(512)" json:"address"`                             // 收货地址
	City           string         `gorm:"type:varchar(128)" json:"city"`                                // 城市
	Pincode        string         `gorm:"type:varchar(16)" json:"pincode"`                              // 邮编
	Status         string         `gorm:"index;not null" json:"status"`                                 // 订单状态
	GrossAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"gross_amount"`    // 折前金额
	DiscountAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"` // 优惠金额
	TotalAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`    // 实付金额（gross - discount，下限 0）
	CouponCode     string         `gorm:"type:varchar(64);index" json:"coupon_code,omitempty"`          // 使用的优惠码
	DiscountType   string         `gorm:"type:varchar(20)" json:"discount_type,omitempty"`              // 优惠类型
	AffiliateID    *uint          `gorm:"index" json:"affiliate_id,omitempty"`                          // 归因推广员ID
	ClientIP       string         `gorm:"type:varchar(64)" json:"client_ip,omitempty"`                  // 下单客户端IP
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// OrderItem 订单项（商品快照）
type OrderItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                      // 主键
	OrderID     uint      `gorm:"not null;index" json:"order_id"`                            // 订单ID
	ProductID   uint      `gorm:"not null;index" json:"product_id"`                          // 商品ID
	ProductName string    `gorm:"type:varchar(255);not null" json:"product_name"`            // 商品名称快照
	UnitPrice   Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`   // 单价快照
	Quantity    int       `gorm:"not null" json:"quantity"`                                  // 数量
	TotalPrice  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"`  // 小计
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                                   // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
