package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                               // 主键
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`             // 商品名称
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`                   // 商品短链
	Description string         `gorm:"type:text" json:"description"`                       // 商品描述
	Category    string         `gorm:"type:varchar(128);index" json:"category"`            // 分类
	Price       Money          `gorm:"type:decimal(20,2);not null" json:"price"`           // 售价
	MRP         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"mrp"`   // 市场价
	ImageURL    string         `gorm:"type:varchar(1024)" json:"image_url"`                // 主图地址
	Stock       int            `gorm:"not null;default:0" json:"stock"`                    // 库存
	IsActive    bool           `gorm:"not null;default:true;index" json:"is_active"`       // 是否上架
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                            // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
