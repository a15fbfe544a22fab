package models

import "time"

// LoyaltyAccount 积分账户（以客户电话为标识）
type LoyaltyAccount struct {
	ID        uint      `gorm:"primarykey" json:"id"`                             // 主键
	Phone     string    `gorm:"type:varchar(32);not null;uniqueIndex" json:"phone"` // 客户电话
	Balance   int64     `gorm:"not null;default:0" json:"balance"`                // 当前余额（枚）
	CreatedAt time.Time `gorm:"index" json:"created_at"`                          // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                          // 更新时间
}

// TableName 指定表名
func (LoyaltyAccount) TableName() string {
	return "loyalty_accounts"
}

// LoyaltyTransaction 积分流水（order_id + reason 唯一，保证每单只奖励一次）
type LoyaltyTransaction struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                               // 主键
	Phone     string    `gorm:"type:varchar(32);not null;index" json:"phone"`                       // 客户电话
	OrderID   *uint     `gorm:"index:idx_loyalty_txn_unique,unique" json:"order_id,omitempty"`      // 关联订单ID（手工调整时为空）
	Reason    string    `gorm:"type:varchar(32);not null;index:idx_loyalty_txn_unique,unique" json:"reason"` // 流水原因
	Coins     int64     `gorm:"not null" json:"coins"`                                              // 变动枚数（可为负）
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                            // 创建时间
}

// TableName 指定表名
func (LoyaltyTransaction) TableName() string {
	return "loyalty_transactions"
}
