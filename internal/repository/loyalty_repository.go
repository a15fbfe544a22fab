package repository

import (
	"errors"

	"github.com/chamundam289/electro-hub-sub003/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LoyaltyRepository 积分账户数据访问接口
type LoyaltyRepository interface {
	GetAccount(phone string) (*models.LoyaltyAccount, error)
	AddCoins(phone string, coins int64) error
	CreateTransaction(txn *models.LoyaltyTransaction) error
	ListTransactions(phone string, page, pageSize int) ([]models.LoyaltyTransaction, int64, error)
	WithTx(tx *gorm.DB) *GormLoyaltyRepository
}

// GormLoyaltyRepository GORM 实现
type GormLoyaltyRepository struct {
	db *gorm.DB
}

// NewLoyaltyRepository 创建积分仓库
func NewLoyaltyRepository(db *gorm.DB) *GormLoyaltyRepository {
	return &GormLoyaltyRepository{db: db}
}

// WithTx 绑定事务
func (r *GormLoyaltyRepository) WithTx(tx *gorm.DB) *GormLoyaltyRepository {
	if tx == nil {
		return r
	}
	return &GormLoyaltyRepository{db: tx}
}

// GetAccount 根据手机号获取积分账户
func (r *GormLoyaltyRepository) GetAccount(phone string) (*models.LoyaltyAccount, error) {
	var account models.LoyaltyAccount
	if err := r.db.Where("phone = ?", phone).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// AddCoins 原子增加账户余额，账户不存在时先建档
func (r *GormLoyaltyRepository) AddCoins(phone string, coins int64) error {
	account := models.LoyaltyAccount{Phone: phone, Balance: coins}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"balance": gorm.Expr("balance + ?", coins),
		}),
	}).Create(&account).Error
}

// CreateTransaction 写入积分流水
func (r *GormLoyaltyRepository) CreateTransaction(txn *models.LoyaltyTransaction) error {
	return r.db.Create(txn).Error
}

// ListTransactions 获取账户积分流水
func (r *GormLoyaltyRepository) ListTransactions(phone string, page, pageSize int) ([]models.LoyaltyTransaction, int64, error) {
	var txns []models.LoyaltyTransaction
	query := r.db.Model(&models.LoyaltyTransaction{}).Where("phone = ?", phone)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, page, pageSize)

	if err := query.Order("id desc").Find(&txns).Error; err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}
