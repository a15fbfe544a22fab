package repository

import "time"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page       int
	PageSize   int
	Category   string
	Search     string
	OnlyActive bool
}

// CouponListFilter 查询优惠券列表的过滤条件
type CouponListFilter struct {
	Page        int
	PageSize    int
	Code        string
	AffiliateID uint
	IsActive    *bool
}

// AffiliateListFilter 查询推广员列表的过滤条件
type AffiliateListFilter struct {
	Page     int
	PageSize int
	Code     string
	Keyword  string
	Status   string
}

// AffiliateClickListFilter 查询推广点击列表的过滤条件
type AffiliateClickListFilter struct {
	Page          int
	PageSize      int
	AffiliateID   uint
	CouponCode    string
	ConvertedOnly bool
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page          int
	PageSize      int
	Status        string
	InvoiceNo     string
	CustomerPhone string
	CouponCode    string
	AffiliateID   uint
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}
