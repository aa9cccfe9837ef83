package repository

import "time"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page         int
	PageSize     int
	CategoryID   uint
	Search       string
	LowStock     bool
	OnlyActive   bool
	WithCategory bool
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page              int
	PageSize          int
	CustomerID        uint
	Status            string
	PaymentStatus     string
	FulfillmentStatus string
	Search            string
	CreatedFrom       *time.Time
	CreatedTo         *time.Time
}

// CustomerListFilter 查询客户列表的过滤条件
type CustomerListFilter struct {
	Page      int
	PageSize  int
	SegmentID uint
	Search    string
}

// TicketListFilter 查询工单列表的过滤条件
type TicketListFilter struct {
	Page       int
	PageSize   int
	CustomerID uint
	Status     string
	Priority   string
	AssignedTo string
	Search     string
}

// AlertListFilter 查询告警列表的过滤条件
type AlertListFilter struct {
	Page       int
	PageSize   int
	Type       string
	Severity   string
	OnlyUnread bool
}
