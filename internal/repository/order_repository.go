package repository

import (
	"errors"
	"strings"

	"github.com/storepanel/internal/constants"
	"github.com/storepanel/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	List(filter OrderListFilter) ([]models.Order, int64, error)
	ListForExport(filter OrderListFilter) ([]models.Order, error)
	GetByID(id uint) (*models.Order, error)
	GetByOrderNumber(orderNumber string) (*models.Order, error)
	Create(order *models.Order) error
	Update(order *models.Order) error
	Delete(id uint) error
	MaxOrderNumberSeq() (int64, error)
	ListRecent(limit int) ([]models.Order, error)
	SumPaidByCustomer(customerID uint) (float64, int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Transaction 执行事务
func (r *GormOrderRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter OrderListFilter) *gorm.DB {
	if filter.CustomerID > 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if paymentStatus := strings.TrimSpace(filter.PaymentStatus); paymentStatus != "" {
		query = query.Where("payment_status = ?", paymentStatus)
	}
	if fulfillmentStatus := strings.TrimSpace(filter.FulfillmentStatus); fulfillmentStatus != "" {
		query = query.Where("fulfillment_status = ?", fulfillmentStatus)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("orders.created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("orders.created_at < ?", *filter.CreatedTo)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		condition, argCount := buildLikeCondition(r.db, []string{"orders.order_number", "orders.tracking_number"})
		query = query.Where(condition, repeatLikeArgs(like, argCount)...)
	}
	return query
}

// List 订单列表
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order

	query := r.db.Model(&models.Order{}).
		Preload("Customer").
		Preload("Items")
	query = r.applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("orders.created_at DESC, orders.id DESC").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListForExport 导出用订单列表（不分页，按创建时间升序）
func (r *GormOrderRepository) ListForExport(filter OrderListFilter) ([]models.Order, error) {
	var orders []models.Order
	query := r.db.Model(&models.Order{}).
		Preload("Customer").
		Preload("Items")
	query = r.applyFilter(query, filter)
	if err := query.Order("orders.created_at ASC, orders.id ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// GetByID 根据 ID 获取订单
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNumber 根据订单号获取订单
func (r *GormOrderRepository) GetByOrderNumber(orderNumber string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Customer").
		Preload("Items").
		Where("order_number = ?", orderNumber).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// Create 创建订单
func (r *GormOrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// Update 更新订单
func (r *GormOrderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

// Delete 删除订单（软删除）
func (r *GormOrderRepository) Delete(id uint) error {
	return r.db.Delete(&models.Order{}, id).Error
}

// MaxOrderNumberSeq 获取当前最大订单号序号
// 订单号形如 ORD-00042，取数字部分最大值，不含软删除之外的历史记录也计入
func (r *GormOrderRepository) MaxOrderNumberSeq() (int64, error) {
	var raw string
	err := r.db.Unscoped().Model(&models.Order{}).
		Order("LENGTH(order_number) DESC, order_number DESC").
		Limit(1).
		Pluck("order_number", &raw).Error
	if err != nil {
		return 0, err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	idx := strings.LastIndex(raw, "-")
	if idx < 0 || idx+1 >= len(raw) {
		return 0, nil
	}
	var seq int64
	for _, ch := range raw[idx+1:] {
		if ch < '0' || ch > '9' {
			return 0, nil
		}
		seq = seq*10 + int64(ch-'0')
	}
	return seq, nil
}

// ListRecent 最近创建的订单
func (r *GormOrderRepository) ListRecent(limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 10
	}
	var orders []models.Order
	err := r.db.Preload("Customer").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// SumPaidByCustomer 统计客户已支付订单的总额与数量
func (r *GormOrderRepository) SumPaidByCustomer(customerID uint) (float64, int64, error) {
	if customerID == 0 {
		return 0, 0, nil
	}
	type aggRow struct {
		Total float64
		Count int64
	}
	var row aggRow
	err := r.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0) as total, COUNT(*) as count").
		Where("customer_id = ? AND payment_status = ?", customerID, constants.PaymentStatusPaid).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Total, row.Count, nil
}
