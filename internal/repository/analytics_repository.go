package repository

import (
	"fmt"
	"time"

	"github.com/storepanel/internal/constants"
	"github.com/storepanel/internal/models"

	"gorm.io/gorm"
)

// 分析查询的取数上限，避免大窗口把全表拖进内存。
const (
	maxAnalyticsOrders = 1000
	maxAnalyticsItems  = 5000
	productBatchSize   = 25
)

// AnalyticsRepository 分析聚合查询接口
// 说明：仅负责窗口内取数与基础聚合，指标口径在服务层计算。
type AnalyticsRepository interface {
	ListPaidOrders(startAt, endAt time.Time) ([]models.Order, error)
	ListOrderItems(orderIDs []uint) ([]models.OrderItem, error)
	ListProductsByIDs(ids []uint) ([]models.Product, error)
	GetPaymentStatusCounts(startAt, endAt time.Time) ([]PaymentStatusCountRow, error)
	GetRevenueBuckets(startAt, endAt time.Time, granularity string) ([]RevenueBucketRow, error)
	GetOrderStatusCounts(startAt, endAt time.Time) ([]OrderStatusCountRow, error)
	CountOrders(startAt, endAt time.Time) (int64, error)
	CountNewCustomers(startAt, endAt time.Time) (int64, error)
}

// PaymentStatusCountRow 支付状态分布原始行
type PaymentStatusCountRow struct {
	PaymentStatus string
	Total         int64
	Amount        float64
}

// OrderStatusCountRow 订单状态分布原始行
type OrderStatusCountRow struct {
	Status string
	Total  int64
}

// RevenueBucketRow 收入趋势时间桶原始行
type RevenueBucketRow struct {
	Bucket  string
	Revenue float64
	Orders  int64
}

// GormAnalyticsRepository GORM 分析聚合实现
type GormAnalyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository 创建分析仓库
func NewAnalyticsRepository(db *gorm.DB) *GormAnalyticsRepository {
	return &GormAnalyticsRepository{db: db}
}

func (r *GormAnalyticsRepository) paidOrderBase(startAt, endAt time.Time) *gorm.DB {
	return r.db.Model(&models.Order{}).
		Where("payment_status = ? AND paid_at IS NOT NULL AND paid_at >= ? AND paid_at < ?",
			constants.PaymentStatusPaid, startAt, endAt)
}

// ListPaidOrders 获取窗口内已支付订单（按支付时间升序，最多 1000 条）
func (r *GormAnalyticsRepository) ListPaidOrders(startAt, endAt time.Time) ([]models.Order, error) {
	orders := make([]models.Order, 0)
	err := r.paidOrderBase(startAt, endAt).
		Order("paid_at ASC, id ASC").
		Limit(maxAnalyticsOrders).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListOrderItems 批量获取订单明细（最多 5000 条）
func (r *GormAnalyticsRepository) ListOrderItems(orderIDs []uint) ([]models.OrderItem, error) {
	if len(orderIDs) == 0 {
		return []models.OrderItem{}, nil
	}
	items := make([]models.OrderItem, 0)
	err := r.db.Model(&models.OrderItem{}).
		Where("order_id IN ?", orderIDs).
		Order("order_id ASC, id ASC").
		Limit(maxAnalyticsItems).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListProductsByIDs 分批获取商品，单批最多 25 个
func (r *GormAnalyticsRepository) ListProductsByIDs(ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	products := make([]models.Product, 0, len(ids))
	for start := 0; start < len(ids); start += productBatchSize {
		end := start + productBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		var batch []models.Product
		if err := r.db.Where("id IN ?", ids[start:end]).Find(&batch).Error; err != nil {
			return nil, err
		}
		products = append(products, batch...)
	}
	return products, nil
}

// GetPaymentStatusCounts 获取窗口内订单的支付状态分布
func (r *GormAnalyticsRepository) GetPaymentStatusCounts(startAt, endAt time.Time) ([]PaymentStatusCountRow, error) {
	rows := make([]PaymentStatusCountRow, 0)
	err := r.db.Model(&models.Order{}).
		Select("payment_status, COUNT(*) as total, COALESCE(SUM(total_amount), 0) as amount").
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Group("payment_status").
		Order("payment_status ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetOrderStatusCounts 获取窗口内订单状态分布
func (r *GormAnalyticsRepository) GetOrderStatusCounts(startAt, endAt time.Time) ([]OrderStatusCountRow, error) {
	rows := make([]OrderStatusCountRow, 0)
	err := r.db.Model(&models.Order{}).
		Select("status, COUNT(*) as total").
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Group("status").
		Order("status ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetRevenueBuckets 获取已支付订单按日/按月的收入趋势
func (r *GormAnalyticsRepository) GetRevenueBuckets(startAt, endAt time.Time, granularity string) ([]RevenueBucketRow, error) {
	bucketExpr := dateBucketExpr(r.db, "paid_at", granularity)
	rows := make([]RevenueBucketRow, 0)
	err := r.paidOrderBase(startAt, endAt).
		Select(fmt.Sprintf("%s as bucket, COALESCE(SUM(total_amount), 0) as revenue, COUNT(*) as orders", bucketExpr)).
		Group(bucketExpr).
		Order("bucket ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountOrders 统计窗口内创建的订单数
func (r *GormAnalyticsRepository) CountOrders(startAt, endAt time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountNewCustomers 统计窗口内新增客户数
func (r *GormAnalyticsRepository) CountNewCustomers(startAt, endAt time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Customer{}).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
