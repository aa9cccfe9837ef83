package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/storepanel/internal/constants"
	"github.com/storepanel/internal/logger"
	"github.com/storepanel/internal/models"
	"github.com/storepanel/internal/queue"
	"github.com/storepanel/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单业务服务
type OrderService struct {
	repo         repository.OrderRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	queueClient  *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(repo repository.OrderRepository, productRepo repository.ProductRepository, customerRepo repository.CustomerRepository, queueClient *queue.Client) *OrderService {
	return &OrderService{
		repo:         repo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		queueClient:  queueClient,
	}
}

// OrderItemInput 订单明细输入
type OrderItemInput struct {
	ProductID uint
	Quantity  int
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	CustomerID      uint
	Items           []OrderItemInput
	DiscountAmount  models.Money
	ShippingAddress models.Address
	BillingAddress  models.Address
	Notes           string
}

// UpdateShippingInput 更新物流信息输入
type UpdateShippingInput struct {
	TrackingNumber  *string
	ShippingCarrier *string
	Notes           *string
}

// List 订单列表
func (s *OrderService) List(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.repo.List(filter)
}

// ListForExport 导出用订单列表
func (s *OrderService) ListForExport(filter repository.OrderListFilter) ([]models.Order, error) {
	return s.repo.ListForExport(filter)
}

// Get 订单详情
func (s *OrderService) Get(id uint) (*models.Order, error) {
	order, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

// NextOrderNumber 生成下一个订单号
func (s *OrderService) NextOrderNumber() (string, error) {
	seq, err := s.repo.MaxOrderNumberSeq()
	if err != nil {
		return "", err
	}
	if seq < constants.OrderNumberSeqStart {
		seq = constants.OrderNumberSeqStart - 1
	}
	return fmt.Sprintf("%s-%05d", constants.OrderNumberPrefix, seq+1), nil
}

// Create 创建订单
// 小计为明细金额之和，税费按固定税率计，小计超过包邮门槛免运费
// 库存扣减与落单在同一事务内完成，任一明细扣减失败整单回滚
func (s *OrderService) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrOrderEmpty
	}
	if input.DiscountAmount.IsNegative() {
		return nil, ErrInvalidInput
	}

	customer, err := s.customerRepo.GetByID(input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrNotFound
	}

	productIDs := make([]uint, 0, len(input.Items))
	for _, item := range input.Items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return nil, ErrInvalidInput
		}
		productIDs = append(productIDs, item.ProductID)
	}
	products, err := s.productRepo.ListByIDs(productIDs)
	if err != nil {
		return nil, err
	}
	productByID := make(map[uint]models.Product, len(products))
	for _, product := range products {
		productByID[product.ID] = product
	}

	subtotal := decimal.Zero
	orderItems := make([]models.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		product, ok := productByID[item.ProductID]
		if !ok {
			return nil, ErrNotFound
		}
		lineTotal := product.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		orderItems = append(orderItems, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			SKU:         product.SKU,
			Price:       product.Price,
			Quantity:    item.Quantity,
			Total:       models.NewMoneyFromDecimal(lineTotal),
		})
	}

	taxRate, _ := decimal.NewFromString(constants.OrderTaxRate)
	freeShippingOver, _ := decimal.NewFromString(constants.OrderFreeShippingOver)
	flatShipping, _ := decimal.NewFromString(constants.OrderFlatShippingRate)

	taxable := subtotal.Sub(input.DiscountAmount.Decimal)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	tax := taxable.Mul(taxRate).Round(2)

	shipping := flatShipping
	if subtotal.GreaterThan(freeShippingOver) {
		shipping = decimal.Zero
	}

	total := taxable.Add(tax).Add(shipping)

	orderNumber, err := s.NextOrderNumber()
	if err != nil {
		return nil, err
	}

	order := models.Order{
		OrderNumber:       orderNumber,
		CustomerID:        input.CustomerID,
		Status:            constants.OrderStatusPending,
		PaymentStatus:     constants.PaymentStatusPending,
		FulfillmentStatus: constants.FulfillmentStatusUnfulfilled,
		Subtotal:          models.NewMoneyFromDecimal(subtotal),
		TaxAmount:         models.NewMoneyFromDecimal(tax),
		ShippingAmount:    models.NewMoneyFromDecimal(shipping),
		DiscountAmount:    input.DiscountAmount,
		TotalAmount:       models.NewMoneyFromDecimal(total),
		ShippingAddress:   input.ShippingAddress,
		BillingAddress:    input.BillingAddress,
		Notes:             strings.TrimSpace(input.Notes),
		Items:             orderItems,
	}
	err = s.repo.Transaction(func(tx *gorm.DB) error {
		productTx := s.productRepo.WithTx(tx)
		for _, item := range input.Items {
			affected, adjustErr := productTx.AdjustInventory(item.ProductID, -item.Quantity)
			if adjustErr != nil {
				return adjustErr
			}
			if affected == 0 {
				return ErrInsufficientStock
			}
		}
		return s.repo.WithTx(tx).Create(&order)
	})
	if err != nil {
		return nil, err
	}

	for _, productID := range productIDs {
		s.enqueueInventoryScan(ctx, productID)
	}
	return s.Get(order.ID)
}

// enqueueInventoryScan 下发库存扫描任务，队列未启用时跳过
func (s *OrderService) enqueueInventoryScan(ctx context.Context, productID uint) {
	if s.queueClient == nil {
		return
	}
	if err := s.queueClient.EnqueueAlertInventoryScan(ctx, queue.AlertInventoryScanPayload{ProductID: productID}); err != nil {
		logger.Warnw("enqueue_inventory_scan_failed", "product_id", productID, "error", err)
	}
}

// UpdateStatus 按状态机更新订单状态
func (s *OrderService) UpdateStatus(id uint, status string) (*models.Order, error) {
	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	status = strings.ToLower(strings.TrimSpace(status))
	if !canTransitionOrderStatus(order.Status, status) {
		return nil, ErrOrderStatusInvalid
	}
	if order.Status == status {
		return order, nil
	}

	order.Status = status
	// 订单退款时同步支付状态
	if status == constants.OrderStatusRefunded && order.PaymentStatus == constants.PaymentStatusPaid {
		order.PaymentStatus = constants.PaymentStatusRefunded
	}
	if err := s.repo.Update(order); err != nil {
		return nil, err
	}
	if order.PaymentStatus == constants.PaymentStatusRefunded {
		s.recomputeCustomerStats(order.CustomerID)
	}
	return order, nil
}

// UpdatePaymentStatus 更新支付状态
// 流转到 paid 时记录支付时间并刷新客户消费统计
func (s *OrderService) UpdatePaymentStatus(id uint, paymentStatus string) (*models.Order, error) {
	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	paymentStatus = strings.ToLower(strings.TrimSpace(paymentStatus))
	if !canTransitionPaymentStatus(order.PaymentStatus, paymentStatus) {
		return nil, ErrPaymentStatusInvalid
	}
	if order.PaymentStatus == paymentStatus {
		return order, nil
	}

	order.PaymentStatus = paymentStatus
	if paymentStatus == constants.PaymentStatusPaid {
		now := time.Now()
		order.PaidAt = &now
	}
	if err := s.repo.Update(order); err != nil {
		return nil, err
	}
	if paymentStatus == constants.PaymentStatusPaid || paymentStatus == constants.PaymentStatusRefunded {
		s.recomputeCustomerStats(order.CustomerID)
	}
	return order, nil
}

// UpdateFulfillmentStatus 更新履约状态
func (s *OrderService) UpdateFulfillmentStatus(id uint, fulfillmentStatus string) (*models.Order, error) {
	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	fulfillmentStatus = strings.ToLower(strings.TrimSpace(fulfillmentStatus))
	if !isValidFulfillmentStatus(fulfillmentStatus) {
		return nil, ErrInvalidInput
	}
	if order.FulfillmentStatus == fulfillmentStatus {
		return order, nil
	}

	order.FulfillmentStatus = fulfillmentStatus
	if err := s.repo.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateShipping 更新物流与备注信息
func (s *OrderService) UpdateShipping(id uint, input UpdateShippingInput) (*models.Order, error) {
	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.TrackingNumber != nil {
		order.TrackingNumber = strings.TrimSpace(*input.TrackingNumber)
	}
	if input.ShippingCarrier != nil {
		order.ShippingCarrier = strings.TrimSpace(*input.ShippingCarrier)
	}
	if input.Notes != nil {
		order.Notes = strings.TrimSpace(*input.Notes)
	}

	if err := s.repo.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}

// Delete 删除订单
func (s *OrderService) Delete(id uint) error {
	order, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.recomputeCustomerStats(order.CustomerID)
	return nil
}

// ListRecent 最近订单
func (s *OrderService) ListRecent(limit int) ([]models.Order, error) {
	return s.repo.ListRecent(limit)
}

// recomputeCustomerStats 从已支付订单重算客户消费统计
func (s *OrderService) recomputeCustomerStats(customerID uint) {
	if customerID == 0 {
		return
	}
	total, count, err := s.repo.SumPaidByCustomer(customerID)
	if err != nil {
		logger.Warnw("recompute_customer_stats_failed", "customer_id", customerID, "error", err)
		return
	}
	if err := s.customerRepo.UpdateSpendStats(customerID, models.NewMoneyFromFloat(total), count); err != nil {
		logger.Warnw("update_customer_spend_stats_failed", "customer_id", customerID, "error", err)
	}
}
