package service

import (
	"context"
	"errors"
	"testing"

	"github.com/storepanel/internal/constants"
	"github.com/storepanel/internal/models"
	"github.com/storepanel/internal/repository"

	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	db := setupServiceTestDB(t)
	svc := NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		repository.NewCustomerRepository(db),
		nil,
	)
	return svc, db
}

func createOrderTestFixtures(t *testing.T, db *gorm.DB, price float64, inventory int) (*models.Customer, *models.Product) {
	t.Helper()
	category := &models.Category{Name: "Widgets", IsActive: true}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	product := &models.Product{
		CategoryID:        category.ID,
		Name:              "Widget",
		SKU:               "WID-001",
		Price:             models.NewMoneyFromFloat(price),
		Inventory:         inventory,
		LowStockThreshold: 10,
		IsActive:          true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	customer := &models.Customer{
		FirstName: "Alice",
		LastName:  "Smith",
		Email:     "alice@example.com",
	}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	return customer, product
}

func TestCreateOrderPricingWithFlatShipping(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	customer, product := createOrderTestFixtures(t, db, 30, 50)

	order, err := svc.Create(context.Background(), CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if order.OrderNumber != "ORD-10001" {
		t.Fatalf("order number want ORD-10001 got %s", order.OrderNumber)
	}
	if order.Subtotal.String() != "60.00" {
		t.Fatalf("subtotal want 60.00 got %s", order.Subtotal.String())
	}
	if order.TaxAmount.String() != "4.80" {
		t.Fatalf("tax want 4.80 got %s", order.TaxAmount.String())
	}
	if order.ShippingAmount.String() != "10.00" {
		t.Fatalf("shipping want 10.00 got %s", order.ShippingAmount.String())
	}
	if order.TotalAmount.String() != "74.80" {
		t.Fatalf("total want 74.80 got %s", order.TotalAmount.String())
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("status want pending got %s", order.Status)
	}
	if len(order.Items) != 1 || order.Items[0].ProductName != "Widget" {
		t.Fatalf("order items should snapshot product name, got %+v", order.Items)
	}
}

func TestCreateOrderFreeShippingOverThreshold(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	customer, product := createOrderTestFixtures(t, db, 50, 50)

	order, err := svc.Create(context.Background(), CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if order.Subtotal.String() != "150.00" {
		t.Fatalf("subtotal want 150.00 got %s", order.Subtotal.String())
	}
	if order.ShippingAmount.String() != "0.00" {
		t.Fatalf("shipping over threshold want 0.00 got %s", order.ShippingAmount.String())
	}
	if order.TotalAmount.String() != "162.00" {
		t.Fatalf("total want 162.00 got %s", order.TotalAmount.String())
	}
}

func TestCreateOrderDiscountAppliedBeforeTax(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	customer, product := createOrderTestFixtures(t, db, 30, 50)

	order, err := svc.Create(context.Background(), CreateOrderInput{
		CustomerID:     customer.ID,
		Items:          []OrderItemInput{{ProductID: product.ID, Quantity: 2}},
		DiscountAmount: models.NewMoneyFromFloat(10),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// taxable 50, tax 4, shipping 10
	if order.TaxAmount.String() != "4.00" {
		t.Fatalf("tax want 4.00 got %s", order.TaxAmount.String())
	}
	if order.TotalAmount.String() != "64.00" {
		t.Fatalf("total want 64.00 got %s", order.TotalAmount.String())
	}
}

func TestCreateOrderRejectsEmptyItems(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	customer, _ := createOrderTestFixtures(t, db, 30, 50)

	if _, err := svc.Create(context.Background(), CreateOrderInput{CustomerID: customer.ID}); err != ErrOrderEmpty {
		t.Fatalf("want ErrOrderEmpty got %v", err)
	}
}

func TestUpdateStatusEnforcesStateMachine(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	customer, product := createOrderTestFixtures(t, db, 30, 50)

	order, err := svc.Create(context.Background(), CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := svc.UpdateStatus(order.ID, constants.OrderStatusShipped); err != ErrOrderStatusInvalid {
		t.Fatalf("pending to shipped want ErrOrderStatusInvalid got %v", err)
	}

	updated, err := svc.UpdateStatus(order.ID, constants.OrderStatusConfirmed)
	if err != nil {
		t.Fatalf("pending to confirmed failed: %v", err)
	}
	if updated.Status != constants.OrderStatusConfirmed {
		t.Fatalf("status want confirmed got %s", updated.Status)
	}

	// 同状态写入视为无操作
	if _, err := svc.UpdateStatus(order.ID, constants.OrderStatusConfirmed); err != nil {
		t.Fatalf("same status update should be a no-op: %v", err)
	}
}

func TestUpdatePaymentStatusPaidStampsAndRecomputesStats(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	customer, product := createOrderTestFixtures(t, db, 30, 50)

	order, err := svc.Create(context.Background(), CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	paid, err := svc.UpdatePaymentStatus(order.ID, constants.PaymentStatusPaid)
	if err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if paid.PaidAt == nil {
		t.Fatal("paid order should have paid_at stamped")
	}

	var refreshed models.Customer
	if err := db.First(&refreshed, customer.ID).Error; err != nil {
		t.Fatalf("reload customer failed: %v", err)
	}
	if refreshed.OrderCount != 1 {
		t.Fatalf("customer order count want 1 got %d", refreshed.OrderCount)
	}
	if refreshed.TotalSpent.String() != "74.80" {
		t.Fatalf("customer total spent want 74.80 got %s", refreshed.TotalSpent.String())
	}

	if _, err := svc.UpdatePaymentStatus(order.ID, constants.PaymentStatusPending); err != ErrPaymentStatusInvalid {
		t.Fatalf("paid back to pending want ErrPaymentStatusInvalid got %v", err)
	}
}

func TestNextOrderNumberContinuesFromMax(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	customer, _ := createOrderTestFixtures(t, db, 30, 50)

	seed := &models.Order{
		OrderNumber: "ORD-10042",
		CustomerID:  customer.ID,
		Status:      constants.OrderStatusPending,
	}
	if err := db.Create(seed).Error; err != nil {
		t.Fatalf("seed order failed: %v", err)
	}

	next, err := svc.NextOrderNumber()
	if err != nil {
		t.Fatalf("next order number failed: %v", err)
	}
	if next != "ORD-10043" {
		t.Fatalf("next order number want ORD-10043 got %s", next)
	}
}

func TestCreateOrderDecrementsInventory(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	customer, product := createOrderTestFixtures(t, db, 30, 10)

	if _, err := svc.Create(context.Background(), CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 4}},
	}); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	var refreshed models.Product
	if err := db.First(&refreshed, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if refreshed.Inventory != 6 {
		t.Fatalf("inventory after order want 6 got %d", refreshed.Inventory)
	}
}

func TestCreateOrderInsufficientStockRollsBack(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	customer, product := createOrderTestFixtures(t, db, 30, 3)

	_, err := svc.Create(context.Background(), CreateOrderInput{
		CustomerID: customer.ID,
		Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 5}},
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock got %v", err)
	}

	var refreshed models.Product
	if err := db.First(&refreshed, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if refreshed.Inventory != 3 {
		t.Fatalf("inventory should be untouched, want 3 got %d", refreshed.Inventory)
	}
	var orderCount int64
	if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("failed order must not persist, got %d orders", orderCount)
	}
	var itemCount int64
	if err := db.Model(&models.OrderItem{}).Count(&itemCount).Error; err != nil {
		t.Fatalf("count order items failed: %v", err)
	}
	if itemCount != 0 {
		t.Fatalf("failed order items must not persist, got %d", itemCount)
	}
}

func TestCreateOrderPartialStockFailureRollsBackAllLines(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	customer, product := createOrderTestFixtures(t, db, 30, 20)
	scarce := &models.Product{
		CategoryID:        product.CategoryID,
		Name:              "Scarce Widget",
		SKU:               "WID-002",
		Price:             models.NewMoneyFromFloat(45),
		Inventory:         1,
		LowStockThreshold: 10,
		IsActive:          true,
	}
	if err := db.Create(scarce).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	_, err := svc.Create(context.Background(), CreateOrderInput{
		CustomerID: customer.ID,
		Items: []OrderItemInput{
			{ProductID: product.ID, Quantity: 2},
			{ProductID: scarce.ID, Quantity: 3},
		},
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock got %v", err)
	}

	// 第一条明细已扣减成功，整单失败后必须恢复
	var refreshed models.Product
	if err := db.First(&refreshed, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if refreshed.Inventory != 20 {
		t.Fatalf("first line inventory should roll back to 20, got %d", refreshed.Inventory)
	}
}
