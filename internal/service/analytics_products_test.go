package service

import (
	"context"
	"testing"
	"time"

	"github.com/storepanel/internal/constants"
	"github.com/storepanel/internal/models"
	"github.com/storepanel/internal/repository"

	"gorm.io/gorm"
)

func setupAnalyticsServiceTest(t *testing.T) (*AnalyticsService, *gorm.DB) {
	t.Helper()
	db := setupServiceTestDB(t)
	svc := NewAnalyticsService(
		repository.NewAnalyticsRepository(db),
		repository.NewProductRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewOrderRepository(db),
	)
	return svc, db
}

func createPaidAnalyticsOrder(t *testing.T, db *gorm.DB, customerID uint, number string, items []models.OrderItem) *models.Order {
	t.Helper()
	paidAt := time.Now().Add(-1 * time.Hour)
	order := &models.Order{
		OrderNumber:   number,
		CustomerID:    customerID,
		Status:        constants.OrderStatusConfirmed,
		PaymentStatus: constants.PaymentStatusPaid,
		PaidAt:        &paidAt,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	for i := range items {
		items[i].OrderID = order.ID
		if err := db.Create(&items[i]).Error; err != nil {
			t.Fatalf("create order item failed: %v", err)
		}
	}
	return order
}

func TestGetCategorySalesCountsOrdersDistinctly(t *testing.T) {
	svc, db := setupAnalyticsServiceTest(t)

	electronics := &models.Category{Name: "Electronics", IsActive: true}
	apparel := &models.Category{Name: "Apparel", IsActive: true}
	for _, category := range []*models.Category{electronics, apparel} {
		if err := db.Create(category).Error; err != nil {
			t.Fatalf("create category failed: %v", err)
		}
	}

	headphones := &models.Product{CategoryID: electronics.ID, Name: "Headphones", SKU: "ELEC-001", Price: models.NewMoneyFromFloat(20), Inventory: 50, IsActive: true}
	speaker := &models.Product{CategoryID: electronics.ID, Name: "Speaker", SKU: "ELEC-002", Price: models.NewMoneyFromFloat(25), Inventory: 30, IsActive: true}
	shirt := &models.Product{CategoryID: apparel.ID, Name: "Shirt", SKU: "APP-001", Price: models.NewMoneyFromFloat(15), Inventory: 40, IsActive: true}
	for _, product := range []*models.Product{headphones, speaker, shirt} {
		if err := db.Create(product).Error; err != nil {
			t.Fatalf("create product failed: %v", err)
		}
	}

	customer := &models.Customer{FirstName: "Dana", LastName: "Reed", Email: "dana@example.com"}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}

	// 同一订单里两条同分类明细只算一单
	createPaidAnalyticsOrder(t, db, customer.ID, "ORD-40001", []models.OrderItem{
		{ProductID: headphones.ID, ProductName: headphones.Name, SKU: headphones.SKU, Quantity: 2, Total: models.NewMoneyFromFloat(40)},
		{ProductID: speaker.ID, ProductName: speaker.Name, SKU: speaker.SKU, Quantity: 1, Total: models.NewMoneyFromFloat(25)},
	})
	createPaidAnalyticsOrder(t, db, customer.ID, "ORD-40002", []models.OrderItem{
		{ProductID: headphones.ID, ProductName: headphones.Name, SKU: headphones.SKU, Quantity: 1, Total: models.NewMoneyFromFloat(20)},
	})
	createPaidAnalyticsOrder(t, db, customer.ID, "ORD-40003", []models.OrderItem{
		{ProductID: shirt.ID, ProductName: shirt.Name, SKU: shirt.SKU, Quantity: 1, Total: models.NewMoneyFromFloat(15)},
	})

	response, err := svc.GetCategorySales(context.Background(), AnalyticsQueryInput{Range: "7d", Timezone: "UTC"})
	if err != nil {
		t.Fatalf("get category sales failed: %v", err)
	}
	if len(response.Items) != 2 {
		t.Fatalf("category items want 2 got %d", len(response.Items))
	}

	top := response.Items[0]
	if top.CategoryName != "Electronics" {
		t.Fatalf("top category want Electronics got %s", top.CategoryName)
	}
	if top.OrderCount != 2 {
		t.Fatalf("electronics distinct order count want 2 got %d", top.OrderCount)
	}
	if top.Revenue != "85.00" {
		t.Fatalf("electronics revenue want 85.00 got %s", top.Revenue)
	}
	if top.UnitsSold != 4 {
		t.Fatalf("electronics units want 4 got %d", top.UnitsSold)
	}
	if top.Percentage != 85.0 {
		t.Fatalf("electronics share want 85.0 got %v", top.Percentage)
	}

	second := response.Items[1]
	if second.CategoryName != "Apparel" || second.OrderCount != 1 || second.Revenue != "15.00" {
		t.Fatalf("apparel want 1 order / 15.00 revenue, got %+v", second)
	}
}

func TestGetTopProductsAggregatesPerProduct(t *testing.T) {
	svc, db := setupAnalyticsServiceTest(t)

	category := &models.Category{Name: "Electronics", IsActive: true}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	headphones := &models.Product{CategoryID: category.ID, Name: "Headphones", SKU: "ELEC-001", Price: models.NewMoneyFromFloat(20), Inventory: 50, IsActive: true}
	if err := db.Create(headphones).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	customer := &models.Customer{FirstName: "Dana", LastName: "Reed", Email: "dana@example.com"}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}

	createPaidAnalyticsOrder(t, db, customer.ID, "ORD-41001", []models.OrderItem{
		{ProductID: headphones.ID, ProductName: headphones.Name, SKU: headphones.SKU, Quantity: 2, Total: models.NewMoneyFromFloat(40)},
		{ProductID: headphones.ID, ProductName: headphones.Name, SKU: headphones.SKU, Quantity: 1, Total: models.NewMoneyFromFloat(20)},
	})
	createPaidAnalyticsOrder(t, db, customer.ID, "ORD-41002", []models.OrderItem{
		{ProductID: headphones.ID, ProductName: headphones.Name, SKU: headphones.SKU, Quantity: 1, Total: models.NewMoneyFromFloat(20)},
	})

	response, err := svc.GetTopProducts(context.Background(), AnalyticsQueryInput{Range: "7d", Timezone: "UTC"})
	if err != nil {
		t.Fatalf("get top products failed: %v", err)
	}
	if len(response.Items) != 1 {
		t.Fatalf("top products want 1 got %d", len(response.Items))
	}
	item := response.Items[0]
	if item.UnitsSold != 4 || item.Revenue != "80.00" {
		t.Fatalf("want 4 units / 80.00 revenue got %+v", item)
	}
	// 同一订单多条明细只算一单
	if item.OrderCount != 2 {
		t.Fatalf("distinct order count want 2 got %d", item.OrderCount)
	}
	if item.SharePct != 100.0 {
		t.Fatalf("single product share want 100.0 got %v", item.SharePct)
	}
}
