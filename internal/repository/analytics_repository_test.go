package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/storepanel/internal/constants"
	"github.com/storepanel/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupAnalyticsRepositoryTest(t *testing.T) (*GormAnalyticsRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}, &models.Customer{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("migrate analytics models failed: %v", err)
	}
	return NewAnalyticsRepository(db), db
}

func createTestCustomer(t *testing.T, db *gorm.DB, email string) *models.Customer {
	t.Helper()
	customer := &models.Customer{
		FirstName: "Test",
		LastName:  "Customer",
		Email:     email,
	}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	return customer
}

func createTestOrder(t *testing.T, db *gorm.DB, customerID uint, orderNumber, paymentStatus string, total float64, paidAt *time.Time) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNumber:   orderNumber,
		CustomerID:    customerID,
		Status:        constants.OrderStatusConfirmed,
		PaymentStatus: paymentStatus,
		TotalAmount:   models.NewMoneyFromDecimal(decimal.NewFromFloat(total)),
		PaidAt:        paidAt,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order %s failed: %v", orderNumber, err)
	}
	return order
}

func TestListPaidOrdersFiltersWindowAndStatus(t *testing.T) {
	repo, db := setupAnalyticsRepositoryTest(t)
	now := time.Now()
	customer := createTestCustomer(t, db, "paid-orders@example.com")

	inWindow := now.Add(-time.Hour)
	outOfWindow := now.Add(-48 * time.Hour)

	createTestOrder(t, db, customer.ID, "ORD-10001", constants.PaymentStatusPaid, 100, &inWindow)
	createTestOrder(t, db, customer.ID, "ORD-10002", constants.PaymentStatusPaid, 50, &outOfWindow)
	createTestOrder(t, db, customer.ID, "ORD-10003", constants.PaymentStatusPending, 30, nil)

	orders, err := repo.ListPaidOrders(now.Add(-24*time.Hour), now)
	if err != nil {
		t.Fatalf("list paid orders failed: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("orders len want 1 got %d", len(orders))
	}
	if orders[0].OrderNumber != "ORD-10001" {
		t.Fatalf("order number want ORD-10001 got %s", orders[0].OrderNumber)
	}
}

func TestGetPaymentStatusCounts(t *testing.T) {
	repo, db := setupAnalyticsRepositoryTest(t)
	now := time.Now()
	customer := createTestCustomer(t, db, "payment-status@example.com")

	paidAt := now.Add(-time.Hour)
	createTestOrder(t, db, customer.ID, "ORD-10011", constants.PaymentStatusPaid, 100, &paidAt)
	createTestOrder(t, db, customer.ID, "ORD-10012", constants.PaymentStatusPaid, 80, &paidAt)
	createTestOrder(t, db, customer.ID, "ORD-10013", constants.PaymentStatusPending, 60, nil)

	rows, err := repo.GetPaymentStatusCounts(now.Add(-24*time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("get payment status counts failed: %v", err)
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.PaymentStatus] = row.Total
	}
	if counts[constants.PaymentStatusPaid] != 2 {
		t.Fatalf("paid count want 2 got %d", counts[constants.PaymentStatusPaid])
	}
	if counts[constants.PaymentStatusPending] != 1 {
		t.Fatalf("pending count want 1 got %d", counts[constants.PaymentStatusPending])
	}
}

func TestGetRevenueBucketsByDay(t *testing.T) {
	repo, db := setupAnalyticsRepositoryTest(t)
	customer := createTestCustomer(t, db, "revenue-trend@example.com")

	day1 := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	day1Later := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)

	createTestOrder(t, db, customer.ID, "ORD-10021", constants.PaymentStatusPaid, 100, &day1)
	createTestOrder(t, db, customer.ID, "ORD-10022", constants.PaymentStatusPaid, 40, &day1Later)
	createTestOrder(t, db, customer.ID, "ORD-10023", constants.PaymentStatusPaid, 25, &day2)

	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	rows, err := repo.GetRevenueBuckets(start, end, "day")
	if err != nil {
		t.Fatalf("get revenue buckets failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows len want 2 got %d", len(rows))
	}
	if rows[0].Bucket != "2026-03-10" || rows[0].Revenue != 140 || rows[0].Orders != 2 {
		t.Fatalf("day1 bucket mismatch: %+v", rows[0])
	}
	if rows[1].Bucket != "2026-03-11" || rows[1].Revenue != 25 || rows[1].Orders != 1 {
		t.Fatalf("day2 bucket mismatch: %+v", rows[1])
	}
}

func TestListProductsByIDsBatches(t *testing.T) {
	repo, db := setupAnalyticsRepositoryTest(t)

	category := &models.Category{Name: "batch-category"}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}

	ids := make([]uint, 0, 30)
	for i := 0; i < 30; i++ {
		product := &models.Product{
			CategoryID: category.ID,
			Name:       fmt.Sprintf("Product %02d", i),
			SKU:        fmt.Sprintf("BATCH-%02d", i),
			Price:      models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
			Inventory:  100,
			IsActive:   true,
		}
		if err := db.Create(product).Error; err != nil {
			t.Fatalf("create product %d failed: %v", i, err)
		}
		ids = append(ids, product.ID)
	}

	products, err := repo.ListProductsByIDs(ids)
	if err != nil {
		t.Fatalf("list products by ids failed: %v", err)
	}
	if len(products) != 30 {
		t.Fatalf("products len want 30 got %d", len(products))
	}
}
