package admin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/storepanel/internal/models"
	"github.com/storepanel/internal/provider"
	"github.com/storepanel/internal/repository"
	"github.com/storepanel/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupOrderHandlerTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Category{}, &models.Product{}, &models.ProductVariant{},
		&models.CustomerSegment{}, &models.Customer{},
		&models.Order{}, &models.OrderItem{},
	); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}

	container := &provider.Container{
		ProductRepo:  repository.NewProductRepository(db),
		OrderRepo:    repository.NewOrderRepository(db),
		CustomerRepo: repository.NewCustomerRepository(db),
	}
	container.OrderService = service.NewOrderService(container.OrderRepo, container.ProductRepo, container.CustomerRepo, nil)
	container.ExportService = service.NewExportService(container.OrderRepo)

	handler := New(container)
	r := gin.New()
	r.GET("/api/v1/admin/orders", handler.ListOrders)
	r.GET("/api/v1/admin/orders/export", handler.ExportOrders)
	return r, db
}

func createHandlerTestOrder(t *testing.T, db *gorm.DB, number string, total string) {
	t.Helper()
	customer := models.Customer{
		FirstName: "Alice",
		LastName:  "Nguyen",
		Email:     strings.ToLower(number) + "@example.com",
	}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	order := models.Order{
		OrderNumber:       number,
		CustomerID:        customer.ID,
		Status:            "pending",
		PaymentStatus:     "pending",
		FulfillmentStatus: "unfulfilled",
		TotalAmount:       mustHandlerTestMoney(t, total),
		CreatedAt:         time.Now(),
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
}

func mustHandlerTestMoney(t *testing.T, value string) models.Money {
	t.Helper()
	var m models.Money
	if err := m.UnmarshalJSON([]byte(`"` + value + `"`)); err != nil {
		t.Fatalf("parse money %s failed: %v", value, err)
	}
	return m
}

func TestListOrdersPaginationEnvelope(t *testing.T) {
	r, db := setupOrderHandlerTest(t)
	for i := 1; i <= 3; i++ {
		createHandlerTestOrder(t, db, fmt.Sprintf("ORD-2%04d", i), "25.00")
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders?page=1&page_size=2", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	var resp struct {
		StatusCode int               `json:"status_code"`
		Data       []json.RawMessage `json:"data"`
		Pagination struct {
			Page      int   `json:"page"`
			PageSize  int   `json:"page_size"`
			Total     int64 `json:"total"`
			TotalPage int64 `json:"total_page"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 0 {
		t.Fatalf("status_code want 0 got %d", resp.StatusCode)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("page items want 2 got %d", len(resp.Data))
	}
	if resp.Pagination.Total != 3 || resp.Pagination.TotalPage != 2 {
		t.Fatalf("pagination want total=3 total_page=2 got %+v", resp.Pagination)
	}
}

func TestExportOrdersStreamsCSV(t *testing.T) {
	r, db := setupOrderHandlerTest(t)
	createHandlerTestOrder(t, db, "ORD-30001", "74.80")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders/export", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type want text/csv got %s", ct)
	}
	disposition := w.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "orders-export-") || !strings.Contains(disposition, ".csv") {
		t.Fatalf("unexpected content disposition: %s", disposition)
	}
	body := w.Body.String()
	if !strings.HasPrefix(body, "Order Number,") {
		t.Fatalf("csv header missing, got %q", firstLine(body))
	}
	if !strings.Contains(body, "ORD-30001") {
		t.Fatalf("csv should contain seeded order, got %q", body)
	}
	if !strings.Contains(body, "74.80") {
		t.Fatalf("csv should contain order total, got %q", body)
	}
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
