package worker

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/storepanel/internal/models"
	"github.com/storepanel/internal/provider"
	"github.com/storepanel/internal/queue"
	"github.com/storepanel/internal/repository"
	"github.com/storepanel/internal/service"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupConsumerTest(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}, &models.ProductVariant{}, &models.Alert{}); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}

	container := &provider.Container{
		ProductRepo: repository.NewProductRepository(db),
		AlertRepo:   repository.NewAlertRepository(db),
	}
	container.AlertService = service.NewAlertService(container.AlertRepo)
	return NewConsumer(container), db
}

func createScanTestProduct(t *testing.T, db *gorm.DB, sku string, inventory, threshold int) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID:        1,
		Name:              "Product " + sku,
		SKU:               sku,
		Inventory:         inventory,
		LowStockThreshold: threshold,
		IsActive:          true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product %s failed: %v", sku, err)
	}
	return product
}

func TestHandleAlertInventoryScanSingleProduct(t *testing.T) {
	consumer, db := setupConsumerTest(t)
	low := createScanTestProduct(t, db, "LOW-1", 3, 10)

	task, err := queue.NewAlertInventoryScanTask(queue.AlertInventoryScanPayload{ProductID: low.ID})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleAlertInventoryScan(context.Background(), task); err != nil {
		t.Fatalf("handle scan failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.Alert{}).Where("product_id = ?", low.ID).Count(&count).Error; err != nil {
		t.Fatalf("count alerts failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("alerts want 1 got %d", count)
	}

	// 再次扫描不应重复产生未读预警
	if err := consumer.handleAlertInventoryScan(context.Background(), task); err != nil {
		t.Fatalf("second scan failed: %v", err)
	}
	if err := db.Model(&models.Alert{}).Where("product_id = ?", low.ID).Count(&count).Error; err != nil {
		t.Fatalf("recount alerts failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("alerts after rescan want 1 got %d", count)
	}
}

func TestHandleAlertInventoryScanSkipsHealthyStock(t *testing.T) {
	consumer, db := setupConsumerTest(t)
	healthy := createScanTestProduct(t, db, "OK-1", 50, 10)

	task, err := queue.NewAlertInventoryScanTask(queue.AlertInventoryScanPayload{ProductID: healthy.ID})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleAlertInventoryScan(context.Background(), task); err != nil {
		t.Fatalf("handle scan failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.Alert{}).Count(&count).Error; err != nil {
		t.Fatalf("count alerts failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("healthy stock should not alert, got %d", count)
	}
}

func TestHandleAlertInventoryScanFullScan(t *testing.T) {
	consumer, db := setupConsumerTest(t)
	createScanTestProduct(t, db, "LOW-A", 2, 10)
	createScanTestProduct(t, db, "LOW-B", 0, 10)
	createScanTestProduct(t, db, "OK-A", 40, 10)

	task, err := queue.NewAlertInventoryScanTask(queue.AlertInventoryScanPayload{})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleAlertInventoryScan(context.Background(), task); err != nil {
		t.Fatalf("full scan failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.Alert{}).Count(&count).Error; err != nil {
		t.Fatalf("count alerts failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("full scan alerts want 2 got %d", count)
	}
}
