package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/storepanel/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupProductRepositoryTest(t *testing.T) (*GormProductRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}, &models.ProductVariant{}); err != nil {
		t.Fatalf("migrate product models failed: %v", err)
	}
	return NewProductRepository(db), db
}

func createProductWithCategory(t *testing.T, db *gorm.DB, sku string, inventory, threshold int) *models.Product {
	t.Helper()
	category := &models.Category{Name: "category-" + sku}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	product := &models.Product{
		CategoryID:        category.ID,
		Name:              "Product " + sku,
		SKU:               sku,
		Price:             models.NewMoneyFromDecimal(decimal.NewFromInt(20)),
		Inventory:         inventory,
		LowStockThreshold: threshold,
		IsActive:          true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestReplaceVariantsUpsertsByCombo(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	product := createProductWithCategory(t, db, "VAR-001", 50, 10)

	initial := []models.ProductVariant{
		{VariantType: "size", VariantValue: "M", SKU: "VAR-001-M", Price: models.NewMoneyFromDecimal(decimal.NewFromInt(20)), Inventory: 10},
		{VariantType: "size", VariantValue: "L", SKU: "VAR-001-L", Price: models.NewMoneyFromDecimal(decimal.NewFromInt(22)), Inventory: 5},
	}
	if err := repo.ReplaceVariants(product.ID, initial); err != nil {
		t.Fatalf("replace variants failed: %v", err)
	}

	var mediumBefore models.ProductVariant
	if err := db.Where("product_id = ? AND variant_type = ? AND variant_value = ?", product.ID, "size", "M").First(&mediumBefore).Error; err != nil {
		t.Fatalf("load size M failed: %v", err)
	}

	// 同组合更新、新组合插入、缺失组合删除
	replacement := []models.ProductVariant{
		{VariantType: "size", VariantValue: "M", SKU: "VAR-001-M2", Price: models.NewMoneyFromDecimal(decimal.NewFromInt(21)), Inventory: 8},
		{VariantType: "color", VariantValue: "red", SKU: "VAR-001-R", Price: models.NewMoneyFromDecimal(decimal.NewFromInt(23)), Inventory: 3},
	}
	if err := repo.ReplaceVariants(product.ID, replacement); err != nil {
		t.Fatalf("replace variants second pass failed: %v", err)
	}

	var variants []models.ProductVariant
	if err := db.Where("product_id = ?", product.ID).Order("id ASC").Find(&variants).Error; err != nil {
		t.Fatalf("load variants failed: %v", err)
	}
	if len(variants) != 2 {
		t.Fatalf("variants len want 2 got %d", len(variants))
	}

	var mediumAfter models.ProductVariant
	if err := db.Where("product_id = ? AND variant_type = ? AND variant_value = ?", product.ID, "size", "M").First(&mediumAfter).Error; err != nil {
		t.Fatalf("load size M after replace failed: %v", err)
	}
	if mediumAfter.ID != mediumBefore.ID {
		t.Fatalf("size M should keep id %d, got %d", mediumBefore.ID, mediumAfter.ID)
	}
	if mediumAfter.SKU != "VAR-001-M2" || mediumAfter.Inventory != 8 {
		t.Fatalf("size M should be updated in place, got %+v", mediumAfter)
	}

	var largeCount int64
	if err := db.Model(&models.ProductVariant{}).Where("product_id = ? AND variant_value = ?", product.ID, "L").Count(&largeCount).Error; err != nil {
		t.Fatalf("count size L failed: %v", err)
	}
	if largeCount != 0 {
		t.Fatalf("size L should be removed, count got %d", largeCount)
	}
}

func TestListLowStockUsesStrictThreshold(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)

	createProductWithCategory(t, db, "LOW-001", 5, 10)
	createProductWithCategory(t, db, "LOW-002", 10, 10)
	// 阈值为 0 时按默认阈值处理
	createProductWithCategory(t, db, "LOW-003", 9, 0)

	products, err := repo.ListLowStock()
	if err != nil {
		t.Fatalf("list low stock failed: %v", err)
	}
	skus := make([]string, 0, len(products))
	for _, product := range products {
		skus = append(skus, product.SKU)
	}
	if len(products) != 2 {
		t.Fatalf("low stock len want 2 got %d (%v)", len(products), skus)
	}
	for _, product := range products {
		if product.SKU == "LOW-002" {
			t.Fatalf("inventory equal to threshold should not be low stock")
		}
	}
}

func TestAdjustInventoryRejectsNegativeResult(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	product := createProductWithCategory(t, db, "ADJ-001", 3, 10)

	affected, err := repo.AdjustInventory(product.ID, -5)
	if err != nil {
		t.Fatalf("adjust inventory failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("over-deduction should affect 0 rows, got %d", affected)
	}

	affected, err = repo.AdjustInventory(product.ID, -3)
	if err != nil {
		t.Fatalf("adjust inventory failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("deduction should affect 1 row, got %d", affected)
	}

	var reloaded models.Product
	if err := db.First(&reloaded, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.Inventory != 0 {
		t.Fatalf("inventory want 0 got %d", reloaded.Inventory)
	}
}
