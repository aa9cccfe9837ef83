package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/storepanel/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// setupServiceTestDB 打开测试内存库并迁移全部业务表
func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	err = db.AutoMigrate(
		&models.Admin{},
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
		&models.CustomerSegment{},
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
		&models.SupportTicket{},
		&models.TicketMessage{},
		&models.Alert{},
		&models.Setting{},
	)
	if err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	return db
}
