package service

import (
	"testing"

	"github.com/storepanel/internal/constants"
	"github.com/storepanel/internal/models"
	"github.com/storepanel/internal/repository"
)

func TestInventoryAlertSeverityBands(t *testing.T) {
	cases := []struct {
		name      string
		inventory int
		threshold int
		want      string
	}{
		{"zero_inventory", 0, 10, constants.AlertSeverityCritical},
		{"negative_inventory", -2, 10, constants.AlertSeverityCritical},
		{"at_25_pct", 2, 10, constants.AlertSeverityCritical},
		{"at_50_pct", 5, 10, constants.AlertSeverityHigh},
		{"at_75_pct", 7, 10, constants.AlertSeverityMedium},
		{"above_75_pct", 8, 10, constants.AlertSeverityLow},
		{"zero_threshold_uses_default", 3, 0, constants.AlertSeverityHigh},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := inventoryAlertSeverity(tc.inventory, tc.threshold)
			if got != tc.want {
				t.Fatalf("inventoryAlertSeverity(%d, %d) want %s got %s", tc.inventory, tc.threshold, tc.want, got)
			}
		})
	}
}

func TestCreateInventoryAlertDedupesUnread(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewAlertService(repository.NewAlertRepository(db))

	product := &models.Product{
		ID:                1,
		Name:              "Low Widget",
		Inventory:         3,
		LowStockThreshold: 10,
	}

	first, err := svc.CreateInventoryAlert(product)
	if err != nil {
		t.Fatalf("create alert failed: %v", err)
	}
	if first == nil {
		t.Fatal("first alert should be created")
	}
	if first.Severity != constants.AlertSeverityHigh {
		t.Fatalf("severity want high got %s", first.Severity)
	}

	dup, err := svc.CreateInventoryAlert(product)
	if err != nil {
		t.Fatalf("dedupe check failed: %v", err)
	}
	if dup != nil {
		t.Fatal("unread alert for same product should not be duplicated")
	}

	if err := svc.MarkRead(first.ID); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}

	again, err := svc.CreateInventoryAlert(product)
	if err != nil {
		t.Fatalf("create after read failed: %v", err)
	}
	if again == nil {
		t.Fatal("alert should be created again once previous one is read")
	}
}

func TestMarkReadUnknownAlert(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewAlertService(repository.NewAlertRepository(db))

	if err := svc.MarkRead(999); err != ErrNotFound {
		t.Fatalf("mark read missing alert want ErrNotFound got %v", err)
	}
}
