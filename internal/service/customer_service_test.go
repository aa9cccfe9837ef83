package service

import (
	"testing"

	"github.com/storepanel/internal/models"
	"github.com/storepanel/internal/repository"
)

func TestAssignSegmentRefreshesCounts(t *testing.T) {
	db := setupServiceTestDB(t)
	customerRepo := repository.NewCustomerRepository(db)
	segmentRepo := repository.NewSegmentRepository(db)
	svc := NewCustomerService(customerRepo, segmentRepo)

	vip := &models.CustomerSegment{Name: "VIP"}
	regular := &models.CustomerSegment{Name: "Regular"}
	for _, segment := range []*models.CustomerSegment{vip, regular} {
		if err := db.Create(segment).Error; err != nil {
			t.Fatalf("create segment failed: %v", err)
		}
	}

	customer := &models.Customer{FirstName: "Alice", Email: "alice@example.com", SegmentID: &vip.ID}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}

	if _, err := svc.AssignSegment(customer.ID, &regular.ID); err != nil {
		t.Fatalf("assign segment failed: %v", err)
	}

	var oldSegment, newSegment models.CustomerSegment
	if err := db.First(&oldSegment, vip.ID).Error; err != nil {
		t.Fatalf("reload old segment failed: %v", err)
	}
	if err := db.First(&newSegment, regular.ID).Error; err != nil {
		t.Fatalf("reload new segment failed: %v", err)
	}
	if oldSegment.CustomerCount != 0 {
		t.Fatalf("old segment count want 0 got %d", oldSegment.CustomerCount)
	}
	if newSegment.CustomerCount != 1 {
		t.Fatalf("new segment count want 1 got %d", newSegment.CustomerCount)
	}
}

func TestAssignSegmentUnknownSegment(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewCustomerService(repository.NewCustomerRepository(db), repository.NewSegmentRepository(db))

	customer := &models.Customer{FirstName: "Bob", Email: "bob@example.com"}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}

	missing := uint(999)
	if _, err := svc.AssignSegment(customer.ID, &missing); err != ErrNotFound {
		t.Fatalf("assign to missing segment want ErrNotFound got %v", err)
	}
}

func TestCreateCustomerRejectsDuplicateEmail(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewCustomerService(repository.NewCustomerRepository(db), repository.NewSegmentRepository(db))

	if _, err := svc.Create(CustomerInput{FirstName: "Alice", Email: "Alice@Example.com"}); err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	if _, err := svc.Create(CustomerInput{FirstName: "Other", Email: "alice@example.com"}); err != ErrEmailExists {
		t.Fatalf("duplicate email want ErrEmailExists got %v", err)
	}
}
