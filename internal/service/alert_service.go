package service

import (
	"fmt"

	"github.com/storepanel/internal/constants"
	"github.com/storepanel/internal/models"
	"github.com/storepanel/internal/repository"
)

// AlertService 库存预警业务服务
type AlertService struct {
	repo repository.AlertRepository
}

// NewAlertService 创建预警服务
func NewAlertService(repo repository.AlertRepository) *AlertService {
	return &AlertService{repo: repo}
}

// List 预警列表
func (s *AlertService) List(filter repository.AlertListFilter) ([]models.Alert, int64, error) {
	return s.repo.List(filter)
}

// CountUnread 未读预警数量
func (s *AlertService) CountUnread() (int64, error) {
	return s.repo.CountUnread()
}

// MarkRead 标记预警已读
func (s *AlertService) MarkRead(id uint) error {
	alert, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if alert == nil {
		return ErrNotFound
	}
	_, err = s.repo.MarkRead(id)
	return err
}

// MarkAllRead 全部标记已读
func (s *AlertService) MarkAllRead() (int64, error) {
	return s.repo.MarkAllRead()
}

// CreateInventoryAlert 为低库存商品创建预警
// 同商品已有未读库存预警时跳过；级别在创建时一次性确定，之后不再重算
func (s *AlertService) CreateInventoryAlert(product *models.Product) (*models.Alert, error) {
	if product == nil {
		return nil, ErrInvalidInput
	}

	exists, err := s.repo.HasUnreadForProduct(constants.AlertTypeInventory, product.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	threshold := product.LowStockThreshold
	if threshold <= 0 {
		threshold = constants.DefaultLowStockThreshold
	}

	alert := models.Alert{
		Type:             constants.AlertTypeInventory,
		Severity:         inventoryAlertSeverity(product.Inventory, threshold),
		ProductID:        product.ID,
		ProductName:      product.Name,
		CurrentInventory: product.Inventory,
		Threshold:        threshold,
		Message:          fmt.Sprintf("%s is low on stock: %d remaining (threshold %d)", product.Name, product.Inventory, threshold),
	}
	if err := s.repo.Create(&alert); err != nil {
		return nil, err
	}
	return &alert, nil
}

// inventoryAlertSeverity 按库存占阈值百分比确定级别
func inventoryAlertSeverity(inventory, threshold int) string {
	if inventory <= 0 {
		return constants.AlertSeverityCritical
	}
	if threshold <= 0 {
		threshold = constants.DefaultLowStockThreshold
	}
	pct := float64(inventory) / float64(threshold) * 100
	switch {
	case pct <= 25:
		return constants.AlertSeverityCritical
	case pct <= 50:
		return constants.AlertSeverityHigh
	case pct <= 75:
		return constants.AlertSeverityMedium
	default:
		return constants.AlertSeverityLow
	}
}
