package repository

import (
	"errors"
	"strings"

	"github.com/storepanel/internal/models"

	"gorm.io/gorm"
)

// AlertRepository 告警数据访问接口
type AlertRepository interface {
	List(filter AlertListFilter) ([]models.Alert, int64, error)
	GetByID(id uint) (*models.Alert, error)
	Create(alert *models.Alert) error
	HasUnreadForProduct(alertType string, productID uint) (bool, error)
	MarkRead(id uint) (int64, error)
	MarkAllRead() (int64, error)
	CountUnread() (int64, error)
}

// GormAlertRepository GORM 实现
type GormAlertRepository struct {
	db *gorm.DB
}

// NewAlertRepository 创建告警仓库
func NewAlertRepository(db *gorm.DB) *GormAlertRepository {
	return &GormAlertRepository{db: db}
}

// List 告警列表
func (r *GormAlertRepository) List(filter AlertListFilter) ([]models.Alert, int64, error) {
	var alerts []models.Alert

	query := r.db.Model(&models.Alert{})
	if alertType := strings.TrimSpace(filter.Type); alertType != "" {
		query = query.Where("type = ?", alertType)
	}
	if severity := strings.TrimSpace(filter.Severity); severity != "" {
		query = query.Where("severity = ?", severity)
	}
	if filter.OnlyUnread {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("created_at DESC, id DESC").Find(&alerts).Error; err != nil {
		return nil, 0, err
	}
	return alerts, total, nil
}

// GetByID 根据 ID 获取告警
func (r *GormAlertRepository) GetByID(id uint) (*models.Alert, error) {
	var alert models.Alert
	if err := r.db.First(&alert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &alert, nil
}

// Create 创建告警
func (r *GormAlertRepository) Create(alert *models.Alert) error {
	return r.db.Create(alert).Error
}

// HasUnreadForProduct 某商品是否已有同类未读告警（用于去重）
func (r *GormAlertRepository) HasUnreadForProduct(alertType string, productID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Alert{}).
		Where("type = ? AND product_id = ? AND is_read = ?", alertType, productID, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkRead 标记单条告警已读
func (r *GormAlertRepository) MarkRead(id uint) (int64, error) {
	result := r.db.Model(&models.Alert{}).
		Where("id = ? AND is_read = ?", id, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// MarkAllRead 标记全部告警已读
func (r *GormAlertRepository) MarkAllRead() (int64, error) {
	result := r.db.Model(&models.Alert{}).
		Where("is_read = ?", false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountUnread 统计未读告警数量
func (r *GormAlertRepository) CountUnread() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Alert{}).Where("is_read = ?", false).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
