package repository

import (
	"errors"

	"github.com/storepanel/internal/models"

	"gorm.io/gorm"
)

// SegmentRepository 客户分群数据访问接口
type SegmentRepository interface {
	List() ([]models.CustomerSegment, error)
	GetByID(id uint) (*models.CustomerSegment, error)
	Create(segment *models.CustomerSegment) error
	Update(segment *models.CustomerSegment) error
	Delete(id uint) error
	CountByName(name string, excludeID *uint) (int64, error)
	UpdateCustomerCount(segmentID uint, count int64) error
	WithTx(tx *gorm.DB) SegmentRepository
}

// GormSegmentRepository GORM 实现
type GormSegmentRepository struct {
	db *gorm.DB
}

// NewSegmentRepository 创建分群仓库
func NewSegmentRepository(db *gorm.DB) *GormSegmentRepository {
	return &GormSegmentRepository{db: db}
}

// WithTx 绑定事务
func (r *GormSegmentRepository) WithTx(tx *gorm.DB) SegmentRepository {
	if tx == nil {
		return r
	}
	return &GormSegmentRepository{db: tx}
}

// List 分群列表
func (r *GormSegmentRepository) List() ([]models.CustomerSegment, error) {
	var segments []models.CustomerSegment
	if err := r.db.Order("name ASC, id ASC").Find(&segments).Error; err != nil {
		return nil, err
	}
	return segments, nil
}

// GetByID 根据 ID 获取分群
func (r *GormSegmentRepository) GetByID(id uint) (*models.CustomerSegment, error) {
	var segment models.CustomerSegment
	if err := r.db.First(&segment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &segment, nil
}

// Create 创建分群
func (r *GormSegmentRepository) Create(segment *models.CustomerSegment) error {
	return r.db.Create(segment).Error
}

// Update 更新分群
func (r *GormSegmentRepository) Update(segment *models.CustomerSegment) error {
	return r.db.Save(segment).Error
}

// Delete 删除分群（软删除），并解绑成员客户
func (r *GormSegmentRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Customer{}).
			Where("segment_id = ?", id).
			Update("segment_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.CustomerSegment{}, id).Error
	})
}

// CountByName 统计同名分群数量
func (r *GormSegmentRepository) CountByName(name string, excludeID *uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.CustomerSegment{}).Where("name = ?", name)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateCustomerCount 刷新分群客户数
func (r *GormSegmentRepository) UpdateCustomerCount(segmentID uint, count int64) error {
	if segmentID == 0 {
		return nil
	}
	return r.db.Model(&models.CustomerSegment{}).
		Where("id = ?", segmentID).
		Update("customer_count", count).Error
}
