package repository

import (
	"errors"
	"strings"

	"github.com/storepanel/internal/constants"
	"github.com/storepanel/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	GetByID(id uint) (*models.Product, error)
	GetBySKU(sku string) (*models.Product, error)
	ListByIDs(ids []uint) ([]models.Product, error)
	ListLowStock() ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
	CountBySKU(sku string, excludeID *uint) (int64, error)
	ReplaceVariants(productID uint, variants []models.ProductVariant) error
	AdjustInventory(productID uint, delta int) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// Transaction 执行事务
func (r *GormProductRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List 商品列表
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	var products []models.Product

	query := r.db.Model(&models.Product{})
	if filter.WithCategory {
		query = query.Preload("Category")
	}
	query = query.Preload("Variants", func(db *gorm.DB) *gorm.DB {
		return db.Order("variant_type ASC, variant_value ASC, id ASC")
	})
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.CategoryID > 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.LowStock {
		// 阈值缺省按默认值处理，库存严格小于阈值
		query = query.Where("inventory < CASE WHEN low_stock_threshold > 0 THEN low_stock_threshold ELSE ? END", constants.DefaultLowStockThreshold)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		condition, argCount := buildLikeCondition(r.db, []string{"name", "sku", "description"})
		query = query.Where(condition, repeatLikeArgs(like, argCount)...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("created_at DESC, id DESC").Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// GetByID 根据 ID 获取商品
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Category").
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("variant_type ASC, variant_value ASC, id ASC")
		}).
		First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetBySKU 根据 SKU 获取商品
func (r *GormProductRepository) GetBySKU(sku string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Where("sku = ?", sku).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// ListByIDs 批量获取商品
func (r *GormProductRepository) ListByIDs(ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListLowStock 获取所有低库存在售商品
func (r *GormProductRepository) ListLowStock() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Model(&models.Product{}).
		Where("is_active = ?", true).
		Where("inventory < CASE WHEN low_stock_threshold > 0 THEN low_stock_threshold ELSE ? END", constants.DefaultLowStockThreshold).
		Order("inventory ASC, id ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update 更新商品
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// Delete 删除商品（软删除，规格一并删除）
func (r *GormProductRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductVariant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, id).Error
	})
}

// CountBySKU 统计 SKU 数量
func (r *GormProductRepository) CountBySKU(sku string, excludeID *uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Product{}).Where("sku = ?", sku)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ReplaceVariants 按（规格类型，规格值）对齐规格列表
// 已存在的组合原地更新，新组合插入，未出现的组合删除
func (r *GormProductRepository) ReplaceVariants(productID uint, variants []models.ProductVariant) error {
	if productID == 0 {
		return errors.New("invalid product id for variants")
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing []models.ProductVariant
		if err := tx.Where("product_id = ?", productID).Find(&existing).Error; err != nil {
			return err
		}

		existingByCombo := make(map[string]models.ProductVariant, len(existing))
		for _, variant := range existing {
			existingByCombo[variantComboKey(variant.VariantType, variant.VariantValue)] = variant
		}

		keepIDs := make([]uint, 0, len(variants))
		for i := range variants {
			variant := &variants[i]
			variant.ProductID = productID
			key := variantComboKey(variant.VariantType, variant.VariantValue)
			if matched, ok := existingByCombo[key]; ok {
				variant.ID = matched.ID
				variant.CreatedAt = matched.CreatedAt
				if err := tx.Save(variant).Error; err != nil {
					return err
				}
			} else {
				variant.ID = 0
				if err := tx.Create(variant).Error; err != nil {
					return err
				}
			}
			keepIDs = append(keepIDs, variant.ID)
		}

		query := tx.Where("product_id = ?", productID)
		if len(keepIDs) > 0 {
			query = query.Where("id NOT IN ?", keepIDs)
		}
		return query.Delete(&models.ProductVariant{}).Error
	})
}

func variantComboKey(variantType, variantValue string) string {
	return strings.TrimSpace(variantType) + "\x00" + strings.TrimSpace(variantValue)
}

// AdjustInventory 原子调整库存，扣减时不允许扣成负数
func (r *GormProductRepository) AdjustInventory(productID uint, delta int) (int64, error) {
	if productID == 0 || delta == 0 {
		return 0, errors.New("invalid inventory adjust params")
	}
	query := r.db.Model(&models.Product{}).Where("id = ?", productID)
	if delta < 0 {
		query = query.Where("inventory >= ?", -delta)
	}
	result := query.Update("inventory", gorm.Expr("inventory + ?", delta))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
