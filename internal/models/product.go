package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID                uint           `gorm:"primarykey" json:"id"`                                       // 主键
	CategoryID        uint           `gorm:"not null;index" json:"category_id"`                          // 分类ID
	Name              string         `gorm:"type:varchar(255);not null;index" json:"name"`               // 商品名称
	SKU               string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`          // 商品编码（唯一）
	Description       string         `gorm:"type:text" json:"description"`                               // 商品描述
	Price             Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`         // 售价
	Inventory         int            `gorm:"not null;default:0" json:"inventory"`                        // 库存数量
	LowStockThreshold int            `gorm:"not null;default:10" json:"low_stock_threshold"`             // 低库存阈值
	Images            StringArray    `gorm:"type:json" json:"images"`                                    // 图片数组
	Tags              StringArray    `gorm:"type:json" json:"tags"`                                      // 标签数组
	HasVariants       bool           `gorm:"not null;default:false" json:"has_variants"`                 // 是否启用规格
	IsActive          bool           `gorm:"default:true;index" json:"is_active"`                        // 是否上架
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt         time.Time      `json:"updated_at"`                                                 // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                             // 软删除时间

	// 关联
	Category Category         `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`  // 规格列表
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// IsLowStock 库存是否低于阈值
// 阈值缺省按 10 处理，库存严格小于阈值才视为低库存
func (p Product) IsLowStock() bool {
	threshold := p.LowStockThreshold
	if threshold <= 0 {
		threshold = 10
	}
	return p.Inventory < threshold
}
