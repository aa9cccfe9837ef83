package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductVariant 商品规格表
// 同一商品下 (variant_type, variant_value) 组合唯一
type ProductVariant struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                                       // 主键
	ProductID    uint           `gorm:"not null;uniqueIndex:idx_variant_combo,priority:1" json:"product_id"`       // 商品ID
	VariantType  string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_variant_combo,priority:2" json:"variant_type"`  // 规格类型（如 size/color）
	VariantValue string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_variant_combo,priority:3" json:"variant_value"` // 规格取值
	SKU          string         `gorm:"type:varchar(100)" json:"sku"`                                               // 规格编码
	Price        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`                         // 规格售价
	Inventory    int            `gorm:"not null;default:0" json:"inventory"`                                        // 规格库存
	CreatedAt    time.Time      `json:"created_at"`                                                                 // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                                                 // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                                             // 软删除时间
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "product_variants"
}
