package models

import "time"

// OrderItem 订单项表
// 商品名称与 SKU 为下单时快照，商品改名不影响历史订单
type OrderItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                // 主键
	OrderID     uint      `gorm:"index;not null" json:"order_id"`                      // 订单ID
	ProductID   uint      `gorm:"index;not null" json:"product_id"`                    // 商品ID
	ProductName string    `gorm:"type:varchar(255);not null" json:"product_name"`      // 商品名称快照
	SKU         string    `gorm:"type:varchar(100)" json:"sku"`                        // SKU 快照
	Price       Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`  // 单价
	Quantity    int       `gorm:"not null" json:"quantity"`                            // 数量
	Total       Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total"`  // 小计
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                             // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
