package models

import "time"

// Alert 库存预警表
// severity 在创建时一次性计算，后续库存变化不回写历史预警
type Alert struct {
	ID               uint      `gorm:"primarykey" json:"id"`                                    // 主键
	Type             string    `gorm:"type:varchar(20);not null;index" json:"type"`             // 预警类型
	Severity         string    `gorm:"type:varchar(20);not null" json:"severity"`               // 预警级别
	ProductID        uint      `gorm:"index;not null" json:"product_id"`                        // 商品ID
	ProductName      string    `gorm:"type:varchar(255)" json:"product_name"`                   // 商品名称快照
	CurrentInventory int       `gorm:"not null;default:0" json:"current_inventory"`             // 触发时库存
	Threshold        int       `gorm:"not null;default:0" json:"threshold"`                     // 触发时阈值
	Message          string    `gorm:"type:text" json:"message"`                                // 预警描述
	IsRead           bool      `gorm:"not null;default:false;index" json:"is_read"`             // 是否已读
	CreatedAt        time.Time `gorm:"index" json:"created_at"`                                 // 创建时间
}

// TableName 指定表名
func (Alert) TableName() string {
	return "alerts"
}
