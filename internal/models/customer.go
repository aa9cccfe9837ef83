package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Customer 客户表
// total_spent 与 order_count 为冗余统计字段，由订单支付事件统一重算
type Customer struct {
	ID         uint           `gorm:"primarykey" json:"id"`                                  // 主键
	FirstName  string         `gorm:"type:varchar(100);not null" json:"first_name"`          // 名
	LastName   string         `gorm:"type:varchar(100);not null" json:"last_name"`           // 姓
	Email      string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`   // 邮箱（唯一）
	Phone      string         `gorm:"type:varchar(50)" json:"phone"`                         // 电话
	Addresses  AddressList    `gorm:"type:json" json:"addresses"`                            // 地址列表
	Tags       StringArray    `gorm:"type:json" json:"tags"`                                 // 标签数组
	SegmentID  *uint          `gorm:"index" json:"segment_id"`                               // 所属分组ID
	Notes      string         `gorm:"type:text" json:"notes"`                                // 备注
	TotalSpent Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_spent"` // 累计消费
	OrderCount int            `gorm:"not null;default:0" json:"order_count"`                 // 累计订单数
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                               // 创建时间
	UpdatedAt  time.Time      `json:"updated_at"`                                            // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                        // 软删除时间

	// 关联
	Segment *CustomerSegment `gorm:"foreignKey:SegmentID" json:"segment,omitempty"` // 分组信息
	Orders  []Order          `gorm:"foreignKey:CustomerID" json:"orders,omitempty"` // 订单列表
}

// TableName 指定表名
func (Customer) TableName() string {
	return "customers"
}

// FullName 返回姓名拼接
func (c Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
