package models

import (
	"time"

	"gorm.io/gorm"
)

// SupportTicket 客服工单表
type SupportTicket struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                           // 主键
	TicketNumber string         `gorm:"type:varchar(32);uniqueIndex;not null" json:"ticket_number"`     // 工单号（TKT-xxxxx）
	Subject      string         `gorm:"type:varchar(255);not null" json:"subject"`                      // 工单主题
	CustomerID   uint           `gorm:"not null;index" json:"customer_id"`                              // 客户ID
	Priority     string         `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`     // 优先级
	Status       string         `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`   // 工单状态
	AssignedTo   string         `gorm:"type:varchar(100)" json:"assigned_to"`                           // 受理人
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                                     // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                                 // 软删除时间

	// 关联
	Customer Customer        `gorm:"foreignKey:CustomerID" json:"customer,omitempty"` // 客户信息
	Messages []TicketMessage `gorm:"foreignKey:TicketID" json:"messages,omitempty"`   // 消息列表
}

// TableName 指定表名
func (SupportTicket) TableName() string {
	return "support_tickets"
}
