package models

import "time"

// TicketMessage 工单消息表
type TicketMessage struct {
	ID          uint           `gorm:"primarykey" json:"id"`                       // 主键
	TicketID    uint           `gorm:"index;not null" json:"ticket_id"`            // 工单ID
	Content     string         `gorm:"type:text;not null" json:"content"`          // 消息内容
	AuthorName  string         `gorm:"type:varchar(100)" json:"author_name"`       // 发送人名称
	IsStaff     bool           `gorm:"not null;default:false" json:"is_staff"`     // 是否客服回复
	Attachments AttachmentList `gorm:"type:json" json:"attachments"`               // 附件列表
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                    // 创建时间
}

// TableName 指定表名
func (TicketMessage) TableName() string {
	return "ticket_messages"
}
