package models

import (
	"time"

	"gorm.io/gorm"
)

// CustomerSegment 客户分组表
// customer_count 不做增量维护，始终由 COUNT 查询重算后回写
type CustomerSegment struct {
	ID            uint           `gorm:"primarykey" json:"id"`                               // 主键
	Name          string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"` // 分组名称（唯一）
	Description   string         `gorm:"type:text" json:"description"`                       // 分组描述
	Criteria      string         `gorm:"type:text" json:"criteria"`                          // 分组条件（仅展示，不参与计算）
	CustomerCount int64          `gorm:"not null;default:0" json:"customer_count"`           // 客户数量
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间
}

// TableName 指定表名
func (CustomerSegment) TableName() string {
	return "customer_segments"
}
