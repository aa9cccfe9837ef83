package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID                uint           `gorm:"primarykey" json:"id"`                                             // 主键
	OrderNumber       string         `gorm:"type:varchar(32);uniqueIndex;not null" json:"order_number"`        // 订单号（ORD-xxxxx）
	CustomerID        uint           `gorm:"not null;index" json:"customer_id"`                                // 客户ID
	Status            string         `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`  // 订单状态
	PaymentStatus     string         `gorm:"type:varchar(20);not null;default:'pending';index" json:"payment_status"` // 支付状态
	FulfillmentStatus string         `gorm:"type:varchar(20);not null;default:'unfulfilled'" json:"fulfillment_status"` // 履约状态
	Subtotal          Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`            // 商品小计
	TaxAmount         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"tax_amount"`          // 税费
	ShippingAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_amount"`     // 运费
	DiscountAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`     // 优惠金额
	TotalAmount       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`        // 订单总额
	ShippingAddress   Address        `gorm:"type:json" json:"shipping_address"`                                // 收货地址
	BillingAddress    Address        `gorm:"type:json" json:"billing_address"`                                 // 账单地址
	TrackingNumber    string         `gorm:"type:varchar(100)" json:"tracking_number"`                         // 物流单号
	ShippingCarrier   string         `gorm:"type:varchar(100)" json:"shipping_carrier"`                        // 物流承运商
	Notes             string         `gorm:"type:text" json:"notes"`                                           // 备注
	PaidAt            *time.Time     `gorm:"index" json:"paid_at"`                                             // 支付时间
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                                          // 创建时间
	UpdatedAt         time.Time      `json:"updated_at"`                                                       // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                                   // 软删除时间

	// 关联
	Customer Customer    `gorm:"foreignKey:CustomerID" json:"customer,omitempty"` // 客户信息
	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`       // 订单项列表
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
