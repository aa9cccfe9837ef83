package constants

// 订单状态常量
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

// 支付状态常量
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// 履约状态常量
const (
	FulfillmentStatusUnfulfilled = "unfulfilled"
	FulfillmentStatusPartial     = "partial"
	FulfillmentStatusFulfilled   = "fulfilled"
)

// 工单状态常量
const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusResolved   = "resolved"
	TicketStatusClosed     = "closed"
)

// 工单优先级常量
const (
	TicketPriorityLow    = "low"
	TicketPriorityMedium = "medium"
	TicketPriorityHigh   = "high"
	TicketPriorityUrgent = "urgent"
)

// 预警类型常量
const (
	AlertTypeInventory = "inventory"
)

// 预警级别常量
const (
	AlertSeverityLow      = "low"
	AlertSeverityMedium   = "medium"
	AlertSeverityHigh     = "high"
	AlertSeverityCritical = "critical"
)

// 库存预警默认阈值
const DefaultLowStockThreshold = 10

// 编号前缀常量
const (
	OrderNumberPrefix  = "ORD"
	TicketNumberPrefix = "TKT"
)

// 订单金额规则常量
const (
	OrderTaxRate          = "0.08" // 税率 8%
	OrderFreeShippingOver = "100"  // 包邮门槛
	OrderFlatShippingRate = "10"   // 固定运费
	OrderNumberSeqStart   = 10000  // 订单号起始序号
	TicketNumberSeqStart  = 10000  // 工单号起始序号
)

// 队列常量
const (
	QueueDefault           = "default"
	TaskAlertInventoryScan = "alert:inventory_scan"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "sp"
)

// 设置键常量
const (
	SettingKeyStoreConfig         = "store_config"
	SettingKeyAlertConfig         = "alert_config"
	SettingFieldStoreCurrency     = "currency"
	SettingFieldLowStockThreshold = "low_stock_threshold"
)

// 币种常量
const (
	StoreCurrencyDefault = "USD"
)

// 导出格式常量
const (
	ExportFormatCSV = "csv"
)

// 验证码提供方常量
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 验证码校验场景常量
const (
	CaptchaSceneAdminLogin = "admin_login"
)
