package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/storepanel/internal/models"
	"github.com/storepanel/internal/repository"
)

// ExportColumn CSV 导出列定义
// Key 支持点号路径访问嵌套字段，Label 作为表头
type ExportColumn struct {
	Key    string
	Label  string
	Format func(value any, record map[string]any) string
}

// ExportService 数据导出服务
type ExportService struct {
	orderRepo repository.OrderRepository
}

// NewExportService 创建导出服务
func NewExportService(orderRepo repository.OrderRepository) *ExportService {
	return &ExportService{orderRepo: orderRepo}
}

// ExportOrdersCSV 按筛选条件导出订单为 CSV 文本
func (s *ExportService) ExportOrdersCSV(filter repository.OrderListFilter) (string, error) {
	orders, err := s.orderRepo.ListForExport(filter)
	if err != nil {
		return "", err
	}

	records := make([]map[string]any, 0, len(orders))
	for i := range orders {
		records = append(records, orderExportRecord(&orders[i]))
	}
	return ConvertToCSV(records, orderExportColumns()), nil
}

// OrderExportFilename 生成带日期的导出文件名
func (s *ExportService) OrderExportFilename(now time.Time) string {
	return fmt.Sprintf("orders-export-%s.csv", now.Format("2006-01-02"))
}

// ConvertToCSV 将记录数组按列定义序列化为 CSV 文本
// 列定义同时决定表头和取值路径，不校验行列数是否一致
func ConvertToCSV(records []map[string]any, columns []ExportColumn) string {
	if len(records) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, column := range columns {
		if i > 0 {
			sb.WriteByte(',')
		}
		label := column.Label
		if label == "" {
			label = column.Key
		}
		sb.WriteString(escapeCSVValue(label))
	}

	for _, record := range records {
		sb.WriteByte('\n')
		for i, column := range columns {
			if i > 0 {
				sb.WriteByte(',')
			}
			value := nestedValue(record, column.Key)
			var cell string
			if column.Format != nil {
				cell = column.Format(value, record)
			} else {
				cell = stringifyCSVValue(value)
			}
			sb.WriteString(escapeCSVValue(cell))
		}
	}
	return sb.String()
}

// nestedValue 按点号路径取嵌套字段，缺失返回 nil
func nestedValue(record map[string]any, key string) any {
	var current any = record
	for _, part := range strings.Split(key, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = m[part]
		if !ok {
			return nil
		}
	}
	return current
}

func stringifyCSVValue(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// escapeCSVValue 含逗号、双引号或换行时整体加引号，内部引号翻倍
func escapeCSVValue(value string) string {
	if strings.ContainsAny(value, ",\"\n") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}

func orderExportColumns() []ExportColumn {
	return []ExportColumn{
		{Key: "order_number", Label: "Order Number"},
		{Key: "created_at", Label: "Order Date"},
		{Key: "customer.first_name", Label: "Customer First Name"},
		{Key: "customer.last_name", Label: "Customer Last Name"},
		{Key: "customer.email", Label: "Customer Email"},
		{Key: "customer.phone", Label: "Customer Phone"},
		{Key: "status", Label: "Order Status"},
		{Key: "payment_status", Label: "Payment Status"},
		{Key: "fulfillment_status", Label: "Fulfillment Status"},
		{Key: "subtotal", Label: "Subtotal"},
		{Key: "tax_amount", Label: "Tax"},
		{Key: "shipping_amount", Label: "Shipping"},
		{Key: "discount_amount", Label: "Discount"},
		{Key: "total_amount", Label: "Total Amount"},
		{Key: "shipping_address", Label: "Shipping Address"},
		{Key: "billing_address", Label: "Billing Address"},
		{Key: "tracking_number", Label: "Tracking Number"},
		{Key: "shipping_carrier", Label: "Shipping Carrier"},
		{Key: "notes", Label: "Notes"},
	}
}

func orderExportRecord(order *models.Order) map[string]any {
	return map[string]any{
		"order_number":       order.OrderNumber,
		"created_at":         order.CreatedAt.Format("2006-01-02 15:04:05"),
		"status":             order.Status,
		"payment_status":     order.PaymentStatus,
		"fulfillment_status": order.FulfillmentStatus,
		"subtotal":           order.Subtotal.StringFixed(2),
		"tax_amount":         order.TaxAmount.StringFixed(2),
		"shipping_amount":    order.ShippingAmount.StringFixed(2),
		"discount_amount":    order.DiscountAmount.StringFixed(2),
		"total_amount":       order.TotalAmount.StringFixed(2),
		"shipping_address":   formatExportAddress(order.ShippingAddress),
		"billing_address":    formatExportAddress(order.BillingAddress),
		"tracking_number":    order.TrackingNumber,
		"shipping_carrier":   order.ShippingCarrier,
		"notes":              order.Notes,
		"customer": map[string]any{
			"first_name": order.Customer.FirstName,
			"last_name":  order.Customer.LastName,
			"email":      order.Customer.Email,
			"phone":      order.Customer.Phone,
		},
	}
}

// formatExportAddress 地址拼接为单元格文本，空字段跳过
func formatExportAddress(address models.Address) string {
	parts := make([]string, 0, 5)
	for _, part := range []string{address.Street, address.City, address.State, address.ZipCode, address.Country} {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}
