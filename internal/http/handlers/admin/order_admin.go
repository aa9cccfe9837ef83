package admin

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/storepanel/internal/http/handlers/shared"
	"github.com/storepanel/internal/http/response"
	"github.com/storepanel/internal/models"
	"github.com/storepanel/internal/repository"
	"github.com/storepanel/internal/service"

	"github.com/gin-gonic/gin"
)

func orderListFilterFromQuery(c *gin.Context) repository.OrderListFilter {
	filter := repository.OrderListFilter{
		CustomerID:        parseUintQuery(c, "customer_id"),
		Status:            c.Query("status"),
		PaymentStatus:     c.Query("payment_status"),
		FulfillmentStatus: c.Query("fulfillment_status"),
		Search:            c.Query("search"),
	}
	if from, err := time.Parse("2006-01-02", c.Query("created_from")); err == nil {
		filter.CreatedFrom = &from
	}
	if to, err := time.Parse("2006-01-02", c.Query("created_to")); err == nil {
		// 截止日期按整天包含
		end := to.Add(24 * time.Hour)
		filter.CreatedTo = &end
	}
	return filter
}

// ListOrders 订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	filter := orderListFilterFromQuery(c)
	filter.Page = page
	filter.PageSize = pageSize

	orders, total, err := h.OrderService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch orders", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, orders, pagination)
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.OrderService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "order not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to fetch order", err)
		return
	}

	response.Success(c, order)
}

// OrderItemRequest 订单项请求
type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	CustomerID      uint               `json:"customer_id" binding:"required"`
	Items           []OrderItemRequest `json:"items" binding:"required"`
	DiscountAmount  models.Money       `json:"discount_amount"`
	ShippingAddress models.Address     `json:"shipping_address"`
	BillingAddress  models.Address     `json:"billing_address"`
	Notes           string             `json:"notes"`
}

// CreateOrder 创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	items := make([]service.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.OrderService.Create(c.Request.Context(), service.CreateOrderInput{
		CustomerID:      req.CustomerID,
		Items:           items,
		DiscountAmount:  req.DiscountAmount,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		Notes:           req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "customer or product not found", nil)
		case errors.Is(err, service.ErrOrderEmpty):
			respondError(c, response.CodeBadRequest, "order requires at least one item", nil)
		case errors.Is(err, service.ErrInsufficientStock):
			respondError(c, response.CodeBadRequest, "insufficient inventory", nil)
		case errors.Is(err, service.ErrInvalidInput):
			respondError(c, response.CodeBadRequest, "invalid order input", err)
		default:
			respondError(c, response.CodeInternal, "failed to create order", err)
		}
		return
	}

	requestLog(c).Infow("order_created", "order_id", order.ID, "order_number", order.OrderNumber)
	response.Success(c, order)
}

// UpdateOrderStatusRequest 更新订单状态请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus 更新订单状态
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	order, err := h.OrderService.UpdateStatus(id, req.Status)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "order not found", nil)
			return
		}
		if errors.Is(err, service.ErrOrderStatusInvalid) {
			respondError(c, response.CodeBadRequest, "order status transition not allowed", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to update order status", err)
		return
	}

	response.Success(c, order)
}

// UpdatePaymentStatusRequest 更新支付状态请求
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// UpdateOrderPaymentStatus 更新订单支付状态
func (h *Handler) UpdateOrderPaymentStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	order, err := h.OrderService.UpdatePaymentStatus(id, req.PaymentStatus)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "order not found", nil)
			return
		}
		if errors.Is(err, service.ErrPaymentStatusInvalid) {
			respondError(c, response.CodeBadRequest, "payment status transition not allowed", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to update payment status", err)
		return
	}

	response.Success(c, order)
}

// UpdateFulfillmentStatusRequest 更新履约状态请求
type UpdateFulfillmentStatusRequest struct {
	FulfillmentStatus string `json:"fulfillment_status" binding:"required"`
}

// UpdateOrderFulfillmentStatus 更新订单履约状态
func (h *Handler) UpdateOrderFulfillmentStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateFulfillmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	order, err := h.OrderService.UpdateFulfillmentStatus(id, req.FulfillmentStatus)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "order not found", nil)
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			respondError(c, response.CodeBadRequest, "invalid fulfillment status", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to update fulfillment status", err)
		return
	}

	response.Success(c, order)
}

// UpdateShippingRequest 更新物流信息请求
type UpdateShippingRequest struct {
	TrackingNumber  *string `json:"tracking_number"`
	ShippingCarrier *string `json:"shipping_carrier"`
	Notes           *string `json:"notes"`
}

// UpdateOrderShipping 更新订单物流信息
func (h *Handler) UpdateOrderShipping(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	order, err := h.OrderService.UpdateShipping(id, service.UpdateShippingInput{
		TrackingNumber:  req.TrackingNumber,
		ShippingCarrier: req.ShippingCarrier,
		Notes:           req.Notes,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "order not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to update shipping", err)
		return
	}

	response.Success(c, order)
}

// DeleteOrder 删除订单（软删除）
func (h *Handler) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.OrderService.Delete(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "order not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to delete order", err)
		return
	}

	response.Success(c, nil)
}

// ListRecentOrders 最近订单
func (h *Handler) ListRecentOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	orders, err := h.OrderService.ListRecent(limit)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch recent orders", err)
		return
	}

	response.Success(c, orders)
}

// ExportOrders 导出订单 CSV
func (h *Handler) ExportOrders(c *gin.Context) {
	filter := orderListFilterFromQuery(c)

	csvContent, err := h.ExportService.ExportOrdersCSV(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to export orders", err)
		return
	}

	filename := h.ExportService.OrderExportFilename(time.Now())
	requestLog(c).Infow("orders_exported", "filename", filename)

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csvContent))
}
