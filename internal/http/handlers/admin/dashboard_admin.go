package admin

import (
	"github.com/storepanel/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetDashboardMetrics 仪表盘核心指标
func (h *Handler) GetDashboardMetrics(c *gin.Context) {
	result, err := h.AnalyticsService.GetSalesMetrics(c.Request.Context(), analyticsQueryFromContext(c))
	if err != nil {
		respondAnalyticsError(c, err, "failed to compute dashboard metrics")
		return
	}

	response.Success(c, result)
}

// GetRevenueTrend 收入趋势
func (h *Handler) GetRevenueTrend(c *gin.Context) {
	result, err := h.AnalyticsService.GetRevenueTrend(c.Request.Context(), analyticsQueryFromContext(c))
	if err != nil {
		respondAnalyticsError(c, err, "failed to compute revenue trend")
		return
	}

	response.Success(c, result)
}

// GetOrderStatusDistribution 订单状态分布
func (h *Handler) GetOrderStatusDistribution(c *gin.Context) {
	result, err := h.AnalyticsService.GetOrderStatusDistribution(c.Request.Context(), analyticsQueryFromContext(c))
	if err != nil {
		respondAnalyticsError(c, err, "failed to compute order status distribution")
		return
	}

	response.Success(c, result)
}

// GetTopProducts 销量 Top 商品
func (h *Handler) GetTopProducts(c *gin.Context) {
	result, err := h.AnalyticsService.GetTopProducts(c.Request.Context(), analyticsQueryFromContext(c))
	if err != nil {
		respondAnalyticsError(c, err, "failed to compute top products")
		return
	}

	response.Success(c, result)
}
