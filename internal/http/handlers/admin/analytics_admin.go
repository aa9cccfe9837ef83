package admin

import (
	"errors"
	"time"

	"github.com/storepanel/internal/http/response"
	"github.com/storepanel/internal/service"

	"github.com/gin-gonic/gin"
)

// analyticsQueryFromContext 从查询参数解析分析窗口输入
func analyticsQueryFromContext(c *gin.Context) service.AnalyticsQueryInput {
	input := service.AnalyticsQueryInput{
		Range:        c.Query("range"),
		Timezone:     c.Query("timezone"),
		Granularity:  c.Query("granularity"),
		ForceRefresh: parseBoolQuery(c, "force_refresh"),
	}
	if from, err := time.Parse("2006-01-02", c.Query("from")); err == nil {
		input.From = &from
	}
	if to, err := time.Parse("2006-01-02", c.Query("to")); err == nil {
		input.To = &to
	}
	return input
}

func respondAnalyticsError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, service.ErrAnalyticsRangeInvalid) {
		respondError(c, response.CodeBadRequest, "invalid analytics range", nil)
		return
	}
	respondError(c, response.CodeInternal, fallback, err)
}

// GetSalesAnalytics 销售指标（含上一窗口对比）
func (h *Handler) GetSalesAnalytics(c *gin.Context) {
	result, err := h.AnalyticsService.GetSalesMetrics(c.Request.Context(), analyticsQueryFromContext(c))
	if err != nil {
		respondAnalyticsError(c, err, "failed to compute sales metrics")
		return
	}

	response.Success(c, result)
}

// GetCategorySalesAnalytics 分类销售分析
func (h *Handler) GetCategorySalesAnalytics(c *gin.Context) {
	result, err := h.AnalyticsService.GetCategorySales(c.Request.Context(), analyticsQueryFromContext(c))
	if err != nil {
		respondAnalyticsError(c, err, "failed to compute category sales")
		return
	}

	response.Success(c, result)
}

// GetPaymentStatusAnalytics 支付状态分布
func (h *Handler) GetPaymentStatusAnalytics(c *gin.Context) {
	result, err := h.AnalyticsService.GetPaymentStatusDistribution(c.Request.Context(), analyticsQueryFromContext(c))
	if err != nil {
		respondAnalyticsError(c, err, "failed to compute payment status distribution")
		return
	}

	response.Success(c, result)
}

// GetProductPerformanceAnalytics 商品表现分析
func (h *Handler) GetProductPerformanceAnalytics(c *gin.Context) {
	result, err := h.AnalyticsService.GetProductPerformance(c.Request.Context(), analyticsQueryFromContext(c))
	if err != nil {
		respondAnalyticsError(c, err, "failed to compute product performance")
		return
	}

	response.Success(c, result)
}
