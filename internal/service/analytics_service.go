package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/storepanel/internal/cache"
	"github.com/storepanel/internal/repository"
)

const (
	analyticsCacheTTL      = 45 * time.Second
	analyticsCustomMaxDays = 90
	topProductsLimit       = 10
)

// AnalyticsService 经营分析服务
// 说明：窗口内取数由仓库层负责，指标口径集中在这里。
type AnalyticsService struct {
	repo         repository.AnalyticsRepository
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	orderRepo    repository.OrderRepository
}

// NewAnalyticsService 创建分析服务
func NewAnalyticsService(
	repo repository.AnalyticsRepository,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	orderRepo repository.OrderRepository,
) *AnalyticsService {
	return &AnalyticsService{
		repo:         repo,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		orderRepo:    orderRepo,
	}
}

// AnalyticsQueryInput 分析查询输入
type AnalyticsQueryInput struct {
	Range        string
	From         *time.Time
	To           *time.Time
	Timezone     string
	Granularity  string
	ForceRefresh bool
}

type analyticsWindow struct {
	rangeKey string
	startAt  time.Time
	endAt    time.Time
	timezone string
}

func (w analyticsWindow) days() float64 {
	return w.endAt.Sub(w.startAt).Hours() / 24
}

// previous 返回紧邻当前窗口之前的等长窗口
func (w analyticsWindow) previous() analyticsWindow {
	duration := w.endAt.Sub(w.startAt)
	return analyticsWindow{
		rangeKey: w.rangeKey,
		startAt:  w.startAt.Add(-duration),
		endAt:    w.startAt,
		timezone: w.timezone,
	}
}

// SalesMetrics 销售指标
type SalesMetrics struct {
	Revenue           string `json:"revenue"`
	OrderCount        int64  `json:"order_count"`
	AverageOrderValue string `json:"average_order_value"`
}

// SalesMetricsChange 环比变化（百分比，保留 1 位小数）
type SalesMetricsChange struct {
	RevenuePct           float64 `json:"revenue_pct"`
	OrderCountPct        float64 `json:"order_count_pct"`
	AverageOrderValuePct float64 `json:"average_order_value_pct"`
}

// SalesMetricsResponse 销售指标响应
type SalesMetricsResponse struct {
	Range    string             `json:"range"`
	From     string             `json:"from"`
	To       string             `json:"to"`
	Timezone string             `json:"timezone"`
	Current  SalesMetrics       `json:"current"`
	Previous SalesMetrics       `json:"previous"`
	Change   SalesMetricsChange `json:"change"`
}

// PaymentStatusSlice 支付状态分布项
type PaymentStatusSlice struct {
	PaymentStatus string  `json:"payment_status"`
	OrderCount    int64   `json:"order_count"`
	Amount        string  `json:"amount"`
	Percentage    float64 `json:"percentage"`
}

// PaymentStatusResponse 支付状态分布响应
type PaymentStatusResponse struct {
	Range    string               `json:"range"`
	From     string               `json:"from"`
	To       string               `json:"to"`
	Timezone string               `json:"timezone"`
	Total    int64                `json:"total"`
	Slices   []PaymentStatusSlice `json:"slices"`
}

// RevenueTrendPoint 收入趋势点
type RevenueTrendPoint struct {
	Period     string `json:"period"`
	Revenue    string `json:"revenue"`
	OrderCount int64  `json:"order_count"`
}

// RevenueTrendResponse 收入趋势响应
type RevenueTrendResponse struct {
	Range       string              `json:"range"`
	From        string              `json:"from"`
	To          string              `json:"to"`
	Timezone    string              `json:"timezone"`
	Granularity string              `json:"granularity"`
	Points      []RevenueTrendPoint `json:"points"`
}

// OrderStatusSlice 订单状态分布项
type OrderStatusSlice struct {
	Status     string  `json:"status"`
	OrderCount int64   `json:"order_count"`
	Percentage float64 `json:"percentage"`
}

// OrderStatusResponse 订单状态分布响应
type OrderStatusResponse struct {
	Range    string             `json:"range"`
	From     string             `json:"from"`
	To       string             `json:"to"`
	Timezone string             `json:"timezone"`
	Total    int64              `json:"total"`
	Slices   []OrderStatusSlice `json:"slices"`
}

// GetSalesMetrics 获取销售指标（含等长上一窗口环比）
func (s *AnalyticsService) GetSalesMetrics(ctx context.Context, input AnalyticsQueryInput) (*SalesMetricsResponse, error) {
	window, err := resolveAnalyticsWindow(input, time.Now())
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("analytics:sales:%s:%d:%d:%s", window.rangeKey, window.startAt.Unix(), window.endAt.Unix(), window.timezone)
	if !input.ForceRefresh {
		var cached SalesMetricsResponse
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	current, currentRaw, err := s.collectSalesMetrics(window)
	if err != nil {
		return nil, err
	}
	previous, previousRaw, err := s.collectSalesMetrics(window.previous())
	if err != nil {
		return nil, err
	}

	response := &SalesMetricsResponse{
		Range:    window.rangeKey,
		From:     window.startAt.Format(time.RFC3339),
		To:       window.endAt.Format(time.RFC3339),
		Timezone: window.timezone,
		Current:  current,
		Previous: previous,
		Change: SalesMetricsChange{
			RevenuePct:           pctChange(currentRaw.revenue, previousRaw.revenue),
			OrderCountPct:        pctChange(float64(currentRaw.orderCount), float64(previousRaw.orderCount)),
			AverageOrderValuePct: pctChange(currentRaw.aov, previousRaw.aov),
		},
	}

	_ = cache.SetJSON(ctx, cacheKey, response, analyticsCacheTTL)
	return response, nil
}

type rawSalesMetrics struct {
	revenue    float64
	orderCount int64
	aov        float64
}

func (s *AnalyticsService) collectSalesMetrics(window analyticsWindow) (SalesMetrics, rawSalesMetrics, error) {
	orders, err := s.repo.ListPaidOrders(window.startAt, window.endAt)
	if err != nil {
		return SalesMetrics{}, rawSalesMetrics{}, err
	}

	raw := rawSalesMetrics{orderCount: int64(len(orders))}
	for _, order := range orders {
		raw.revenue += order.TotalAmount.InexactFloat64()
	}
	if raw.orderCount > 0 {
		raw.aov = raw.revenue / float64(raw.orderCount)
	}

	return SalesMetrics{
		Revenue:           formatAmountValue(raw.revenue),
		OrderCount:        raw.orderCount,
		AverageOrderValue: formatAmountValue(raw.aov),
	}, raw, nil
}

// GetPaymentStatusDistribution 获取支付状态分布
func (s *AnalyticsService) GetPaymentStatusDistribution(ctx context.Context, input AnalyticsQueryInput) (*PaymentStatusResponse, error) {
	window, err := resolveAnalyticsWindow(input, time.Now())
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("analytics:payment_status:%s:%d:%d:%s", window.rangeKey, window.startAt.Unix(), window.endAt.Unix(), window.timezone)
	if !input.ForceRefresh {
		var cached PaymentStatusResponse
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	rows, err := s.repo.GetPaymentStatusCounts(window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, row := range rows {
		total += row.Total
	}

	slices := make([]PaymentStatusSlice, 0, len(rows))
	for _, row := range rows {
		percentage := 0.0
		if total > 0 {
			percentage = roundTo1dp(float64(row.Total) / float64(total) * 100)
		}
		slices = append(slices, PaymentStatusSlice{
			PaymentStatus: row.PaymentStatus,
			OrderCount:    row.Total,
			Amount:        formatAmountValue(row.Amount),
			Percentage:    percentage,
		})
	}
	sortPaymentSlices(slices)

	response := &PaymentStatusResponse{
		Range:    window.rangeKey,
		From:     window.startAt.Format(time.RFC3339),
		To:       window.endAt.Format(time.RFC3339),
		Timezone: window.timezone,
		Total:    total,
		Slices:   slices,
	}

	_ = cache.SetJSON(ctx, cacheKey, response, analyticsCacheTTL)
	return response, nil
}

// GetRevenueTrend 获取收入趋势（按日或按月）
func (s *AnalyticsService) GetRevenueTrend(ctx context.Context, input AnalyticsQueryInput) (*RevenueTrendResponse, error) {
	window, err := resolveAnalyticsWindow(input, time.Now())
	if err != nil {
		return nil, err
	}

	granularity := strings.ToLower(strings.TrimSpace(input.Granularity))
	if granularity == "" {
		granularity = "day"
	}
	if granularity != "day" && granularity != "month" {
		return nil, ErrAnalyticsRangeInvalid
	}

	cacheKey := fmt.Sprintf("analytics:revenue_trend:%s:%d:%d:%s:%s", window.rangeKey, window.startAt.Unix(), window.endAt.Unix(), window.timezone, granularity)
	if !input.ForceRefresh {
		var cached RevenueTrendResponse
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	rows, err := s.repo.GetRevenueBuckets(window.startAt, window.endAt, granularity)
	if err != nil {
		return nil, err
	}

	points := make([]RevenueTrendPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, RevenueTrendPoint{
			Period:     row.Bucket,
			Revenue:    formatAmountValue(row.Revenue),
			OrderCount: row.Orders,
		})
	}

	response := &RevenueTrendResponse{
		Range:       window.rangeKey,
		From:        window.startAt.Format(time.RFC3339),
		To:          window.endAt.Format(time.RFC3339),
		Timezone:    window.timezone,
		Granularity: granularity,
		Points:      points,
	}

	_ = cache.SetJSON(ctx, cacheKey, response, analyticsCacheTTL)
	return response, nil
}

// GetOrderStatusDistribution 获取订单状态分布
func (s *AnalyticsService) GetOrderStatusDistribution(ctx context.Context, input AnalyticsQueryInput) (*OrderStatusResponse, error) {
	window, err := resolveAnalyticsWindow(input, time.Now())
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("analytics:order_status:%s:%d:%d:%s", window.rangeKey, window.startAt.Unix(), window.endAt.Unix(), window.timezone)
	if !input.ForceRefresh {
		var cached OrderStatusResponse
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	rows, err := s.repo.GetOrderStatusCounts(window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, row := range rows {
		total += row.Total
	}

	slices := make([]OrderStatusSlice, 0, len(rows))
	for _, row := range rows {
		percentage := 0.0
		if total > 0 {
			percentage = roundTo1dp(float64(row.Total) / float64(total) * 100)
		}
		slices = append(slices, OrderStatusSlice{
			Status:     row.Status,
			OrderCount: row.Total,
			Percentage: percentage,
		})
	}
	sortOrderStatusSlices(slices)

	response := &OrderStatusResponse{
		Range:    window.rangeKey,
		From:     window.startAt.Format(time.RFC3339),
		To:       window.endAt.Format(time.RFC3339),
		Timezone: window.timezone,
		Total:    total,
		Slices:   slices,
	}

	_ = cache.SetJSON(ctx, cacheKey, response, analyticsCacheTTL)
	return response, nil
}

func resolveAnalyticsWindow(input AnalyticsQueryInput, now time.Time) (analyticsWindow, error) {
	rangeKey := strings.ToLower(strings.TrimSpace(input.Range))
	if rangeKey == "" {
		rangeKey = "7d"
	}

	timezone := strings.TrimSpace(input.Timezone)
	location := time.Local
	if timezone != "" {
		if parsed, err := time.LoadLocation(timezone); err == nil {
			location = parsed
		} else {
			timezone = ""
		}
	}
	if timezone == "" {
		timezone = location.String()
	}

	localNow := now.In(location)
	todayStart := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, location)
	window := analyticsWindow{rangeKey: rangeKey, timezone: timezone}

	switch rangeKey {
	case "today":
		window.startAt = todayStart
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "7d":
		window.startAt = todayStart.AddDate(0, 0, -6)
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "30d":
		window.startAt = todayStart.AddDate(0, 0, -29)
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "custom":
		if input.From == nil || input.To == nil {
			return analyticsWindow{}, ErrAnalyticsRangeInvalid
		}
		startAt := input.From.In(location)
		endAt := input.To.In(location)
		if endAt.Before(startAt) {
			return analyticsWindow{}, ErrAnalyticsRangeInvalid
		}
		if endAt.Sub(startAt) > time.Hour*24*analyticsCustomMaxDays {
			return analyticsWindow{}, ErrAnalyticsRangeInvalid
		}
		window.startAt = startAt
		window.endAt = endAt.Add(time.Second)
	default:
		return analyticsWindow{}, ErrAnalyticsRangeInvalid
	}

	if !window.endAt.After(window.startAt) {
		return analyticsWindow{}, ErrAnalyticsRangeInvalid
	}
	return window, nil
}

// pctChange 计算百分比变化，保留 1 位小数
// 上一窗口为 0 时按 0 处理，避免无穷大
func pctChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return roundTo1dp((current - previous) / previous * 100)
}

func roundTo1dp(value float64) float64 {
	return math.Round(value*10) / 10
}

func formatAmountValue(value float64) string {
	return fmt.Sprintf("%.2f", value)
}
