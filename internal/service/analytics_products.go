package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/storepanel/internal/cache"
	"github.com/storepanel/internal/models"
	"github.com/storepanel/internal/repository"
)

// CategorySalesItem 分类销售项
type CategorySalesItem struct {
	CategoryID   uint    `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Revenue      string  `json:"revenue"`
	OrderCount   int64   `json:"order_count"`
	UnitsSold    int64   `json:"units_sold"`
	Percentage   float64 `json:"percentage"`
}

// CategorySalesResponse 分类销售响应
type CategorySalesResponse struct {
	Range    string              `json:"range"`
	From     string              `json:"from"`
	To       string              `json:"to"`
	Timezone string              `json:"timezone"`
	Items    []CategorySalesItem `json:"items"`
}

// ProductPerformanceItem 商品表现项
type ProductPerformanceItem struct {
	ProductID    uint    `json:"product_id"`
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	UnitsSold    int64   `json:"units_sold"`
	Revenue      string  `json:"revenue"`
	Inventory    int     `json:"inventory"`
	TurnoverRate float64 `json:"turnover_rate"`
	Trend        string  `json:"trend"`
	ZeroSales    bool    `json:"zero_sales"`
}

// ProductPerformanceResponse 商品表现响应
type ProductPerformanceResponse struct {
	Range    string                   `json:"range"`
	From     string                   `json:"from"`
	To       string                   `json:"to"`
	Timezone string                   `json:"timezone"`
	Items    []ProductPerformanceItem `json:"items"`
}

// TopProductItem 商品排行项
type TopProductItem struct {
	ProductID  uint    `json:"product_id"`
	Name       string  `json:"name"`
	SKU        string  `json:"sku"`
	UnitsSold  int64   `json:"units_sold"`
	Revenue    string  `json:"revenue"`
	SharePct   float64 `json:"share_pct"`
	OrderCount int64   `json:"order_count"`
}

// TopProductsResponse 商品排行响应
type TopProductsResponse struct {
	Range    string           `json:"range"`
	From     string           `json:"from"`
	To       string           `json:"to"`
	Timezone string           `json:"timezone"`
	Items    []TopProductItem `json:"items"`
}

// 商品表现趋势常量
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// windowItems 获取窗口内已支付订单的明细
func (s *AnalyticsService) windowItems(window analyticsWindow) ([]models.OrderItem, error) {
	orders, err := s.repo.ListPaidOrders(window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []models.OrderItem{}, nil
	}
	orderIDs := make([]uint, 0, len(orders))
	for _, order := range orders {
		orderIDs = append(orderIDs, order.ID)
	}
	return s.repo.ListOrderItems(orderIDs)
}

// GetCategorySales 获取分类销售汇总
// 所有分类都会出现在结果中，未售出的收入为 0
func (s *AnalyticsService) GetCategorySales(ctx context.Context, input AnalyticsQueryInput) (*CategorySalesResponse, error) {
	window, err := resolveAnalyticsWindow(input, time.Now())
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("analytics:category_sales:%s:%d:%d:%s", window.rangeKey, window.startAt.Unix(), window.endAt.Unix(), window.timezone)
	if !input.ForceRefresh {
		var cached CategorySalesResponse
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	items, err := s.windowItems(window)
	if err != nil {
		return nil, err
	}

	productIDs := make([]uint, 0, len(items))
	seenProducts := make(map[uint]struct{}, len(items))
	for _, item := range items {
		if _, ok := seenProducts[item.ProductID]; ok {
			continue
		}
		seenProducts[item.ProductID] = struct{}{}
		productIDs = append(productIDs, item.ProductID)
	}
	products, err := s.repo.ListProductsByIDs(productIDs)
	if err != nil {
		return nil, err
	}
	categoryByProduct := make(map[uint]uint, len(products))
	for _, product := range products {
		categoryByProduct[product.ID] = product.CategoryID
	}

	categories, err := s.categoryRepo.List(false)
	if err != nil {
		return nil, err
	}

	type categoryAgg struct {
		revenue float64
		units   int64
		orders  map[uint]struct{}
	}
	aggByCategory := make(map[uint]*categoryAgg, len(categories))
	for _, category := range categories {
		aggByCategory[category.ID] = &categoryAgg{orders: make(map[uint]struct{})}
	}

	var totalRevenue float64
	for _, item := range items {
		categoryID, ok := categoryByProduct[item.ProductID]
		if !ok {
			continue
		}
		agg, ok := aggByCategory[categoryID]
		if !ok {
			continue
		}
		revenue := item.Total.InexactFloat64()
		agg.revenue += revenue
		agg.units += int64(item.Quantity)
		agg.orders[item.OrderID] = struct{}{}
		totalRevenue += revenue
	}

	// 收入降序，同收入按名称升序保证结果稳定
	sorted := make([]models.Category, len(categories))
	copy(sorted, categories)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri := aggByCategory[sorted[i].ID].revenue
		rj := aggByCategory[sorted[j].ID].revenue
		if ri != rj {
			return ri > rj
		}
		return sorted[i].Name < sorted[j].Name
	})

	result := make([]CategorySalesItem, 0, len(sorted))
	for _, category := range sorted {
		agg := aggByCategory[category.ID]
		percentage := 0.0
		if totalRevenue > 0 {
			percentage = roundTo1dp(agg.revenue / totalRevenue * 100)
		}
		result = append(result, CategorySalesItem{
			CategoryID:   category.ID,
			CategoryName: category.Name,
			Revenue:      formatAmountValue(agg.revenue),
			OrderCount:   int64(len(agg.orders)),
			UnitsSold:    agg.units,
			Percentage:   percentage,
		})
	}

	response := &CategorySalesResponse{
		Range:    window.rangeKey,
		From:     window.startAt.Format(time.RFC3339),
		To:       window.endAt.Format(time.RFC3339),
		Timezone: window.timezone,
		Items:    result,
	}

	_ = cache.SetJSON(ctx, cacheKey, response, analyticsCacheTTL)
	return response, nil
}

// GetProductPerformance 获取商品表现
// 全量商品参与，未售出商品带 zero_sales 标记
func (s *AnalyticsService) GetProductPerformance(ctx context.Context, input AnalyticsQueryInput) (*ProductPerformanceResponse, error) {
	window, err := resolveAnalyticsWindow(input, time.Now())
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("analytics:product_performance:%s:%d:%d:%s", window.rangeKey, window.startAt.Unix(), window.endAt.Unix(), window.timezone)
	if !input.ForceRefresh {
		var cached ProductPerformanceResponse
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	currentItems, err := s.windowItems(window)
	if err != nil {
		return nil, err
	}
	previousItems, err := s.windowItems(window.previous())
	if err != nil {
		return nil, err
	}

	type productAgg struct {
		units   int64
		revenue float64
	}
	currentByProduct := make(map[uint]*productAgg, len(currentItems))
	for _, item := range currentItems {
		agg, ok := currentByProduct[item.ProductID]
		if !ok {
			agg = &productAgg{}
			currentByProduct[item.ProductID] = agg
		}
		agg.units += int64(item.Quantity)
		agg.revenue += item.Total.InexactFloat64()
	}
	previousUnits := make(map[uint]int64, len(previousItems))
	for _, item := range previousItems {
		previousUnits[item.ProductID] += int64(item.Quantity)
	}

	products, _, err := s.productRepo.List(repository.ProductListFilter{})
	if err != nil {
		return nil, err
	}

	days := window.days()
	result := make([]ProductPerformanceItem, 0, len(products))
	for _, product := range products {
		var units int64
		var revenue float64
		if agg, ok := currentByProduct[product.ID]; ok {
			units = agg.units
			revenue = agg.revenue
		}

		turnover := 0.0
		if product.Inventory != 0 && days > 0 {
			turnover = float64(units) / float64(product.Inventory) * 365 / days
		}

		result = append(result, ProductPerformanceItem{
			ProductID:    product.ID,
			Name:         product.Name,
			SKU:          product.SKU,
			UnitsSold:    units,
			Revenue:      formatAmountValue(revenue),
			Inventory:    product.Inventory,
			TurnoverRate: roundTo1dp(turnover),
			Trend:        salesTrend(units, previousUnits[product.ID]),
			ZeroSales:    units == 0,
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].UnitsSold != result[j].UnitsSold {
			return result[i].UnitsSold > result[j].UnitsSold
		}
		return result[i].Name < result[j].Name
	})

	response := &ProductPerformanceResponse{
		Range:    window.rangeKey,
		From:     window.startAt.Format(time.RFC3339),
		To:       window.endAt.Format(time.RFC3339),
		Timezone: window.timezone,
		Items:    result,
	}

	_ = cache.SetJSON(ctx, cacheKey, response, analyticsCacheTTL)
	return response, nil
}

// GetTopProducts 获取商品销售排行（收入降序，前 10）
func (s *AnalyticsService) GetTopProducts(ctx context.Context, input AnalyticsQueryInput) (*TopProductsResponse, error) {
	window, err := resolveAnalyticsWindow(input, time.Now())
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("analytics:top_products:%s:%d:%d:%s", window.rangeKey, window.startAt.Unix(), window.endAt.Unix(), window.timezone)
	if !input.ForceRefresh {
		var cached TopProductsResponse
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	items, err := s.windowItems(window)
	if err != nil {
		return nil, err
	}

	type topAgg struct {
		name    string
		sku     string
		units   int64
		revenue float64
		orders  map[uint]struct{}
	}
	aggByProduct := make(map[uint]*topAgg, len(items))
	var totalRevenue float64
	for _, item := range items {
		agg, ok := aggByProduct[item.ProductID]
		if !ok {
			agg = &topAgg{name: item.ProductName, sku: item.SKU, orders: make(map[uint]struct{})}
			aggByProduct[item.ProductID] = agg
		}
		revenue := item.Total.InexactFloat64()
		agg.units += int64(item.Quantity)
		agg.revenue += revenue
		agg.orders[item.OrderID] = struct{}{}
		totalRevenue += revenue
	}

	productIDs := make([]uint, 0, len(aggByProduct))
	for productID := range aggByProduct {
		productIDs = append(productIDs, productID)
	}
	sort.SliceStable(productIDs, func(i, j int) bool {
		ai := aggByProduct[productIDs[i]]
		aj := aggByProduct[productIDs[j]]
		if ai.revenue != aj.revenue {
			return ai.revenue > aj.revenue
		}
		return ai.name < aj.name
	})
	if len(productIDs) > topProductsLimit {
		productIDs = productIDs[:topProductsLimit]
	}

	result := make([]TopProductItem, 0, len(productIDs))
	for _, productID := range productIDs {
		agg := aggByProduct[productID]
		share := 0.0
		if totalRevenue > 0 {
			share = roundTo1dp(agg.revenue / totalRevenue * 100)
		}
		result = append(result, TopProductItem{
			ProductID:  productID,
			Name:       agg.name,
			SKU:        agg.sku,
			UnitsSold:  agg.units,
			Revenue:    formatAmountValue(agg.revenue),
			SharePct:   share,
			OrderCount: int64(len(agg.orders)),
		})
	}

	response := &TopProductsResponse{
		Range:    window.rangeKey,
		From:     window.startAt.Format(time.RFC3339),
		To:       window.endAt.Format(time.RFC3339),
		Timezone: window.timezone,
		Items:    result,
	}

	_ = cache.SetJSON(ctx, cacheKey, response, analyticsCacheTTL)
	return response, nil
}

// salesTrend 与上一窗口销量比较：高于 1.1 倍为上升，低于 0.9 倍为下降
// 上一窗口为 0 且本窗口有销量时视为上升，两者都为 0 时视为持平
func salesTrend(current, previous int64) string {
	cur := float64(current)
	prev := float64(previous)
	switch {
	case cur > prev*1.1:
		return TrendUp
	case cur < prev*0.9:
		return TrendDown
	default:
		return TrendStable
	}
}

func sortPaymentSlices(slices []PaymentStatusSlice) {
	sort.SliceStable(slices, func(i, j int) bool {
		if slices[i].OrderCount != slices[j].OrderCount {
			return slices[i].OrderCount > slices[j].OrderCount
		}
		return slices[i].PaymentStatus < slices[j].PaymentStatus
	})
}

func sortOrderStatusSlices(slices []OrderStatusSlice) {
	sort.SliceStable(slices, func(i, j int) bool {
		if slices[i].OrderCount != slices[j].OrderCount {
			return slices[i].OrderCount > slices[j].OrderCount
		}
		return slices[i].Status < slices[j].Status
	})
}
