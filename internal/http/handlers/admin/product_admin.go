package admin

import (
	"errors"
	"strconv"

	"github.com/storepanel/internal/http/handlers/shared"
	"github.com/storepanel/internal/http/response"
	"github.com/storepanel/internal/models"
	"github.com/storepanel/internal/repository"
	"github.com/storepanel/internal/service"

	"github.com/gin-gonic/gin"
)

// ListProducts 商品列表
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	products, total, err := h.ProductService.List(repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   parseUintQuery(c, "category_id"),
		Search:       c.Query("search"),
		LowStock:     parseBoolQuery(c, "low_stock"),
		OnlyActive:   parseBoolQuery(c, "only_active"),
		WithCategory: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch products", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, products, pagination)
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.ProductService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to fetch product", err)
		return
	}

	response.Success(c, product)
}

// ProductVariantRequest 商品变体请求
type ProductVariantRequest struct {
	VariantType  string       `json:"variant_type" binding:"required"`
	VariantValue string       `json:"variant_value" binding:"required"`
	SKU          string       `json:"sku"`
	Price        models.Money `json:"price"`
	Inventory    int          `json:"inventory"`
}

// ProductRequest 创建/更新商品请求
type ProductRequest struct {
	CategoryID        uint                    `json:"category_id" binding:"required"`
	Name              string                  `json:"name" binding:"required"`
	SKU               string                  `json:"sku" binding:"required"`
	Description       string                  `json:"description"`
	Price             models.Money            `json:"price" binding:"required"`
	Inventory         int                     `json:"inventory"`
	LowStockThreshold int                     `json:"low_stock_threshold"`
	Images            []string                `json:"images"`
	Tags              []string                `json:"tags"`
	IsActive          *bool                   `json:"is_active"`
	Variants          []ProductVariantRequest `json:"variants"`
}

func (r ProductRequest) toInput() service.ProductInput {
	variants := make([]service.ProductVariantInput, 0, len(r.Variants))
	for _, v := range r.Variants {
		variants = append(variants, service.ProductVariantInput{
			VariantType:  v.VariantType,
			VariantValue: v.VariantValue,
			SKU:          v.SKU,
			Price:        v.Price,
			Inventory:    v.Inventory,
		})
	}
	return service.ProductInput{
		CategoryID:        r.CategoryID,
		Name:              r.Name,
		SKU:               r.SKU,
		Description:       r.Description,
		Price:             r.Price,
		Inventory:         r.Inventory,
		LowStockThreshold: r.LowStockThreshold,
		Images:            r.Images,
		Tags:              r.Tags,
		IsActive:          r.IsActive,
		Variants:          variants,
	}
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	product, err := h.ProductService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondProductError(c, err, "failed to create product")
		return
	}

	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	product, err := h.ProductService.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondProductError(c, err, "failed to update product")
		return
	}

	response.Success(c, product)
}

// DeleteProduct 删除商品（软删除）
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.ProductService.Delete(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to delete product", err)
		return
	}

	response.Success(c, nil)
}

// AdjustInventoryRequest 调整库存请求
type AdjustInventoryRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// AdjustProductInventory 调整商品库存
func (h *Handler) AdjustProductInventory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AdjustInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	product, err := h.ProductService.AdjustInventory(c.Request.Context(), id, req.Delta)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		if errors.Is(err, service.ErrInsufficientStock) {
			respondError(c, response.CodeBadRequest, "inventory cannot go negative", nil)
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			respondError(c, response.CodeBadRequest, "invalid inventory delta", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to adjust inventory", err)
		return
	}

	response.Success(c, product)
}

// ListLowStockProducts 低库存商品列表
func (h *Handler) ListLowStockProducts(c *gin.Context) {
	products, err := h.ProductService.ListLowStock()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch low stock products", err)
		return
	}

	response.Success(c, products)
}

func respondProductError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, "product or category not found", nil)
	case errors.Is(err, service.ErrSKUExists):
		respondError(c, response.CodeConflict, "sku already exists", nil)
	case errors.Is(err, service.ErrInvalidInput):
		respondError(c, response.CodeBadRequest, "invalid product input", err)
	default:
		respondError(c, response.CodeInternal, fallback, err)
	}
}
