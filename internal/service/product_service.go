package service

import (
	"context"
	"strings"

	"github.com/storepanel/internal/constants"
	"github.com/storepanel/internal/logger"
	"github.com/storepanel/internal/models"
	"github.com/storepanel/internal/queue"
	"github.com/storepanel/internal/repository"
)

// ProductService 商品业务服务
type ProductService struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	queueClient  *queue.Client
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, categoryRepo repository.CategoryRepository, queueClient *queue.Client) *ProductService {
	return &ProductService{
		repo:         repo,
		categoryRepo: categoryRepo,
		queueClient:  queueClient,
	}
}

// ProductVariantInput 商品规格输入
type ProductVariantInput struct {
	VariantType  string
	VariantValue string
	SKU          string
	Price        models.Money
	Inventory    int
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	CategoryID        uint
	Name              string
	SKU               string
	Description       string
	Price             models.Money
	Inventory         int
	LowStockThreshold int
	Images            []string
	Tags              []string
	IsActive          *bool
	Variants          []ProductVariantInput
}

// List 商品列表
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.repo.List(filter)
}

// Get 商品详情
func (s *ProductService) Get(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

func (s *ProductService) validateInput(input *ProductInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.SKU = strings.TrimSpace(input.SKU)
	if input.Name == "" || input.SKU == "" || input.CategoryID == 0 {
		return ErrInvalidInput
	}
	if input.Price.IsNegative() || input.Inventory < 0 || input.LowStockThreshold < 0 {
		return ErrInvalidInput
	}
	for i := range input.Variants {
		variant := &input.Variants[i]
		variant.VariantType = strings.TrimSpace(variant.VariantType)
		variant.VariantValue = strings.TrimSpace(variant.VariantValue)
		variant.SKU = strings.TrimSpace(variant.SKU)
		if variant.VariantType == "" || variant.VariantValue == "" {
			return ErrInvalidInput
		}
		if variant.Price.IsNegative() || variant.Inventory < 0 {
			return ErrInvalidInput
		}
	}
	return nil
}

func (s *ProductService) ensureCategory(categoryID uint) error {
	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrNotFound
	}
	return nil
}

func buildVariants(inputs []ProductVariantInput) []models.ProductVariant {
	variants := make([]models.ProductVariant, 0, len(inputs))
	for _, input := range inputs {
		variants = append(variants, models.ProductVariant{
			VariantType:  input.VariantType,
			VariantValue: input.VariantValue,
			SKU:          input.SKU,
			Price:        input.Price,
			Inventory:    input.Inventory,
		})
	}
	return variants
}

// Create 创建商品
func (s *ProductService) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	if err := s.validateInput(&input); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(input.CategoryID); err != nil {
		return nil, err
	}

	count, err := s.repo.CountBySKU(input.SKU, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSKUExists
	}

	threshold := input.LowStockThreshold
	if threshold == 0 {
		threshold = constants.DefaultLowStockThreshold
	}

	product := models.Product{
		CategoryID:        input.CategoryID,
		Name:              input.Name,
		SKU:               input.SKU,
		Description:       strings.TrimSpace(input.Description),
		Price:             input.Price,
		Inventory:         input.Inventory,
		LowStockThreshold: threshold,
		Images:            models.StringArray(input.Images),
		Tags:              models.StringArray(input.Tags),
		HasVariants:       len(input.Variants) > 0,
		IsActive:          true,
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.repo.Create(&product); err != nil {
		return nil, err
	}
	if len(input.Variants) > 0 {
		if err := s.repo.ReplaceVariants(product.ID, buildVariants(input.Variants)); err != nil {
			return nil, err
		}
	}

	s.enqueueInventoryScan(ctx, product.ID)
	return s.Get(product.ID)
}

// Update 更新商品
func (s *ProductService) Update(ctx context.Context, id uint, input ProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}

	if err := s.validateInput(&input); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(input.CategoryID); err != nil {
		return nil, err
	}

	count, err := s.repo.CountBySKU(input.SKU, &id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSKUExists
	}

	threshold := input.LowStockThreshold
	if threshold == 0 {
		threshold = constants.DefaultLowStockThreshold
	}

	product.CategoryID = input.CategoryID
	product.Name = input.Name
	product.SKU = input.SKU
	product.Description = strings.TrimSpace(input.Description)
	product.Price = input.Price
	product.Inventory = input.Inventory
	product.LowStockThreshold = threshold
	product.Images = models.StringArray(input.Images)
	product.Tags = models.StringArray(input.Tags)
	product.HasVariants = len(input.Variants) > 0
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceVariants(product.ID, buildVariants(input.Variants)); err != nil {
		return nil, err
	}

	s.enqueueInventoryScan(ctx, product.ID)
	return s.Get(product.ID)
}

// AdjustInventory 调整商品库存
func (s *ProductService) AdjustInventory(ctx context.Context, id uint, delta int) (*models.Product, error) {
	if delta == 0 {
		return nil, ErrInvalidInput
	}
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}

	affected, err := s.repo.AdjustInventory(id, delta)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrInsufficientStock
	}

	s.enqueueInventoryScan(ctx, id)
	return s.Get(id)
}

// Delete 删除商品
func (s *ProductService) Delete(id uint) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrNotFound
	}
	return s.repo.Delete(id)
}

// ListLowStock 低库存在售商品列表
func (s *ProductService) ListLowStock() ([]models.Product, error) {
	return s.repo.ListLowStock()
}

func (s *ProductService) enqueueInventoryScan(ctx context.Context, productID uint) {
	if s.queueClient == nil {
		return
	}
	if err := s.queueClient.EnqueueAlertInventoryScan(ctx, queue.AlertInventoryScanPayload{ProductID: productID}); err != nil {
		logger.Warnw("enqueue_inventory_scan_failed", "product_id", productID, "error", err)
	}
}
