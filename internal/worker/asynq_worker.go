package worker

import (
	"context"

	"github.com/storepanel/internal/constants"
	"github.com/storepanel/internal/logger"
	"github.com/storepanel/internal/provider"
	"github.com/storepanel/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(constants.TaskAlertInventoryScan, c.handleAlertInventoryScan)
}

// handleAlertInventoryScan 扫描低库存商品并生成预警
// product_id 为 0 时全量扫描，否则仅检查单个商品
func (c *Consumer) handleAlertInventoryScan(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_inventory_scan_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseAlertInventoryScanPayload(task)
	if err != nil {
		logger.Warnw("worker_inventory_scan_unmarshal_failed", "error", err)
		return err
	}
	if c.AlertService == nil || c.ProductRepo == nil {
		logger.Warnw("worker_inventory_scan_skip_missing_deps", "product_id", payload.ProductID)
		return nil
	}

	if payload.ProductID != 0 {
		return c.scanOneProduct(payload.ProductID)
	}
	return c.scanAllProducts()
}

func (c *Consumer) scanOneProduct(productID uint) error {
	product, err := c.ProductRepo.GetByID(productID)
	if err != nil {
		logger.Warnw("worker_inventory_scan_fetch_failed", "product_id", productID, "error", err)
		return err
	}
	if product == nil {
		logger.Debugw("worker_inventory_scan_skip_product_not_found", "product_id", productID)
		return nil
	}
	if !product.IsLowStock() {
		logger.Debugw("worker_inventory_scan_skip_stock_ok", "product_id", productID, "inventory", product.Inventory)
		return nil
	}
	alert, err := c.AlertService.CreateInventoryAlert(product)
	if err != nil {
		logger.Warnw("worker_inventory_scan_create_alert_failed", "product_id", productID, "error", err)
		return err
	}
	if alert != nil {
		logger.Infow("inventory_alert_created",
			"product_id", productID,
			"alert_id", alert.ID,
			"severity", alert.Severity,
			"inventory", alert.CurrentInventory,
		)
	}
	return nil
}

func (c *Consumer) scanAllProducts() error {
	products, err := c.ProductRepo.ListLowStock()
	if err != nil {
		logger.Warnw("worker_inventory_scan_list_failed", "error", err)
		return err
	}
	created := 0
	for i := range products {
		alert, err := c.AlertService.CreateInventoryAlert(&products[i])
		if err != nil {
			logger.Warnw("worker_inventory_scan_create_alert_failed", "product_id", products[i].ID, "error", err)
			return err
		}
		if alert != nil {
			created++
		}
	}
	logger.Infow("inventory_scan_completed", "low_stock_products", len(products), "alerts_created", created)
	return nil
}
