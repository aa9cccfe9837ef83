package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/storepanel/internal/config"
	"github.com/storepanel/internal/constants"
	"github.com/storepanel/internal/logger"
	"github.com/storepanel/internal/models"
	"github.com/storepanel/internal/queue"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 演示数据填充器：按自然键（名称/SKU/邮箱/单号）做 create-if-missing，可重复执行
func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	db := models.DB
	// 固定随机种子，保证多次执行生成相同的演示数据
	rng := rand.New(rand.NewSource(20240901))

	segments, err := seedSegments(db)
	if err != nil {
		stdLog.Fatalf("填充客户分群失败: %v", err)
	}
	categories, err := seedCategories(db)
	if err != nil {
		stdLog.Fatalf("填充分类失败: %v", err)
	}
	products, err := seedProducts(db, categories)
	if err != nil {
		stdLog.Fatalf("填充商品失败: %v", err)
	}
	customers, err := seedCustomers(db, segments)
	if err != nil {
		stdLog.Fatalf("填充客户失败: %v", err)
	}
	if err := seedOrders(db, rng, customers, products); err != nil {
		stdLog.Fatalf("填充订单失败: %v", err)
	}
	if err := seedTickets(db, customers); err != nil {
		stdLog.Fatalf("填充工单失败: %v", err)
	}
	if err := recomputeAggregates(db); err != nil {
		stdLog.Fatalf("重算统计字段失败: %v", err)
	}

	// 入队一次全量库存扫描，由 worker 生成低库存告警
	qc := queue.NewClient(&cfg.Queue)
	defer func() { _ = qc.Close() }()
	if err := qc.EnqueueAlertInventoryScan(context.Background(), queue.AlertInventoryScanPayload{}); err != nil {
		logger.Warnw("seed_enqueue_inventory_scan_failed", "error", err)
	}

	logger.Infow("seed_completed",
		"segments", len(segments),
		"categories", len(categories),
		"products", len(products),
		"customers", len(customers),
	)
	fmt.Println("seed completed")
}

func seedSegments(db *gorm.DB) ([]models.CustomerSegment, error) {
	seeds := []models.CustomerSegment{
		{Name: "VIP", Description: "High value repeat buyers", Criteria: "total_spent > 1000"},
		{Name: "Regular", Description: "Customers with at least one order", Criteria: "order_count >= 1"},
		{Name: "At Risk", Description: "No orders in the last 60 days", Criteria: "last_order_at < now() - 60d"},
	}
	result := make([]models.CustomerSegment, 0, len(seeds))
	for _, seed := range seeds {
		var segment models.CustomerSegment
		if err := db.Where(models.CustomerSegment{Name: seed.Name}).
			Attrs(models.CustomerSegment{Description: seed.Description, Criteria: seed.Criteria}).
			FirstOrCreate(&segment).Error; err != nil {
			return nil, err
		}
		result = append(result, segment)
	}
	return result, nil
}

func seedCategories(db *gorm.DB) ([]models.Category, error) {
	seeds := []models.Category{
		{Name: "Electronics", Description: "Phones, audio and accessories", IsActive: true},
		{Name: "Apparel", Description: "Clothing and footwear", IsActive: true},
		{Name: "Home & Kitchen", Description: "Household essentials", IsActive: true},
		{Name: "Books", Description: "Print and reference titles", IsActive: true},
		{Name: "Toys", Description: "Games and kids toys", IsActive: true},
		{Name: "Sports", Description: "Outdoor and fitness gear", IsActive: true},
	}
	result := make([]models.Category, 0, len(seeds))
	for _, seed := range seeds {
		var category models.Category
		if err := db.Where(models.Category{Name: seed.Name}).
			Attrs(models.Category{Description: seed.Description, IsActive: seed.IsActive}).
			FirstOrCreate(&category).Error; err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, nil
}

type productSeed struct {
	category  int // categories 下标
	name      string
	sku       string
	price     string
	inventory int
	threshold int
	variants  []models.ProductVariant
}

func seedProducts(db *gorm.DB, categories []models.Category) ([]models.Product, error) {
	seeds := []productSeed{
		{category: 0, name: "Wireless Earbuds", sku: "ELEC-001", price: "59.99", inventory: 120, threshold: 20},
		{category: 0, name: "Bluetooth Speaker", sku: "ELEC-002", price: "89.00", inventory: 8, threshold: 10},
		{category: 0, name: "USB-C Charging Cable", sku: "ELEC-003", price: "12.50", inventory: 300, threshold: 50},
		{category: 1, name: "Classic Cotton T-Shirt", sku: "APP-001", price: "19.99", inventory: 80, threshold: 15, variants: []models.ProductVariant{
			{VariantType: "size", VariantValue: "S", SKU: "APP-001-S", Inventory: 20},
			{VariantType: "size", VariantValue: "M", SKU: "APP-001-M", Inventory: 30},
			{VariantType: "size", VariantValue: "L", SKU: "APP-001-L", Inventory: 30},
		}},
		{category: 1, name: "Running Sneakers", sku: "APP-002", price: "74.90", inventory: 5, threshold: 12, variants: []models.ProductVariant{
			{VariantType: "size", VariantValue: "42", SKU: "APP-002-42", Inventory: 3},
			{VariantType: "size", VariantValue: "43", SKU: "APP-002-43", Inventory: 2},
		}},
		{category: 2, name: "Ceramic Mug Set", sku: "HOME-001", price: "24.00", inventory: 60, threshold: 10},
		{category: 2, name: "Chef Knife", sku: "HOME-002", price: "45.50", inventory: 4, threshold: 8},
		{category: 3, name: "The Pragmatic Cookbook", sku: "BOOK-001", price: "32.00", inventory: 40, threshold: 5},
		{category: 3, name: "City Atlas 2026", sku: "BOOK-002", price: "28.75", inventory: 25, threshold: 5},
		{category: 4, name: "Wooden Puzzle 500pc", sku: "TOY-001", price: "16.90", inventory: 90, threshold: 15},
		{category: 5, name: "Yoga Mat", sku: "SPRT-001", price: "29.99", inventory: 7, threshold: 10},
		{category: 5, name: "Insulated Water Bottle", sku: "SPRT-002", price: "21.00", inventory: 150, threshold: 25},
	}
	result := make([]models.Product, 0, len(seeds))
	for _, seed := range seeds {
		var product models.Product
		attrs := models.Product{
			CategoryID:        categories[seed.category].ID,
			Name:              seed.name,
			Price:             mustMoney(seed.price),
			Inventory:         seed.inventory,
			LowStockThreshold: seed.threshold,
			HasVariants:       len(seed.variants) > 0,
			IsActive:          true,
		}
		if err := db.Where(models.Product{SKU: seed.sku}).Attrs(attrs).FirstOrCreate(&product).Error; err != nil {
			return nil, err
		}
		for _, variant := range seed.variants {
			variant.ProductID = product.ID
			if variant.Price.IsZero() {
				variant.Price = product.Price
			}
			if err := db.Where(models.ProductVariant{
				ProductID:    product.ID,
				VariantType:  variant.VariantType,
				VariantValue: variant.VariantValue,
			}).Attrs(variant).FirstOrCreate(&models.ProductVariant{}).Error; err != nil {
				return nil, err
			}
		}
		result = append(result, product)
	}
	return result, nil
}

func seedCustomers(db *gorm.DB, segments []models.CustomerSegment) ([]models.Customer, error) {
	type customerSeed struct {
		first, last, email, phone string
		segment                   int // segments 下标，-1 表示未分群
	}
	seeds := []customerSeed{
		{first: "Alice", last: "Nguyen", email: "alice.nguyen@example.com", phone: "+1-202-555-0101", segment: 0},
		{first: "Ben", last: "O'Brien", email: "ben.obrien@example.com", phone: "+1-202-555-0102", segment: 1},
		{first: "Carla", last: "Mendez", email: "carla.mendez@example.com", phone: "+1-202-555-0103", segment: 1},
		{first: "Deepak", last: "Sharma", email: "deepak.sharma@example.com", phone: "+1-202-555-0104", segment: 2},
		{first: "Elena", last: "Petrova", email: "elena.petrova@example.com", phone: "", segment: 1},
		{first: "Frank", last: "Weber", email: "frank.weber@example.com", phone: "+49-30-555-0106", segment: -1},
		{first: "Grace", last: "Kim", email: "grace.kim@example.com", phone: "+82-2-555-0107", segment: 0},
		{first: "Hugo", last: "Silva", email: "hugo.silva@example.com", phone: "", segment: -1},
	}
	result := make([]models.Customer, 0, len(seeds))
	for i, seed := range seeds {
		attrs := models.Customer{
			FirstName: seed.first,
			LastName:  seed.last,
			Phone:     seed.phone,
			Addresses: models.AddressList{{
				Label:   "home",
				Street:  fmt.Sprintf("%d Main St", 100+i),
				City:    "Springfield",
				State:   "IL",
				ZipCode: fmt.Sprintf("627%02d", i),
				Country: "US",
			}},
		}
		if seed.segment >= 0 {
			segmentID := segments[seed.segment].ID
			attrs.SegmentID = &segmentID
		}
		var customer models.Customer
		if err := db.Where(models.Customer{Email: seed.email}).Attrs(attrs).FirstOrCreate(&customer).Error; err != nil {
			return nil, err
		}
		result = append(result, customer)
	}
	return result, nil
}

// seedOrders 生成近 90 天内的 50 笔订单，按订单号幂等
// 金额规则与下单服务一致：折后小计计税 8%，小计超过 100 包邮，否则固定运费 10
func seedOrders(db *gorm.DB, rng *rand.Rand, customers []models.Customer, products []models.Product) error {
	now := time.Now()
	taxRate := decimal.RequireFromString(constants.OrderTaxRate)
	freeShippingOver := decimal.RequireFromString(constants.OrderFreeShippingOver)
	flatShipping := decimal.RequireFromString(constants.OrderFlatShippingRate)

	for i := 1; i <= 50; i++ {
		orderNumber := fmt.Sprintf("%s-%d", constants.OrderNumberPrefix, constants.OrderNumberSeqStart+i)
		var count int64
		if err := db.Model(&models.Order{}).Where("order_number = ?", orderNumber).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		customer := customers[rng.Intn(len(customers))]
		ageDays := rng.Intn(90)
		createdAt := now.AddDate(0, 0, -ageDays).Add(-time.Duration(rng.Intn(12)) * time.Hour)

		itemCount := 1 + rng.Intn(3)
		subtotal := decimal.Zero
		items := make([]models.OrderItem, 0, itemCount)
		used := map[uint]bool{}
		for len(items) < itemCount {
			product := products[rng.Intn(len(products))]
			if used[product.ID] {
				continue
			}
			used[product.ID] = true
			quantity := 1 + rng.Intn(3)
			lineTotal := product.Price.Decimal.Mul(decimal.NewFromInt(int64(quantity)))
			subtotal = subtotal.Add(lineTotal)
			items = append(items, models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				SKU:         product.SKU,
				Price:       product.Price,
				Quantity:    quantity,
				Total:       models.NewMoneyFromDecimal(lineTotal),
				CreatedAt:   createdAt,
			})
		}

		discount := decimal.Zero
		if rng.Intn(4) == 0 {
			discount = decimal.NewFromInt(int64(5 * (1 + rng.Intn(3))))
		}
		taxable := subtotal.Sub(discount)
		if taxable.IsNegative() {
			taxable = decimal.Zero
		}
		tax := taxable.Mul(taxRate).Round(2)
		shipping := flatShipping
		if subtotal.GreaterThan(freeShippingOver) {
			shipping = decimal.Zero
		}
		total := subtotal.Sub(discount).Add(tax).Add(shipping)
		if total.IsNegative() {
			total = decimal.Zero
		}

		status, paymentStatus, fulfillmentStatus := correlatedStatuses(rng, ageDays)
		order := models.Order{
			OrderNumber:       orderNumber,
			CustomerID:        customer.ID,
			Status:            status,
			PaymentStatus:     paymentStatus,
			FulfillmentStatus: fulfillmentStatus,
			Subtotal:          models.NewMoneyFromDecimal(subtotal),
			TaxAmount:         models.NewMoneyFromDecimal(tax),
			ShippingAmount:    models.NewMoneyFromDecimal(shipping),
			DiscountAmount:    models.NewMoneyFromDecimal(discount),
			TotalAmount:       models.NewMoneyFromDecimal(total),
			Notes:             "",
			CreatedAt:         createdAt,
			UpdatedAt:         createdAt,
		}
		if len(customer.Addresses) > 0 {
			order.ShippingAddress = customer.Addresses[0]
			order.BillingAddress = customer.Addresses[0]
		}
		if paymentStatus == constants.PaymentStatusPaid || paymentStatus == constants.PaymentStatusRefunded {
			paidAt := createdAt.Add(time.Duration(1+rng.Intn(48)) * time.Hour)
			order.PaidAt = &paidAt
		}
		if status == constants.OrderStatusShipped || status == constants.OrderStatusDelivered {
			order.TrackingNumber = fmt.Sprintf("TRK%09d", rng.Intn(1_000_000_000))
			order.ShippingCarrier = []string{"UPS", "FedEx", "DHL"}[rng.Intn(3)]
		}

		if err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&order).Error; err != nil {
				return err
			}
			for idx := range items {
				items[idx].OrderID = order.ID
			}
			return tx.Create(&items).Error
		}); err != nil {
			return err
		}
	}
	return nil
}

// correlatedStatuses 按订单年龄推导状态组合，越早的订单越接近终态
func correlatedStatuses(rng *rand.Rand, ageDays int) (string, string, string) {
	roll := rng.Intn(100)
	switch {
	case roll < 8:
		return constants.OrderStatusCancelled, constants.PaymentStatusFailed, constants.FulfillmentStatusUnfulfilled
	case roll < 12:
		return constants.OrderStatusRefunded, constants.PaymentStatusRefunded, constants.FulfillmentStatusFulfilled
	case ageDays > 30:
		return constants.OrderStatusDelivered, constants.PaymentStatusPaid, constants.FulfillmentStatusFulfilled
	case ageDays > 14:
		if roll%2 == 0 {
			return constants.OrderStatusDelivered, constants.PaymentStatusPaid, constants.FulfillmentStatusFulfilled
		}
		return constants.OrderStatusShipped, constants.PaymentStatusPaid, constants.FulfillmentStatusPartial
	case ageDays > 5:
		return constants.OrderStatusProcessing, constants.PaymentStatusPaid, constants.FulfillmentStatusUnfulfilled
	default:
		if roll%2 == 0 {
			return constants.OrderStatusConfirmed, constants.PaymentStatusPaid, constants.FulfillmentStatusUnfulfilled
		}
		return constants.OrderStatusPending, constants.PaymentStatusPending, constants.FulfillmentStatusUnfulfilled
	}
}

func seedTickets(db *gorm.DB, customers []models.Customer) error {
	type ticketSeed struct {
		subject  string
		customer int
		priority string
		status   string
		message  string
	}
	seeds := []ticketSeed{
		{subject: "Order arrived damaged", customer: 0, priority: constants.TicketPriorityHigh, status: constants.TicketStatusOpen, message: "The speaker box was crushed on arrival."},
		{subject: "Wrong size delivered", customer: 1, priority: constants.TicketPriorityMedium, status: constants.TicketStatusInProgress, message: "Ordered size M, received size S."},
		{subject: "Refund status question", customer: 3, priority: constants.TicketPriorityMedium, status: constants.TicketStatusResolved, message: "When will my refund be processed?"},
		{subject: "Invoice copy request", customer: 4, priority: constants.TicketPriorityLow, status: constants.TicketStatusClosed, message: "Please send a copy of the invoice for order ORD-10012."},
		{subject: "Tracking not updating", customer: 6, priority: constants.TicketPriorityUrgent, status: constants.TicketStatusOpen, message: "Tracking shows no movement for 5 days."},
	}
	for i, seed := range seeds {
		ticketNumber := fmt.Sprintf("%s-%d", constants.TicketNumberPrefix, constants.TicketNumberSeqStart+i+1)
		var count int64
		if err := db.Model(&models.SupportTicket{}).Where("ticket_number = ?", ticketNumber).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		customer := customers[seed.customer]
		ticket := models.SupportTicket{
			TicketNumber: ticketNumber,
			Subject:      seed.subject,
			CustomerID:   customer.ID,
			Priority:     seed.priority,
			Status:       seed.status,
		}
		if err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&ticket).Error; err != nil {
				return err
			}
			return tx.Create(&models.TicketMessage{
				TicketID:   ticket.ID,
				Content:    seed.message,
				AuthorName: customer.FullName(),
				IsStaff:    false,
			}).Error
		}); err != nil {
			return err
		}
	}
	return nil
}

// recomputeAggregates 重算客户消费统计与分群人数
func recomputeAggregates(db *gorm.DB) error {
	var customers []models.Customer
	if err := db.Find(&customers).Error; err != nil {
		return err
	}
	for _, customer := range customers {
		var orderCount int64
		var totalSpent decimal.Decimal
		row := db.Model(&models.Order{}).
			Select("COUNT(*) AS order_count, COALESCE(SUM(total_amount), 0) AS total_spent").
			Where("customer_id = ? AND payment_status = ?", customer.ID, constants.PaymentStatusPaid).
			Row()
		if err := row.Scan(&orderCount, &totalSpent); err != nil {
			return err
		}
		updates := map[string]interface{}{
			"order_count": orderCount,
			"total_spent": models.NewMoneyFromDecimal(totalSpent),
		}
		if err := db.Model(&models.Customer{}).Where("id = ?", customer.ID).Updates(updates).Error; err != nil {
			return err
		}
	}

	var segments []models.CustomerSegment
	if err := db.Find(&segments).Error; err != nil {
		return err
	}
	for _, segment := range segments {
		var count int64
		if err := db.Model(&models.Customer{}).Where("segment_id = ?", segment.ID).Count(&count).Error; err != nil {
			return err
		}
		if err := db.Model(&models.CustomerSegment{}).Where("id = ?", segment.ID).
			Update("customer_count", count).Error; err != nil {
			return err
		}
	}
	return nil
}

func mustMoney(value string) models.Money {
	return models.NewMoneyFromDecimal(decimal.RequireFromString(value))
}
