package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/storepanel/internal/authz"
	"github.com/storepanel/internal/cache"
	"github.com/storepanel/internal/config"
	adminhandlers "github.com/storepanel/internal/http/handlers/admin"
	"github.com/storepanel/internal/http/response"
	"github.com/storepanel/internal/logger"
	"github.com/storepanel/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "sp"
	}
	redisClient := cache.Client()
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many login attempts",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 静态文件服务（上传的图片）
	r.Static("/uploads", "./uploads")

	apiV1 := r.Group("/api/v1")
	{
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP), adminHandler.AdminLogin)
			admin.GET("/captcha", adminHandler.GetLoginCaptcha)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
			{
				authorized.PUT("/password", adminHandler.UpdateAdminPassword)

				// 仪表盘
				authorized.GET("/dashboard/metrics", adminHandler.GetDashboardMetrics)
				authorized.GET("/dashboard/revenue-trend", adminHandler.GetRevenueTrend)
				authorized.GET("/dashboard/order-status", adminHandler.GetOrderStatusDistribution)
				authorized.GET("/dashboard/top-products", adminHandler.GetTopProducts)
				authorized.GET("/dashboard/recent-orders", adminHandler.ListRecentOrders)
				authorized.GET("/dashboard/low-stock", adminHandler.ListLowStockProducts)

				// 分析
				authorized.GET("/analytics/sales", adminHandler.GetSalesAnalytics)
				authorized.GET("/analytics/category-sales", adminHandler.GetCategorySalesAnalytics)
				authorized.GET("/analytics/payment-status", adminHandler.GetPaymentStatusAnalytics)
				authorized.GET("/analytics/product-performance", adminHandler.GetProductPerformanceAnalytics)

				// 商品管理
				authorized.GET("/products", adminHandler.ListProducts)
				authorized.GET("/products/low-stock", adminHandler.ListLowStockProducts)
				authorized.GET("/products/:id", adminHandler.GetProduct)
				authorized.POST("/products", adminHandler.CreateProduct)
				authorized.PUT("/products/:id", adminHandler.UpdateProduct)
				authorized.DELETE("/products/:id", adminHandler.DeleteProduct)
				authorized.POST("/products/:id/inventory", adminHandler.AdjustProductInventory)

				// 分类管理
				authorized.GET("/categories", adminHandler.ListCategories)
				authorized.GET("/categories/:id", adminHandler.GetCategory)
				authorized.POST("/categories", adminHandler.CreateCategory)
				authorized.PUT("/categories/:id", adminHandler.UpdateCategory)
				authorized.DELETE("/categories/:id", adminHandler.DeleteCategory)

				// 订单管理
				authorized.GET("/orders", adminHandler.ListOrders)
				authorized.GET("/orders/export", adminHandler.ExportOrders)
				authorized.GET("/orders/:id", adminHandler.GetOrder)
				authorized.POST("/orders", adminHandler.CreateOrder)
				authorized.PATCH("/orders/:id/status", adminHandler.UpdateOrderStatus)
				authorized.PATCH("/orders/:id/payment-status", adminHandler.UpdateOrderPaymentStatus)
				authorized.PATCH("/orders/:id/fulfillment-status", adminHandler.UpdateOrderFulfillmentStatus)
				authorized.PATCH("/orders/:id/shipping", adminHandler.UpdateOrderShipping)
				authorized.DELETE("/orders/:id", adminHandler.DeleteOrder)

				// 客户管理
				authorized.GET("/customers", adminHandler.ListCustomers)
				authorized.GET("/customers/:id", adminHandler.GetCustomer)
				authorized.POST("/customers", adminHandler.CreateCustomer)
				authorized.PUT("/customers/:id", adminHandler.UpdateCustomer)
				authorized.DELETE("/customers/:id", adminHandler.DeleteCustomer)
				authorized.POST("/customers/:id/segment", adminHandler.AssignCustomerSegment)

				// 客户分群
				authorized.GET("/segments", adminHandler.ListSegments)
				authorized.GET("/segments/:id", adminHandler.GetSegment)
				authorized.POST("/segments", adminHandler.CreateSegment)
				authorized.PUT("/segments/:id", adminHandler.UpdateSegment)
				authorized.DELETE("/segments/:id", adminHandler.DeleteSegment)

				// 工单
				authorized.GET("/tickets", adminHandler.ListTickets)
				authorized.GET("/tickets/:id", adminHandler.GetTicket)
				authorized.POST("/tickets", adminHandler.CreateTicket)
				authorized.PUT("/tickets/:id", adminHandler.UpdateTicket)
				authorized.DELETE("/tickets/:id", adminHandler.DeleteTicket)
				authorized.GET("/tickets/:id/messages", adminHandler.ListTicketMessages)
				authorized.POST("/tickets/:id/messages", adminHandler.AddTicketMessage)

				// 告警
				authorized.GET("/alerts", adminHandler.ListAlerts)
				authorized.GET("/alerts/unread-count", adminHandler.GetUnreadAlertCount)
				authorized.POST("/alerts/:id/read", adminHandler.MarkAlertRead)
				authorized.POST("/alerts/read-all", adminHandler.MarkAllAlertsRead)

				// 设置管理
				authorized.GET("/settings", adminHandler.GetSettings)
				authorized.PUT("/settings", adminHandler.UpdateSettings)
				authorized.GET("/settings/store", adminHandler.GetStoreConfig)

				// 权限管理
				authorized.GET("/authz/me", adminHandler.GetAuthzMe)
				authorized.GET("/authz/roles", adminHandler.ListAuthzRoles)
				authorized.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
				authorized.GET("/authz/admins/:id/roles", adminHandler.GetAuthzAdminRoles)
				authorized.PUT("/authz/admins/:id/roles", adminHandler.SetAuthzAdminRoles)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})

				// 文件上传
				authorized.POST("/upload", adminHandler.UploadFile)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		if item.Path == "/api/v1/admin/login" || item.Path == "/api/v1/admin/captcha" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}
