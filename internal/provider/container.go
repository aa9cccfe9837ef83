package provider

import (
	"github.com/storepanel/internal/authz"
	"github.com/storepanel/internal/cache"
	"github.com/storepanel/internal/config"
	"github.com/storepanel/internal/logger"
	"github.com/storepanel/internal/models"
	"github.com/storepanel/internal/queue"
	"github.com/storepanel/internal/repository"
	"github.com/storepanel/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo     repository.AdminRepository
	CategoryRepo  repository.CategoryRepository
	ProductRepo   repository.ProductRepository
	OrderRepo     repository.OrderRepository
	CustomerRepo  repository.CustomerRepository
	SegmentRepo   repository.SegmentRepository
	TicketRepo    repository.TicketRepository
	AlertRepo     repository.AlertRepository
	SettingRepo   repository.SettingRepository
	AnalyticsRepo repository.AnalyticsRepository

	// Services
	AuthzService     *authz.Service
	AuthService      *service.AuthService
	CaptchaService   *service.CaptchaService
	UploadService    *service.UploadService
	CategoryService  *service.CategoryService
	ProductService   *service.ProductService
	OrderService     *service.OrderService
	CustomerService  *service.CustomerService
	SegmentService   *service.SegmentService
	TicketService    *service.TicketService
	AlertService     *service.AlertService
	SettingService   *service.SettingService
	AnalyticsService *service.AnalyticsService
	ExportService    *service.ExportService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queue.NewClient(&cfg.Queue),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.CustomerRepo = repository.NewCustomerRepository(db)
	c.SegmentRepo = repository.NewSegmentRepository(db)
	c.TicketRepo = repository.NewTicketRepository(db)
	c.AlertRepo = repository.NewAlertRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
	c.AnalyticsRepo = repository.NewAnalyticsRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.UploadService = service.NewUploadService(c.Config)
	c.SettingService = service.NewSettingService(c.SettingRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo, c.QueueClient)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo, c.CustomerRepo, c.QueueClient)
	c.CustomerService = service.NewCustomerService(c.CustomerRepo, c.SegmentRepo)
	c.SegmentService = service.NewSegmentService(c.SegmentRepo, c.CustomerRepo)
	c.TicketService = service.NewTicketService(c.TicketRepo, c.CustomerRepo)
	c.AlertService = service.NewAlertService(c.AlertRepo)
	c.AnalyticsService = service.NewAnalyticsService(c.AnalyticsRepo, c.ProductRepo, c.CategoryRepo, c.OrderRepo)
	c.ExportService = service.NewExportService(c.OrderRepo)
}
