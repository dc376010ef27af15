package routes

import (
	"erp-system/internal/controllers"
	"erp-system/internal/listeners"
	"erp-system/internal/repositories"
	"erp-system/internal/services"
	"erp-system/pkg/config"
	"erp-system/pkg/eventbus"
	"erp-system/pkg/filestorage"
	"erp-system/pkg/middleware"
	"erp-system/pkg/service"
	appwebsocket "erp-system/pkg/websocket"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type Loggers struct {
	Main        *zap.Logger
	Auth        *zap.Logger
	MRF         *zap.Logger
	HR          *zap.Logger
	Inventory   *zap.Logger
	Project     *zap.Logger
	Procurement *zap.Logger
	Realtime    *zap.Logger
}

// NewLoggers делает из base именованный логгер на каждую область.
func NewLoggers(base *zap.Logger) *Loggers {
	return &Loggers{
		Main:        base,
		Auth:        base.Named("auth"),
		MRF:         base.Named("mrf"),
		HR:          base.Named("hr"),
		Inventory:   base.Named("inventory"),
		Project:     base.Named("project"),
		Procurement: base.Named("procurement"),
		Realtime:    base.Named("realtime"),
	}
}

// Services - всё, от чего зависит HTTP-слой.
type Services struct {
	JWT              service.JWTService
	AuthPermission   services.AuthPermissionServiceInterface
	Auth             services.AuthServiceInterface
	User             services.UserServiceInterface
	MRF              services.MRFServiceInterface
	Employee         services.EmployeeServiceInterface
	EmployeeRequest  services.EmployeeRequestServiceInterface
	Inventory        services.InventoryServiceInterface
	Project          services.ProjectServiceInterface
	ProjectInventory services.ProjectInventoryServiceInterface
	PurchaseOrder    services.PurchaseOrderServiceInterface
	Notification     services.NotificationServiceInterface
	CashFlow         services.CashFlowServiceInterface
	Report           services.ReportServiceInterface
	Hub              *appwebsocket.Hub
}

// BuildServices собирает репозитории и сервисы и подписывает
// слушателя уведомлений на bus.
func BuildServices(
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	bus *eventbus.Bus,
	hub *appwebsocket.Hub,
	jwtSvc service.JWTService,
	loggers *Loggers,
	cfg *config.Config,
) (*Services, error) {
	fileStorage, err := filestorage.NewLocalFileStorage(cfg.Storage.UploadDir)
	if err != nil {
		return nil, err
	}
	txManager := repositories.NewTxManager(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	userRepo := repositories.NewUserRepository(dbConn, loggers.Auth)
	roleRepo := repositories.NewRoleRepository(dbConn)
	permissionRepo := repositories.NewPermissionRepository(dbConn, loggers.Auth)
	mrfRepo := repositories.NewMRFRepository(dbConn, loggers.MRF)
	employeeRepo := repositories.NewEmployeeRepository(dbConn, loggers.HR)
	employeeRequestRepo := repositories.NewEmployeeRequestRepository(dbConn, loggers.HR)
	inventoryRepo := repositories.NewInventoryRepository(dbConn, loggers.Inventory)
	inventoryRequestRepo := repositories.NewInventoryRequestRepository(dbConn, loggers.Inventory)
	projectRepo := repositories.NewProjectRepository(dbConn, loggers.Project)
	timesheetRepo := repositories.NewTimesheetRepository(dbConn, loggers.Project)
	projectInventoryRepo := repositories.NewProjectInventoryRepository(dbConn, loggers.Project)
	poRepo := repositories.NewPurchaseOrderRepository(dbConn, loggers.Procurement)
	notificationRepo := repositories.NewNotificationRepository(dbConn, loggers.Realtime)
	cashFlowRepo := repositories.NewCashFlowRepository(dbConn, loggers.Main)
	reportRepo := repositories.NewReportRepository(dbConn)

	wsNotificationService := services.NewWebSocketNotificationService(hub, loggers.Realtime)
	listeners.NewNotificationListener(wsNotificationService, loggers.Realtime).Register(bus)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, bus, loggers.Realtime)

	return &Services{
		JWT:            jwtSvc,
		AuthPermission: services.NewAuthPermissionService(permissionRepo, cacheRepo, loggers.Auth, cfg.Auth.PermissionsCacheTTL),
		Auth:           services.NewAuthService(userRepo, cacheRepo, loggers.Auth, &cfg.Auth),
		User:           services.NewUserService(userRepo, roleRepo, loggers.Auth),
		MRF: services.NewMRFService(mrfRepo, userRepo, notificationService, txManager,
			cfg.Business.MRFSuperadminThreshold, loggers.MRF),
		Employee: services.NewEmployeeService(employeeRepo, userRepo, loggers.HR),
		EmployeeRequest: services.NewEmployeeRequestService(employeeRequestRepo, employeeRepo, userRepo,
			notificationService, fileStorage, txManager, loggers.HR),
		Inventory: services.NewInventoryService(inventoryRepo, inventoryRequestRepo, userRepo,
			notificationService, txManager, loggers.Inventory),
		Project: services.NewProjectService(projectRepo, employeeRepo, timesheetRepo, projectInventoryRepo,
			userRepo, loggers.Project),
		ProjectInventory: services.NewProjectInventoryService(projectInventoryRepo, inventoryRepo, projectRepo,
			userRepo, txManager, loggers.Project),
		PurchaseOrder: services.NewPurchaseOrderService(poRepo, projectRepo, inventoryRepo, projectInventoryRepo,
			userRepo, notificationService, txManager, cfg.Business.BudgetAlertRatio, loggers.Procurement),
		Notification: notificationService,
		CashFlow:     services.NewCashFlowService(cashFlowRepo, projectRepo, userRepo, loggers.Main),
		Report:       services.NewReportService(reportRepo, userRepo, loggers.Main),
		Hub:          hub,
	}, nil
}

// InitRouter вешает все контроллеры под /api.
func InitRouter(e *echo.Echo, svc *Services, loggers *Loggers, cfg *config.Config) {
	loggers.Main.Info("InitRouter: registering routes")

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(svc.JWT, svc.AuthPermission, svc.Auth, loggers.Auth)
	secure := api.Group("", authMW.Auth)

	runAuthRouter(api, secure, controllers.NewAuthController(svc.Auth, svc.JWT, loggers.Auth))
	runUserRouter(secure, controllers.NewUserController(svc.User, loggers.Auth), authMW)
	runMRFRouter(secure, controllers.NewMRFController(svc.MRF, loggers.MRF), authMW)
	runEmployeeRouter(secure, controllers.NewEmployeeController(svc.Employee, loggers.HR), authMW)
	runEmployeeRequestRouter(secure, controllers.NewEmployeeRequestController(svc.EmployeeRequest, svc.Inventory, loggers.HR), authMW)
	runInventoryRouter(secure, controllers.NewInventoryController(svc.Inventory, loggers.Inventory), authMW)
	runProjectRouter(secure, controllers.NewProjectController(svc.Project, loggers.Project), authMW)
	runProjectInventoryRouter(secure, controllers.NewProjectInventoryController(svc.ProjectInventory, svc.PurchaseOrder, loggers.Project), authMW)
	runPurchaseOrderRouter(secure, controllers.NewPurchaseOrderController(svc.PurchaseOrder, loggers.Procurement), authMW)
	runNotificationRouter(secure, controllers.NewNotificationController(svc.Notification, loggers.Realtime), authMW)
	runCashFlowRouter(secure, controllers.NewCashFlowController(svc.CashFlow, loggers.Main), authMW)
	runReportRouter(secure, controllers.NewReportController(svc.Report, loggers.Main), authMW)

	upgrader := controllers.NewUpgrader(cfg.Server.AllowedOrigins)
	secure.GET("/ws", controllers.NewWebSocketController(svc.Hub, upgrader, loggers.Realtime).ServeWs)

	loggers.Main.Info("InitRouter: routes registered")
}
