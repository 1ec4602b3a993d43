package cmd

import (
	"context"
	"fmt"
	"net/http"

	"commerce/api"
	"commerce/api/health"
	apiorder "commerce/api/order"
	orderapp "commerce/application/order"
	"commerce/config"
	"commerce/domain/catalog"
	"commerce/domain/inventory"
	orderdomain "commerce/domain/order"
	"commerce/domain/shared"
	"commerce/infrastructure/persistence/mocks"
	"commerce/infrastructure/persistence/mysql"
	"commerce/infrastructure/persistence/mysql/po"
	"commerce/infrastructure/persistence/retry"
	"commerce/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// outboxBacklogLimit readiness fails once this many events wait for the relay
const outboxBacklogLimit = 10000

// AppBuilder builds an App with customizable components
type AppBuilder struct {
	cfg          *config.Config
	controllers  []api.ControllerRegister
	middlewares  []api.MiddlewareRegister
	customRoutes []api.Route
}

// NewBuilder creates a new AppBuilder
func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{
		cfg:          cfg,
		controllers:  []api.ControllerRegister{},
		middlewares:  []api.MiddlewareRegister{},
		customRoutes: []api.Route{},
	}
}

// WithController adds a controller to the app
func (b *AppBuilder) WithController(c api.ControllerRegister) *AppBuilder {
	b.controllers = append(b.controllers, c)
	return b
}

// WithMiddleware adds a middleware to the app
func (b *AppBuilder) WithMiddleware(m api.MiddlewareRegister) *AppBuilder {
	b.middlewares = append(b.middlewares, m)
	return b
}

// WithRoute adds a custom route
func (b *AppBuilder) WithRoute(method, path string, handler gin.HandlerFunc) *AppBuilder {
	b.customRoutes = append(b.customRoutes, api.Route{
		Method:  method,
		Path:    path,
		Handler: handler,
	})
	return b
}

// backend everything the order service needs from storage
type backend struct {
	db        *gorm.DB
	orders    orderdomain.Repository
	items     orderdomain.ItemRepository
	addresses orderdomain.AddressRepository
	shipments orderdomain.ShipmentRepository
	history   orderdomain.StatusHistoryRepository
	eventLog  orderdomain.EventLogRepository
	catalog   catalog.Reader
	locations catalog.LocationRepository
	inventory inventory.Service
	uow       shared.UnitOfWorkFactory
	checks    map[string]health.Checker
}

// Build initialises logging and storage and wires the HTTP stack
func (b *AppBuilder) Build() (*App, error) {
	if err := logger.Init(&b.cfg.Log, b.cfg.App.Env); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Starting application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env),
		zap.String("database", b.cfg.Database.Type))

	be, err := b.initBackend()
	if err != nil {
		return nil, err
	}

	orderService := orderapp.NewManagementService(orderapp.Deps{
		Orders:    be.orders,
		Items:     be.items,
		Addresses: be.addresses,
		Shipments: be.shipments,
		History:   be.history,
		EventLog:  be.eventLog,
		Catalog:   be.catalog,
		Inventory: be.inventory,
		Locations: orderapp.NewDefaultLocationResolver(be.locations, b.cfg.Inventory.DefaultLocationID),
		UoW:       be.uow,
	})

	controllers := append([]api.ControllerRegister{
		health.NewController(b.cfg, be.checks),
		apiorder.NewController(orderService),
	}, b.controllers...)

	router := api.NewRouter(b.cfg, controllers, b.middlewares, b.customRoutes)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         ":" + b.cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  b.cfg.Server.ReadTimeout,
		WriteTimeout: b.cfg.Server.WriteTimeout,
	}

	return &App{
		config:       b.cfg,
		router:       router,
		server:       server,
		db:           be.db,
		orderService: orderService,
	}, nil
}

func (b *AppBuilder) initBackend() (*backend, error) {
	if b.cfg.Database.Type == config.DatabaseMock {
		logger.Warn("Using in-memory persistence; data is lost on restart")
		return newMockBackend(), nil
	}
	return b.initDatabase()
}

func newMockBackend() *backend {
	orders := mocks.NewMockOrderRepository()
	catalogRepo := mocks.NewMockCatalogRepository()
	return &backend{
		orders:    orders,
		items:     orders,
		addresses: orders,
		shipments: orders,
		history:   mocks.NewMockStatusHistoryRepository(),
		eventLog:  mocks.NewMockEventLogRepository(),
		catalog:   catalogRepo,
		locations: catalogRepo,
		inventory: mocks.NewMockInventory(),
		uow:       mocks.NewMockUnitOfWorkFactory(),
	}
}

func (b *AppBuilder) initDatabase() (*backend, error) {
	db, err := NewMySQLConfig(b.cfg).Connect()
	if err != nil {
		return nil, err
	}
	if err := mysql.Ping(context.Background(), db); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if b.cfg.Database.AutoMigrate || b.cfg.Database.Type == config.DatabaseSQLite {
		if err := mysql.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to auto migrate: %w", err)
		}
		logger.Info("Database schema migrated")
	}

	retryConfig := retry.FromAppConfig(b.cfg)
	components := mysql.NewOrderComponentRepository(db)
	catalogRepo := mysql.NewCatalogRepository(db)
	outbox := mysql.NewOutboxRepository(db)

	return &backend{
		db:        db,
		orders:    mysql.NewOrderRepository(db),
		items:     components,
		addresses: components,
		shipments: components,
		history:   mysql.NewStatusHistoryRepository(db),
		eventLog:  mysql.NewEventLogRepository(db),
		catalog:   catalogRepo,
		locations: catalogRepo,
		inventory: mysql.NewInventoryRepository(db, retryConfig),
		uow:       mysql.NewUnitOfWorkFactory(db, retryConfig),
		checks: map[string]health.Checker{
			"database": func(ctx context.Context) error {
				return mysql.Ping(ctx, db)
			},
			"outbox": func(ctx context.Context) error {
				pending, err := outbox.CountByStatus(ctx, po.EventStatusPending)
				if err != nil {
					return err
				}
				if pending > outboxBacklogLimit {
					return fmt.Errorf("%d events waiting for the outbox relay", pending)
				}
				return nil
			},
		},
	}, nil
}
