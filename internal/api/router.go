package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/bistro/pos-system/internal/api/handler"
	"github.com/bistro/pos-system/internal/api/middleware"
	"github.com/bistro/pos-system/internal/core/domain"
	"github.com/bistro/pos-system/internal/core/ports"
)

// Services are the use cases exposed over HTTP.
type Services struct {
	Auth      ports.AuthService
	Menu      ports.MenuService
	Cart      ports.CartService
	Checkout  ports.CheckoutService
	Sales     ports.SalesService
	Inventory ports.InventoryService
	Employees ports.EmployeeService
	Settings  ports.SettingsService
}

// Options configures the router.
type Options struct {
	JWTSecret          string
	LoginRatePerMinute int
	Health             map[string]handler.Pinger
	Logger             zerolog.Logger
	// Registerer receives the HTTP metrics. Defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(opts.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:                 "pos",
		Subsystem:                 "http",
		Registerer:                opts.Registerer,
		DoNotUseRequestPathFor404: true,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(svc.Auth)
	menuHandler := handler.NewMenuHandler(svc.Menu)
	cartHandler := handler.NewCartHandler(svc.Cart)
	checkoutHandler := handler.NewCheckoutHandler(svc.Checkout)
	salesHandler := handler.NewSalesHandler(svc.Sales)
	inventoryHandler := handler.NewInventoryHandler(svc.Inventory)
	employeeHandler := handler.NewEmployeeHandler(svc.Employees)
	settingsHandler := handler.NewSettingsHandler(svc.Settings)
	healthHandler := handler.NewHealthHandler(opts.Health)

	authMiddleware := middleware.Auth(opts.JWTSecret, svc.Employees)
	managerOnly := middleware.RBAC(domain.RoleManager)

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login, middleware.LoginRateLimit(opts.LoginRatePerMinute))
	e.GET("/auth/me", authHandler.Me, authMiddleware)

	v1 := e.Group("/v1", authMiddleware)

	// Menu: everyone browses, managers edit.
	v1.GET("/menu", menuHandler.List)
	v1.GET("/menu/categories", menuHandler.Categories)
	v1.GET("/menu/:id", menuHandler.Get)
	v1.POST("/menu", menuHandler.Create, managerOnly)
	v1.PUT("/menu/:id", menuHandler.Update, managerOnly)
	v1.DELETE("/menu/:id", menuHandler.Delete, managerOnly)

	// Carts and checkout.
	v1.POST("/carts", cartHandler.Create)
	v1.GET("/carts/:id", cartHandler.Get)
	v1.DELETE("/carts/:id", cartHandler.Delete)
	v1.POST("/carts/:id/items", cartHandler.AddItem)
	v1.DELETE("/carts/:id/items", cartHandler.Clear)
	v1.PATCH("/carts/:id/items/:line_id", cartHandler.UpdateLine)
	v1.DELETE("/carts/:id/items/:line_id", cartHandler.RemoveLine)
	v1.POST("/checkout", checkoutHandler.Checkout)

	// Sales.
	v1.GET("/sales", salesHandler.List, managerOnly)
	v1.GET("/sales/summary", salesHandler.Summary, managerOnly)
	v1.GET("/sales/:id", checkoutHandler.GetSale)
	v1.POST("/sales/:id/void", checkoutHandler.VoidSale, managerOnly)

	// Dashboards.
	inventory := v1.Group("/inventory", managerOnly)
	inventory.GET("", inventoryHandler.List)
	inventory.GET("/low-stock", inventoryHandler.LowStock)
	inventory.GET("/:sku", inventoryHandler.Get)
	inventory.POST("", inventoryHandler.Create)
	inventory.PUT("/:sku", inventoryHandler.Update)
	inventory.POST("/:sku/adjust", inventoryHandler.Adjust)
	inventory.DELETE("/:sku", inventoryHandler.Delete)

	employees := v1.Group("/employees", managerOnly)
	employees.GET("", employeeHandler.List)
	employees.GET("/:id", employeeHandler.Get)
	employees.POST("", employeeHandler.Create)
	employees.PATCH("/:id", employeeHandler.Update)
	employees.PUT("/:id/passcode", employeeHandler.ResetPasscode)
	employees.DELETE("/:id", employeeHandler.Delete)

	v1.GET("/settings", settingsHandler.Get)
	v1.PATCH("/settings", settingsHandler.Update, managerOnly)

	return e
}

// requestLogger emits one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			switch {
			case v.Status >= 500:
				event = log.Error().Err(v.Error)
			case v.Status >= 400:
				event = log.Warn()
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
