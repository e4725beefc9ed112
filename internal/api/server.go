// Package api serves the admin REST endpoints over echo.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/pankajredekar/shopadmin/internal/config"
	"github.com/pankajredekar/shopadmin/internal/reporting"
	"github.com/pankajredekar/shopadmin/internal/store"
)

// Server is the admin HTTP API
type Server struct {
	echo     *echo.Echo
	cfg      *config.Config
	store    *store.Store
	reporter *reporting.Reporter
	log      *zap.Logger
}

// NewServer builds the echo instance with middleware and every route
func NewServer(cfg *config.Config, st *store.Store, reporter *reporting.Reporter, log *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	s := &Server{
		echo:     e,
		cfg:      cfg,
		store:    st,
		reporter: reporter,
		log:      log.Named("api"),
	}
	e.HTTPErrorHandler = s.handleError

	s.registerMiddleware()
	s.registerRoutes()
	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Listen binds the configured address so bind errors surface before serving
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Server.Addr, err)
	}
	s.echo.Listener = ln
	return nil
}

// Addr returns the bound address once Listen has succeeded
func (s *Server) Addr() string {
	if addr := s.echo.ListenerAddr(); addr != nil {
		return addr.String()
	}
	return s.cfg.Server.Addr
}

// Serve blocks until the server is shut down
func (s *Server) Serve() error {
	if err := s.echo.Start(s.cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) registerMiddleware() {
	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("request_id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Status >= http.StatusInternalServerError {
				s.log.Warn("request", fields...)
			} else {
				s.log.Info("request", fields...)
			}
			return nil
		},
	}))
	s.echo.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			s.log.Error("panic recovered",
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.Error(err),
				zap.ByteString("stack", stack))
			return err
		},
	}))
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.cfg.Server.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
	}))
}

func (s *Server) registerRoutes() {
	s.echo.GET("/", s.welcome)
	s.echo.GET("/healthz", s.health)

	g := s.echo.Group(s.cfg.Server.APIPrefix)

	g.GET("/sales", s.listSales)
	g.POST("/sales", s.createSale)
	g.GET("/sales/:id", s.getSale)
	g.PATCH("/sales/:id/status", s.updateSaleStatus)

	g.GET("/revenue/compare", s.compareRevenue)
	g.GET("/revenue/:bucket", s.revenue)

	g.GET("/inventory", s.listInventory)
	g.GET("/inventory/low-stock", s.lowStock)
	g.PUT("/inventory/:product_id", s.adjustInventory)
	g.GET("/inventory/:product_id/history", s.inventoryHistory)

	g.GET("/products", s.listProducts)
	g.POST("/products", s.createProduct)
	g.GET("/products/:id", s.getProduct)
	g.PUT("/products/:id", s.updateProduct)
	g.DELETE("/products/:id", s.deleteProduct)

	g.GET("/categories", s.listCategories)
	g.POST("/categories", s.createCategory)
	g.GET("/categories/:id", s.getCategory)
	g.PUT("/categories/:id", s.updateCategory)
	g.DELETE("/categories/:id", s.deleteCategory)

	g.GET("/customers", s.listCustomers)
	g.POST("/customers", s.createCustomer)
	g.GET("/customers/:id", s.getCustomer)
	g.PUT("/customers/:id", s.updateCustomer)
	g.DELETE("/customers/:id", s.deleteCustomer)
}

func (s *Server) welcome(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Welcome to the shopadmin API",
		"api":     s.cfg.Server.APIPrefix,
	})
}

func (s *Server) health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.log.Warn("health check failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
