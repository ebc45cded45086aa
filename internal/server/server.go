package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"panel-store/internal/handler"
	"panel-store/internal/middleware"
)

type Server struct {
	echo         *echo.Echo
	orderHandler *handler.OrderHandler
}

// NewServer builds the echo app. CORS is wide open: no endpoint carries
// session credentials beyond the shared anon key.
func NewServer(orderHandler *handler.OrderHandler, anonKey string) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	if anonKey != "" {
		e.Use(middleware.AnonKey(anonKey))
	}

	s := &Server{
		echo:         e,
		orderHandler: orderHandler,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/", s.orderHandler.Root)
	s.echo.GET("/health", s.orderHandler.Health)
	s.echo.GET("/stats", s.orderHandler.Stats)
	s.echo.GET("/packages", s.orderHandler.Packages)
	s.echo.GET("/payment-methods", s.orderHandler.PaymentMethods)

	// /purchase is the legacy path; both land on the same handler.
	s.echo.POST("/create-order", s.orderHandler.CreateOrder)
	s.echo.POST("/purchase", s.orderHandler.CreateOrder)

	s.echo.GET("/order/:orderId", s.orderHandler.GetOrder)
	s.echo.POST("/init", s.orderHandler.Init)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}

// Echo exposes the underlying handler for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
