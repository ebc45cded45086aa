package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"panel-store/internal/dto"
	"panel-store/internal/service"
)

type OrderHandler struct {
	orderService service.OrderService
	log          *zap.Logger
}

func NewOrderHandler(orderService service.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		log:          log,
	}
}

func (h *OrderHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"message":   "Panel Store API",
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"endpoints": []string{
			"/health", "/stats", "/packages", "/payment-methods",
			"/create-order", "/purchase", "/order/:orderId", "/init",
		},
	})
}

func (h *OrderHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *OrderHandler) Stats(c echo.Context) error {
	stats, err := h.orderService.Stats(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *OrderHandler) Packages(c echo.Context) error {
	packages, err := h.orderService.Packages(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]json.RawMessage{"packages": packages})
}

func (h *OrderHandler) PaymentMethods(c echo.Context) error {
	channels, err := h.orderService.PaymentMethods(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    channels,
	})
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Success: false,
			Error:   "invalid request body",
		})
	}

	resp, err := h.orderService.CreateOrder(c.Request().Context(), &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	orderID := c.Param("orderId")

	order, err := h.orderService.GetOrder(c.Request().Context(), orderID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    order,
	})
}

func (h *OrderHandler) Init(c echo.Context) error {
	if err := h.orderService.Init(c.Request().Context()); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Database initialized",
	})
}

// fail maps the service error taxonomy onto HTTP statuses; every error body
// is {success:false, error:message}.
func (h *OrderHandler) fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError

	var (
		validationErr *service.ValidationError
		duplicateErr  *service.DuplicateOrderError
		notFoundErr   *service.NotFoundError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &duplicateErr):
		status = http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		status = http.StatusNotFound
	default:
		h.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}

	return c.JSON(status, dto.ErrorResponse{Success: false, Error: err.Error()})
}
