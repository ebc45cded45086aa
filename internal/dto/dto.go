package dto

import (
	"encoding/json"

	"panel-store/internal/model"
)

// CreateOrderRequest accepts both body shapes: the full purchase payload
// with a package snapshot, and the legacy one carrying only a packageId
// (the package label) to be resolved against the catalog.
type CreateOrderRequest struct {
	OrderID       string          `json:"orderId"`
	Username      string          `json:"username"`
	Email         string          `json:"email"`
	PanelType     model.PanelType `json:"panelType"`
	Package       *model.Package  `json:"package,omitempty"`
	PackageID     string          `json:"packageId,omitempty"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
}

type CreateOrderResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	OrderID string          `json:"orderId"`
	Payment json.RawMessage `json:"payment,omitempty"`
}

type StatsResponse struct {
	TotalUsers     int `json:"totalUsers"`
	TotalServers   int `json:"totalServers"`
	TotalPurchases int `json:"totalPurchases"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
