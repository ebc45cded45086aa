package model

import "encoding/json"

type PanelType string

const (
	PanelPrivate PanelType = "private"
	PanelPublic  PanelType = "public"
)

func (p PanelType) Valid() bool {
	return p == PanelPrivate || p == PanelPublic
}

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPaid      OrderStatus = "paid"
	StatusActive    OrderStatus = "active"
	StatusExpired   OrderStatus = "expired"
	StatusCancelled OrderStatus = "cancelled"
)

// RAMUnlimited is the sentinel RAM size for unlimited packages.
const RAMUnlimited = -1

// Package is the catalog entry snapshotted into an order at purchase time,
// so later catalog edits do not change historical orders.
type Package struct {
	RAM   int    `json:"ram"`
	Price int    `json:"price"` // smallest currency unit
	Label string `json:"label"`
}

type Order struct {
	OrderID       string      `json:"orderId"`
	Username      string      `json:"username"`
	Email         string      `json:"email"`
	PanelType     PanelType   `json:"panelType"`
	Package       Package     `json:"package"`
	PaymentMethod string      `json:"paymentMethod,omitempty"`
	Status        OrderStatus `json:"status"`
	CreatedAt     string      `json:"created_at"` // ISO-8601

	// Attached after a successful gateway call. PaymentData is stored as the
	// gateway returned it; the instruction fields vary by channel type.
	PaymentReference string          `json:"payment_reference,omitempty"`
	PaymentData      json.RawMessage `json:"payment_data,omitempty"`
}
