package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"panel-store/internal/catalog"
	"panel-store/internal/client"
	"panel-store/internal/dto"
	"panel-store/internal/kv"
	"panel-store/internal/model"
)

// Store key layout. Orders are written under both the id and the email so
// the email doubles as the dedupe marker.
const (
	keyOrderPrefix      = "order_"
	keyTotalUsers       = "total_users"
	keyTotalServers     = "total_servers"
	keyTotalPurchases   = "total_purchases"
	keyPackages         = "packages"
	msgOrderCreated     = "Order created successfully"
	msgContactSupport   = "Pesanan berhasil dibuat! Silakan hubungi CS untuk pembayaran."
	missingFieldsErrMsg = "Missing required fields: orderId, username, email, package, or paymentMethod"
)

// Seed values used both as /stats fallbacks and as the base when a counter
// is first incremented or seeded by /init.
const (
	defaultTotalUsers     = 127
	defaultTotalServers   = 5
	defaultTotalPurchases = 89
)

type OrderService interface {
	CreateOrder(ctx context.Context, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error)
	GetOrder(ctx context.Context, orderID string) (json.RawMessage, error)
	Stats(ctx context.Context) (*dto.StatsResponse, error)
	Packages(ctx context.Context) (json.RawMessage, error)
	PaymentMethods(ctx context.Context) ([]model.Channel, error)
	Init(ctx context.Context) error
}

type orderServiceImpl struct {
	store   kv.Store
	gateway client.TripayClient
	log     *zap.Logger
}

func NewOrderService(store kv.Store, gateway client.TripayClient, log *zap.Logger) OrderService {
	return &orderServiceImpl{
		store:   store,
		gateway: gateway,
		log:     log,
	}
}

// CreateOrder validates the purchase, guarantees at most one order per
// email, persists the order as pending, opens the gateway transaction and
// attaches the returned payment instructions.
//
// The dedupe check is read-then-write with no locking; concurrent requests
// for the same email can both pass it. On gateway failure the pending
// order is left without payment data; no rollback is performed.
func (s *orderServiceImpl) CreateOrder(ctx context.Context, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	if req.Username == "" || req.Email == "" || req.PanelType == "" ||
		(req.Package == nil && req.PackageID == "") {
		return nil, &ValidationError{Msg: missingFieldsErrMsg}
	}
	if !req.PanelType.Valid() {
		return nil, &ValidationError{Msg: fmt.Sprintf("unknown panel type %q", req.PanelType)}
	}
	if req.Email != strings.TrimSpace(req.Email) || !strings.Contains(req.Email, "@") {
		return nil, &ValidationError{Msg: "invalid email address"}
	}

	pkg, err := s.resolvePackage(req)
	if err != nil {
		return nil, err
	}

	orderID := req.OrderID
	if orderID == "" {
		orderID = newOrderID()
	}

	raw, found, err := s.store.Get(ctx, keyOrderPrefix+req.Email)
	if err != nil {
		return nil, &StoreError{Op: "get", Err: err}
	}
	if found && len(raw) > 0 && string(raw) != "null" {
		return nil, &DuplicateOrderError{Email: req.Email}
	}

	order := &model.Order{
		OrderID:       orderID,
		Username:      req.Username,
		Email:         req.Email,
		PanelType:     req.PanelType,
		Package:       pkg,
		PaymentMethod: req.PaymentMethod,
		Status:        model.StatusPending,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.store.Set(ctx, keyOrderPrefix+orderID, order); err != nil {
		return nil, &StoreError{Op: "set", Err: err}
	}
	if err := s.store.Set(ctx, keyOrderPrefix+req.Email, order); err != nil {
		return nil, &StoreError{Op: "set", Err: err}
	}

	s.bumpCounters(ctx)

	// Legacy flow: no payment method chosen, the buyer settles with
	// support directly. No gateway call is made.
	if req.PaymentMethod == "" {
		s.log.Info("order created without gateway transaction",
			zap.String("order_id", orderID))
		return &dto.CreateOrderResponse{
			Success: true,
			Message: msgContactSupport,
			OrderID: orderID,
		}, nil
	}

	tx, err := s.gateway.CreateTransaction(ctx, &client.CreateTransactionRequest{
		Method:        req.PaymentMethod,
		MerchantRef:   orderID,
		Amount:        pkg.Price,
		CustomerName:  req.Username,
		CustomerEmail: req.Email,
		PanelType:     req.PanelType,
		PackageLabel:  pkg.Label,
	})
	if err != nil {
		s.log.Error("gateway transaction failed",
			zap.String("order_id", orderID), zap.Error(err))
		return nil, &GatewayError{Err: err}
	}

	order.PaymentReference = tx.Reference
	order.PaymentData = tx.Raw
	if err := s.store.Set(ctx, keyOrderPrefix+orderID, order); err != nil {
		return nil, &StoreError{Op: "set", Err: err}
	}

	s.log.Info("order created",
		zap.String("order_id", orderID),
		zap.String("payment_reference", tx.Reference),
		zap.String("method", req.PaymentMethod))

	return &dto.CreateOrderResponse{
		Success: true,
		Message: msgOrderCreated,
		OrderID: orderID,
		Payment: tx.Raw,
	}, nil
}

func (s *orderServiceImpl) resolvePackage(req *dto.CreateOrderRequest) (model.Package, error) {
	if req.Package != nil {
		p := *req.Package
		if p.Label == "" || p.Price <= 0 {
			return model.Package{}, &ValidationError{Msg: "package must carry a label and a positive price"}
		}
		return p, nil
	}
	pkg, ok := catalog.FindPackage(req.PanelType, req.PackageID)
	if !ok {
		return model.Package{}, &ValidationError{
			Msg: fmt.Sprintf("unknown package %q for panel %q", req.PackageID, req.PanelType),
		}
	}
	return pkg, nil
}

// bumpCounters is best-effort; a failed increment never fails the purchase.
func (s *orderServiceImpl) bumpCounters(ctx context.Context) {
	if _, err := s.store.Incr(ctx, keyTotalPurchases, 1, defaultTotalPurchases); err != nil {
		s.log.Warn("increment total_purchases", zap.Error(err))
	}
	if _, err := s.store.Incr(ctx, keyTotalUsers, 1, defaultTotalUsers); err != nil {
		s.log.Warn("increment total_users", zap.Error(err))
	}
}

// GetOrder returns the stored order exactly as last written.
func (s *orderServiceImpl) GetOrder(ctx context.Context, orderID string) (json.RawMessage, error) {
	raw, found, err := s.store.Get(ctx, keyOrderPrefix+orderID)
	if err != nil {
		return nil, &StoreError{Op: "get", Err: err}
	}
	if !found {
		return nil, &NotFoundError{Resource: "Order"}
	}
	return raw, nil
}

func (s *orderServiceImpl) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	stats := &dto.StatsResponse{
		TotalUsers:     defaultTotalUsers,
		TotalServers:   defaultTotalServers,
		TotalPurchases: defaultTotalPurchases,
	}
	for key, dst := range map[string]*int{
		keyTotalUsers:     &stats.TotalUsers,
		keyTotalServers:   &stats.TotalServers,
		keyTotalPurchases: &stats.TotalPurchases,
	} {
		var n int
		found, err := kv.GetJSON(ctx, s.store, key, &n)
		if err != nil {
			return nil, &StoreError{Op: "get", Err: err}
		}
		if found {
			*dst = n
		}
	}
	return stats, nil
}

// Packages returns the stored catalog override when present, otherwise the
// embedded default three-tier catalog. Never an empty list.
func (s *orderServiceImpl) Packages(ctx context.Context) (json.RawMessage, error) {
	raw, found, err := s.store.Get(ctx, keyPackages)
	if err != nil {
		s.log.Warn("packages lookup failed, serving embedded catalog", zap.Error(err))
	} else if found && string(raw) != "null" {
		return raw, nil
	}
	out, err := json.Marshal(catalog.DefaultTiers())
	if err != nil {
		return nil, fmt.Errorf("marshal default catalog: %w", err)
	}
	return out, nil
}

// PaymentMethods lists the gateway channels the buyer may pick from.
func (s *orderServiceImpl) PaymentMethods(ctx context.Context) ([]model.Channel, error) {
	channels, err := s.gateway.ListChannels(ctx)
	if err != nil {
		return nil, &GatewayError{Err: err}
	}
	active := make([]model.Channel, 0, len(channels))
	for _, ch := range channels {
		if ch.Active {
			active = append(active, ch)
		}
	}
	return active, nil
}

// Init idempotently seeds the default counters.
func (s *orderServiceImpl) Init(ctx context.Context) error {
	for key, seed := range map[string]int{
		keyTotalUsers:     defaultTotalUsers,
		keyTotalServers:   defaultTotalServers,
		keyTotalPurchases: defaultTotalPurchases,
	} {
		_, found, err := s.store.Get(ctx, key)
		if err != nil {
			return &StoreError{Op: "get", Err: err}
		}
		if found {
			continue
		}
		if err := s.store.Set(ctx, key, seed); err != nil {
			return &StoreError{Op: "set", Err: err}
		}
	}
	return nil
}

func newOrderID() string {
	return fmt.Sprintf("ORD_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:9])
}
