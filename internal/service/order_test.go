package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"panel-store/internal/client"
	"panel-store/internal/dto"
	"panel-store/internal/kv"
	"panel-store/internal/model"
)

type stubGateway struct {
	channels    []model.Channel
	channelsErr error

	tx        *client.Transaction
	createErr error
	requests  []*client.CreateTransactionRequest
	onCreate  func(req *client.CreateTransactionRequest)
}

func (g *stubGateway) ListChannels(ctx context.Context) ([]model.Channel, error) {
	return g.channels, g.channelsErr
}

func (g *stubGateway) CreateTransaction(ctx context.Context, req *client.CreateTransactionRequest) (*client.Transaction, error) {
	g.requests = append(g.requests, req)
	if g.onCreate != nil {
		g.onCreate(req)
	}
	if g.createErr != nil {
		return nil, g.createErr
	}
	return g.tx, nil
}

func newTestStore(t *testing.T) kv.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, kv.Migrate(db))
	return kv.NewGormStore(db)
}

func validRequest() *dto.CreateOrderRequest {
	return &dto.CreateOrderRequest{
		OrderID:       "ORD_test_1",
		Username:      "alice",
		Email:         "a@x.com",
		PanelType:     model.PanelPrivate,
		Package:       &model.Package{RAM: 1, Price: 2000, Label: "1GB RAM"},
		PaymentMethod: "BRIVA",
	}
}

func paymentRaw(t *testing.T) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"reference":    "DEV-REF-001",
		"pay_code":     "1234567890",
		"amount":       2000,
		"expired_time": 1900000000,
	})
	require.NoError(t, err)
	return raw
}

func TestCreateOrderPersistsBeforeGateway(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	gateway := &stubGateway{tx: &client.Transaction{Reference: "DEV-REF-001", Raw: paymentRaw(t)}}
	gateway.onCreate = func(req *client.CreateTransactionRequest) {
		// Both records must already exist, status pending, no payment data.
		for _, key := range []string{"order_ORD_test_1", "order_a@x.com"} {
			var order model.Order
			found, err := kv.GetJSON(ctx, store, key, &order)
			require.NoError(t, err)
			require.True(t, found, "record %s must be written before the gateway call", key)
			require.Equal(t, model.StatusPending, order.Status)
			require.Empty(t, order.PaymentReference)
		}
	}

	svc := NewOrderService(store, gateway, zap.NewNop())
	resp, err := svc.CreateOrder(ctx, validRequest())
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Equal(t, "ORD_test_1", resp.OrderID)
	require.NotEmpty(t, resp.Payment)
	require.Len(t, gateway.requests, 1)
	require.Equal(t, "ORD_test_1", gateway.requests[0].MerchantRef)
	require.Equal(t, 2000, gateway.requests[0].Amount)

	// Payment data merged into the stored order afterwards.
	var order model.Order
	found, err := kv.GetJSON(ctx, store, "order_ORD_test_1", &order)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "DEV-REF-001", order.PaymentReference)
	require.JSONEq(t, string(paymentRaw(t)), string(order.PaymentData))
}

func TestCreateOrderDuplicateEmail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	gateway := &stubGateway{tx: &client.Transaction{Reference: "DEV-REF-001", Raw: paymentRaw(t)}}
	svc := NewOrderService(store, gateway, zap.NewNop())

	first := validRequest()
	first.Email = "dup@x.com"
	_, err := svc.CreateOrder(ctx, first)
	require.NoError(t, err)

	second := validRequest()
	second.OrderID = "ORD_test_2"
	second.Email = "dup@x.com"
	_, err = svc.CreateOrder(ctx, second)

	var dupErr *DuplicateOrderError
	require.ErrorAs(t, err, &dupErr)
	require.Contains(t, err.Error(), "sudah pernah digunakan")

	// No second stored record.
	_, found, getErr := store.Get(ctx, "order_ORD_test_2")
	require.NoError(t, getErr)
	require.False(t, found)
	require.Len(t, gateway.requests, 1)
}

func TestCreateOrderValidation(t *testing.T) {
	svc := NewOrderService(newTestStore(t), &stubGateway{}, zap.NewNop())

	cases := map[string]func(*dto.CreateOrderRequest){
		"missing username": func(r *dto.CreateOrderRequest) { r.Username = "" },
		"missing email":    func(r *dto.CreateOrderRequest) { r.Email = "" },
		"missing panel":    func(r *dto.CreateOrderRequest) { r.PanelType = "" },
		"missing package":  func(r *dto.CreateOrderRequest) { r.Package = nil },
		"bad panel type":   func(r *dto.CreateOrderRequest) { r.PanelType = "vip" },
		"bad email":        func(r *dto.CreateOrderRequest) { r.Email = "not-an-email" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validRequest()
			mutate(req)
			_, err := svc.CreateOrder(context.Background(), req)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
		})
	}
}

func TestCreateOrderGatewayFailureLeavesPendingOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	gateway := &stubGateway{createErr: errors.New("tripay: Invalid signature")}
	svc := NewOrderService(store, gateway, zap.NewNop())

	_, err := svc.CreateOrder(ctx, validRequest())
	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	require.Contains(t, err.Error(), "Invalid signature")

	// The pending order stays, orphaned without payment data.
	var order model.Order
	found, getErr := kv.GetJSON(ctx, store, "order_ORD_test_1", &order)
	require.NoError(t, getErr)
	require.True(t, found)
	require.Equal(t, model.StatusPending, order.Status)
	require.Empty(t, order.PaymentReference)
	require.Empty(t, order.PaymentData)
}

func TestCreateOrderLegacyPackageID(t *testing.T) {
	store := newTestStore(t)
	gateway := &stubGateway{}
	svc := NewOrderService(store, gateway, zap.NewNop())

	resp, err := svc.CreateOrder(context.Background(), &dto.CreateOrderRequest{
		Username:  "bob",
		Email:     "b@x.com",
		PanelType: model.PanelPublic,
		PackageID: "3GB RAM",
	})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.OrderID)
	require.Contains(t, resp.Message, "hubungi CS")
	require.Empty(t, gateway.requests, "no payment method chosen, no gateway call")

	var order model.Order
	found, err := kv.GetJSON(context.Background(), store, "order_"+resp.OrderID, &order)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, model.Package{RAM: 3, Price: 1000, Label: "3GB RAM"}, order.Package)
}

func TestCreateOrderBumpsCounters(t *testing.T) {
	store := newTestStore(t)
	svc := NewOrderService(store, &stubGateway{tx: &client.Transaction{Reference: "r", Raw: paymentRaw(t)}}, zap.NewNop())

	_, err := svc.CreateOrder(context.Background(), validRequest())
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 90, stats.TotalPurchases)
	require.Equal(t, 128, stats.TotalUsers)
	require.Equal(t, 5, stats.TotalServers)
}

func TestGetOrderRoundTrip(t *testing.T) {
	store := newTestStore(t)
	svc := NewOrderService(store, &stubGateway{tx: &client.Transaction{Reference: "r", Raw: paymentRaw(t)}}, zap.NewNop())
	ctx := context.Background()

	_, err := svc.GetOrder(ctx, "ORD_never")
	var nfErr *NotFoundError
	require.ErrorAs(t, err, &nfErr)

	_, err = svc.CreateOrder(ctx, validRequest())
	require.NoError(t, err)

	raw, err := svc.GetOrder(ctx, "ORD_test_1")
	require.NoError(t, err)

	stored, found, err := store.Get(ctx, "order_ORD_test_1")
	require.NoError(t, err)
	require.True(t, found)
	require.JSONEq(t, string(stored), string(raw))
}

func TestStatsDefaults(t *testing.T) {
	svc := NewOrderService(newTestStore(t), &stubGateway{}, zap.NewNop())

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, &dto.StatsResponse{TotalUsers: 127, TotalServers: 5, TotalPurchases: 89}, stats)
}

func TestPackagesFallsBackToEmbeddedCatalog(t *testing.T) {
	svc := NewOrderService(newTestStore(t), &stubGateway{}, zap.NewNop())

	raw, err := svc.Packages(context.Background())
	require.NoError(t, err)

	var tiers []map[string]any
	require.NoError(t, json.Unmarshal(raw, &tiers))
	require.Len(t, tiers, 3)
	require.Equal(t, "basic", tiers[0]["id"])
	require.Equal(t, "premium", tiers[1]["id"])
	require.Equal(t, "enterprise", tiers[2]["id"])
}

func TestPackagesStoreOverride(t *testing.T) {
	store := newTestStore(t)
	svc := NewOrderService(store, &stubGateway{}, zap.NewNop())
	ctx := context.Background()

	custom := []map[string]any{{"id": "mega", "price": 99000}}
	require.NoError(t, store.Set(ctx, "packages", custom))

	raw, err := svc.Packages(ctx)
	require.NoError(t, err)

	var tiers []map[string]any
	require.NoError(t, json.Unmarshal(raw, &tiers))
	require.Len(t, tiers, 1)
	require.Equal(t, "mega", tiers[0]["id"])
}

func TestPaymentMethodsFiltersInactive(t *testing.T) {
	gateway := &stubGateway{channels: []model.Channel{
		{Code: "BRIVA", Active: true},
		{Code: "OLD", Active: false},
		{Code: "QRIS", Active: true},
	}}
	svc := NewOrderService(newTestStore(t), gateway, zap.NewNop())

	channels, err := svc.PaymentMethods(context.Background())
	require.NoError(t, err)
	require.Len(t, channels, 2)
	require.Equal(t, "BRIVA", channels[0].Code)
	require.Equal(t, "QRIS", channels[1].Code)
}

func TestPaymentMethodsGatewayError(t *testing.T) {
	gateway := &stubGateway{channelsErr: errors.New("tripay error 500: down")}
	svc := NewOrderService(newTestStore(t), gateway, zap.NewNop())

	_, err := svc.PaymentMethods(context.Background())
	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
}

func TestInitSeedsOnce(t *testing.T) {
	store := newTestStore(t)
	svc := NewOrderService(store, &stubGateway{}, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.Init(ctx))

	var users int
	found, err := kv.GetJSON(ctx, store, "total_users", &users)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 127, users)

	// A second init must not reset values that moved.
	require.NoError(t, store.Set(ctx, "total_users", 500))
	require.NoError(t, svc.Init(ctx))
	_, err = kv.GetJSON(ctx, store, "total_users", &users)
	require.NoError(t, err)
	require.Equal(t, 500, users)
}
