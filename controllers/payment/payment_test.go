package paymentControllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kimsinwoo/lupl-backend/apperrors"
	"github.com/kimsinwoo/lupl-backend/config"
	orderControllers "github.com/kimsinwoo/lupl-backend/controllers/order"
	"github.com/kimsinwoo/lupl-backend/models"
	"github.com/kimsinwoo/lupl-backend/pricing"
)

// gatewayStub mimics the Toss confirm/cancel API and counts calls.
type gatewayStub struct {
	server       *httptest.Server
	confirmCalls atomic.Int64
	cancelCalls  atomic.Int64
	rejectWith   string // when set, confirm responds 400 with this message
}

func newGatewayStub(t *testing.T) *gatewayStub {
	t.Helper()
	stub := &gatewayStub{}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/v1/payments/confirm":
			stub.confirmCalls.Add(1)
			if stub.rejectWith != "" {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{
					"code":    "REJECT_CARD_PAYMENT",
					"message": stub.rejectWith,
				})
				return
			}
			var body map[string]interface{}
			json.NewDecoder(r.Body).Decode(&body)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"paymentKey":  body["paymentKey"],
				"orderId":     body["orderId"],
				"totalAmount": body["amount"],
				"status":      "DONE",
			})
		case strings.HasSuffix(r.URL.Path, "/cancel"):
			stub.cancelCalls.Add(1)
			json.NewEncoder(w).Encode(map[string]string{"status": "CANCELED"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

func newTestService(t *testing.T, stub *gatewayStub) (*Service, orderControllers.Deps) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.ProductVariant{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
	))

	deps := orderControllers.Deps{
		DB:      db,
		Pricing: pricing.NewCalculator(3000, 0.1),
		Logger:  zap.NewNop().Sugar(),
	}
	cfg := &config.Config{
		TossBaseURL:    stub.server.URL,
		TossSecretKey:  "test_sk_docs",
		GatewayTimeout: 5 * time.Second,
	}
	svc := &Service{
		DB:      db,
		Gateway: NewGatewayClient(cfg),
		Orders:  deps,
		Logger:  zap.NewNop().Sugar(),
	}
	return svc, deps
}

func placeOrder(t *testing.T, deps orderControllers.Deps, stock int) (*models.Order, models.ProductVariant) {
	t.Helper()
	user := models.User{ID: uuid.NewString(), Email: uuid.NewString() + "@example.com"}
	require.NoError(t, deps.DB.Create(&user).Error)
	product := models.Product{ID: uuid.NewString(), Name: "Winter Field", Price: 100}
	require.NoError(t, deps.DB.Create(&product).Error)
	variant := models.ProductVariant{ID: uuid.NewString(), ProductID: product.ID, Size: "A3", Stock: stock}
	require.NoError(t, deps.DB.Create(&variant).Error)

	req := orderControllers.CreateOrderRequest{
		ShippingName:     "Kim Jiyoung",
		ShippingPhone:    "010-1234-5678",
		ShippingAddress1: "12 Hannam-daero",
		ShippingCity:     "Seoul",
		ShippingZip:      "04417",
		ShippingCountry:  "KR",
		PaymentMethod:    "card",
		Items: []orderControllers.ExplicitItem{
			{ProductID: product.ID, VariantID: &variant.ID, Quantity: 1},
		},
	}
	order, err := orderControllers.CreateOrder(deps, user.ID, req)
	require.NoError(t, err)
	return order, variant
}

// The gateway-confirmed amount overrides the locally computed total.
func TestConfirmPayment_GatewayAmountWins(t *testing.T) {
	stub := newGatewayStub(t)
	svc, deps := newTestService(t, stub)
	order, _ := placeOrder(t, deps, 5)
	require.Equal(t, 3110.0, order.Total) // subtotal 100 + shipping 3000 + tax 10

	result, err := svc.ConfirmOrderPayment(context.Background(), order.OrderNumber, "pay_key_1", 330.00)
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusPaid, result.Order.PaymentStatus)
	assert.Equal(t, models.OrderStatusProcessing, result.Order.Status)
	assert.Equal(t, 330.00, result.Order.Total)
	assert.Equal(t, int64(1), stub.confirmCalls.Load())
}

// A duplicate confirmation succeeds without a second gateway call and
// leaves the order unchanged.
func TestConfirmPayment_Idempotent(t *testing.T) {
	stub := newGatewayStub(t)
	svc, deps := newTestService(t, stub)
	order, _ := placeOrder(t, deps, 5)

	first, err := svc.ConfirmOrderPayment(context.Background(), order.OrderNumber, "pay_key_1", 330.00)
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusPaid, first.Order.PaymentStatus)

	second, err := svc.ConfirmOrderPayment(context.Background(), order.OrderNumber, "pay_key_1", 330.00)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, second.Order.PaymentStatus)
	assert.Equal(t, 330.00, second.Order.Total)
	assert.JSONEq(t, `{"message":"Already processed"}`, string(second.Payment))
	assert.Equal(t, int64(1), stub.confirmCalls.Load(), "gateway must be called exactly once")
}

// Gateway rejection is durable: paymentStatus flips to failed and the
// attempted amount is recorded before the error surfaces.
func TestConfirmPayment_GatewayRejected(t *testing.T) {
	stub := newGatewayStub(t)
	stub.rejectWith = "card declined"
	svc, deps := newTestService(t, stub)
	order, _ := placeOrder(t, deps, 5)

	_, err := svc.ConfirmOrderPayment(context.Background(), order.OrderNumber, "pay_key_1", 330.00)
	require.ErrorIs(t, err, apperrors.ErrGatewayRejected)
	assert.Contains(t, err.Error(), "card declined")

	var after models.Order
	require.NoError(t, deps.DB.First(&after, "id = ?", order.ID).Error)
	assert.Equal(t, models.PaymentStatusFailed, after.PaymentStatus)
	assert.Equal(t, models.OrderStatusPending, after.Status)
	assert.Equal(t, 330.00, after.Total)
}

func TestConfirmPayment_UnknownOrder(t *testing.T) {
	stub := newGatewayStub(t)
	svc, _ := newTestService(t, stub)

	_, err := svc.ConfirmOrderPayment(context.Background(), "LUPL-missing", "pay_key_1", 100)
	require.ErrorIs(t, err, apperrors.ErrOrderNotFound)
	assert.Zero(t, stub.confirmCalls.Load())
}

// A failed payment can be retried and still settle.
func TestConfirmPayment_RetryAfterFailure(t *testing.T) {
	stub := newGatewayStub(t)
	stub.rejectWith = "temporary failure"
	svc, deps := newTestService(t, stub)
	order, _ := placeOrder(t, deps, 5)

	_, err := svc.ConfirmOrderPayment(context.Background(), order.OrderNumber, "pay_key_1", 110.00)
	require.ErrorIs(t, err, apperrors.ErrGatewayRejected)

	stub.rejectWith = ""
	result, err := svc.ConfirmOrderPayment(context.Background(), order.OrderNumber, "pay_key_2", 110.00)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, result.Order.PaymentStatus)
}

func TestRefundAndCancelOrder_Unpaid(t *testing.T) {
	stub := newGatewayStub(t)
	svc, deps := newTestService(t, stub)
	order, variant := placeOrder(t, deps, 5)

	cancelled, err := svc.RefundAndCancelOrder(context.Background(), order.ID, order.UserID, "", "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.Zero(t, stub.cancelCalls.Load(), "unpaid orders never hit the gateway")

	var v models.ProductVariant
	require.NoError(t, deps.DB.First(&v, "id = ?", variant.ID).Error)
	assert.Equal(t, 5, v.Stock)
}

func TestRefundAndCancelOrder_Paid(t *testing.T) {
	stub := newGatewayStub(t)
	svc, deps := newTestService(t, stub)
	order, variant := placeOrder(t, deps, 5)

	_, err := svc.ConfirmOrderPayment(context.Background(), order.OrderNumber, "pay_key_1", 113.00)
	require.NoError(t, err)

	cancelled, err := svc.RefundAndCancelOrder(context.Background(), order.ID, order.UserID, "pay_key_1", "damaged on arrival")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, models.PaymentStatusRefunded, cancelled.PaymentStatus)
	assert.Equal(t, int64(1), stub.cancelCalls.Load())

	var v models.ProductVariant
	require.NoError(t, deps.DB.First(&v, "id = ?", variant.ID).Error)
	assert.Equal(t, 5, v.Stock)
}

func TestRefundAndCancelOrder_PaidWithoutKey(t *testing.T) {
	stub := newGatewayStub(t)
	svc, deps := newTestService(t, stub)
	order, _ := placeOrder(t, deps, 5)

	_, err := svc.ConfirmOrderPayment(context.Background(), order.OrderNumber, "pay_key_1", 113.00)
	require.NoError(t, err)

	_, err = svc.RefundAndCancelOrder(context.Background(), order.ID, order.UserID, "", "no key")
	require.ErrorIs(t, err, apperrors.ErrGatewayRejected)
	assert.Zero(t, stub.cancelCalls.Load())
}

func TestRefundAndCancelOrder_WrongUser(t *testing.T) {
	stub := newGatewayStub(t)
	svc, deps := newTestService(t, stub)
	order, _ := placeOrder(t, deps, 5)

	_, err := svc.RefundAndCancelOrder(context.Background(), order.ID, "someone-else", "", "")
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
