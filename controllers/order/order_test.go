package orderControllers

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kimsinwoo/lupl-backend/apperrors"
	"github.com/kimsinwoo/lupl-backend/models"
	"github.com/kimsinwoo/lupl-backend/pricing"
)

func newTestDeps(t *testing.T) Deps {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Artist{}, &models.Category{},
		&models.Product{}, &models.ProductVariant{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
	))
	return Deps{
		DB:      db,
		Pricing: pricing.NewCalculator(3000, 0.1),
		Logger:  zap.NewNop().Sugar(),
	}
}

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{ID: uuid.NewString(), Email: uuid.NewString() + "@example.com", Name: "Jin"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, price float64, stock int) (models.Product, models.ProductVariant) {
	t.Helper()
	product := models.Product{ID: uuid.NewString(), Name: "Blue Harbor", Price: price}
	require.NoError(t, db.Create(&product).Error)
	variant := models.ProductVariant{
		ID:        uuid.NewString(),
		ProductID: product.ID,
		Size:      "50x70",
		Stock:     stock,
	}
	require.NoError(t, db.Create(&variant).Error)
	return product, variant
}

func seedCartLine(t *testing.T, db *gorm.DB, userID string, product models.Product, variant models.ProductVariant, qty int) {
	t.Helper()
	cart := models.Cart{ID: uuid.NewString(), UserID: userID, ProductID: product.ID}
	require.NoError(t, db.Create(&cart).Error)
	item := models.CartItem{ID: uuid.NewString(), CartID: cart.ID, VariantID: variant.ID, Quantity: qty}
	require.NoError(t, db.Create(&item).Error)
}

func stockOf(t *testing.T, db *gorm.DB, variantID string) int {
	t.Helper()
	var v models.ProductVariant
	require.NoError(t, db.First(&v, "id = ?", variantID).Error)
	return v.Stock
}

func shippingReq() CreateOrderRequest {
	return CreateOrderRequest{
		ShippingName:     "Kim Jiyoung",
		ShippingPhone:    "010-1234-5678",
		ShippingAddress1: "12 Hannam-daero",
		ShippingCity:     "Seoul",
		ShippingZip:      "04417",
		ShippingCountry:  "KR",
		PaymentMethod:    "card",
	}
}

func TestCreateOrderFromCart(t *testing.T) {
	deps := newTestDeps(t)
	user := seedUser(t, deps.DB)
	product, variant := seedProduct(t, deps.DB, 120000, 5)
	seedCartLine(t, deps.DB, user.ID, product, variant, 2)

	order, err := CreateOrder(deps, user.ID, shippingReq())
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusUnpaid, order.PaymentStatus)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "LUPL-"))
	assert.Equal(t, 240000.0, order.Subtotal)
	assert.Equal(t, 3000.0, order.Shipping)
	assert.Equal(t, 24000.0, order.Tax)
	assert.Equal(t, 267000.0, order.Total)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 120000.0, order.Items[0].Price)
	assert.Equal(t, 2, order.Items[0].Quantity)

	// stock reserved, cart cleared
	assert.Equal(t, 3, stockOf(t, deps.DB, variant.ID))
	var cartCount, itemCount int64
	deps.DB.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&cartCount)
	deps.DB.Model(&models.CartItem{}).Count(&itemCount)
	assert.Zero(t, cartCount)
	assert.Zero(t, itemCount)
}

func TestCreateOrderFromExplicitItems(t *testing.T) {
	deps := newTestDeps(t)
	user := seedUser(t, deps.DB)
	product, variant := seedProduct(t, deps.DB, 100, 5)

	req := shippingReq()
	req.Items = []ExplicitItem{{ProductID: product.ID, VariantID: &variant.ID, Quantity: 2}}

	order, err := CreateOrder(deps, user.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 200.0, order.Subtotal)
	assert.Equal(t, 3, stockOf(t, deps.DB, variant.ID))
}

func TestCreateOrderEmptyCart(t *testing.T) {
	deps := newTestDeps(t)
	user := seedUser(t, deps.DB)

	_, err := CreateOrder(deps, user.ID, shippingReq())
	require.ErrorIs(t, err, apperrors.ErrEmptyOrder)
}

// Atomic creation: when a later line is short on stock, reservations from
// earlier lines must not persist and no order row may exist.
func TestCreateOrderAbortsAtomically(t *testing.T) {
	deps := newTestDeps(t)
	user := seedUser(t, deps.DB)
	productA, variantA := seedProduct(t, deps.DB, 100, 5)
	productB, variantB := seedProduct(t, deps.DB, 50, 1)

	req := shippingReq()
	req.Items = []ExplicitItem{
		{ProductID: productA.ID, VariantID: &variantA.ID, Quantity: 2},
		{ProductID: productB.ID, VariantID: &variantB.ID, Quantity: 3},
	}

	_, err := CreateOrder(deps, user.ID, req)
	require.ErrorIs(t, err, apperrors.ErrInsufficientStock)

	assert.Equal(t, 5, stockOf(t, deps.DB, variantA.ID))
	assert.Equal(t, 1, stockOf(t, deps.DB, variantB.ID))
	var orderCount int64
	deps.DB.Model(&models.Order{}).Count(&orderCount)
	assert.Zero(t, orderCount)
}

func TestCreateOrderVariantMismatch(t *testing.T) {
	deps := newTestDeps(t)
	user := seedUser(t, deps.DB)
	productA, _ := seedProduct(t, deps.DB, 100, 5)
	_, variantB := seedProduct(t, deps.DB, 50, 5)

	req := shippingReq()
	req.Items = []ExplicitItem{{ProductID: productA.ID, VariantID: &variantB.ID, Quantity: 1}}

	_, err := CreateOrder(deps, user.ID, req)
	require.ErrorIs(t, err, apperrors.ErrVariantMismatch)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	deps := newTestDeps(t)
	user := seedUser(t, deps.DB)

	req := shippingReq()
	req.Items = []ExplicitItem{{ProductID: "no-such-product", Quantity: 1}}

	_, err := CreateOrder(deps, user.ID, req)
	require.ErrorIs(t, err, apperrors.ErrProductNotFound)
}

// Cancellation restores stock exactly once; re-cancelling fails fast and
// does not release again.
func TestCancelOrderRestoresStockOnce(t *testing.T) {
	deps := newTestDeps(t)
	user := seedUser(t, deps.DB)
	productA, variantA := seedProduct(t, deps.DB, 100, 5)
	productB, variantB := seedProduct(t, deps.DB, 50, 5)

	req := shippingReq()
	req.Items = []ExplicitItem{
		{ProductID: productA.ID, VariantID: &variantA.ID, Quantity: 2},
		{ProductID: productB.ID, VariantID: &variantB.ID, Quantity: 1},
	}
	order, err := CreateOrder(deps, user.ID, req)
	require.NoError(t, err)
	require.Equal(t, 3, stockOf(t, deps.DB, variantA.ID))
	require.Equal(t, 4, stockOf(t, deps.DB, variantB.ID))

	cancelled, err := CancelOrder(deps, order.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, models.PaymentStatusRefunded, cancelled.PaymentStatus)
	assert.Equal(t, 5, stockOf(t, deps.DB, variantA.ID))
	assert.Equal(t, 5, stockOf(t, deps.DB, variantB.ID))

	_, err = CancelOrder(deps, order.ID, user.ID)
	require.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Equal(t, 5, stockOf(t, deps.DB, variantA.ID))
	assert.Equal(t, 5, stockOf(t, deps.DB, variantB.ID))
}

func TestCancelShippedOrderFails(t *testing.T) {
	deps := newTestDeps(t)
	user := seedUser(t, deps.DB)
	product, variant := seedProduct(t, deps.DB, 100, 5)

	req := shippingReq()
	req.Items = []ExplicitItem{{ProductID: product.ID, VariantID: &variant.ID, Quantity: 1}}
	order, err := CreateOrder(deps, user.ID, req)
	require.NoError(t, err)

	require.NoError(t, deps.DB.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("status", models.OrderStatusShipped).Error)

	_, err = CancelOrder(deps, order.ID, user.ID)
	require.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Equal(t, 4, stockOf(t, deps.DB, variant.ID))
}

func TestGetOrderOwnership(t *testing.T) {
	deps := newTestDeps(t)
	owner := seedUser(t, deps.DB)
	stranger := seedUser(t, deps.DB)
	product, variant := seedProduct(t, deps.DB, 100, 5)

	req := shippingReq()
	req.Items = []ExplicitItem{{ProductID: product.ID, VariantID: &variant.ID, Quantity: 1}}
	order, err := CreateOrder(deps, owner.ID, req)
	require.NoError(t, err)

	got, err := GetOrder(deps, order.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	// lookup by display number works too
	byNumber, err := GetOrder(deps, order.OrderNumber, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, byNumber.ID)

	_, err = GetOrder(deps, order.ID, stranger.ID)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = GetOrder(deps, "missing", owner.ID)
	require.ErrorIs(t, err, apperrors.ErrOrderNotFound)
}

func TestGenerateOrderNumber(t *testing.T) {
	a := GenerateOrderNumber()
	b := GenerateOrderNumber()
	assert.True(t, strings.HasPrefix(a, "LUPL-"))
	assert.NotEqual(t, a, b)
}
