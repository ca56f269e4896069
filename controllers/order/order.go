package orderControllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kimsinwoo/lupl-backend/apperrors"
	"github.com/kimsinwoo/lupl-backend/events"
	"github.com/kimsinwoo/lupl-backend/inventory"
	"github.com/kimsinwoo/lupl-backend/models"
	"github.com/kimsinwoo/lupl-backend/pricing"
)

// Deps bundles what the order core needs; handlers close over it.
type Deps struct {
	DB      *gorm.DB
	Pricing pricing.Calculator
	Events  *events.Producer
	Logger  *zap.SugaredLogger
}

// -------- Request Structs --------

type CreateOrderRequest struct {
	ShippingName     string `json:"shipping_name" binding:"required"`
	ShippingPhone    string `json:"shipping_phone" binding:"required"`
	ShippingAddress1 string `json:"shipping_address1" binding:"required"`
	ShippingAddress2 string `json:"shipping_address2"`
	ShippingCity     string `json:"shipping_city" binding:"required"`
	ShippingZip      string `json:"shipping_zip" binding:"required"`
	ShippingCountry  string `json:"shipping_country" binding:"required"`
	PaymentMethod    string `json:"payment_method" binding:"required"`
	Notes            string `json:"notes"`

	// When present, the order is built from this list instead of the
	// user's cart.
	Items []ExplicitItem `json:"items"`
}

type ExplicitItem struct {
	ProductID string  `json:"product_id" binding:"required"`
	VariantID *string `json:"variant_id"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
}

// -------- Line sources --------

// resolvedLine is a validated, priced purchase intent. UnitPrice is the
// catalog price captured here, inside the creation transaction, and becomes
// the order item's frozen price.
type resolvedLine struct {
	ProductID string
	VariantID *string
	Quantity  int
	UnitPrice float64
}

// lineSource abstracts where order lines come from so the cart path and the
// explicit-items path run through identical validation, reservation and
// persistence.
type lineSource interface {
	lines(tx *gorm.DB) ([]resolvedLine, error)
	clear(tx *gorm.DB) error
}

type cartSource struct{ userID string }

func (s cartSource) lines(tx *gorm.DB) ([]resolvedLine, error) {
	var carts []models.Cart
	if err := tx.Preload("Items").Where("user_id = ?", s.userID).Find(&carts).Error; err != nil {
		return nil, err
	}
	var out []resolvedLine
	for _, cart := range carts {
		for _, item := range cart.Items {
			variantID := item.VariantID
			line, err := resolveLine(tx, cart.ProductID, &variantID, item.Quantity)
			if err != nil {
				return nil, err
			}
			out = append(out, line)
		}
	}
	return out, nil
}

func (s cartSource) clear(tx *gorm.DB) error {
	var carts []models.Cart
	if err := tx.Where("user_id = ?", s.userID).Find(&carts).Error; err != nil {
		return err
	}
	for _, cart := range carts {
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
	}
	return tx.Where("user_id = ?", s.userID).Delete(&models.Cart{}).Error
}

type explicitSource struct{ items []ExplicitItem }

func (s explicitSource) lines(tx *gorm.DB) ([]resolvedLine, error) {
	var out []resolvedLine
	for _, item := range s.items {
		line, err := resolveLine(tx, item.ProductID, item.VariantID, item.Quantity)
		if err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, nil
}

func (s explicitSource) clear(tx *gorm.DB) error { return nil }

// resolveLine validates one (product, variant, quantity) triple and captures
// the live catalog price as the frozen unit price.
func resolveLine(tx *gorm.DB, productID string, variantID *string, quantity int) (resolvedLine, error) {
	if quantity < 1 {
		return resolvedLine{}, apperrors.ErrInvalidQuantity
	}
	var product models.Product
	if err := tx.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return resolvedLine{}, apperrors.ErrProductNotFound
		}
		return resolvedLine{}, err
	}
	if variantID != nil && *variantID != "" {
		var variant models.ProductVariant
		if err := tx.First(&variant, "id = ?", *variantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return resolvedLine{}, apperrors.ErrVariantNotFound
			}
			return resolvedLine{}, err
		}
		if variant.ProductID != product.ID {
			return resolvedLine{}, apperrors.ErrVariantMismatch
		}
	} else {
		variantID = nil
	}
	return resolvedLine{
		ProductID: product.ID,
		VariantID: variantID,
		Quantity:  quantity,
		UnitPrice: product.Price,
	}, nil
}

// -------- Core Logic --------

// GenerateOrderNumber builds the display number the storefront and the
// payment gateway see: namespace prefix, millisecond timestamp, random
// suffix against collisions.
func GenerateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:9])
	return "LUPL-" + time.Now().UTC().Format("20060102150405") + "-" + suffix
}

// CreateOrder converts a line source into a persisted order. Reservations,
// order + item inserts, and the cart clear run in one transaction; any
// failure rolls everything back, including earlier reservations in the
// batch.
func CreateOrder(deps Deps, userID string, req CreateOrderRequest) (*models.Order, error) {
	var src lineSource
	if len(req.Items) > 0 {
		src = explicitSource{items: req.Items}
	} else {
		src = cartSource{userID: userID}
	}

	var orderID string
	err := deps.DB.Transaction(func(tx *gorm.DB) error {
		lines, err := src.lines(tx)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return apperrors.ErrEmptyOrder
		}

		var items []models.OrderItem
		var priced []pricing.Line
		for _, line := range lines {
			if line.VariantID != nil {
				if err := inventory.Reserve(tx, *line.VariantID, line.Quantity); err != nil {
					return err
				}
			}
			items = append(items, models.OrderItem{
				ID:        uuid.NewString(),
				ProductID: line.ProductID,
				VariantID: line.VariantID,
				Quantity:  line.Quantity,
				Price:     line.UnitPrice,
			})
			priced = append(priced, pricing.Line{UnitPrice: line.UnitPrice, Quantity: line.Quantity})
		}

		totals := deps.Pricing.ComputeTotals(priced)
		order := models.Order{
			ID:               uuid.NewString(),
			OrderNumber:      GenerateOrderNumber(),
			UserID:           userID,
			ShippingName:     req.ShippingName,
			ShippingPhone:    req.ShippingPhone,
			ShippingAddress1: req.ShippingAddress1,
			ShippingAddress2: req.ShippingAddress2,
			ShippingCity:     req.ShippingCity,
			ShippingZip:      req.ShippingZip,
			ShippingCountry:  req.ShippingCountry,
			PaymentMethod:    req.PaymentMethod,
			Notes:            req.Notes,
			Subtotal:         totals.Subtotal,
			Shipping:         totals.Shipping,
			Tax:              totals.Tax,
			Total:            totals.Total,
			Status:           models.OrderStatusPending,
			PaymentStatus:    models.PaymentStatusUnpaid,
			Items:            items,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		if err := src.clear(tx); err != nil {
			return err
		}
		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := LoadOrder(deps.DB, orderID)
	if err != nil {
		return nil, err
	}
	deps.Logger.Infow("order created",
		"order_id", order.ID, "order_number", order.OrderNumber,
		"user_id", userID, "total", order.Total)
	deps.Events.Publish(context.Background(), events.TypeOrderCreated, order)
	BroadcastOrder(order)
	return order, nil
}

// LoadOrder fetches an order with its items and their catalog references.
func LoadOrder(db *gorm.DB, orderID string) (*models.Order, error) {
	var order models.Order
	err := db.Preload("Items").Preload("Items.Product").Preload("Items.Variant").
		First(&order, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByNumberOrID resolves the identifier as a display order number first,
// then as an internal id.
func FindByNumberOrID(db *gorm.DB, id string) (*models.Order, error) {
	var order models.Order
	err := db.Preload("Items").Preload("Items.Product").Preload("Items.Variant").
		Where("order_number = ? OR id = ?", id, id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// GetOrder returns the order only to its owner.
func GetOrder(deps Deps, orderID, userID string) (*models.Order, error) {
	order, err := FindByNumberOrID(deps.DB, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, apperrors.ErrUnauthorized
	}
	return order, nil
}

func ListUserOrders(deps Deps, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := deps.DB.Preload("Items").Preload("Items.Product").Preload("Items.Variant").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// CancelOrder cancels a pending or processing order and restores reserved
// stock. The status flip is a conditional update and doubles as the guard:
// zero rows affected means the order is not cancellable anymore, so stock
// can never be released twice. An empty userID skips the ownership check
// (admin path).
func CancelOrder(deps Deps, orderID, userID string) (*models.Order, error) {
	order, err := FindByNumberOrID(deps.DB, orderID)
	if err != nil {
		return nil, err
	}
	if userID != "" && order.UserID != userID {
		return nil, apperrors.ErrUnauthorized
	}

	err = deps.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status IN ?", order.ID,
				[]models.OrderStatus{models.OrderStatusPending, models.OrderStatusProcessing}).
			Updates(map[string]interface{}{
				"status":         models.OrderStatusCancelled,
				"payment_status": models.PaymentStatusRefunded,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrInvalidTransition
		}
		for _, item := range order.Items {
			if item.VariantID == nil {
				continue
			}
			if err := inventory.Release(tx, *item.VariantID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cancelled, err := LoadOrder(deps.DB, order.ID)
	if err != nil {
		return nil, err
	}
	deps.Logger.Infow("order cancelled", "order_id", cancelled.ID, "order_number", cancelled.OrderNumber)
	deps.Events.Publish(context.Background(), events.TypeOrderCancelled, cancelled)
	BroadcastOrder(cancelled)
	return cancelled, nil
}

// -------- Handlers --------

func CreateOrderHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		order, err := CreateOrder(deps, userID, req)
		if err != nil {
			c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func GetUserOrdersHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := ListUserOrders(deps, c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func GetOrderHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := GetOrder(deps, c.Param("orderID"), c.GetString("user_id"))
		if err != nil {
			c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
