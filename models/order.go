package models

import (
	"errors"
	"strings"
	"time"
)

type OrderStatus string
type PaymentStatus string

const (
	OrderStatusPending    OrderStatus = "pending"    // placed, awaiting payment
	OrderStatusProcessing OrderStatus = "processing" // paid, being prepared
	OrderStatusShipped    OrderStatus = "shipped"    // handed to carrier
	OrderStatusDelivered  OrderStatus = "delivered"  // customer received the item
	OrderStatusCancelled  OrderStatus = "cancelled"  // cancelled before fulfilment

	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusUnpaid:   {PaymentStatusPaid, PaymentStatusFailed},
	PaymentStatusFailed:   {PaymentStatusPaid, PaymentStatusFailed},
	PaymentStatusPaid:     {PaymentStatusRefunded},
	PaymentStatusRefunded: {},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, t := range orderTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Cancellable reports whether the order may still be cancelled; terminal and
// in-flight shipments may not.
func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusPending || s == OrderStatusProcessing
}

func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, t := range paymentTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(strings.ToLower(s)) {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(strings.ToLower(s)), nil
	default:
		return "", errors.New("invalid order status")
	}
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(strings.ToLower(s)) {
	case PaymentStatusUnpaid, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return PaymentStatus(strings.ToLower(s)), nil
	default:
		return "", errors.New("invalid payment status")
	}
}

// Order is the root aggregate. ID and OrderNumber are independent columns:
// the gateway and the storefront see OrderNumber, lookups accept either.
type Order struct {
	ID          string `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID      string `gorm:"index;not null" json:"user_id"`
	User        *User  `json:"user,omitempty"`

	ShippingName     string `json:"shipping_name"`
	ShippingPhone    string `json:"shipping_phone"`
	ShippingAddress1 string `json:"shipping_address1"`
	ShippingAddress2 string `json:"shipping_address2"`
	ShippingCity     string `json:"shipping_city"`
	ShippingZip      string `json:"shipping_zip"`
	ShippingCountry  string `json:"shipping_country"`

	PaymentMethod string  `json:"payment_method"`
	Notes         string  `json:"notes"`
	Subtotal      float64 `json:"subtotal"`
	Shipping      float64 `json:"shipping"`
	Tax           float64 `json:"tax"`
	// Total starts as subtotal+shipping+tax and is overwritten with the
	// gateway-confirmed amount once payment succeeds.
	Total float64 `json:"total"`

	Status        OrderStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:VARCHAR(20);default:'unpaid'" json:"payment_status"`

	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// OrderItem is a historical record: Price is the unit price captured at
// order creation and never re-derived from the catalog.
type OrderItem struct {
	ID        string          `gorm:"primaryKey" json:"id"`
	OrderID   string          `gorm:"index" json:"order_id"`
	ProductID string          `gorm:"not null" json:"product_id"`
	Product   *Product        `json:"product,omitempty"`
	VariantID *string         `json:"variant_id"`
	Variant   *ProductVariant `json:"variant,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     float64         `gorm:"not null" json:"price"`
}
