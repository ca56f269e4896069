package models

import "time"

// Cart groups a user's pending lines for one product; per-variant quantities
// live in CartItem. Order creation reads these rows and clears them in the
// same transaction that persists the order.
type Cart struct {
	ID        string     `gorm:"primaryKey" json:"id"`
	UserID    string     `gorm:"index;not null" json:"user_id"`
	ProductID string     `gorm:"not null" json:"product_id"`
	Product   *Product   `json:"product,omitempty"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID        string          `gorm:"primaryKey" json:"id"`
	CartID    string          `gorm:"index" json:"cart_id"`
	VariantID string          `gorm:"not null" json:"variant_id"`
	Variant   *ProductVariant `json:"variant,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	AddedAt   time.Time       `json:"added_at"`
}
