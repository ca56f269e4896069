package models

import (
	"time"

	"gorm.io/gorm"
)

type Artist struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Bio          string    `json:"bio"`
	ProfileImage string    `json:"profile_image"`
	Products     []Product `gorm:"foreignKey:ArtistID" json:"products,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Category struct {
	ID   string `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
	Slug string `gorm:"uniqueIndex" json:"slug"`
}

type Product struct {
	ID          string           `gorm:"primaryKey" json:"id"`
	Name        string           `gorm:"not null" json:"name"`
	Description string           `json:"description"`
	Price       float64          `gorm:"not null" json:"price"`
	Image       string           `json:"image"`
	Medium      string           `json:"medium"`     // e.g. "oil on canvas", "giclee print"
	Dimensions  string           `json:"dimensions"` // e.g. "40x60cm"
	Featured    bool             `json:"featured"`
	ArtistID    *string          `gorm:"index" json:"artist_id"`
	Artist      *Artist          `json:"artist,omitempty"`
	CategoryID  *string          `gorm:"index" json:"category_id"`
	Category    *Category        `json:"category,omitempty"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
}

// ProductVariant is the purchasable unit. Stock is mutated only through the
// inventory package's conditional updates and never goes negative.
type ProductVariant struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	ProductID string    `gorm:"index;not null" json:"product_id"`
	Size      string    `json:"size"`
	Color     string    `json:"color"`
	Stock     int       `gorm:"not null;default:0" json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
