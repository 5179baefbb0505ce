package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	CategoryID *int            `json:"category_id,omitempty"`
}

// NewProduct describes a product to be added to the catalog.
type NewProduct struct {
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	CategoryID *int            `json:"category_id,omitempty"`
}

// ProductUpdate carries optional edits; a nil field is left unchanged.
type ProductUpdate struct {
	Name       *string          `json:"name,omitempty"`
	Price      *decimal.Decimal `json:"price,omitempty"`
	Stock      *int             `json:"stock,omitempty"`
	CategoryID *int             `json:"category_id,omitempty"`
}

type StockAdjustRequest struct {
	Delta int `json:"delta"`
}

// ProductListing is a product as displayed at a 1-based position.
type ProductListing struct {
	Index        int             `json:"index"`
	Product      *Product        `json:"product"`
	CategoryName string          `json:"category_name,omitempty"`
	DisplayPrice decimal.Decimal `json:"display_price"`
}
