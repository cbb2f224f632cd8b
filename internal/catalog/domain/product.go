package domain

import (
	"time"
)

type Product struct {
	ID          string    `json:"id"`
	VendorID    string    `json:"vendor_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	CategoryID  *string   `json:"category_id,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Price and quantity arrive as strings from the product form.
type SaveProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       string  `json:"price" binding:"required"`
	Quantity    string  `json:"quantity" binding:"required"`
	CategoryID  *string `json:"category_id"`
	ImageURL    *string `json:"image_url"`
}

type SaveCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// InventoryStats backs the stat cards on the inventory screen.
type InventoryStats struct {
	TotalProducts   int     `json:"total_products"`
	TotalCategories int     `json:"total_categories"`
	TotalStockValue float64 `json:"total_stock_value"`
	LowStock        int     `json:"low_stock"`
	OutOfStock      int     `json:"out_of_stock"`
}
