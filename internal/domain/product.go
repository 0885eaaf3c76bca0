package domain

import "time"

type Product struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Brand         string    `json:"brand"`
	Price         float64   `json:"price"`
	Available     bool      `json:"available"`
	StockQuantity int       `json:"stockQuantity"`
	ReleaseDate   time.Time `json:"releaseDate"`
	CreatedAt     time.Time `json:"createdAt"`
}
