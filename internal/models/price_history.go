package models

import (
	"time"
)

// PriceHistory is one observed (product, platform, price) sample. Rows are
// append-only: they are never updated after insert and only deleted by
// retention pruning.
type PriceHistory struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	ProductName string    `json:"product_name" gorm:"not null;index:idx_product_platform"`
	Platform    Platform  `json:"platform" gorm:"not null;index:idx_product_platform"`
	Price       float64   `json:"price" gorm:"not null"`
	Timestamp   time.Time `json:"timestamp" gorm:"not null;index:idx_history_timestamp"`
}

// TrendSummary is aggregate price statistics for one product on one platform
// over a trailing window. Monetary values are rounded to 2 decimal places.
type TrendSummary struct {
	AvgPrice   float64 `json:"avg_price"`
	MinPrice   float64 `json:"min_price"`
	MaxPrice   float64 `json:"max_price"`
	DataPoints int     `json:"data_points"`
}

// DailyPrice is one calendar-day bucket of a product's price series on one
// platform: the mean of all samples observed that day.
type DailyPrice struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}
