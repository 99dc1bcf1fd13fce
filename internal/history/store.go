// Package history is the append-only price history store: point-in-time
// writes of observed prices and windowed trend reads over them.
package history

import (
	"log"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/sarthakmehta/kart-compare/backend/internal/metrics"
	"github.com/sarthakmehta/kart-compare/backend/internal/models"
)

const (
	DefaultTrendWindowDays  = 7
	DefaultSeriesWindowDays = 30
	DefaultRetentionDays    = 90
)

// Store wraps the backing database with the history operations. Grouping is
// by exact product name: callers must persist the same normalized name for
// the same logical product or trends will fragment.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Record appends one immutable price sample stamped now. History is
// best-effort: callers log and swallow the returned error rather than
// failing a comparison over it.
func (s *Store) Record(productName string, platform models.Platform, price float64) error {
	return s.recordAt(productName, platform, price, time.Now())
}

func (s *Store) recordAt(productName string, platform models.Platform, price float64, ts time.Time) error {
	row := models.PriceHistory{
		ProductName: productName,
		Platform:    platform,
		Price:       price,
		Timestamp:   ts,
	}
	if err := s.db.Create(&row).Error; err != nil {
		metrics.HistoryWriteFailures.Inc()
		return err
	}
	metrics.HistoryWritesTotal.Inc()
	return nil
}

// Trend returns avg/min/max/count per platform for one product over the
// trailing window. Platforms with no samples in the window are omitted.
// Non-positive windows fall back to the default; read failures degrade to
// an empty result.
func (s *Store) Trend(productName string, windowDays int) map[models.Platform]models.TrendSummary {
	if windowDays <= 0 {
		windowDays = DefaultTrendWindowDays
	}
	cutoff := time.Now().AddDate(0, 0, -windowDays)

	var rows []struct {
		Platform   models.Platform
		AvgPrice   float64
		MinPrice   float64
		MaxPrice   float64
		DataPoints int
	}

	err := s.db.Model(&models.PriceHistory{}).
		Select("platform, AVG(price) as avg_price, MIN(price) as min_price, MAX(price) as max_price, COUNT(*) as data_points").
		Where("product_name = ? AND timestamp >= ?", productName, cutoff).
		Group("platform").
		Scan(&rows).Error
	if err != nil {
		log.Printf("History store: trend query for %q failed: %v", productName, err)
		return map[models.Platform]models.TrendSummary{}
	}

	trends := make(map[models.Platform]models.TrendSummary, len(rows))
	for _, r := range rows {
		trends[r.Platform] = models.TrendSummary{
			AvgPrice:   round2(r.AvgPrice),
			MinPrice:   round2(r.MinPrice),
			MaxPrice:   round2(r.MaxPrice),
			DataPoints: r.DataPoints,
		}
	}
	return trends
}

// DailySeries returns one product's price series on one platform, bucketed
// by calendar day (mean price per day), ascending by date. Days with no
// samples produce no bucket. Read failures degrade to an empty series.
func (s *Store) DailySeries(productName string, platform models.Platform, windowDays int) []models.DailyPrice {
	if windowDays <= 0 {
		windowDays = DefaultSeriesWindowDays
	}
	cutoff := time.Now().AddDate(0, 0, -windowDays)

	var rows []struct {
		Date     string
		AvgPrice float64
	}

	err := s.db.Model(&models.PriceHistory{}).
		Select("DATE(timestamp) as date, AVG(price) as avg_price").
		Where("product_name = ? AND platform = ? AND timestamp >= ?", productName, platform, cutoff).
		Group("DATE(timestamp)").
		Order("DATE(timestamp) ASC").
		Scan(&rows).Error
	if err != nil {
		log.Printf("History store: daily series query for %q/%s failed: %v", productName, platform, err)
		return []models.DailyPrice{}
	}

	series := make([]models.DailyPrice, 0, len(rows))
	for _, r := range rows {
		series = append(series, models.DailyPrice{
			Date:  r.Date,
			Price: round2(r.AvgPrice),
		})
	}
	return series
}

// Prune deletes all records strictly older than the retention cutoff and
// returns the number deleted. Safe to run concurrently with reads and
// writes; only rows older than the cutoff at call time are touched.
func (s *Store) Prune(retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	result := s.db.Where("timestamp < ?", cutoff).Delete(&models.PriceHistory{})
	if result.Error != nil {
		return 0, result.Error
	}

	metrics.HistoryPrunedTotal.Add(float64(result.RowsAffected))
	return result.RowsAffected, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
