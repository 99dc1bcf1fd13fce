package history

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sarthakmehta/kart-compare/backend/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open in-memory database: %v", err)
	}
	if err := db.AutoMigrate(&models.PriceHistory{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewStore(db)
}

func daysAgo(n int) time.Time {
	return time.Now().AddDate(0, 0, -n)
}

func TestRecordTrendRoundTrip(t *testing.T) {
	store := newTestStore(t)

	if err := store.Record("milk 2L", models.PlatformZepto, 56); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	trends := store.Trend("milk 2L", 7)
	summary, ok := trends[models.PlatformZepto]
	if !ok {
		t.Fatal("recorded price missing from trend")
	}
	if summary.DataPoints != 1 {
		t.Errorf("data points %d, want 1", summary.DataPoints)
	}
	if summary.AvgPrice != 56 || summary.MinPrice != 56 || summary.MaxPrice != 56 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestTrendAggregatesByPlatform(t *testing.T) {
	store := newTestStore(t)

	// Two Zepto samples one day apart
	if err := store.recordAt("rice 5kg", models.PlatformZepto, 120, daysAgo(1)); err != nil {
		t.Fatalf("recordAt failed: %v", err)
	}
	if err := store.recordAt("rice 5kg", models.PlatformZepto, 130, daysAgo(0)); err != nil {
		t.Fatalf("recordAt failed: %v", err)
	}
	// One Blinkit sample, and an unrelated product
	if err := store.recordAt("rice 5kg", models.PlatformBlinkit, 118, daysAgo(2)); err != nil {
		t.Fatalf("recordAt failed: %v", err)
	}
	if err := store.Record("milk 2L", models.PlatformZepto, 56); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	trends := store.Trend("rice 5kg", 7)

	zepto, ok := trends[models.PlatformZepto]
	if !ok {
		t.Fatal("missing Zepto trend")
	}
	if zepto.AvgPrice != 125 || zepto.MinPrice != 120 || zepto.MaxPrice != 130 || zepto.DataPoints != 2 {
		t.Errorf("unexpected Zepto summary: %+v", zepto)
	}

	blinkit, ok := trends[models.PlatformBlinkit]
	if !ok {
		t.Fatal("missing Blinkit trend")
	}
	if blinkit.DataPoints != 1 || blinkit.AvgPrice != 118 {
		t.Errorf("unexpected Blinkit summary: %+v", blinkit)
	}

	// Platforms with no samples are omitted, not zero-valued
	if _, ok := trends[models.PlatformInstamart]; ok {
		t.Error("platform with no records should be omitted")
	}
}

func TestTrendExcludesRecordsOutsideWindow(t *testing.T) {
	store := newTestStore(t)

	if err := store.recordAt("milk 2L", models.PlatformZepto, 60, daysAgo(10)); err != nil {
		t.Fatalf("recordAt failed: %v", err)
	}
	if err := store.recordAt("milk 2L", models.PlatformZepto, 56, daysAgo(2)); err != nil {
		t.Fatalf("recordAt failed: %v", err)
	}

	trends := store.Trend("milk 2L", 7)
	summary := trends[models.PlatformZepto]
	if summary.DataPoints != 1 {
		t.Errorf("data points %d, want 1 (old record outside window)", summary.DataPoints)
	}
	if summary.AvgPrice != 56 {
		t.Errorf("avg %v, want 56", summary.AvgPrice)
	}
}

func TestTrendDefaultsNonPositiveWindow(t *testing.T) {
	store := newTestStore(t)

	if err := store.recordAt("milk 2L", models.PlatformZepto, 56, daysAgo(2)); err != nil {
		t.Fatalf("recordAt failed: %v", err)
	}

	// Non-positive windows are coerced to the 7-day default
	for _, window := range []int{0, -3} {
		trends := store.Trend("milk 2L", window)
		if summary := trends[models.PlatformZepto]; summary.DataPoints != 1 {
			t.Errorf("window %d: data points %d, want 1", window, summary.DataPoints)
		}
	}
}

func TestTrendIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	if err := store.Record("eggs 12", models.PlatformBlinkit, 82); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	first := store.Trend("eggs 12", 7)
	second := store.Trend("eggs 12", 7)

	if len(first) != len(second) {
		t.Fatalf("repeated reads differ in size: %d vs %d", len(first), len(second))
	}
	for platform, summary := range first {
		if second[platform] != summary {
			t.Errorf("%s: repeated reads differ: %+v vs %+v", platform, summary, second[platform])
		}
	}
}

func TestDailySeries(t *testing.T) {
	store := newTestStore(t)

	// Two samples on the older day, one on the newer
	if err := store.recordAt("milk 2L", models.PlatformZepto, 54, daysAgo(3)); err != nil {
		t.Fatalf("recordAt failed: %v", err)
	}
	if err := store.recordAt("milk 2L", models.PlatformZepto, 58, daysAgo(3)); err != nil {
		t.Fatalf("recordAt failed: %v", err)
	}
	if err := store.recordAt("milk 2L", models.PlatformZepto, 60, daysAgo(1)); err != nil {
		t.Fatalf("recordAt failed: %v", err)
	}
	// Other platform excluded
	if err := store.recordAt("milk 2L", models.PlatformBlinkit, 99, daysAgo(1)); err != nil {
		t.Fatalf("recordAt failed: %v", err)
	}

	series := store.DailySeries("milk 2L", models.PlatformZepto, 30)

	if len(series) != 2 {
		t.Fatalf("expected 2 daily buckets, got %d", len(series))
	}
	if series[0].Date >= series[1].Date {
		t.Errorf("series not ascending: %q then %q", series[0].Date, series[1].Date)
	}
	if series[0].Price != 56 {
		t.Errorf("older bucket mean %v, want 56", series[0].Price)
	}
	if series[1].Price != 60 {
		t.Errorf("newer bucket mean %v, want 60", series[1].Price)
	}

	again := store.DailySeries("milk 2L", models.PlatformZepto, 30)
	if len(again) != len(series) {
		t.Error("repeated series reads differ")
	}
}

func TestPruneRetention(t *testing.T) {
	store := newTestStore(t)

	ages := []int{10, 95, 200}
	for _, age := range ages {
		if err := store.recordAt("rice 5kg", models.PlatformZepto, 120, daysAgo(age)); err != nil {
			t.Fatalf("recordAt failed: %v", err)
		}
	}

	deleted, err := store.Prune(90)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted %d, want 2", deleted)
	}

	// The 10-day record survives
	trends := store.Trend("rice 5kg", 30)
	if summary := trends[models.PlatformZepto]; summary.DataPoints != 1 {
		t.Errorf("surviving data points %d, want 1", summary.DataPoints)
	}

	// Idempotent
	deleted, err = store.Prune(90)
	if err != nil {
		t.Fatalf("second Prune failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("second prune deleted %d, want 0", deleted)
	}
}

func TestPruneBoundaries(t *testing.T) {
	store := newTestStore(t)

	for _, age := range []int{1, 5, 50} {
		if err := store.recordAt("milk 2L", models.PlatformZepto, 56, daysAgo(age)); err != nil {
			t.Fatalf("recordAt failed: %v", err)
		}
	}

	// A huge retention window deletes nothing
	deleted, err := store.Prune(100000)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("huge retention deleted %d, want 0", deleted)
	}

	// Zero retention deletes everything
	deleted, err = store.Prune(0)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if deleted != 3 {
		t.Errorf("zero retention deleted %d, want 3", deleted)
	}

	if trends := store.Trend("milk 2L", 365); len(trends) != 0 {
		t.Errorf("expected empty trends after full prune, got %v", trends)
	}
}
