package collector

import (
	"fmt"
	"log"
	"time"

	"github.com/RestaurantDev/ViceVault/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Series []model.PricePoint
	Err    error
	Calls  int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyHistory(_ string, years int) ([]model.PricePoint, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Series != nil {
		return m.Series, nil
	}
	return generateMockSeries(100, years), nil
}

func generateMockSeries(basePrice float64, years int) []model.PricePoint {
	if years <= 0 {
		years = 1
	}
	days := years * 252
	series := make([]model.PricePoint, days)
	for i := 0; i < days; i++ {
		series[i] = model.PricePoint{
			Date:  model.Midnight(time.Now().UTC().AddDate(0, 0, -(days - i))),
			Close: basePrice * (1 + float64(i-days/2)*0.0001),
		}
	}
	return series
}

// Cache reads and writes fetched series; the persisted store implements it.
type Cache interface {
	PriceSeries(symbol string) (model.CachedSeries, bool)
	SetPriceSeries(symbol string, series model.CachedSeries)
}

// Collector serves price history with a fixed degradation order: fresh cache,
// then the primary source, then a stale cache entry, then synthetic data. The
// simulator therefore always receives a non-empty series.
type Collector struct {
	Primary  Fetcher
	Fallback Fetcher
	Cache    Cache
	Lookback int           // years of history, default 5
	MaxAge   time.Duration // cache freshness window, default 24h
}

// NewCollector creates a new Collector.
func NewCollector(primary, fallback Fetcher, cache Cache, lookbackYears int) *Collector {
	return &Collector{Primary: primary, Fallback: fallback, Cache: cache, Lookback: lookbackYears}
}

func (c *Collector) lookback() int {
	if c.Lookback <= 0 {
		return 5
	}
	return c.Lookback
}

func (c *Collector) maxAge() time.Duration {
	if c.MaxAge <= 0 {
		return 24 * time.Hour
	}
	return c.MaxAge
}

// History returns daily closes for the symbol. It never fails: when the
// primary source and the cache both come up empty the synthetic fallback
// supplies the series.
func (c *Collector) History(symbol string) []model.PricePoint {
	if cached, ok := c.cached(symbol); ok && time.Since(cached.FetchedAt) < c.maxAge() {
		return cached.Series
	}

	series, err := c.fetch(symbol)
	if err == nil {
		return series
	}
	log.Printf("[WARN] price fetch for %s via %s failed: %v", symbol, c.Primary.Name(), err)

	if cached, ok := c.cached(symbol); ok {
		log.Printf("[INFO] serving stale cached history for %s, fetched %s", symbol, cached.FetchedAt.Format(time.RFC3339))
		return cached.Series
	}

	log.Printf("[WARN] no cached history for %s, generating synthetic series", symbol)
	series, err = c.Fallback.FetchDailyHistory(symbol, c.lookback())
	if err != nil {
		log.Printf("[ERROR] synthetic fallback for %s failed: %v", symbol, err)
		return nil
	}
	return series
}

// Refresh fetches from the primary source unconditionally and caches the
// result. Used by the scheduled refresh job; failures surface to the caller
// instead of degrading to fallback data.
func (c *Collector) Refresh(symbol string) error {
	_, err := c.fetch(symbol)
	if err != nil {
		return fmt.Errorf("refresh %s: %w", symbol, err)
	}
	return nil
}

func (c *Collector) cached(symbol string) (model.CachedSeries, bool) {
	if c.Cache == nil {
		return model.CachedSeries{}, false
	}
	cached, ok := c.Cache.PriceSeries(symbol)
	if !ok || len(cached.Series) == 0 {
		return model.CachedSeries{}, false
	}
	return cached, true
}

func (c *Collector) fetch(symbol string) ([]model.PricePoint, error) {
	series, err := c.Primary.FetchDailyHistory(symbol, c.lookback())
	if err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("%s returned no data for %s", c.Primary.Name(), symbol)
	}
	if c.Cache != nil {
		c.Cache.SetPriceSeries(symbol, model.CachedSeries{Series: series, FetchedAt: time.Now().UTC()})
	}
	return series, nil
}
