package collector

import "github.com/RestaurantDev/ViceVault/internal/model"

// Fetcher defines the interface for fetching historical price data.
type Fetcher interface {
	// FetchDailyHistory returns daily closes for the symbol covering roughly
	// the given number of years, ascending by date.
	FetchDailyHistory(symbol string, years int) ([]model.PricePoint, error)
	Name() string
}
