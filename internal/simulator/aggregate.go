package simulator

import (
	"time"

	"github.com/RestaurantDev/ViceVault/internal/model"
)

type yearMonth struct {
	year  int
	month time.Month
}

// AggregateByMonth downsamples a trajectory to one point per calendar month,
// keeping the last point seen for each month (a month-end snapshot). Output
// order follows input order, so a chronological trajectory stays
// chronological. Aggregating an already-aggregated series is a no-op.
func AggregateByMonth(points []model.PortfolioPoint) []model.PortfolioPoint {
	if len(points) == 0 {
		return nil
	}

	var order []yearMonth
	last := make(map[yearMonth]model.PortfolioPoint)
	for _, p := range points {
		y, m, _ := p.Date.UTC().Date()
		k := yearMonth{y, m}
		if _, seen := last[k]; !seen {
			order = append(order, k)
		}
		last[k] = p
	}

	out := make([]model.PortfolioPoint, 0, len(order))
	for _, k := range order {
		out = append(out, last[k])
	}
	return out
}
