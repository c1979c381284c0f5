package labels

import (
	"strings"

	"shiplabel/internal/models"
	"shiplabel/pkg/easypost"
)

// filterRates returns the quotes whose carrier matches (case-insensitive),
// projected for the quote-only endpoint. Upstream order is preserved; no
// match yields an empty slice, not an error.
func filterRates(rates []easypost.Rate, carrier string) []models.RateOption {
	options := make([]models.RateOption, 0, len(rates))
	for _, r := range rates {
		if !strings.EqualFold(r.Carrier, carrier) {
			continue
		}
		options = append(options, models.RateOption{
			ID:           r.ID,
			Carrier:      r.Carrier,
			Service:      r.Service,
			Rate:         r.Rate,
			DeliveryDays: r.DeliveryDays,
		})
	}
	return options
}

// cheapestRate picks the lowest-priced quote for the carrier. Prices compare
// as exact decimals; a tie keeps the earlier quote. An empty filtered set is
// models.ErrNoEligibleRate and the purchase flow must stop before buying.
func cheapestRate(rates []easypost.Rate, carrier string) (*easypost.Rate, error) {
	var cheapest *easypost.Rate
	for i := range rates {
		r := &rates[i]
		if !strings.EqualFold(r.Carrier, carrier) {
			continue
		}
		if cheapest == nil || r.Rate.LessThan(cheapest.Rate) {
			cheapest = r
		}
	}
	if cheapest == nil {
		return nil, models.ErrNoEligibleRate
	}
	return cheapest, nil
}
