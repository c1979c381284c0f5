package labels

import (
	"testing"

	"shiplabel/internal/models"
	"shiplabel/pkg/easypost"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rate(id, carrier, service, price string) easypost.Rate {
	return easypost.Rate{
		ID:      id,
		Carrier: carrier,
		Service: service,
		Rate:    decimal.RequireFromString(price),
	}
}

func TestFilterRates_MatchingCarrierPreservesOrder(t *testing.T) {
	rates := []easypost.Rate{
		rate("rate_1", "USPS", "Priority", "8.15"),
		rate("rate_2", "UPS", "Ground", "9.00"),
		rate("rate_3", "USPS", "First", "5.20"),
	}

	options := filterRates(rates, "USPS")

	require.Len(t, options, 2)
	assert.Equal(t, "rate_1", options[0].ID)
	assert.Equal(t, "rate_3", options[1].ID)
	assert.Equal(t, "First", options[1].Service)
}

func TestFilterRates_CarrierMatchIsCaseInsensitive(t *testing.T) {
	rates := []easypost.Rate{
		rate("rate_1", "usps", "First", "5.20"),
	}

	options := filterRates(rates, "USPS")

	require.Len(t, options, 1)
	assert.Equal(t, "usps", options[0].Carrier)
}

func TestFilterRates_NoMatchReturnsEmptySlice(t *testing.T) {
	rates := []easypost.Rate{
		rate("rate_1", "UPS", "Ground", "9.00"),
		rate("rate_2", "FedEx", "2Day", "12.50"),
	}

	options := filterRates(rates, "USPS")

	assert.NotNil(t, options)
	assert.Empty(t, options)
}

func TestCheapestRate_PicksMinimumPrice(t *testing.T) {
	rates := []easypost.Rate{
		rate("rate_1", "USPS", "Priority", "5.20"),
		rate("rate_2", "USPS", "First", "4.10"),
		rate("rate_3", "UPS", "Ground", "9.00"),
	}

	cheapest, err := cheapestRate(rates, "USPS")

	require.NoError(t, err)
	assert.Equal(t, "rate_2", cheapest.ID)
	assert.Equal(t, "First", cheapest.Service)
}

func TestCheapestRate_TieKeepsFirstOccurrence(t *testing.T) {
	rates := []easypost.Rate{
		rate("rate_1", "USPS", "Priority", "4.10"),
		rate("rate_2", "USPS", "First", "4.10"),
	}

	cheapest, err := cheapestRate(rates, "USPS")

	require.NoError(t, err)
	assert.Equal(t, "rate_1", cheapest.ID)
}

func TestCheapestRate_ExactDecimalComparison(t *testing.T) {
	// 0.1+0.2 style inputs must not mis-order under binary floats.
	rates := []easypost.Rate{
		rate("rate_1", "USPS", "Priority", "4.30"),
		rate("rate_2", "USPS", "First", "4.29"),
	}

	cheapest, err := cheapestRate(rates, "USPS")

	require.NoError(t, err)
	assert.Equal(t, "rate_2", cheapest.ID)
	assert.True(t, cheapest.Rate.Equal(decimal.RequireFromString("4.29")))
}

func TestCheapestRate_NoEligibleRate(t *testing.T) {
	rates := []easypost.Rate{
		rate("rate_1", "UPS", "Ground", "9.00"),
	}

	cheapest, err := cheapestRate(rates, "USPS")

	assert.Nil(t, cheapest)
	assert.ErrorIs(t, err, models.ErrNoEligibleRate)
}

func TestCheapestRate_EmptyInput(t *testing.T) {
	cheapest, err := cheapestRate(nil, "USPS")

	assert.Nil(t, cheapest)
	assert.ErrorIs(t, err, models.ErrNoEligibleRate)
}
