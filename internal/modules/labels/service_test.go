package labels

import (
	"context"
	"testing"

	"shiplabel/internal/models"
	"shiplabel/pkg/easypost"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockShipmentClient is a hand-rolled fake for the upstream broker.
type mockShipmentClient struct {
	shipment  *easypost.Shipment
	createErr error

	bought  *easypost.Shipment
	buyErr  error
	buyCall *easypost.Rate

	refundResult bool
	refundErr    error
	refundCalled bool
}

func (m *mockShipmentClient) CreateShipment(ctx context.Context, from, to easypost.Address, parcel easypost.Parcel) (*easypost.Shipment, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.shipment, nil
}

func (m *mockShipmentClient) BuyShipment(ctx context.Context, shipmentID string, r easypost.Rate) (*easypost.Shipment, error) {
	m.buyCall = &r
	if m.buyErr != nil {
		return nil, m.buyErr
	}
	return m.bought, nil
}

func (m *mockShipmentClient) RefundShipment(ctx context.Context, shipmentID string) (bool, error) {
	m.refundCalled = true
	return m.refundResult, m.refundErr
}

// mockRepository is a hand-rolled fake for the label store.
type mockRepository struct {
	created   *models.ShippingLabel
	createErr error

	findResult *models.ShippingLabel
	findErr    error

	listPage  int
	listLimit int

	updatedStatus *models.LabelStatus

	stats *models.LabelStats
}

func (m *mockRepository) Create(ctx context.Context, label *models.ShippingLabel) (*models.ShippingLabel, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = label
	stored := *label
	stored.ID = 1
	return &stored, nil
}

func (m *mockRepository) FindByIDForUser(ctx context.Context, userID string, labelID int64) (*models.ShippingLabel, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.findResult, nil
}

func (m *mockRepository) ListByUser(ctx context.Context, userID string, filters models.LabelFilters, page, limit int) ([]*models.ShippingLabel, int, error) {
	m.listPage = page
	m.listLimit = limit
	return nil, 0, nil
}

func (m *mockRepository) UpdateStatusForUser(ctx context.Context, userID string, labelID int64, status models.LabelStatus) error {
	m.updatedStatus = &status
	return nil
}

func (m *mockRepository) StatsForUser(ctx context.Context, userID string) (*models.LabelStats, error) {
	return m.stats, nil
}

func quotedShipment() *easypost.Shipment {
	return &easypost.Shipment{
		ID: "shp_123",
		Rates: []easypost.Rate{
			rate("rate_priority", "USPS", "Priority", "5.20"),
			rate("rate_first", "USPS", "First", "4.10"),
			rate("rate_ups", "UPS", "Ground", "9.00"),
		},
	}
}

func boughtShipment() *easypost.Shipment {
	selected := rate("rate_first", "USPS", "First", "4.10")
	pdf := "https://example.com/label.pdf"
	return &easypost.Shipment{
		ID:           "shp_123",
		SelectedRate: &selected,
		TrackingCode: "9400111899560000000001",
		PostageLabel: &easypost.PostageLabel{
			ID:          "pl_1",
			LabelURL:    "https://example.com/label.png",
			LabelPdfURL: &pdf,
		},
	}
}

func TestCreateLabel_PurchasesCheapestEligibleRate(t *testing.T) {
	client := &mockShipmentClient{shipment: quotedShipment(), bought: boughtShipment()}
	repo := &mockRepository{}
	svc := NewService(repo, client, nil, nil, "USPS")

	label, err := svc.CreateLabel(context.Background(), "user-1", "alice@example.com", validRequest())

	require.NoError(t, err)
	require.NotNil(t, client.buyCall)
	assert.Equal(t, "rate_first", client.buyCall.ID)

	assert.Equal(t, int64(1), label.ID)
	assert.Equal(t, "user-1", label.UserID)
	assert.Equal(t, "shp_123", label.EasypostShipmentID)
	assert.Equal(t, "USPS", label.Carrier)
	assert.Equal(t, "First", label.Service)
	assert.True(t, label.Rate.Equal(decimal.RequireFromString("4.10")))
	assert.Equal(t, models.LabelStatusPurchased, label.Status)
	require.NotNil(t, label.TrackingCode)
	assert.Equal(t, "9400111899560000000001", *label.TrackingCode)
	require.NotNil(t, label.LabelURL)
	assert.Equal(t, "https://example.com/label.png", *label.LabelURL)
	assert.Equal(t, "US", label.FromCountry)
	assert.Equal(t, "US", label.ToCountry)
}

func TestCreateLabel_NoEligibleRateStopsBeforeBuy(t *testing.T) {
	client := &mockShipmentClient{
		shipment: &easypost.Shipment{
			ID:    "shp_456",
			Rates: []easypost.Rate{rate("rate_ups", "UPS", "Ground", "9.00")},
		},
	}
	repo := &mockRepository{}
	svc := NewService(repo, client, nil, nil, "USPS")

	label, err := svc.CreateLabel(context.Background(), "user-1", "", validRequest())

	assert.Nil(t, label)
	assert.ErrorIs(t, err, models.ErrNoEligibleRate)
	assert.Nil(t, client.buyCall, "purchase must not be attempted")
	assert.Nil(t, repo.created, "no local record may be written")
}

func TestCreateLabel_BuyFailureWritesNothing(t *testing.T) {
	client := &mockShipmentClient{
		shipment: quotedShipment(),
		buyErr:   &easypost.APIError{StatusCode: 422, Message: "rate is no longer purchasable"},
	}
	repo := &mockRepository{}
	svc := NewService(repo, client, nil, nil, "USPS")

	label, err := svc.CreateLabel(context.Background(), "user-1", "", validRequest())

	assert.Nil(t, label)
	var apiErr *easypost.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Nil(t, repo.created)
}

func TestGetRates_ReturnsCarrierFilteredQuotes(t *testing.T) {
	client := &mockShipmentClient{shipment: quotedShipment()}
	svc := NewService(&mockRepository{}, client, nil, nil, "USPS")

	options, err := svc.GetRates(context.Background(), validRequest())

	require.NoError(t, err)
	require.Len(t, options, 2)
	assert.Equal(t, "rate_priority", options[0].ID)
	assert.Equal(t, "rate_first", options[1].ID)
	assert.Nil(t, client.buyCall, "quote-only flow never purchases")
}

func TestCancelLabel_RefundAcceptedMarksCancelled(t *testing.T) {
	client := &mockShipmentClient{refundResult: true}
	repo := &mockRepository{
		findResult: &models.ShippingLabel{
			ID:                 7,
			UserID:             "user-1",
			EasypostShipmentID: "shp_123",
			Status:             models.LabelStatusPurchased,
		},
	}
	svc := NewService(repo, client, nil, nil, "USPS")

	err := svc.CancelLabel(context.Background(), "user-1", 7)

	require.NoError(t, err)
	assert.True(t, client.refundCalled)
	require.NotNil(t, repo.updatedStatus)
	assert.Equal(t, models.LabelStatusCancelled, *repo.updatedStatus)
}

func TestCancelLabel_RefundRejectedLeavesStatus(t *testing.T) {
	client := &mockShipmentClient{refundResult: false}
	repo := &mockRepository{
		findResult: &models.ShippingLabel{
			ID:                 7,
			UserID:             "user-1",
			EasypostShipmentID: "shp_123",
			Status:             models.LabelStatusPurchased,
		},
	}
	svc := NewService(repo, client, nil, nil, "USPS")

	err := svc.CancelLabel(context.Background(), "user-1", 7)

	assert.ErrorIs(t, err, models.ErrNotRefundable)
	assert.Nil(t, repo.updatedStatus, "status must stay unchanged")
}

func TestCancelLabel_TransportFailureIsNotARejection(t *testing.T) {
	client := &mockShipmentClient{refundErr: &easypost.APIError{StatusCode: 503, Message: "upstream unavailable"}}
	repo := &mockRepository{
		findResult: &models.ShippingLabel{ID: 7, UserID: "user-1", Status: models.LabelStatusPurchased},
	}
	svc := NewService(repo, client, nil, nil, "USPS")

	err := svc.CancelLabel(context.Background(), "user-1", 7)

	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrNotRefundable)
	assert.Nil(t, repo.updatedStatus)
}

func TestCancelLabel_AlreadyCancelled(t *testing.T) {
	client := &mockShipmentClient{refundResult: true}
	repo := &mockRepository{
		findResult: &models.ShippingLabel{ID: 7, UserID: "user-1", Status: models.LabelStatusCancelled},
	}
	svc := NewService(repo, client, nil, nil, "USPS")

	err := svc.CancelLabel(context.Background(), "user-1", 7)

	assert.ErrorIs(t, err, models.ErrAlreadyCancelled)
	assert.False(t, client.refundCalled)
}

func TestCancelLabel_NotFound(t *testing.T) {
	client := &mockShipmentClient{}
	repo := &mockRepository{findErr: models.ErrNotFound}
	svc := NewService(repo, client, nil, nil, "USPS")

	err := svc.CancelLabel(context.Background(), "user-1", 99)

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.False(t, client.refundCalled)
}

func TestListLabels_ClampsPageAndLimit(t *testing.T) {
	repo := &mockRepository{}
	svc := NewService(repo, &mockShipmentClient{}, nil, nil, "USPS")

	_, _, err := svc.ListLabels(context.Background(), "user-1", models.LabelFilters{}, 0, 500)

	require.NoError(t, err)
	assert.Equal(t, 1, repo.listPage)
	assert.Equal(t, 20, repo.listLimit)
}

func TestGetStats_PassesThrough(t *testing.T) {
	repo := &mockRepository{
		stats: &models.LabelStats{
			Total:      25,
			Active:     20,
			Cancelled:  5,
			TotalSpent: decimal.RequireFromString("104.50"),
		},
	}
	svc := NewService(repo, &mockShipmentClient{}, nil, nil, "USPS")

	stats, err := svc.GetStats(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, 25, stats.Total)
	assert.True(t, stats.TotalSpent.Equal(decimal.RequireFromString("104.50")))
}
