package easypost

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddress() Address {
	return Address{
		Name:    "Alice Sender",
		Street1: "417 Montgomery St",
		City:    "San Francisco",
		State:   "CA",
		Zip:     "94104",
		Country: "US",
	}
}

func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for path, handler := range handlers {
		mux.HandleFunc(path, handler)
	}
	return httptest.NewServer(mux)
}

func TestCreateShipment_CreatesResourcesAndParsesRates(t *testing.T) {
	var shipmentBody map[string]interface{}

	server := newTestServer(t, map[string]http.HandlerFunc{
		"/addresses": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			user, _, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "test_key", user)

			var body map[string]Address
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "US", body["address"].Country)

			addr := body["address"]
			addr.ID = "adr_" + addr.City
			json.NewEncoder(w).Encode(addr)
		},
		"/parcels": func(w http.ResponseWriter, r *http.Request) {
			var body map[string]Parcel
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, 16.0, body["parcel"].Weight)

			parcel := body["parcel"]
			parcel.ID = "prcl_1"
			json.NewEncoder(w).Encode(parcel)
		},
		"/shipments": func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&shipmentBody))
			w.Write([]byte(`{
				"id": "shp_123",
				"rates": [
					{"id": "rate_1", "carrier": "USPS", "service": "First", "rate": "5.20", "delivery_days": 3},
					{"id": "rate_2", "carrier": "USPS", "service": "Priority", "rate": "8.15", "delivery_days": null}
				]
			}`))
		},
	})
	defer server.Close()

	client := NewClientWithBaseURL("test_key", server.URL)
	to := testAddress()
	to.City = "New York"

	shipment, err := client.CreateShipment(context.Background(), testAddress(), to, Parcel{Weight: 16})

	require.NoError(t, err)
	assert.Equal(t, "shp_123", shipment.ID)
	require.Len(t, shipment.Rates, 2)

	assert.True(t, shipment.Rates[0].Rate.Equal(decimal.RequireFromString("5.20")))
	require.NotNil(t, shipment.Rates[0].DeliveryDays)
	assert.Equal(t, 3, *shipment.Rates[0].DeliveryDays)
	assert.Nil(t, shipment.Rates[1].DeliveryDays)

	// The shipment request must reference the created resources by id.
	inner := shipmentBody["shipment"].(map[string]interface{})
	assert.Equal(t, "adr_San Francisco", inner["from_address"].(map[string]interface{})["id"])
	assert.Equal(t, "adr_New York", inner["to_address"].(map[string]interface{})["id"])
	assert.Equal(t, "prcl_1", inner["parcel"].(map[string]interface{})["id"])
}

func TestCreateShipment_UpstreamValidationFailure(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		"/addresses": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"error": {"message": "Invalid zip code"}}`))
		},
	})
	defer server.Close()

	client := NewClientWithBaseURL("test_key", server.URL)

	shipment, err := client.CreateShipment(context.Background(), testAddress(), testAddress(), Parcel{Weight: 16})

	assert.Nil(t, shipment)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "Invalid zip code", apiErr.Message)
}

func TestBuyShipment_ParsesPurchaseOutcome(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		"/shipments/shp_123/buy": func(w http.ResponseWriter, r *http.Request) {
			var body map[string]map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "rate_1", body["rate"]["id"])

			w.Write([]byte(`{
				"id": "shp_123",
				"tracking_code": "9400111899560000000001",
				"selected_rate": {"id": "rate_1", "carrier": "USPS", "service": "First", "rate": "4.10"},
				"postage_label": {
					"id": "pl_1",
					"label_url": "https://example.com/label.png",
					"label_pdf_url": "https://example.com/label.pdf"
				}
			}`))
		},
	})
	defer server.Close()

	client := NewClientWithBaseURL("test_key", server.URL)

	shipment, err := client.BuyShipment(context.Background(), "shp_123", Rate{ID: "rate_1"})

	require.NoError(t, err)
	assert.Equal(t, "9400111899560000000001", shipment.TrackingCode)
	require.NotNil(t, shipment.SelectedRate)
	assert.True(t, shipment.SelectedRate.Rate.Equal(decimal.RequireFromString("4.10")))
	require.NotNil(t, shipment.PostageLabel)
	assert.Equal(t, "https://example.com/label.png", shipment.PostageLabel.LabelURL)
	require.NotNil(t, shipment.PostageLabel.LabelPdfURL)
	assert.Equal(t, "https://example.com/label.pdf", *shipment.PostageLabel.LabelPdfURL)
}

func TestRefundShipment_PolicyRejectionIsNotAnError(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		"/shipments/shp_123/refund": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"error": {"message": "This shipment is not eligible for refund"}}`))
		},
	})
	defer server.Close()

	client := NewClientWithBaseURL("test_key", server.URL)

	refunded, err := client.RefundShipment(context.Background(), "shp_123")

	require.NoError(t, err)
	assert.False(t, refunded)
}

func TestRefundShipment_Accepted(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		"/shipments/shp_123/refund": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id": "shp_123", "refund_status": "submitted"}`))
		},
	})
	defer server.Close()

	client := NewClientWithBaseURL("test_key", server.URL)

	refunded, err := client.RefundShipment(context.Background(), "shp_123")

	require.NoError(t, err)
	assert.True(t, refunded)
}

func TestRefundShipment_ServerErrorPropagates(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		"/shipments/shp_123/refund": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
	})
	defer server.Close()

	client := NewClientWithBaseURL("test_key", server.URL)

	refunded, err := client.RefundShipment(context.Background(), "shp_123")

	assert.False(t, refunded)
	require.Error(t, err)
}

func TestRefundShipment_AuthFailurePropagates(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		"/shipments/shp_123/refund": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": {"message": "Invalid API key"}}`))
		},
	})
	defer server.Close()

	client := NewClientWithBaseURL("test_key", server.URL)

	refunded, err := client.RefundShipment(context.Background(), "shp_123")

	assert.False(t, refunded)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}
