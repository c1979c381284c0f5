package labels

import (
	"encoding/json"
	"testing"

	"shiplabel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() models.CreateLabelRequest {
	return models.CreateLabelRequest{
		FromName:    "Alice Sender",
		FromStreet1: "417 Montgomery St",
		FromCity:    "San Francisco",
		FromState:   "CA",
		FromZip:     "94104",
		ToName:      "Bob Receiver",
		ToStreet1:   "179 N Harbor Dr",
		ToCity:      "New York",
		ToState:     "NY",
		ToZip:       "10001",
		Weight:      16,
	}
}

func TestFormatAddress_CountryIsAlwaysUS(t *testing.T) {
	req := validRequest()

	from := formatFromAddress(req)
	to := formatToAddress(req)

	assert.Equal(t, "US", from.Country)
	assert.Equal(t, "US", to.Country)
	assert.Equal(t, "Alice Sender", from.Name)
	assert.Equal(t, "San Francisco", from.City)
	assert.Equal(t, "Bob Receiver", to.Name)
	assert.Equal(t, "10001", to.Zip)
}

func TestFormatAddress_OptionalFieldsStayNil(t *testing.T) {
	req := validRequest()

	from := formatFromAddress(req)

	assert.Nil(t, from.Company)
	assert.Nil(t, from.Street2)
	assert.Nil(t, from.Phone)
	assert.Nil(t, from.Email)
}

func TestFormatParcel_WeightAlwaysPresent(t *testing.T) {
	req := validRequest()
	req.Weight = 3.5

	parcel := formatParcel(req)

	assert.Equal(t, 3.5, parcel.Weight)
	assert.Nil(t, parcel.Length)
	assert.Nil(t, parcel.Width)
	assert.Nil(t, parcel.Height)
}

func TestFormatParcel_OmitsAbsentDimensionsOnTheWire(t *testing.T) {
	req := validRequest()
	req.Weight = 3.5

	raw, err := json.Marshal(formatParcel(req))
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))

	assert.Equal(t, 3.5, fields["weight"])
	assert.NotContains(t, fields, "length")
	assert.NotContains(t, fields, "width")
	assert.NotContains(t, fields, "height")
}

func TestFormatParcel_CarriesDimensionsWhenPresent(t *testing.T) {
	req := validRequest()
	length := 10.0
	width := 7.5
	req.Length = &length
	req.Width = &width

	parcel := formatParcel(req)

	require.NotNil(t, parcel.Length)
	require.NotNil(t, parcel.Width)
	assert.Equal(t, 10.0, *parcel.Length)
	assert.Equal(t, 7.5, *parcel.Width)
	assert.Nil(t, parcel.Height)
}
