package easypost

import "github.com/shopspring/decimal"

// Address is the EasyPost address resource. Country is always "US" for this
// application; the normalizer enforces that.
type Address struct {
	ID      string  `json:"id,omitempty"`
	Name    string  `json:"name"`
	Company *string `json:"company,omitempty"`
	Street1 string  `json:"street1"`
	Street2 *string `json:"street2,omitempty"`
	City    string  `json:"city"`
	State   string  `json:"state"`
	Zip     string  `json:"zip"`
	Country string  `json:"country"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
}

// Parcel is the EasyPost parcel resource. Weight is in ounces and always
// present; dimensions are in inches and omitted when not supplied.
type Parcel struct {
	ID     string   `json:"id,omitempty"`
	Weight float64  `json:"weight"`
	Length *float64 `json:"length,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

// Rate is one priced service quote attached to a shipment. EasyPost sends the
// price as a string; decimal.Decimal parses it without binary rounding.
type Rate struct {
	ID           string          `json:"id"`
	Carrier      string          `json:"carrier"`
	Service      string          `json:"service"`
	Rate         decimal.Decimal `json:"rate"`
	DeliveryDays *int            `json:"delivery_days"`
}

// PostageLabel holds the purchased label artifacts.
type PostageLabel struct {
	ID          string  `json:"id"`
	LabelURL    string  `json:"label_url"`
	LabelPdfURL *string `json:"label_pdf_url"`
	LabelPngURL *string `json:"label_png_url"`
}

// Shipment is the EasyPost shipment resource as a plain value snapshot; it
// carries no live connection back to the API.
type Shipment struct {
	ID           string        `json:"id"`
	Rates        []Rate        `json:"rates"`
	SelectedRate *Rate         `json:"selected_rate"`
	TrackingCode string        `json:"tracking_code"`
	PostageLabel *PostageLabel `json:"postage_label"`
	RefundStatus string        `json:"refund_status"`
}
