package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LabelStatus is the lifecycle state of a shipping label.
type LabelStatus string

const (
	LabelStatusCreated   LabelStatus = "created"
	LabelStatusPurchased LabelStatus = "purchased"
	LabelStatusCancelled LabelStatus = "cancelled"
	// LabelStatusFailed is reserved for purchase attempts that did not
	// complete; no current flow sets it.
	LabelStatusFailed LabelStatus = "failed"
)

// ShippingLabel is one purchased (or attempted) shipment record. US-only
// addresses; weight in ounces, dimensions in inches.
type ShippingLabel struct {
	ID                 int64  `json:"id" db:"id"`
	UserID             string `json:"user_id" db:"user_id"`
	EasypostShipmentID string `json:"easypost_shipment_id" db:"easypost_shipment_id"`

	FromName    string  `json:"from_name" db:"from_name"`
	FromCompany *string `json:"from_company,omitempty" db:"from_company"`
	FromStreet1 string  `json:"from_street1" db:"from_street1"`
	FromStreet2 *string `json:"from_street2,omitempty" db:"from_street2"`
	FromCity    string  `json:"from_city" db:"from_city"`
	FromState   string  `json:"from_state" db:"from_state"`
	FromZip     string  `json:"from_zip" db:"from_zip"`
	FromCountry string  `json:"from_country" db:"from_country"`
	FromPhone   *string `json:"from_phone,omitempty" db:"from_phone"`

	ToName    string  `json:"to_name" db:"to_name"`
	ToCompany *string `json:"to_company,omitempty" db:"to_company"`
	ToStreet1 string  `json:"to_street1" db:"to_street1"`
	ToStreet2 *string `json:"to_street2,omitempty" db:"to_street2"`
	ToCity    string  `json:"to_city" db:"to_city"`
	ToState   string  `json:"to_state" db:"to_state"`
	ToZip     string  `json:"to_zip" db:"to_zip"`
	ToCountry string  `json:"to_country" db:"to_country"`
	ToPhone   *string `json:"to_phone,omitempty" db:"to_phone"`

	Weight float64  `json:"weight" db:"weight"`
	Length *float64 `json:"length,omitempty" db:"length"`
	Width  *float64 `json:"width,omitempty" db:"width"`
	Height *float64 `json:"height,omitempty" db:"height"`

	Carrier      string          `json:"carrier" db:"carrier"`
	Service      string          `json:"service" db:"service"`
	Rate         decimal.Decimal `json:"rate" db:"rate"`
	TrackingCode *string         `json:"tracking_code,omitempty" db:"tracking_code"`
	LabelURL     *string         `json:"label_url,omitempty" db:"label_url"`
	LabelPdfURL  *string         `json:"label_pdf_url,omitempty" db:"label_pdf_url"`
	LabelPngURL  *string         `json:"label_png_url,omitempty" db:"label_png_url"`
	Status       LabelStatus     `json:"status" db:"status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateLabelRequest carries the form data for both the purchase and the
// quote-only endpoints. US addresses only; the zipcode rule is registered in
// pkg/utils.
type CreateLabelRequest struct {
	FromName    string   `json:"from_name" form:"from_name" validate:"required,max=255"`
	FromCompany *string  `json:"from_company,omitempty" form:"from_company" validate:"omitempty,max=255"`
	FromStreet1 string   `json:"from_street1" form:"from_street1" validate:"required,max=255"`
	FromStreet2 *string  `json:"from_street2,omitempty" form:"from_street2" validate:"omitempty,max=255"`
	FromCity    string   `json:"from_city" form:"from_city" validate:"required,max=255"`
	FromState   string   `json:"from_state" form:"from_state" validate:"required,len=2,uppercase,alpha"`
	FromZip     string   `json:"from_zip" form:"from_zip" validate:"required,zipcode"`
	FromPhone   *string  `json:"from_phone,omitempty" form:"from_phone" validate:"omitempty,max=20"`
	FromEmail   *string  `json:"from_email,omitempty" form:"from_email" validate:"omitempty,email"`

	ToName    string  `json:"to_name" form:"to_name" validate:"required,max=255"`
	ToCompany *string `json:"to_company,omitempty" form:"to_company" validate:"omitempty,max=255"`
	ToStreet1 string  `json:"to_street1" form:"to_street1" validate:"required,max=255"`
	ToStreet2 *string `json:"to_street2,omitempty" form:"to_street2" validate:"omitempty,max=255"`
	ToCity    string  `json:"to_city" form:"to_city" validate:"required,max=255"`
	ToState   string  `json:"to_state" form:"to_state" validate:"required,len=2,uppercase,alpha"`
	ToZip     string  `json:"to_zip" form:"to_zip" validate:"required,zipcode"`
	ToPhone   *string `json:"to_phone,omitempty" form:"to_phone" validate:"omitempty,max=20"`
	ToEmail   *string `json:"to_email,omitempty" form:"to_email" validate:"omitempty,email"`

	// Weight is in ounces (1120 oz = 70 lbs), dimensions in inches.
	Weight float64  `json:"weight" form:"weight" validate:"required,gte=0.1,lte=1120"`
	Length *float64 `json:"length,omitempty" form:"length" validate:"omitempty,gte=0.1,lte=108"`
	Width  *float64 `json:"width,omitempty" form:"width" validate:"omitempty,gte=0.1,lte=108"`
	Height *float64 `json:"height,omitempty" form:"height" validate:"omitempty,gte=0.1,lte=108"`
}

// LabelFilters narrows a label listing. Search matches as a case-insensitive
// substring across tracking code, status, from/to name and from/to city.
type LabelFilters struct {
	Search string
	Status string
}

// LabelStats is the per-user dashboard aggregate, computed fresh per call.
type LabelStats struct {
	Total      int             `json:"total"`
	Active     int             `json:"active"`
	Cancelled  int             `json:"cancelled"`
	TotalSpent decimal.Decimal `json:"total_spent"`
}

// RateOption is a quoted rate projected for the quote-only endpoint.
type RateOption struct {
	ID           string          `json:"id"`
	Carrier      string          `json:"carrier"`
	Service      string          `json:"service"`
	Rate         decimal.Decimal `json:"rate"`
	DeliveryDays *int            `json:"delivery_days"`
}
