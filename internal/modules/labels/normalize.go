package labels

import (
	"shiplabel/internal/models"
	"shiplabel/pkg/easypost"
)

// formatFromAddress maps the from_* form fields into the upstream address
// shape. Country is always "US" regardless of input; only domestic shipments
// are supported.
func formatFromAddress(req models.CreateLabelRequest) easypost.Address {
	return easypost.Address{
		Name:    req.FromName,
		Company: req.FromCompany,
		Street1: req.FromStreet1,
		Street2: req.FromStreet2,
		City:    req.FromCity,
		State:   req.FromState,
		Zip:     req.FromZip,
		Country: "US",
		Phone:   req.FromPhone,
		Email:   req.FromEmail,
	}
}

// formatToAddress maps the to_* form fields into the upstream address shape.
func formatToAddress(req models.CreateLabelRequest) easypost.Address {
	return easypost.Address{
		Name:    req.ToName,
		Company: req.ToCompany,
		Street1: req.ToStreet1,
		Street2: req.ToStreet2,
		City:    req.ToCity,
		State:   req.ToState,
		Zip:     req.ToZip,
		Country: "US",
		Phone:   req.ToPhone,
		Email:   req.ToEmail,
	}
}

// formatParcel maps the parcel form fields into the upstream parcel shape.
// Weight (ounces) is always carried over; dimensions (inches) are included
// only when supplied. No rounding or unit conversion happens here.
func formatParcel(req models.CreateLabelRequest) easypost.Parcel {
	return easypost.Parcel{
		Weight: req.Weight,
		Length: req.Length,
		Width:  req.Width,
		Height: req.Height,
	}
}
