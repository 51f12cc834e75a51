package transport

import (
	"time"

	"github.com/google/uuid"
)

// SubmitRentalRequest is the multipart form for a new rental. Money fields are
// RM amounts as decimal strings ("150.00"); dates are YYYY-MM-DD.
type SubmitRentalRequest struct {
	CustomerID         string `form:"customerId" validate:"required,uuid"`
	Vehicle            string `form:"vehicle" validate:"required,max=200"`
	Color              string `form:"color" validate:"required,max=50"`
	MileageLimit       int    `form:"mileageLimit" validate:"gte=0"`
	ExtraMileageCharge string `form:"extraMileageCharge" validate:"omitempty,numeric"`
	FuelLevel          int    `form:"fuelLevel" validate:"fuellevel"`
	StartDate          string `form:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate            string `form:"endDate" validate:"required,datetime=2006-01-02"`
	RentalPerDay       string `form:"rentalPerDay" validate:"required,numeric"`
	Deposit            string `form:"deposit" validate:"omitempty,numeric"`
	Discount           string `form:"discount" validate:"omitempty,numeric"`
	SignatureData      string `form:"signatureData"`
}

// RentalResponse is the public view of a rental.
type RentalResponse struct {
	ID                 uuid.UUID         `json:"id"`
	CustomerID         uuid.UUID         `json:"customerId"`
	Vehicle            string            `json:"vehicle"`
	Color              string            `json:"color"`
	MileageLimit       int               `json:"mileageLimit"`
	ExtraMileageCharge string            `json:"extraMileageCharge"`
	FuelLevel          int               `json:"fuelLevel"`
	StartDate          string            `json:"startDate"`
	EndDate            string            `json:"endDate"`
	TotalDays          int               `json:"totalDays"`
	RentalPerDay       string            `json:"rentalPerDay"`
	Deposit            string            `json:"deposit"`
	Discount           string            `json:"discount"`
	GrandTotal         string            `json:"grandTotal"`
	VehiclePhotos      map[string]string `json:"vehiclePhotos"`
	PaymentProofURL    *string           `json:"paymentProofUrl,omitempty"`
	SignatureURL       *string           `json:"signatureUrl,omitempty"`
	AgreementPDFURL    *string           `json:"agreementPdfUrl,omitempty"`
	Status             string            `json:"status"`
	CreatedAt          time.Time         `json:"createdAt"`
}

// GenerateAgreementResponse is returned by the synchronous generate endpoint.
type GenerateAgreementResponse struct {
	Message     string `json:"message"`
	PDFURL      string `json:"pdfUrl"`
	DownloadURL string `json:"downloadUrl"`
	Delivered   bool   `json:"delivered"`
}

// EnqueueAgreementResponse is returned when generation is queued.
type EnqueueAgreementResponse struct {
	Message string `json:"message"`
	TaskID  string `json:"taskId"`
}
