package transport

import (
	"time"

	"github.com/google/uuid"
)

// RegisterCustomerRequest is the multipart form for customer registration.
// The IC/passport scan and optional utility bill arrive as files.
type RegisterCustomerRequest struct {
	FullName          string `form:"fullName" validate:"required,min=2,max=200"`
	Email             string `form:"email" validate:"required,email"`
	Phone             string `form:"phone" validate:"required,min=6,max=32"`
	Address           string `form:"address" validate:"required,max=500"`
	ICPassportNumber  string `form:"icPassportNumber" validate:"required,max=50"`
	SocialMediaHandle string `form:"socialMediaHandle" validate:"omitempty,max=100"`
}

// CustomerResponse is the public view of a customer.
type CustomerResponse struct {
	ID                uuid.UUID  `json:"id"`
	FullName          string     `json:"fullName"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone"`
	Address           string     `json:"address"`
	ICPassportNumber  string     `json:"icPassportNumber"`
	ICPassportURL     *string    `json:"icPassportUrl,omitempty"`
	UtilityBillURL    *string    `json:"utilityBillUrl,omitempty"`
	SocialMediaHandle *string    `json:"socialMediaHandle,omitempty"`
	Status            string     `json:"status"`
	TermsAcceptedAt   *time.Time `json:"termsAcceptedAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}
