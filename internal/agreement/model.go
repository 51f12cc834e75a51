package agreement

import (
	"time"

	"github.com/google/uuid"
)

// PhotoSlot names one of the fixed vehicle condition photos.
type PhotoSlot string

const (
	SlotFrontWithCustomer PhotoSlot = "frontWithCustomer"
	SlotFront             PhotoSlot = "front"
	SlotBack              PhotoSlot = "back"
	SlotLeft              PhotoSlot = "left"
	SlotRight             PhotoSlot = "right"
	SlotInteriorMileage   PhotoSlot = "interiorMileage"
	SlotKnownDamage       PhotoSlot = "knownDamage"
)

// PhotoSlots lists every slot in document order.
var PhotoSlots = []PhotoSlot{
	SlotFrontWithCustomer,
	SlotFront,
	SlotBack,
	SlotLeft,
	SlotRight,
	SlotInteriorMileage,
	SlotKnownDamage,
}

var slotLabels = map[PhotoSlot]string{
	SlotFrontWithCustomer: "Front (with customer)",
	SlotFront:             "Front",
	SlotBack:              "Back",
	SlotLeft:              "Left",
	SlotRight:             "Right",
	SlotInteriorMileage:   "Interior / Mileage",
	SlotKnownDamage:       "Known Damage",
}

// Label returns the printed caption for the slot.
func (s PhotoSlot) Label() string {
	if l, ok := slotLabels[s]; ok {
		return l
	}
	return string(s)
}

// Valid reports whether s is one of the fixed slots.
func (s PhotoSlot) Valid() bool {
	_, ok := slotLabels[s]
	return ok
}

// Rental is the pipeline's view of a rental record.
type Rental struct {
	ID                      uuid.UUID
	CustomerID              uuid.UUID
	Vehicle                 string
	Color                   string
	MileageLimitKm          int
	ExtraMileageChargeCents int64
	FuelLevel               int
	StartDate               time.Time
	EndDate                 time.Time
	TotalDays               int
	RentalPerDayCents       int64
	DepositCents            int64
	DiscountCents           int64
	GrandTotalCents         int64
	Photos                  map[PhotoSlot]string
	PaymentProofRef         string
	SignatureRef            string
	AgreementRef            string
}

// Party is the renter as printed on the agreement.
type Party struct {
	ID         uuid.UUID
	FullName   string
	ICPassport string
	Email      string
	Phone      string
	Address    string
}

// Summary is what the delivery channel tells the renter about the rental.
type Summary struct {
	RentalID        uuid.UUID
	Vehicle         string
	Color           string
	StartDate       time.Time
	EndDate         time.Time
	TotalDays       int
	GrandTotalCents int64
	DownloadURL     string
}

// Result reports a completed generation. DeliveryConfigured is false when no
// delivery channel is wired, in which case Delivered is always false.
type Result struct {
	Reference          string
	DownloadURL        string
	Delivered          bool
	DeliveryConfigured bool
}

// DownloadURL is the API path that serves a rental's agreement.
func DownloadURL(rentalID uuid.UUID) string {
	return "/api/v1/rentals/" + rentalID.String() + "/download-agreement"
}
