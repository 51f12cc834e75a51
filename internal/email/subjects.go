package email

const (
	subjectRentalAgreement = "Your Drive KL Rental Agreement"
	subjectRegistration    = "Welcome to Drive KL Executive"
)
