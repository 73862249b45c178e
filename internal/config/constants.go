package config

// Application constants
const (
	AppName    = "crmsynth"
	AppVersion = "1.0.0"
)

// Column values shared between the generator and the enricher
const (
	UserTypeBuyer    = "Buyer"
	UserTypeSupplier = "Supplier"
	UserTypeProspect = "Prospect"

	EventRFQSubmitted           = "RFQ Submitted"
	EventSupplierSignupStart    = "Supplier Signup Start"
	EventSupplierSignupComplete = "Supplier Signup Complete"
)
