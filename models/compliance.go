package models

// ComplianceState captures the jurisdiction gate answers collected during
// checkout. MedicalAuthorization is optional and never blocks progression.
type ComplianceState struct {
	AgeConfirmed         bool   `json:"age_confirmed"`
	MedicalAuthorization string `json:"medical_authorization,omitempty"`
}

// CustomerContact is the contact info attached to the order request.
type CustomerContact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}
