package relay

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ContactSubmission is the payload of the general contact form.
type ContactSubmission struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	Email       string `json:"email" validate:"required"`
	Phone       string `json:"phone"`
	Subject     string `json:"subject"`
	InquiryType string `json:"inquiryType"`
	Message     string `json:"message" validate:"required"`
}

// Normalize trims surrounding whitespace from every field so that
// whitespace-only input fails the required checks.
func (s *ContactSubmission) Normalize() {
	s.FirstName = strings.TrimSpace(s.FirstName)
	s.LastName = strings.TrimSpace(s.LastName)
	s.Email = strings.TrimSpace(s.Email)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Subject = strings.TrimSpace(s.Subject)
	s.InquiryType = strings.TrimSpace(s.InquiryType)
	s.Message = strings.TrimSpace(s.Message)
}

// Validate reports whether all required fields are present.
func (s *ContactSubmission) Validate() error {
	return validate.Struct(s)
}

// EmailSubject is the subject line of the relayed email.
func (s *ContactSubmission) EmailSubject() string {
	return "New contact from " + s.FirstName + " " + s.LastName
}

// HealthCheckSubmission is the payload of the multi-step business health
// check questionnaire. Only the contact identity is required; the business
// profile fields are whatever the visitor chose to fill in.
type HealthCheckSubmission struct {
	ContactName string `json:"contactName" validate:"required"`
	Email       string `json:"email" validate:"required"`

	// Company profile
	CompanyName   string `json:"companyName"`
	Industry      string `json:"industry"`
	EntityType    string `json:"entityType"`
	AnnualRevenue string `json:"annualRevenue"`

	// Operations profile
	Employees       string `json:"employees"`
	EmployeeCount   string `json:"employeeCount"`
	StockManagement string `json:"stockManagement"`
	ForeignCurrency string `json:"foreignCurrency"`

	// Compliance profile
	TaxCompliance       string `json:"taxCompliance"`
	AuditRequirements   string `json:"auditRequirements"`
	RegulatoryReporting string `json:"regulatoryReporting"`

	// Goals and contact
	PrimaryGoal string `json:"primaryGoal"`
	Challenges  string `json:"challenges"`
	Phone       string `json:"phone"`
}

// Normalize trims surrounding whitespace from every field.
func (s *HealthCheckSubmission) Normalize() {
	s.ContactName = strings.TrimSpace(s.ContactName)
	s.Email = strings.TrimSpace(s.Email)
	s.CompanyName = strings.TrimSpace(s.CompanyName)
	s.Industry = strings.TrimSpace(s.Industry)
	s.EntityType = strings.TrimSpace(s.EntityType)
	s.AnnualRevenue = strings.TrimSpace(s.AnnualRevenue)
	s.Employees = strings.TrimSpace(s.Employees)
	s.EmployeeCount = strings.TrimSpace(s.EmployeeCount)
	s.StockManagement = strings.TrimSpace(s.StockManagement)
	s.ForeignCurrency = strings.TrimSpace(s.ForeignCurrency)
	s.TaxCompliance = strings.TrimSpace(s.TaxCompliance)
	s.AuditRequirements = strings.TrimSpace(s.AuditRequirements)
	s.RegulatoryReporting = strings.TrimSpace(s.RegulatoryReporting)
	s.PrimaryGoal = strings.TrimSpace(s.PrimaryGoal)
	s.Challenges = strings.TrimSpace(s.Challenges)
	s.Phone = strings.TrimSpace(s.Phone)
}

// Validate reports whether all required fields are present.
func (s *HealthCheckSubmission) Validate() error {
	return validate.Struct(s)
}

// EmailSubject is the subject line of the relayed email. Company name leads
// when provided; anonymous-company submissions fall back to the contact name.
func (s *HealthCheckSubmission) EmailSubject() string {
	name := s.CompanyName
	if name == "" {
		name = s.ContactName
	}
	return "Business health check from " + name
}
