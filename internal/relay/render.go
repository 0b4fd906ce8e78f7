package relay

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// row is a single label/value line in a rendered email. Rows are built
// explicitly per field so adding or removing a field is one declarative
// change here rather than a loop over arbitrary keys.
type row struct {
	Label string
	Value string
}

// section groups rows under a heading in the health-check layout.
type section struct {
	Title string
	Rows  []row
}

type contactData struct {
	Rows        []row
	Message     string
	SubmittedAt string
}

type healthCheckData struct {
	Sections    []section
	Challenges  string
	SubmittedAt string
}

// Renderer turns validated submissions into HTML email bodies with plain
// text fallbacks. All field interpolation goes through html/template, so
// user-controlled content is contextually escaped; raw string concatenation
// never reaches the document.
type Renderer struct {
	templates *template.Template
	now       func() time.Time
}

// NewRenderer parses the embedded email templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return &Renderer{
		templates: tmpl,
		now:       time.Now,
	}, nil
}

// RenderContact renders the contact-form layout: a flat field list followed
// by the free-text message.
func (r *Renderer) RenderContact(s *ContactSubmission) (htmlBody, textBody string, err error) {
	submittedAt := r.timestamp()

	rows := appendRow(nil, "Name", s.FirstName+" "+s.LastName)
	rows = appendRow(rows, "Email", s.Email)
	rows = appendRow(rows, "Phone Number", s.Phone)
	rows = appendRow(rows, "Subject", s.Subject)
	rows = appendRow(rows, "Inquiry Type", s.InquiryType)

	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, "contact.html", contactData{
		Rows:        rows,
		Message:     s.Message,
		SubmittedAt: submittedAt,
	}); err != nil {
		return "", "", fmt.Errorf("failed to render contact email: %w", err)
	}

	var text strings.Builder
	text.WriteString("New contact form submission\n\n")
	writeTextRows(&text, rows)
	text.WriteString("\nMessage:\n")
	text.WriteString(s.Message)
	text.WriteString("\n\nSubmitted: " + submittedAt + "\n")

	return buf.String(), text.String(), nil
}

// RenderHealthCheck renders the questionnaire layout: grouped sections for
// the business profile, then the free-text challenges. The text fallback is
// a short summary of who is asking, not the full record.
func (r *Renderer) RenderHealthCheck(s *HealthCheckSubmission) (htmlBody, textBody string, err error) {
	submittedAt := r.timestamp()

	sections := make([]section, 0, 4)

	company := appendRow(nil, "Company Name", s.CompanyName)
	company = appendRow(company, "Industry", s.Industry)
	company = appendRow(company, "Entity Type", s.EntityType)
	company = appendRow(company, "Annual Revenue", s.AnnualRevenue)
	sections = appendSection(sections, "Company Information", company)

	operations := appendRow(nil, "Employees", s.Employees)
	operations = appendRow(operations, "Employee Count", s.EmployeeCount)
	operations = appendRow(operations, "Stock Management", s.StockManagement)
	operations = appendRow(operations, "Foreign Currency", s.ForeignCurrency)
	sections = appendSection(sections, "Operations", operations)

	compliance := appendRow(nil, "Tax Compliance", s.TaxCompliance)
	compliance = appendRow(compliance, "Audit Requirements", s.AuditRequirements)
	compliance = appendRow(compliance, "Regulatory Reporting", s.RegulatoryReporting)
	sections = appendSection(sections, "Compliance", compliance)

	goals := appendRow(nil, "Primary Goal", s.PrimaryGoal)
	goals = appendRow(goals, "Contact Name", s.ContactName)
	goals = appendRow(goals, "Email", s.Email)
	goals = appendRow(goals, "Phone Number", s.Phone)
	sections = appendSection(sections, "Goals & Contact", goals)

	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, "health_check.html", healthCheckData{
		Sections:    sections,
		Challenges:  s.Challenges,
		SubmittedAt: submittedAt,
	}); err != nil {
		return "", "", fmt.Errorf("failed to render health check email: %w", err)
	}

	summary := appendRow(nil, "Contact", s.ContactName)
	summary = appendRow(summary, "Email", s.Email)
	summary = appendRow(summary, "Company", s.CompanyName)
	summary = appendRow(summary, "Industry", s.Industry)
	summary = appendRow(summary, "Annual Revenue", s.AnnualRevenue)

	var text strings.Builder
	text.WriteString("New business health check submission\n\n")
	writeTextRows(&text, summary)
	text.WriteString("\nSubmitted: " + submittedAt + "\n")

	return buf.String(), text.String(), nil
}

func (r *Renderer) timestamp() string {
	return r.now().UTC().Format("Jan 2, 2006 15:04:05 MST")
}

// appendRow adds a row unless the value is empty. Empty optional fields are
// dropped from the layout entirely rather than rendered as blank.
func appendRow(rows []row, label, value string) []row {
	if value == "" {
		return rows
	}
	return append(rows, row{Label: label, Value: value})
}

// appendSection adds a section unless it ended up with no rows.
func appendSection(sections []section, title string, rows []row) []section {
	if len(rows) == 0 {
		return sections
	}
	return append(sections, section{Title: title, Rows: rows})
}

func writeTextRows(b *strings.Builder, rows []row) {
	for _, r := range rows {
		b.WriteString(r.Label + ": " + r.Value + "\n")
	}
}
