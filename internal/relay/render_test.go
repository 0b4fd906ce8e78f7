package relay

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	r.now = func() time.Time {
		return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	}
	return r
}

func TestRenderContact(t *testing.T) {
	r := newTestRenderer(t)

	htmlBody, textBody, err := r.RenderContact(&ContactSubmission{
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@example.com",
		Phone:       "+44 20 7946 0000",
		Subject:     "Year-end accounts",
		InquiryType: "Bookkeeping",
		Message:     "We need help closing the books.",
	})
	require.NoError(t, err)

	assert.Contains(t, htmlBody, "New Contact Form Submission")
	assert.Contains(t, htmlBody, "Jane Doe")
	assert.Contains(t, htmlBody, "jane@example.com")
	assert.Contains(t, htmlBody, "+44 20 7946 0000")
	assert.Contains(t, htmlBody, "Year-end accounts")
	assert.Contains(t, htmlBody, "Bookkeeping")
	assert.Contains(t, htmlBody, "We need help closing the books.")
	assert.Contains(t, htmlBody, "Mar 14, 2025 09:26:53 UTC")

	assert.Contains(t, textBody, "New contact form submission")
	assert.Contains(t, textBody, "Name: Jane Doe")
	assert.Contains(t, textBody, "Email: jane@example.com")
	assert.Contains(t, textBody, "Message:\nWe need help closing the books.")
	assert.Contains(t, textBody, "Submitted: Mar 14, 2025 09:26:53 UTC")
}

func TestRenderContact_EscapesHTML(t *testing.T) {
	r := newTestRenderer(t)

	htmlBody, _, err := r.RenderContact(&ContactSubmission{
		FirstName: "Jane",
		LastName:  "<script>alert(1)</script>",
		Email:     "jane@example.com",
		Message:   "<img src=x onerror=alert(1)>",
	})
	require.NoError(t, err)

	assert.NotContains(t, htmlBody, "<script>")
	assert.NotContains(t, htmlBody, "<img src=x")
	assert.Contains(t, htmlBody, "&lt;script&gt;")
}

func TestRenderContact_OmitsEmptyOptionalFields(t *testing.T) {
	r := newTestRenderer(t)

	htmlBody, textBody, err := r.RenderContact(&ContactSubmission{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Message:   "Hello",
	})
	require.NoError(t, err)

	assert.NotContains(t, htmlBody, "Phone Number")
	assert.NotContains(t, htmlBody, "Inquiry Type")
	assert.NotContains(t, textBody, "Phone Number")
	assert.NotContains(t, textBody, "Subject:")
}

func TestRenderContact_Deterministic(t *testing.T) {
	r := newTestRenderer(t)
	sub := &ContactSubmission{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Message:   "Hello",
	}

	html1, text1, err := r.RenderContact(sub)
	require.NoError(t, err)
	html2, text2, err := r.RenderContact(sub)
	require.NoError(t, err)

	assert.Equal(t, html1, html2)
	assert.Equal(t, text1, text2)
}

func TestRenderHealthCheck(t *testing.T) {
	r := newTestRenderer(t)

	htmlBody, textBody, err := r.RenderHealthCheck(&HealthCheckSubmission{
		ContactName:   "Jane Doe",
		Email:         "jane@example.com",
		CompanyName:   "Acme Ltd",
		Industry:      "Manufacturing",
		EntityType:    "Limited company",
		AnnualRevenue: "1m-5m",
		EmployeeCount: "11-50",
		TaxCompliance: "Quarterly VAT",
		PrimaryGoal:   "Reduce close time",
		Challenges:    "Month-end close takes three weeks.",
	})
	require.NoError(t, err)

	assert.Contains(t, htmlBody, "New Business Health Check Submission")
	assert.Contains(t, htmlBody, "Company Information")
	assert.Contains(t, htmlBody, "Acme Ltd")
	assert.Contains(t, htmlBody, "Operations")
	assert.Contains(t, htmlBody, "11-50")
	assert.Contains(t, htmlBody, "Compliance")
	assert.Contains(t, htmlBody, "Quarterly VAT")
	assert.Contains(t, htmlBody, "Goals &amp; Contact")
	assert.Contains(t, htmlBody, "Current Challenges")
	assert.Contains(t, htmlBody, "Month-end close takes three weeks.")

	// The text fallback is a short summary, not the full questionnaire.
	assert.Contains(t, textBody, "Contact: Jane Doe")
	assert.Contains(t, textBody, "Email: jane@example.com")
	assert.Contains(t, textBody, "Company: Acme Ltd")
	assert.Contains(t, textBody, "Annual Revenue: 1m-5m")
	assert.NotContains(t, textBody, "Quarterly VAT")
	assert.NotContains(t, textBody, "Month-end close")
}

func TestRenderHealthCheck_OmitsEmptySections(t *testing.T) {
	r := newTestRenderer(t)

	htmlBody, _, err := r.RenderHealthCheck(&HealthCheckSubmission{
		ContactName: "Jane Doe",
		Email:       "jane@example.com",
	})
	require.NoError(t, err)

	assert.NotContains(t, htmlBody, "Company Information")
	assert.NotContains(t, htmlBody, "Operations")
	assert.NotContains(t, htmlBody, "Compliance")
	assert.NotContains(t, htmlBody, "Current Challenges")
	assert.Contains(t, htmlBody, "Goals &amp; Contact")

	if strings.Count(htmlBody, "<h3") != 1 {
		t.Errorf("expected a single section heading, got %d", strings.Count(htmlBody, "<h3"))
	}
}

func TestRenderHealthCheck_EscapesHTML(t *testing.T) {
	r := newTestRenderer(t)

	htmlBody, _, err := r.RenderHealthCheck(&HealthCheckSubmission{
		ContactName: "Jane Doe",
		Email:       "jane@example.com",
		Challenges:  "<b>bold</b> claims",
	})
	require.NoError(t, err)

	assert.NotContains(t, htmlBody, "<b>bold</b>")
	assert.Contains(t, htmlBody, "&lt;b&gt;bold&lt;/b&gt; claims")
}
