package relay

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/clearledger/relay/internal/mail"
	"github.com/clearledger/relay/internal/middleware"
)

// SenderResolver yields the process-wide mail transport.
type SenderResolver interface {
	Sender(ctx context.Context) (mail.Sender, error)
}

// Handler serves the relay API. Each accepted submission results in exactly
// one send attempt; there are no retries and no persistence, so a failed
// send is reported to the caller and nothing else.
type Handler struct {
	resolver SenderResolver
	renderer *Renderer
	from     string
	to       string
	metrics  *Metrics
}

// NewHandler creates the relay API handler. metrics may be nil.
func NewHandler(resolver SenderResolver, renderer *Renderer, from, to string, metrics *Metrics) *Handler {
	return &Handler{
		resolver: resolver,
		renderer: renderer,
		from:     from,
		to:       to,
		metrics:  metrics,
	}
}

// response is the JSON body for every relay endpoint. Error strings stay
// generic; transport detail is logged server-side only.
type response struct {
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
	PreviewURL string `json:"previewUrl,omitempty"`
}

// Health handles GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, response{OK: true})
}

// Contact handles POST /api/contact
func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	var sub ContactSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		logger.Info("contact: malformed request body", "error", err)
		h.metrics.observe("contact", outcomeRejected)
		writeJSON(w, http.StatusBadRequest, response{Error: "Invalid request body"})
		return
	}

	sub.Normalize()
	if err := sub.Validate(); err != nil {
		logger.Info("contact: missing required fields", "error", err)
		h.metrics.observe("contact", outcomeRejected)
		writeJSON(w, http.StatusBadRequest, response{Error: "Missing required fields"})
		return
	}

	htmlBody, textBody, err := h.renderer.RenderContact(&sub)
	if err != nil {
		logger.Error("contact: failed to render email", "error", err)
		h.metrics.observe("contact", outcomeFailed)
		writeJSON(w, http.StatusInternalServerError, response{Error: "Failed to send message"})
		return
	}

	previewURL, err := h.deliver(r.Context(), &mail.Email{
		To:       []string{h.to},
		From:     h.from,
		ReplyTo:  sub.Email,
		Subject:  sub.EmailSubject(),
		TextBody: textBody,
		HTMLBody: htmlBody,
	})
	if err != nil {
		logger.Error("contact: delivery failed", "error", err, "code", mail.ErrorCode(err))
		h.metrics.observe("contact", outcomeFailed)
		writeJSON(w, http.StatusInternalServerError, response{Error: "Failed to send message"})
		return
	}

	logger.Info("contact: submission relayed", "reply_to", sub.Email)
	h.metrics.observe("contact", outcomeAccepted)
	writeJSON(w, http.StatusOK, response{OK: true, PreviewURL: previewURL})
}

// HealthCheck handles POST /api/business-health-check
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	var sub HealthCheckSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		logger.Info("health check: malformed request body", "error", err)
		h.metrics.observe("health_check", outcomeRejected)
		writeJSON(w, http.StatusBadRequest, response{Error: "Invalid request body"})
		return
	}

	sub.Normalize()
	if err := sub.Validate(); err != nil {
		logger.Info("health check: missing required fields", "error", err)
		h.metrics.observe("health_check", outcomeRejected)
		writeJSON(w, http.StatusBadRequest, response{Error: "Missing required fields"})
		return
	}

	htmlBody, textBody, err := h.renderer.RenderHealthCheck(&sub)
	if err != nil {
		logger.Error("health check: failed to render email", "error", err)
		h.metrics.observe("health_check", outcomeFailed)
		writeJSON(w, http.StatusInternalServerError, response{Error: "Failed to send message"})
		return
	}

	previewURL, err := h.deliver(r.Context(), &mail.Email{
		To:       []string{h.to},
		From:     h.from,
		ReplyTo:  sub.Email,
		Subject:  sub.EmailSubject(),
		TextBody: textBody,
		HTMLBody: htmlBody,
	})
	if err != nil {
		logger.Error("health check: delivery failed", "error", err, "code", mail.ErrorCode(err))
		h.metrics.observe("health_check", outcomeFailed)
		writeJSON(w, http.StatusInternalServerError, response{Error: "Failed to send message"})
		return
	}

	logger.Info("health check: submission relayed", "reply_to", sub.Email)
	h.metrics.observe("health_check", outcomeAccepted)
	writeJSON(w, http.StatusOK, response{OK: true, PreviewURL: previewURL})
}

// deliver resolves the transport and performs the single send attempt.
func (h *Handler) deliver(ctx context.Context, email *mail.Email) (string, error) {
	sender, err := h.resolver.Sender(ctx)
	if err != nil {
		return "", err
	}
	return sender.Send(ctx, email)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
