// Package httphandler is the HTTP driving adapter: the GitHub webhook
// endpoint and a small JSON API for operators.
package httphandler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/prbridge/internal/domain/model"
	"github.com/ericfisherdev/prbridge/internal/domain/port/driven"
)

// Webhook payloads are capped by GitHub at 25 MB; anything larger is
// malformed by definition.
const maxPayloadBytes = 25 << 20

// Reconciler is the slice of the application layer the webhook needs: one
// fire-and-forget reconciliation per actionable event.
type Reconciler interface {
	Reconcile(ctx context.Context, pr model.PullRequest)
}

// Handler is the HTTP driving adapter serving the webhook and the JSON API.
type Handler struct {
	reconciler    Reconciler
	notifStore    driven.NotificationStore
	webhookSecret []byte
	logger        *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
// webhookSecret may be empty, in which case delivery signatures are not
// verified.
func NewHandler(reconciler Reconciler, notifStore driven.NotificationStore, webhookSecret string, logger *slog.Logger) *Handler {
	var secret []byte
	if webhookSecret != "" {
		secret = []byte(webhookSecret)
	}

	return &Handler{
		reconciler:    reconciler,
		notifStore:    notifStore,
		webhookSecret: secret,
		logger:        logger,
	}
}

// RegisterAPIRoutes registers the webhook and API routes on the given mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /webhook", h.WebhookPing)
	mux.HandleFunc("POST /webhook", h.Webhook)
	mux.HandleFunc("GET /api/v1/notifications", h.ListNotifications)
	mux.HandleFunc("GET /api/v1/health", h.Health)
}

// WebhookPing acknowledges webhook GET probes without doing anything.
func (h *Handler) WebhookPing(w http.ResponseWriter, r *http.Request) {
	ackOK(w)
}

// Webhook handles one GitHub event delivery. It always acknowledges with
// 200 {"ok":true}: deliveries arrive with retries on non-2xx, and an
// upstream retry storm caused by internal failures would be worse than a
// dropped notification. Failures are visible in logs only.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		h.logger.Error("read webhook body failed", "error", err)
		ackOK(w)
		return
	}

	eventType := gh.WebHookType(r)

	if len(h.webhookSecret) > 0 {
		signature := r.Header.Get(gh.SHA256SignatureHeader)
		if err := gh.ValidateSignature(signature, payload, h.webhookSecret); err != nil {
			h.logger.Warn("webhook signature rejected", "event", eventType, "error", err)
			ackOK(w)
			return
		}
	}

	event, err := DecodeEvent(eventType, payload)
	if err != nil {
		h.logger.Error("webhook decode failed", "event", eventType, "error", err)
		ackOK(w)
		return
	}

	if event == nil {
		h.logger.Info("ignoring webhook event", "event", eventType)
		ackOK(w)
		return
	}

	if !event.Actionable() {
		h.logger.Info("ignoring webhook action",
			"event", event.Type,
			"action", event.Action,
			"pr_number", event.PullRequest.Number,
		)
		ackOK(w)
		return
	}

	h.reconciler.Reconcile(r.Context(), event.PullRequest)
	ackOK(w)
}

// ListNotifications returns every tracked notification state.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	states, err := h.notifStore.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list notification states", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]NotificationStateResponse, 0, len(states))
	for _, state := range states {
		resp = append(resp, toNotificationStateResponse(state))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Health returns a liveness response.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newHealthResponse())
}
