package httphandler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/prbridge/internal/domain/model"
)

type mockReconciler struct {
	calls []model.PullRequest
}

func (m *mockReconciler) Reconcile(_ context.Context, pr model.PullRequest) {
	m.calls = append(m.calls, pr)
}

type mockNotificationStore struct {
	states  []model.NotificationState
	listErr error
}

func (m *mockNotificationStore) Get(_ context.Context, _ int64) (*model.NotificationState, error) {
	return nil, nil
}
func (m *mockNotificationStore) Create(_ context.Context, _ model.NotificationState) error {
	return nil
}
func (m *mockNotificationStore) Update(_ context.Context, _ model.NotificationState) error {
	return nil
}
func (m *mockNotificationStore) ListAll(_ context.Context) ([]model.NotificationState, error) {
	return m.states, m.listErr
}

func newTestHandler(secret string) (*Handler, *mockReconciler, *mockNotificationStore) {
	rec := &mockReconciler{}
	store := &mockNotificationStore{}
	logger := slog.New(slog.DiscardHandler)
	return NewHandler(rec, store, secret, logger), rec, store
}

func postWebhook(h *Handler, eventType, payload string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(payload))
	req.Header.Set("X-GitHub-Event", eventType)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	h.Webhook(w, req)
	return w
}

func sign(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestWebhook_ActionableEventTriggersReconcile(t *testing.T) {
	h, rec, _ := newTestHandler("")

	w := postWebhook(h, "pull_request", pullRequestPayload, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok": true}`, w.Body.String())

	require.Len(t, rec.calls, 1)
	assert.Equal(t, int64(42), rec.calls[0].ID)
	assert.Equal(t, []string{"platform", "backend"}, rec.calls[0].RequestedTeams)
}

func TestWebhook_UnknownEventAcknowledged(t *testing.T) {
	h, rec, _ := newTestHandler("")

	w := postWebhook(h, "issue_comment", `{"action": "created"}`, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok": true}`, w.Body.String())
	assert.Empty(t, rec.calls)
}

func TestWebhook_IgnoredActionAcknowledged(t *testing.T) {
	h, rec, _ := newTestHandler("")

	w := postWebhook(h, "pull_request", `{"action": "closed", "pull_request": {"id": 42}}`, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, rec.calls)
}

func TestWebhook_MalformedPayloadAcknowledged(t *testing.T) {
	h, rec, _ := newTestHandler("")

	w := postWebhook(h, "pull_request", `{"action": 12`, nil)

	assert.Equal(t, http.StatusOK, w.Code, "delivery retries on non-2xx must never be triggered")
	assert.JSONEq(t, `{"ok": true}`, w.Body.String())
	assert.Empty(t, rec.calls)
}

func TestWebhook_ValidSignatureAccepted(t *testing.T) {
	h, rec, _ := newTestHandler("s3cret")

	w := postWebhook(h, "pull_request", pullRequestPayload, map[string]string{
		"X-Hub-Signature-256": sign("s3cret", pullRequestPayload),
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, rec.calls, 1)
}

func TestWebhook_BadSignatureSkipsReconcile(t *testing.T) {
	h, rec, _ := newTestHandler("s3cret")

	w := postWebhook(h, "pull_request", pullRequestPayload, map[string]string{
		"X-Hub-Signature-256": sign("wrong-secret", pullRequestPayload),
	})

	assert.Equal(t, http.StatusOK, w.Code, "rejected deliveries are still acknowledged")
	assert.JSONEq(t, `{"ok": true}`, w.Body.String())
	assert.Empty(t, rec.calls)
}

func TestWebhook_MissingSignatureSkipsReconcile(t *testing.T) {
	h, rec, _ := newTestHandler("s3cret")

	w := postWebhook(h, "pull_request", pullRequestPayload, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, rec.calls)
}

func TestWebhookPing(t *testing.T) {
	h, _, _ := newTestHandler("")

	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	w := httptest.NewRecorder()
	h.WebhookPing(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok": true}`, w.Body.String())
}

func TestListNotifications(t *testing.T) {
	h, _, store := newTestHandler("")
	store.states = []model.NotificationState{
		{
			PRID: 42,
			Mappings: []model.DestinationMapping{
				{RoomID: "roomA", MessageID: "msg-1"},
				{RoomID: "roomB", MessageID: "msg-2"},
			},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	w := httptest.NewRecorder()
	h.ListNotifications(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[
		{
			"pr_id": 42,
			"mappings": [
				{"room_id": "roomA", "message_id": "msg-1"},
				{"room_id": "roomB", "message_id": "msg-2"}
			]
		}
	]`, w.Body.String())
}

func TestListNotifications_Empty(t *testing.T) {
	h, _, _ := newTestHandler("")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	w := httptest.NewRecorder()
	h.ListNotifications(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListNotifications_StoreError(t *testing.T) {
	h, _, store := newTestHandler("")
	store.listErr = errors.New("db gone")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	w := httptest.NewRecorder()
	h.ListNotifications(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealth(t *testing.T) {
	h, _, _ := newTestHandler("")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	h.Health(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Time)
}
