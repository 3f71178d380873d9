package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/prbridge/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// ackOK writes the unconditional webhook acknowledgment.
func ackOK(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, ackResponse{OK: true})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// ackResponse is the webhook acknowledgment body, sent regardless of
// internal outcome.
type ackResponse struct {
	OK bool `json:"ok"`
}

// MappingResponse is the JSON representation of one room's message mapping.
type MappingResponse struct {
	RoomID    string `json:"room_id"`
	MessageID string `json:"message_id"`
}

// NotificationStateResponse is the JSON representation of a tracked pull
// request's notification state.
type NotificationStateResponse struct {
	PRID     int64             `json:"pr_id"`
	Mappings []MappingResponse `json:"mappings"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

func toNotificationStateResponse(state model.NotificationState) NotificationStateResponse {
	mappings := make([]MappingResponse, 0, len(state.Mappings))
	for _, m := range state.Mappings {
		mappings = append(mappings, MappingResponse{
			RoomID:    m.RoomID,
			MessageID: m.MessageID,
		})
	}

	return NotificationStateResponse{
		PRID:     state.PRID,
		Mappings: mappings,
	}
}

func newHealthResponse() HealthResponse {
	return HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	}
}
