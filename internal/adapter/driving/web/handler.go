// Package web is the HTML driving adapter: a read-only operator dashboard
// listing tracked pull requests and where they were notified.
package web

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/ericfisherdev/prbridge/internal/domain/model"
	"github.com/ericfisherdev/prbridge/internal/domain/port/driven"
)

//go:embed templates/*.html
var templatesFS embed.FS

var dashboardTmpl = template.Must(template.ParseFS(templatesFS, "templates/dashboard.html"))

// Handler is the web driving adapter that serves the dashboard page.
type Handler struct {
	prStore    driven.PRStore
	notifStore driven.NotificationStore
	logger     *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(prStore driven.PRStore, notifStore driven.NotificationStore, logger *slog.Logger) *Handler {
	return &Handler{
		prStore:    prStore,
		notifStore: notifStore,
		logger:     logger,
	}
}

// RegisterRoutes registers the dashboard route on the provided mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /{$}", h.Dashboard)
}

// prView is the template model for one tracked pull request.
type prView struct {
	Number   int
	Title    string
	HTMLURL  string
	Author   string
	BodyHTML template.HTML
	Teams    []string
	Rooms    []model.DestinationMapping
}

// dashboardView is the template model for the dashboard page.
type dashboardView struct {
	PRs []prView
}

// Dashboard renders the tracked pull requests with their destination rooms
// and message ids, most recently updated first.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	prs, err := h.prStore.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list pull requests", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	states, err := h.notifStore.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list notification states", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	mappingsByPR := make(map[int64][]model.DestinationMapping, len(states))
	for _, state := range states {
		mappingsByPR[state.PRID] = state.Mappings
	}

	view := dashboardView{PRs: make([]prView, 0, len(prs))}
	for _, pr := range prs {
		view.PRs = append(view.PRs, prView{
			Number:   pr.Number,
			Title:    pr.Title,
			HTMLURL:  pr.HTMLURL,
			Author:   pr.AuthorLogin,
			BodyHTML: RenderMarkdown(pr.Body),
			Teams:    pr.RequestedTeams,
			Rooms:    mappingsByPR[pr.ID],
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTmpl.Execute(w, view); err != nil {
		h.logger.Error("failed to render dashboard", "error", err)
	}
}
