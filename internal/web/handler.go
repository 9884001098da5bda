package web

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/hugo/flashd/internal/config"
	"github.com/hugo/flashd/internal/database"
	"github.com/hugo/flashd/internal/models"
)

// StatusProvider reports the live state of the flash service.
type StatusProvider interface {
	Uptime() time.Duration
	LiveSessions() int
}

type Handler struct {
	config *config.Config
	repo   *database.Repository
	status StatusProvider
}

func NewHandler(cfg *config.Config, repo *database.Repository, status StatusProvider) *Handler {
	return &Handler{
		config: cfg,
		repo:   repo,
		status: status,
	}
}

func (h *Handler) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/flashes", h.handleFlashes)
	mux.HandleFunc("/api/flashes/latest", h.handleLatestFlash)
	mux.HandleFunc("/api/summary", h.handleSummary)
	mux.HandleFunc("/api/errors", h.handleErrors)
	mux.HandleFunc("/api/status", h.handleStatus)

	mux.HandleFunc("/health", h.handleHealth)

	mux.HandleFunc("/", h.handleIndex)
}

func (h *Handler) handleFlashes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 100 // default
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	events, err := h.repo.GetRecentFlashes(limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch flashes: %v", err), http.StatusInternalServerError)
		return
	}

	respondJSON(w, events)
}

func (h *Handler) handleLatestFlash(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	event, err := h.repo.GetLatest()
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch latest flash: %v", err), http.StatusInternalServerError)
		return
	}
	if event == nil {
		http.Error(w, "No flashes recorded yet", http.StatusNotFound)
		return
	}

	respondJSON(w, event)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	periodType := r.URL.Query().Get("period")
	if periodType == "" {
		periodType = "day"
	}

	period, err := getPeriod(periodType)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	apps, err := h.repo.GetAppSummarySince(period.Start)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch summary: %v", err), http.StatusInternalServerError)
		return
	}

	var total int64
	for _, app := range apps {
		total += app.FlashCount
	}
	if total > 0 {
		for i := range apps {
			apps[i].Percentage = float64(apps[i].FlashCount) / float64(total) * 100
		}
	}

	respondJSON(w, models.Summary{
		Period:      period,
		Apps:        apps,
		TotalCount:  total,
		GeneratedAt: time.Now(),
	})
}

func (h *Handler) handleErrors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	logs, err := h.repo.GetErrorsSince(time.Now().Add(-24 * time.Hour))
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch errors: %v", err), http.StatusInternalServerError)
		return
	}

	respondJSON(w, logs)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := map[string]interface{}{
		"running":       true,
		"uptime":        h.status.Uptime().String(),
		"live_sessions": h.status.LiveSessions(),
		"effect":        h.config.Flash.Effect,
		"easing":        h.config.Flash.Easing,
		"duration_ms":   h.config.Flash.Duration.Milliseconds(),
	}

	respondJSON(w, status)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	fmt.Fprintln(w, "flashd - window focus flash daemon")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Endpoints:")
	fmt.Fprintln(w, "  GET /api/status")
	fmt.Fprintln(w, "  GET /api/flashes?limit=N")
	fmt.Fprintln(w, "  GET /api/flashes/latest")
	fmt.Fprintln(w, "  GET /api/summary?period=day|week|month")
	fmt.Fprintln(w, "  GET /api/errors")
	fmt.Fprintln(w, "  GET /health")
}

func getPeriod(periodType string) (models.SummaryPeriod, error) {
	now := time.Now()
	var start time.Time

	switch periodType {
	case "day":
		start = now.Add(-24 * time.Hour)
	case "week":
		start = now.Add(-7 * 24 * time.Hour)
	case "month":
		start = now.Add(-30 * 24 * time.Hour)
	default:
		return models.SummaryPeriod{}, fmt.Errorf("invalid period %q (want day, week or month)", periodType)
	}

	return models.SummaryPeriod{Start: start, End: now, Type: periodType}, nil
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}
