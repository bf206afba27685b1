package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/study-scheduler/internal/application"
	"github.com/example/study-scheduler/internal/scheduling"
)

type historyService interface {
	RecordSession(ctx context.Context, userID string, input application.SessionLogInput) (scheduling.Session, error)
	ListSessions(ctx context.Context, userID string, from, to *time.Time, statuses []string) ([]scheduling.Session, error)
	Statistics(ctx context.Context, userID, period string) (application.StatisticsResult, error)
}

type HistoryHandler struct {
	service   historyService
	responder responder
}

func NewHistoryHandler(service historyService, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{service: service, responder: newResponder(logger)}
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := UserIDFromContext(r.Context())
	if !ok || strings.TrimSpace(userID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	query := r.URL.Query()
	var from, to *time.Time
	if value := strings.TrimSpace(query.Get("from")); value != "" {
		if ts := parseDate(value); !ts.IsZero() {
			from = &ts
		}
	}
	if value := strings.TrimSpace(query.Get("to")); value != "" {
		if ts := parseDate(value); !ts.IsZero() {
			to = &ts
		}
	}

	var statuses []string
	if value := strings.TrimSpace(query.Get("status")); value != "" {
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				statuses = append(statuses, trimmed)
			}
		}
	}

	sessions, err := h.service.ListSessions(r.Context(), userID, from, to, statuses)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, historyListResponse{
		UserID:   userID,
		Sessions: toSessionDTOs(sessions),
	})
}

func (h *HistoryHandler) Record(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := UserIDFromContext(r.Context())
	if !ok || strings.TrimSpace(userID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	var req sessionLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	session, err := h.service.RecordSession(r.Context(), userID, application.SessionLogInput{
		ID:          strings.TrimSpace(req.ID),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Start:       parseTime(req.Start),
		End:         parseTime(req.End),
		Status:      strings.TrimSpace(req.Status),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toSessionDTO(session))
}

func (h *HistoryHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := UserIDFromContext(r.Context())
	if !ok || strings.TrimSpace(userID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	period := strings.TrimSpace(r.URL.Query().Get("period"))

	stats, err := h.service.Statistics(r.Context(), userID, period)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	response := statisticsResponse{
		UserID:               stats.UserID,
		Period:               stats.Period,
		TotalSessions:        stats.TotalSessions,
		TotalMinutes:         stats.TotalMinutes,
		AverageMinutes:       stats.AverageMinutes,
		WeeklyAverageMinutes: stats.WeeklyAverageMinutes,
		MinutesByWeekday:     stats.MinutesByWeekday,
		MinutesByTimeOfDay:   stats.MinutesByTimeOfDay,
	}
	if stats.From != nil {
		response.From = stats.From.UTC().Format(time.RFC3339)
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, response)
}

type sessionLogRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Status      string `json:"status"`
}

type historyListResponse struct {
	UserID   string       `json:"user_id"`
	Sessions []sessionDTO `json:"sessions"`
}

type statisticsResponse struct {
	UserID               string         `json:"user_id"`
	Period               string         `json:"period"`
	From                 string         `json:"from,omitempty"`
	TotalSessions        int            `json:"total_sessions"`
	TotalMinutes         int            `json:"total_minutes"`
	AverageMinutes       float64        `json:"average_minutes"`
	WeeklyAverageMinutes float64        `json:"weekly_average_minutes"`
	MinutesByWeekday     map[string]int `json:"minutes_by_weekday"`
	MinutesByTimeOfDay   map[string]int `json:"minutes_by_time_of_day"`
}
