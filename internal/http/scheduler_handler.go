package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/study-scheduler/internal/application"
	"github.com/example/study-scheduler/internal/interval"
	"github.com/example/study-scheduler/internal/scheduling"
)

const dateLayout = "2006-01-02"

type schedulerService interface {
	ComputeFreeSlots(ctx context.Context, userID string, date time.Time, minMinutes int) (application.FreeSlotsResult, error)
	ProposeSessions(ctx context.Context, userID string, from, to time.Time, dailyTargetMinutes int) (application.ProposalResult, error)
	ScheduleApproved(ctx context.Context, userID, providerName string, approved []application.ApprovedSession) (application.ScheduleResult, error)
	ResolveConflicts(ctx context.Context, userID string) (application.ResolutionResult, error)
}

type SchedulerHandler struct {
	service   schedulerService
	responder responder
}

func NewSchedulerHandler(service schedulerService, logger *slog.Logger) *SchedulerHandler {
	return &SchedulerHandler{service: service, responder: newResponder(logger)}
}

func (h *SchedulerHandler) FreeSlots(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))

	var date time.Time
	if value := strings.TrimSpace(r.URL.Query().Get("date")); value != "" {
		parsed, err := time.Parse(dateLayout, value)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
			return
		}
		date = parsed
	}

	minMinutes := 0
	if value := strings.TrimSpace(r.URL.Query().Get("min_minutes")); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 0 {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMinMinutes)
			return
		}
		minMinutes = parsed
	}

	result, err := h.service.ComputeFreeSlots(r.Context(), userID, date, minMinutes)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, freeSlotsResponse{
		UserID:           result.UserID,
		Date:             result.Date.Format(dateLayout),
		Slots:            toIntervalDTOs(result.Slots),
		TotalFreeMinutes: result.TotalFreeMinutes,
		ProviderErrors:   result.ProviderErrors,
	})
}

func (h *SchedulerHandler) Proposals(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req proposalsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	result, err := h.service.ProposeSessions(r.Context(), strings.TrimSpace(req.UserID), parseDate(req.From), parseDate(req.To), req.DailyTargetMinutes)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	days := make([]dayProposalsDTO, 0, len(result.Days))
	for _, day := range result.Days {
		days = append(days, dayProposalsDTO{
			Date:     day.Date.Format(dateLayout),
			Sessions: toSessionDTOs(day.Sessions),
		})
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, proposalsResponse{
		UserID:         result.UserID,
		From:           result.From.Format(dateLayout),
		To:             result.To.Format(dateLayout),
		Days:           days,
		TotalMinutes:   result.TotalMinutes,
		ProviderErrors: result.ProviderErrors,
	})
}

func (h *SchedulerHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req scheduleSessionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	approved := make([]application.ApprovedSession, 0, len(req.Sessions))
	for _, item := range req.Sessions {
		approved = append(approved, application.ApprovedSession{
			ID:          strings.TrimSpace(item.ID),
			Title:       strings.TrimSpace(item.Title),
			Description: item.Description,
			Start:       parseTime(item.Start),
			End:         parseTime(item.End),
		})
	}

	result, err := h.service.ScheduleApproved(r.Context(), strings.TrimSpace(req.UserID), strings.TrimSpace(req.Provider), approved)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, scheduleSessionsResponse{
		UserID:    result.UserID,
		Scheduled: toSessionDTOs(result.Scheduled),
		Failed:    toFailureDTOs(result.Failed),
	})
}

func (h *SchedulerHandler) ResolveConflicts(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req resolveConflictsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	result, err := h.service.ResolveConflicts(r.Context(), strings.TrimSpace(req.UserID))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, resolveConflictsResponse{
		UserID:         result.UserID,
		Rescheduled:    toSessionDTOs(result.Rescheduled),
		Cancelled:      toSessionDTOs(result.Cancelled),
		Unchanged:      result.Unchanged,
		Failed:         toFailureDTOs(result.Failed),
		ProviderErrors: result.ProviderErrors,
	})
}

func parseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(dateLayout, value); err == nil {
		return ts
	}
	return time.Time{}
}

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts
	}
	return time.Time{}
}

type proposalsRequest struct {
	UserID             string `json:"user_id"`
	From               string `json:"from"`
	To                 string `json:"to"`
	DailyTargetMinutes int    `json:"daily_target_minutes"`
}

type scheduleSessionsRequest struct {
	UserID   string             `json:"user_id"`
	Provider string             `json:"provider"`
	Sessions []approvedInputDTO `json:"sessions"`
}

type approvedInputDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Start       string `json:"start"`
	End         string `json:"end"`
}

type resolveConflictsRequest struct {
	UserID string `json:"user_id"`
}

type freeSlotsResponse struct {
	UserID           string        `json:"user_id"`
	Date             string        `json:"date"`
	Slots            []intervalDTO `json:"slots"`
	TotalFreeMinutes int           `json:"total_free_minutes"`
	ProviderErrors   []string      `json:"provider_errors,omitempty"`
}

type proposalsResponse struct {
	UserID         string            `json:"user_id"`
	From           string            `json:"from"`
	To             string            `json:"to"`
	Days           []dayProposalsDTO `json:"days"`
	TotalMinutes   int               `json:"total_minutes"`
	ProviderErrors []string          `json:"provider_errors,omitempty"`
}

type dayProposalsDTO struct {
	Date     string       `json:"date"`
	Sessions []sessionDTO `json:"sessions"`
}

type scheduleSessionsResponse struct {
	UserID    string       `json:"user_id"`
	Scheduled []sessionDTO `json:"scheduled"`
	Failed    []failureDTO `json:"failed,omitempty"`
}

type resolveConflictsResponse struct {
	UserID         string       `json:"user_id"`
	Rescheduled    []sessionDTO `json:"rescheduled"`
	Cancelled      []sessionDTO `json:"cancelled"`
	Unchanged      int          `json:"unchanged"`
	Failed         []failureDTO `json:"failed,omitempty"`
	ProviderErrors []string     `json:"provider_errors,omitempty"`
}

type intervalDTO struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Minutes int    `json:"minutes"`
}

func toIntervalDTOs(intervals []interval.Interval) []intervalDTO {
	if len(intervals) == 0 {
		return nil
	}
	out := make([]intervalDTO, 0, len(intervals))
	for _, iv := range intervals {
		out = append(out, intervalDTO{
			Start:   iv.Start.UTC().Format(time.RFC3339),
			End:     iv.End.UTC().Format(time.RFC3339),
			Minutes: iv.Minutes(),
		})
	}
	return out
}

type sessionDTO struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	Start           string `json:"start"`
	End             string `json:"end"`
	Status          string `json:"status"`
	Provider        string `json:"provider,omitempty"`
	ProviderEventID string `json:"provider_event_id,omitempty"`
}

func toSessionDTO(session scheduling.Session) sessionDTO {
	dto := sessionDTO{
		ID:          session.ID,
		Title:       session.Title,
		Description: session.Description,
		Start:       session.Start.UTC().Format(time.RFC3339),
		End:         session.End.UTC().Format(time.RFC3339),
		Status:      string(session.Status),
	}
	if session.ProviderRef != nil {
		dto.Provider = session.ProviderRef.Provider
		dto.ProviderEventID = session.ProviderRef.EventID
	}
	return dto
}

func toSessionDTOs(sessions []scheduling.Session) []sessionDTO {
	if len(sessions) == 0 {
		return nil
	}
	out := make([]sessionDTO, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, toSessionDTO(session))
	}
	return out
}

type failureDTO struct {
	SessionID string `json:"session_id"`
	Reason    string `json:"reason"`
}

func toFailureDTOs(failures []application.SessionFailure) []failureDTO {
	if len(failures) == 0 {
		return nil
	}
	out := make([]failureDTO, 0, len(failures))
	for _, failure := range failures {
		out = append(out, failureDTO{SessionID: failure.SessionID, Reason: failure.Reason})
	}
	return out
}
