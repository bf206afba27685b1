package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/study-scheduler/internal/application"
)

type preferenceService interface {
	Get(ctx context.Context, userID string) (application.PreferencesView, error)
	Update(ctx context.Context, userID string, input application.PreferenceInput) (application.PreferencesView, error)
}

type PreferenceHandler struct {
	service   preferenceService
	responder responder
}

func NewPreferenceHandler(service preferenceService, logger *slog.Logger) *PreferenceHandler {
	return &PreferenceHandler{service: service, responder: newResponder(logger)}
}

func (h *PreferenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := UserIDFromContext(r.Context())
	if !ok || strings.TrimSpace(userID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	view, err := h.service.Get(r.Context(), userID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toPreferencesDTO(view))
}

func (h *PreferenceHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := UserIDFromContext(r.Context())
	if !ok || strings.TrimSpace(userID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	var req preferencesDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	view, err := h.service.Update(r.Context(), userID, application.PreferenceInput{
		WorkStart:         strings.TrimSpace(req.WorkStart),
		WorkEnd:           strings.TrimSpace(req.WorkEnd),
		EarliestStudy:     strings.TrimSpace(req.EarliestStudy),
		LatestStudy:       strings.TrimSpace(req.LatestStudy),
		MinSessionMinutes: req.MinSessionMinutes,
		MorningFirst:      req.MorningFirst,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toPreferencesDTO(view))
}

type preferencesDTO struct {
	UserID            string `json:"user_id,omitempty"`
	WorkStart         string `json:"work_start"`
	WorkEnd           string `json:"work_end"`
	EarliestStudy     string `json:"earliest_study"`
	LatestStudy       string `json:"latest_study"`
	MinSessionMinutes int    `json:"min_session_minutes"`
	MorningFirst      bool   `json:"morning_first"`
}

func toPreferencesDTO(view application.PreferencesView) preferencesDTO {
	return preferencesDTO{
		UserID:            view.UserID,
		WorkStart:         view.WorkStart,
		WorkEnd:           view.WorkEnd,
		EarliestStudy:     view.EarliestStudy,
		LatestStudy:       view.LatestStudy,
		MinSessionMinutes: view.MinSessionMinutes,
		MorningFirst:      view.MorningFirst,
	}
}
