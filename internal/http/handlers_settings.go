package http

import (
	"net/http"

	"daytrack/internal/core"
)

type settingsRequest struct {
	Theme          string `json:"theme"`
	LastViewedDate string `json:"lastViewedDate"`
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Settings.Get(r.Context(), s.today())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	var lastViewed core.Date
	if req.LastViewedDate != "" {
		d, err := parseBodyDate("lastViewedDate", req.LastViewedDate)
		if err != nil {
			writeError(w, r, err)
			return
		}
		lastViewed = d
	}
	st, err := s.svc.Settings.Save(r.Context(), s.today(), core.Theme(req.Theme), lastViewed)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
