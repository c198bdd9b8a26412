package http

import (
	"net/http"
	"strconv"

	"daytrack/internal/core"
)

const defaultSnapshotLimit = 12

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	today := s.today()
	month, err := parseMonthParam(r.URL.Query().Get("month"), today)
	if err != nil {
		writeError(w, r, err)
		return
	}
	view, err := s.svc.Analytics.Calendar(r.Context(), month, today)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleRanges(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, core.DateRangePresets(s.today()))
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRangeParams(r.URL.Query(), s.today())
	if err != nil {
		writeError(w, r, err)
		return
	}
	ov, err := s.svc.Analytics.Overview(r.Context(), rng)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ov)
}

func (s *Server) handleWeekly(w http.ResponseWriter, r *http.Request) {
	wt, err := s.svc.Analytics.Weekly(r.Context(), s.today(), r.URL.Query().Get("week"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wt)
}

func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	if s.svc.Snapshots == nil {
		writeJSON(w, http.StatusOK, []core.WeekSnapshot{})
		return
	}
	limit := defaultSnapshotLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			ErrorResponse(http.StatusBadRequest, "limit must be a positive integer").Write(w)
			return
		}
		limit = n
	}
	snaps, err := s.svc.Snapshots.ListSnapshots(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snaps)
}
