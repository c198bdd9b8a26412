package http

import "net/http"

type ratingRequest struct {
	Rating string `json:"rating"`
}

func (s *Server) handleListRatings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := parseDateParam("start", q.Get("start"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	end, err := parseDateParam("end", q.Get("end"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ratings, err := s.svc.Ratings.ListByRange(r.Context(), start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ratings)
}

func (s *Server) handleGetRating(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateParam("date", r.PathValue("date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	rating, err := s.svc.Ratings.Get(r.Context(), date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rating)
}

func (s *Server) handleSetRating(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateParam("date", r.PathValue("date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req ratingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rating, err := s.svc.Ratings.Set(r.Context(), date, req.Rating)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rating)
}

func (s *Server) handleDeleteRating(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateParam("date", r.PathValue("date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Ratings.Delete(r.Context(), date); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
