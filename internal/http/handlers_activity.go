package http

import (
	"net/http"

	"daytrack/internal/core"
	"daytrack/internal/services"
)

type activityRequest struct {
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	CategoryID  string `json:"categoryId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type activityPatchRequest struct {
	Date        *string `json:"date"`
	StartTime   *string `json:"startTime"`
	EndTime     *string `json:"endTime"`
	CategoryID  *string `json:"categoryId"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// activityView adds the derived duration fields clients render.
type activityView struct {
	core.Activity
	DurationMinutes int    `json:"durationMinutes"`
	Duration        string `json:"duration"`
	SpansMidnight   bool   `json:"spansMidnight"`
}

func viewOf(a core.Activity) activityView {
	return activityView{
		Activity:        a,
		DurationMinutes: a.Duration(),
		Duration:        core.FormatDuration(a.Duration()),
		SpansMidnight:   a.SpansMidnight(),
	}
}

func viewsOf(acts []core.Activity) []activityView {
	out := make([]activityView, len(acts))
	for i, a := range acts {
		out[i] = viewOf(a)
	}
	return out
}

func fieldError(field string, err error) error {
	return &services.ValidationError{Field: field, Err: err}
}

func parseBodyDate(field, raw string) (core.Date, error) {
	d, err := core.ParseDate(raw)
	if err != nil {
		return core.Date{}, fieldError(field, err)
	}
	return d, nil
}

func parseBodyClock(field, raw string) (core.Clock, error) {
	c, err := core.ParseClock(raw)
	if err != nil {
		return 0, fieldError(field, err)
	}
	return c, nil
}

func (req activityRequest) input() (services.ActivityInput, error) {
	date, err := parseBodyDate("date", req.Date)
	if err != nil {
		return services.ActivityInput{}, err
	}
	start, err := parseBodyClock("startTime", req.StartTime)
	if err != nil {
		return services.ActivityInput{}, err
	}
	end, err := parseBodyClock("endTime", req.EndTime)
	if err != nil {
		return services.ActivityInput{}, err
	}
	return services.ActivityInput{
		Date:        date,
		Start:       start,
		End:         end,
		CategoryID:  sanitizeInput(req.CategoryID),
		Title:       sanitizeInput(req.Title),
		Description: sanitizeInput(req.Description),
	}, nil
}

func (req activityPatchRequest) patch() (services.ActivityPatch, error) {
	var p services.ActivityPatch
	if req.Date != nil {
		d, err := parseBodyDate("date", *req.Date)
		if err != nil {
			return p, err
		}
		p.Date = &d
	}
	if req.StartTime != nil {
		c, err := parseBodyClock("startTime", *req.StartTime)
		if err != nil {
			return p, err
		}
		p.Start = &c
	}
	if req.EndTime != nil {
		c, err := parseBodyClock("endTime", *req.EndTime)
		if err != nil {
			return p, err
		}
		p.End = &c
	}
	clean := func(s *string) *string {
		if s == nil {
			return nil
		}
		v := sanitizeInput(*s)
		return &v
	}
	p.CategoryID = clean(req.CategoryID)
	p.Title = clean(req.Title)
	p.Description = clean(req.Description)
	return p, nil
}

// handleListActivities serves ?date= for one day or ?start=&end= for a range.
func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		acts []core.Activity
		err  error
	)
	if q.Get("start") != "" || q.Get("end") != "" {
		var start, end core.Date
		if start, err = parseDateParam("start", q.Get("start")); err == nil {
			if end, err = parseDateParam("end", q.Get("end")); err == nil {
				acts, err = s.svc.Activities.ListByRange(r.Context(), start, end)
			}
		}
	} else {
		date := s.today()
		if raw := q.Get("date"); raw != "" {
			date, err = parseDateParam("date", raw)
		}
		if err == nil {
			acts, err = s.svc.Activities.ListByDate(r.Context(), date)
		}
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewsOf(acts))
}

func (s *Server) handleGetActivity(w http.ResponseWriter, r *http.Request) {
	a, err := s.svc.Activities.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(a))
}

func (s *Server) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, r, err)
		return
	}
	a, err := s.svc.Activities.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).
		Header("Location", "/api/activities/"+a.ID).
		Body(viewOf(a)).
		Write(w)
}

func (s *Server) handleUpdateActivity(w http.ResponseWriter, r *http.Request) {
	var req activityPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	patch, err := req.patch()
	if err != nil {
		writeError(w, r, err)
		return
	}
	a, err := s.svc.Activities.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(a))
}

func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Activities.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
