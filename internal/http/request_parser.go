package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"daytrack/internal/core"
)

const maxBodyBytes = 64 << 10

var errBadRequest = errors.New("bad request")

// decodeJSON reads a bounded JSON body into v, rejecting unknown fields and
// trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadRequest)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after JSON object", errBadRequest)
	}
	return nil
}

// parseDateParam parses a required YYYY-MM-DD query or path value.
func parseDateParam(name, raw string) (core.Date, error) {
	if strings.TrimSpace(raw) == "" {
		return core.Date{}, fmt.Errorf("%w: missing %s", errBadRequest, name)
	}
	d, err := core.ParseDate(raw)
	if err != nil {
		return core.Date{}, fmt.Errorf("%w: %s: %v", errBadRequest, name, err)
	}
	return d, nil
}

// parseMonthParam parses YYYY-MM, defaulting to the month of today.
func parseMonthParam(raw string, today core.Date) (core.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return core.FirstOfMonth(today), nil
	}
	month, err := core.ParseMonth(raw)
	if err != nil {
		return core.Date{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return month, nil
}

// parseRangeParams resolves either ?range=7|30|90 or an explicit
// ?start=&end= pair. Without parameters the last 7 days are used.
func parseRangeParams(q url.Values, today core.Date) (core.DateRange, error) {
	if start, end := q.Get("start"), q.Get("end"); start != "" || end != "" {
		s, err := parseDateParam("start", start)
		if err != nil {
			return core.DateRange{}, err
		}
		e, err := parseDateParam("end", end)
		if err != nil {
			return core.DateRange{}, err
		}
		return core.DateRange{Label: "Custom", Start: s, End: e}, nil
	}

	presets := core.DateRangePresets(today)
	switch v := strings.TrimSpace(q.Get("range")); v {
	case "", "7":
		return presets[0], nil
	case "30":
		return presets[1], nil
	case "90":
		return presets[2], nil
	default:
		if _, err := strconv.Atoi(v); err == nil {
			return core.DateRange{}, fmt.Errorf("%w: range must be 7, 30 or 90", errBadRequest)
		}
		return core.DateRange{}, fmt.Errorf("%w: range %q", errBadRequest, v)
	}
}

// sanitizeInput removes control characters except tab, newline and carriage
// return, and trims whitespace.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
