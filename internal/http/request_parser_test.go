package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"daytrack/internal/core"
)

func TestParseRangeParams(t *testing.T) {
	today := core.NewDate(2024, 3, 6)
	cases := []struct {
		query     string
		wantStart string
		wantEnd   string
		wantErr   bool
	}{
		{"", "2024-02-29", "2024-03-06", false},
		{"range=30", "2024-02-06", "2024-03-06", false},
		{"range=90", "2023-12-08", "2024-03-06", false},
		{"start=2024-01-01&end=2024-01-31", "2024-01-01", "2024-01-31", false},
		{"range=14", "", "", true},
		{"range=week", "", "", true},
		{"start=2024-01-01", "", "", true},
	}
	for _, tc := range cases {
		q, _ := url.ParseQuery(tc.query)
		r, err := parseRangeParams(q, today)
		if tc.wantErr {
			if !errors.Is(err, errBadRequest) {
				t.Errorf("%q: expected bad request, got %v", tc.query, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", tc.query, err)
			continue
		}
		if r.Start.String() != tc.wantStart || r.End.String() != tc.wantEnd {
			t.Errorf("%q: got %s..%s", tc.query, r.Start, r.End)
		}
	}
}

func TestParseMonthParam(t *testing.T) {
	today := core.NewDate(2024, 3, 6)
	d, err := parseMonthParam("", today)
	if err != nil || d.String() != "2024-03-01" {
		t.Fatalf("default month: %v %v", d, err)
	}
	d, err = parseMonthParam("2023-12", today)
	if err != nil || d.String() != "2023-12-01" {
		t.Fatalf("explicit month: %v %v", d, err)
	}
	if _, err := parseMonthParam("2023-13", today); !errors.Is(err, errBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	decode := func(body string) error {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		return decodeJSON(httptest.NewRecorder(), r, &v)
	}

	if err := decode(`{"name":"x"}`); err != nil || v.Name != "x" {
		t.Fatalf("valid body: %v", err)
	}
	for _, body := range []string{"", `{"name":`, `{"other":1}`, `{"name":"a"}{"name":"b"}`} {
		if err := decode(body); !errors.Is(err, errBadRequest) {
			t.Errorf("%q: expected bad request, got %v", body, err)
		}
	}
	if err := decode(`{"name":"` + strings.Repeat("x", maxBodyBytes) + `"}`); err == nil {
		t.Error("oversized body accepted")
	}
}
