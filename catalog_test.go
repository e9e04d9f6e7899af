package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
)

func TestCatalogLookups(t *testing.T) {
	if events := defaultCategories.Events("Defense"); len(events) != 3 {
		t.Fatalf("expected 3 defense events, got %d", len(events))
	}
	if events := defaultCategories.Events("Halftime Show"); events != nil {
		t.Fatal("expected nil for unknown category")
	}

	severity, ok := defaultCategories.Severity("Scoring", "Pick Six")
	if !ok || severity != "High" {
		t.Fatalf("expected High severity, got %q (%v)", severity, ok)
	}
	if _, ok := defaultCategories.Severity("Scoring", "Moon Ball"); ok {
		t.Fatal("expected unknown event to miss")
	}
}

func TestCatalogNamesAreSorted(t *testing.T) {
	names := defaultCategories.Names()
	if len(names) != 4 {
		t.Fatalf("expected 4 categories, got %d", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
}

func TestEverySeverityHasOutcomes(t *testing.T) {
	for category, events := range defaultCategories {
		for event, severity := range events {
			if len(defaultOutcomes[severity]) == 0 {
				t.Fatalf("%s/%s references severity %q with no outcomes", category, event, severity)
			}
		}
	}
}

func TestBuiltinSourceOutcome(t *testing.T) {
	var src builtinSource

	outcome, err := src.Outcome(context.Background(), "Round of shots")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != "Round of shots" {
		t.Fatalf("unexpected outcome %q", outcome)
	}

	_, err = src.Outcome(context.Background(), "Cataclysmic")
	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected FetchError for unknown severity, got %v", err)
	}
}

func TestServeCategories(t *testing.T) {
	cfg := &Config{}
	errs := make(chan error, 1)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	serveCategories(cfg, errs)(w, r, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var catalog Catalog
	if err := json.NewDecoder(w.Body).Decode(&catalog); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if _, ok := catalog.Severity("Defense", "Sack"); !ok {
		t.Fatal("expected Defense/Sack in served catalog")
	}
}

func TestServeOutcome(t *testing.T) {
	cfg := &Config{}
	errs := make(chan error, 1)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/outcome/High", nil)
	serveOutcome(cfg, errs)(w, r, httprouter.Params{{Key: "severity", Value: "High"}})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Outcome string `json:"outcome"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	found := false
	for _, o := range defaultOutcomes["High"] {
		if o == body.Outcome {
			found = true
		}
	}
	if !found {
		t.Fatalf("outcome %q not in the High pool", body.Outcome)
	}
}

func TestServeOutcomeUnknownSeverity(t *testing.T) {
	cfg := &Config{}
	errs := make(chan error, 1)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/outcome/Cataclysmic", nil)
	serveOutcome(cfg, errs)(w, r, httprouter.Params{{Key: "severity", Value: "Cataclysmic"}})

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.Error != "Severity not found" {
		t.Fatalf("unexpected error body %q", body.Error)
	}
}

func TestServeRandomEvent(t *testing.T) {
	cfg := &Config{}
	errs := make(chan error, 1)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/random-event/Referees", nil)
	serveRandomEvent(cfg, errs)(w, r, httprouter.Params{{Key: "category", Value: "Referees"}})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Event   string `json:"event"`
		Outcome string `json:"outcome"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if _, ok := defaultCategories.Severity("Referees", body.Event); !ok {
		t.Fatalf("event %q not in Referees", body.Event)
	}
	if body.Outcome == "" {
		t.Fatal("expected an outcome")
	}
}

func TestServeRandomEventUnknownCategory(t *testing.T) {
	cfg := &Config{}
	errs := make(chan error, 1)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/random-event/Nope", nil)
	serveRandomEvent(cfg, errs)(w, r, httprouter.Params{{Key: "category", Value: "Nope"}})

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestHTTPSourceCategories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/categories" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(defaultCategories)
	}))
	defer srv.Close()

	src := newHTTPSource(srv.URL)

	catalog, err := src.Categories(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := catalog.Severity("Defense", "Sack"); !ok {
		t.Fatal("expected Defense/Sack in fetched catalog")
	}
}

func TestHTTPSourceCategoriesFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-2xx", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}},
		{"empty catalog", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{}"))
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			_, err := newHTTPSource(srv.URL).Categories(context.Background())

			var ferr *FetchError
			if !errors.As(err, &ferr) {
				t.Fatalf("expected FetchError, got %v", err)
			}
		})
	}
}

func TestHTTPSourceOutcome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/outcome/High" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"outcome": "Take a shot"}`))
	}))
	defer srv.Close()

	outcome, err := newHTTPSource(srv.URL).Outcome(context.Background(), "High")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != "Take a shot" {
		t.Fatalf("unexpected outcome %q", outcome)
	}
}

func TestHTTPSourceOutcomeErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "Severity not found"}`))
	}))
	defer srv.Close()

	_, err := newHTTPSource(srv.URL).Outcome(context.Background(), "Cataclysmic")

	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
}
