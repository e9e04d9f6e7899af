/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/julienschmidt/httprouter"
)

// Catalog maps category name -> event name -> severity label. It is
// fetched once per session and read-only afterwards.
type Catalog map[string]map[string]string

// Events returns the event -> severity mapping for one category, or nil.
func (c Catalog) Events(category string) map[string]string {
	return c[category]
}

// Severity looks up the severity label of one event.
func (c Catalog) Severity(category, event string) (string, bool) {
	severity, ok := c[category][event]
	return severity, ok
}

// Names returns the category names in a stable order for display.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// The builtin tables. Severity labels tie events to the outcome pools
// below.
var defaultCategories = Catalog{
	"Defense": {
		"Sack":         "High",
		"Interception": "Mid",
		"Fumble lost":  "Mid",
	},
	"Referees": {
		"Penalty":              "Low",
		"Offsetting penalties": "Medium",
	},
	"Scoring": {
		"Field goal":           "Mid",
		"Long field goal":      "High",
		"2 point conv.":        "High",
		"Touchdown":            "High",
		"Long TD":              "Round of shots",
		"Trick play touchdown": "Round of shots",
		"Chip shot FG":         "Low",
		"Pick Six":             "High",
		"Fumble Six":           "High",
		"Safety":               "High",
	},
	"Game Outcome": {
		"Trick play that works":    "Mid",
		"First Down":               "Low",
		"XP Missed":                "Round of shots",
		"FG Missed":                "Low",
		"Turnover on Downs":        "Low",
		"3 & Out":                  "Low",
		"Lead change":              "Low",
		"Kneel to end half":        "Low",
		"Home team won coin toss":  "Medium",
		"Away team won coin toss":  "Medium",
		"Game goes to OT":          "High",
		"Goal line stand":          "Medium",
		"Team of your choice loses": "Shot",
	},
}

var defaultOutcomes = map[string][]string{
	"Low": {
		"Sip of your drink",
		"Everyone except you drink",
		"You + Person of choice drinks",
	},
	"Mid": {
		"10 second chug",
		"Finish your beer",
		"Drink as many sips/seconds as the people there",
		"Everyone drinks",
	},
	"Medium": {
		"10 second chug",
		"Finish your beer",
		"Everyone drinks",
	},
	"High": {
		"Take a shot",
		"Chug full beer",
		"Shotgun beer",
	},
	"Round of shots": {
		"Round of shots",
	},
	"Shot": {
		"Take a shot",
	},
}

// CategorySource provides the category catalog. Called at most once per
// session; the session caches the result.
type CategorySource interface {
	Categories(ctx context.Context) (Catalog, error)
}

// OutcomeSource draws a fresh outcome for a severity label. Never cached.
type OutcomeSource interface {
	Outcome(ctx context.Context, severity string) (string, error)
}

// builtinSource serves the embedded tables directly, skipping the HTTP
// round trip when the binary is its own catalog.
type builtinSource struct{}

func (builtinSource) Categories(_ context.Context) (Catalog, error) {
	return defaultCategories, nil
}

func (builtinSource) Outcome(_ context.Context, severity string) (string, error) {
	outcomes, ok := defaultOutcomes[severity]
	if !ok {
		return "", errFetch(nil, "no outcomes for severity %q", severity)
	}
	return outcomes[rand.IntN(len(outcomes))], nil
}

// httpSource talks to an external catalog API (--catalog-url), matching
// the endpoint shapes this binary itself exposes.
type httpSource struct {
	base   string
	client *http.Client
}

func newHTTPSource(base string) *httpSource {
	return &httpSource{
		base:   base,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *httpSource) Categories(ctx context.Context) (Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base+"/api/categories", nil)
	if err != nil {
		return nil, errFetch(err, "building categories request")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errFetch(err, "fetching categories")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errFetch(nil, "fetching categories: unexpected status %d", resp.StatusCode)
	}

	var catalog Catalog
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		return nil, errFetch(err, "decoding categories")
	}
	if len(catalog) == 0 {
		return nil, errFetch(nil, "decoding categories: empty catalog")
	}

	return catalog, nil
}

func (s *httpSource) Outcome(ctx context.Context, severity string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base+"/api/outcome/"+url.PathEscape(severity), nil)
	if err != nil {
		return "", errFetch(err, "building outcome request")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", errFetch(err, "fetching outcome")
	}
	defer resp.Body.Close()

	var body struct {
		Outcome string `json:"outcome"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", errFetch(err, "decoding outcome")
	}
	if body.Error != "" {
		return "", errFetch(nil, "outcome source: %s", body.Error)
	}
	if resp.StatusCode != http.StatusOK || body.Outcome == "" {
		return "", errFetch(nil, "fetching outcome: unexpected status %d", resp.StatusCode)
	}

	return body.Outcome, nil
}

func writeJSON(cfg *Config, w http.ResponseWriter, status int, v any) (int, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	securityHeaders(cfg, w)
	w.WriteHeader(status)

	return w.Write(data)
}

func serveCategories(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		written, err := writeJSON(cfg, w, http.StatusOK, defaultCategories)
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: Category catalog (%s) to %s in %s",
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

func serveOutcome(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		severity := p.ByName("severity")

		outcomes, ok := defaultOutcomes[severity]
		if !ok {
			if _, err := writeJSON(cfg, w, http.StatusNotFound, map[string]string{"error": "Severity not found"}); err != nil {
				errs <- err
			}
			return
		}

		metricOutcomesServed.WithLabelValues(severity).Inc()

		outcome := outcomes[rand.IntN(len(outcomes))]
		if _, err := writeJSON(cfg, w, http.StatusOK, map[string]string{"outcome": outcome}); err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: Outcome %q (%s) to %s", outcome, severity, realIP(r))
	}
}

// serveRandomEvent draws both an event and its outcome in one call, for
// clients that skip the event picker entirely.
func serveRandomEvent(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		category := p.ByName("category")

		events := defaultCategories.Events(category)
		if len(events) == 0 {
			if _, err := writeJSON(cfg, w, http.StatusNotFound, map[string]string{"error": "Category not found"}); err != nil {
				errs <- err
			}
			return
		}

		names := make([]string, 0, len(events))
		for name := range events {
			names = append(names, name)
		}
		event := names[rand.IntN(len(names))]
		severity := events[event]

		outcomes := defaultOutcomes[severity]
		if len(outcomes) == 0 {
			if _, err := writeJSON(cfg, w, http.StatusNotFound, map[string]string{"error": "Severity not found"}); err != nil {
				errs <- err
			}
			return
		}

		metricOutcomesServed.WithLabelValues(severity).Inc()

		if _, err := writeJSON(cfg, w, http.StatusOK, map[string]string{
			"event":   event,
			"outcome": outcomes[rand.IntN(len(outcomes))],
		}); err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: Random event from %q to %s", category, realIP(r))
	}
}

func registerCatalogAPI(cfg *Config, mux *httprouter.Router, errs chan<- error) {
	mux.GET(cfg.prefix+"/api/categories", serveCategories(cfg, errs))
	mux.GET(cfg.prefix+"/api/outcome/:severity", serveOutcome(cfg, errs))
	mux.GET(cfg.prefix+"/api/random-event/:category", serveRandomEvent(cfg, errs))
}

// compile-time checks that both sources satisfy the interfaces.
var (
	_ CategorySource = builtinSource{}
	_ OutcomeSource  = builtinSource{}
	_ CategorySource = (*httpSource)(nil)
	_ OutcomeSource  = (*httpSource)(nil)
)
