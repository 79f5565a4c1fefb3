// Package httpapi exposes the parser over HTTP: a single POST /parse
// endpoint guarded by bearer-token auth, each request tagged with a
// correlation id that is both returned to the caller and threaded into the
// trace sink, and (optionally) appended to a sqlite rate log.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/AlCramer/msparse"
	"github.com/AlCramer/msparse/internal/httpapi/auth"
	"github.com/AlCramer/msparse/internal/httpapi/ratelog"
	"github.com/AlCramer/msparse/internal/msnode"
	"github.com/AlCramer/msparse/internal/trace"
	"github.com/AlCramer/msparse/internal/xmlout"
)

// ParseRequest is the JSON body POST /parse expects.
type ParseRequest struct {
	Text string `json:"text"`
}

// ParseResponse is the JSON body POST /parse returns.
type ParseResponse struct {
	CorrelationID string `json:"correlation_id"`
	XML           string `json:"xml"`
}

// errorResponse is the JSON body an error response returns.
type errorResponse struct {
	Error string `json:"error"`
}

// API holds the dependencies the HTTP boundary needs: a Parser to drive, an
// optional auth guard, an optional rate log, and a trace sink.
type API struct {
	Parser  *msparse.Parser
	Guard   *auth.Guard
	RateLog *ratelog.Log
	Sink    trace.Sink
}

// Router builds the chi router for this API. It mounts POST /parse; if
// Guard is non-nil the route is wrapped in bearer-token auth.
func (a *API) Router() http.Handler {
	if a.Sink == nil {
		a.Sink = trace.Discard
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	handler := http.HandlerFunc(a.handleParse)
	if a.Guard != nil {
		r.Post("/parse", a.Guard.Middleware(handler).ServeHTTP)
	} else {
		r.Post("/parse", handler.ServeHTTP)
	}
	return r
}

func (a *API) handleParse(w http.ResponseWriter, req *http.Request) {
	id := uuid.NewString()
	start := time.Now()

	var body ParseRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		a.writeError(w, id, 0, http.StatusBadRequest, "malformed request body")
		return
	}

	a.Sink.Tracef("request %s: parsing %d byte(s)", id, len(body.Text))

	nodes := a.Parser.ParseText(body.Text, 1)
	xml := renderParseResult(nodes)
	a.Sink.Tracef("request %s: done in %s", id, time.Since(start))

	a.writeJSON(w, http.StatusOK, ParseResponse{CorrelationID: id, XML: xml})
	a.logServed(id, len(body.Text), http.StatusOK)
}

func (a *API) writeError(w http.ResponseWriter, id string, inputLen, status int, msg string) {
	a.writeJSON(w, status, errorResponse{Error: msg})
	a.logServed(id, inputLen, status)
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (a *API) logServed(id string, inputLen, status int) {
	if a.RateLog == nil {
		return
	}
	if err := a.RateLog.Record(id, inputLen, status); err != nil {
		a.Sink.Tracef("request %s: rate log write failed: %v", id, err)
	}
}

// renderParseResult renders a parse's output forest without the
// location-tracking attributes Engine's console output optionally includes;
// HTTP callers get plain, compact XML.
func renderParseResult(nodes []*msnode.Node) string {
	return xmlout.Render(nodes, false)
}
