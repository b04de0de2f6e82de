// Package screepstest runs an in-process stand-in for the Screeps web API.
// Each route answers with whatever was registered through Handle and 404
// otherwise; every request is recorded for assertions.
package screepstest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"screeps-go/internal/logging"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
)

// Routes lists every path the client talks to.
var Routes = []struct {
	Method string
	Path   string
}{
	{http.MethodPost, "/api/auth/signin"},
	{http.MethodGet, "/api/auth/me"},
	{http.MethodGet, "/api/game/room-overview"},
	{http.MethodGet, "/api/game/room-terrain"},
	{http.MethodGet, "/api/user/find"},
	{http.MethodGet, "/api/leaderboard/seasons"},
	{http.MethodGet, "/api/leaderboard/find"},
	{http.MethodGet, "/api/user/messages/index"},
	{http.MethodGet, "/api/user/messages/list"},
	{http.MethodGet, "/api/user/world-status"},
}

type Request struct {
	ID     string
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

type reply struct {
	status int
	body   string
}

type Server struct {
	*httptest.Server

	mu       sync.Mutex
	replies  map[string]reply
	requests []Request
}

func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{replies: map[string]reply{}}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(accessLog())
	for _, rt := range Routes {
		r.Method(rt.Method, rt.Path, http.HandlerFunc(s.serve))
	}
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		s.record(req)
		writeJSON(w, http.StatusNotFound, `{"error":"not found"}`)
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Handle makes method+path answer with status and a raw JSON body.
func (s *Server) Handle(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[method+" "+path] = reply{status: status, body: body}
}

// HandleJSON is Handle with a value encoded by encoding/json.
func (s *Server) HandleJSON(t testing.TB, method, path string, status int, v any) {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("encode reply for %s: %v", path, err)
	}
	s.Handle(method, path, status, string(raw))
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Hits counts recorded requests to path.
func (s *Server) Hits(path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Path == path {
			n++
		}
	}
	return n
}

// Last returns the most recent request to path.
func (s *Server) Last(path string) (Request, bool) {
	reqs := s.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Path == path {
			return reqs[i], true
		}
	}
	return Request{}, false
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.record(r)
	s.mu.Lock()
	rep, ok := s.replies[r.Method+" "+r.URL.Path]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, `{"error":"not found"}`)
		return
	}
	writeJSON(w, rep.status, rep.body)
}

func (s *Server) record(r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	req := Request{
		ID:     chimw.GetReqID(r.Context()),
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	}
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func accessLog() func(http.Handler) http.Handler {
	return httplog.RequestLogger(
		slog.New(slog.NewJSONHandler(logging.Writer(), &slog.HandlerOptions{Level: slog.LevelWarn})),
		&httplog.Options{
			Level:              slog.LevelInfo,
			Schema:             httplog.SchemaECS,
			LogRequestBody:     func(*http.Request) bool { return false },
			LogResponseBody:    func(*http.Request) bool { return false },
			LogRequestHeaders:  []string{},
			LogResponseHeaders: []string{},
			LogExtraAttrs: func(req *http.Request, _ string, _ int) []slog.Attr {
				return []slog.Attr{
					slog.String("request_id", chimw.GetReqID(req.Context())),
					slog.String("method", req.Method),
					slog.String("path", req.URL.Path),
				}
			},
		},
	)
}
