// Package screeps is a client for the Screeps web API. A Session signs in
// once and then issues one request per operation, mapping the JSON reply onto
// typed records.
//
// Operations report three outcomes: a record, an absent record (nil with a
// nil error) when the server answers with a non-2xx status, or an error for
// local validation, transport, and decode failures. Nothing is retried.
package screeps

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"screeps-go/internal/config"
	"screeps-go/internal/logging"

	"github.com/buger/jsonparser"
	"github.com/rs/zerolog/log"
)

const DefaultBaseURL = "https://screeps.com"

const (
	headerToken     = "X-Token"
	headerUsername  = "X-Username"
	headerRequestID = "X-Request-Id"
)

type authMode int

const (
	authNone authMode = iota
	authOptional
	authRequired
)

// Session holds the auth token for one account. Reads are safe from multiple
// goroutines; concurrent SignIn calls race and must be serialized by the
// caller.
type Session struct {
	baseURL string
	http    *httpClient
	now     func() time.Time

	mu       sync.RWMutex
	token    string
	username string
}

// Config selects the server, request timeout and credentials of a Session.
type Config = config.ClientConfig

// NewSessionFromEnv reads the SCREEPS_* and LOG_* environment variables,
// installs the global logger they describe and returns a session for the
// configured server.
func NewSessionFromEnv() (*Session, error) {
	cfg, err := config.LoadApp()
	if err != nil {
		return nil, err
	}
	logging.Init(cfg.Log)
	return NewSession(cfg.Client), nil
}

func NewSession(cfg Config) *Session {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &Session{
		baseURL:  base,
		http:     newHTTPClient(cfg.Timeout),
		now:      time.Now,
		token:    strings.TrimSpace(cfg.Token),
		username: strings.TrimSpace(cfg.Username),
	}
}

// Token returns the current token, or "" before a successful sign in.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetToken installs a token issued outside SignIn, such as a persistent API
// auth token.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = strings.TrimSpace(token)
}

// SetUsername overrides the X-Username header, which otherwise repeats the
// token.
func (s *Session) SetUsername(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = strings.TrimSpace(username)
}

func (s *Session) credentials() (token, username string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	username = s.username
	if username == "" {
		username = s.token
	}
	return s.token, username
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn exchanges credentials for a token. It reports false without error
// when the server rejects the attempt; the previous token is kept in that
// case.
func (s *Session) SignIn(ctx context.Context, email, password string) (bool, error) {
	const path = "/api/auth/signin"
	body, ok, err := s.call(ctx, http.MethodPost, path, nil, authNone, signInRequest{Email: email, Password: password})
	if err != nil || !ok {
		return false, err
	}
	if !json.Valid(body) {
		return false, decodeFailure(path, errMalformed)
	}
	token, err := jsonparser.GetString(body, "token")
	if err != nil {
		return false, decodeFailure(path, err)
	}
	if strings.TrimSpace(token) == "" {
		return false, decodeFailure(path, errEmptyToken)
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	log.Info().Msg("screeps sign in succeeded")
	return true, nil
}

// CurrentUser returns the signed-in account with its private fields.
func (s *Session) CurrentUser(ctx context.Context) (*UserData, error) {
	const path = "/api/auth/me"
	body, ok, err := s.call(ctx, http.MethodGet, path, nil, authRequired, nil)
	if err != nil || !ok {
		return nil, err
	}
	return decodeRoot[UserData](path, body)
}

func (s *Session) call(ctx context.Context, method, path string, query url.Values, auth authMode, payload any) ([]byte, bool, error) {
	headers := map[string]string{headerRequestID: s.http.requestID()}
	if auth != authNone {
		token, username := s.credentials()
		switch {
		case token != "":
			headers[headerToken] = token
			headers[headerUsername] = username
		case auth == authRequired:
			return nil, false, ErrUnauthenticated
		}
	}

	endpoint := s.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	metricRequestsTotal.Add(1)
	start := time.Now()
	status, body, err := s.http.send(ctx, method, endpoint, headers, payload)
	elapsed := time.Since(start)
	if err != nil {
		metricNetworkErrorsTotal.Add(1)
		log.Warn().Err(err).Str("request_id", headers[headerRequestID]).Str("method", method).Str("path", path).Dur("elapsed", elapsed).Msg("screeps request failed")
		return nil, false, &NetworkError{Path: path, Err: err}
	}
	if status < 200 || status >= 300 {
		metricRequestFailedTotal.Add(1)
		metricRequestFailedStatus.Add(strconv.Itoa(status), 1)
		log.Debug().Str("request_id", headers[headerRequestID]).Str("method", method).Str("path", path).Int("status", status).Dur("elapsed", elapsed).Msg("screeps request rejected")
		return nil, false, nil
	}
	log.Debug().Str("request_id", headers[headerRequestID]).Str("method", method).Str("path", path).Int("status", status).Dur("elapsed", elapsed).Msg("screeps request")
	return body, true, nil
}
