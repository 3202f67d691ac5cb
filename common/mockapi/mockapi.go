package mockapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/apexline/racedata/common/logger"
	"github.com/apexline/racedata/common/metrics"
)

// Account is a seeded login the mock origin accepts. EncodedPassword is the
// derived credential, not the plain password, matching what the real service
// verifies.
type Account struct {
	Email           string
	EncodedPassword string
	CustID          int
}

// Server emulates the remote racing-data origin for development and
// integration tests: credentialed /auth, cookie-guarded /data routes,
// one-time download links under /cache, chunk files under /chunks and a
// Prometheus /metrics endpoint.
type Server struct {
	echo *echo.Echo
	log  *logger.Logger

	mu       sync.Mutex
	accounts map[string]Account
	sessions map[string]bool

	inline  map[string]json.RawMessage // endpoint path → inline document
	linked  map[string]string          // endpoint path → cache key
	cache   map[string]json.RawMessage // cache key → linked document
	chunks  map[string]json.RawMessage // chunk file name → JSON array
	nested  map[string]bool            // endpoint path → manifest wrapped under "data"
	ordered map[string][]string        // endpoint path → chunk file names in order
}

// New creates an empty mock origin. Use AddAccount and the Set* helpers to
// seed it, or Seed for a ready-made development data set.
func New(log *logger.Logger) *Server {
	s := &Server{
		log:      log,
		accounts: make(map[string]Account),
		sessions: make(map[string]bool),
		inline:   make(map[string]json.RawMessage),
		linked:   make(map[string]string),
		cache:    make(map[string]json.RawMessage),
		chunks:   make(map[string]json.RawMessage),
		nested:   make(map[string]bool),
		ordered:  make(map[string][]string),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(s.countRequests)

	e.POST("/auth", s.handleAuth)
	e.GET("/data/*", s.handleData, s.requireSession)
	e.GET("/cache/:key", s.handleCache)
	e.GET("/chunks/:name", s.handleChunk)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	s.echo = e
	return s
}

// Handler returns the HTTP handler, for httptest or a real listener
func (s *Server) Handler() http.Handler {
	return s.echo
}

// AddAccount seeds a login the origin will accept
func (s *Server) AddAccount(a Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[strings.ToLower(a.Email)] = a
}

// SetInline serves doc directly from the given /data path
func (s *Server) SetInline(path string, doc any) {
	raw := mustJSON(doc)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inline[path] = raw
}

// SetLinked serves doc behind a one-time download link: the /data path
// answers with a link envelope pointing at /cache.
func (s *Server) SetLinked(path string, doc any) {
	raw := mustJSON(doc)
	key := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.linked[path] = key
	s.cache[key] = raw
}

// SetChunked serves the given chunk arrays behind a link envelope whose
// target carries a chunk manifest. When nested is true the manifest is
// wrapped under a "data" object, as the search endpoints do.
func (s *Server) SetChunked(path string, nestedUnderData bool, chunkArrays ...[]any) {
	base := strings.ReplaceAll(strings.Trim(path, "/"), "/", "_")

	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(chunkArrays))
	for i, arr := range chunkArrays {
		name := fmt.Sprintf("%s_%d.json", base, i)
		s.chunks[name] = mustJSON(arr)
		names = append(names, name)
	}
	s.ordered[path] = names
	s.nested[path] = nestedUnderData
}

// ExpireSessions drops every live session so the next /data fetch answers
// 401, exercising clients' re-authentication path.
func (s *Server) ExpireSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]bool)
}

func (s *Server) handleAuth(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"authcode": 0, "message": "malformed login"})
	}

	s.mu.Lock()
	account, ok := s.accounts[strings.ToLower(req.Email)]
	s.mu.Unlock()

	if !ok || account.EncodedPassword != req.Password {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		s.log.Warn("rejected login", "email", req.Email)
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"authcode": 0,
			"message":  "Invalid email address or password. Please try again.",
		})
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = true
	s.mu.Unlock()

	c.SetCookie(&http.Cookie{
		Name:     "authtoken",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})

	metrics.LoginsTotal.WithLabelValues("accepted").Inc()
	return c.JSON(http.StatusOK, echo.Map{
		"authcode": token,
		"custId":   account.CustID,
	})
}

func (s *Server) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie("authtoken")
		if err == nil {
			s.mu.Lock()
			live := s.sessions[cookie.Value]
			s.mu.Unlock()
			if live {
				return next(c)
			}
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
}

func (s *Server) handleData(c echo.Context) error {
	path := c.Request().URL.Path

	s.mu.Lock()
	doc, isInline := s.inline[path]
	key, isLinked := s.linked[path]
	names, isChunked := s.ordered[path]
	nested := s.nested[path]
	s.mu.Unlock()

	switch {
	case isInline:
		return c.JSONBlob(http.StatusOK, doc)

	case isLinked:
		link := originOf(c) + "/cache/" + key
		return c.JSON(http.StatusOK, echo.Map{"link": link})

	case isChunked:
		manifest := echo.Map{
			"base_download_url": originOf(c) + "/chunks/",
			"chunk_file_names":  names,
		}
		var payload echo.Map
		if nested {
			payload = echo.Map{"data": echo.Map{"chunk_info": manifest, "success": true}}
		} else {
			payload = echo.Map{"chunk_info": manifest, "success": true}
		}

		// Chunked answers go through link indirection like the real
		// service: register the manifest document in the cache and hand
		// out a link to it.
		raw := mustJSON(payload)
		cacheKey := uuid.NewString()
		s.mu.Lock()
		s.cache[cacheKey] = raw
		s.mu.Unlock()
		return c.JSON(http.StatusOK, echo.Map{"link": originOf(c) + "/cache/" + cacheKey})

	default:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no such endpoint: " + path})
	}
}

func (s *Server) handleCache(c echo.Context) error {
	s.mu.Lock()
	doc, ok := s.cache[c.Param("key")]
	s.mu.Unlock()

	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "expired link"})
	}
	return c.JSONBlob(http.StatusOK, doc)
}

func (s *Server) handleChunk(c echo.Context) error {
	s.mu.Lock()
	doc, ok := s.chunks[c.Param("name")]
	s.mu.Unlock()

	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no such chunk"})
	}
	metrics.ChunksServedTotal.Inc()
	return c.JSONBlob(http.StatusOK, doc)
}

func (s *Server) countRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		metrics.RequestsTotal.WithLabelValues(
			c.Path(), strconv.Itoa(c.Response().Status),
		).Inc()
		return err
	}
}

func originOf(c echo.Context) string {
	return c.Scheme() + "://" + c.Request().Host
}

func mustJSON(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("mockapi: unencodable fixture: %v", err))
	}
	return raw
}
