package clients

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL        = "https://members-ng.iracing.com"
	defaultLoginTimeout   = 5 * time.Second
	defaultRequestTimeout = 30 * time.Second

	authPath = "/auth"
)

// Config configures a RacingClient
type Config struct {
	// BaseURL is the remote origin. Defaults to the production service.
	BaseURL string

	// Email and Password identify the account. The password is encoded at
	// construction and the plain text is not retained.
	Email    string
	Password string

	// CustID is the fallback customer ID for operations that are scoped to a
	// member when no explicit ID is supplied.
	CustID int

	// CookieFile, when set, persists the transport's session store so a
	// later process can resume without re-authenticating.
	CookieFile string

	// LoginTimeout bounds the login exchange (default 5s). RequestTimeout
	// bounds every other network call (default 30s).
	LoginTimeout   time.Duration
	RequestTimeout time.Duration
}

// RacingClient is an authenticated client for the remote racing-data API. It
// transparently handles session (re)authentication, one-time download-link
// indirection and multi-file chunked payload reassembly.
type RacingClient struct {
	baseURL string
	http    *HTTPClient
	session *Session
	custID  int
	logger  Logger
}

// NewRacingClient creates a client for the configured account. No network
// I/O happens until the first resolution.
func NewRacingClient(cfg Config, logger Logger) (*RacingClient, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.LoginTimeout <= 0 {
		cfg.LoginTimeout = defaultLoginTimeout
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	if cfg.Email == "" || cfg.Password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	origin, err := url.Parse(baseURL)
	if err != nil || origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}

	var store *PersistentJar
	if cfg.CookieFile != "" {
		store, err = NewPersistentJar(cfg.CookieFile, origin)
		if err != nil {
			return nil, err
		}
		httpClient.Jar = store
	} else {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		httpClient.Jar = jar
	}

	credential := EncodePassword(cfg.Email, cfg.Password)
	session := newSession(cfg.Email, credential, baseURL+authPath, cfg.LoginTimeout, httpClient, store, logger)

	return &RacingClient{
		baseURL: baseURL,
		http:    NewHTTPClient(httpClient, logger),
		session: session,
		custID:  cfg.CustID,
		logger:  logger,
	}, nil
}

// Session exposes the session state machine, mainly so callers can check or
// reset authentication explicitly.
func (c *RacingClient) Session() *Session {
	return c.session
}

// resolveCustID applies the customer-ID fallback rule: explicit argument
// first, then the client default.
func (c *RacingClient) resolveCustID(override int) (int, error) {
	if override != 0 {
		return override, nil
	}
	if c.custID != 0 {
		return c.custID, nil
	}
	return 0, &ParamError{Op: "client", Param: "cust_id"}
}
