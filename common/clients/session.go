package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"
)

// loginResponse is the subset of the /auth response the session inspects.
// authcode is left raw because the service returns a string on success and a
// numeric zero on rejection.
type loginResponse struct {
	Authcode json.RawMessage `json:"authcode"`
	Message  string          `json:"message"`
}

// Session owns the authenticated state of one client instance.
//
// It starts Unauthenticated, becomes Authenticated only on an explicit
// successful login, and is flipped back by the resolver when a resource fetch
// reports an authorization failure. Transitions are serialized so concurrent
// callers cannot interleave logins.
type Session struct {
	mu            sync.Mutex
	authenticated bool

	email      string
	credential string
	loginURL   string
	timeout    time.Duration

	client *http.Client
	store  *PersistentJar
	logger Logger
}

func newSession(email, credential, loginURL string, timeout time.Duration, client *http.Client, store *PersistentJar, logger Logger) *Session {
	return &Session{
		email:      email,
		credential: credential,
		loginURL:   loginURL,
		timeout:    timeout,
		client:     client,
		store:      store,
		logger:     logger,
	}
}

// Authenticated reports whether the session holds a live login
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Invalidate flips the session back to Unauthenticated. The resolver calls
// this when the service answers a resource fetch with 401.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.authenticated {
		s.logger.Info("session invalidated by authorization failure")
	}
	s.authenticated = false
}

// EnsureAuthenticated performs a login exchange unless the session is already
// authenticated. Idempotent: repeated calls without an intervening
// authorization failure hit the network at most once.
func (s *Session) EnsureAuthenticated(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.authenticated {
		return nil
	}
	return s.login(ctx)
}

// login runs the credential exchange. Caller must hold s.mu.
func (s *Session) login(ctx context.Context) error {
	s.logger.Info("authenticating with remote service", "email", s.email)

	if s.store != nil {
		if err := s.store.Load(); err != nil {
			return fmt.Errorf("session store: %w", err)
		}
	}

	payload, err := json.Marshal(map[string]string{
		"email":    s.email,
		"password": s.credential,
	})
	if err != nil {
		return fmt.Errorf("encode login payload: %w", err)
	}

	// The login exchange is the only call with its own tight deadline.
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.loginURL, bytes.NewReader(payload))
	if err != nil {
		return &AuthError{Kind: AuthConnectionFailed, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return &AuthError{Kind: AuthTimeout, Err: err}
		}
		return &AuthError{Kind: AuthConnectionFailed, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &AuthError{Kind: AuthConnectionFailed, Err: err}
	}

	var lr loginResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return &AuthError{Kind: AuthRejected, ServerMessage: string(body), Err: err}
	}

	if resp.StatusCode != http.StatusOK || !truthyAuthcode(lr.Authcode) {
		msg := lr.Message
		if msg == "" {
			msg = string(body)
		}
		return &AuthError{Kind: AuthRejected, ServerMessage: msg}
	}

	if s.store != nil {
		if err := s.store.Save(); err != nil {
			s.logger.Warn("failed to persist session store", "error", err)
		}
	}

	s.authenticated = true
	s.logger.Info("authenticated")
	return nil
}

// truthyAuthcode mirrors the service's convention: a rejected login still
// answers with an authcode field, but it is 0, false, null or empty.
func truthyAuthcode(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", "0", "false", `""`:
		return false
	}
	return true
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
