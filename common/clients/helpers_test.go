package clients

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// nopLogger silences client logging in tests
type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{}) {}

// newTestClient builds a client pointed at a test origin with credentials
// matching acceptAuth.
func newTestClient(t *testing.T, baseURL string) *RacingClient {
	t.Helper()

	client, err := NewRacingClient(Config{
		BaseURL:        baseURL,
		Email:          "dev@example.com",
		Password:       "racer",
		CustID:         100001,
		LoginTimeout:   2 * time.Second,
		RequestTimeout: 2 * time.Second,
	}, nopLogger{})
	require.NoError(t, err)
	return client
}

// acceptAuth answers a login exchange successfully and counts calls
func acceptAuth(logins *int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		*logins++
		http.SetCookie(w, &http.Cookie{Name: "authtoken", Value: "tok", Path: "/"})
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"authcode":"abc"}`)
	}
}
