package clients

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
)

// storedCookie is the on-disk shape of one persisted cookie. The file format
// is private to the transport; callers treat the store as opaque.
type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PersistentJar is a cookie jar scoped to a single origin that can be saved
// to and loaded from a file, so a later process can resume an authenticated
// session without logging in again.
type PersistentJar struct {
	*cookiejar.Jar
	path   string
	origin *url.URL
}

// NewPersistentJar creates a jar persisting cookies for origin at path
func NewPersistentJar(path string, origin *url.URL) (*PersistentJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &PersistentJar{
		Jar:    jar,
		path:   path,
		origin: origin,
	}, nil
}

// Load reads the persisted cookie store into the jar. A missing file is not
// an error: a fresh empty store is written so the path is valid from first
// use. Persisted cookies are restored unconditionally, including ones that
// were session-scoped when saved.
func (j *PersistentJar) Load() error {
	data, err := os.ReadFile(j.path)
	if errors.Is(err, os.ErrNotExist) {
		return j.Save()
	}
	if err != nil {
		return fmt.Errorf("load cookie store: %w", err)
	}

	var stored []storedCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("decode cookie store %s: %w", j.path, err)
	}

	cookies := make([]*http.Cookie, 0, len(stored))
	for _, c := range stored {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	j.SetCookies(j.origin, cookies)

	return nil
}

// Save writes the jar's current cookies for the origin back to the store
func (j *PersistentJar) Save() error {
	current := j.Cookies(j.origin)
	stored := make([]storedCookie, 0, len(current))
	for _, c := range current {
		stored = append(stored, storedCookie{Name: c.Name, Value: c.Value})
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cookie store: %w", err)
	}

	if dir := filepath.Dir(j.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cookie store dir: %w", err)
		}
	}

	if err := os.WriteFile(j.path, data, 0o600); err != nil {
		return fmt.Errorf("save cookie store: %w", err)
	}

	return nil
}
