package clients

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// EncodePassword derives the credential the remote service expects from a
// plain username/password pair: SHA-256 of password + lower-cased username,
// base64 encoded. The service re-derives the same value server-side, so the
// transform must stay byte-stable across runs. The result must never be
// logged.
func EncodePassword(username, password string) string {
	digest := sha256.Sum256([]byte(password + strings.ToLower(username)))
	return base64.StdEncoding.EncodeToString(digest[:])
}
