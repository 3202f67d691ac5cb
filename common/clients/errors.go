package clients

import "fmt"

// AuthErrorKind classifies login failures
type AuthErrorKind string

const (
	AuthTimeout          AuthErrorKind = "timeout"
	AuthConnectionFailed AuthErrorKind = "connection_failed"
	AuthRejected         AuthErrorKind = "rejected"
)

// AuthError is a fatal login failure. It is never retried beyond the single
// automatic re-auth cycle the resolver performs.
type AuthError struct {
	Kind          AuthErrorKind
	ServerMessage string
	Err           error
}

func (e *AuthError) Error() string {
	switch e.Kind {
	case AuthRejected:
		return fmt.Sprintf("authentication rejected: %s", e.ServerMessage)
	default:
		return fmt.Sprintf("authentication %s: %v", e.Kind, e.Err)
	}
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// ResolveError reports a non-success status from the remote service during
// resource or chunk resolution.
type ResolveError struct {
	StatusCode int
	Body       string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// ParamError reports a missing required parameter for a catalog operation.
type ParamError struct {
	Op    string
	Param string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: missing required parameter %q", e.Op, e.Param)
}

// errorKind names the error taxonomy bucket for one-line diagnostics.
func errorKind(err error) string {
	switch err.(type) {
	case *AuthError:
		return "AuthError"
	case *ResolveError:
		return "ResolveError"
	case *ParamError:
		return "ParamError"
	default:
		return "Error"
	}
}
