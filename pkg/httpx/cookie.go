package httpx

import (
	"net/http"
	"time"
)

// SessionCookie binds session tokens to the single HTTP cookie used for
// authentication. Exactly one cookie name is authoritative per deployment.
type SessionCookie struct {
	// Name of the cookie.
	Name string

	// Secure marks the cookie TLS-only. Defaults false so plain-HTTP
	// bring-up works; enabling it in deployments served over TLS is the
	// operator's responsibility.
	Secure bool

	// MaxAge mirrors the token TTL as a client retention hint. The token's
	// embedded expiry remains the authoritative source of truth.
	MaxAge time.Duration
}

// Attach sets the session cookie carrying token on the response.
func (c SessionCookie) Attach(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear overwrites the cookie with an empty value and an immediately-past
// expiry, forcing client deletion.
func (c SessionCookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Read extracts the session token from the request. A missing cookie is
// reported as ok=false, not an error.
func (c SessionCookie) Read(r *http.Request) (string, bool) {
	ck, err := r.Cookie(c.Name)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}
