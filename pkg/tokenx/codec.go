// Package tokenx implements the signed session token used for cookie
// authentication: base64url(claims JSON) + "." + base64url(HMAC-SHA256 over
// the payload segment). Tokens are self-contained; there is no server-side
// session table and expiry is bounded entirely by the embedded exp claim.
//
// The Codec owns the signing secret and the serialization format. Nothing
// else constructs or validates tokens.
package tokenx

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ErrNoSecret reports a missing signing secret. Deployments must treat this
// as fatal at startup rather than falling back to a known default.
var ErrNoSecret = errors.New("tokenx: signing secret is required")

// Codec mints and verifies session tokens with a process-wide secret.
// The secret is immutable for the process lifetime; rotating it invalidates
// all outstanding tokens, which is an acceptable operational action.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// New returns a Codec signing with secret and issuing tokens valid for ttl.
// A non-positive ttl falls back to DefaultSessionTTL.
func New(secret string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Codec{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue mints a signed token for subject, valid from now until now+TTL.
func (c *Codec) Issue(sub Subject) (string, error) {
	return c.IssueAt(sub, time.Now())
}

// IssueAt is Issue with an explicit clock, for tests and callers that need
// deterministic timestamps.
func (c *Codec) IssueAt(sub Subject, now time.Time) (string, error) {
	claims := Claims{
		Version:   Version,
		IssuedAt:  now.UnixMilli(),
		ExpiresAt: now.Add(c.ttl).UnixMilli(),
		UserID:    sub.ID,
		Role:      sub.Role,
		Username:  sub.Username,
	}

	raw, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	payload := base64.RawURLEncoding.EncodeToString(raw)
	sig := base64.RawURLEncoding.EncodeToString(c.sign(payload))
	return payload + "." + sig, nil
}

// Verify checks the token's signature, shape, version, and expiry. Every
// failure collapses to ok=false; callers never learn which check failed.
func (c *Codec) Verify(token string) (Claims, bool) {
	return c.VerifyAt(token, time.Now())
}

// VerifyAt is Verify with an explicit clock.
func (c *Codec) VerifyAt(token string, now time.Time) (Claims, bool) {
	payload, sig64, ok := strings.Cut(token, ".")
	if !ok || payload == "" || strings.Contains(sig64, ".") {
		return Claims{}, false
	}

	sig, err := base64.RawURLEncoding.DecodeString(sig64)
	if err != nil {
		return Claims{}, false
	}

	// Signature first, before touching the payload. ConstantTimeCompare is
	// length-checked and does not short-circuit on the first differing byte.
	if subtle.ConstantTimeCompare(sig, c.sign(payload)) != 1 {
		return Claims{}, false
	}

	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return Claims{}, false
	}

	var claims Claims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return Claims{}, false
	}

	if claims.Version != Version {
		return Claims{}, false
	}
	if claims.UserID == "" || claims.Username == "" || claims.Role == "" {
		return Claims{}, false
	}
	if claims.ExpiresAt <= 0 || now.UnixMilli() >= claims.ExpiresAt {
		return Claims{}, false
	}

	return claims, true
}

func (c *Codec) sign(payload string) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(payload))
	return mac.Sum(nil)
}
