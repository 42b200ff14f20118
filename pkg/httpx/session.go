package httpx

import (
	"net/http"

	"github.com/trimline/seatcase/pkg/tokenx"
)

// Authorize is the single decision procedure for protected surfaces: read
// the session cookie, verify the token, and check the role. requiredRole ""
// accepts any authenticated role. Missing cookie, invalid token, and role
// mismatch all collapse to ok=false; callers surface one uniform 401.
func Authorize(r *http.Request, codec *tokenx.Codec, cookie SessionCookie, requiredRole string) (tokenx.Claims, bool) {
	token, ok := cookie.Read(r)
	if !ok {
		// Fast reject, no signature work on absent input.
		return tokenx.Claims{}, false
	}

	claims, ok := codec.Verify(token)
	if !ok {
		return tokenx.Claims{}, false
	}

	if requiredRole != "" && claims.Role != requiredRole {
		return tokenx.Claims{}, false
	}

	return claims, true
}

// RequireSession gates API routes. It runs before the handler reads any
// request body, so unauthenticated requests never reach business logic.
// Denials are a bare 401 with no sub-cause detail.
func RequireSession(codec *tokenx.Codec, cookie SessionCookie, requiredRole string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := Authorize(r, codec, cookie, requiredRole)
			if !ok {
				WriteError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithSession(r.Context(), claims)))
		})
	}
}

// RequireSessionPage gates page routes: failed authorization redirects to
// loginPath instead of returning JSON.
func RequireSessionPage(codec *tokenx.Codec, cookie SessionCookie, requiredRole, loginPath string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := Authorize(r, codec, cookie, requiredRole)
			if !ok {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithSession(r.Context(), claims)))
		})
	}
}
