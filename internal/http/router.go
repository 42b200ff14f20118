package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/trimline/seatcase/internal/domain"
	"github.com/trimline/seatcase/internal/service"
	"github.com/trimline/seatcase/internal/store"
	"github.com/trimline/seatcase/pkg/httpx"
	"github.com/trimline/seatcase/pkg/slogx"
	"github.com/trimline/seatcase/pkg/tokenx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	codec        *tokenx.Codec
	cookie       httpx.SessionCookie
	uploadDir    string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store        store.Store
	AuthService  *service.AuthService
	UserService  *service.UserService
	CaseService  *service.CaseService
	MediaService *service.MediaService
}

func NewRouter(
	codec *tokenx.Codec,
	cookie httpx.SessionCookie,
	uploadDir, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		codec:        codec,
		cookie:       cookie,
		uploadDir:    uploadDir,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerAdmin()
	r.registerPublic()
	r.registerSystem()
}

func (r *Router) registerAuth() {
	login := &LoginHandler{
		AuthService: r.AuthService,
		Cookie:      r.cookie,
	}
	r.Mux.Handle("POST /api/auth/login", login)
	r.Mux.Handle("POST /api/auth/logout", &LogoutHandler{Cookie: r.cookie})
}

func (r *Router) registerAdmin() {
	// Single authorization gate for every privileged surface. It runs
	// before any request body is read.
	adminOnly := httpx.RequireSession(r.codec, r.cookie, domain.RoleAdmin.String())
	anySession := httpx.RequireSession(r.codec, r.cookie, "")

	// Changing your own password only needs a valid session; USER-role
	// accounts manage their own credential too.
	r.Mux.Handle("POST /api/admin/change-password",
		httpx.Chain(&ChangePasswordHandler{AuthService: r.AuthService}, anySession))

	users := &UsersHandler{UserService: r.UserService, AuthService: r.AuthService}
	r.Mux.Handle("GET /api/admin/users", httpx.Chain(http.HandlerFunc(users.List), adminOnly))
	r.Mux.Handle("POST /api/admin/users", httpx.Chain(http.HandlerFunc(users.Create), adminOnly))
	r.Mux.Handle("PUT /api/admin/users/{id}/password",
		httpx.Chain(http.HandlerFunc(users.SetPassword), adminOnly))

	cases := &AdminCasesHandler{CaseService: r.CaseService}
	r.Mux.Handle("GET /api/admin/cases", httpx.Chain(http.HandlerFunc(cases.List), adminOnly))
	r.Mux.Handle("POST /api/admin/cases", httpx.Chain(http.HandlerFunc(cases.Create), adminOnly))
	r.Mux.Handle("PATCH /api/admin/cases/{id}", httpx.Chain(http.HandlerFunc(cases.Patch), adminOnly))
	r.Mux.Handle("DELETE /api/admin/cases/{id}", httpx.Chain(http.HandlerFunc(cases.Delete), adminOnly))

	media := &MediaHandler{MediaService: r.MediaService}
	r.Mux.Handle("POST /api/admin/upload", httpx.Chain(http.HandlerFunc(media.Upload), adminOnly))
	r.Mux.Handle("GET /api/admin/media", httpx.Chain(http.HandlerFunc(media.Library), adminOnly))
}

func (r *Router) registerPublic() {
	public := &PublicCasesHandler{CaseService: r.CaseService}
	r.Mux.Handle("GET /api/cases", http.HandlerFunc(public.List))
	r.Mux.Handle("GET /api/cases/{id}", http.HandlerFunc(public.Get))

	// Uploaded media is public content once referenced by a published case.
	r.Mux.Handle("GET /uploads/",
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(r.uploadDir))))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
