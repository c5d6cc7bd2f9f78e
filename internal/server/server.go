package server

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/AlexTLDR/wedding/internal/auth"
	"github.com/AlexTLDR/wedding/internal/config"
	"github.com/AlexTLDR/wedding/internal/guests"
	"github.com/AlexTLDR/wedding/internal/rsvp"
	"github.com/AlexTLDR/wedding/internal/server/handlers"
)

const flashSession = "wedding-flash"

type Server struct {
	config       *config.Config
	guests       *guests.Directory
	rsvp         *rsvp.Service
	auth         *auth.Gate
	sessionStore *sessions.CookieStore
	router       *http.ServeMux
	log          zerolog.Logger
}

// GetConfig implements handlers.Server interface
func (s *Server) GetConfig() *config.Config {
	return s.config
}

// GetGuests implements handlers.Server interface
func (s *Server) GetGuests() *guests.Directory {
	return s.guests
}

// GetRSVP implements handlers.Server interface
func (s *Server) GetRSVP() *rsvp.Service {
	return s.rsvp
}

// GetAuth implements handlers.AdminServer interface
func (s *Server) GetAuth() *auth.Gate {
	return s.auth
}

// AddFlash implements handlers.Server interface
func (s *Server) AddFlash(w http.ResponseWriter, r *http.Request, msg string, isError bool) {
	session, _ := s.sessionStore.Get(r, flashSession)
	if isError {
		session.AddFlash(msg, "error")
	} else {
		session.AddFlash(msg)
	}
	if err := session.Save(r, w); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("failed to save flash")
	}
}

// PopFlash implements handlers.Server interface
func (s *Server) PopFlash(w http.ResponseWriter, r *http.Request) (string, bool) {
	session, _ := s.sessionStore.Get(r, flashSession)
	var msg string
	isError := false
	if errs := session.Flashes("error"); len(errs) > 0 {
		msg, _ = errs[0].(string)
		isError = true
	} else if infos := session.Flashes(); len(infos) > 0 {
		msg, _ = infos[0].(string)
	}
	if msg == "" {
		return "", false
	}
	if err := session.Save(r, w); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("failed to clear flash")
	}
	return msg, isError
}

func New(cfg *config.Config, dir *guests.Directory, svc *rsvp.Service, gate *auth.Gate, log zerolog.Logger) *Server {
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}

	s := &Server{
		config:       cfg,
		guests:       dir,
		rsvp:         svc,
		auth:         gate,
		sessionStore: store,
		router:       http.NewServeMux(),
		log:          log.With().Str("component", "http").Logger(),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Static files
	fs := http.FileServer(http.Dir("./static"))
	s.router.Handle("GET /static/", http.StripPrefix("/static/", fs))

	s.router.HandleFunc("GET /healthz", handlers.HandleHealth())

	// Public routes
	s.router.HandleFunc("GET /{$}", handlers.HandleHome(s))
	s.router.HandleFunc("GET /rsvp/{uniqueUrl}", handlers.HandleRSVP(s))
	s.router.HandleFunc("POST /rsvp/{uniqueUrl}", handlers.HandleRSVPSubmit(s))

	// JSON API
	api := http.NewServeMux()
	api.HandleFunc("POST /api/auth", handlers.HandleAPIAuth(s))
	api.HandleFunc("POST /api/rsvp", handlers.HandleAPISubmitRSVP(s))
	api.HandleFunc("GET /api/rsvp", handlers.HandleAPIListRSVP(s))
	s.router.Handle("/api/", s.cors().Handler(api))

	// Admin routes; the dashboard renders the password prompt itself
	s.router.HandleFunc("GET /admin", handlers.HandleAdminDashboard(s))
	s.router.HandleFunc("POST /admin/login", handlers.HandleAdminLogin(s))
	s.router.HandleFunc("GET /admin/responses.csv", s.requireAuth(handlers.HandleAdminDownloadCSV(s)))
}

func (s *Server) cors() *cors.Cors {
	opts := cors.Options{
		AllowedOrigins:   s.config.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}
	if len(opts.AllowedOrigins) == 0 {
		// An empty list means all origins to rs/cors; only same-origin requests are wanted.
		opts.AllowOriginFunc = func(string) bool { return false }
	}
	return cors.New(opts)
}

// Handler returns the router wrapped in request logging.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	h = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})(h)
	h = hlog.RemoteAddrHandler("ip")(h)
	h = hlog.RequestIDHandler("req_id", "Request-Id")(h)
	h = hlog.NewHandler(s.log)(h)
	return h
}

// HTTPServer returns an http.Server for the configured port.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              ":" + s.config.Port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// requireAuth is a middleware that checks if the session cookie is valid
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.auth.IsAuthenticated(r) {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}
