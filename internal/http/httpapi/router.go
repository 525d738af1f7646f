package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"rakta/internal/http/handlers"
	"rakta/internal/middleware"
)

// Options carries the cross-cutting pieces the router wires around the handlers.
type Options struct {
	Logger             zerolog.Logger
	Requests           middleware.RequestCounter
	Registry           *prometheus.Registry
	Verifier           middleware.TokenVerifier
	Revocations        middleware.RevocationChecker
	CountryLookup      middleware.CountryLookup
	DefaultLocale      string
	CORSAllowedOrigins []string
	AuthRateLimit      int
	StaticDir          string
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(opts.Logger, opts.Requests),
		chimw.Recoverer,
		middleware.CORS(opts.CORSAllowedOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/readyz", app.Ready)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)
	if opts.Registry != nil {
		r.Method(http.MethodGet, "/metrics", handlers.MetricsHandler(opts.Registry))
	}
	if strings.TrimSpace(opts.StaticDir) != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))
	}

	requireAuth := middleware.AuthJWT(opts.Verifier, opts.Revocations)

	r.Route("/v1/auth", func(r chi.Router) {
		if opts.AuthRateLimit > 0 {
			r.Use(middleware.RateLimit(opts.AuthRateLimit, time.Minute))
		}
		r.Post("/signup", app.SignUp)
		r.Post("/signin", app.SignIn)
		r.Post("/password/forgot", app.PasswordForgot)
		r.Post("/password/reset", app.PasswordReset)
		r.With(requireAuth).Post("/signout", app.SignOut)
	})

	r.Get("/v1/bloodbanks", app.BloodBanksList)
	r.Get("/v1/stats", app.StatsSummary)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Route("/v1/me", func(r chi.Router) {
			r.Get("/", app.Me)
			r.Put("/personal", app.UpdatePersonal)
			r.Put("/medical", app.UpdateMedical)
			r.Put("/availability", app.SetAvailability)
			r.Post("/picture", app.UploadPicture)
		})

		r.Get("/v1/dashboard", app.DashboardGet)
		r.Post("/v1/dashboard/refresh", app.DashboardRefresh)

		r.Post("/v1/donations", app.DonationsCreate)
		r.Post("/v1/requests", app.RequestsCreate)
		r.Get("/v1/requests", app.RequestsList)
	})

	return r
}
