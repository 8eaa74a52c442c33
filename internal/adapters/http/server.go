package httpadapter

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ims/internal/ports"
)

type Services struct {
	Risks      ports.Risks
	Aspects    ports.Aspects
	Safety     ports.Safety
	Registers  ports.Registers
	Compliance ports.Compliance
	Dashboard  ports.Dashboard
}

type Options struct {
	// JWTSecret enables HS256 bearer auth on /api when set.
	JWTSecret string
	Metrics   *Metrics
	Logger    *slog.Logger
	Timeout   time.Duration
}

type Server struct {
	svc  Services
	opts Options
	now  func() time.Time
}

func New(svc Services, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Server{svc: svc, opts: opts, now: time.Now}
}

// Routes returns the full router: health, metrics and the /api tree.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.opts.Logger))
	r.Use(middleware.Recoverer)
	if s.opts.Metrics != nil {
		r.Use(s.opts.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", s.opts.Metrics.Handler())
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(s.opts.Timeout))
		if s.opts.JWTSecret != "" {
			r.Use(bearerAuth([]byte(s.opts.JWTSecret)))
		}

		r.Get("/dashboard", s.getDashboard)
		r.Get("/compliance", s.getCompliance)
		r.Get("/compliance/{standard}", s.getComplianceStandard)
		r.Get("/compliance/{standard}/history", s.getComplianceHistory)

		r.Route("/risks", func(r chi.Router) {
			r.Get("/", s.listRisks)
			r.Post("/", s.createRisk)
			r.Get("/{id}", s.getRisk)
			r.Patch("/{id}", s.updateRisk)
			r.Delete("/{id}", s.deleteRisk)
		})
		r.Route("/aspects", func(r chi.Router) {
			r.Get("/", s.listAspects)
			r.Post("/", s.createAspect)
			r.Get("/{id}", s.getAspect)
			r.Patch("/{id}", s.updateAspect)
		})
		r.Route("/safety-metrics", func(r chi.Router) {
			r.Get("/", s.listSafetyMetrics)
			r.Put("/", s.upsertSafetyMetric)
			r.Get("/{year}/ytd", s.safetyYearToDate)
		})
		r.Route("/incidents", func(r chi.Router) {
			r.Get("/", s.listIncidents)
			r.Post("/", s.createIncident)
			r.Patch("/{id}/status", s.setIncidentStatus)
		})
		r.Route("/actions", func(r chi.Router) {
			r.Get("/", s.listActions)
			r.Post("/", s.createAction)
			r.Patch("/{id}/status", s.setActionStatus)
		})
		r.Route("/legal-requirements", func(r chi.Router) {
			r.Get("/", s.listLegalRequirements)
			r.Post("/", s.createLegalRequirement)
			r.Patch("/{id}/status", s.setLegalStatus)
		})
		r.Route("/analyses", func(r chi.Router) {
			r.Get("/", s.listAnalyses)
			r.Post("/", s.createAnalysis)
		})
	})
	return r
}
