package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/workpulse/payroll-engine-go/internal/handler/http/middleware"
)

func NewRouter(tokenAuth *jwtauth.JWTAuth, payrollHandler PayrollHandler, performanceHandler PerformanceHandler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-engine"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(tokenAuth))
			r.Use(middleware.AuthRequired(tokenAuth))
			r.Use(middleware.RequireCompany)

			r.Route("/payroll", func(r chi.Router) {
				r.Route("/cycles", func(r chi.Router) {
					r.Post("/", payrollHandler.GenerateCycle)
					r.Post("/regenerate", payrollHandler.RegenerateCycle)
					r.Get("/{month}/summary", payrollHandler.GetCycleSummary)
				})
				r.Route("/entries", func(r chi.Router) {
					r.Post("/{id}/approve", payrollHandler.ApproveEntry)
					r.Post("/{id}/pay", payrollHandler.PayEntry)
				})
			})

			r.Route("/performance", func(r chi.Router) {
				r.Post("/calculate", performanceHandler.Calculate)
				r.Route("/scores", func(r chi.Router) {
					r.Get("/{month}", performanceHandler.ListScores)
					r.Get("/{month}/{employeeID}", performanceHandler.GetScore)
				})
			})
		})
	})

	return r
}
