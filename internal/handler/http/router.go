package http

import (
	"log/slog"
	"os"

	"github.com/folhacerta/folha-backend-go/internal/domain/user"
	"github.com/folhacerta/folha-backend-go/internal/handler/http/middleware"
	"github.com/folhacerta/folha-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	JWTService jwt.Service,
	periodHandler PeriodHandler,
	remittanceHandler RemittanceHandler,
	env string,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "folha-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/payroll", func(r chi.Router) {

				r.Route("/periods", func(r chi.Router) {
					r.Get("/status", periodHandler.GetStatus)
					r.Get("/reopen-history", periodHandler.GetReopenHistory)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionFinalizePeriod))
						r.Post("/finalize", periodHandler.Finalize)
					})

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionReopenPeriod))
						r.Post("/reopen", periodHandler.Reopen)
					})
				})

				r.Route("/remittance", func(r chi.Router) {
					r.Get("/records", remittanceHandler.ListRecords)
					r.Get("/validation", remittanceHandler.ValidateBankData)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionGenerateRemittance))
						r.Get("/bordero", remittanceHandler.DownloadBordero)
						r.Get("/cnab400", remittanceHandler.DownloadCNAB400)
					})
				})
			})
		})
	})
	return r
}
