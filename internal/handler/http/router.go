package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/ismo-hris/hris-backend-go/internal/config"
	"github.com/ismo-hris/hris-backend-go/internal/handler/http/middleware"
	"github.com/ismo-hris/hris-backend-go/internal/pkg/jwt"
	"github.com/ismo-hris/hris-backend-go/internal/pkg/metrics"
)

type Handlers struct {
	Auth         AuthHandler
	Master       MasterHandler
	Employee     EmployeeHandler
	Leave        LeaveHandler
	OfficialWork LeaveHandler
	Attendance   AttendanceHandler
	Letter       LetterHandler
}

func NewRouter(app config.AppConfig, JWTService jwt.Service, m *metrics.Metrics, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(app.Env != "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", app.Name),
		slog.String("version", app.Version),
		slog.String("env", app.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(m.Middleware)
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api/v1", func(r chi.Router) {

		r.Post("/auth/login", h.Auth.Login)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Route("/auth", func(r chi.Router) {
				r.Post("/logout", h.Auth.Logout)
				r.Get("/me", h.Auth.Me)
				r.Post("/change-password", h.Auth.ChangePassword)

				r.With(middleware.SuperuserOnly).Post("/users", h.Auth.CreateUser)
			})

			r.Get("/lookups", h.Master.Lookups)
			r.Get("/sections", h.Master.ListSections)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.Employee.ListEmployees)
				r.With(middleware.SuperuserOnly).Post("/", h.Employee.CreateEmployee)
				r.Get("/options", h.Employee.ListOptions)
				r.Get("/summary", h.Employee.Summary)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Employee.GetEmployee)
					r.With(middleware.SuperuserOnly).Put("/", h.Employee.ReplaceEmployee)
					r.With(middleware.SuperuserOnly).Delete("/", h.Employee.DeleteEmployee)
				})
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Get("/", h.Leave.ListRequests)
				r.Post("/", h.Leave.CreateRequest)
				r.Post("/decide", h.Leave.DecideRequest)
				r.Get("/report", h.Leave.Report)
			})

			r.Route("/official-work", func(r chi.Router) {
				r.Get("/", h.OfficialWork.ListRequests)
				r.Post("/", h.OfficialWork.CreateRequest)
				r.Post("/decide", h.OfficialWork.DecideRequest)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/", h.Attendance.ListRecords)
				r.Post("/", h.Attendance.UpsertShift)
				r.Get("/overview", h.Attendance.Overview)
			})

			r.Route("/letters", func(r chi.Router) {
				r.Get("/", h.Letter.ListLetters)
				r.Post("/", h.Letter.CreateLetter)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Letter.GetLetter)
					r.Put("/", h.Letter.ReplaceLetter)
					r.Delete("/", h.Letter.DeleteLetter)
					r.Get("/download", h.Letter.Download)
					r.Get("/history", h.Letter.History)
				})
			})
		})
	})
	return r
}
