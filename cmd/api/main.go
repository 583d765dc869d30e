package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ismo-hris/hris-backend-go/internal/config"
	"github.com/ismo-hris/hris-backend-go/internal/domain/leave"
	appHTTP "github.com/ismo-hris/hris-backend-go/internal/handler/http"
	"github.com/ismo-hris/hris-backend-go/internal/pkg/cron"
	"github.com/ismo-hris/hris-backend-go/internal/pkg/database"
	"github.com/ismo-hris/hris-backend-go/internal/pkg/jwt"
	"github.com/ismo-hris/hris-backend-go/internal/pkg/metrics"
	"github.com/ismo-hris/hris-backend-go/internal/pkg/storage"
	"github.com/ismo-hris/hris-backend-go/internal/repository/postgresql"
	attendanceService "github.com/ismo-hris/hris-backend-go/internal/service/attendance"
	serviceAuth "github.com/ismo-hris/hris-backend-go/internal/service/auth"
	employeeService "github.com/ismo-hris/hris-backend-go/internal/service/employee"
	"github.com/ismo-hris/hris-backend-go/internal/service/file"
	leaveService "github.com/ismo-hris/hris-backend-go/internal/service/leave"
	letterService "github.com/ismo-hris/hris-backend-go/internal/service/letter"
	"github.com/ismo-hris/hris-backend-go/internal/service/master"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatal("Error migrating database: ", err)
		}
	}

	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	masterRepo := postgresql.NewMasterRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	letterRepo := postgresql.NewLetterRepository(db)
	letterLogRepo := postgresql.NewLetterLogRepository(db)
	transactor := postgresql.NewTransactor(db)

	var revoked jwt.RevocationStore
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatal("Error connecting to redis: ", err)
		}
		defer client.Close()
		revoked = jwt.NewRedisRevocationStore(client)
	} else {
		revoked = postgresql.NewRevokedTokenRepository(db)
	}
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, revoked)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath)
	if err != nil {
		log.Fatal("Failed to initialize local storage: ", err)
	}
	fileService := file.NewFileService(fileStorage, cfg.Storage.MaxUploadSize)

	authService := serviceAuth.NewAuthService(userRepo, employeeRepo, JWTService)
	masterService := master.NewMasterService(masterRepo, employeeRepo)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, attendanceRepo)
	leaveSvc := leaveService.NewLeaveService(leaveRequestRepo, employeeRepo, appMetrics, cfg.Workflow.AutoApproveGrade)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, masterRepo, cfg.Location())
	letterSvc := letterService.NewLetterService(letterRepo, letterLogRepo, fileService, transactor)

	router := appHTTP.NewRouter(cfg.App, JWTService, appMetrics, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(authService),
		Master:       appHTTP.NewMasterHandler(masterService),
		Employee:     appHTTP.NewEmployeeHandler(employeeSvc),
		Leave:        appHTTP.NewLeaveHandler(leaveSvc, leave.KindLeave),
		OfficialWork: appHTTP.NewLeaveHandler(leaveSvc, leave.KindOfficialWork),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
		Letter:       appHTTP.NewLetterHandler(letterSvc, cfg.Storage.MaxUploadSize),
	})

	if cfg.Cron.Enabled {
		scheduler := cron.NewScheduler()
		jobs := cron.NewMaintenanceJobs(letterSvc, JWTService)
		if err := jobs.RegisterJobs(scheduler, cfg.Cron.LetterRollSpec, cfg.Cron.RevokedTokenSpec); err != nil {
			log.Fatal("Failed to register cron jobs: ", err)
		}
		if cfg.Cron.RunOnStart {
			// Catch up on letters that fell due while the server was down.
			go scheduler.RunOnce(ctx)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
}
