package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"scratch-tracker/internal/auth"
	"scratch-tracker/internal/auth/auth_api"
	auth_db "scratch-tracker/internal/auth/db"
	"scratch-tracker/internal/backup"
	"scratch-tracker/internal/backup/backup_api"
	backup_db "scratch-tracker/internal/backup/db"
	"scratch-tracker/internal/config"
	"scratch-tracker/internal/database/migrations"
	"scratch-tracker/internal/employees"
	employee_db "scratch-tracker/internal/employees/db"
	"scratch-tracker/internal/employees/employee_api"
	"scratch-tracker/internal/kafka"
	"scratch-tracker/internal/logger"
	"scratch-tracker/internal/reports"
	report_db "scratch-tracker/internal/reports/db"
	reportredis "scratch-tracker/internal/reports/redis"
	"scratch-tracker/internal/reports/report_api"
	"scratch-tracker/internal/summaries"
	"scratch-tracker/internal/summaries/summary_api"
	"scratch-tracker/internal/tickets"
	ticket_db "scratch-tracker/internal/tickets/db"
	"scratch-tracker/internal/tickets/ticket_api"
)

func connectDatabase(cfg config.DatabaseConfig, log *logger.Logger) *bun.DB {
	var (
		sqldb *sql.DB
		err   error
	)

	maxRetries := 5
	for i := 0; i < maxRetries; i++ {
		switch cfg.Driver {
		case "postgres":
			log.Info("DATABASE", fmt.Sprintf("Connecting to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
			sqldb, err = sql.Open("postgres", cfg.PostgresDSN)
		default:
			log.Info("DATABASE", fmt.Sprintf("Opening SQLite database at %s (attempt %d/%d)", cfg.SQLitePath, i+1, maxRetries))
			sqldb, err = sql.Open(sqliteshim.ShimName, cfg.SQLitePath)
		}
		if err == nil {
			err = sqldb.Ping()
		}
		if err == nil {
			break
		}
		log.Error("DATABASE", fmt.Sprintf("Database connection failed: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to database after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)

	if cfg.Driver == "postgres" {
		log.Info("DATABASE", "PostgreSQL connection successful")
		return bun.NewDB(sqldb, pgdialect.New())
	}
	log.Info("DATABASE", "SQLite database ready")
	return bun.NewDB(sqldb, sqlitedialect.New())
}

func connectRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	log.Info("DATABASE", fmt.Sprintf("Redis connection successful to %s", cfg.Addr))
	return client
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting scratch-tracker initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx := context.Background()

	bunDB := connectDatabase(cfg.Database, log)
	defer bunDB.Close()

	if err := migrations.Run(ctx, bunDB); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Migration failed: %v", err))
	}
	log.Info("DATABASE", "Schema migrations applied")

	redisClient := connectRedis(ctx, cfg.Redis, log)
	defer redisClient.Close()

	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()

		requiredTopics := []string{
			cfg.Kafka.Topics.ReportCreated,
			cfg.Kafka.Topics.ReportUpdated,
			cfg.Kafka.Topics.ReportDeleted,
			cfg.Kafka.Topics.BackupCreated,
		}
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, requiredTopics, log); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			log.Info("KAFKA", "Required topics ensured successfully")
		}
	} else {
		log.Info("KAFKA", "Kafka disabled, events will not be published")
	}

	ticketService := tickets.NewService(&ticket_db.DB{Bun: bunDB}, config.DefaultTickets())
	if err := ticketService.EnsureDefaults(); err != nil {
		log.Fatal("APP", fmt.Sprintf("Failed to seed default tickets: %v", err))
	}

	employeeService := employees.NewService(&employee_db.DB{Bun: bunDB})

	var reportPublisher reports.KafkaPublisher
	if producer != nil {
		reportPublisher = producer
	}
	reportService := reports.NewService(
		&report_db.DB{Bun: bunDB},
		ticketService,
		reportredis.NewRedis(redisClient, cfg.Redis.ReportLockTTL),
		reportPublisher,
		cfg.Kafka.Topics,
		log,
	)

	summaryService := summaries.NewService(reportService, log)

	var backupPublisher backup.KafkaPublisher
	if producer != nil {
		backupPublisher = producer
	}
	backupService := backup.NewService(
		&backup_db.DB{Bun: bunDB},
		ticketService,
		employeeService,
		reportService,
		backupPublisher,
		cfg.Kafka.Topics.BackupCreated,
		log,
	)
	backupScheduler := backup.NewScheduler(backupService, cfg.Backup, log)
	backupScheduler.Start()
	defer backupScheduler.Stop()

	authService := auth.NewService(&auth_db.DB{Bun: bunDB}, cfg.Auth, log)

	ticketHandler := ticket_api.NewHandler(ticketService, log)
	employeeHandler := employee_api.NewHandler(employeeService, log)
	reportHandler := report_api.NewHandler(reportService, log)
	summaryHandler := summary_api.NewHandler(summaryService, reportService, log)
	backupHandler := backup_api.NewHandler(backupService, log)
	authHandler := auth_api.NewHandler(authService, log)

	log.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(cfg.Auth.JWTSecret))

		r.Route("/api", func(r chi.Router) {
			r.Get("/auth/me", authHandler.Me)

			r.Route("/tickets", func(r chi.Router) {
				r.Get("/", ticketHandler.ListTickets)
				r.Put("/", ticketHandler.ReplaceTickets)
				r.Get("/states", ticketHandler.GetStates)
				r.Put("/states", ticketHandler.UpdateStates)
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", employeeHandler.ListEmployees)
				r.Post("/", employeeHandler.AddEmployee)
				r.Delete("/{employeeId}", employeeHandler.DeleteEmployee)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/", reportHandler.ListReports)
				r.Post("/", reportHandler.CreateReport)
				r.Get("/{reportId}", reportHandler.GetReport)
				r.Put("/{reportId}", reportHandler.UpdateReport)
				r.Delete("/{reportId}", reportHandler.DeleteReport)
			})

			r.Route("/summaries", func(r chi.Router) {
				r.Get("/daily", summaryHandler.DailySummary)
				r.Get("/weekly", summaryHandler.WeeklySummary)
				r.Get("/monthly", summaryHandler.MonthlySummary)
				r.Get("/custom", summaryHandler.CustomSummary)
			})

			r.Route("/backups", func(r chi.Router) {
				r.Get("/", backupHandler.ListBackups)
				r.Post("/", backupHandler.CreateBackup)
				r.Get("/{backupId}/download", backupHandler.DownloadBackup)
			})
		})
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("scratch-tracker running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server shutdown failed: %v", err))
	} else {
		log.Info("HTTP", "scratch-tracker shutdown complete")
	}
}
