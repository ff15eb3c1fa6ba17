package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "notedo/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"notedo/internal/auth"
	"notedo/internal/cache"
	"notedo/internal/config"
	"notedo/internal/db"
	"notedo/internal/handler"
	"notedo/internal/mail"
	"notedo/internal/model"
	"notedo/internal/notify"
	"notedo/internal/queue"
	"notedo/internal/repository"
	"notedo/internal/router"
	"notedo/internal/scheduler"
	"notedo/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Notedo API
// @version 1.0
// @description Multi-tenant note taking API with tags, to-do deadlines and email reminders.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Profile{},
		&model.Tag{},
		&model.Note{},
	); err != nil {
		log.Error("auto-migrate failed", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	cacheClient := cache.New(rdb)

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	profileRepo := repository.NewProfileRepository(gormDB)
	tagRepo := repository.NewTagRepository(gormDB)
	noteRepo := repository.NewNoteRepository(gormDB)

	// Auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)
	actionTokens := auth.NewActionTokenStore(cacheClient)

	// Outbound mail
	var mailer mail.Mailer
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	} else {
		log.Warn("SMTP_HOST not set, emails are logged instead of sent")
		mailer = mail.NewLogMailer(log)
	}

	// Job queue
	var jobQueue queue.Queue
	switch cfg.QueueDriver {
	case "memory":
		jobQueue = queue.NewMemory(cfg.QueueWorkers, log)
	default:
		jobQueue = queue.NewRedis(rdb, cfg.QueueWorkers, log)
	}

	dispatcher := notify.NewReminderDispatcher(noteRepo, mailer, cfg.MailFrom, log)
	accountNotifier := notify.NewAccountNotifier(userRepo, mailer, cfg.MailFrom, cfg.BaseURL, log)

	jobQueue.Register(notify.JobDeadlineReminder, queue.HandlerOptions{
		MaxRetries: 3,
		RetryDelay: 120 * time.Second,
	}, dispatcher.HandleReminder)
	jobQueue.Register(notify.JobActivationEmail, queue.HandlerOptions{
		MaxRetries: 3,
		RetryDelay: 120 * time.Second,
	}, accountNotifier.HandleActivationEmail)
	jobQueue.Register(notify.JobPasswordResetEmail, queue.HandlerOptions{
		MaxRetries: 3,
		RetryDelay: 120 * time.Second,
	}, accountNotifier.HandlePasswordResetEmail)

	if err := jobQueue.Start(); err != nil {
		log.Error("queue start failed", "error", err)
		os.Exit(1)
	}

	// Periodic deadline scan
	scanner := notify.NewDeadlineScanner(noteRepo, jobQueue, log)
	sched := scheduler.New(scanner, cfg.ScanInterval, log)
	sched.Start()

	// Services
	authService := service.NewAuthService(userRepo, profileRepo, jwtService, tokenStore, actionTokens, jobQueue)
	tagService := service.NewTagService(tagRepo, profileRepo)
	noteService := service.NewNoteService(noteRepo, tagRepo, profileRepo, cacheClient)
	profileService := service.NewProfileService(profileRepo, cfg.AvatarDir)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	tagHandler := handler.NewTagHandler(tagService)
	noteHandler := handler.NewNoteHandler(noteService)
	profileHandler := handler.NewProfileHandler(profileService)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, tokenStore, authHandler, tagHandler, noteHandler, profileHandler)

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Error("server start failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}

	sched.Stop()
	jobQueue.Stop()
	log.Info("shutdown complete")
}
