package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/riordanmr/appts/internal/api"
	"github.com/riordanmr/appts/internal/booking"
	"github.com/riordanmr/appts/internal/catalog"
	"github.com/riordanmr/appts/internal/config"
	"github.com/riordanmr/appts/internal/db"
	"github.com/riordanmr/appts/internal/notify"
	redisclient "github.com/riordanmr/appts/internal/redis"
)

const version = "0.1.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running in env=%s http_port=%s business_hours=%d-%d",
		cfg.Env, cfg.HTTPPort, cfg.OpenHour, cfg.CloseHour)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatalf("postgres connection error: %v", err)
	}
	defer pgPool.Close()
	log.Println("connected to Postgres")

	// Connect Redis
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connection error: %v", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Printf("error closing redis: %v", err)
		}
	}()
	log.Println("connected to Redis")

	catalogRepo := catalog.NewPgRepository(pgPool)
	bookingRepo := booking.NewPgRepository(pgPool)
	locker := redisclient.NewRedisScheduleLocker(rdb, cfg.LockTTL)
	gateway := buildNotifier(cfg)
	svc := booking.NewService(catalogRepo, bookingRepo, locker, gateway, cfg)

	router := api.NewRouter(api.RouterConfig{
		Booking: svc,
		Catalog: catalogRepo,
		PgPool:  pgPool,
		Redis:   rdb,
		Env:     cfg.Env,
		Version: version,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-rootCtx.Done()

	log.Println("shutting down api-server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
}

func buildNotifier(cfg config.Config) *notify.Notifier {
	var email notify.EmailSender
	if cfg.SMTPHost != "" {
		email = notify.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
	} else {
		log.Println("SMTP not configured, email notifications will be logged")
	}

	var sms notify.SMSSender
	if cfg.SMSWebhookURL != "" {
		sms = notify.NewWebhookSMSSender(cfg.SMSWebhookURL, cfg.SMSWebhookToken)
	} else {
		log.Println("SMS webhook not configured, SMS notifications will be logged")
	}

	return notify.NewNotifier(email, sms, cfg.BusinessName)
}
