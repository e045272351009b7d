package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/riordanmr/appts/internal/booking"
	"github.com/riordanmr/appts/internal/catalog"
	"github.com/riordanmr/appts/internal/config"
	"github.com/riordanmr/appts/internal/db"
	"github.com/riordanmr/appts/internal/notify"
	redisclient "github.com/riordanmr/appts/internal/redis"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("reminder-worker starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running reminder worker in env=%s interval=%s", cfg.Env, cfg.SweepInterval)

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

	// Run once at startup
	runOnce(rootCtx, svc)

	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			log.Println("shutdown signal received, stopping reminder worker")
			return
		case <-ticker.C:
			runOnce(rootCtx, svc)
		}
	}
}

func runOnce(ctx context.Context, svc *booking.Service) {
	runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	start := time.Now()
	sent, err := svc.SweepDayBeforeReminders(runCtx, time.Now())
	if err != nil {
		log.Printf("reminder sweep error: %v", err)
		return
	}
	log.Printf("reminder sweep complete: sent=%d duration=%s", sent, time.Since(start))
}

func buildNotifier(cfg config.Config) *notify.Notifier {
	var email notify.EmailSender
	if cfg.SMTPHost != "" {
		email = notify.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
	} else {
		log.Println("SMTP not configured, email reminders will be logged")
	}

	var sms notify.SMSSender
	if cfg.SMSWebhookURL != "" {
		sms = notify.NewWebhookSMSSender(cfg.SMSWebhookURL, cfg.SMSWebhookToken)
	} else {
		log.Println("SMS webhook not configured, SMS reminders will be logged")
	}

	return notify.NewNotifier(email, sms, cfg.BusinessName)
}
