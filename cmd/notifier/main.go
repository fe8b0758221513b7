package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/config"
	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/events"
	kafkax "github.com/ahmedharati210-cyber/life-accessories-backend/internal/kafka"
	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/metrics"
	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/notify"
	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/redisx"
)

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis (delivery dedup)
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	dispatcher := &notify.Dispatcher{
		Email:      notify.NewAPIMailer(cfg.EmailAPIURL, cfg.EmailAPIKey, cfg.EmailFrom),
		SMS:        notify.NewSMSGateway(cfg.SMSAPIURL, cfg.SMSAPIKey, cfg.SMSSender),
		SMSEnabled: cfg.SMSEnabled,
		AdminEmail: cfg.AdminEmail,
		AdminPhone: cfg.AdminPhone,
		StoreName:  cfg.StoreName,
	}
	svc := &notify.Consumer{
		Dispatcher: dispatcher,
		Redis:      rdb,
		Service:    cfg.ServiceName + "-notifier",
	}

	// /metrics endpoint for the worker
	go func() {
		addr := getenv("METRICS_ADDR", ":9091")
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		log.Printf("metrics listening at %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("metrics listen: %v", err)
		}
	}()

	// Consumer
	group := getenv("NOTIFIER_GROUP", "notifier-svc")
	workers := mustAtoi(os.Getenv("NOTIFIER_WORKERS"), "8")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, events.TopicNotifications, workers)

	go func() {
		log.Printf("notifier consumer started: group=%s topic=%s workers=%d", group, events.TopicNotifications, workers)
		if err := cons.Start(ctx, svc.Handle); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
