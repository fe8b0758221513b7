package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/cache"
	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/config"
	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/events"
	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/httpx"
	kafkax "github.com/ahmedharati210-cyber/life-accessories-backend/internal/kafka"
	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/metrics"
	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/notify"
	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/orders"
	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/postgres"
	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/redisx"
	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/shipping"
	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/stock"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer for notification jobs
	prod := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicNotifications, 1024)
	prod.Start(ctx)

	// Delivery-area dataset
	areas, err := shipping.LoadCatalog()
	if err != nil {
		log.Fatalf("areas: %v", err)
	}

	// Response cache
	respCache := cache.New(cfg.CacheCleanup)
	respCache.Start()
	defer respCache.Stop()

	// Domain services
	ledger := &stock.Ledger{
		DB:      db,
		Alerter: &stock.Alerter{Redis: rdb, Producer: prod, Service: cfg.ServiceName},
	}
	repo := &orders.Repo{DB: db}
	intake := &orders.Intake{
		Store:    repo,
		Products: ledger,
		Areas:    areas,
		Producer: prod,
		Service:  cfg.ServiceName,
	}
	lifecycle := &orders.Lifecycle{
		Store:    repo,
		Stock:    ledger,
		Producer: prod,
		Service:  cfg.ServiceName,
	}
	dispatcher := &notify.Dispatcher{
		Email:      notify.NewAPIMailer(cfg.EmailAPIURL, cfg.EmailAPIKey, cfg.EmailFrom),
		SMS:        notify.NewSMSGateway(cfg.SMSAPIURL, cfg.SMSAPIKey, cfg.SMSSender),
		SMSEnabled: cfg.SMSEnabled,
		AdminEmail: cfg.AdminEmail,
		AdminPhone: cfg.AdminPhone,
		StoreName:  cfg.StoreName,
	}

	// HTTP
	m := metrics.NewServerMetrics("api")
	router := httpx.NewRouter(m)
	(&httpx.OrdersHandler{Intake: intake, Lifecycle: lifecycle, Repo: repo, Redis: rdb}).Register(router)
	(&httpx.StockHandler{Ledger: ledger, Cache: respCache}).Register(router)
	(&httpx.CatalogHandler{Ledger: ledger, Areas: areas, Cache: respCache}).Register(router)
	(&httpx.NotificationsHandler{Repo: repo, Dispatcher: dispatcher, Areas: areas}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()      // close inbox -> flush & close writer
	cancel()          // stop producer loop
	prod.WaitClosed() // drain
}
