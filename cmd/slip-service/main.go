package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/damirmikic/ufc-specijal-generator/internal/export"
	"github.com/damirmikic/ufc-specijal-generator/internal/kambi"
	"github.com/damirmikic/ufc-specijal-generator/internal/session"
	"github.com/damirmikic/ufc-specijal-generator/internal/shared/cache"
	"github.com/damirmikic/ufc-specijal-generator/internal/shared/config"
	"github.com/damirmikic/ufc-specijal-generator/internal/shared/db"
	"github.com/damirmikic/ufc-specijal-generator/internal/shared/kafka"
	"github.com/damirmikic/ufc-specijal-generator/internal/shared/logger"
	"github.com/damirmikic/ufc-specijal-generator/internal/shared/metrics"
	"github.com/damirmikic/ufc-specijal-generator/internal/slip"
	httpapi "github.com/damirmikic/ufc-specijal-generator/internal/slip-service/http"
	"github.com/damirmikic/ufc-specijal-generator/internal/slip-service/pubsub"
	"github.com/damirmikic/ufc-specijal-generator/internal/slip-service/ws"
)

func main() {
	// carrega config
	cfg := config.Load()

	// inicia logger
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	log.Info("starting service", zap.String("service", cfg.ServiceName), zap.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pipeline := metrics.NewPipeline(prometheus.DefaultRegisterer)

	// Postgres, Redis e Kafka são opcionais: sem eles o serviço roda só em memória
	var pg *sql.DB
	var history *export.Postgres
	if cfg.PostgresDSN != "" {
		pg, err = db.ConnectPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()

		history = export.NewPostgres(pg)
		if err := history.EnsureSchema(ctx); err != nil {
			log.Fatal("failed to ensure slip_exports schema", zap.Error(err))
		}
		log.Info("postgres connected")
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = cache.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			log.Fatal("failed to connect redis", zap.Error(err))
		}
		defer rdb.Close()
		log.Info("redis connected")
	}

	var publisher export.EventPublisher
	if cfg.KafkaBrokers != "" {
		writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicSlipExported)
		defer writer.Close()
		publisher = export.NewKafkaPublisher(writer)
		log.Info("kafka writer ready", zap.String("topic", cfg.TopicSlipExported))
	}

	// fornecedor de odds, com cache quando há Redis
	var source session.Source = kambi.NewClient(cfg.Kambi, pipeline, log)
	if rdb != nil {
		source = kambi.NewCachedSource(source, rdb, cfg.Kambi.CacheTTL, pipeline, log)
	}

	// atualizações de sessão: via Redis Pub/Sub quando disponível, senão direto no hub
	hub := ws.NewHub(func(r *http.Request) bool { return true }, log)
	var notifier session.Notifier = hub
	if rdb != nil {
		notifier = pubsub.NewRedisNotifier(rdb, cfg.RedisPubSubChannel)
		pubsub.StartRedisSubscriber(ctx, rdb, cfg.RedisPubSubChannel, hub, log)
	}

	loc := cfg.Location()
	sessions := session.NewManager(session.Deps{
		Source:   source,
		Options:  slip.Options{Location: loc},
		Notifier: notifier,
		Metrics:  pipeline,
		Log:      log,
	})

	var store export.HistoryStore
	var historyAPI httpapi.ExportHistory
	if history != nil {
		store, historyAPI = history, history
	}
	exporter := export.NewService(slip.HeaderStyle(cfg.ExportHeaderStyle), store, publisher, pipeline, log)

	api := &httpapi.API{
		Sessions:    sessions,
		Exporter:    exporter,
		History:     historyAPI,
		WS:          http.HandlerFunc(hub.HandleWS),
		Location:    loc,
		CORSOrigins: cfg.CORSOrigins,
		Log:         log,
	}

	// healthz: valida dependências configuradas
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, nil, func(ctx context.Context) error {
		if pg != nil {
			if err := pg.PingContext(ctx); err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
		}
		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
		}
		return nil
	})
	log.Info("metrics/health server starting", zap.String("addr", metricsSrv.Addr))

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		_ = metricsSrv.Shutdown(shutdownCtx)
	}()

	log.Info("slip service running", zap.String("addr", srv.Addr), zap.String("timezone", loc.String()))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("http server failed", zap.Error(err))
	}
	log.Info("slip service stopped")
}
