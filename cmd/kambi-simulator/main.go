package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	simulator "github.com/damirmikic/ufc-specijal-generator/internal/kambi-simulator"
	"github.com/damirmikic/ufc-specijal-generator/internal/shared/config"
	"github.com/damirmikic/ufc-specijal-generator/internal/shared/logger"
	"github.com/damirmikic/ufc-specijal-generator/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	s := simulator.NewServer(log, prometheus.DefaultRegisterer, time.Now().UnixNano())

	// Servidor de métricas em goroutine
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, nil, nil)
	log.Info("kambi simulator (metrics) running",
		zap.String("addr", metricsSrv.Addr),
		zap.String("paths", "/healthz,/metrics"),
	)

	// Servidor público (listView + betoffer)
	publicAddr := fmt.Sprintf(":%s", cfg.HTTPPort)
	log.Info("kambi simulator (public) running",
		zap.String("addr", publicAddr),
		zap.String("base", "/offering/v2018/kambi"),
	)
	if err := http.ListenAndServe(publicAddr, s.Handler()); err != nil {
		log.Fatal("public server error", zap.Error(err))
	}
}
