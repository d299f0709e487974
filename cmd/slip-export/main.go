package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/damirmikic/ufc-specijal-generator/internal/export"
	"github.com/damirmikic/ufc-specijal-generator/internal/kambi"
	"github.com/damirmikic/ufc-specijal-generator/internal/market"
	"github.com/damirmikic/ufc-specijal-generator/internal/session"
	"github.com/damirmikic/ufc-specijal-generator/internal/shared/cache"
	"github.com/damirmikic/ufc-specijal-generator/internal/shared/config"
	"github.com/damirmikic/ufc-specijal-generator/internal/shared/db"
	"github.com/damirmikic/ufc-specijal-generator/internal/shared/kafka"
	"github.com/damirmikic/ufc-specijal-generator/internal/shared/logger"
	"github.com/damirmikic/ufc-specijal-generator/internal/slip"
)

func main() {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "slip-export"
	}

	var (
		matchID = flag.Int64("match", 0, "id da luta (0 = primeira da lista)")
		markets = flag.String("markets", "all", `"all" ou ids de mercado separados por vírgula`)
		outDir  = flag.String("out", cfg.ExportDir, "diretório de saída")
		header  = flag.String("header", cfg.ExportHeaderStyle, "estilo do cabeçalho: en | sr")
		list    = flag.Bool("list", false, "lista as lutas e mercados e sai")
		timeout = flag.Duration("timeout", time.Minute, "tempo máximo da execução")
	)
	flag.Parse()

	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var source session.Source = kambi.NewClient(cfg.Kambi, nil, log)
	if cfg.RedisAddr != "" {
		rdb, err := cache.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			log.Fatal("failed to connect redis", zap.Error(err))
		}
		defer rdb.Close()
		source = kambi.NewCachedSource(source, rdb, cfg.Kambi.CacheTTL, nil, log)
	}

	var store export.HistoryStore
	if cfg.PostgresDSN != "" {
		pg, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()
		repo := export.NewPostgres(pg)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal("failed to ensure slip_exports schema", zap.Error(err))
		}
		store = repo
	}

	var publisher export.EventPublisher
	if cfg.KafkaBrokers != "" {
		writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicSlipExported)
		defer writer.Close()
		publisher = export.NewKafkaPublisher(writer)
	}

	loc := cfg.Location()
	s := session.New("cli", session.Deps{Source: source, Options: slip.Options{Location: loc}, Log: log})

	matches, err := s.FetchMatches(ctx)
	if err != nil {
		log.Fatal("failed to fetch matches", zap.Error(err))
	}
	if len(matches) == 0 {
		log.Fatal("no matches available")
	}

	if *list {
		printMatches(ctx, s, matches, loc)
		return
	}

	id := *matchID
	if id == 0 {
		id = matches[0].ID
	}
	if !s.SelectMatch(id) {
		log.Fatal("match not found", zap.Int64("match_id", id))
	}

	all, err := s.FetchOdds(ctx)
	if err != nil {
		log.Fatal("failed to fetch odds", zap.Error(err))
	}

	wanted, err := parseMarketIDs(*markets, all)
	if err != nil {
		log.Fatal("invalid -markets", zap.Error(err))
	}
	for _, mid := range wanted {
		if !s.AddMarket(mid) {
			log.Warn("market skipped", zap.Int64("market_id", mid))
		}
	}

	exporter := export.NewService(slip.HeaderStyle(*header), store, publisher, nil, log)
	res, err := s.Export(ctx, exporter)
	if err != nil {
		log.Fatal("export failed", zap.Error(err))
	}

	path := filepath.Join(*outDir, res.Filename)
	if err := os.WriteFile(path, res.Content, 0o644); err != nil {
		log.Fatal("failed to write csv", zap.String("path", path), zap.Error(err))
	}
	log.Info("csv written", zap.String("path", path), zap.Int("rows", res.RowCount), zap.Int("markets", len(wanted)))
}

// parseMarketIDs aceita "all" ou uma lista "1,2,3"
func parseMarketIDs(v string, all []market.Market) ([]int64, error) {
	if strings.EqualFold(strings.TrimSpace(v), "all") {
		ids := make([]int64, 0, len(all))
		for _, m := range all {
			ids = append(ids, m.ID)
		}
		return ids, nil
	}

	var ids []int64
	for _, p := range strings.Split(v, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("market id %q: %w", p, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func printMatches(ctx context.Context, s *session.Session, matches []market.Match, loc *time.Location) {
	for _, m := range matches {
		fmt.Printf("%d\t%s\n", m.ID, m.DisplayLabel(loc))
		if !s.SelectMatch(m.ID) {
			continue
		}
		if _, err := s.FetchOdds(ctx); err != nil {
			fmt.Printf("\t(odds unavailable: %v)\n", err)
			continue
		}
		for _, g := range s.Markets() {
			fmt.Printf("\t[%s]\n", g.Section)
			for _, mk := range g.Markets {
				fmt.Printf("\t\t%d\t%s\t(%s)\n", mk.ID, mk.Label, slip.RuleFor(mk.Market))
			}
		}
	}
}
