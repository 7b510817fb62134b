// cmd/tools/catalog-sync/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"career-guidance-workers/internal/catalog"
	"career-guidance-workers/internal/common/config"
	"career-guidance-workers/internal/common/database"
	"career-guidance-workers/internal/common/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	file := flag.String("file", "", "Catalog YAML or JSON document (default: the embedded catalog)")
	configPath := flag.String("config", "", "Config file (default: configs/config.yaml lookup)")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall deadline")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(1)
	}
	command := flag.Arg(0)

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	c, err := readCatalog(*file)
	if err != nil {
		zapLog.Fatal("catalog is invalid", zap.Error(err))
	}
	zapLog.Info("catalog ok",
		zap.String("version", c.Version),
		zap.Int("majors", len(c.Majors)),
		zap.Int("questions", len(c.Questions)),
	)
	if command == "validate" {
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	if command == "publish" || command == "all" {
		g.Go(func() error { return publish(gctx, cfg, c, log) })
	}
	if command == "index" || command == "all" {
		g.Go(func() error { return index(gctx, cfg, c, log) })
	}
	if command != "publish" && command != "index" && command != "all" {
		usage()
		os.Exit(1)
	}

	if err := g.Wait(); err != nil {
		zapLog.Fatal("catalog sync failed", zap.String("command", command), zap.Error(err))
	}
	zapLog.Info("catalog sync finished", zap.String("command", command), zap.String("version", c.Version))
}

func readCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromFile(path)
}

func publish(ctx context.Context, cfg *config.Config, c *catalog.Catalog, log logger.Logger) error {
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return err
	}
	defer pg.Close()

	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	return catalog.NewStore(pg.DB, rdb.Client, cfg.Catalog.CacheTTL, log).Publish(ctx, c)
}

func index(ctx context.Context, cfg *config.Config, c *catalog.Catalog, log logger.Logger) error {
	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		return err
	}

	ix := catalog.NewIndexer(es.Client, cfg.Search.MajorsIndex, log)
	if err := ix.EnsureIndex(ctx); err != nil {
		return err
	}
	n, err := ix.IndexMajors(ctx, c)
	if err != nil {
		return err
	}
	log.Info("majors indexed", map[string]interface{}{"count": n})
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: catalog-sync [flags] <validate|publish|index|all>

Commands:
  validate  Parse and validate the catalog document
  publish   Store the catalog as the active version in Postgres
  index     Create the majors index and bulk index every major
  all       publish and index concurrently

Flags:`)
	flag.PrintDefaults()
}
