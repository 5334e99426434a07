package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"listing_resolver/cache"
	"listing_resolver/canon"
	"listing_resolver/config"
	"listing_resolver/export"
	"listing_resolver/httputil"
	"listing_resolver/logging"
	"listing_resolver/models"
	"listing_resolver/resolver"
	"listing_resolver/scheduler"
	"listing_resolver/search"
	"listing_resolver/storage"
	"listing_resolver/workers"
)

var (
	inputPath = flag.String("input", "", "Resolve one CSV file and exit")
	audience  = flag.String("audience", "default", "Audience tag for dedup history")
	campaign  = flag.String("campaign", "", "Campaign tag recorded with sent links")
	format    = flag.String("format", "bullets", "Output format: rows, bullets, markdown, html")
	logSent   = flag.Bool("log-sent", false, "Record new results in the history store")
	daemonRun = flag.Bool("daemon", false, "Watch the inbox directory on a schedule")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	logFile, err := logging.Setup("resolver.log")
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	app, err := newApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer app.Close()

	ctx := context.Background()

	if *inputPath != "" {
		if err := app.RunFile(ctx, *inputPath); err != nil {
			log.Fatalf("Resolve failed: %v", err)
		}
		return
	}

	if !*daemonRun {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sched := scheduler.New(cfg.Scheduler, app)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	log.Println("Daemon running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	sched.Stop()
}

// app wires the pipeline together and implements scheduler.Runner.
type app struct {
	cfg      *config.Config
	resolver *resolver.Resolver
	enricher *workers.Enricher
	store    storage.HistoryStore
	cache    *cache.Cache
	browser  *resolver.BrowserFetcher
}

func newApp(cfg *config.Config) (*app, error) {
	clients := httputil.NewClients(cfg.ProxyURL)

	var fetcher resolver.Fetcher = &resolver.HTTPFetcher{Client: clients.Page}
	var browser *resolver.BrowserFetcher
	if cfg.Target.BrowserFetcher {
		browser = resolver.NewBrowserFetcher()
		fetcher = &resolver.FallbackFetcher{Primary: fetcher, Secondary: browser}
		log.Println("Browser fetch fallback enabled")
	}

	searcher := search.NewWebClient(cfg.Search, cfg.Target.Domain, clients.API)
	if cfg.Search.Key == "" {
		log.Println("Warning: no search API key, search strategies will yield nothing")
	}

	index := search.NewIndexClient(cfg.Index, cfg.Target.Domain)
	if index != nil {
		log.Printf("External index: %s/%s", cfg.Index.Host, cfg.Index.IndexName)
	}

	confirmer := resolver.NewConfirmer(fetcher)

	store := openStore(cfg.Store)
	c := cache.New(cfg.Cache)
	if c != nil {
		log.Printf("Cache: redis at %s (ttl %s)", cfg.Cache.RedisAddr, cfg.Cache.TTL)
	}

	var lookup resolver.IndexLookup
	if index != nil {
		lookup = index
	}

	return &app{
		cfg:      cfg,
		resolver: resolver.New(cfg.Pipeline, cfg.Target, searcher, lookup, confirmer),
		enricher: workers.NewEnricher(c),
		store:    store,
		cache:    c,
		browser:  browser,
	}, nil
}

// openStore prefers Postgres, falls back to local SQLite, and tolerates
// having neither: no store just means an empty dedup history.
func openStore(cfg config.StoreConfig) storage.HistoryStore {
	if cfg.PostgresDSN != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		store, err := storage.NewPostgresStore(ctx, cfg.PostgresDSN)
		if err == nil {
			log.Println("History store: Postgres")
			return store
		}
		log.Printf("Warning: Postgres unavailable (%v), falling back to SQLite", err)
	}

	store, err := storage.NewSQLiteStore(cfg.SQLitePath)
	if err != nil {
		log.Printf("Warning: SQLite unavailable (%v), dedup history disabled", err)
		return nil
	}
	log.Printf("History store: SQLite at %s", cfg.SQLitePath)
	return store
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
	if a.cache != nil {
		a.cache.Close()
	}
	if a.browser != nil {
		a.browser.Close()
	}
}

// RunFile resolves one CSV batch end to end: resolve, dedup-mark, enrich,
// render, and optionally record the new links as sent.
func (a *app) RunFile(ctx context.Context, path string) error {
	rows, err := readRows(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	log.Printf("Processing %d rows from %s", len(rows), path)

	results := a.resolver.Process(ctx, rows)

	history := a.loadHistory(ctx)
	canon.Mark(results, history)

	a.enricher.EnrichAll(ctx, results, a.cfg.Pipeline.EnrichConcurrency)

	output := render(results, *format)
	if *inputPath != "" {
		fmt.Print(output)
	} else {
		outPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".out.txt"
		if err := os.WriteFile(outPath, []byte(output), 0644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		log.Printf("Wrote %s", outPath)
	}

	if *logSent {
		if err := a.recordSent(ctx, results); err != nil {
			log.Printf("Warning: failed to record sent links: %v", err)
		}
	}

	dupes := 0
	for _, r := range results {
		if r.AlreadySent {
			dupes++
		}
	}
	log.Printf("Completed: %d rows, %d duplicates", len(results), dupes)
	return nil
}

func (a *app) loadHistory(ctx context.Context) *models.SentHistory {
	if a.store == nil {
		return models.NewSentHistory()
	}
	history, err := a.store.History(ctx, *audience)
	if err != nil {
		log.Printf("Warning: history load failed (%v), treating all as new", err)
		return models.NewSentHistory()
	}
	return history
}

func (a *app) recordSent(ctx context.Context, results []*models.ResolvedResult) error {
	if a.store == nil {
		return nil
	}

	now := time.Now()
	var records []*models.SentRecord
	for _, r := range results {
		if r.ListingURL == "" || r.AlreadySent {
			continue
		}
		records = append(records, &models.SentRecord{
			ID:        uuid.New(),
			Audience:  *audience,
			Campaign:  *campaign,
			URL:       r.ListingURL,
			Canonical: r.Canonical,
			ListingID: r.ListingID,
			MLSID:     r.MLSID,
			Address:   r.InputAddress,
			SentAt:    now,
		})
	}
	if len(records) == 0 {
		return nil
	}
	return a.store.AppendSent(ctx, records)
}

func render(results []*models.ResolvedResult, format string) string {
	switch format {
	case "rows":
		return export.DelimitedRows(results, "\t")
	case "markdown":
		return export.MarkdownList(results)
	case "html":
		return export.HTMLList(results)
	default:
		return export.BulletList(results)
	}
}

// readRows parses a header-rowed CSV into loosely-typed records. Short rows
// are tolerated; extra cells are dropped.
func readRows(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	all, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(all) < 2 {
		return nil, nil
	}

	headers := all[0]
	var rows []map[string]string
	for _, record := range all[1:] {
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
