// Command compress-service runs the prompt compression engine as a
// standalone HTTP service.
//
// The HTTP boundary is an external collaborator, not a core pipeline
// responsibility: the pipeline itself (internal/pipeline) never touches the
// network. This binary exists only to give internal/service a deployable
// home alongside cmd/compress, the one-shot CLI that most directly matches
// the engine's scope; it is the ambient, optional surface, wired the way the
// teacher repository wires cmd/proxy.
//
// It loads the phrase substitution table (from SUBSTITUTION_SOURCE_FILE if
// configured, falling back to the built-in set), wraps it in a persistent
// cache so a transient source outage still serves the last known-good table,
// initializes the cl100k_base tokenizer, and serves the compression API.
//
// Usage:
//
//	./compress-service
//
//	# Custom port and persistent substitution cache
//	SERVICE_PORT=9090 SUBSTITUTION_CACHE_FILE=/var/lib/compress/cache.db ./compress-service
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"promptcompress/internal/config"
	"promptcompress/internal/logger"
	"promptcompress/internal/metrics"
	"promptcompress/internal/pcache"
	"promptcompress/internal/pipeline"
	"promptcompress/internal/service"
	"promptcompress/internal/substitution"
	"promptcompress/internal/summarizer"
	"promptcompress/internal/tokenizer"
)

// roiCacheCapacity bounds the in-memory memoization layer fronting the ROI
// evaluator's token counting. See promptcompress.roiCacheCapacity for the
// same constant used by the compressor package; this binary wires the
// pipeline directly rather than through that package, so it keeps its own
// copy in step with it.
const roiCacheCapacity = 4096

func main() {
	cfg := config.Load()
	printBanner(cfg)

	log := logger.New("MAIN", cfg.LogLevel)

	tok := tokenizer.New()
	if err := tok.Init(); err != nil {
		log.Fatalf("tokenizer_init", "load cl100k_base vocabulary: %v", err)
	}

	store := pcache.Open(cfg.SubstitutionCacheFile)
	if cfg.SubstitutionCacheCapacity > 0 {
		store = pcache.NewS3FIFO(store, cfg.SubstitutionCacheCapacity)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warnf("substitution_cache", "close error: %v", err)
		}
	}()

	var loader substitution.Loader
	if cfg.SubstitutionSourceFile != "" {
		loader = substitution.CachedLoader{
			Primary: substitution.FileLoader{Path: cfg.SubstitutionSourceFile},
			Store:   store,
		}
	}

	table := substitution.New()
	table.Load(context.Background(), loader)

	m := metrics.New()
	roiCache := pcache.NewS3FIFO(pcache.NewMemory(), roiCacheCapacity)
	driver := pipeline.New(tok, roiCache, table, summarizer.New(), m, log)

	srv := service.New(cfg, driver, m)
	httpErr := make(chan error, 1)
	go func() {
		httpErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-httpErr:
		log.Fatalf("listen", "%v", err)
	case <-quit:
		log.Infof("shutdown", "signal received, stopping")
	}
}

func printBanner(cfg *config.Config) {
	fmt.Printf(`
╔══════════════════════════════════════════════════════╗
║          Prompt Compression Engine  (Go)             ║
╚══════════════════════════════════════════════════════╝
  Service port       : %d
  Bind address       : %s
  Aggressive default : %v
  Substitution source: %s
  Substitution cache : %s (capacity %d)

  Compress a prompt:
    curl -X POST http://%s:%d/compress -d '{"text":"..."}'

  Check status:
    curl http://%s:%d/status
`, cfg.ServicePort, cfg.BindAddress, cfg.Aggressive,
		orDefault(cfg.SubstitutionSourceFile, "(built-in)"),
		orDefault(cfg.SubstitutionCacheFile, "(none)"), cfg.SubstitutionCacheCapacity,
		cfg.BindAddress, cfg.ServicePort,
		cfg.BindAddress, cfg.ServicePort)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
