// Command catalog-seed writes a deterministic demo catalog for CATALOG_FILE.
//
//	go run ./cmd/catalog-seed -n 500 -o products.yaml
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/pkg/logger"
)

func main() {
	n := flag.Int("n", 200, "number of products")
	seed := flag.Int64("seed", 42, "random seed")
	out := flag.String("o", "products.yaml", "output file")
	flag.Parse()

	log := logger.New("catalog-seed", "info")

	if *n < 1 {
		log.Error("n must be positive", slog.Int("n", *n))
		os.Exit(1)
	}

	data, err := catalog.Marshal(catalog.Generate(*n, *seed))
	if err != nil {
		log.Error("failed to encode catalog", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Parse it back so a broken file is never written.
	if _, err := catalog.Parse(data); err != nil {
		log.Error("generated catalog is invalid", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Error("failed to write catalog", slog.String("path", *out), slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("catalog written", slog.String("path", *out), slog.Int("products", *n))
}
