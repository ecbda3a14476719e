// Package main provides the crawler command-line tool that mirrors the
// configured source documents into a local directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gdpdash/internal/config"
	"gdpdash/internal/crawler"
	"gdpdash/internal/logger"
	"gdpdash/internal/validator"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML or TOML configuration file")
	baseURL := flag.String("base", "", "Source base URL or directory (overrides config)")
	output := flag.String("output", "mirror", "Directory to write fetched documents into")
	ids := flag.String("ids", "", "Comma-separated country ids (default: all configured)")
	validate := flag.Bool("validate", false, "Validate each document after fetching")
	showUsage := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *showUsage {
		printUsage()
		os.Exit(0)
	}

	cfg := config.Default()

	if *configFile != "" {
		fmt.Printf("⚙️  Loading configuration from: %s\n", *configFile)

		loaded, err := config.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("❌ Failed to load config: %v\n", err)
		}

		cfg = loaded
		fmt.Printf("✅ Configuration loaded: %s\n\n", cfg)
	}

	if *baseURL != "" {
		cfg.Sources.Base = *baseURL
	}

	targets := cfg.Dashboard.Countries
	if *ids != "" {
		targets = strings.Split(*ids, ",")
	}

	printCrawlerHeader(cfg, *output, len(targets))

	client := crawler.NewClient(cfg, logger.NewLogger(cfg.Logging.Level))
	resolver := client.Resolver()
	sourceValidator := validator.NewSourceValidator(cfg)

	ctx := context.Background()
	failed := 0

	for i, id := range targets {
		id = strings.TrimSpace(id)
		fmt.Printf("\n📦 Country %d/%d: %s\n", i+1, len(targets), id)

		start := time.Now()

		content, location, err := client.FetchDocument(ctx, id)
		if err != nil {
			fmt.Printf("❌ Fetch failed: %v\n", err)

			failed++

			continue
		}

		fmt.Printf("✅ Fetched %d bytes from %s (%.2fms)\n", len(content), location, float64(time.Since(start).Microseconds())/1000)

		if *validate {
			result := sourceValidator.ValidateDocument(id, content)
			fmt.Println(result)
			result.PrintErrors(os.Stdout)
			result.PrintWarnings(os.Stdout)
		}

		dest := filepath.Join(*output, filepath.FromSlash(resolver.Path(id)))
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			log.Fatalf("❌ Failed to create directory: %v\n", err)
		}

		if err := os.WriteFile(dest, []byte(content), 0644); err != nil {
			log.Fatalf("❌ Failed to write %s: %v\n", dest, err)
		}

		fmt.Printf("💾 Saved to: %s\n", dest)
	}

	fmt.Printf("\n----------------------------------------------------------------\n")
	fmt.Printf("🏁 Mirrored %d/%d documents\n", len(targets)-failed, len(targets))

	if failed > 0 {
		os.Exit(1)
	}
}

func printCrawlerHeader(cfg *config.Config, output string, count int) {
	fmt.Println("================================================================")
	fmt.Println("🌐 GDP Source Crawler")
	fmt.Println("================================================================")
	fmt.Printf("Source:      %s\n", cfg.Sources.Base)

	if len(cfg.Sources.BackupBases) > 0 {
		fmt.Printf("Backups:     %s\n", strings.Join(cfg.Sources.BackupBases, ", "))
	}

	fmt.Printf("Template:    %s\n", cfg.Sources.PathTemplate)
	fmt.Printf("Countries:   %d\n", count)
	fmt.Printf("Output:      %s\n", output)
	fmt.Printf("Max retries: %d\n", cfg.Crawler.Retry.MaxAttempts)
	fmt.Println("================================================================")
}

func printUsage() {
	fmt.Println("Usage: crawler [options]")
	fmt.Println()
	fmt.Println("Fetches each configured country document (primary base first, then")
	fmt.Println("backups) and writes it under -output using the configured path template.")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  crawler -config configs/dashboard.yaml -output data")
	fmt.Println("  crawler -base https://example.org/gdp -ids japan,usa -validate")
	fmt.Println()
	flag.PrintDefaults()
}
