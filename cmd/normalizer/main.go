// Package main provides the normalizer command-line tool for turning a single
// source document into its normalized country record.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gdpdash/internal/config"
	"gdpdash/internal/logger"
	"gdpdash/internal/normalizer"
)

func main() {
	inputPath := flag.String("input", "", "Path to input file (e.g., data/countries/japan.html)")
	outputPath := flag.String("output", "", "Path to output JSON file (default: stdout)")
	id := flag.String("id", "", "Country id (default: input file name without extension)")
	configPath := flag.String("config", "", "Dashboard config path (for the year window)")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	if *inputPath == "" {
		fmt.Println("Usage: normalizer -input <document.html> [-output <record.json>] [-id <id>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := config.Default()

	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Error loading config: %v\n", err)
		}

		cfg = loaded
	}

	countryID := *id
	if countryID == "" {
		countryID = strings.TrimSuffix(filepath.Base(*inputPath), filepath.Ext(*inputPath))
	}

	content, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("Error reading file: %v\n", err)
	}

	fmt.Fprintf(os.Stderr, "📂 Reading: %s (%d bytes)\n", *inputPath, len(content))

	level := "warn"
	if *verbose {
		level = "debug"
	}

	p := normalizer.NewProcessor(cfg.Dashboard.Years, logger.NewLogger(level))

	shape, skipped, err := p.Inspect(string(content))
	if err != nil {
		log.Fatalf("❌ Error inspecting document: %v\n", err)
	}

	fmt.Fprintf(os.Stderr, "🔍 Detected shape: %s\n", shape)

	if len(skipped) > 0 {
		fmt.Fprintf(os.Stderr, "⚠️  Skipped non-year keys: %s\n", strings.Join(skipped, ", "))
	}

	record, err := p.Process(countryID, *inputPath, string(content))
	if err != nil {
		log.Fatalf("❌ Error normalizing document: %v\n", err)
	}

	fmt.Fprintf(os.Stderr, "📊 Parsed: %s, %d years in %s\n", record.Name, len(record.YearlyMetrics), cfg.Dashboard.Years)

	jsonData, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling JSON: %v\n", err)
	}

	if *outputPath == "" {
		fmt.Println(string(jsonData))

		return
	}

	// Ensure directory exists
	if mkdirErr := os.MkdirAll(filepath.Dir(*outputPath), 0755); mkdirErr != nil {
		log.Fatalf("Error creating directory: %v\n", mkdirErr)
	}

	if err := os.WriteFile(*outputPath, jsonData, 0644); err != nil {
		log.Fatalf("Error writing file: %v\n", err)
	}

	fmt.Fprintf(os.Stderr, "✅ Saved to: %s\n", *outputPath)
}
