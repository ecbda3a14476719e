// Package main provides the seed command-line tool that writes the sample
// source documents for the default countries.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gdpdash/internal/config"
	"gdpdash/internal/seed"
	"gdpdash/internal/validator"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
)

func logInfo(msg string) {
	fmt.Printf("%s[SEEDER]%s %s\n", colorGreen, colorReset, msg)
}

func logWarn(msg string) {
	fmt.Printf("%s[SEEDER]%s %s\n", colorYellow, colorReset, msg)
}

func logError(msg string) {
	fmt.Printf("%s[SEEDER]%s %s\n", colorRed, colorReset, msg)
}

func main() {
	dataDir := flag.String("data-dir", "", "Data directory root (default: sources.base from config)")
	configPath := flag.String("config", "", "Dashboard config path")
	version := flag.String("version", "1.0.0", "Version recorded in each metadata block")
	flag.Parse()

	cfg := config.Default()

	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			logError(fmt.Sprintf("Failed to load config: %v", err))
			os.Exit(1)
		}

		cfg = loaded
	}

	root := *dataDir
	if root == "" {
		if cfg.Sources.IsRemote() {
			logError("sources.base is a URL; pass -data-dir to seed a local directory")
			os.Exit(1)
		}

		root = cfg.Sources.Base
	}

	logInfo(fmt.Sprintf("Writing sample documents under %s", root))

	paths, err := seed.Write(root, cfg.Sources.PathTemplate, *version, time.Now())
	if err != nil {
		logError(fmt.Sprintf("Seeding failed: %v", err))
		os.Exit(1)
	}

	v := validator.NewSourceValidator(cfg)
	failed := 0

	for i, c := range seed.Countries() {
		content, err := os.ReadFile(paths[i])
		if err != nil {
			logError(fmt.Sprintf("Failed to re-read %s: %v", paths[i], err))
			failed++

			continue
		}

		result := v.ValidateDocument(c.ID, string(content))
		if !result.IsValid {
			logError(result.String())
			failed++

			continue
		}

		if len(result.Warnings) > 0 {
			logWarn(fmt.Sprintf("%s: %d warning(s)", paths[i], len(result.Warnings)))
		} else {
			logInfo(fmt.Sprintf("%s (%s)", paths[i], result.Stats.Shape))
		}
	}

	if failed > 0 {
		logError(fmt.Sprintf("%d document(s) failed validation", failed))
		os.Exit(1)
	}

	logInfo("===========================================")
	logInfo(fmt.Sprintf("Seeding complete! %d documents", len(paths)))
	logInfo("===========================================")
}
