// Package main provides the signer command-line tool for validating and
// signing source documents with a metadata block.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gdpdash/internal/config"
	"gdpdash/internal/validator"
	"gdpdash/pkg/metadata"
)

func main() {
	inputPath := flag.String("input", "", "Path to input file (e.g., data/countries/japan.html)")
	id := flag.String("id", "", "Country id (default: input file name without extension)")
	version := flag.String("version", "1.0.0", "Version recorded in the metadata block")
	configPath := flag.String("config", "", "Dashboard config path")
	force := flag.Bool("force", false, "Sign even if validation reports errors")
	flag.Parse()

	if *inputPath == "" {
		fmt.Println("Usage: signer -input <path>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	contentBytes, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("Error reading file: %v\n", err)
	}

	content := string(contentBytes)
	fmt.Printf("📂 Reading: %s (%d bytes)\n", *inputPath, len(content))

	cfg := config.Default()

	if *configPath != "" {
		loaded, loadErr := config.LoadConfig(*configPath)
		if loadErr != nil {
			fmt.Printf("⚠️  Warning: Could not load config from %s: %v. Using default validation.\n", *configPath, loadErr)
		} else {
			cfg = loaded
		}
	}

	countryID := *id
	if countryID == "" {
		countryID = strings.TrimSuffix(filepath.Base(*inputPath), filepath.Ext(*inputPath))
	}

	// Drop any stale block first so the integrity check only judges the body.
	_, body := metadata.Extract(content)

	result := validator.NewSourceValidator(cfg).ValidateDocument(countryID, body)
	fmt.Printf("🔍 Detected shape: %s, %d usable years\n", result.Stats.Shape, result.Stats.UsableYears)
	result.PrintWarnings(os.Stdout)

	if !result.IsValid {
		result.PrintErrors(os.Stdout)

		if !*force {
			fmt.Println("❌ Skipping signature due to validation failure.")
			os.Exit(1)
		}

		fmt.Println("⚠️  Signing despite validation errors (-force).")
	} else {
		fmt.Println("✅ Validation Passed")
	}

	fmt.Println("✍️  Signing file...")
	signedContent := metadata.Sign(content, *version, time.Now())

	if err := os.WriteFile(*inputPath, []byte(signedContent), 0644); err != nil {
		log.Fatalf("Error writing file: %v\n", err)
	}

	fmt.Printf("✅ Signed and saved to: %s\n", *inputPath)
}
