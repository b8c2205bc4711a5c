package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/formseed/formseed/internal/classify"
	"github.com/formseed/formseed/internal/config"
	"github.com/formseed/formseed/internal/form"
	"github.com/formseed/formseed/internal/generate"
	"github.com/formseed/formseed/internal/mcp"
	"github.com/formseed/formseed/internal/runner"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging configures logging based on the run mode.
func setupLogging(cfg *config.Config) {
	if cfg.IsStdioMode() {
		// In stdio mode, keep stdout clean for the MCP protocol.
		log.SetOutput(os.Stderr)
		if !cfg.IsDebug() {
			log.SetOutput(os.NewFile(0, os.DevNull))
		}
	} else {
		log.SetOutput(os.Stderr)
		if cfg.IsDebug() {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		}
	}
}

// newService wires the production pipeline: preflight validation, pdfcpu
// extraction and filling, LLM classification with heuristic fallback, and
// local fake-data generation.
func newService(cfg *config.Config) *runner.Service {
	var primary classify.Classifier
	switch {
	case cfg.HeuristicOnly:
		log.Printf("heuristic-only classification requested")
	case cfg.HasAPIKey():
		primary = classify.NewLLMClassifier(cfg.Classifier())
	default:
		// Validate only allows a missing key for --list-fields, which never
		// classifies.
		log.Printf("no API key configured, using heuristic classification only")
	}

	return runner.NewService(
		form.NewValidator(cfg.MaxFileSize),
		form.NewExtractor(cfg.IsDebug()),
		classify.NewFallbackClassifier(primary, cfg.IsDebug()),
		generate.NewGenerator(cfg.Seed),
		form.NewFiller(cfg.IsDebug()),
	)
}

// runCLI executes a one-shot fill (or field listing) and returns the process
// exit code.
func runCLI(ctx context.Context, cfg *config.Config, service *runner.Service) int {
	if cfg.ListFields {
		fields, err := service.Fields(cfg.InputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		for i, field := range fields {
			fmt.Printf("[%d] %s\n", i+1, field.Name)
			fmt.Printf("    Kind: %s\n", field.Kind)
			if field.Label != "" {
				fmt.Printf("    Label: %s\n", field.Label)
			}
			if len(field.Options) > 0 {
				fmt.Printf("    Options: %v\n", field.Options)
			}
		}
		return 0
	}

	if err := service.Run(ctx, cfg.InputPath, cfg.OutputPath, cfg.Count); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	// Check for version flag before parsing other flags.
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg)

	if version != "dev" {
		cfg.Version = version
	}

	if cfg.IsDebug() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	service := newService(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsStdioMode() {
		srv, err := mcp.NewServer(cfg, service)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create MCP server: %v\n", err)
			os.Exit(1)
		}
		if err := srv.Run(ctx); err != nil {
			if os.Getenv("DEBUG") != "" {
				log.Printf("Server error: %v", err)
			}
			os.Exit(1)
		}
		return
	}

	os.Exit(runCLI(ctx, cfg, service))
}

// printVersion prints version information.
func printVersion() {
	fmt.Printf("formseed\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
