package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/fairlead/cpgen/internal/config"
	"github.com/fairlead/cpgen/internal/extract"
	"github.com/fairlead/cpgen/internal/generate"
	"github.com/fairlead/cpgen/internal/match"
	"github.com/fairlead/cpgen/internal/mcp"
	"github.com/fairlead/cpgen/internal/recap"
	"github.com/fairlead/cpgen/internal/server"
	"github.com/fairlead/cpgen/internal/store"
	"github.com/fairlead/cpgen/internal/template"
)

var (
	version   = "dev"     // set by build flags
	buildTime = "unknown" // set by build flags
	gitCommit = "unknown" // set by build flags
)

// setupLogging builds the process logger. In stdio mode the logger writes
// to stderr only so it never interferes with the MCP protocol on stdout.
func setupLogging(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	log := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	if cfg.IsStdioMode() && !cfg.IsDebug() {
		log = log.Level(zerolog.WarnLevel)
	}
	return log
}

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if version != "dev" {
		cfg.Version = version
	}

	log := setupLogging(cfg)
	if cfg.IsDebug() {
		log.Debug().Str("config", cfg.String()).Msg("starting")
	}

	maxUpload := cfg.MaxTemplateSize
	if cfg.MaxRecapSize > maxUpload {
		maxUpload = cfg.MaxRecapSize
	}

	extractor := extract.NewExtractor(maxUpload)
	terms := recap.NewExtractor()
	locator := template.NewLocator(cfg.ContextRadius)
	mapper := match.NewMapper(cfg.SimilarityThreshold, cfg.SemanticMatching)
	validator := generate.NewValidator(cfg.ConfidenceThreshold)
	generator := generate.NewGenerator(extractor, terms, locator, mapper, validator, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsServerMode() {
		runServerMode(ctx, cancel, cfg, generator, log)
		return
	}
	runStdioMode(ctx, cfg, extractor, terms, locator, generator, log)
}

// runServerMode starts the HTTP boundary with graceful shutdown on signals.
func runServerMode(ctx context.Context, cancel context.CancelFunc, cfg *config.Config,
	generator *generate.Generator, log zerolog.Logger,
) {
	st, err := store.New(cfg.DataDir, cfg.MaxTemplateSize, cfg.MaxRecapSize, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize store")
	}
	srv := server.New(cfg.Address(), st, generator, log)

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.Run(ctx)
	}()

	select {
	case sig := <-signalCh:
		log.Info().Str("signal", sig.String()).Msg("initiating graceful shutdown")
		cancel()
		if err := <-serverErrCh; err != nil {
			log.Error().Err(err).Msg("server shutdown with error")
			os.Exit(1)
		}
	case err := <-serverErrCh:
		if err != nil {
			log.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	}
	log.Info().Msg("server stopped")
}

// runStdioMode serves MCP tools over standard I/O; the parent process
// controls the lifecycle.
func runStdioMode(ctx context.Context, cfg *config.Config, extractor *extract.Extractor,
	terms *recap.Extractor, locator *template.Locator, generator *generate.Generator,
	log zerolog.Logger,
) {
	srv, err := mcp.NewServer(cfg, extractor, terms, locator, generator)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create MCP server")
	}
	if err := srv.Run(ctx); err != nil {
		if cfg.IsDebug() {
			log.Error().Err(err).Msg("server error")
		}
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("cpgen - Charter Party Generator\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
