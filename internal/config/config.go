// Package config holds runtime configuration for the charter party
// generation service, loaded from command line flags and CPGEN_ prefixed
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort                = 8080
	DefaultHost                = "127.0.0.1"
	DefaultLogLevel            = "info"
	DefaultMaxTemplateSize     = 50 * 1024 * 1024
	DefaultMaxRecapSize        = 20 * 1024 * 1024
	DefaultContextRadius       = 50
	DefaultSimilarityThreshold = 0.3
	DefaultConfidenceThreshold = 0.6

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the charter party generator.
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Storage configuration
	DataDir         string
	MaxTemplateSize int64
	MaxRecapSize    int64

	// Pipeline configuration
	ContextRadius       int
	SimilarityThreshold float64
	ConfidenceThreshold float64
	SemanticMatching    bool

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:                ModeStdio, // stdio keeps MCP clients working out of the box
		Host:                DefaultHost,
		Port:                DefaultPort,
		DataDir:             filepath.Join(currentDir, "data"),
		MaxTemplateSize:     DefaultMaxTemplateSize,
		MaxRecapSize:        DefaultMaxRecapSize,
		ContextRadius:       DefaultContextRadius,
		SimilarityThreshold: DefaultSimilarityThreshold,
		ConfidenceThreshold: DefaultConfidenceThreshold,
		SemanticMatching:    true,
		Version:             "1.0.0",
		ServerName:          "cpgen",
		LogLevel:            DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)

	if cfg.DataDir != "" {
		if expandedPath, err := filepath.Abs(cfg.DataDir); err == nil {
			cfg.DataDir = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("CPGEN")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("datadir", cfg.DataDir)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxtemplatesize", cfg.MaxTemplateSize)
	viper.SetDefault("maxrecapsize", cfg.MaxRecapSize)
	viper.SetDefault("contextradius", cfg.ContextRadius)
	viper.SetDefault("similaritythreshold", cfg.SimilarityThreshold)
	viper.SetDefault("confidencethreshold", cfg.ConfidenceThreshold)
	viper.SetDefault("semanticmatching", cfg.SemanticMatching)
}

func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("datadir", cfg.DataDir, "Directory for stored templates, recaps, documents, and reports")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxtemplatesize", cfg.MaxTemplateSize, "Maximum template upload size in bytes")
	pflag.Int64("maxrecapsize", cfg.MaxRecapSize, "Maximum recap upload size in bytes")
	pflag.Int("contextradius", cfg.ContextRadius, "Context window radius around located template fields")
	pflag.Float64("similaritythreshold", cfg.SimilarityThreshold, "Minimum cosine similarity for semantic field mapping")
	pflag.Float64("confidencethreshold", cfg.ConfidenceThreshold, "Confidence floor below which filled fields are flagged")
	pflag.Bool("semanticmatching", cfg.SemanticMatching, "Enable TF-IDF similarity fallback for field mapping")
}

func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "host", "port", "datadir", "loglevel",
		"maxtemplatesize", "maxrecapsize", "contextradius",
		"similaritythreshold", "confidencethreshold", "semanticmatching",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\ncpgen - Charter party generator: fills CP templates from fixture recaps\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                   # stdio mode (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --datadir=/var/lib/cpgen          # stdio mode with custom data directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --port=8081         # HTTP server mode\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  CPGEN_MODE                 Server mode\n")
		fmt.Fprintf(os.Stderr, "  CPGEN_HOST                 Server host\n")
		fmt.Fprintf(os.Stderr, "  CPGEN_PORT                 Server port\n")
		fmt.Fprintf(os.Stderr, "  CPGEN_DATADIR              Data directory\n")
		fmt.Fprintf(os.Stderr, "  CPGEN_LOGLEVEL             Log level\n")
		fmt.Fprintf(os.Stderr, "  CPGEN_MAXTEMPLATESIZE      Maximum template size\n")
		fmt.Fprintf(os.Stderr, "  CPGEN_MAXRECAPSIZE         Maximum recap size\n")
		fmt.Fprintf(os.Stderr, "  CPGEN_SEMANTICMATCHING     Enable semantic mapping\n")
	}
}

func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.DataDir = viper.GetString("datadir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxTemplateSize = viper.GetInt64("maxtemplatesize")
	cfg.MaxRecapSize = viper.GetInt64("maxrecapsize")
	cfg.ContextRadius = viper.GetInt("contextradius")
	cfg.SimilarityThreshold = viper.GetFloat64("similaritythreshold")
	cfg.ConfidenceThreshold = viper.GetFloat64("confidencethreshold")
	cfg.SemanticMatching = viper.GetBool("semanticmatching")
}

// Validate checks if the configuration is valid, creating the data
// directory when it does not exist yet.
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}
	if c.DataDir == "" {
		return errors.New("data directory cannot be empty")
	}
	if _, err := os.Stat(c.DataDir); os.IsNotExist(err) {
		if err := os.MkdirAll(c.DataDir, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create data directory %s: %w", c.DataDir, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access data directory %s: %w", c.DataDir, err)
	}
	if c.MaxTemplateSize <= 0 || c.MaxRecapSize <= 0 {
		return errors.New("maximum upload sizes must be positive")
	}
	if c.ContextRadius <= 0 {
		return errors.New("context radius must be positive")
	}
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold >= 1 {
		return errors.New("similarity threshold must be between 0 and 1")
	}
	if c.ConfidenceThreshold <= 0 || c.ConfidenceThreshold >= 1 {
		return errors.New("confidence threshold must be between 0 and 1")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}
	return nil
}

// Address returns the server address as host:port.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled.
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// IsServerMode returns true when running as an HTTP server.
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true when running as an MCP stdio server.
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, DataDir: %s, LogLevel: %s, SemanticMatching: %t}",
		c.Mode, c.Host, c.Port, c.DataDir, c.LogLevel, c.SemanticMatching)
}
