package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system,
// such as the quote run itself, server settings and the optional Postgres mirror.
//
// Example ENV equivalent:
//
//	QUOTES_TICKERS=AGI,FSM,GAU
//	QUOTES_SYMBOL_OVERRIDES=GOOGL=goog.us
//	QUOTES_OUTPUT=data/prices.json
//	SERVER_PORT=8080
//	POSTGRES_ENABLED=false
type Config struct {
	Quotes   QuotesConfig   // Snapshot run settings
	Server   ServerConfig   // HTTP server configuration
	Postgres PostgresConfig // PostgreSQL connection settings
}

// QuotesConfig describes one snapshot run. It is built once at start and
// handed to the ingestion package by value; nothing mutates it afterwards.
//
// Fields:
//   - Tickers: ordered list of canonical tickers to process.
//   - Overrides: ticker → provider symbol, bypassing the suffix rule.
//   - SymbolSuffix: market suffix appended to lower-cased tickers (".us").
//   - Endpoint: provider CSV download endpoint.
//   - Interval: provider interval flag ("d" for daily).
//   - UserAgent: identifying header sent with each request.
//   - Source: provenance label written to the snapshot.
//   - OutputPath: JSON snapshot destination.
//   - FetchTimeout: per-request timeout; zero means none.
type QuotesConfig struct {
	Tickers      []string
	Overrides    map[string]string
	SymbolSuffix string
	Endpoint     string
	Interval     string
	UserAgent    string
	Source       string
	OutputPath   string
	FetchTimeout time.Duration
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string // The TCP port the HTTP server will listen on (e.g., "8080")
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Enabled: mirror snapshots into Postgres and serve the API from it.
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// DefaultTickers is the ticker set processed when QUOTES_TICKERS is unset.
var DefaultTickers = []string{"AGI", "FSM", "GAU", "NFGC", "VGZ", "NEWP", "GOOGL"}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and read by cmd/ to build the
// explicit values passed into the rest of the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing, validateConfig() will terminate the app
//     with a descriptive log message.
func LoadConfig() {
	viper.SetDefault("QUOTES_TICKERS", strings.Join(DefaultTickers, ","))
	viper.SetDefault("QUOTES_SYMBOL_OVERRIDES", "")
	viper.SetDefault("QUOTES_SYMBOL_SUFFIX", ".us")
	viper.SetDefault("QUOTES_ENDPOINT", "https://stooq.com/q/d/l/")
	viper.SetDefault("QUOTES_INTERVAL", "d")
	viper.SetDefault("QUOTES_USER_AGENT", "mbd-bot")
	viper.SetDefault("QUOTES_SOURCE", "stooq")
	viper.SetDefault("QUOTES_OUTPUT", "data/prices.json")
	viper.SetDefault("QUOTES_FETCH_TIMEOUT", "0s")

	viper.SetDefault("SERVER_PORT", "8080")

	viper.SetDefault("POSTGRES_ENABLED", false)
	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "pricesnap")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = Config{
		Quotes: QuotesConfig{
			Tickers:      ParseTickers(viper.GetString("QUOTES_TICKERS")),
			Overrides:    ParseOverrides(viper.GetString("QUOTES_SYMBOL_OVERRIDES")),
			SymbolSuffix: viper.GetString("QUOTES_SYMBOL_SUFFIX"),
			Endpoint:     viper.GetString("QUOTES_ENDPOINT"),
			Interval:     viper.GetString("QUOTES_INTERVAL"),
			UserAgent:    viper.GetString("QUOTES_USER_AGENT"),
			Source:       viper.GetString("QUOTES_SOURCE"),
			OutputPath:   viper.GetString("QUOTES_OUTPUT"),
			FetchTimeout: viper.GetDuration("QUOTES_FETCH_TIMEOUT"),
		},
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Postgres: PostgresConfig{
			Enabled:  viper.GetBool("POSTGRES_ENABLED"),
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
	}

	AppConfig.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Postgres.User,
		AppConfig.Postgres.Password,
		AppConfig.Postgres.Host,
		AppConfig.Postgres.Port,
		AppConfig.Postgres.DBName,
		AppConfig.Postgres.SSLMode,
	)

	validateConfig()
}

// ParseTickers splits a comma-separated ticker list, upper-casing entries
// and dropping blanks and duplicates while keeping the first occurrence order.
func ParseTickers(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// ParseOverrides reads "TICKER=symbol" pairs separated by commas.
// Malformed pairs are ignored. Tickers are upper-cased, symbols kept verbatim.
func ParseOverrides(s string) map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		k = strings.ToUpper(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
//
// Postgres fields are only required when POSTGRES_ENABLED is true.
func validateConfig() {
	var missing []string

	if len(AppConfig.Quotes.Tickers) == 0 {
		missing = append(missing, "QUOTES_TICKERS")
	}
	if AppConfig.Quotes.Endpoint == "" {
		missing = append(missing, "QUOTES_ENDPOINT")
	}
	if AppConfig.Quotes.Source == "" {
		missing = append(missing, "QUOTES_SOURCE")
	}
	if AppConfig.Quotes.OutputPath == "" {
		missing = append(missing, "QUOTES_OUTPUT")
	}
	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if AppConfig.Postgres.Enabled {
		if AppConfig.Postgres.Host == "" {
			missing = append(missing, "POSTGRES_HOST")
		}
		if AppConfig.Postgres.Port == 0 {
			missing = append(missing, "POSTGRES_PORT")
		}
		if AppConfig.Postgres.User == "" {
			missing = append(missing, "POSTGRES_USER")
		}
		if AppConfig.Postgres.Password == "" {
			missing = append(missing, "POSTGRES_PASSWORD")
		}
		if AppConfig.Postgres.DBName == "" {
			missing = append(missing, "POSTGRES_DB")
		}
	}

	if len(missing) > 0 {
		log.Fatalf("❌ Missing required environment variables: %v\n", missing)
	}
}
