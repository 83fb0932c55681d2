// zakatd — Zakat calculation service.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/zakathq/zakatd/api"
	"github.com/zakathq/zakatd/internal/config"
	"github.com/zakathq/zakatd/internal/rates"
	"github.com/zakathq/zakatd/internal/rates/goldapi"
	"github.com/zakathq/zakatd/internal/rates/goodreturns"
	"github.com/zakathq/zakatd/internal/store"
	"github.com/zakathq/zakatd/internal/zakat"
	"github.com/zakathq/zakatd/pkg/models"
	"github.com/zakathq/zakatd/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "zakatd",
	Short: "zakatd — Zakat calculator backed by live gold and silver rates",
	Long: `zakatd computes Zakat for a household from declared assets and
liabilities, sizing the Nisab threshold from live precious-metal rates
with cached, fallback-safe acquisition.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Optional .env for local development; absence is fine.
		_ = godotenv.Load()

		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, err = newLogger(cfg)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ratesCmd)
	rootCmd.AddCommand(nisabCmd)
	rootCmd.AddCommand(statusCmd)
}

// newLogger builds a zap logger from the logging config.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if cfg.Logging.Format == "json" {
		zc = zap.NewProductionConfig()
	}
	if lvl, err := zapcore.ParseLevel(cfg.Logging.Level); err == nil {
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}
	return zc.Build()
}

// buildCache assembles the source chain and quote cache from config.
func buildCache() *rates.Cache {
	var sources []rates.Source
	switch cfg.Rates.Provider {
	case "goodreturns":
		sources = append(sources, goodreturns.New(logger.Named("goodreturns")))
	default:
		sources = append(sources, goldapi.New(cfg.Rates.APIKey, cfg.Rates.Currency,
			cfg.Rates.RequestsPerSec, logger.Named("goldapi")))
		// GoodReturns only quotes INR, so it can only back up that case.
		if strings.EqualFold(cfg.Rates.Currency, "INR") {
			sources = append(sources, goodreturns.New(logger.Named("goodreturns")))
		}
	}

	chain := rates.NewChain(logger.Named("rates"), sources...)
	fallback := models.RateQuote{
		Gold24KPerGram: cfg.Rates.Fallback.Gold24KPerGram,
		SilverPerGram:  cfg.Rates.Fallback.SilverPerGram,
		Currency:       cfg.Rates.Currency,
	}
	return rates.NewCache(chain, fallback, rates.CacheOpts{
		TTL:          cfg.Rates.CacheTTL(),
		FetchTimeout: cfg.Rates.FetchTimeout(),
	}, logger.Named("cache"))
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("zakatd %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Serve Command ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache := buildCache()

		var history *store.Store
		if cfg.Store.Enabled {
			var err error
			history, err = store.Open(cfg.Store.Path, logger.Named("store"))
			if err != nil {
				return fmt.Errorf("failed to open history store: %w", err)
			}
			defer history.Close()
		}

		srv := api.NewServer(cfg, cache, history, logger.Named("api"))
		logger.Info("starting zakatd API server", zap.String("addr", cfg.API.Addr()))
		return srv.ListenAndServe(cfg.API.Addr())
	},
}

// --- Rates Command ---

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Print the current gold and silver rates",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		q := buildCache().Current(ctx)
		fmt.Printf("Rates (%s, source: %s)\n", q.Currency, q.Source)
		fmt.Printf("  Gold 24K: %s/g\n", formatAmount(q.Currency, q.Gold24KPerGram))
		fmt.Printf("  Gold 22K: %s/g\n", formatAmount(q.Currency, q.Gold22KPerGram))
		fmt.Printf("  Gold 18K: %s/g\n", formatAmount(q.Currency, q.Gold18KPerGram))
		fmt.Printf("  Silver:   %s/g\n", formatAmount(q.Currency, q.SilverPerGram))
		fmt.Printf("  Fetched:  %s\n", q.FetchedAt.Format(time.RFC3339))
		return nil
	},
}

// --- Nisab Command ---

var nisabCmd = &cobra.Command{
	Use:   "nisab",
	Short: "Print the current Nisab thresholds",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		q := buildCache().Current(ctx)
		th := zakat.Thresholds(q)
		fmt.Printf("Nisab thresholds (%s)\n", th.Currency)
		fmt.Printf("  Gold basis:   %.2f g = %s\n", th.GoldGrams, formatAmount(th.Currency, th.GoldValue))
		fmt.Printf("  Silver basis: %.2f g = %s (recommended)\n", th.SilverGrams, formatAmount(th.Currency, th.SilverValue))
		return nil
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and credential status",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Provider:  %s\n", cfg.Rates.Provider)
		fmt.Printf("Currency:  %s\n", cfg.Rates.Currency)
		fmt.Printf("Cache TTL: %s\n", cfg.Rates.CacheTTL())
		fmt.Printf("History:   enabled=%v path=%s\n", cfg.Store.Enabled, cfg.Store.Path)
		for _, ks := range config.CheckAPIKeys(cfg) {
			state := "not set"
			if ks.IsSet {
				state = fmt.Sprintf("%s (from %s)", ks.Masked, ks.Source)
			}
			fmt.Printf("%s: %s\n", ks.Name, state)
		}
	},
}

// formatAmount renders INR amounts with Indian digit grouping and other
// currencies plainly.
func formatAmount(currency string, v float64) string {
	if strings.EqualFold(currency, "INR") {
		return utils.FormatINR(v)
	}
	return fmt.Sprintf("%.2f %s", v, currency)
}
