package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"WorshipHub/cache"
	"WorshipHub/config"
	"WorshipHub/core/api"
	"WorshipHub/logger"
	"WorshipHub/session"

	"github.com/spf13/cobra"
)

var (
	cfg      *config.Config
	client   *api.Client
	sessions *session.FileStore
	closers  []func() error

	apiURL   string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:           "worshiphub",
	Short:         "WorshipHub manages worship groups, songs, setlists and chord sheets.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		teardown()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "backend base URL (overrides API_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// setup loads configuration and builds the shared API client.
func setup() error {
	cfg = config.Load()
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogFile,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   true,
	})

	c, err := openCache()
	if err != nil {
		return err
	}
	sessions = session.NewFileStore(cfg.SessionDir)
	client = api.NewClient(api.Options{
		BaseURL:                cfg.APIBaseURL,
		Timeout:                cfg.APITimeout,
		Cache:                  c,
		Session:                sessions,
		ReorderInvalidatesInfo: cfg.ReorderInvalidatesInfo,
	})
	logger.Debug("client ready",
		logger.String("api", cfg.APIBaseURL),
		logger.String("cache", cfg.CacheBackend))
	return nil
}

func openCache() (*cache.Cache, error) {
	switch cfg.CacheBackend {
	case "", "memory":
		return cache.NewMemory(), nil
	case "redis":
		store, err := cache.ConnectRedis(cfg)
		if err != nil {
			return nil, err
		}
		closers = append(closers, store.Close)
		return cache.New(store), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}

func teardown() {
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			logger.Warn("failed to close resource", logger.ErrorField(err))
		}
	}
	closers = nil
	logger.Sync()
}

// Execute executes the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		teardown()
		reportError(err)
		os.Exit(1)
	}
}

func reportError(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	if errors.Is(err, api.ErrUnauthorized) {
		fmt.Fprintln(os.Stderr, "run `worshiphub login` to sign in again")
	}
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
