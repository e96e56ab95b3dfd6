package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"partner-panel/api"
	"partner-panel/cache"
	"partner-panel/storage"
	"partner-panel/telemetry"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	outputJSON    bool
	outputCompact bool
	verbose       bool
	noCache       bool

	cfg        Config
	creds      *storage.Credentials
	client     *api.Client
	queryCache *cache.Cache
	cacheStore *storage.CacheStore
	logger     = logrus.New()
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "partner",
		Short: "Partner panel for locations, lockers, staff, pricing and revenue",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if outputJSON && outputCompact {
				return fmt.Errorf("choose either --json or --compact")
			}
			return setup(cmd.ErrOrStderr())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output JSON")
	rootCmd.PersistentFlags().BoolVar(&outputCompact, "compact", false, "Output compact text")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log requests to stderr")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Always refetch instead of reading cached responses")

	rootCmd.AddCommand(authCmd())
	rootCmd.AddCommand(locationsCmd())
	rootCmd.AddCommand(storagesCmd())
	rootCmd.AddCommand(staffCmd())
	rootCmd.AddCommand(pricingCmd())
	rootCmd.AddCommand(revenueCmd())
	rootCmd.AddCommand(settlementsCmd())
	rootCmd.AddCommand(ticketsCmd())
	rootCmd.AddCommand(mailCmd())
	rootCmd.AddCommand(cacheCmd())
	return rootCmd
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	shutdown := telemetry.Setup(ctx, "partner-panel")
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(flushCtx)
	}()
	defer teardown()

	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", api.Message(err))
		return 1
	}
	return 0
}

func setup(stderr io.Writer) error {
	logger.SetOutput(stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	loaded, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = loaded

	client = api.NewClient()
	client.BaseURL = cfg.APIURL
	client.Logger = logger

	creds, err = storage.LoadCredentials()
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}
	if creds != nil {
		client.AccessToken = creds.AccessToken
		client.TenantID = creds.TenantID
	}
	if cfg.TenantID != "" {
		client.TenantID = cfg.TenantID
	}

	var persist cache.Persistent
	store, err := storage.OpenCacheStore(client.TenantID)
	if err != nil {
		logger.WithError(err).Warn("persistent cache unavailable, using memory only")
	} else {
		cacheStore = store
		persist = store
	}
	queryCache = cache.New(time.Duration(cfg.CacheTTLSeconds)*time.Second, persist, logger)
	queryCache.Bypass = noCache
	return nil
}

func teardown() {
	if cacheStore != nil {
		if err := cacheStore.Close(); err != nil {
			logger.WithError(err).Warn("close cache")
		}
		cacheStore = nil
	}
}
