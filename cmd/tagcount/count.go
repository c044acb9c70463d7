package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/tagcount/internal/classify"
	"github.com/nao1215/tagcount/internal/config"
	"github.com/nao1215/tagcount/internal/counter"
	"github.com/nao1215/tagcount/internal/database"
	"github.com/nao1215/tagcount/internal/fetch"
	"github.com/nao1215/tagcount/internal/input"
	"github.com/nao1215/tagcount/internal/log"
	"github.com/nao1215/tagcount/internal/model"
	"github.com/nao1215/tagcount/internal/pipeline"
	"github.com/nao1215/tagcount/internal/report"
	"github.com/nao1215/tagcount/internal/tor"
	"github.com/spf13/cobra"
)

// addCountFlags defines the flags of a counting run.
func addCountFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", config.DefaultOutputPath,
		"Log file the report line is appended to")
	cmd.Flags().StringP("parser", "P", counter.DefaultStrategy.String(),
		"Tag counting parser (tree, tokenizer, selector)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .tagcount in current directory, XDG config, or home)")

	// Transport flags
	cmd.Flags().StringP("proxy", "x", "",
		"Fetch through the SOCKS5 proxy at host:port (e.g., 127.0.0.1:9050)")
	cmd.Flags().Bool("tor", false,
		"Fetch through an embedded Tor daemon (requires the tor binary)")
	cmd.Flags().Duration("tor-timeout", config.DefaultTorStartupTimeout,
		"Timeout for embedded Tor startup")

	cmd.Flags().BoolP("record", "r", false,
		"Save the run to the history database")
}

// runCountCmd executes a counting run.
func runCountCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)

	// Set up context with signal handling so an in-flight fetch returns
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	target, err := input.Resolve(args, input.NewLinePrompter(cmd.InOrStdin(), cmd.OutOrStdout()))
	if err != nil {
		return err
	}

	return runCount(ctx, cmd, cfg, target, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getDBDir returns the history database directory: --db-dir when set,
// the XDG data directory otherwise.
func getDBDir(cmd *cobra.Command) string {
	dir, err := cmd.Flags().GetString("db-dir")
	if err != nil || dir == "" {
		return config.XDGDataDir()
	}
	return dir
}

// buildConfig layers defaults, the configuration file, and the flags the
// user set explicitly.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit --config must exist; otherwise a missing file is fine.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := cfg.ApplyFile(cf); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if flags.Changed("output") {
		if cfg.OutputPath, err = flags.GetString("output"); err != nil {
			return nil, err
		}
	}

	if flags.Changed("parser") {
		name, err := flags.GetString("parser")
		if err != nil {
			return nil, err
		}
		if cfg.Parser, err = counter.ParseStrategy(name); err != nil {
			return nil, fmt.Errorf("%w: %v", config.ErrInvalidParser, err)
		}
	}

	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}

	if cfg.UseTor, err = flags.GetBool("tor"); err != nil {
		return nil, err
	}
	// --tor replaces a proxy taken from the configuration file.
	if cfg.UseTor && !flags.Changed("proxy") {
		cfg.ProxyAddress = ""
	}

	if cfg.TorStartupTimeout, err = flags.GetDuration("tor-timeout"); err != nil {
		return nil, err
	}

	if flags.Changed("record") {
		if cfg.Record, err = flags.GetBool("record"); err != nil {
			return nil, err
		}
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.DBDir = getDBDir(cmd)

	return cfg, nil
}

// runCount wires the components for one run and executes the pipeline.
func runCount(ctx context.Context, cmd *cobra.Command, cfg *config.Config, target model.Target, logger *slog.Logger) error {
	logger.Info("starting run",
		"url", target.URL,
		"tag", target.Tag,
		"parser", cfg.Parser,
		"divisors", cfg.Divisors,
		"output", cfg.OutputPath,
	)

	classifier, err := classify.New(cfg.Divisors...)
	if err != nil {
		return err
	}

	// Open the database before any network traffic so a bad DBDir fails fast.
	var store pipeline.ResultStore
	if cfg.Record {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Debug("database opened", "path", db.Path())
		store = db
	}

	client, cleanup, err := newHTTPClient(ctx, cfg, cmd.ErrOrStderr(), logger)
	if err != nil {
		return err
	}
	defer cleanup()

	site := cfg.SiteConfig(target.URL)
	fetcher := fetch.NewHTTPFetcher(client,
		fetch.WithUserAgent(site.UserAgent),
		fetch.WithCookie(site.Cookie),
		fetch.WithHeaders(site.Headers),
		fetch.WithLogger(logger),
	)

	p := pipeline.DefaultPipeline(pipeline.Dependencies{
		Fetcher:    fetcher,
		Strategy:   cfg.Parser,
		Classifier: classifier,
		Reporter:   report.NewReporter(cfg.OutputPath, report.WithStdout(cmd.OutOrStdout())),
		Store:      store,
		Logger:     logger,
	})

	result := model.NewResult(target, cfg.Parser.String())
	if err := p.Execute(ctx, result); err != nil {
		return err
	}

	logger.Debug("run completed",
		"count", result.Count,
		"label", result.Label,
		"steps", result.PerformedSteps,
	)
	return nil
}

// newHTTPClient returns the client for the configured transport and a
// function releasing it. The cleanup function is never nil.
func newHTTPClient(ctx context.Context, cfg *config.Config, errOut io.Writer, logger *slog.Logger) (*http.Client, func(), error) {
	noop := func() {}

	switch {
	case cfg.ProxyAddress != "":
		client, err := tor.NewClient(cfg.ProxyAddress)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to create proxy client: %w", err)
		}
		if err := checkProxy(ctx, client); err != nil {
			return nil, noop, err
		}
		logger.Info("proxy connection verified", "address", cfg.ProxyAddress)
		return client.HTTPClient(), noop, nil

	case cfg.UseTor:
		client, embeddedTor, err := startEmbeddedTor(ctx, cfg, errOut, logger)
		if err != nil {
			return nil, noop, err
		}
		cleanup := func() {
			logger.Info("stopping embedded Tor daemon...")
			if err := embeddedTor.Stop(); err != nil {
				logger.Error("failed to stop embedded Tor", "error", err)
			}
		}
		return client.HTTPClient(), cleanup, nil

	default:
		return &http.Client{}, noop, nil
	}
}

// checkProxy returns an error unless the proxy speaks SOCKS5.
func checkProxy(ctx context.Context, client *tor.Client) error {
	status := client.CheckConnection(ctx)
	if err := status.Err(); err != nil {
		return fmt.Errorf("proxy check failed at %s: %w", client.ProxyAddress(), err)
	}
	return nil
}

// startEmbeddedTor starts a Tor daemon and returns a client using it.
// The daemon is stopped again when anything after Start fails.
func startEmbeddedTor(ctx context.Context, cfg *config.Config, errOut io.Writer, logger *slog.Logger) (*tor.Client, *tor.EmbeddedTor, error) {
	fmt.Fprintf(errOut, "Starting embedded Tor daemon (timeout: %s)...\n", cfg.TorStartupTimeout)

	embeddedTor := tor.NewEmbeddedTor(tor.WithStartupTimeout(cfg.TorStartupTimeout))
	if err := embeddedTor.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to start embedded Tor: %w", err)
	}

	client, err := embeddedTor.NewClient()
	if err != nil {
		stopQuietly(embeddedTor, logger)
		return nil, nil, fmt.Errorf("failed to create Tor client: %w", err)
	}

	if err := checkProxy(ctx, client); err != nil {
		stopQuietly(embeddedTor, logger)
		return nil, nil, fmt.Errorf("embedded Tor is not ready: %w", err)
	}

	logger.Info("embedded Tor daemon ready", "socksAddr", embeddedTor.SocksAddr())
	return client, embeddedTor, nil
}

func stopQuietly(e *tor.EmbeddedTor, logger *slog.Logger) {
	if err := e.Stop(); err != nil {
		logger.Warn("failed to stop embedded Tor", "error", err)
	}
}
