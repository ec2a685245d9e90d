// Command github-search-mcp serves GitHub search and user lookup tools over
// MCP on stdio, or over HTTP with the http subcommand.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github-search-mcp/internal/config"
	"github-search-mcp/internal/github"
	"github-search-mcp/internal/server"
	"github-search-mcp/internal/tool"
)

const (
	serverName = "mcp-server-github-search"
	version    = "0.1.0"
)

type options struct {
	configPath string
	envFile    string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	stdioCmd := &cobra.Command{
		Use:   "stdio",
		Short: "Serve MCP on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStdio(cmd.Context(), opts)
		},
	}

	rootCmd := &cobra.Command{
		Use:           "github-search-mcp",
		Short:         "MCP server exposing GitHub search and user lookup tools",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          stdioCmd.RunE,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to a .env file (ignored if missing)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(stdioCmd, &cobra.Command{
		Use:   "http",
		Short: "Serve the tools over a plain HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHTTP(cmd.Context(), opts)
		},
	})

	return rootCmd
}

// setup loads configuration, builds the logger and registers the tools.
func setup(opts *options) (config.Config, *slog.Logger, *tool.Dispatcher, error) {
	// Logs go to stderr; stdout carries the MCP stream.
	bootLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := config.LoadDotEnv(opts.envFile); err != nil {
		bootLogger.Error("Failed to load env file", "error", err)
		return config.Config{}, nil, nil, err
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		bootLogger.Error("Failed to load config", "error", err)
		return config.Config{}, nil, nil, err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		bootLogger.Error("Invalid config", "error", err)
		return config.Config{}, nil, nil, err
	}

	// Validate has already rejected an unknown level.
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if cfg.GitHub.Token == "" {
		logger.Warn("GITHUB_TOKEN not set; GitHub will reject or rate-limit requests")
	}

	ghCfg, err := cfg.GitHubClientConfig(serverName + "/" + version)
	if err != nil {
		logger.Error("Invalid GitHub config", "error", err)
		return config.Config{}, nil, nil, err
	}
	reg := tool.NewRegistry()
	if err := server.RegisterGitHubTools(reg, github.New(ghCfg, nil)); err != nil {
		logger.Error("Failed to register tools", "error", err)
		return config.Config{}, nil, nil, err
	}

	return cfg, logger, tool.NewDispatcher(reg, logger), nil
}

func runStdio(ctx context.Context, opts *options) error {
	_, logger, d, err := setup(opts)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := server.NewMCP(serverName, version, d, logger)
	logger.Info("GitHub search MCP server running on stdio", "version", version)
	if err := srv.ServeStdio(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server exited with error", "error", err)
		return err
	}
	return nil
}

func runHTTP(ctx context.Context, opts *options) error {
	cfg, logger, d, err := setup(opts)
	if err != nil {
		return err
	}
	if cfg.HTTP.Token == "" {
		logger.Warn("MCP_TOKEN not set; endpoints will be open. Set MCP_TOKEN to secure.")
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := server.New(server.Config{Token: cfg.HTTP.Token}, d, logger)
	httpSrv := &http.Server{Addr: cfg.HTTP.Addr, Handler: srv.Router()}

	errCh := make(chan error, 1)
	go func() {
		if cfg.HTTP.TLSCertFile != "" {
			logger.Info("Starting HTTP server with TLS", "addr", cfg.HTTP.Addr)
			errCh <- httpSrv.ListenAndServeTLS(cfg.HTTP.TLSCertFile, cfg.HTTP.TLSKeyFile)
			return
		}
		logger.Warn("TLS_CERT_FILE and TLS_KEY_FILE not set; serving plain HTTP. Run behind a TLS-terminating proxy.")
		logger.Info("Starting HTTP server", "addr", cfg.HTTP.Addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited with error", "error", err)
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Shutting down HTTP server")
		return httpSrv.Shutdown(context.Background())
	}
}
