package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nexora-Open-Source/rss-feed-frontend/backend"
	"github.com/Nexora-Open-Source/rss-feed-frontend/config"
	"github.com/Nexora-Open-Source/rss-feed-frontend/filter"
	"github.com/Nexora-Open-Source/rss-feed-frontend/middleware"
	"github.com/Nexora-Open-Source/rss-feed-frontend/monitoring"
	"github.com/Nexora-Open-Source/rss-feed-frontend/utils"
	"github.com/Nexora-Open-Source/rss-feed-frontend/view"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var (
	version = "dev"
	commit  = "none"
)

const shutdownTimeout = 10 * time.Second

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	metaStyle    = lipgloss.NewStyle().Faint(true)
	summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00A7C4")).Italic(true)
)

// Execute runs the command line
func Execute() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "rss-frontend",
		Short:        "Web frontend for the RSS feed backend",
		Long:         "rss-frontend serves a reader page on top of the RSS feed backend, with per-session source and time filtering.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath)
		},
	})
	root.AddCommand(newArticlesCommand(&configPath))
	root.AddCommand(newSourcesCommand(&configPath))
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rss-frontend %s (commit: %s)\n", version, commit)
		},
	})

	return root
}

func runServe(ctx context.Context, configPath string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize structured logger
	middleware.InitLogger()

	// Initialize configuration and services
	appConfig, err := config.NewAppConfig(configPath, version)
	if err != nil {
		return fmt.Errorf("failed to initialize application configuration: %w", err)
	}
	defer appConfig.Services.Close()
	cfg := appConfig.Config

	if err := middleware.SetLogLevel(cfg.LogLevel); err != nil {
		middleware.Logger.WithField("log_level", cfg.LogLevel).Warn("Unknown log level, keeping info")
	}
	middleware.Logger.WithField("version", version).Info("Starting RSS Feed Frontend Server")

	// Initialize tracing
	tracerProvider, err := monitoring.InitTracing("rss-feed-frontend", cfg.JaegerEndpoint)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer monitoring.ShutdownTracing(tracerProvider, middleware.Logger)

	// Initialize handler with dependencies using DI container
	handler, err := appConfig.Services.Container.GetHandler()
	if err != nil {
		return fmt.Errorf("failed to initialize handler: %w", err)
	}

	// Initialize rate limiter with configuration
	limiter := NewRateLimiter(rate.Limit(cfg.RateLimitRequestsPerMinute/60.0), cfg.RateLimitBurst)
	go func() {
		ticker := time.NewTicker(cfg.ClientCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				limiter.Cleanup()
			}
		}
	}()

	router := newRouter(handler, limiter, cfg.SessionCookie)
	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           newServerHandler(router, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		middleware.Logger.WithFields(logrus.Fields{
			"port":        cfg.ServerPort,
			"backend_url": cfg.BackendURL,
		}).Info("Server starting")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	middleware.Logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	middleware.Logger.Info("Server stopped")
	return nil
}

type articlesOptions struct {
	sources []string
	mode    string
	start   string
	end     string
	search  string
	tz      string
}

func newArticlesCommand(configPath *string) *cobra.Command {
	var opts articlesOptions

	cmd := &cobra.Command{
		Use:     "articles",
		Short:   "Fetch, filter and print articles",
		Example: "  rss-frontend articles --source go --time custom --start 2024-01-01 --end 2024-01-31 --tz Europe/Berlin",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := cliBackend(*configPath)
			if err != nil {
				return err
			}
			return runArticles(cmd.Context(), cmd.OutOrStdout(), client, cfg.Location(), opts, time.Now())
		},
	}

	cmd.Flags().StringSliceVar(&opts.sources, "source", nil, "only show articles from this source (repeatable)")
	cmd.Flags().StringVar(&opts.mode, "time", string(filter.All), "time window: all, today, week, month or custom")
	cmd.Flags().StringVar(&opts.start, "start", "", "first day of a custom window (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.end, "end", "", "last day of a custom window (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.search, "search", "", "search the backend instead of listing every article")
	cmd.Flags().StringVar(&opts.tz, "tz", "", "time zone used for day boundaries (default from config)")

	return cmd
}

func runArticles(ctx context.Context, out io.Writer, client *backend.Client, loc *time.Location, opts articlesOptions, now time.Time) error {
	if opts.tz != "" {
		var err error
		if loc, err = utils.LoadLocation(opts.tz); err != nil {
			return err
		}
	}

	mode, ok := filter.ParseTimeMode(opts.mode)
	if !ok {
		return fmt.Errorf("unknown time mode %q", opts.mode)
	}
	spec := filter.Spec{
		Sources:     opts.sources,
		TimeMode:    mode,
		CustomStart: opts.start,
		CustomEnd:   opts.end,
	}
	if err := spec.Validate(); err != nil {
		return err
	}

	var articles []filter.Article
	var err error
	if opts.search != "" {
		articles, err = client.Search(ctx, opts.search)
	} else {
		articles, err = client.ListArticles(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to load articles: %w", err)
	}

	state := view.New(loc).WithArticles(articles, opts.search, now).WithSpec(spec, now)
	for _, article := range state.Displayed {
		fmt.Fprintln(out, titleStyle.Render(article.Title))
		fmt.Fprintln(out, metaStyle.Render(fmt.Sprintf("  %s | %s | %s", article.SourceID, article.Published, article.Link)))
	}

	line := fmt.Sprintf("%d of %d articles", len(state.Displayed), len(state.Articles))
	if summary, ok := filter.Summary(state.Applied); ok {
		line += " | filtered by: " + summary
	}
	fmt.Fprintln(out, summaryStyle.Render(line))
	return nil
}

func newSourcesCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "Print the registered sources",
		Long:  "Print the backend's source registry, or the sources found in the articles when the registry is empty.",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := cliBackend(*configPath)
			if err != nil {
				return err
			}
			return runSources(cmd.Context(), cmd.OutOrStdout(), client)
		},
	}
}

func runSources(ctx context.Context, out io.Writer, client *backend.Client) error {
	sources, err := client.ListSources(ctx)
	if err != nil {
		return fmt.Errorf("failed to load sources: %w", err)
	}

	if len(sources) == 0 {
		articles, err := client.ListArticles(ctx)
		if err != nil {
			return fmt.Errorf("failed to load articles: %w", err)
		}
		sources = filter.UniqueSources(articles)
	}

	for _, source := range sources {
		if source.URL == "" {
			fmt.Fprintln(out, titleStyle.Render(source.Name))
			continue
		}
		fmt.Fprintf(out, "%s %s\n", titleStyle.Render(source.Name), metaStyle.Render(source.URL))
	}
	fmt.Fprintln(out, summaryStyle.Render(fmt.Sprintf("%d source(s)", len(sources))))
	return nil
}

// cliBackend loads the configuration and builds a backend client for one-shot commands
func cliBackend(configPath string) (*backend.Client, *config.Config, error) {
	middleware.InitLogger()
	middleware.Logger.SetLevel(logrus.WarnLevel)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	client, err := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout, middleware.Logger)
	if err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}
