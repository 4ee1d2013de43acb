package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/praveen44/portfolio/internal/content"
	"github.com/praveen44/portfolio/internal/tracking"
	"github.com/praveen44/portfolio/internal/web"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the portfolio web server",
		Example: `  # Serve the built-in content on :8080
  portfolio serve

  # Serve your own content and reload it on change
  portfolio serve --content site.yaml --watch

  # Record privacy-preserving visit counts
  portfolio serve --tracking-db visitors.db`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}

	cmd.Flags().Int("port", 0, "Port to listen on (default: 8080)")
	cmd.Flags().String("mode", "", "gin mode (debug|release|test)")
	cmd.Flags().Bool("watch", false, "Reload content when the file changes")
	cmd.Flags().String("static-dir", "", "Directory served at /static")

	return cmd
}

func runServe(ctx context.Context) error {
	cfg := getConfig(ctx)
	logger := getLogger(ctx)

	gin.SetMode(cfg.Server.Mode)

	store, err := content.NewStore(cfg.Content.Path, logger)
	if err != nil {
		return fmt.Errorf("failed to load content: %w", err)
	}

	opts := web.Options{
		Config:  cfg,
		Logger:  logger,
		Content: store,
	}

	if m := web.NewSMTPMailer(cfg.SMTP, logger); m != nil {
		opts.Mailer = m
	} else {
		logger.Info("SMTP credentials not configured; contact form disabled")
	}

	if cfg.Tracking.DB != "" {
		if cfg.Tracking.Salt == "" {
			logger.Warn("tracking.salt not set; visitor hashes will change on restart")
		}
		ts, err := tracking.Open(cfg.Tracking.DB, cfg.Tracking.Salt, logger)
		if err != nil {
			return err
		}
		defer ts.Close()

		// Clean up old data on startup
		if n, err := ts.Cleanup(ctx); err != nil {
			logger.Warn("failed to clean up visitor data", "error", err)
		} else if n > 0 {
			logger.Info("cleaned up old visitor records", "deleted", n)
		}
		opts.Tracker = ts
	}

	srv, err := web.New(opts)
	if err != nil {
		return err
	}
	return srv.Serve(ctx)
}
