package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"huffduff-video/infrastructure/web"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	serveAddress   string
	serveSkipCheck bool
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the huffduff HTTP server",
	Long: `Starts the HTTP server. Point a bookmarklet at

  http://<host>/?url=<page url>

and each request streams its progress before redirecting to Huffduffer.

Example:
  huffduff-video serve --address :8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddress, "address", "", "Listen address (overrides server.address)")
	serveCmd.Flags().BoolVar(&serveSkipCheck, "skip-check", false, "Start without verifying yt-dlp and ffmpeg")
}

func runServe(cmd *cobra.Command, args []string) error {
	c, err := requireConfig()
	if err != nil {
		return err
	}

	logger := newLogger(c)
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !serveSkipCheck {
		if err := RunCheckWithDependencies(ctx, toolsFor(c), os.Stderr); err != nil {
			return err
		}
	}

	svc, err := newPipeline(ctx, c, logger)
	if err != nil {
		return err
	}

	addr := c.Server.Address
	if serveAddress != "" {
		addr = serveAddress
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	gin.SetMode(gin.ReleaseMode)
	handler := web.NewHandler(svc, logger)
	server := &http.Server{
		Handler:           web.NewRouter(handler, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.WithField("address", ln.Addr().String()).Info("server starting")
	return RunServer(ctx, server, ln, handler, shutdownTimeout, logger)
}

// Drainer controls pipeline runs that outlive their request
type Drainer interface {
	Cancel()
	Wait()
}

// RunServer serves on ln until ctx is cancelled, then shuts down gracefully.
// In-flight runs get grace to finish; after that they are cancelled. RunServer
// returns only once every run has returned and removed its scratch directory.
func RunServer(ctx context.Context, server *http.Server, ln net.Listener, runs Drainer, grace time.Duration, logger logrus.FieldLogger) error {
	defer func() {
		runs.Cancel()
		runs.Wait()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	err := server.Shutdown(shutdownCtx)
	if errors.Is(err, context.DeadlineExceeded) {
		logger.WithField("grace", grace).Warn("cancelling pipelines still running")
		return nil
	}
	if err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
