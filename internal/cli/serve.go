package cli

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/logr"

	"github.com/saucedemo/swaglabs-e2e/internal/config"
)

// ServerDependencies holds everything needed to serve the store replica
type ServerDependencies struct {
	ServerConfig config.ServerConfig
	Store        http.Handler
	Logger       logr.Logger
}

// RunServe serves the store replica until a shutdown signal arrives
func RunServe(deps ServerDependencies) error {
	listener, server, err := StartServer(deps)
	if err != nil {
		return err
	}
	defer listener.Close()

	return WaitForShutdown(server, nil, deps.Logger)
}

// StartServer listens on the configured port and serves in the background
func StartServer(deps ServerDependencies) (net.Listener, *http.Server, error) {
	addr := fmt.Sprintf(":%s", deps.ServerConfig.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create listener: %w", err)
	}

	server := &http.Server{
		Handler:           deps.Store,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		deps.Logger.Info("store replica listening", "addr", listener.Addr().String())
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			deps.Logger.Error(err, "server error")
		}
	}()

	return listener, server, nil
}

// WaitForShutdown blocks until a signal arrives and then shuts the server
// down. If shutdown is nil, a channel is created and registered with
// signal.Notify.
func WaitForShutdown(server *http.Server, shutdown chan os.Signal, log logr.Logger) error {
	return WaitForShutdownWithTimeout(server, shutdown, log, 30*time.Second)
}

// WaitForShutdownWithTimeout is WaitForShutdown with a custom grace period
func WaitForShutdownWithTimeout(server *http.Server, shutdown chan os.Signal, log logr.Logger, shutdownTimeout time.Duration) error {
	if shutdown == nil {
		shutdown = make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)
	}

	sig := <-shutdown
	log.Info("received signal, shutting down", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		if err := server.Close(); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	log.Info("server stopped")
	return nil
}
