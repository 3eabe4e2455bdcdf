package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/LerianStudio/accounts-filing-api/pkg/log"
	"github.com/LerianStudio/accounts-filing-api/pkg/opentelemetry"
	"github.com/gofiber/fiber/v2"
)

// ErrNoServerConfigured indicates WithHTTPServer was never called.
var ErrNoServerConfigured = errors.New("no server configured: use WithHTTPServer()")

// ServerManager starts the HTTP server and shuts down server, telemetry and
// logger in order when a signal arrives or startup fails.
type ServerManager struct {
	httpServer      *fiber.App
	telemetry       *opentelemetry.Telemetry
	closers         []func(context.Context) error
	logger          log.Logger
	httpAddress     string
	serversStarted  chan struct{}
	startedOnce     sync.Once
	shutdownChan    <-chan struct{}
	shutdownOnce    sync.Once
	shutdownTimeout time.Duration
	startupErrors   chan error
}

// NewServerManager creates a ServerManager. A nil logger is replaced by a no-op logger.
func NewServerManager(telemetry *opentelemetry.Telemetry, logger log.Logger) *ServerManager {
	if logger == nil {
		logger = log.NewNop()
	}

	return &ServerManager{
		telemetry:       telemetry,
		logger:          logger,
		serversStarted:  make(chan struct{}),
		shutdownTimeout: 30 * time.Second,
		startupErrors:   make(chan error, 1),
	}
}

// WithHTTPServer configures the HTTP server for the ServerManager.
func (sm *ServerManager) WithHTTPServer(app *fiber.App, address string) *ServerManager {
	sm.httpServer = app
	sm.httpAddress = address

	return sm
}

// WithShutdownChannel replaces OS signal handling with ch.
func (sm *ServerManager) WithShutdownChannel(ch <-chan struct{}) *ServerManager {
	sm.shutdownChan = ch

	return sm
}

// WithShutdownTimeout bounds the HTTP server drain. Defaults to 30 seconds.
func (sm *ServerManager) WithShutdownTimeout(d time.Duration) *ServerManager {
	sm.shutdownTimeout = d

	return sm
}

// WithCloser registers fn to run after the server stopped, in registration order.
func (sm *ServerManager) WithCloser(fn func(context.Context) error) *ServerManager {
	if fn != nil {
		sm.closers = append(sm.closers, fn)
	}

	return sm
}

// ServersStarted is closed once the server goroutine has been launched.
func (sm *ServerManager) ServersStarted() <-chan struct{} {
	return sm.serversStarted
}

// StartWithGracefulShutdownWithError starts the server and blocks until shutdown.
func (sm *ServerManager) StartWithGracefulShutdownWithError() error {
	if sm.httpServer == nil {
		return ErrNoServerConfigured
	}

	sm.startServer()
	sm.handleShutdown()

	return nil
}

func (sm *ServerManager) startServer() {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				sm.logErrorf("HTTP server panic: %v", r)

				select {
				case sm.startupErrors <- fmt.Errorf("HTTP server panic: %v", r):
				default:
				}
			}
		}()

		sm.logInfof("Starting HTTP server on %s", sm.httpAddress)

		if err := sm.httpServer.Listen(sm.httpAddress); err != nil {
			sm.logErrorf("HTTP server error: %v", err)

			select {
			case sm.startupErrors <- fmt.Errorf("HTTP server: %w", err):
			default:
			}
		}
	}()

	sm.startedOnce.Do(func() {
		close(sm.serversStarted)
	})
}

func (sm *ServerManager) handleShutdown() {
	if sm.shutdownChan != nil {
		select {
		case <-sm.shutdownChan:
		case err := <-sm.startupErrors:
			sm.logErrorf("Server startup failed: %v", err)
		}
	} else {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)

		select {
		case <-c:
			signal.Stop(c)
		case err := <-sm.startupErrors:
			sm.logErrorf("Server startup failed: %v", err)
		}
	}

	sm.logInfof("Gracefully shutting down...")

	sm.executeShutdown()
}

func (sm *ServerManager) executeShutdown() {
	sm.shutdownOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), sm.shutdownTimeout)
		defer cancel()

		if sm.httpServer != nil {
			sm.logInfof("Shutting down HTTP server...")

			if err := sm.httpServer.ShutdownWithContext(ctx); err != nil {
				sm.logErrorf("Error during HTTP server shutdown: %v", err)
			}
		}

		for _, closer := range sm.closers {
			if err := closer(ctx); err != nil {
				sm.logErrorf("Error closing resource: %v", err)
			}
		}

		if sm.telemetry != nil {
			sm.logInfof("Shutting down telemetry...")
			sm.telemetry.ShutdownTelemetry(ctx)
		}

		sm.logInfof("Graceful shutdown completed")

		if err := sm.logger.Sync(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "failed to sync logger: %v\n", err)
		}
	})
}

func (sm *ServerManager) logInfof(format string, args ...any) {
	sm.logger.Log(context.Background(), log.LevelInfo, fmt.Sprintf(format, args...))
}

func (sm *ServerManager) logErrorf(format string, args ...any) {
	sm.logger.Log(context.Background(), log.LevelError, fmt.Sprintf(format, args...))
}
