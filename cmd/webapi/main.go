/*
Webapi is the executable serving the social client's persistence layer over HTTP.

It opens (or creates) the local SQLite database, guarantees the schema exists
before any repository accepts work, registers the API handlers and starts the
web server. Prometheus counters are served on /metrics by the same server.

Usage:

	webapi [flags]

Flags, environment variables and the optional YAML configuration file are
handled by the code in `load-configuration.go`.

Return values (exit codes):

	0
		The program ended successfully (no errors, stopped by signal)

	> 0
		The program ended due to an error
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardanlabs/conf"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"instaai/pkg/generation"
	"instaai/pkg/images"
	"instaai/pkg/messages"
	"instaai/pkg/metrics"
	"instaai/pkg/rest"
	"instaai/pkg/sessions"
	"instaai/pkg/storage/sqlite"
	"instaai/pkg/users"
)

// main is the program entry point. The only purpose of this function is to
// call run() and set the exit code if there is any error.
func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error: ", err)
		os.Exit(1)
	}
}

// run executes the program:
// * reads the configuration
// * creates and configures the logger
// * initialises the database, an awaited barrier gating every repository
// * registers the API handlers
// * starts the web server and waits for a termination event
func run() error {

	// Load Configuration and defaults
	cfg, err := loadConfiguration()
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			return nil
		}
		return err
	}

	// Init logging
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	logger.Infof("application initializing")

	// initialise the database before registering handlers, for an immediate
	// exit in case of issues; nothing queries a table that doesn't exist yet
	storage, err := sqlite.New(logger, cfg.DB.Filename)
	if err != nil {
		logger.WithError(err).Error("error initialising storage")
		return fmt.Errorf("error while initialising storage: %w", err)
	}
	defer storage.Close()

	logger.Info("initializing API server")

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	engine, err := rest.New(rest.Config{
		Logger: logger,
	})
	if err != nil {
		logger.WithError(err).Error("error creating the API server instance")
		return fmt.Errorf("creating the API server instance: %w", err)
	}

	engine.Use(rest.RequestLogger(logger))

	// setup repositories around the single storage handle
	var usersRepository = users.NewRepository(storage.Connection)
	var imagesStore = images.NewStore(storage.Connection, usersRepository)
	var messagesRepository = messages.NewRepository(storage.Connection)
	var sessionStore = sessions.NewStore(storage.Connection)
	var generationClient = generation.NewClient(
		logger, cfg.Generation.Endpoint, cfg.Generation.Token, cfg.Generation.Timeout)
	var counters = metrics.New()

	users.RegisterHandlers(engine, usersRepository, sessionStore, counters)
	images.RegisterHandlers(engine, imagesStore, usersRepository, counters)
	messages.RegisterHandlers(engine, messagesRepository, usersRepository, counters)
	generation.RegisterHandlers(engine, generationClient, imagesStore, usersRepository, counters)

	engine.Get("/metrics", counters.Handler().ServeHTTP)

	// Apply CORS policy
	handler := applyCORSHandler(engine.Handler())

	// create the API server
	server := http.Server{
		Addr:              cfg.Web.APIHost,
		Handler:           handler,
		ReadTimeout:       cfg.Web.ReadTimeout,
		ReadHeaderTimeout: cfg.Web.ReadTimeout,
		WriteTimeout:      cfg.Web.WriteTimeout,
	}

	// Start the service listening for requests in a separate goroutine
	go func() {
		logger.Infof("API listening on %s", server.Addr)
		serverErrors <- server.ListenAndServe()
		logger.Infof("stopping API server")
	}()

	// Waiting for shutdown signal or POSIX signals
	select {
	case err := <-serverErrors:
		// Non-recoverable server error
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Infof("signal %v received, start shutdown", sig)

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		// Asking listener to shut down and load shed.
		err = server.Shutdown(ctx)
		if err != nil {
			logger.WithError(err).Warning("error during graceful shutdown of HTTP server")
			err = server.Close()
		}

		if err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}
