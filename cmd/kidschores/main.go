package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ccpk1/kidschores-ha-sub014/internal/badges"
	"github.com/ccpk1/kidschores-ha-sub014/internal/config"
	"github.com/ccpk1/kidschores-ha-sub014/internal/database"
	"github.com/ccpk1/kidschores-ha-sub014/internal/eventbus"
	"github.com/ccpk1/kidschores-ha-sub014/internal/handler"
	"github.com/ccpk1/kidschores-ha-sub014/internal/logger"
	"github.com/ccpk1/kidschores-ha-sub014/internal/notification"
	"github.com/ccpk1/kidschores-ha-sub014/internal/points"
	"github.com/ccpk1/kidschores-ha-sub014/internal/seed"
	"github.com/ccpk1/kidschores-ha-sub014/internal/service"
	"github.com/ccpk1/kidschores-ha-sub014/internal/store"
)

func main() {
	app := &cli.App{
		Name:  "kidschores",
		Usage: "Household chore tracker with schedules, approvals and points",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:     "database-url",
				Aliases:  []string{"d"},
				Usage:    "PostgreSQL database URL",
				EnvVars:  []string{"DATABASE_URL"},
				Required: true,
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the web server and lifecycle sweep",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   config.DefaultPort,
						Usage:   "HTTP server port",
						EnvVars: []string{"PORT"},
					},
				},
				Action: runServe,
			},
			{
				Name:   "sweep",
				Usage:  "Apply pending boundary resets and overdue transitions once, then exit",
				Action: runSweep,
			},
			{
				Name:      "import",
				Usage:     "Import assignees and chores from a YAML seed file",
				ArgsUsage: "<seed.yaml>",
				Action:    runImport,
			},
		},
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// buildEngine wires the full engine: store, event bus, badges, points ledger
// and orchestrator, loaded from the database.
type engineParts struct {
	db     *database.DB
	orch   *service.Orchestrator
	bus    *eventbus.Bus
	badges *badges.Engine
}

func buildEngine(ctx context.Context, c *cli.Context, cfg *config.Config) (*engineParts, func(), error) {
	db, err := database.New(ctx, c.String("database-url"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	st := store.NewPostgres(db.Pool())
	bus := eventbus.New()
	engine := badges.New(bus)
	ledger := points.New(st, engine)
	orch := service.New(st, bus, ledger, loc)

	if err := orch.Load(ctx); err != nil {
		engine.Close()
		db.Close()
		return nil, nil, err
	}

	cleanup := func() {
		engine.Close()
		db.Close()
	}
	return &engineParts{db: db, orch: orch, bus: bus, badges: engine}, cleanup, nil
}

func runServe(c *cli.Context) error {
	ctx := c.Context

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	port := c.String("port")
	if port == "" {
		port = cfg.Port
	}

	parts, cleanup, err := buildEngine(ctx, c, cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	orch := parts.orch

	dispatcher := notification.NewDispatcher(parts.bus, orch, nil)
	dispatcher.Run()
	defer dispatcher.Close()

	h := handler.New(store.NewPostgres(parts.db.Pool()), orch, parts.badges)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Periodic lifecycle sweep.
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go func() {
		ticker := time.NewTicker(cfg.TickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				orch.Tick(sweepCtx)
			}
		}
	}()

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "server_addr", "http://localhost:"+port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func runSweep(c *cli.Context) error {
	ctx := c.Context

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	parts, cleanup, err := buildEngine(ctx, c, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	count := parts.orch.Tick(ctx)
	slog.Info("sweep completed", "events", count)
	return nil
}

func runImport(c *cli.Context) error {
	ctx := c.Context

	if c.NArg() != 1 {
		return fmt.Errorf("usage: import <seed.yaml>")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	parts, cleanup, err := buildEngine(ctx, c, cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	orch := parts.orch

	file, err := seed.Read(c.Args().First())
	if err != nil {
		return err
	}

	for _, entry := range file.Assignees {
		if err := orch.AddAssignee(ctx, entry.ToAssignee()); err != nil {
			return fmt.Errorf("import assignee %q: %w", entry.Name, err)
		}
	}
	for _, entry := range file.Chores {
		if err := orch.CreateChore(ctx, entry.ToChore()); err != nil {
			return fmt.Errorf("import chore %q: %w", entry.Title, err)
		}
	}

	slog.Info("seed imported",
		"assignees", len(file.Assignees),
		"chores", len(file.Chores),
	)
	return nil
}
