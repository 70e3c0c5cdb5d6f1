package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/voteboard/bus"
	"github.com/danielhkuo/voteboard/cliparse"
	"github.com/danielhkuo/voteboard/identity"
	"github.com/danielhkuo/voteboard/leaderboard"
	"github.com/danielhkuo/voteboard/middleware"
	"github.com/danielhkuo/voteboard/models"
	"github.com/danielhkuo/voteboard/outbox"
	"github.com/danielhkuo/voteboard/projects"
	"github.com/danielhkuo/voteboard/remote"
	"github.com/danielhkuo/voteboard/router"
	"github.com/danielhkuo/voteboard/store"
	"github.com/danielhkuo/voteboard/submission"
)

func main() {
	// .env is optional; real deployments use the environment directly
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	logger := slog.Default()

	// Open the durable local store
	st, err := store.Open(cfg.DataPath)
	if err != nil {
		slog.Error("store open failed", "error", err)
		os.Exit(1)
	}
	defer st.Close()
	slog.Info("Local store ready", "path", cfg.DataPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Wire the core
	signals := bus.New(logger)
	defer signals.Close()

	voter := identity.NewStaticProvider(cfg.VoterID, cfg.SessionToken)
	client := remote.NewClient(cfg.HomeserverURL, cfg.BallotsRoot, voter, logger)

	drafts := projects.NewDrafts(st, logger)
	if cfg.ProjectsFile != "" {
		if err := seedCatalogue(drafts, cfg.ProjectsFile); err != nil {
			slog.Error("catalogue seeding failed", "file", cfg.ProjectsFile, "error", err)
			os.Exit(1)
		}
	}

	queue := outbox.NewQueue(st, signals, func(b models.Ballot) string {
		return client.BallotPath(b.VoterID)
	}, logger)
	if err := queue.RegisterSender(ctx, client.SendBallot); err != nil {
		slog.Error("sender registration failed", "error", err)
		os.Exit(1)
	}

	engine := leaderboard.NewEngine(client, drafts, queue.Len, leaderboard.DefaultWeights(), logger)
	refresher := leaderboard.NewRefresher(engine, signals, time.Duration(cfg.PollInterval)*time.Second, logger)
	go func() {
		if err := refresher.Run(ctx); err != nil && err != context.Canceled {
			slog.Error("refresh loop stopped", "error", err)
		}
	}()

	orchestrator := submission.NewOrchestrator(drafts, queue, signals, st, voter, logger)

	// Create router
	mux := router.NewRouter(router.Deps{
		Drafts:       drafts,
		Refresher:    refresher,
		Orchestrator: orchestrator,
		Queue:        queue,
		Signals:      signals,
	})

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		cancel()
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "homeserver", cfg.HomeserverURL)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

// seedCatalogue loads the project catalogue seed file into the draft.
func seedCatalogue(drafts *projects.Drafts, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var catalogue []models.Project
	if err := json.Unmarshal(data, &catalogue); err != nil {
		return err
	}

	return drafts.Seed(catalogue)
}
