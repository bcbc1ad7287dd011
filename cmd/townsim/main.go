// Command townsim generates a town and runs its guards, traffic and
// pedestrians headlessly, journaling events and serving an observation API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/talgya/mini-town/internal/agents"
	"github.com/talgya/mini-town/internal/api"
	"github.com/talgya/mini-town/internal/config"
	"github.com/talgya/mini-town/internal/engine"
	"github.com/talgya/mini-town/internal/entropy"
	"github.com/talgya/mini-town/internal/ledger"
	"github.com/talgya/mini-town/internal/persistence"
	"github.com/talgya/mini-town/internal/world"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Seed ──────────────────────────────────────────────────────────
	seed := cfg.Seed
	if seed == 0 {
		seed = entropy.NewSource(cfg.RandomOrgKey).Seed(ctx)
		slog.Info("seed drawn", "seed", seed)
	}

	// ── Town (always regenerated; deterministic from size and seed) ──
	gen := world.DefaultGenConfig()
	gen.Width, gen.Height, gen.Seed = cfg.Width, cfg.Height, seed
	town, err := world.Generate(gen, rand.New(rand.NewSource(seed)))
	if err != nil {
		slog.Error("town generation failed", "error", err)
		os.Exit(1)
	}

	// ── Simulation ────────────────────────────────────────────────────
	led := ledger.New(float64(cfg.Infamy), cfg.Currency)
	sim := engine.NewSimulation(town, led, rand.New(rand.NewSource(seed+100)), engine.SimConfig{
		Seed:     seed,
		Location: cfg.Location,
		Bounty:   cfg.Bounty,
		Spawn: agents.SpawnConfig{
			Guards:      cfg.Guards,
			Enforcers:   cfg.Enforcers,
			Vehicles:    cfg.Vehicles,
			PoliceCars:  cfg.PoliceCars,
			Pedestrians: cfg.Pedestrians,
		},
	})

	eng := engine.NewEngine()
	eng.Interval = cfg.Frame
	eng.Speed = cfg.Speed
	eng.MaxFrames = cfg.Frames
	eng.OnFrame = sim.OnFrame

	// ── Journal ───────────────────────────────────────────────────────
	var db *persistence.DB
	var journal *persistence.Journal
	if cfg.JournalEnabled() {
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				slog.Error("failed to create database directory", "dir", dir, "error", err)
				os.Exit(1)
			}
		}
		db, err = persistence.Open(cfg.DBPath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		journal, err = persistence.NewJournal(db, persistence.NewRun(seed, cfg.Width, cfg.Height, cfg.Location))
		if err != nil {
			slog.Error("failed to start journal", "error", err)
			os.Exit(1)
		}
		sim.Subscribe(journal.Observe)
		if err := db.SaveMeta("last_run", journal.Run().ID); err != nil {
			slog.Warn("failed to record last run", "error", err)
		}
		slog.Info("journal opened", "path", cfg.DBPath, "run", journal.Run().ID)
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.APIPort > 0 {
		if cfg.AdminKey == "" {
			slog.Warn("TOWNSIM_ADMIN_KEY not set, admin POST endpoints will be disabled")
		}
		apiServer := &api.Server{
			Sim:        sim,
			Eng:        eng,
			DB:         db,
			Journal:    journal,
			Port:       cfg.APIPort,
			AdminKey:   cfg.AdminKey,
			EventsRate: cfg.EventsRate,
		}
		apiServer.Start()
	}

	// ── Start ─────────────────────────────────────────────────────────
	go func() {
		<-ctx.Done()
		slog.Info("received signal, shutting down")
		eng.Stop()
	}()

	fmt.Printf("\nTown is alive: %dx%d tiles, %d buildings, %d guards, %d vehicles, %d pedestrians.\n",
		cfg.Width, cfg.Height, len(town.Buildings), len(sim.Guards), len(sim.Vehicles), len(sim.Pedestrians))
	if cfg.APIPort > 0 {
		fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.APIPort)
	}
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run()

	if journal != nil {
		if err := journal.Flush(); err != nil {
			slog.Error("final journal flush failed", "error", err)
		}
	}

	snap := led.Snapshot()
	slog.Info("simulation finished",
		"frames", eng.Frame,
		"sim_time", engine.SimTime(eng.Frame, eng.Interval),
		"captures", sim.Stats.Captures,
		"collisions", sim.Stats.Collisions,
		"currency", humanize.Comma(int64(snap.Currency)),
		"heat", snap.Heat,
	)
	fmt.Println("Simulation stopped.")
}
