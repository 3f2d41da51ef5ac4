// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/handlers"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/registry"
	"github.com/danielhkuo/quickly-elect/router"
)

func main() {
	setupLogging()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect and verify
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	store := db.NewStore(dbConn)
	reg, engine, err := loadState(context.Background(), store, cfg)
	if err != nil {
		slog.Error("failed to load state", "error", err)
		os.Exit(1)
	}

	svc := &handlers.Service{
		Engine:   engine,
		Registry: reg,
		Store:    store,
		Config:   cfg,
	}
	mux := router.NewRouter(svc)

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal, then let in-flight requests finish their writes
		<-ctrlc
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

// setupLogging logs text to a terminal and JSON everywhere else
func setupLogging() {
	var handler slog.Handler
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		handler = slog.NewTextHandler(os.Stderr, nil)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	}
	slog.SetDefault(slog.New(handler))
}

// loadState restores the registry and the engine from the store. On a fresh
// database the registry is seeded with the configured administrator, minting
// one when ADMIN_ACCOUNT_ID is empty.
func loadState(ctx context.Context, store *db.Store, cfg cliparse.Config) (*registry.Registry, *election.Engine, error) {
	accounts, found, err := store.LoadAccounts(ctx)
	if err != nil {
		return nil, nil, err
	}

	var reg *registry.Registry
	if found {
		reg = registry.New(accounts.Admin, "", "")
		reg.Restore(accounts)
		if cfg.AdminAccountID != "" && election.Identity(cfg.AdminAccountID) != accounts.Admin {
			slog.Warn("ADMIN_ACCOUNT_ID ignored, the stored administrator is kept",
				"configured", cfg.AdminAccountID,
				"stored", accounts.Admin,
			)
		}
		slog.Info("registry restored",
			"admin", accounts.Admin,
			"approved", len(accounts.Approved),
			"pending", len(accounts.Pending),
		)
	} else {
		adminID := cfg.AdminAccountID
		if adminID == "" {
			id, key, err := auth.MintAccount(cfg.AccountKeySalt)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to mint administrator account: %w", err)
			}
			adminID = id
			// Shown once; the key is never stored
			slog.Warn("minted administrator account", "account_id", id, "account_key", key)
		}
		reg = registry.New(election.Identity(adminID), cfg.AdminName, cfg.AdminExternalID)
		if _, err := store.SaveAccounts(ctx, reg.Snapshot()); err != nil {
			return nil, nil, err
		}
		slog.Info("registry seeded", "admin", adminID)
	}

	engine := election.NewEngine(reg)
	snap, found, err := store.LoadElections(ctx)
	if err != nil {
		return nil, nil, err
	}
	if found {
		engine.Restore(snap)
		slog.Info("elections restored",
			"live", len(snap.Live),
			"finalized", len(snap.Finalized),
			"next_id", snap.NextID,
		)
	}
	return reg, engine, nil
}
