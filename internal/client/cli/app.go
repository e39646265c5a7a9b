// Package cli is the interactive Pocket Pricer client: a small REPL over
// the session reconciler, the entitlement adapter, and the local
// history/favorites store.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/Bridge56751/Pocket-Pricer-replit-sub000/internal/client/api"
	"github.com/Bridge56751/Pocket-Pricer-replit-sub000/internal/client/config"
	"github.com/Bridge56751/Pocket-Pricer-replit-sub000/internal/client/entitlement"
	"github.com/Bridge56751/Pocket-Pricer-replit-sub000/internal/client/history"
	"github.com/Bridge56751/Pocket-Pricer-replit-sub000/internal/client/session"
	"github.com/Bridge56751/Pocket-Pricer-replit-sub000/internal/client/store"
	"github.com/Bridge56751/Pocket-Pricer-replit-sub000/internal/logging"
)

type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	store   *store.Store
	api     api.Client
	session *session.Manager
	ent     *entitlement.Client
	history history.Repository
	reader  *bufio.Reader
}

// NewApp wires the client: local database, backend API client, entitlement
// adapter (degraded no-op mode when no provider key is configured), and the
// session reconciler, then restores any stored session.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := store.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	st := store.New(store.NewSQLiteRepository(db), log)
	apiClient := api.NewHTTPClient(cfg.APIBaseURL, cfg.HTTPTimeout)

	var sdk entitlement.SDK
	if cfg.EntitlementAPIKey == "" {
		sdk = entitlement.NewNoopSDK()
	} else {
		// Anchor the anonymous provider identity to the device identity,
		// provisioning the latter on first run.
		anonID := "anon_" + session.EnsureDeviceID(ctx, st)
		sdk = entitlement.NewRESTSDK(cfg.EntitlementBaseURL, cfg.EntitlementAPIKey, anonID, cfg.HTTPTimeout)
	}

	ent := entitlement.NewClient(sdk, cfg.ProEntitlements, cfg.OfferingsRetryDelay, log)
	if err := ent.Init(ctx); err != nil {
		// Degraded entitlement state is fine; the safe default is non-pro.
		log.Warn(ctx, "entitlement provider unavailable", "error", err)
	}

	mgr := session.NewManager(st, apiClient, ent, cfg.DeviceName, log)
	if err := mgr.Bootstrap(ctx); err != nil {
		log.Warn(ctx, "session restore failed, starting unauthenticated", "error", err)
	}

	return &App{
		config:  cfg,
		log:     log,
		db:      db,
		store:   st,
		api:     apiClient,
		session: mgr,
		ent:     ent,
		history: history.NewSQLiteRepository(db),
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

// HandleLaunchURL forwards a cold-start deep link to the reconciler.
func (a *App) HandleLaunchURL(ctx context.Context, url string) {
	if err := a.session.HandleURL(ctx, url); err != nil {
		a.log.Warn(ctx, "deep link handling failed", "url", url, "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Session().IsAuthenticated()
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.acceptLegalIfNeeded(ctx)
	if !a.store.OnboardingComplete(ctx) {
		fmt.Println("First launch: scan prices with 'price', track deals with 'fav', go pro with 'packages'.")
		a.store.SetOnboardingComplete(ctx)
	}
	a.Root(ctx)
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// acceptLegalIfNeeded records first-run acceptance of the terms. The flag
// persists across logouts.
func (a *App) acceptLegalIfNeeded(ctx context.Context) {
	if a.store.LegalAccepted(ctx) {
		return
	}
	answer, err := getSimpleText(a.reader, "Accept terms of service? (yes/no)", os.Stdout)
	if err != nil {
		return
	}
	if answer == "yes" || answer == "y" {
		a.store.SetLegalAccepted(ctx)
	}
}
