package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/yyc-track/trackctl/internal/api"
	"github.com/yyc-track/trackctl/internal/config"
	"github.com/yyc-track/trackctl/internal/credstore"
	"github.com/yyc-track/trackctl/internal/session"
	"github.com/yyc-track/trackctl/internal/transit"
)

// App wires the client services a command needs: configuration, credential
// store, API client, and one session store per realm. Commands construct it,
// use it, and close it; nothing is ambient.
type App struct {
	Cfg     config.Config
	Creds   *credstore.Store
	API     *api.Client
	User    *session.Store
	Admin   *session.Store
	Catalog *transit.Catalog
}

// openApp builds the App from the root options. Callers must Close it.
func openApp(opts *RootOptions) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "loading configuration failed", err)
	}

	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	creds, err := credstore.Open(cfg.CredentialDB)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "opening credential store failed", err)
	}

	client := api.New(cfg.BaseURL, api.WithTimeout(cfg.HTTPTimeout), api.WithLogger(log))

	catalog, err := transit.LoadCatalog()
	if err != nil {
		creds.Close()
		return nil, WrapExitError(ExitCommandError, "loading station catalog failed", err)
	}

	return &App{
		Cfg:   cfg,
		Creds: creds,
		API:   client,
		User: session.New(session.Config{
			Realm:      "user",
			Slot:       session.UserTokenSlot,
			LoginRoute: session.UserLoginRoute,
			Resolver:   client.UserRealm(),
			Account:    client,
		}, creds, log),
		Admin: session.New(session.Config{
			Realm:      "admin",
			Slot:       session.AdminTokenSlot,
			LoginRoute: session.AdminLoginRoute,
			Resolver:   client.AdminRealm(),
		}, creds, log),
		Catalog: catalog,
	}, nil
}

// Close releases the App's resources.
func (a *App) Close() error {
	return a.Creds.Close()
}

// formatter builds the OutputFormatter for a command.
func formatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// requireAuth initializes the store and evaluates its gate. Only an
// authorized decision lets the protected command proceed; pending never
// exposes protected output, and unauthorized diverts to the realm's login
// route with a command-error exit code.
func requireAuth(ctx context.Context, store *session.Store) (session.Snapshot, error) {
	store.Initialize(ctx)

	snap := store.Snapshot()
	decision := session.Evaluate(snap, store.LoginRoute())
	switch decision.State {
	case session.StateAuthorized:
		return snap, nil
	case session.StateUnauthorized:
		return session.Snapshot{}, NewExitError(ExitCommandError,
			fmt.Sprintf("not signed in: sign in at %s (trackctl login)", decision.LoginRoute))
	default:
		return session.Snapshot{}, NewExitError(ExitCommandError, "session state is still resolving")
	}
}
