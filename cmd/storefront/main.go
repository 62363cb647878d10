// storefront serves the shop front from a SQL DataStore.
//
// Usage:
//
//	storefront [serve] [--config file] [--addr :8080] [--migrate]
//	storefront migrate [--config file] [--dsn dsn]
//	storefront seed --fixture catalog.yaml [--pages-dir pages] [--reset]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/spf13/pflag"
	"github.com/uptrace/bun"
	"golang.org/x/sync/errgroup"

	storefront "github.com/goliatone/go-storefront"
	"github.com/goliatone/go-storefront/internal/commands"
	catalogcmd "github.com/goliatone/go-storefront/internal/commands/catalog"
	"github.com/goliatone/go-storefront/internal/di"
	"github.com/goliatone/go-storefront/internal/logging"
	"github.com/goliatone/go-storefront/internal/storage"
	"github.com/goliatone/go-storefront/pkg/interfaces"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatalf("storefront: %v", err)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	command := "serve"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command, args = args[0], args[1:]
	}
	switch command {
	case "serve":
		return runServe(ctx, args, out)
	case "migrate":
		return runMigrate(ctx, args, out)
	case "seed":
		return runSeed(ctx, args, out)
	default:
		return fmt.Errorf("unknown command %q (want serve, migrate or seed)", command)
	}
}

// configFlags are shared by every subcommand.
type configFlags struct {
	path   string
	driver string
	dsn    string
}

func (c *configFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&c.path, "config", "c", "", "YAML config file overlaid on the defaults")
	fs.StringVar(&c.driver, "driver", "", "storage driver override (sqlite3 or postgres)")
	fs.StringVar(&c.dsn, "dsn", "", "storage DSN override")
}

func (c *configFlags) load() (storefront.Config, error) {
	cfg, err := storefront.LoadConfig(c.path)
	if err != nil {
		return storefront.Config{}, err
	}
	if driver := strings.TrimSpace(c.driver); driver != "" {
		cfg.Storage.Driver = driver
	}
	if dsn := strings.TrimSpace(c.dsn); dsn != "" {
		cfg.Storage.DSN = dsn
	}
	if err := cfg.Validate(); err != nil {
		return storefront.Config{}, err
	}
	return cfg, nil
}

func runServe(ctx context.Context, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("storefront serve", pflag.ContinueOnError)
	var flags configFlags
	flags.register(fs)
	addr := fs.String("addr", "", "listen address (defaults to server.addr)")
	migrateFirst := fs.Bool("migrate", false, "apply pending migrations before serving")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := flags.load()
	if err != nil {
		return err
	}
	if strings.TrimSpace(*addr) != "" {
		cfg.Server.Addr = strings.TrimSpace(*addr)
	}

	module, err := storefront.New(cfg)
	if err != nil {
		return fmt.Errorf("build module: %w", err)
	}
	defer module.Close()

	logger := logging.ModuleLogger(module.Container().LoggerProvider(), "")
	if *migrateFirst {
		if err := migrate(ctx, module.Container().DB(), out); err != nil {
			return err
		}
	}

	listener, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Server.Addr, err)
	}
	server := &http.Server{
		Handler:           module.Handler(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("server.listening", "addr", listener.Addr().String())
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg))
		defer cancel()
		logger.Info("server.shutdown")
		return server.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

func shutdownTimeout(cfg storefront.Config) time.Duration {
	if cfg.Server.ShutdownTimeout > 0 {
		return cfg.Server.ShutdownTimeout
	}
	return 10 * time.Second
}

func runMigrate(ctx context.Context, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("storefront migrate", pflag.ContinueOnError)
	var flags configFlags
	flags.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, _, err := openStorage(ctx, flags)
	if err != nil {
		return err
	}
	defer db.Close()
	return migrate(ctx, db, out)
}

func runSeed(ctx context.Context, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("storefront seed", pflag.ContinueOnError)
	var flags configFlags
	flags.register(fs)
	fixture := fs.String("fixture", "", "YAML catalog fixture")
	pagesDir := fs.String("pages-dir", "", "directory of *.txt content pages")
	reset := fs.Bool("reset", false, "delete existing catalog, page and profile rows first")
	migrateFirst := fs.Bool("migrate", false, "apply pending migrations before seeding")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, provider, err := openStorage(ctx, flags)
	if err != nil {
		return err
	}
	defer db.Close()

	if *migrateFirst {
		if err := migrate(ctx, db, out); err != nil {
			return err
		}
	}

	handler := catalogcmd.NewSeedCatalogHandler(db, commands.CommandLogger(provider, "catalog"))
	sub := dispatcher.SubscribeCommand(handler)
	defer sub.Unsubscribe()

	msg := catalogcmd.SeedCatalogCommand{
		FixturePath: *fixture,
		PagesDir:    *pagesDir,
		Reset:       *reset,
	}
	if err := dispatcher.Dispatch(ctx, msg); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	fmt.Fprintln(out, "catalog seeded")
	return nil
}

func openStorage(ctx context.Context, flags configFlags) (*bun.DB, interfaces.LoggerProvider, error) {
	cfg, err := flags.load()
	if err != nil {
		return nil, nil, err
	}
	provider, err := di.NewLoggerProvider(cfg)
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, storage.Config{
		Driver: cfg.Storage.Driver,
		DSN:    cfg.Storage.DSN,
		Debug:  cfg.Storage.Debug,
		Logger: logging.ModuleLogger(provider, "storefront.storage"),
	})
	if err != nil {
		return nil, nil, err
	}
	return db, provider, nil
}

func migrate(ctx context.Context, db *bun.DB, out io.Writer) error {
	applied, err := storage.Migrate(ctx, db, storefront.GetMigrationsFS())
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if len(applied) == 0 {
		fmt.Fprintln(out, "no pending migrations")
		return nil
	}
	fmt.Fprintf(out, "applied %d migrations: %s\n", len(applied), strings.Join(applied, ", "))
	return nil
}
