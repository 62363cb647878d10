package catalogcmd

import (
	"context"
	"errors"
	"strings"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-storefront/internal/auth"
	"github.com/goliatone/go-storefront/internal/catalog"
	"github.com/goliatone/go-storefront/internal/commands"
	"github.com/goliatone/go-storefront/internal/logging"
	"github.com/goliatone/go-storefront/internal/pages"
	"github.com/goliatone/go-storefront/pkg/interfaces"
)

const seedOperation = "catalog.seed"

var ErrDatabaseRequired = errors.New("catalog seed: database not configured")

var _ command.Commander[SeedCatalogCommand] = (*SeedCatalogHandler)(nil)

// SeedCatalogHandler inserts fixture rows in a single transaction.
type SeedCatalogHandler struct {
	inner *commands.Handler[SeedCatalogCommand]
	db    *bun.DB
	now   func() time.Time
}

// NewSeedCatalogHandler binds the seed command to db.
func NewSeedCatalogHandler(db *bun.DB, logger interfaces.Logger, opts ...commands.HandlerOption[SeedCatalogCommand]) *SeedCatalogHandler {
	if logger == nil {
		logger = logging.NoOp()
	}
	h := &SeedCatalogHandler{db: db, now: time.Now}

	exec := func(ctx context.Context, msg SeedCatalogCommand) error {
		if h.db == nil {
			return ErrDatabaseRequired
		}
		records, err := h.collect(msg)
		if err != nil {
			return err
		}
		if err := h.insert(ctx, records, msg.Reset); err != nil {
			return err
		}
		logging.WithFields(logger, map[string]any{
			"categories": len(records.Categories),
			"products":   len(records.Products),
			"pages":      len(records.Pages),
			"profiles":   len(records.Profiles),
			"reset":      msg.Reset,
		}).Info("catalog.seed.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[SeedCatalogCommand]{
		commands.WithLogger[SeedCatalogCommand](logger),
		commands.WithOperation[SeedCatalogCommand](seedOperation),
	}
	handlerOpts = append(handlerOpts, opts...)
	h.inner = commands.NewHandler(exec, handlerOpts...)
	return h
}

// Execute satisfies command.Commander[SeedCatalogCommand].
func (h *SeedCatalogHandler) Execute(ctx context.Context, msg SeedCatalogCommand) error {
	return h.inner.Execute(ctx, msg)
}

func (h *SeedCatalogHandler) collect(msg SeedCatalogCommand) (*Records, error) {
	records := &Records{}
	if path := strings.TrimSpace(msg.FixturePath); path != "" {
		fixture, err := LoadFixture(path)
		if err != nil {
			return nil, err
		}
		records, err = fixture.Records(h.now().UTC())
		if err != nil {
			return nil, err
		}
	}
	if dir := strings.TrimSpace(msg.PagesDir); dir != "" {
		imported, err := LoadPagesDir(dir)
		if err != nil {
			return nil, err
		}
		records.Pages = append(records.Pages, imported...)
	}
	return records, nil
}

func (h *SeedCatalogHandler) insert(ctx context.Context, records *Records, reset bool) error {
	return h.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if reset {
			for _, model := range []any{
				(*catalog.Product)(nil),
				(*catalog.Category)(nil),
				(*pages.Page)(nil),
				(*auth.ProfileRecord)(nil),
			} {
				if _, err := tx.NewDelete().Model(model).Where("1 = 1").Exec(ctx); err != nil {
					return err
				}
			}
		}
		if len(records.Categories) > 0 {
			if _, err := tx.NewInsert().Model(&records.Categories).Exec(ctx); err != nil {
				return err
			}
		}
		if len(records.Products) > 0 {
			if _, err := tx.NewInsert().Model(&records.Products).Exec(ctx); err != nil {
				return err
			}
		}
		if len(records.Pages) > 0 {
			if _, err := tx.NewInsert().Model(&records.Pages).Exec(ctx); err != nil {
				return err
			}
		}
		if len(records.Profiles) > 0 {
			if _, err := tx.NewInsert().Model(&records.Profiles).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}
