package catalogcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const seedCatalogMessageType = "storefront.catalog.seed"

// SeedCatalogCommand loads development data into the DataStore.
type SeedCatalogCommand struct {
	// FixturePath points at a YAML fixture with categories, products, pages and profiles.
	FixturePath string `json:"fixture_path,omitempty"`
	// PagesDir holds *.txt content pages with optional YAML front matter.
	PagesDir string `json:"pages_dir,omitempty"`
	// Reset deletes existing catalog, page and profile rows before inserting.
	Reset bool `json:"reset,omitempty"`
}

// Type implements command.Message.
func (SeedCatalogCommand) Type() string { return seedCatalogMessageType }

// Validate requires at least one source.
func (cmd SeedCatalogCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.FixturePath, validation.By(func(any) error {
			if strings.TrimSpace(cmd.FixturePath) == "" && strings.TrimSpace(cmd.PagesDir) == "" {
				return validation.NewError("storefront.catalog.seed.source_required", "fixture path or pages directory is required")
			}
			return nil
		})),
	)
}
