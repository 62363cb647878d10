package catalogcmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-storefront/internal/auth"
	"github.com/goliatone/go-storefront/internal/catalog"
	"github.com/goliatone/go-storefront/internal/pages"
	"github.com/goliatone/go-storefront/internal/validation"
)

// Fixture is the YAML seed document.
type Fixture struct {
	Categories []CategoryFixture `yaml:"categories"`
	Products   []ProductFixture  `yaml:"products"`
	Pages      []PageFixture     `yaml:"pages"`
	Profiles   []ProfileFixture  `yaml:"profiles"`
}

type CategoryFixture struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type ProductFixture struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	Description   *string  `yaml:"description"`
	Price         float64  `yaml:"price"`
	SalePrice     *float64 `yaml:"sale_price"`
	ImageURL      *string  `yaml:"image_url"`
	StockQuantity int      `yaml:"stock_quantity"`
	IsActive      *bool    `yaml:"is_active"`
	IsSale        bool     `yaml:"is_sale"`
	IsNew         bool     `yaml:"is_new"`
	Category      string   `yaml:"category"`
	CreatedAt     string   `yaml:"created_at"`
}

type PageFixture struct {
	ID        string `yaml:"id"`
	Slug      string `yaml:"slug"`
	Title     string `yaml:"title"`
	Content   string `yaml:"content"`
	Published *bool  `yaml:"published"`
}

type ProfileFixture struct {
	UserID   string  `yaml:"user_id"`
	FullName *string `yaml:"full_name"`
	Role     string  `yaml:"role"`
}

// Records is the set of rows a seed run inserts.
type Records struct {
	Categories []*catalog.Category
	Products   []*catalog.Product
	Pages      []*pages.Page
	Profiles   []*auth.ProfileRecord
}

// LoadFixture reads and schema-checks a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog seed: read fixture: %w", err)
	}

	var document any
	if err := yaml.Unmarshal(raw, &document); err != nil {
		return nil, fmt.Errorf("catalog seed: decode fixture: %w", err)
	}
	if err := validation.ValidateCatalogFixture(document); err != nil {
		return nil, fmt.Errorf("catalog seed: %s: %w", path, err)
	}

	fixture := &Fixture{}
	if err := yaml.Unmarshal(raw, fixture); err != nil {
		return nil, fmt.Errorf("catalog seed: decode fixture: %w", err)
	}
	return fixture, nil
}

// Records converts the fixture into rows. Products without created_at are
// stamped one second apart from base in fixture order.
func (f *Fixture) Records(base time.Time) (*Records, error) {
	out := &Records{}
	if f == nil {
		return out, nil
	}

	categoryIDs := make(map[string]uuid.UUID, len(f.Categories))
	for i, c := range f.Categories {
		id, err := parseOptionalID(c.ID)
		if err != nil {
			return nil, fmt.Errorf("catalog seed: categories[%d]: %w", i, err)
		}
		name := strings.TrimSpace(c.Name)
		categoryIDs[strings.ToLower(name)] = id
		out.Categories = append(out.Categories, &catalog.Category{ID: id, Name: name})
	}

	for i, p := range f.Products {
		id, err := parseOptionalID(p.ID)
		if err != nil {
			return nil, fmt.Errorf("catalog seed: products[%d]: %w", i, err)
		}
		product := &catalog.Product{
			ID:            id,
			Name:          strings.TrimSpace(p.Name),
			Description:   p.Description,
			Price:         p.Price,
			SalePrice:     p.SalePrice,
			ImageURL:      p.ImageURL,
			StockQuantity: p.StockQuantity,
			IsActive:      p.IsActive == nil || *p.IsActive,
			IsSale:        p.IsSale,
			IsNew:         p.IsNew,
			CreatedAt:     base.Add(time.Duration(i) * time.Second),
		}
		product.UpdatedAt = product.CreatedAt
		if raw := strings.TrimSpace(p.CreatedAt); raw != "" {
			created, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return nil, fmt.Errorf("catalog seed: products[%d]: created_at: %w", i, err)
			}
			product.CreatedAt = created.UTC()
			product.UpdatedAt = product.CreatedAt
		}
		if name := strings.TrimSpace(p.Category); name != "" {
			categoryID, ok := categoryIDs[strings.ToLower(name)]
			if !ok {
				return nil, fmt.Errorf("catalog seed: products[%d]: unknown category %q", i, name)
			}
			product.CategoryID = &categoryID
		}
		out.Products = append(out.Products, product)
	}

	for i, p := range f.Pages {
		id, err := parseOptionalID(p.ID)
		if err != nil {
			return nil, fmt.Errorf("catalog seed: pages[%d]: %w", i, err)
		}
		out.Pages = append(out.Pages, &pages.Page{
			ID:          id,
			Slug:        strings.TrimSpace(p.Slug),
			Title:       strings.TrimSpace(p.Title),
			Content:     p.Content,
			IsPublished: p.Published == nil || *p.Published,
		})
	}

	for i, p := range f.Profiles {
		id, err := uuid.Parse(strings.TrimSpace(p.UserID))
		if err != nil {
			return nil, fmt.Errorf("catalog seed: profiles[%d]: user_id: %w", i, err)
		}
		role := strings.TrimSpace(p.Role)
		if role == "" {
			role = "customer"
		}
		out.Profiles = append(out.Profiles, &auth.ProfileRecord{ID: id, FullName: p.FullName, Role: role})
	}
	return out, nil
}

type pageFrontMatter struct {
	Title     string `yaml:"title"`
	Slug      string `yaml:"slug"`
	Published *bool  `yaml:"published"`
}

// LoadPagesDir reads every *.txt file in dir as a content page. The body
// after the front matter is stored verbatim.
func LoadPagesDir(dir string) ([]*pages.Page, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("catalog seed: scan pages: %w", err)
	}
	sort.Strings(matches)

	out := make([]*pages.Page, 0, len(matches))
	for _, path := range matches {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("catalog seed: read page: %w", err)
		}
		var meta pageFrontMatter
		body, err := frontmatter.Parse(bytes.NewReader(raw), &meta)
		if err != nil {
			return nil, fmt.Errorf("catalog seed: %s: parse front matter: %w", filepath.Base(path), err)
		}

		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		pageSlug := strings.TrimSpace(meta.Slug)
		if pageSlug == "" {
			pageSlug = base
		}
		normalized, err := slug.Normalize(pageSlug)
		if err != nil || normalized == "" {
			return nil, fmt.Errorf("catalog seed: %s: invalid slug %q", filepath.Base(path), pageSlug)
		}
		title := strings.TrimSpace(meta.Title)
		if title == "" {
			title = base
		}

		out = append(out, &pages.Page{
			ID:          uuid.New(),
			Slug:        normalized,
			Title:       title,
			Content:     string(body),
			IsPublished: meta.Published == nil || *meta.Published,
		})
	}
	return out, nil
}

func parseOptionalID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.New(), nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("id: %w", err)
	}
	return id, nil
}
