package views

import (
	"fmt"

	"github.com/goliatone/go-storefront/internal/catalog"
)

const (
	DefaultPlaceholder    = "/placeholder.svg"
	NoDescriptionFallback = "No description available"
	labelAddToCart        = "Add to Cart"
	labelOutOfStock       = "Out of Stock"
)

// FormatPrice renders an amount with a dollar sign and two decimals.
func FormatPrice(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// PriceBlock is the price area of a card. Original is only set when the
// product carries a sale price and is shown struck through.
type PriceBlock struct {
	Current    string
	Original   string
	Discounted bool
}

// ProductCard is the display model for one product.
type ProductCard struct {
	ID          string
	Name        string
	ImageURL    string
	Placeholder bool
	Description string
	Price       PriceBlock
	New         bool
	Sale        bool
	Category    string
	HasCategory bool
	Stock       int
	ShowStock   bool
	CartLabel   string
	CartEnabled bool
	// CartAction is the form target for the add-to-cart control. Empty means
	// the control renders without submitting anywhere.
	CartAction string
}

// CardOptions carries the page-level choices that affect a card.
type CardOptions struct {
	ShowSaleBadge bool
	ShowStock     bool
	CartEnabled   bool
	CartAction    string
	Placeholder   string
	// EmptyDescription replaces a missing description. Leave blank to render nothing.
	EmptyDescription string
}

// BuildProductCard applies the card rules to p.
func BuildProductCard(p *catalog.Product, opts CardOptions) ProductCard {
	if p == nil {
		return ProductCard{}
	}

	card := ProductCard{
		ID:        p.ID.String(),
		Name:      p.Name,
		New:       p.IsNew,
		Sale:      opts.ShowSaleBadge && p.IsSale,
		Stock:     p.StockQuantity,
		ShowStock: opts.ShowStock,
	}

	if img, ok := p.Image(); ok {
		card.ImageURL = img
	} else {
		card.ImageURL = opts.Placeholder
		if card.ImageURL == "" {
			card.ImageURL = DefaultPlaceholder
		}
		card.Placeholder = true
	}

	if summary, ok := p.Summary(); ok {
		card.Description = summary
	} else {
		card.Description = opts.EmptyDescription
	}

	if sale, ok := p.Sale(); ok {
		card.Price = PriceBlock{
			Current:    FormatPrice(sale),
			Original:   FormatPrice(p.Price),
			Discounted: true,
		}
	} else {
		card.Price = PriceBlock{Current: FormatPrice(p.Price)}
	}

	if name, ok := p.CategoryName(); ok {
		card.Category = name
		card.HasCategory = true
	}

	if p.InStock() {
		card.CartLabel = labelAddToCart
		card.CartEnabled = true
		if opts.CartEnabled {
			card.CartAction = opts.CartAction
		}
	} else {
		card.CartLabel = labelOutOfStock
	}
	return card
}
