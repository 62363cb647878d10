package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Category groups products for display. Only the name is shown on cards.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:cat"`

	ID   uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Name string    `bun:"name,notnull" json:"name"`
}

// Product is a catalog row as stored in the products table.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID            uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Name          string     `bun:"name,notnull" json:"name"`
	Description   *string    `bun:"description" json:"description,omitempty"`
	Price         float64    `bun:"price,notnull" json:"price"`
	SalePrice     *float64   `bun:"sale_price" json:"sale_price,omitempty"`
	ImageURL      *string    `bun:"image_url" json:"image_url,omitempty"`
	StockQuantity int        `bun:"stock_quantity,notnull" json:"stock_quantity"`
	IsActive      bool       `bun:"is_active,notnull" json:"is_active"`
	IsSale        bool       `bun:"is_sale,notnull" json:"is_sale"`
	IsNew         bool       `bun:"is_new,notnull" json:"is_new"`
	CategoryID    *uuid.UUID `bun:"category_id,type:uuid" json:"category_id,omitempty"`
	CreatedAt     time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
	Category      *Category  `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`
}

// CategoryName reports the resolved category name. A joined category without
// a name counts as unresolved.
func (p *Product) CategoryName() (string, bool) {
	if p == nil || p.Category == nil {
		return "", false
	}
	name := strings.TrimSpace(p.Category.Name)
	if name == "" {
		return "", false
	}
	return p.Category.Name, true
}

// Sale returns the discounted price when one is set.
func (p *Product) Sale() (float64, bool) {
	if p == nil || p.SalePrice == nil {
		return 0, false
	}
	return *p.SalePrice, true
}

// Image returns the product image when one is set and non-blank.
func (p *Product) Image() (string, bool) {
	if p == nil || p.ImageURL == nil || strings.TrimSpace(*p.ImageURL) == "" {
		return "", false
	}
	return *p.ImageURL, true
}

// Summary returns the description when one is set and non-blank.
func (p *Product) Summary() (string, bool) {
	if p == nil || p.Description == nil || strings.TrimSpace(*p.Description) == "" {
		return "", false
	}
	return *p.Description, true
}

func (p *Product) InStock() bool {
	return p != nil && p.StockQuantity > 0
}

func cloneProduct(p *Product) *Product {
	if p == nil {
		return nil
	}
	cloned := *p
	if p.Description != nil {
		v := *p.Description
		cloned.Description = &v
	}
	if p.SalePrice != nil {
		v := *p.SalePrice
		cloned.SalePrice = &v
	}
	if p.ImageURL != nil {
		v := *p.ImageURL
		cloned.ImageURL = &v
	}
	if p.CategoryID != nil {
		v := *p.CategoryID
		cloned.CategoryID = &v
	}
	if p.Category != nil {
		c := *p.Category
		cloned.Category = &c
	}
	return &cloned
}
