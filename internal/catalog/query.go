package catalog

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Column names a products column that listings may filter or sort on.
type Column string

const (
	ColumnIsActive  Column = "is_active"
	ColumnIsSale    Column = "is_sale"
	ColumnIsNew     Column = "is_new"
	ColumnCreatedAt Column = "created_at"
	ColumnName      Column = "name"
	ColumnPrice     Column = "price"
)

var filterColumns = map[Column]func(*Product) bool{
	ColumnIsActive: func(p *Product) bool { return p.IsActive },
	ColumnIsSale:   func(p *Product) bool { return p.IsSale },
	ColumnIsNew:    func(p *Product) bool { return p.IsNew },
}

var sortColumns = map[Column]struct{}{
	ColumnCreatedAt: {},
	ColumnName:      {},
	ColumnPrice:     {},
}

// Predicate is an equality test on a boolean column.
type Predicate struct {
	Column Column
	Value  bool
}

// Sort orders results by a single column.
type Sort struct {
	Column     Column
	Descending bool
}

// ListQuery describes a product listing: the conjunction of Filters, an
// optional Sort, and an optional positive Limit (zero means unlimited).
type ListQuery struct {
	Filters []Predicate
	Sort    *Sort
	Limit   int
}

// FeaturedQuery lists active products for the home page.
func FeaturedQuery(limit int) ListQuery {
	return ListQuery{
		Filters: []Predicate{{Column: ColumnIsActive, Value: true}},
		Limit:   limit,
	}
}

// SaleQuery lists active products on sale, newest first.
func SaleQuery() ListQuery {
	return ListQuery{
		Filters: []Predicate{
			{Column: ColumnIsActive, Value: true},
			{Column: ColumnIsSale, Value: true},
		},
		Sort: &Sort{Column: ColumnCreatedAt, Descending: true},
	}
}

// Validate rejects columns outside the allowlists and negative limits.
func (q ListQuery) Validate() error {
	errs := validation.Errors{}
	for i, f := range q.Filters {
		if _, ok := filterColumns[f.Column]; !ok {
			errs[fmt.Sprintf("filters.%d", i)] = validation.NewError(
				"storefront.catalog.filter_column_invalid",
				fmt.Sprintf("column %q cannot be filtered", f.Column),
			)
		}
	}
	if q.Sort != nil {
		if _, ok := sortColumns[q.Sort.Column]; !ok {
			errs["sort"] = validation.NewError(
				"storefront.catalog.sort_column_invalid",
				fmt.Sprintf("column %q cannot be sorted", q.Sort.Column),
			)
		}
	}
	if err := validation.Validate(q.Limit, validation.Min(0)); err != nil {
		errs["limit"] = err
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Matches reports whether p satisfies every filter.
func (q ListQuery) Matches(p *Product) bool {
	if p == nil {
		return false
	}
	for _, f := range q.Filters {
		get, ok := filterColumns[f.Column]
		if !ok || get(p) != f.Value {
			return false
		}
	}
	return true
}

// String renders the query for log fields.
func (q ListQuery) String() string {
	var b strings.Builder
	for i, f := range q.Filters {
		if i > 0 {
			b.WriteString(" and ")
		}
		fmt.Fprintf(&b, "%s=%t", f.Column, f.Value)
	}
	if q.Sort != nil {
		dir := "asc"
		if q.Sort.Descending {
			dir = "desc"
		}
		fmt.Fprintf(&b, " order by %s %s", q.Sort.Column, dir)
	}
	if q.Limit > 0 {
		fmt.Fprintf(&b, " limit %d", q.Limit)
	}
	return strings.TrimSpace(b.String())
}
