package catalog

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryProductRepository keeps products in insertion order for tests and embedding.
type MemoryProductRepository struct {
	mu         sync.RWMutex
	products   []*Product
	categories map[uuid.UUID]*Category
	err        error
}

// NewMemoryProductRepository constructs the repository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		categories: make(map[uuid.UUID]*Category),
	}
}

// PutCategory stores or replaces a category.
func (m *MemoryProductRepository) PutCategory(category *Category) {
	if category == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *category
	m.categories[c.ID] = &c
}

// Add appends products. Missing ids are generated.
func (m *MemoryProductRepository) Add(products ...*Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range products {
		if p == nil {
			continue
		}
		cloned := cloneProduct(p)
		if cloned.ID == uuid.Nil {
			cloned.ID = uuid.New()
		}
		cloned.Category = nil
		m.products = append(m.products, cloned)
	}
}

// FailWith makes every subsequent List return err. Pass nil to recover.
func (m *MemoryProductRepository) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MemoryProductRepository) List(ctx context.Context, query ListQuery) ([]*Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}

	out := make([]*Product, 0, len(m.products))
	for _, p := range m.products {
		if !query.Matches(p) {
			continue
		}
		cloned := cloneProduct(p)
		if p.CategoryID != nil {
			if c, ok := m.categories[*p.CategoryID]; ok {
				category := *c
				cloned.Category = &category
			}
		}
		out = append(out, cloned)
	}

	if s := query.Sort; s != nil {
		slices.SortStableFunc(out, func(a, b *Product) int {
			order := compareColumn(a, b, s.Column)
			if s.Descending {
				return -order
			}
			return order
		})
	}
	if query.Limit > 0 && len(out) > query.Limit {
		out = out[:query.Limit]
	}
	return out, nil
}

func compareColumn(a, b *Product, column Column) int {
	switch column {
	case ColumnCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case ColumnName:
		return strings.Compare(a.Name, b.Name)
	case ColumnPrice:
		return cmp.Compare(a.Price, b.Price)
	default:
		return 0
	}
}
