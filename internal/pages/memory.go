package pages

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryPageRepository is an in-memory page store for tests and embedding.
type MemoryPageRepository struct {
	mu     sync.RWMutex
	bySlug map[string]*Page
	err    error
}

// NewMemoryPageRepository constructs the repository.
func NewMemoryPageRepository() *MemoryPageRepository {
	return &MemoryPageRepository{
		bySlug: make(map[string]*Page),
	}
}

// Put stores page, replacing any page with the same slug.
func (m *MemoryPageRepository) Put(page *Page) {
	if page == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cloned := clonePage(page)
	if cloned.ID == uuid.Nil {
		cloned.ID = uuid.New()
	}
	m.bySlug[cloned.Slug] = cloned
}

// FailWith makes every lookup return err. Pass nil to recover.
func (m *MemoryPageRepository) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MemoryPageRepository) GetPublishedBySlug(ctx context.Context, slug string) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	page, ok := m.bySlug[slug]
	if !ok || !page.IsPublished {
		return nil, &PageNotFoundError{Slug: slug}
	}
	return clonePage(page), nil
}
