package pages

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PageRepository is the read side of the pages table.
type PageRepository interface {
	GetPublishedBySlug(ctx context.Context, slug string) (*Page, error)
}

func NewPageRepository(db *bun.DB) repository.Repository[*Page] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Page]{
		NewRecord: func() *Page { return &Page{} },
		GetID: func(p *Page) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Page, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(p *Page) string {
			return p.Slug
		},
	})
}

type BunPageRepository struct {
	db            *bun.DB
	repo          repository.Repository[*Page]
	cacheService  cache.CacheService
	keySerializer cache.KeySerializer
}

const publishedBySlugKey = "pages.published_by_slug"

func NewBunPageRepository(db *bun.DB) *BunPageRepository {
	return NewBunPageRepositoryWithCache(db, nil, nil)
}

// NewBunPageRepositoryWithCache constructs a PageRepository backed by bun with
// optional caching. Cached lookups are keyed by slug; both cache arguments are
// required to enable it.
func NewBunPageRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunPageRepository {
	r := &BunPageRepository{
		db:   db,
		repo: NewPageRepository(db),
	}
	if cacheService != nil && keySerializer != nil {
		r.cacheService = cacheService
		r.keySerializer = keySerializer
	}
	return r
}

// GetPublishedBySlug returns the single published page with slug. An
// unpublished page is indistinguishable from a missing one.
func (r *BunPageRepository) GetPublishedBySlug(ctx context.Context, slug string) (*Page, error) {
	if r == nil || r.db == nil {
		return nil, ErrDatabaseRequired
	}
	if r.cacheService == nil {
		return r.fetchPublished(ctx, slug)
	}
	key := r.keySerializer.SerializeKey(publishedBySlugKey, slug)
	page, err := cache.GetOrFetch(ctx, r.cacheService, key, func(ctx context.Context) (*Page, error) {
		return r.fetchPublished(ctx, slug)
	})
	if err != nil {
		return nil, err
	}
	return clonePage(page), nil
}

func (r *BunPageRepository) fetchPublished(ctx context.Context, slug string) (*Page, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.slug = ?", slug).
				Where("?TableAlias.is_published = ?", true)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "page", slug)
	}
	if len(records) == 0 {
		return nil, &PageNotFoundError{Slug: slug}
	}
	return records[0], nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &PageNotFoundError{Slug: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
