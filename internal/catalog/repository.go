package catalog

import (
	"context"
	"fmt"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ProductRepository is the read side of the products table.
type ProductRepository interface {
	List(ctx context.Context, query ListQuery) ([]*Product, error)
}

func NewProductRepository(db *bun.DB) repository.Repository[*Product] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Product]{
		NewRecord: func() *Product { return &Product{} },
		GetID: func(p *Product) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Product, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "name"
		},
		GetIdentifierValue: func(p *Product) string {
			return p.Name
		},
	})
}

// BunProductRepository lists products with their category joined.
type BunProductRepository struct {
	db            *bun.DB
	repo          repository.Repository[*Product]
	cacheService  cache.CacheService
	keySerializer cache.KeySerializer
}

const listKey = "catalog.products.list"

func NewBunProductRepository(db *bun.DB) *BunProductRepository {
	return NewBunProductRepositoryWithCache(db, nil, nil)
}

// NewBunProductRepositoryWithCache constructs a ProductRepository backed by bun
// with optional caching. Cached listings are keyed by the rendered query.
func NewBunProductRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunProductRepository {
	r := &BunProductRepository{
		db:   db,
		repo: NewProductRepository(db),
	}
	if cacheService != nil && keySerializer != nil {
		r.cacheService = cacheService
		r.keySerializer = keySerializer
	}
	return r
}

func (r *BunProductRepository) List(ctx context.Context, query ListQuery) ([]*Product, error) {
	if r == nil || r.db == nil {
		return nil, ErrDatabaseRequired
	}
	if r.cacheService == nil {
		return r.fetch(ctx, query)
	}
	key := r.keySerializer.SerializeKey(listKey, query.String())
	records, err := cache.GetOrFetch(ctx, r.cacheService, key, func(ctx context.Context) ([]*Product, error) {
		return r.fetch(ctx, query)
	})
	if err != nil {
		return nil, err
	}
	out := make([]*Product, 0, len(records))
	for _, p := range records {
		out = append(out, cloneProduct(p))
	}
	return out, nil
}

func (r *BunProductRepository) fetch(ctx context.Context, query ListQuery) ([]*Product, error) {
	apply := repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return applyListQuery(q.Relation("Category"), query)
	})

	var (
		records []*Product
		err     error
	)
	if query.Limit > 0 {
		records, _, err = r.repo.List(ctx, apply, repository.SelectPaginate(query.Limit, 0))
	} else {
		records, _, err = r.repo.List(ctx, apply)
	}
	if err != nil {
		return nil, fmt.Errorf("product repository error: %w", err)
	}
	return records, nil
}

func applyListQuery(q *bun.SelectQuery, query ListQuery) *bun.SelectQuery {
	for _, f := range query.Filters {
		q = q.Where("?TableAlias.? = ?", bun.Ident(string(f.Column)), f.Value)
	}
	if s := query.Sort; s != nil {
		if s.Descending {
			q = q.OrderExpr("?TableAlias.? DESC", bun.Ident(string(s.Column)))
		} else {
			q = q.OrderExpr("?TableAlias.? ASC", bun.Ident(string(s.Column)))
		}
	}
	return q
}
