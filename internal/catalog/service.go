package catalog

import (
	"context"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-storefront/internal/logging"
	"github.com/goliatone/go-storefront/pkg/interfaces"
)

const queryValidationCode = "CATALOG_QUERY_INVALID"

// Service answers the listing queries used by the storefront pages.
type Service interface {
	Featured(ctx context.Context) ([]*Product, error)
	Sale(ctx context.Context) ([]*Product, error)
	List(ctx context.Context, query ListQuery) ([]*Product, error)
}

type service struct {
	repo          ProductRepository
	featuredLimit int
	logger        interfaces.Logger
}

// ServiceOption customises the catalog service.
type ServiceOption func(*service)

// WithFeaturedLimit caps the home listing.
func WithFeaturedLimit(limit int) ServiceOption {
	return func(s *service) {
		if limit > 0 {
			s.featuredLimit = limit
		}
	}
}

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

const defaultFeaturedLimit = 6

// NewService constructs the catalog service over repo.
func NewService(repo ProductRepository, opts ...ServiceOption) Service {
	s := &service{
		repo:          repo,
		featuredLimit: defaultFeaturedLimit,
		logger:        logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *service) Featured(ctx context.Context) ([]*Product, error) {
	return s.List(ctx, FeaturedQuery(s.featuredLimit))
}

func (s *service) Sale(ctx context.Context) ([]*Product, error) {
	return s.List(ctx, SaleQuery())
}

// List validates query before it reaches the store. Validation failures carry
// the go-errors validation category; store failures come back as *QueryError.
func (s *service) List(ctx context.Context, query ListQuery) ([]*Product, error) {
	if s.repo == nil {
		return nil, ErrRepositoryRequired
	}
	if err := query.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "catalog query rejected").
			WithTextCode(queryValidationCode)
	}

	logger := logging.WithFields(s.logger, map[string]any{"query": query.String()})
	logger.Debug("catalog.list.start")

	records, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, &QueryError{Query: query, Err: err}
	}
	logger.Debug("catalog.list.success", "count", len(records))
	return records, nil
}
