package pages

import (
	"context"

	"github.com/goliatone/go-storefront/internal/logging"
	"github.com/goliatone/go-storefront/pkg/interfaces"
)

// Service resolves published content pages.
type Service interface {
	Published(ctx context.Context, slug string) (*Page, error)
}

type service struct {
	repo   PageRepository
	logger interfaces.Logger
}

type ServiceOption func(*service)

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(repo PageRepository, opts ...ServiceOption) Service {
	s := &service{repo: repo, logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Published looks the slug up verbatim.
func (s *service) Published(ctx context.Context, slug string) (*Page, error) {
	if s.repo == nil {
		return nil, ErrRepositoryRequired
	}
	if slug == "" {
		return nil, ErrSlugRequired
	}
	page, err := s.repo.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	logging.WithFields(s.logger, map[string]any{"slug": slug}).Debug("pages.published.resolved")
	return page, nil
}
