package pages

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	ErrSlugRequired       = errors.New("pages: slug is required")
	ErrRepositoryRequired = errors.New("pages: page repository is required")
	ErrDatabaseRequired   = errors.New("pages: database not configured")
	ErrPageNotFound       = errors.New("pages: page not found")
)

// Page is a content document. Content is stored verbatim and rendered as
// plain text with its line breaks intact.
type Page struct {
	bun.BaseModel `bun:"table:pages,alias:pg"`

	ID          uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Slug        string    `bun:"slug,notnull,unique" json:"slug"`
	Title       string    `bun:"title,notnull" json:"title"`
	Content     string    `bun:"content,notnull" json:"content"`
	IsPublished bool      `bun:"is_published,notnull" json:"is_published"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// PageNotFoundError is returned when no published page has the slug.
type PageNotFoundError struct {
	Slug string
}

func (e *PageNotFoundError) Error() string {
	if e == nil || e.Slug == "" {
		return ErrPageNotFound.Error()
	}
	return fmt.Sprintf("%s: slug=%s", ErrPageNotFound.Error(), e.Slug)
}

func (e *PageNotFoundError) Unwrap() error {
	return ErrPageNotFound
}

// IsNotFound reports whether err means there is no page to show: the slug was
// empty, or no published page carries it.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPageNotFound) || errors.Is(err, ErrSlugRequired)
}

func clonePage(p *Page) *Page {
	if p == nil {
		return nil
	}
	cloned := *p
	return &cloned
}
