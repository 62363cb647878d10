package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-storefront/pkg/interfaces"
)

var (
	ErrProfileNotFound  = errors.New("auth: profile not found")
	ErrDatabaseRequired = errors.New("auth: database not configured")
)

// ProfileRecord is the profiles row kept for every user by the auth service.
// ID equals the user id.
type ProfileRecord struct {
	bun.BaseModel `bun:"table:profiles,alias:pr"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	FullName  *string   `bun:"full_name" json:"full_name,omitempty"`
	Role      string    `bun:"role,notnull" json:"role"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// Profile converts the row into the session-facing shape.
func (r *ProfileRecord) Profile() *interfaces.Profile {
	if r == nil {
		return nil
	}
	p := &interfaces.Profile{UserID: r.ID.String(), Role: strings.TrimSpace(r.Role)}
	if r.FullName != nil {
		p.FullName = strings.TrimSpace(*r.FullName)
	}
	return p
}

// ProfileRepository loads profile rows by user id.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*ProfileRecord, error)
}

func NewProfileRepository(db *bun.DB) repository.Repository[*ProfileRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ProfileRecord]{
		NewRecord: func() *ProfileRecord { return &ProfileRecord{} },
		GetID: func(p *ProfileRecord) uuid.UUID {
			return p.ID
		},
		SetID: func(p *ProfileRecord, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(p *ProfileRecord) string {
			return p.ID.String()
		},
	})
}

type BunProfileRepository struct {
	db   *bun.DB
	repo repository.Repository[*ProfileRecord]
}

func NewBunProfileRepository(db *bun.DB) *BunProfileRepository {
	return &BunProfileRepository{db: db, repo: NewProfileRepository(db)}
}

func (r *BunProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*ProfileRecord, error) {
	if r == nil || r.db == nil {
		return nil, ErrDatabaseRequired
	}
	record, err := r.repo.GetByID(ctx, userID.String())
	if err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, userID)
		}
		return nil, fmt.Errorf("profile repository error: %w", err)
	}
	return record, nil
}

// MemoryProfileRepository keeps profiles in a map.
type MemoryProfileRepository struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]ProfileRecord
}

func NewMemoryProfileRepository(records ...*ProfileRecord) *MemoryProfileRepository {
	m := &MemoryProfileRepository{profiles: make(map[uuid.UUID]ProfileRecord)}
	for _, r := range records {
		m.Put(r)
	}
	return m
}

func (m *MemoryProfileRepository) Put(record *ProfileRecord) {
	if record == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[record.ID] = *record
}

func (m *MemoryProfileRepository) GetByUserID(_ context.Context, userID uuid.UUID) (*ProfileRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, userID)
	}
	return &record, nil
}
