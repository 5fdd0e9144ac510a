package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/Domenick1991/bustrip/internal/domain"
	"github.com/Domenick1991/bustrip/internal/profile"
)

type ProfileRepository interface {
	Add(ctx context.Context, p *profile.Profile) error
	Get(ctx context.Context, id string) (*profile.Profile, error)
	GetByPhone(ctx context.Context, phone string) (*profile.Profile, error)
	List(ctx context.Context) ([]*profile.Profile, error)
}

// MemoryProfileRepository keeps profiles for the lifetime of the process.
type MemoryProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]*profile.Profile
	byPhone  map[string]string
	order    []string
}

func NewProfileRepository() *MemoryProfileRepository {
	return &MemoryProfileRepository{
		profiles: make(map[string]*profile.Profile),
		byPhone:  make(map[string]string),
	}
}

func (r *MemoryProfileRepository) Add(_ context.Context, p *profile.Profile) error {
	if p == nil || p.ID() == "" {
		return domain.ValidationError{Field: "profile.id", Msg: "is required"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[p.ID()]; ok {
		return fmt.Errorf("%w: %s", domain.ErrProfileExists, p.ID())
	}
	phone := p.Identity().Phone
	if phone != "" {
		if _, ok := r.byPhone[phone]; ok {
			return fmt.Errorf("%w: phone %s", domain.ErrProfileExists, phone)
		}
		r.byPhone[phone] = p.ID()
	}
	r.profiles[p.ID()] = p
	r.order = append(r.order, p.ID())
	return nil
}

func (r *MemoryProfileRepository) Get(_ context.Context, id string) (*profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProfileNotFound, id)
	}
	return p, nil
}

func (r *MemoryProfileRepository) GetByPhone(ctx context.Context, phone string) (*profile.Profile, error) {
	r.mu.RLock()
	id, ok := r.byPhone[phone]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: phone %s", domain.ErrProfileNotFound, phone)
	}
	return r.Get(ctx, id)
}

func (r *MemoryProfileRepository) List(_ context.Context) ([]*profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*profile.Profile, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.profiles[id])
	}
	return out, nil
}

var _ ProfileRepository = (*MemoryProfileRepository)(nil)
