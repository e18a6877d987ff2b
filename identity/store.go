package identity

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-access/core"
	"github.com/google/uuid"
)

// Store persists integration identities.
type Store interface {
	Save(ctx context.Context, record IntegrationIdentity) (IntegrationIdentity, error)
	Get(ctx context.Context, id string) (IntegrationIdentity, error)
	ListByAgency(ctx context.Context, agencyID string) ([]IntegrationIdentity, error)
	Delete(ctx context.Context, id string) error
}

// Registry selects identities for provisioning and drives rotation sweeps.
type Registry struct {
	store Store
}

func NewRegistry(store Store) *Registry {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Registry{store: store}
}

func (r *Registry) Store() Store {
	return r.store
}

// Register validates and saves an identity.
func (r *Registry) Register(ctx context.Context, record IntegrationIdentity) (IntegrationIdentity, error) {
	if err := record.Validate(); err != nil {
		return IntegrationIdentity{}, err
	}
	return r.store.Save(ctx, record)
}

// ForPlatform picks the identity to provision with for one platform. The
// newest enabled identity whose allow-list admits the platform and whose
// implied purpose matches wins.
func (r *Registry) ForPlatform(ctx context.Context, agencyID, platformKey string, purpose core.IdentityPurpose) (IntegrationIdentity, error) {
	identities, err := r.store.ListByAgency(ctx, agencyID)
	if err != nil {
		return IntegrationIdentity{}, err
	}

	var candidates []IntegrationIdentity
	for _, candidate := range identities {
		if candidate.Disabled {
			continue
		}
		if !candidate.AllowsPlatform(platformKey) {
			continue
		}
		if purpose != "" && candidate.Kind.Purpose() != purpose {
			continue
		}
		candidates = append(candidates, candidate)
	}
	if len(candidates) == 0 {
		return IntegrationIdentity{}, fmt.Errorf(
			"%w: agency %s has no identity for %s",
			ErrIdentityNotFound, agencyID, platformKey,
		)
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})
	return candidates[0], nil
}

// RotationDue lists every identity of an agency whose scheduled rotation has
// lapsed.
func (r *Registry) RotationDue(ctx context.Context, agencyID string, now time.Time) ([]IntegrationIdentity, error) {
	identities, err := r.store.ListByAgency(ctx, agencyID)
	if err != nil {
		return nil, err
	}
	var due []IntegrationIdentity
	for _, candidate := range identities {
		if candidate.Disabled {
			continue
		}
		if candidate.RotationDue(now) {
			due = append(due, candidate)
		}
	}
	return due, nil
}

// MarkRotated records a completed credential rotation.
func (r *Registry) MarkRotated(ctx context.Context, id string, rotatedAt time.Time) (IntegrationIdentity, error) {
	record, err := r.store.Get(ctx, id)
	if err != nil {
		return IntegrationIdentity{}, err
	}
	record.LastRotatedAt = rotatedAt.UTC()
	return r.store.Save(ctx, record)
}

// MemoryStore keeps identities in process.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]IntegrationIdentity
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]IntegrationIdentity)}
}

func (s *MemoryStore) Save(_ context.Context, record IntegrationIdentity) (IntegrationIdentity, error) {
	if strings.TrimSpace(record.ID) == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.ID] = record
	return record, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (IntegrationIdentity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[strings.TrimSpace(id)]
	if !ok {
		return IntegrationIdentity{}, fmt.Errorf("%w: %s", ErrIdentityNotFound, id)
	}
	return record, nil
}

func (s *MemoryStore) ListByAgency(_ context.Context, agencyID string) ([]IntegrationIdentity, error) {
	wanted := strings.TrimSpace(agencyID)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []IntegrationIdentity
	for _, record := range s.records {
		if record.AgencyID == wanted {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, strings.TrimSpace(id))
	return nil
}

var _ Store = (*MemoryStore)(nil)
