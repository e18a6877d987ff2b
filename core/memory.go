package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAgencyPlatformNotFound = errors.New("core: agency platform not found")
	ErrAccessItemNotFound     = errors.New("core: access item not found")
	ErrEvidenceNotFound       = errors.New("core: evidence record not found")
)

// MemoryAgencyPlatformStore keeps agency platform configurations in process.
// It backs tests and single-node setups; production wiring swaps in the SQL
// store.
type MemoryAgencyPlatformStore struct {
	mu      sync.RWMutex
	records map[string]AgencyPlatform
}

func NewMemoryAgencyPlatformStore() *MemoryAgencyPlatformStore {
	return &MemoryAgencyPlatformStore{records: make(map[string]AgencyPlatform)}
}

func agencyPlatformKey(agencyID, platformKey string) string {
	return strings.TrimSpace(agencyID) + "/" + strings.TrimSpace(platformKey)
}

func (s *MemoryAgencyPlatformStore) Get(_ context.Context, agencyID, platformKey string) (AgencyPlatform, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[agencyPlatformKey(agencyID, platformKey)]
	if !ok {
		return AgencyPlatform{}, fmt.Errorf("%w: %s/%s", ErrAgencyPlatformNotFound, agencyID, platformKey)
	}
	return record, nil
}

func (s *MemoryAgencyPlatformStore) Upsert(_ context.Context, record AgencyPlatform) (AgencyPlatform, error) {
	if strings.TrimSpace(record.AgencyID) == "" {
		return AgencyPlatform{}, fmt.Errorf("core: agency id is required")
	}
	if strings.TrimSpace(record.PlatformKey) == "" {
		return AgencyPlatform{}, fmt.Errorf("core: platform key is required")
	}
	if strings.TrimSpace(record.ID) == "" {
		record.ID = uuid.NewString()
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[agencyPlatformKey(record.AgencyID, record.PlatformKey)] = record
	return record, nil
}

func (s *MemoryAgencyPlatformStore) ListByAgency(_ context.Context, agencyID string) ([]AgencyPlatform, error) {
	wanted := strings.TrimSpace(agencyID)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []AgencyPlatform
	for _, record := range s.records {
		if record.AgencyID == wanted {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PlatformKey < out[j].PlatformKey
	})
	return out, nil
}

func (s *MemoryAgencyPlatformStore) Delete(_ context.Context, agencyID, platformKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, agencyPlatformKey(agencyID, platformKey))
	return nil
}

// MemoryAccessItemStore tracks access items in process.
type MemoryAccessItemStore struct {
	mu    sync.RWMutex
	items map[string]AccessItem
}

func NewMemoryAccessItemStore() *MemoryAccessItemStore {
	return &MemoryAccessItemStore{items: make(map[string]AccessItem)}
}

func (s *MemoryAccessItemStore) Save(_ context.Context, item AccessItem) (AccessItem, error) {
	if strings.TrimSpace(item.ID) == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	if item.Status == "" {
		item.Status = AccessItemStatusRequested
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[item.ID] = item
	return item, nil
}

func (s *MemoryAccessItemStore) Get(_ context.Context, id string) (AccessItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[strings.TrimSpace(id)]
	if !ok {
		return AccessItem{}, fmt.Errorf("%w: %s", ErrAccessItemNotFound, id)
	}
	return item, nil
}

func (s *MemoryAccessItemStore) UpdateStatus(_ context.Context, id string, status AccessItemStatus, reason string) (AccessItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[strings.TrimSpace(id)]
	if !ok {
		return AccessItem{}, fmt.Errorf("%w: %s", ErrAccessItemNotFound, id)
	}
	if err := item.TransitionTo(status, reason, time.Now().UTC()); err != nil {
		return AccessItem{}, err
	}
	s.items[item.ID] = item
	return item, nil
}

func (s *MemoryAccessItemStore) ListByAgency(_ context.Context, agencyID string) ([]AccessItem, error) {
	wanted := strings.TrimSpace(agencyID)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []AccessItem
	for _, item := range s.items {
		if item.AgencyID == wanted {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// MemoryEvidenceStore keeps evidence records in process.
type MemoryEvidenceStore struct {
	mu      sync.RWMutex
	records map[string]EvidenceRecord
}

func NewMemoryEvidenceStore() *MemoryEvidenceStore {
	return &MemoryEvidenceStore{records: make(map[string]EvidenceRecord)}
}

func (s *MemoryEvidenceStore) Save(_ context.Context, record EvidenceRecord) (EvidenceRecord, error) {
	if strings.TrimSpace(record.ID) == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.ID] = record
	return record, nil
}

func (s *MemoryEvidenceStore) Get(_ context.Context, id string) (EvidenceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[strings.TrimSpace(id)]
	if !ok {
		return EvidenceRecord{}, fmt.Errorf("%w: %s", ErrEvidenceNotFound, id)
	}
	return record, nil
}

func (s *MemoryEvidenceStore) ListByAccessItem(_ context.Context, accessItemID string) ([]EvidenceRecord, error) {
	wanted := strings.TrimSpace(accessItemID)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []EvidenceRecord
	for _, record := range s.records {
		if record.AccessItemID == wanted {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// MemoryActivitySink records activity entries in process, newest first.
type MemoryActivitySink struct {
	mu      sync.RWMutex
	entries []ActivityEntry
}

func NewMemoryActivitySink() *MemoryActivitySink {
	return &MemoryActivitySink{}
}

func (s *MemoryActivitySink) Record(_ context.Context, entry ActivityEntry) error {
	if strings.TrimSpace(entry.ID) == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)
	return nil
}

func (s *MemoryActivitySink) List(_ context.Context, filter ActivityFilter) (ActivityPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []ActivityEntry
	for _, entry := range s.entries {
		if !activityMatches(entry, filter) {
			continue
		}
		matched = append(matched, entry)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 50
	}

	start := (page - 1) * perPage
	if start > len(matched) {
		start = len(matched)
	}
	end := start + perPage
	if end > len(matched) {
		end = len(matched)
	}

	return ActivityPage{
		Items:   matched[start:end],
		Page:    page,
		PerPage: perPage,
		Total:   len(matched),
		HasNext: end < len(matched),
	}, nil
}

func activityMatches(entry ActivityEntry, filter ActivityFilter) bool {
	if agency := strings.TrimSpace(filter.AgencyID); agency != "" && entry.AgencyID != agency {
		return false
	}
	if platform := strings.TrimSpace(filter.PlatformKey); platform != "" && entry.PlatformKey != platform {
		return false
	}
	if operation := strings.TrimSpace(filter.Operation); operation != "" && entry.Operation != operation {
		return false
	}
	if filter.Status != "" && entry.Status != filter.Status {
		return false
	}
	if filter.From != nil && entry.CreatedAt.Before(*filter.From) {
		return false
	}
	if filter.To != nil && entry.CreatedAt.After(*filter.To) {
		return false
	}
	return true
}
