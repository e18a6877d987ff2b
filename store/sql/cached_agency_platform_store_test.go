package sqlstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-access/core"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

type stubAgencyPlatformStore struct {
	mu       sync.Mutex
	records  map[string]core.AgencyPlatform
	getCalls int
	getErr   error
}

func newStubAgencyPlatformStore() *stubAgencyPlatformStore {
	return &stubAgencyPlatformStore{records: map[string]core.AgencyPlatform{}}
}

func (s *stubAgencyPlatformStore) key(agencyID, platformKey string) string {
	return agencyID + "/" + platformKey
}

func (s *stubAgencyPlatformStore) Get(_ context.Context, agencyID, platformKey string) (core.AgencyPlatform, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	if s.getErr != nil {
		return core.AgencyPlatform{}, s.getErr
	}
	record, ok := s.records[s.key(agencyID, platformKey)]
	if !ok {
		return core.AgencyPlatform{}, core.ErrAgencyPlatformNotFound
	}
	return record, nil
}

func (s *stubAgencyPlatformStore) Upsert(_ context.Context, record core.AgencyPlatform) (core.AgencyPlatform, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[s.key(record.AgencyID, record.PlatformKey)] = record
	return record, nil
}

func (s *stubAgencyPlatformStore) ListByAgency(_ context.Context, agencyID string) ([]core.AgencyPlatform, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.AgencyPlatform
	for _, record := range s.records {
		if record.AgencyID == agencyID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (s *stubAgencyPlatformStore) Delete(_ context.Context, agencyID, platformKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, s.key(agencyID, platformKey))
	return nil
}

func newTestAgencyPlatformCacheService(t *testing.T) repositorycache.CacheService {
	t.Helper()
	config := repositorycache.DefaultConfig()
	config.TTL = time.Minute
	service, err := repositorycache.NewCacheService(config)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	return service
}

func TestCachedAgencyPlatformStore_Get_MissFetchThenHit(t *testing.T) {
	base := newStubAgencyPlatformStore()
	base.records["agency-1/ga4"] = core.AgencyPlatform{
		ID:          "ap-1",
		AgencyID:    "agency-1",
		PlatformKey: "ga4",
		Enabled:     true,
	}

	store, err := NewCachedAgencyPlatformStore(base, newTestAgencyPlatformCacheService(t))
	if err != nil {
		t.Fatalf("new cached store: %v", err)
	}

	if _, err := store.Get(context.Background(), "agency-1", "ga4"); err != nil {
		t.Fatalf("first get: %v", err)
	}
	if base.getCalls != 1 {
		t.Fatalf("expected one base read, got %d", base.getCalls)
	}

	if _, err := store.Get(context.Background(), "agency-1", "ga4"); err != nil {
		t.Fatalf("second get: %v", err)
	}
	if base.getCalls != 1 {
		t.Fatalf("expected cache hit on second read, base reads=%d", base.getCalls)
	}
}

func TestCachedAgencyPlatformStore_Upsert_InvalidatesCachedKey(t *testing.T) {
	base := newStubAgencyPlatformStore()
	base.records["agency-1/ga4"] = core.AgencyPlatform{
		ID:          "ap-1",
		AgencyID:    "agency-1",
		PlatformKey: "ga4",
		Enabled:     true,
	}

	store, err := NewCachedAgencyPlatformStore(base, newTestAgencyPlatformCacheService(t))
	if err != nil {
		t.Fatalf("new cached store: %v", err)
	}

	if _, err := store.Get(context.Background(), "agency-1", "ga4"); err != nil {
		t.Fatalf("prime cache: %v", err)
	}

	if _, err := store.Upsert(context.Background(), core.AgencyPlatform{
		ID:          "ap-1",
		AgencyID:    "agency-1",
		PlatformKey: "ga4",
		Enabled:     false,
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	record, err := store.Get(context.Background(), "agency-1", "ga4")
	if err != nil {
		t.Fatalf("get after upsert: %v", err)
	}
	if record.Enabled {
		t.Fatalf("expected invalidation to surface the updated record")
	}
	if base.getCalls != 2 {
		t.Fatalf("expected base re-read after invalidation, got %d", base.getCalls)
	}
}

func TestCachedAgencyPlatformStore_PropagatesNotFound(t *testing.T) {
	base := newStubAgencyPlatformStore()
	base.getErr = core.ErrAgencyPlatformNotFound

	store, err := NewCachedAgencyPlatformStore(base, newTestAgencyPlatformCacheService(t))
	if err != nil {
		t.Fatalf("new cached store: %v", err)
	}

	_, err = store.Get(context.Background(), "agency-1", "ga4")
	if !errors.Is(err, core.ErrAgencyPlatformNotFound) {
		t.Fatalf("expected base error propagation, got %v", err)
	}
}

func TestAgencyPlatformCacheKey_Deterministic(t *testing.T) {
	first, err := AgencyPlatformCacheKey("agency-1", "ga4")
	if err != nil {
		t.Fatalf("cache key: %v", err)
	}
	second, err := AgencyPlatformCacheKey(" agency-1 ", " ga4 ")
	if err != nil {
		t.Fatalf("cache key with whitespace: %v", err)
	}
	if first != second {
		t.Fatalf("expected trimmed keys to match: %q vs %q", first, second)
	}
	if _, err := AgencyPlatformCacheKey("", "ga4"); err == nil {
		t.Fatalf("expected error for empty agency id")
	}
}
