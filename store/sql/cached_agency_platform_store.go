package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-access/core"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

const agencyPlatformCacheKeyPrefix = "go-access::agency_platform::v1"

// CachedAgencyPlatformStore fronts agency platform reads with a cache. The
// stored PAM decision is read on every provisioning operation, so the lookup
// is the hottest path in the store layer.
type CachedAgencyPlatformStore struct {
	base  core.AgencyPlatformStore
	cache repositorycache.CacheService
}

func NewCachedAgencyPlatformStore(
	base core.AgencyPlatformStore,
	cacheService repositorycache.CacheService,
) (*CachedAgencyPlatformStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base agency platform store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: agency platform cache service is required")
	}
	return &CachedAgencyPlatformStore{base: base, cache: cacheService}, nil
}

// AgencyPlatformCacheKey returns the deterministic cache key contract for
// agency platform reads: go-access::agency_platform::v1::<agency_id>::<platform_key>
// with each segment URL-path escaped.
func AgencyPlatformCacheKey(agencyID, platformKey string) (string, error) {
	agencyID = strings.TrimSpace(agencyID)
	platformKey = strings.TrimSpace(platformKey)
	if agencyID == "" {
		return "", fmt.Errorf("sqlstore: agency id is required")
	}
	if platformKey == "" {
		return "", fmt.Errorf("sqlstore: platform key is required")
	}
	segments := []string{
		url.PathEscape(agencyID),
		url.PathEscape(platformKey),
	}
	return strings.Join(append([]string{agencyPlatformCacheKeyPrefix}, segments...), "::"), nil
}

func (s *CachedAgencyPlatformStore) Get(ctx context.Context, agencyID, platformKey string) (core.AgencyPlatform, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.AgencyPlatform{}, fmt.Errorf("sqlstore: cached agency platform store is not configured")
	}
	cacheKey, err := AgencyPlatformCacheKey(agencyID, platformKey)
	if err != nil {
		return core.AgencyPlatform{}, err
	}

	record, err := repositorycache.GetOrFetch(ctx, s.cache, cacheKey, func(ctx context.Context) (core.AgencyPlatform, error) {
		return s.base.Get(ctx, agencyID, platformKey)
	})
	if err != nil {
		return core.AgencyPlatform{}, err
	}
	return record, nil
}

func (s *CachedAgencyPlatformStore) Upsert(ctx context.Context, record core.AgencyPlatform) (core.AgencyPlatform, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.AgencyPlatform{}, fmt.Errorf("sqlstore: cached agency platform store is not configured")
	}
	saved, err := s.base.Upsert(ctx, record)
	if err != nil {
		return core.AgencyPlatform{}, err
	}
	cacheKey, err := AgencyPlatformCacheKey(saved.AgencyID, saved.PlatformKey)
	if err != nil {
		return core.AgencyPlatform{}, err
	}
	if err := s.cache.Delete(ctx, cacheKey); err != nil {
		return core.AgencyPlatform{}, err
	}
	return saved, nil
}

func (s *CachedAgencyPlatformStore) ListByAgency(ctx context.Context, agencyID string) ([]core.AgencyPlatform, error) {
	if s == nil || s.base == nil {
		return nil, fmt.Errorf("sqlstore: cached agency platform store is not configured")
	}
	return s.base.ListByAgency(ctx, agencyID)
}

func (s *CachedAgencyPlatformStore) Delete(ctx context.Context, agencyID, platformKey string) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached agency platform store is not configured")
	}
	if err := s.base.Delete(ctx, agencyID, platformKey); err != nil {
		return err
	}
	cacheKey, err := AgencyPlatformCacheKey(agencyID, platformKey)
	if err != nil {
		return err
	}
	return s.cache.Delete(ctx, cacheKey)
}

var _ core.AgencyPlatformStore = (*CachedAgencyPlatformStore)(nil)
