package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

// Plugin is the uniform provisioning contract every platform integration
// implements. Operations validate first: a request that fails validation
// returns an unsuccessful OperationResult without touching the provider API.
// Plugins receive opaque token references only, never raw secret material.
type Plugin interface {
	PlatformKey() string
	Manifest() PlatformManifest

	GrantAccess(ctx context.Context, req ProvisioningRequest) (OperationResult, error)
	VerifyAccess(ctx context.Context, req ProvisioningRequest) (OperationResult, error)
	RevokeAccess(ctx context.Context, req ProvisioningRequest) (OperationResult, error)
}

// ManifestSource yields the platform catalog a service boots with.
type ManifestSource interface {
	Manifests(ctx context.Context) ([]PlatformManifest, error)
}

// AgencyPlatform is the stored per-agency configuration for one platform,
// carrying the PAM decision the agency made for it.
type AgencyPlatform struct {
	ID          string
	AgencyID    string
	PlatformKey string
	Pam         *PamConfig
	Enabled     bool
	UpdatedAt   time.Time
}

// AgencyPlatformStore persists agency platform configurations.
type AgencyPlatformStore interface {
	Get(ctx context.Context, agencyID, platformKey string) (AgencyPlatform, error)
	Upsert(ctx context.Context, record AgencyPlatform) (AgencyPlatform, error)
	ListByAgency(ctx context.Context, agencyID string) ([]AgencyPlatform, error)
	Delete(ctx context.Context, agencyID, platformKey string) error
}

// EvidenceStore persists manual-flow evidence records.
type EvidenceStore interface {
	Save(ctx context.Context, record EvidenceRecord) (EvidenceRecord, error)
	Get(ctx context.Context, id string) (EvidenceRecord, error)
	ListByAccessItem(ctx context.Context, accessItemID string) ([]EvidenceRecord, error)
}

// ActivitySink records the outcome of every provisioning operation for audit.
type ActivitySink interface {
	Record(ctx context.Context, entry ActivityEntry) error
	List(ctx context.Context, filter ActivityFilter) (ActivityPage, error)
}

// AccessItemStore persists access items through their status lifecycle.
type AccessItemStore interface {
	Save(ctx context.Context, item AccessItem) (AccessItem, error)
	Get(ctx context.Context, id string) (AccessItem, error)
	UpdateStatus(ctx context.Context, id string, status AccessItemStatus, reason string) (AccessItem, error)
	ListByAgency(ctx context.Context, agencyID string) ([]AccessItem, error)
}

// StoreProvider exposes the persistence-backed stores a repository factory
// builds.
type StoreProvider interface {
	AgencyPlatformStore() AgencyPlatformStore
	AccessItemStore() AccessItemStore
	EvidenceStore() EvidenceStore
	ActivitySink() ActivitySink
}

// RepositoryStoreFactory builds stores off an injected persistence client.
// The client is typed any so the core stays decoupled from the database
// driver wiring.
type RepositoryStoreFactory interface {
	BuildStores(persistenceClient any) (StoreProvider, error)
}

// MetricsRecorder receives operational counters and timings. A nil-safe nop
// implementation is used when no backend is wired.
type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}
