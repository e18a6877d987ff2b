package access

import "github.com/goliatone/go-access/core"

type Config = core.Config

type PamDefaults = core.PamDefaults

type VerificationConfig = core.VerificationConfig

type Option = core.Option

type Service = core.Service

type ServiceDependencies = core.ServiceDependencies
type AgencyPlatformStore = core.AgencyPlatformStore
type AccessItemStore = core.AccessItemStore
type EvidenceStore = core.EvidenceStore
type ActivitySink = core.ActivitySink
type ManifestSource = core.ManifestSource
type Plugin = core.Plugin
type StoreProvider = core.StoreProvider
type RepositoryStoreFactory = core.RepositoryStoreFactory

type AgencyPlatform = core.AgencyPlatform
type AccessItem = core.AccessItem
type AccessItemType = core.AccessItemType
type AccessItemStatus = core.AccessItemStatus
type Capability = core.Capability
type PamConfig = core.PamConfig
type PlatformManifest = core.PlatformManifest
type ProvisioningRequest = core.ProvisioningRequest
type InstructionStep = core.InstructionStep
type EvidenceRecord = core.EvidenceRecord
type ActivityEntry = core.ActivityEntry
type ActivityFilter = core.ActivityFilter
type ActivityPage = core.ActivityPage

type OperationRequest = core.OperationRequest

type OperationOutcome = core.OperationOutcome

var (
	WithLogger              = core.WithLogger
	WithLoggerProvider      = core.WithLoggerProvider
	WithMetricsRecorder     = core.WithMetricsRecorder
	WithErrorFactory        = core.WithErrorFactory
	WithErrorMapper         = core.WithErrorMapper
	WithPersistenceClient   = core.WithPersistenceClient
	WithRepositoryFactory   = core.WithRepositoryFactory
	WithConfigProvider      = core.WithConfigProvider
	WithOptionsResolver     = core.WithOptionsResolver
	WithManifestSource      = core.WithManifestSource
	WithManifestRegistry    = core.WithManifestRegistry
	WithPluginRegistry      = core.WithPluginRegistry
	WithAgencyPlatformStore = core.WithAgencyPlatformStore
	WithAccessItemStore     = core.WithAccessItemStore
	WithEvidenceStore       = core.WithEvidenceStore
	WithActivitySink        = core.WithActivitySink
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	return core.NewService(cfg, opts...)
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return core.Setup(cfg, opts...)
}
