package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	"github.com/google/uuid"
)

// ProvisioningMode says how an operation outcome was produced.
type ProvisioningMode string

const (
	ProvisioningModeAPI    ProvisioningMode = "api"
	ProvisioningModeManual ProvisioningMode = "manual"
)

// OperationRequest wraps one provisioning attempt with its routing fields.
// AccessItemID is optional; when set the tracked item's status advances with
// the operation outcome.
type OperationRequest struct {
	PlatformKey  string
	AgencyID     string
	AccessItemID string
	Request      ProvisioningRequest
}

// OperationOutcome is what the service hands back for grant, verify, and
// revoke. API-mode outcomes carry the plugin result; manual-mode outcomes
// carry the instruction steps instead.
type OperationOutcome struct {
	Mode         ProvisioningMode
	Result       OperationResult
	Instructions []InstructionStep
}

type Service struct {
	config              Config
	logger              Logger
	loggerProvider      LoggerProvider
	metricsRecorder     MetricsRecorder
	errorFactory        ErrorFactory
	errorMapper         ErrorMapper
	persistenceClient   any
	repositoryFactory   any
	configProvider      ConfigProvider
	optionsResolver     OptionsResolver
	manifests           *ManifestRegistry
	plugins             *PluginRegistry
	agencyPlatformStore AgencyPlatformStore
	accessItemStore     AccessItemStore
	evidenceStore       EvidenceStore
	activitySink        ActivitySink
}

type ServiceDependencies struct {
	Logger              Logger
	LoggerProvider      LoggerProvider
	MetricsRecorder     MetricsRecorder
	ErrorFactory        ErrorFactory
	ErrorMapper         ErrorMapper
	PersistenceClient   any
	RepositoryFactory   any
	ConfigProvider      ConfigProvider
	OptionsResolver     OptionsResolver
	Manifests           *ManifestRegistry
	Plugins             *PluginRegistry
	AgencyPlatformStore AgencyPlatformStore
	AccessItemStore     AccessItemStore
	EvidenceStore       EvidenceStore
	ActivitySink        ActivitySink
}

func NewService(cfg Config, options ...Option) (*Service, error) {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("access", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("access"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.errorFactory == nil {
		builder.errorFactory = goerrors.New
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.plugins == nil {
		builder.plugins = NewPluginRegistry()
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	if builder.manifests == nil && builder.manifestSource != nil {
		manifests, sourceErr := builder.manifestSource.Manifests(context.Background())
		if sourceErr != nil {
			return nil, mapBuildError(builder.errorMapper, sourceErr)
		}
		registry, buildErr := NewManifestRegistry(manifests...)
		if buildErr != nil {
			return nil, mapBuildError(builder.errorMapper, buildErr)
		}
		builder.manifests = registry
	}
	if builder.manifests == nil {
		// Not every registered plugin ships with an external catalog; fall
		// back to the manifests the plugins declare themselves.
		manifests := make([]PlatformManifest, 0)
		for _, key := range builder.plugins.Keys() {
			plugin, getErr := builder.plugins.Get(key)
			if getErr != nil {
				continue
			}
			manifests = append(manifests, plugin.Manifest())
		}
		registry, buildErr := NewManifestRegistry(manifests...)
		if buildErr != nil {
			return nil, mapBuildError(builder.errorMapper, buildErr)
		}
		builder.manifests = registry
	}

	if builder.repositoryFactory != nil {
		if factory, ok := builder.repositoryFactory.(RepositoryStoreFactory); ok {
			stores, buildErr := factory.BuildStores(builder.persistenceClient)
			if buildErr != nil {
				return nil, mapBuildError(builder.errorMapper, buildErr)
			}
			if stores != nil {
				if builder.agencyPlatformStore == nil {
					builder.agencyPlatformStore = stores.AgencyPlatformStore()
				}
				if builder.accessItemStore == nil {
					builder.accessItemStore = stores.AccessItemStore()
				}
				if builder.evidenceStore == nil {
					builder.evidenceStore = stores.EvidenceStore()
				}
				if builder.activitySink == nil {
					builder.activitySink = stores.ActivitySink()
				}
			}
		}
	}
	if builder.agencyPlatformStore == nil {
		builder.agencyPlatformStore = NewMemoryAgencyPlatformStore()
	}
	if builder.accessItemStore == nil {
		builder.accessItemStore = NewMemoryAccessItemStore()
	}
	if builder.evidenceStore == nil {
		builder.evidenceStore = NewMemoryEvidenceStore()
	}
	if builder.activitySink == nil {
		builder.activitySink = NewMemoryActivitySink()
	}

	return &Service{
		config:              finalConfig,
		logger:              logger,
		loggerProvider:      provider,
		metricsRecorder:     builder.metricsRecorder,
		errorFactory:        builder.errorFactory,
		errorMapper:         builder.errorMapper,
		persistenceClient:   builder.persistenceClient,
		repositoryFactory:   builder.repositoryFactory,
		configProvider:      builder.configProvider,
		optionsResolver:     builder.optionsResolver,
		manifests:           builder.manifests,
		plugins:             builder.plugins,
		agencyPlatformStore: builder.agencyPlatformStore,
		accessItemStore:     builder.accessItemStore,
		evidenceStore:       builder.evidenceStore,
		activitySink:        builder.activitySink,
	}, nil
}

func Setup(cfg Config, options ...Option) (*Service, error) {
	return NewService(cfg, options...)
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

func (s *Service) Dependencies() ServiceDependencies {
	if s == nil {
		return ServiceDependencies{}
	}
	return ServiceDependencies{
		Logger:              s.logger,
		LoggerProvider:      s.loggerProvider,
		MetricsRecorder:     s.metricsRecorder,
		ErrorFactory:        s.errorFactory,
		ErrorMapper:         s.errorMapper,
		PersistenceClient:   s.persistenceClient,
		RepositoryFactory:   s.repositoryFactory,
		ConfigProvider:      s.configProvider,
		OptionsResolver:     s.optionsResolver,
		Manifests:           s.manifests,
		Plugins:             s.plugins,
		AgencyPlatformStore: s.agencyPlatformStore,
		AccessItemStore:     s.accessItemStore,
		EvidenceStore:       s.evidenceStore,
		ActivitySink:        s.activitySink,
	}
}

// Grant routes a grant attempt to the platform plugin when the resolved
// capability allows it, or produces manual instructions when it does not.
// Validation failures come back as data on the outcome, never as an error.
func (s *Service) Grant(ctx context.Context, req OperationRequest) (outcome OperationOutcome, err error) {
	return s.runOperation(ctx, "grant", CapabilityFlagGrant, req)
}

// Verify routes a verify attempt the same way Grant routes grants. When OAuth
// auto-verification is enabled and the platform supports OAuth, a platform
// without API verification still verifies off token presence alone.
func (s *Service) Verify(ctx context.Context, req OperationRequest) (outcome OperationOutcome, err error) {
	return s.runOperation(ctx, "verify", CapabilityFlagVerify, req)
}

// Revoke routes a revoke attempt.
func (s *Service) Revoke(ctx context.Context, req OperationRequest) (outcome OperationOutcome, err error) {
	return s.runOperation(ctx, "revoke", CapabilityFlagRevoke, req)
}

func (s *Service) runOperation(
	ctx context.Context,
	operation string,
	flag CapabilityFlag,
	req OperationRequest,
) (outcome OperationOutcome, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"platform_key":     req.PlatformKey,
		"agency_id":        req.AgencyID,
		"access_item_type": string(req.Request.AccessItemType.Normalize()),
		"access_item_id":   req.AccessItemID,
	}
	defer func() {
		s.observeOperation(ctx, startedAt, operation, err, fields)
	}()

	manifest, err := s.manifests.Get(req.PlatformKey)
	if err != nil {
		err = s.mapError(err)
		return OperationOutcome{}, err
	}

	provisioning := req.Request
	if provisioning.Pam == nil {
		provisioning.Pam = s.storedPamConfig(ctx, req.AgencyID, req.PlatformKey)
	}
	if provisioning.Pam != nil {
		if pamErr := provisioning.Pam.Validate(); pamErr != nil {
			err = s.mapError(pamErr)
			return OperationOutcome{}, err
		}
	}

	if problems := ValidateProvisioningRequest(manifest, provisioning); len(problems) > 0 {
		outcome = OperationOutcome{
			Mode:   ProvisioningModeAPI,
			Result: OperationResult{Success: false, Error: strings.Join(problems, "; ")},
		}
		fields["result"] = "blocked"
		s.recordActivity(ctx, req, operation, ActivityStatusBlocked, outcome.Result.Error)
		s.advanceAccessItem(ctx, req.AccessItemID, operation, outcome)
		return outcome, nil
	}

	var pamCtx CapabilityContext
	if provisioning.Pam != nil {
		pamCtx = provisioning.Pam.Context()
	}
	capability := EffectiveCapabilities(manifest, provisioning.AccessItemType, pamCtx)

	if operation == "verify" && !capability.CanVerifyAccess && s.autoVerifyApplies(manifest, provisioning) {
		outcome = OperationOutcome{
			Mode: ProvisioningModeAPI,
			Result: OperationResult{
				Success: true,
				Data:    map[string]any{"verifiedVia": "oauth_token_presence"},
			},
		}
		fields["result"] = "auto_verified"
		s.recordActivity(ctx, req, operation, ActivityStatusOK, "verified via oauth token presence")
		s.advanceAccessItem(ctx, req.AccessItemID, operation, outcome)
		return outcome, nil
	}

	if !capability.Flag(flag) || !s.plugins.Has(manifest.PlatformKey) {
		steps := BuildManualInstructions(ManualInstructionsInput{
			Manifest:       manifest,
			AccessItemType: provisioning.AccessItemType,
			Identity:       provisioning.Identity,
			RoleLabel:      provisioning.Role,
			TargetLabel:    provisioning.Target,
			Pam:            provisioning.Pam,
		})
		outcome = OperationOutcome{
			Mode:         ProvisioningModeManual,
			Instructions: steps,
		}
		fields["result"] = "manual"
		s.recordActivity(ctx, req, operation, ActivityStatusManual, "capability not automated, manual instructions issued")
		s.advanceAccessItem(ctx, req.AccessItemID, operation, outcome)
		return outcome, nil
	}

	plugin, err := s.plugins.Get(manifest.PlatformKey)
	if err != nil {
		err = s.mapError(err)
		return OperationOutcome{}, err
	}

	var result OperationResult
	switch operation {
	case "grant":
		result, err = plugin.GrantAccess(ctx, provisioning)
	case "verify":
		result, err = plugin.VerifyAccess(ctx, provisioning)
	case "revoke":
		result, err = plugin.RevokeAccess(ctx, provisioning)
	default:
		err = fmt.Errorf("core: unknown operation %q", operation)
	}
	if err != nil {
		err = s.mapError(err)
		s.recordActivity(ctx, req, operation, ActivityStatusError, err.Error())
		return OperationOutcome{}, err
	}

	outcome = OperationOutcome{Mode: ProvisioningModeAPI, Result: result}
	status := ActivityStatusOK
	detail := ""
	if !result.Success {
		status = ActivityStatusError
		detail = result.Error
		fields["result"] = "failed"
	}
	s.recordActivity(ctx, req, operation, status, detail)
	s.advanceAccessItem(ctx, req.AccessItemID, operation, outcome)
	return outcome, nil
}

func (s *Service) autoVerifyApplies(manifest PlatformManifest, req ProvisioningRequest) bool {
	if !s.config.Verification.AutoVerifyWithOAuth {
		return false
	}
	if !manifest.Automation.OAuthSupported {
		return false
	}
	return strings.TrimSpace(req.Auth.AccessToken) != ""
}

func (s *Service) storedPamConfig(ctx context.Context, agencyID, platformKey string) *PamConfig {
	if s.agencyPlatformStore == nil || strings.TrimSpace(agencyID) == "" {
		return nil
	}
	record, err := s.agencyPlatformStore.Get(ctx, agencyID, platformKey)
	if err != nil {
		return nil
	}
	return record.Pam
}

func (s *Service) advanceAccessItem(ctx context.Context, accessItemID, operation string, outcome OperationOutcome) {
	if s.accessItemStore == nil || strings.TrimSpace(accessItemID) == "" {
		return
	}
	var status AccessItemStatus
	reason := ""
	switch {
	case outcome.Mode == ProvisioningModeManual:
		status = AccessItemStatusPendingEvidence
	case !outcome.Result.Success:
		status = AccessItemStatusFailed
		reason = outcome.Result.Error
	case operation == "grant":
		status = AccessItemStatusGranted
	case operation == "verify":
		status = AccessItemStatusVerified
	case operation == "revoke":
		status = AccessItemStatusRevoked
	default:
		return
	}
	if _, err := s.accessItemStore.UpdateStatus(ctx, accessItemID, status, reason); err != nil {
		s.logError(ctx, "access item status update failed", map[string]any{
			"access_item_id": accessItemID,
			"status":         string(status),
			"error":          err.Error(),
		})
	}
}

func (s *Service) recordActivity(ctx context.Context, req OperationRequest, operation string, status ActivityStatus, detail string) {
	if s.activitySink == nil {
		return
	}
	entry := ActivityEntry{
		ID:          uuid.NewString(),
		AgencyID:    strings.TrimSpace(req.AgencyID),
		PlatformKey: strings.TrimSpace(req.PlatformKey),
		Operation:   operation,
		AccessType:  req.Request.AccessItemType.Normalize(),
		Identity:    strings.TrimSpace(req.Request.Identity),
		Status:      status,
		Detail:      detail,
		Metadata:    copyAnyMap(req.Request.Metadata),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.activitySink.Record(ctx, entry); err != nil {
		s.logError(ctx, "activity record failed", map[string]any{
			"operation": operation,
			"error":     err.Error(),
		})
	}
}

// ResolveCapability resolves the effective capability block for an access
// item type on a platform under an optional PAM configuration.
func (s *Service) ResolveCapability(ctx context.Context, platformKey string, itemType AccessItemType, pam *PamConfig) (Capability, error) {
	manifest, err := s.manifests.Get(platformKey)
	if err != nil {
		return Capability{}, s.mapError(err)
	}
	var pamCtx CapabilityContext
	if pam != nil {
		if validateErr := pam.Validate(); validateErr != nil {
			return Capability{}, s.mapError(validateErr)
		}
		pamCtx = pam.Context()
	}
	return EffectiveCapabilities(manifest, itemType, pamCtx), nil
}

// Manifest returns the catalog entry for a platform.
func (s *Service) Manifest(ctx context.Context, platformKey string) (PlatformManifest, error) {
	manifest, err := s.manifests.Get(platformKey)
	if err != nil {
		return PlatformManifest{}, s.mapError(err)
	}
	return manifest, nil
}

// Manifests returns the full catalog sorted by platform key.
func (s *Service) Manifests(ctx context.Context) []PlatformManifest {
	if s == nil || s.manifests == nil {
		return nil
	}
	return s.manifests.List()
}

// ManualInstructions builds the manual provisioning walkthrough for an access
// type on a platform without running an operation.
func (s *Service) ManualInstructions(ctx context.Context, platformKey string, itemType AccessItemType, req ProvisioningRequest) ([]InstructionStep, error) {
	manifest, err := s.manifests.Get(platformKey)
	if err != nil {
		return nil, s.mapError(err)
	}
	return BuildManualInstructions(ManualInstructionsInput{
		Manifest:       manifest,
		AccessItemType: itemType,
		Identity:       req.Identity,
		RoleLabel:      req.Role,
		TargetLabel:    req.Target,
		Pam:            req.Pam,
	}), nil
}

// RecordEvidence persists a manual-flow artifact reference and, when the
// record points at a tracked access item, advances it out of pending
// evidence.
func (s *Service) RecordEvidence(ctx context.Context, record EvidenceRecord) (saved EvidenceRecord, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"platform_key":   record.PlatformKey,
		"access_item_id": record.AccessItemID,
		"kind":           string(record.Kind),
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "record_evidence", err, fields)
	}()

	if strings.TrimSpace(record.ArtifactRef) == "" {
		err = s.mapError(fmt.Errorf("core: evidence artifact reference is required"))
		return EvidenceRecord{}, err
	}
	if record.Kind == "" {
		record.Kind = EvidenceKindScreenshot
	}
	if strings.TrimSpace(record.ID) == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	saved, err = s.evidenceStore.Save(ctx, record)
	if err != nil {
		err = s.mapError(err)
		return EvidenceRecord{}, err
	}

	if s.accessItemStore != nil && strings.TrimSpace(record.AccessItemID) != "" {
		if _, updateErr := s.accessItemStore.UpdateStatus(ctx, record.AccessItemID, AccessItemStatusGranted, ""); updateErr != nil {
			s.logError(ctx, "access item status update failed", map[string]any{
				"access_item_id": record.AccessItemID,
				"error":          updateErr.Error(),
			})
		}
	}
	return saved, nil
}

// UpsertAgencyPlatform stores an agency's platform configuration after
// validating its PAM shape.
func (s *Service) UpsertAgencyPlatform(ctx context.Context, record AgencyPlatform) (saved AgencyPlatform, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"platform_key": record.PlatformKey,
		"agency_id":    record.AgencyID,
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "upsert_agency_platform", err, fields)
	}()

	if strings.TrimSpace(record.AgencyID) == "" {
		err = s.mapError(fmt.Errorf("core: agency id is required"))
		return AgencyPlatform{}, err
	}
	if !s.manifests.Has(record.PlatformKey) {
		err = s.mapError(fmt.Errorf("%w: %s", ErrManifestNotFound, record.PlatformKey))
		return AgencyPlatform{}, err
	}
	if record.Pam != nil {
		if pamErr := record.Pam.Validate(); pamErr != nil {
			err = s.mapError(pamErr)
			return AgencyPlatform{}, err
		}
		manifest, _ := s.manifests.Get(record.PlatformKey)
		if len(manifest.AllowedOwnershipModels) > 0 && !manifest.AllowsOwnership(record.Pam.Ownership) {
			err = s.mapError(fmt.Errorf(
				"%w: ownership %s is not allowed on %s",
				ErrInvalidPamConfig, record.Pam.Ownership, manifest.Label(),
			))
			return AgencyPlatform{}, err
		}
	}
	if strings.TrimSpace(record.ID) == "" {
		record.ID = uuid.NewString()
	}
	record.UpdatedAt = time.Now().UTC()

	saved, err = s.agencyPlatformStore.Upsert(ctx, record)
	if err != nil {
		err = s.mapError(err)
		return AgencyPlatform{}, err
	}
	return saved, nil
}

// AgencyPlatforms lists an agency's stored platform configurations.
func (s *Service) AgencyPlatforms(ctx context.Context, agencyID string) ([]AgencyPlatform, error) {
	if strings.TrimSpace(agencyID) == "" {
		return nil, s.mapError(fmt.Errorf("core: agency id is required"))
	}
	records, err := s.agencyPlatformStore.ListByAgency(ctx, agencyID)
	if err != nil {
		return nil, s.mapError(err)
	}
	return records, nil
}

// ListActivity pages through recorded operation activity.
func (s *Service) ListActivity(ctx context.Context, filter ActivityFilter) (ActivityPage, error) {
	if s.activitySink == nil {
		return ActivityPage{}, s.mapError(fmt.Errorf("core: activity sink is not configured"))
	}
	page, err := s.activitySink.List(ctx, filter)
	if err != nil {
		return ActivityPage{}, s.mapError(err)
	}
	return page, nil
}

func (s *Service) mapError(err error) error {
	if err == nil {
		return nil
	}
	if s == nil || s.errorMapper == nil {
		return err
	}
	mapped := s.errorMapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func copyAnyMap(in map[string]any) map[string]any {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
