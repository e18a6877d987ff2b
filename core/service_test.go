package core

import (
	"context"
	"strings"
	"testing"
)

type recordingPlugin struct {
	testPlugin
	granted  []ProvisioningRequest
	verified []ProvisioningRequest
	revoked  []ProvisioningRequest
}

func (p *recordingPlugin) GrantAccess(_ context.Context, req ProvisioningRequest) (OperationResult, error) {
	p.granted = append(p.granted, req)
	return OperationResult{Success: true, Data: map[string]any{"bindingId": "b-1"}}, nil
}

func (p *recordingPlugin) VerifyAccess(_ context.Context, req ProvisioningRequest) (OperationResult, error) {
	p.verified = append(p.verified, req)
	return OperationResult{Success: true}, nil
}

func (p *recordingPlugin) RevokeAccess(_ context.Context, req ProvisioningRequest) (OperationResult, error) {
	p.revoked = append(p.revoked, req)
	return OperationResult{Success: true}, nil
}

func newTestService(t *testing.T, cfg Config, plugin Plugin) *Service {
	t.Helper()

	registry, err := NewManifestRegistry(testManifest())
	if err != nil {
		t.Fatalf("build manifest registry: %v", err)
	}
	plugins := NewPluginRegistry()
	if plugin != nil {
		if err := plugins.Register(plugin); err != nil {
			t.Fatalf("register plugin: %v", err)
		}
	}

	service, err := NewService(cfg,
		WithManifestRegistry(registry),
		WithPluginRegistry(plugins),
	)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return service
}

func TestServiceGrant_RoutesToPlugin(t *testing.T) {
	plugin := &recordingPlugin{testPlugin: testPlugin{key: "ga4", manifest: testManifest()}}
	service := newTestService(t, Config{}, plugin)

	outcome, err := service.Grant(context.Background(), OperationRequest{
		PlatformKey: "ga4",
		AgencyID:    "agency-1",
		Request:     validRequest(),
	})
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if outcome.Mode != ProvisioningModeAPI {
		t.Fatalf("expected api mode, got %s", outcome.Mode)
	}
	if !outcome.Result.Success {
		t.Fatalf("expected success, got %+v", outcome.Result)
	}
	if len(plugin.granted) != 1 {
		t.Fatalf("expected 1 plugin call, got %d", len(plugin.granted))
	}

	page, err := service.ListActivity(context.Background(), ActivityFilter{AgencyID: "agency-1"})
	if err != nil {
		t.Fatalf("list activity: %v", err)
	}
	if page.Total != 1 || page.Items[0].Status != ActivityStatusOK {
		t.Fatalf("expected one ok activity entry, got %+v", page)
	}
}

func TestServiceGrant_ValidationFailuresAreData(t *testing.T) {
	plugin := &recordingPlugin{testPlugin: testPlugin{key: "ga4", manifest: testManifest()}}
	service := newTestService(t, Config{}, plugin)

	outcome, err := service.Grant(context.Background(), OperationRequest{
		PlatformKey: "ga4",
		AgencyID:    "agency-1",
		Request:     ProvisioningRequest{},
	})
	if err != nil {
		t.Fatalf("validation failures must not surface as errors: %v", err)
	}
	if outcome.Result.Success {
		t.Fatalf("expected failed result, got %+v", outcome.Result)
	}
	if !strings.Contains(outcome.Result.Error, "OAuth access token is required") {
		t.Fatalf("expected accumulated messages, got %q", outcome.Result.Error)
	}
	if len(plugin.granted) != 0 {
		t.Fatalf("plugin must not run on invalid input")
	}

	page, err := service.ListActivity(context.Background(), ActivityFilter{Status: ActivityStatusBlocked})
	if err != nil {
		t.Fatalf("list activity: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected one blocked entry, got %d", page.Total)
	}
}

func TestServiceGrant_SharedAccountAlwaysBlocked(t *testing.T) {
	plugin := &recordingPlugin{testPlugin: testPlugin{key: "ga4", manifest: testManifest()}}
	service := newTestService(t, Config{}, plugin)

	req := validRequest()
	req.AccessItemType = AccessItemTypeSharedAccount
	req.Pam = &PamConfig{
		Ownership:           PamOwnershipAgencyOwned,
		GrantMethod:         PamGrantMethodInviteAgencyIdentity,
		AgencyIdentityEmail: "svc@agency.example",
		IdentityPurpose:     IdentityPurposeHumanInteractive,
	}

	outcome, err := service.Grant(context.Background(), OperationRequest{
		PlatformKey: "ga4",
		Request:     req,
	})
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if outcome.Result.Success {
		t.Fatalf("shared account must never grant via API")
	}
	if !strings.Contains(outcome.Result.Error, "SHARED_ACCOUNT") {
		t.Fatalf("expected shared account block, got %q", outcome.Result.Error)
	}
	if len(plugin.granted) != 0 {
		t.Fatalf("plugin must not run for shared accounts")
	}
}

func TestServiceGrant_ManualFallbackWhenNotAutomated(t *testing.T) {
	// No plugin registered for the platform: the service falls back to
	// manual instructions instead of failing.
	service := newTestService(t, Config{}, nil)

	outcome, err := service.Grant(context.Background(), OperationRequest{
		PlatformKey: "ga4",
		Request:     validRequest(),
	})
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if outcome.Mode != ProvisioningModeManual {
		t.Fatalf("expected manual mode, got %s", outcome.Mode)
	}
	if len(outcome.Instructions) == 0 {
		t.Fatalf("expected instruction steps")
	}

	page, err := service.ListActivity(context.Background(), ActivityFilter{Status: ActivityStatusManual})
	if err != nil {
		t.Fatalf("list activity: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected one manual entry, got %d", page.Total)
	}
}

func TestServiceVerify_AutoVerifyWithOAuth(t *testing.T) {
	manifest := testManifest()
	// Platform supports OAuth but cannot verify through the API.
	manifest.CapabilityRules[0].Base.CanVerifyAccess = false

	registry, err := NewManifestRegistry(manifest)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}

	service, err := NewService(
		Config{Verification: VerificationConfig{AutoVerifyWithOAuth: true}},
		WithManifestRegistry(registry),
	)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	outcome, err := service.Verify(context.Background(), OperationRequest{
		PlatformKey: "ga4",
		Request:     validRequest(),
	})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !outcome.Result.Success {
		t.Fatalf("expected auto verification, got %+v", outcome)
	}
	if outcome.Result.Data["verifiedVia"] != "oauth_token_presence" {
		t.Fatalf("expected oauth token presence marker, got %+v", outcome.Result.Data)
	}
}

func TestServiceVerify_AutoVerifyDisabledFallsBackManual(t *testing.T) {
	manifest := testManifest()
	manifest.CapabilityRules[0].Base.CanVerifyAccess = false

	registry, err := NewManifestRegistry(manifest)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	service, err := NewService(Config{}, WithManifestRegistry(registry))
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	outcome, err := service.Verify(context.Background(), OperationRequest{
		PlatformKey: "ga4",
		Request:     validRequest(),
	})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if outcome.Mode != ProvisioningModeManual {
		t.Fatalf("expected manual fallback with auto verify off, got %s", outcome.Mode)
	}
}

func TestServiceGrant_UsesStoredPamConfig(t *testing.T) {
	plugin := &recordingPlugin{testPlugin: testPlugin{key: "ga4", manifest: testManifest()}}
	service := newTestService(t, Config{}, plugin)

	_, err := service.UpsertAgencyPlatform(context.Background(), AgencyPlatform{
		AgencyID:    "agency-1",
		PlatformKey: "ga4",
		Enabled:     true,
		Pam: &PamConfig{
			Ownership:           PamOwnershipAgencyOwned,
			GrantMethod:         PamGrantMethodInviteAgencyIdentity,
			AgencyIdentityEmail: "svc@agency.example",
			IdentityPurpose:     IdentityPurposeHumanInteractive,
		},
	})
	if err != nil {
		t.Fatalf("upsert agency platform: %v", err)
	}

	_, err = service.Grant(context.Background(), OperationRequest{
		PlatformKey: "ga4",
		AgencyID:    "agency-1",
		Request:     validRequest(),
	})
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if len(plugin.granted) != 1 {
		t.Fatalf("expected plugin call, got %d", len(plugin.granted))
	}
	if plugin.granted[0].Pam == nil || plugin.granted[0].Pam.Ownership != PamOwnershipAgencyOwned {
		t.Fatalf("stored pam config should flow into the request, got %+v", plugin.granted[0].Pam)
	}
}

func TestServiceUpsertAgencyPlatform_Validation(t *testing.T) {
	service := newTestService(t, Config{}, nil)

	if _, err := service.UpsertAgencyPlatform(context.Background(), AgencyPlatform{
		PlatformKey: "ga4",
	}); err == nil {
		t.Fatalf("missing agency id must fail")
	}

	if _, err := service.UpsertAgencyPlatform(context.Background(), AgencyPlatform{
		AgencyID:    "agency-1",
		PlatformKey: "unknown",
	}); err == nil {
		t.Fatalf("unknown platform must fail")
	}

	if _, err := service.UpsertAgencyPlatform(context.Background(), AgencyPlatform{
		AgencyID:    "agency-1",
		PlatformKey: "ga4",
		Pam: &PamConfig{
			Ownership:   PamOwnershipClientOwned,
			GrantMethod: PamGrantMethodInviteAgencyIdentity,
		},
	}); err == nil {
		t.Fatalf("invalid pam config must fail")
	}
}

func TestServiceRecordEvidence_AdvancesAccessItem(t *testing.T) {
	service := newTestService(t, Config{}, nil)
	store := service.Dependencies().AccessItemStore

	item, err := store.Save(context.Background(), AccessItem{
		AgencyID:       "agency-1",
		PlatformKey:    "ga4",
		AccessItemType: AccessItemTypeSharedAccount,
		Status:         AccessItemStatusPendingEvidence,
	})
	if err != nil {
		t.Fatalf("save item: %v", err)
	}

	saved, err := service.RecordEvidence(context.Background(), EvidenceRecord{
		AccessItemID: item.ID,
		PlatformKey:  "ga4",
		Kind:         EvidenceKindScreenshot,
		ArtifactRef:  "s3://evidence/abc.png",
		SubmittedBy:  "ops@agency.example",
	})
	if err != nil {
		t.Fatalf("record evidence: %v", err)
	}
	if saved.ID == "" {
		t.Fatalf("expected generated evidence id")
	}

	updated, err := store.Get(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if updated.Status != AccessItemStatusGranted {
		t.Fatalf("evidence should advance item to granted, got %s", updated.Status)
	}
}

func TestServiceRecordEvidence_RequiresArtifact(t *testing.T) {
	service := newTestService(t, Config{}, nil)

	if _, err := service.RecordEvidence(context.Background(), EvidenceRecord{
		PlatformKey: "ga4",
	}); err == nil {
		t.Fatalf("missing artifact reference must fail")
	}
}

func TestServiceResolveCapability(t *testing.T) {
	service := newTestService(t, Config{}, nil)

	capability, err := service.ResolveCapability(context.Background(), "ga4", AccessItemTypeNamedInvite, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !capability.CanGrantAccess {
		t.Fatalf("expected grant capability, got %+v", capability)
	}

	if _, err := service.ResolveCapability(context.Background(), "missing", AccessItemTypeNamedInvite, nil); err == nil {
		t.Fatalf("unknown platform must fail")
	}
}
