package access

import (
	"context"
	"testing"

	accesscommand "github.com/goliatone/go-access/command"
	"github.com/goliatone/go-access/core"
	accessquery "github.com/goliatone/go-access/query"
	gocmd "github.com/goliatone/go-command"
)

func TestNewFacade_WiresCommandsAndQueries(t *testing.T) {
	svc := &stubFacadeService{}
	activityReader := &stubFacadeActivityReader{}

	facade, err := NewFacade(svc, WithActivityReader(activityReader))
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}

	commands := facade.Commands()
	if commands.Grant == nil || commands.Revoke == nil || commands.UpsertAgencyPlatform == nil {
		t.Fatalf("expected command handlers to be wired")
	}
	queries := facade.Queries()
	if queries.ResolveCapability == nil || queries.ListActivity == nil || queries.ListManifests == nil {
		t.Fatalf("expected query handlers to be wired")
	}
}

func TestFacade_CommandAndQueryDelegation(t *testing.T) {
	svc := &stubFacadeService{}
	activityReader := &stubFacadeActivityReader{}

	facade, err := NewFacade(svc, WithActivityReader(activityReader))
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}

	collector := gocmd.NewResult[core.OperationOutcome]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)
	if err := facade.Commands().Revoke.Execute(ctx, accesscommand.RevokeMessage{
		Request: core.OperationRequest{PlatformKey: "ga4", AgencyID: "agency-1"},
	}); err != nil {
		t.Fatalf("execute revoke command: %v", err)
	}
	if svc.lastRevokePlatformKey != "ga4" || svc.lastRevokeAgencyID != "agency-1" {
		t.Fatalf("unexpected revoke delegation payload")
	}
	outcome, ok := collector.Load()
	if !ok {
		t.Fatalf("expected revoke outcome in result collector")
	}
	if outcome.Mode != core.ProvisioningModeAPI {
		t.Fatalf("unexpected revoke outcome: %#v", outcome)
	}

	capability, err := facade.Queries().ResolveCapability.Query(context.Background(), accessquery.ResolveCapabilityMessage{
		PlatformKey:    "ga4",
		AccessItemType: core.AccessItemTypeNamedInvite,
	})
	if err != nil {
		t.Fatalf("query resolve capability: %v", err)
	}
	if !capability.CanGrantAccess {
		t.Fatalf("unexpected capability query result: %#v", capability)
	}

	page, err := facade.Queries().ListActivity.Query(context.Background(), accessquery.ListActivityMessage{
		Filter: core.ActivityFilter{AgencyID: "agency-1", Page: 1, PerPage: 20},
	})
	if err != nil {
		t.Fatalf("query list activity: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("unexpected activity page result: %#v", page)
	}
}

func TestNewFacade_RequiresService(t *testing.T) {
	facade, err := NewFacade(nil)
	if err == nil {
		t.Fatalf("expected nil service error")
	}
	if facade != nil {
		t.Fatalf("expected nil facade on error")
	}
}

func TestNewFacade_ResolvesActivityReaderFromDependencies(t *testing.T) {
	sink := core.NewMemoryActivitySink()
	if err := sink.Record(context.Background(), core.ActivityEntry{
		AgencyID:    "agency-1",
		PlatformKey: "ga4",
		Operation:   "grant",
		Status:      core.ActivityStatusOK,
	}); err != nil {
		t.Fatalf("record activity: %v", err)
	}

	svc := &stubDependencyService{
		stubFacadeService: stubFacadeService{},
		deps:              core.ServiceDependencies{ActivitySink: sink},
	}
	facade, err := NewFacade(svc)
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}

	page, err := facade.Queries().ListActivity.Query(context.Background(), accessquery.ListActivityMessage{
		Filter: core.ActivityFilter{AgencyID: "agency-1"},
	})
	if err != nil {
		t.Fatalf("query list activity: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected activity reader resolved off dependencies, got %#v", page)
	}
}

type stubFacadeService struct {
	lastRevokePlatformKey string
	lastRevokeAgencyID    string
}

func (s *stubFacadeService) Grant(context.Context, core.OperationRequest) (core.OperationOutcome, error) {
	return core.OperationOutcome{Mode: core.ProvisioningModeAPI}, nil
}

func (s *stubFacadeService) Verify(context.Context, core.OperationRequest) (core.OperationOutcome, error) {
	return core.OperationOutcome{Mode: core.ProvisioningModeAPI}, nil
}

func (s *stubFacadeService) Revoke(_ context.Context, req core.OperationRequest) (core.OperationOutcome, error) {
	s.lastRevokePlatformKey = req.PlatformKey
	s.lastRevokeAgencyID = req.AgencyID
	return core.OperationOutcome{Mode: core.ProvisioningModeAPI}, nil
}

func (s *stubFacadeService) RecordEvidence(_ context.Context, record core.EvidenceRecord) (core.EvidenceRecord, error) {
	return record, nil
}

func (s *stubFacadeService) UpsertAgencyPlatform(_ context.Context, record core.AgencyPlatform) (core.AgencyPlatform, error) {
	return record, nil
}

func (s *stubFacadeService) ResolveCapability(context.Context, string, core.AccessItemType, *core.PamConfig) (core.Capability, error) {
	return core.Capability{CanGrantAccess: true, CanVerifyAccess: true}, nil
}

func (s *stubFacadeService) Manifest(context.Context, string) (core.PlatformManifest, error) {
	return core.PlatformManifest{PlatformKey: "ga4"}, nil
}

func (s *stubFacadeService) Manifests(context.Context) []core.PlatformManifest {
	return []core.PlatformManifest{{PlatformKey: "ga4"}}
}

func (s *stubFacadeService) ManualInstructions(context.Context, string, core.AccessItemType, core.ProvisioningRequest) ([]core.InstructionStep, error) {
	return []core.InstructionStep{{Title: "Invite the agency user"}}, nil
}

func (s *stubFacadeService) AgencyPlatforms(context.Context, string) ([]core.AgencyPlatform, error) {
	return nil, nil
}

type stubDependencyService struct {
	stubFacadeService
	deps core.ServiceDependencies
}

func (s *stubDependencyService) Dependencies() core.ServiceDependencies {
	return s.deps
}

type stubFacadeActivityReader struct{}

func (stubFacadeActivityReader) ListActivity(context.Context, core.ActivityFilter) (core.ActivityPage, error) {
	return core.ActivityPage{Total: 1}, nil
}
