package command

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-access/core"
	gocmd "github.com/goliatone/go-command"
)

type stubMutatingService struct {
	grantFn          func(context.Context, core.OperationRequest) (core.OperationOutcome, error)
	verifyFn         func(context.Context, core.OperationRequest) (core.OperationOutcome, error)
	revokeFn         func(context.Context, core.OperationRequest) (core.OperationOutcome, error)
	recordEvidenceFn func(context.Context, core.EvidenceRecord) (core.EvidenceRecord, error)
	upsertFn         func(context.Context, core.AgencyPlatform) (core.AgencyPlatform, error)
}

func (s stubMutatingService) Grant(ctx context.Context, req core.OperationRequest) (core.OperationOutcome, error) {
	if s.grantFn == nil {
		return core.OperationOutcome{}, nil
	}
	return s.grantFn(ctx, req)
}

func (s stubMutatingService) Verify(ctx context.Context, req core.OperationRequest) (core.OperationOutcome, error) {
	if s.verifyFn == nil {
		return core.OperationOutcome{}, nil
	}
	return s.verifyFn(ctx, req)
}

func (s stubMutatingService) Revoke(ctx context.Context, req core.OperationRequest) (core.OperationOutcome, error) {
	if s.revokeFn == nil {
		return core.OperationOutcome{}, nil
	}
	return s.revokeFn(ctx, req)
}

func (s stubMutatingService) RecordEvidence(ctx context.Context, record core.EvidenceRecord) (core.EvidenceRecord, error) {
	if s.recordEvidenceFn == nil {
		return record, nil
	}
	return s.recordEvidenceFn(ctx, record)
}

func (s stubMutatingService) UpsertAgencyPlatform(ctx context.Context, record core.AgencyPlatform) (core.AgencyPlatform, error) {
	if s.upsertFn == nil {
		return record, nil
	}
	return s.upsertFn(ctx, record)
}

func TestGrantCommand_ExecuteDelegatesAndStoresResult(t *testing.T) {
	expected := core.OperationOutcome{
		Mode:   core.ProvisioningModeAPI,
		Result: core.OperationResult{Success: true},
	}
	called := false

	svc := stubMutatingService{
		grantFn: func(_ context.Context, req core.OperationRequest) (core.OperationOutcome, error) {
			called = true
			if req.PlatformKey != "ga4" {
				t.Fatalf("expected platform ga4, got %q", req.PlatformKey)
			}
			return expected, nil
		},
	}

	cmd := NewGrantCommand(svc)
	collector := gocmd.NewResult[core.OperationOutcome]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	err := cmd.Execute(ctx, GrantMessage{Request: core.OperationRequest{PlatformKey: "ga4"}})
	if err != nil {
		t.Fatalf("execute grant: %v", err)
	}
	if !called {
		t.Fatalf("expected grant service invocation")
	}
	result, ok := collector.Load()
	if !ok {
		t.Fatalf("expected result to be stored")
	}
	if result.Mode != expected.Mode || !result.Result.Success {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestMutationCommands_DelegateToService(t *testing.T) {
	t.Run("verify", func(t *testing.T) {
		called := false
		svc := stubMutatingService{
			verifyFn: func(_ context.Context, req core.OperationRequest) (core.OperationOutcome, error) {
				called = true
				return core.OperationOutcome{}, nil
			},
		}
		if err := NewVerifyCommand(svc).Execute(context.Background(), VerifyMessage{
			Request: core.OperationRequest{PlatformKey: "ga4"},
		}); err != nil {
			t.Fatalf("execute verify: %v", err)
		}
		if !called {
			t.Fatalf("expected verify invocation")
		}
	})

	t.Run("revoke", func(t *testing.T) {
		called := false
		svc := stubMutatingService{
			revokeFn: func(_ context.Context, req core.OperationRequest) (core.OperationOutcome, error) {
				called = true
				return core.OperationOutcome{}, nil
			},
		}
		if err := NewRevokeCommand(svc).Execute(context.Background(), RevokeMessage{
			Request: core.OperationRequest{PlatformKey: "ga4"},
		}); err != nil {
			t.Fatalf("execute revoke: %v", err)
		}
		if !called {
			t.Fatalf("expected revoke invocation")
		}
	})

	t.Run("record evidence", func(t *testing.T) {
		svc := stubMutatingService{
			recordEvidenceFn: func(_ context.Context, record core.EvidenceRecord) (core.EvidenceRecord, error) {
				record.ID = "ev-1"
				return record, nil
			},
		}
		cmd := NewRecordEvidenceCommand(svc)
		collector := gocmd.NewResult[core.EvidenceRecord]()
		ctx := gocmd.ContextWithResult(context.Background(), collector)

		if err := cmd.Execute(ctx, RecordEvidenceMessage{Record: core.EvidenceRecord{
			PlatformKey: "ga4",
			ArtifactRef: "s3://evidence/abc.png",
		}}); err != nil {
			t.Fatalf("execute record evidence: %v", err)
		}
		saved, ok := collector.Load()
		if !ok || saved.ID != "ev-1" {
			t.Fatalf("expected stored record, got %#v", saved)
		}
	})

	t.Run("upsert agency platform", func(t *testing.T) {
		called := false
		svc := stubMutatingService{
			upsertFn: func(_ context.Context, record core.AgencyPlatform) (core.AgencyPlatform, error) {
				called = true
				return record, nil
			},
		}
		if err := NewUpsertAgencyPlatformCommand(svc).Execute(context.Background(), UpsertAgencyPlatformMessage{
			Record: core.AgencyPlatform{AgencyID: "agency-1", PlatformKey: "ga4"},
		}); err != nil {
			t.Fatalf("execute upsert: %v", err)
		}
		if !called {
			t.Fatalf("expected upsert invocation")
		}
	})
}

func TestCommands_PropagateServiceErrors(t *testing.T) {
	wantErr := errors.New("boom")
	svc := stubMutatingService{
		grantFn: func(context.Context, core.OperationRequest) (core.OperationOutcome, error) {
			return core.OperationOutcome{}, wantErr
		},
	}
	err := NewGrantCommand(svc).Execute(context.Background(), GrantMessage{
		Request: core.OperationRequest{PlatformKey: "ga4"},
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected propagated error, got %v", err)
	}
}

func TestCommands_NilServiceFails(t *testing.T) {
	var cmd *GrantCommand
	if err := cmd.Execute(context.Background(), GrantMessage{}); err == nil {
		t.Fatalf("nil command must fail")
	}
	if err := NewGrantCommand(nil).Execute(context.Background(), GrantMessage{}); err == nil {
		t.Fatalf("nil service must fail")
	}
}

func TestMessageValidation(t *testing.T) {
	if err := (GrantMessage{}).Validate(); err == nil {
		t.Fatalf("empty grant message must fail validation")
	}
	if err := (GrantMessage{Request: core.OperationRequest{PlatformKey: "ga4"}}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := (RecordEvidenceMessage{Record: core.EvidenceRecord{PlatformKey: "ga4"}}).Validate(); err == nil {
		t.Fatalf("missing artifact must fail validation")
	}

	msg := UpsertAgencyPlatformMessage{Record: core.AgencyPlatform{
		AgencyID:    "agency-1",
		PlatformKey: "ga4",
		Pam: &core.PamConfig{
			Ownership:   core.PamOwnershipClientOwned,
			GrantMethod: core.PamGrantMethodInviteAgencyIdentity,
		},
	}}
	if err := msg.Validate(); err == nil {
		t.Fatalf("invalid pam config must fail validation")
	}
}
