package sqlstore_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/goliatone/go-access/core"
	sqlstore "github.com/goliatone/go-access/store/sql"
	persistence "github.com/goliatone/go-persistence-bun"
)

func newSQLiteClient(t *testing.T) (*persistence.Client, func()) {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:access-test-%d?mode=memory&cache=shared&_foreign_keys=on",
		time.Now().UnixNano(),
	)
	client, err := sqlstore.Open(context.Background(), sqlstore.Config{
		Driver:       sqlstore.DriverSQLite,
		DSN:          dsn,
		MaxOpenConns: 1,
	})
	if err != nil {
		t.Fatalf("open sqlite client: %v", err)
	}

	return client, func() {
		_ = client.Close()
	}
}

func TestOpenRejectsBadConfig(t *testing.T) {
	ctx := context.Background()
	if _, err := sqlstore.Open(ctx, sqlstore.Config{DSN: "file:x"}); err == nil {
		t.Fatalf("expected missing driver error")
	}
	if _, err := sqlstore.Open(ctx, sqlstore.Config{Driver: sqlstore.DriverSQLite}); err == nil {
		t.Fatalf("expected missing dsn error")
	}
	if _, err := sqlstore.Open(ctx, sqlstore.Config{Driver: "oracle", DSN: "x"}); err == nil {
		t.Fatalf("expected unsupported driver error")
	}
}

func newFactory(t *testing.T) (*sqlstore.RepositoryFactory, func()) {
	t.Helper()
	client, cleanup := newSQLiteClient(t)
	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client)
	if err != nil {
		cleanup()
		t.Fatalf("new repository factory: %v", err)
	}
	return factory, cleanup
}

func TestMigrationSmokeApplySQLite(t *testing.T) {
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	for _, table := range []string{
		"access_agency_platforms",
		"access_items",
		"access_evidence_records",
		"access_activity_entries",
	} {
		var tableName string
		if err := client.DB().NewRaw(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?",
			table,
		).Scan(context.Background(), &tableName); err != nil {
			t.Fatalf("query sqlite master for %s: %v", table, err)
		}
		if tableName != table {
			t.Fatalf("expected %s table, got %q", table, tableName)
		}
	}
}

func TestAgencyPlatformStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	factory, cleanup := newFactory(t)
	defer cleanup()

	store := factory.AgencyPlatformStore()
	if store == nil {
		t.Fatalf("expected agency platform store from factory")
	}

	created, err := store.Upsert(ctx, core.AgencyPlatform{
		AgencyID:    "agency-1",
		PlatformKey: "ga4",
		Enabled:     true,
		Pam: &core.PamConfig{
			Ownership:           core.PamOwnershipAgencyOwned,
			GrantMethod:         core.PamGrantMethodInviteAgencyIdentity,
			AgencyIdentityEmail: "ops@agency.example",
			IdentityPurpose:     core.IdentityPurposeHumanInteractive,
			Checkout:            &core.CheckoutPolicy{DurationMinutes: 45},
			Rotation: &core.RotationPolicy{
				Trigger: core.RotationTriggerOnCheckin,
			},
		},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}

	loaded, err := store.Get(ctx, "agency-1", "ga4")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Pam == nil {
		t.Fatalf("expected pam config to round trip")
	}
	if loaded.Pam.Ownership != core.PamOwnershipAgencyOwned {
		t.Fatalf("unexpected ownership %q", loaded.Pam.Ownership)
	}
	if loaded.Pam.Checkout == nil || loaded.Pam.Checkout.DurationMinutes != 45 {
		t.Fatalf("expected checkout policy to round trip, got %#v", loaded.Pam.Checkout)
	}
	if loaded.Pam.Rotation == nil || loaded.Pam.Rotation.Trigger != core.RotationTriggerOnCheckin {
		t.Fatalf("expected rotation policy to round trip, got %#v", loaded.Pam.Rotation)
	}
	if err := loaded.Pam.Validate(); err != nil {
		t.Fatalf("round-tripped pam config must validate: %v", err)
	}

	updated, err := store.Upsert(ctx, core.AgencyPlatform{
		AgencyID:    "agency-1",
		PlatformKey: "ga4",
		Enabled:     false,
		Pam: &core.PamConfig{
			Ownership:   core.PamOwnershipClientOwned,
			GrantMethod: core.PamGrantMethodCredentialHandoff,
		},
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("expected upsert to update in place, got new id %q", updated.ID)
	}
	if updated.Enabled {
		t.Fatalf("expected enabled=false after update")
	}
	if updated.Pam == nil || updated.Pam.Ownership != core.PamOwnershipClientOwned {
		t.Fatalf("expected pam replacement, got %#v", updated.Pam)
	}

	if _, err := store.Upsert(ctx, core.AgencyPlatform{
		AgencyID:    "agency-1",
		PlatformKey: "meta_ads",
		Enabled:     true,
	}); err != nil {
		t.Fatalf("upsert second platform: %v", err)
	}

	records, err := store.ListByAgency(ctx, "agency-1")
	if err != nil {
		t.Fatalf("list by agency: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].PlatformKey != "ga4" || records[1].PlatformKey != "meta_ads" {
		t.Fatalf("expected platform_key ordering, got %q then %q", records[0].PlatformKey, records[1].PlatformKey)
	}

	if err := store.Delete(ctx, "agency-1", "ga4"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "agency-1", "ga4"); !errors.Is(err, core.ErrAgencyPlatformNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestAccessItemStore_LifecycleTransitions(t *testing.T) {
	ctx := context.Background()
	factory, cleanup := newFactory(t)
	defer cleanup()

	store := factory.AccessItemStore()
	if store == nil {
		t.Fatalf("expected access item store from factory")
	}

	item, err := store.Save(ctx, core.AccessItem{
		AgencyID:       "agency-1",
		PlatformKey:    "ga4",
		AccessItemType: core.AccessItemTypeNamedInvite,
		Role:           "editor",
		Identity:       "ops@agency.example",
		Target:         "properties/1234",
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if item.Status != core.AccessItemStatusRequested {
		t.Fatalf("expected requested default status, got %q", item.Status)
	}

	provisioning, err := store.UpdateStatus(ctx, item.ID, core.AccessItemStatusProvisioning, "")
	if err != nil {
		t.Fatalf("advance to provisioning: %v", err)
	}
	if provisioning.Status != core.AccessItemStatusProvisioning {
		t.Fatalf("unexpected status %q", provisioning.Status)
	}

	failed, err := store.UpdateStatus(ctx, item.ID, core.AccessItemStatusFailed, "invite bounced")
	if err != nil {
		t.Fatalf("advance to failed: %v", err)
	}
	if failed.LastError != "invite bounced" {
		t.Fatalf("expected failure reason to persist, got %q", failed.LastError)
	}

	granted, err := store.UpdateStatus(ctx, item.ID, core.AccessItemStatusProvisioning, "")
	if err != nil {
		t.Fatalf("retry from failed: %v", err)
	}
	granted, err = store.UpdateStatus(ctx, granted.ID, core.AccessItemStatusGranted, "")
	if err != nil {
		t.Fatalf("advance to granted: %v", err)
	}
	if granted.LastError != "" {
		t.Fatalf("expected granted transition to clear last error, got %q", granted.LastError)
	}

	if _, err := store.UpdateStatus(ctx, item.ID, core.AccessItemStatusRequested, ""); err == nil {
		t.Fatalf("expected invalid transition granted->requested to fail")
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, core.ErrAccessItemNotFound) {
		t.Fatalf("expected not found sentinel, got %v", err)
	}

	items, err := store.ListByAgency(ctx, "agency-1")
	if err != nil {
		t.Fatalf("list by agency: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
}

func TestEvidenceStore_SaveAndListByAccessItem(t *testing.T) {
	ctx := context.Background()
	factory, cleanup := newFactory(t)
	defer cleanup()

	store := factory.EvidenceStore()
	if store == nil {
		t.Fatalf("expected evidence store from factory")
	}

	first, err := store.Save(ctx, core.EvidenceRecord{
		AccessItemID: "item-1",
		PlatformKey:  "linkedin_ads",
		Kind:         core.EvidenceKindScreenshot,
		ArtifactRef:  "s3://evidence/one.png",
		SubmittedBy:  "ops@agency.example",
	})
	if err != nil {
		t.Fatalf("save first: %v", err)
	}
	if first.ID == "" {
		t.Fatalf("expected generated evidence id")
	}

	if _, err := store.Save(ctx, core.EvidenceRecord{
		AccessItemID: "item-1",
		PlatformKey:  "linkedin_ads",
		Kind:         core.EvidenceKindAttestation,
		ArtifactRef:  "s3://evidence/two.pdf",
	}); err != nil {
		t.Fatalf("save second: %v", err)
	}

	if _, err := store.Save(ctx, core.EvidenceRecord{PlatformKey: "ga4"}); err == nil {
		t.Fatalf("expected artifact ref requirement")
	}

	loaded, err := store.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.ArtifactRef != "s3://evidence/one.png" {
		t.Fatalf("unexpected artifact ref %q", loaded.ArtifactRef)
	}

	records, err := store.ListByAccessItem(ctx, "item-1")
	if err != nil {
		t.Fatalf("list by access item: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 evidence records, got %d", len(records))
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, core.ErrEvidenceNotFound) {
		t.Fatalf("expected not found sentinel, got %v", err)
	}
}

func TestActivityStore_RecordAndFilter(t *testing.T) {
	ctx := context.Background()
	factory, cleanup := newFactory(t)
	defer cleanup()

	sink := factory.ActivitySink()
	if sink == nil {
		t.Fatalf("expected activity sink from factory")
	}

	entries := []core.ActivityEntry{
		{
			AgencyID:    "agency-1",
			PlatformKey: "ga4",
			Operation:   "grant",
			AccessType:  core.AccessItemTypeNamedInvite,
			Identity:    "ops@agency.example",
			Status:      core.ActivityStatusOK,
			Metadata:    map[string]any{"ticket": "PROV-101"},
		},
		{
			AgencyID:    "agency-1",
			PlatformKey: "ga4",
			Operation:   "verify",
			AccessType:  core.AccessItemTypeNamedInvite,
			Status:      core.ActivityStatusError,
			Detail:      "api timeout",
		},
		{
			AgencyID:    "agency-2",
			PlatformKey: "meta_ads",
			Operation:   "grant",
			AccessType:  core.AccessItemTypePartnerDelegation,
			Status:      core.ActivityStatusManual,
		},
	}
	for i, entry := range entries {
		if err := sink.Record(ctx, entry); err != nil {
			t.Fatalf("record entry %d: %v", i, err)
		}
	}

	page, err := sink.List(ctx, core.ActivityFilter{AgencyID: "agency-1"})
	if err != nil {
		t.Fatalf("list agency-1: %v", err)
	}
	if page.Total != 2 || len(page.Items) != 2 {
		t.Fatalf("expected 2 agency-1 entries, got total=%d items=%d", page.Total, len(page.Items))
	}

	errorsOnly, err := sink.List(ctx, core.ActivityFilter{Status: core.ActivityStatusError})
	if err != nil {
		t.Fatalf("list errors: %v", err)
	}
	if errorsOnly.Total != 1 || errorsOnly.Items[0].Detail != "api timeout" {
		t.Fatalf("unexpected error page: %#v", errorsOnly)
	}

	paged, err := sink.List(ctx, core.ActivityFilter{Page: 1, PerPage: 2})
	if err != nil {
		t.Fatalf("list paged: %v", err)
	}
	if len(paged.Items) != 2 || !paged.HasNext {
		t.Fatalf("expected first page of 2 with next, got items=%d hasNext=%v", len(paged.Items), paged.HasNext)
	}

	second, err := sink.List(ctx, core.ActivityFilter{Page: 2, PerPage: 2})
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if len(second.Items) != 1 || second.HasNext {
		t.Fatalf("expected final page of 1, got items=%d hasNext=%v", len(second.Items), second.HasNext)
	}

	withMetadata, err := sink.List(ctx, core.ActivityFilter{Operation: "grant", AgencyID: "agency-1"})
	if err != nil {
		t.Fatalf("list grant activity: %v", err)
	}
	if withMetadata.Total != 1 {
		t.Fatalf("expected single grant entry for agency-1, got %d", withMetadata.Total)
	}
	if value := withMetadata.Items[0].Metadata["ticket"]; value != "PROV-101" {
		t.Fatalf("expected metadata to round trip, got %v", value)
	}
}

func TestRepositoryFactory_RejectsUnsupportedClient(t *testing.T) {
	factory := sqlstore.NewRepositoryFactory()
	if _, err := factory.BuildStores(42); err == nil {
		t.Fatalf("expected unsupported client error")
	}
	if _, err := factory.BuildStores(nil); err == nil {
		t.Fatalf("expected nil client error")
	}
}
