package sqlstore

import (
	"time"

	"github.com/goliatone/go-access/core"
)

func newPamConfigRecord(pam *core.PamConfig) *pamConfigRecord {
	if pam == nil {
		return nil
	}
	record := &pamConfigRecord{
		Ownership:                    string(pam.Ownership),
		GrantMethod:                  string(pam.GrantMethod),
		AgencyIdentityEmail:          pam.AgencyIdentityEmail,
		IdentityPurpose:              string(pam.IdentityPurpose),
		ProvisioningSource:           pam.ProvisioningSource,
		RequiresDedicatedAgencyLogin: pam.RequiresDedicatedAgencyLogin,
	}
	if pam.Checkout != nil {
		record.CheckoutDurationMinutes = pam.Checkout.DurationMinutes
	}
	if pam.Rotation != nil {
		record.RotationTrigger = string(pam.Rotation.Trigger)
		record.RotationIntervalDays = pam.Rotation.IntervalDays
	}
	return record
}

func (r *pamConfigRecord) toDomain() *core.PamConfig {
	if r == nil {
		return nil
	}
	pam := &core.PamConfig{
		Ownership:                    core.PamOwnership(r.Ownership),
		GrantMethod:                  core.PamGrantMethod(r.GrantMethod),
		AgencyIdentityEmail:          r.AgencyIdentityEmail,
		IdentityPurpose:              core.IdentityPurpose(r.IdentityPurpose),
		ProvisioningSource:           r.ProvisioningSource,
		RequiresDedicatedAgencyLogin: r.RequiresDedicatedAgencyLogin,
	}
	if r.CheckoutDurationMinutes > 0 {
		pam.Checkout = &core.CheckoutPolicy{DurationMinutes: r.CheckoutDurationMinutes}
	}
	if r.RotationTrigger != "" {
		pam.Rotation = &core.RotationPolicy{
			Trigger:      core.RotationTrigger(r.RotationTrigger),
			IntervalDays: r.RotationIntervalDays,
		}
	}
	return pam
}

func newAgencyPlatformRecord(in core.AgencyPlatform, now time.Time) *agencyPlatformRecord {
	return &agencyPlatformRecord{
		ID:          in.ID,
		AgencyID:    in.AgencyID,
		PlatformKey: in.PlatformKey,
		Pam:         newPamConfigRecord(in.Pam),
		Enabled:     in.Enabled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (r *agencyPlatformRecord) toDomain() core.AgencyPlatform {
	if r == nil {
		return core.AgencyPlatform{}
	}
	return core.AgencyPlatform{
		ID:          r.ID,
		AgencyID:    r.AgencyID,
		PlatformKey: r.PlatformKey,
		Pam:         r.Pam.toDomain(),
		Enabled:     r.Enabled,
		UpdatedAt:   r.UpdatedAt,
	}
}

func newAccessItemRecord(item core.AccessItem, now time.Time) *accessItemRecord {
	createdAt := item.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = now
	}
	return &accessItemRecord{
		ID:             item.ID,
		AgencyID:       item.AgencyID,
		PlatformKey:    item.PlatformKey,
		AccessItemType: string(item.AccessItemType.Normalize()),
		Role:           item.Role,
		Identity:       item.Identity,
		Target:         item.Target,
		Status:         string(item.Status),
		LastError:      item.LastError,
		CreatedAt:      createdAt,
		UpdatedAt:      now,
	}
}

func (r *accessItemRecord) toDomain() core.AccessItem {
	if r == nil {
		return core.AccessItem{}
	}
	return core.AccessItem{
		ID:             r.ID,
		AgencyID:       r.AgencyID,
		PlatformKey:    r.PlatformKey,
		AccessItemType: core.AccessItemType(r.AccessItemType),
		Role:           r.Role,
		Identity:       r.Identity,
		Target:         r.Target,
		Status:         core.AccessItemStatus(r.Status),
		LastError:      r.LastError,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func newEvidenceRecordRow(record core.EvidenceRecord, now time.Time) *evidenceRecordRow {
	createdAt := record.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = now
	}
	return &evidenceRecordRow{
		ID:           record.ID,
		AccessItemID: record.AccessItemID,
		PlatformKey:  record.PlatformKey,
		Kind:         string(record.Kind),
		ArtifactRef:  record.ArtifactRef,
		SubmittedBy:  record.SubmittedBy,
		Note:         record.Note,
		CreatedAt:    createdAt,
	}
}

func (r *evidenceRecordRow) toDomain() core.EvidenceRecord {
	if r == nil {
		return core.EvidenceRecord{}
	}
	return core.EvidenceRecord{
		ID:           r.ID,
		AccessItemID: r.AccessItemID,
		PlatformKey:  r.PlatformKey,
		Kind:         core.EvidenceKind(r.Kind),
		ArtifactRef:  r.ArtifactRef,
		SubmittedBy:  r.SubmittedBy,
		Note:         r.Note,
		CreatedAt:    r.CreatedAt,
	}
}

func newActivityEntryRecord(entry core.ActivityEntry, now time.Time) *activityEntryRecord {
	createdAt := entry.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = now
	}
	return &activityEntryRecord{
		ID:          entry.ID,
		AgencyID:    entry.AgencyID,
		PlatformKey: entry.PlatformKey,
		Operation:   entry.Operation,
		AccessType:  string(entry.AccessType),
		Identity:    entry.Identity,
		Status:      string(entry.Status),
		Detail:      entry.Detail,
		Metadata:    copyAnyMap(entry.Metadata),
		CreatedAt:   createdAt,
	}
}

func (r *activityEntryRecord) toDomain() core.ActivityEntry {
	if r == nil {
		return core.ActivityEntry{}
	}
	return core.ActivityEntry{
		ID:          r.ID,
		AgencyID:    r.AgencyID,
		PlatformKey: r.PlatformKey,
		Operation:   r.Operation,
		AccessType:  core.AccessItemType(r.AccessType),
		Identity:    r.Identity,
		Status:      core.ActivityStatus(r.Status),
		Detail:      r.Detail,
		Metadata:    copyAnyMap(r.Metadata),
		CreatedAt:   r.CreatedAt,
	}
}

func copyAnyMap(in map[string]any) map[string]any {
	if len(in) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
