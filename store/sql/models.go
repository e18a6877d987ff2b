package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

type agencyPlatformRecord struct {
	bun.BaseModel `bun:"table:access_agency_platforms,alias:aap"`

	ID          string           `bun:"id,pk"`
	AgencyID    string           `bun:"agency_id,notnull"`
	PlatformKey string           `bun:"platform_key,notnull"`
	Pam         *pamConfigRecord `bun:"pam,type:jsonb"`
	Enabled     bool             `bun:"enabled,notnull"`
	CreatedAt   time.Time        `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time        `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
	DeletedAt   *time.Time       `bun:"deleted_at,soft_delete"`
}

// pamConfigRecord is the stored projection of core.PamConfig, persisted as a
// JSON document so the ownership variants stay a single column.
type pamConfigRecord struct {
	Ownership                    string `json:"ownership"`
	GrantMethod                  string `json:"grant_method"`
	CheckoutDurationMinutes      int    `json:"checkout_duration_minutes,omitempty"`
	RotationTrigger              string `json:"rotation_trigger,omitempty"`
	RotationIntervalDays         int    `json:"rotation_interval_days,omitempty"`
	AgencyIdentityEmail          string `json:"agency_identity_email,omitempty"`
	IdentityPurpose              string `json:"identity_purpose,omitempty"`
	ProvisioningSource           string `json:"provisioning_source,omitempty"`
	RequiresDedicatedAgencyLogin bool   `json:"requires_dedicated_agency_login,omitempty"`
}

type accessItemRecord struct {
	bun.BaseModel `bun:"table:access_items,alias:ai"`

	ID             string    `bun:"id,pk"`
	AgencyID       string    `bun:"agency_id,notnull"`
	PlatformKey    string    `bun:"platform_key,notnull"`
	AccessItemType string    `bun:"access_item_type,notnull"`
	Role           string    `bun:"role"`
	Identity       string    `bun:"identity"`
	Target         string    `bun:"target"`
	Status         string    `bun:"status,notnull"`
	LastError      string    `bun:"last_error"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt      time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type evidenceRecordRow struct {
	bun.BaseModel `bun:"table:access_evidence_records,alias:aer"`

	ID           string    `bun:"id,pk"`
	AccessItemID string    `bun:"access_item_id"`
	PlatformKey  string    `bun:"platform_key,notnull"`
	Kind         string    `bun:"kind,notnull"`
	ArtifactRef  string    `bun:"artifact_ref,notnull"`
	SubmittedBy  string    `bun:"submitted_by"`
	Note         string    `bun:"note"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type activityEntryRecord struct {
	bun.BaseModel `bun:"table:access_activity_entries,alias:aae"`

	ID          string         `bun:"id,pk"`
	AgencyID    string         `bun:"agency_id"`
	PlatformKey string         `bun:"platform_key,notnull"`
	Operation   string         `bun:"operation,notnull"`
	AccessType  string         `bun:"access_type"`
	Identity    string         `bun:"identity"`
	Status      string         `bun:"status,notnull"`
	Detail      string         `bun:"detail"`
	Metadata    map[string]any `bun:"metadata,type:jsonb,notnull"`
	CreatedAt   time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
