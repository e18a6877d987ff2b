package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidAccessItemType             = errors.New("core: invalid access item type")
	ErrInvalidPamOwnership               = errors.New("core: invalid pam ownership")
	ErrInvalidPamGrantMethod             = errors.New("core: invalid pam grant method")
	ErrInvalidRotationPolicy             = errors.New("core: invalid rotation policy")
	ErrInvalidCheckoutPolicy             = errors.New("core: invalid checkout policy")
	ErrInvalidPamConfig                  = errors.New("core: invalid pam config")
	ErrInvalidAccessItemStatusTransition = errors.New("core: invalid access item status transition")
)

// AccessItemType is the closed set of access-granting mechanisms a platform
// can support. GROUP_SERVICE and PAM_SHARED_ACCOUNT are accepted on input as
// aliases and normalize to GROUP_ACCESS and SHARED_ACCOUNT respectively.
type AccessItemType string

const (
	AccessItemTypeNamedInvite       AccessItemType = "NAMED_INVITE"
	AccessItemTypeGroupAccess       AccessItemType = "GROUP_ACCESS"
	AccessItemTypeGroupService      AccessItemType = "GROUP_SERVICE"
	AccessItemTypePartnerDelegation AccessItemType = "PARTNER_DELEGATION"
	AccessItemTypeProxyToken        AccessItemType = "PROXY_TOKEN"
	AccessItemTypeSharedAccount     AccessItemType = "SHARED_ACCOUNT"
	AccessItemTypePamSharedAccount  AccessItemType = "PAM_SHARED_ACCOUNT"
)

// Normalize maps alias spellings onto their canonical variant. Unknown values
// pass through trimmed and upper-cased so validation can name them.
func (t AccessItemType) Normalize() AccessItemType {
	normalized := AccessItemType(strings.ToUpper(strings.TrimSpace(string(t))))
	switch normalized {
	case AccessItemTypeGroupService:
		return AccessItemTypeGroupAccess
	case AccessItemTypePamSharedAccount:
		return AccessItemTypeSharedAccount
	default:
		return normalized
	}
}

func (t AccessItemType) IsZero() bool {
	return strings.TrimSpace(string(t)) == ""
}

// IsShared reports whether the type names the privileged shared-account
// mechanism, which is never provisionable through the generic plugin path.
func (t AccessItemType) IsShared() bool {
	return t.Normalize() == AccessItemTypeSharedAccount
}

func ParseAccessItemType(value string) (AccessItemType, error) {
	normalized := AccessItemType(value).Normalize()
	switch normalized {
	case AccessItemTypeNamedInvite,
		AccessItemTypeGroupAccess,
		AccessItemTypePartnerDelegation,
		AccessItemTypeProxyToken,
		AccessItemTypeSharedAccount:
		return normalized, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAccessItemType, value)
	}
}

// Capability is a fully-populated record of what is permitted for one access
// item type. There are no optional fields; resolution always yields all four
// flags.
type Capability struct {
	CanGrantAccess         bool
	CanVerifyAccess        bool
	CanRevokeAccess        bool
	RequiresEvidenceUpload bool
}

// DefaultRestrictiveCapability is the fail-closed block applied when a
// manifest declares nothing for an access item type: no automation, evidence
// required.
func DefaultRestrictiveCapability() Capability {
	return Capability{RequiresEvidenceUpload: true}
}

// CapabilityFlag selects a single field off a Capability record.
type CapabilityFlag string

const (
	CapabilityFlagGrant    CapabilityFlag = "canGrantAccess"
	CapabilityFlagVerify   CapabilityFlag = "canVerifyAccess"
	CapabilityFlagRevoke   CapabilityFlag = "canRevokeAccess"
	CapabilityFlagEvidence CapabilityFlag = "requiresEvidenceUpload"
)

func (c Capability) Flag(flag CapabilityFlag) bool {
	switch flag {
	case CapabilityFlagGrant:
		return c.CanGrantAccess
	case CapabilityFlagVerify:
		return c.CanVerifyAccess
	case CapabilityFlagRevoke:
		return c.CanRevokeAccess
	case CapabilityFlagEvidence:
		return c.RequiresEvidenceUpload
	default:
		return false
	}
}

// CapabilityContext carries the request-scoped fields conditional rules match
// against. Field names follow the manifest wire spelling.
type CapabilityContext map[string]string

const (
	ContextFieldPamOwnership    = "pamOwnership"
	ContextFieldIdentityPurpose = "identityPurpose"
)

type PamOwnership string

const (
	PamOwnershipClientOwned PamOwnership = "CLIENT_OWNED"
	PamOwnershipAgencyOwned PamOwnership = "AGENCY_OWNED"
)

func ParsePamOwnership(value string) (PamOwnership, error) {
	normalized := PamOwnership(strings.ToUpper(strings.TrimSpace(value)))
	switch normalized {
	case PamOwnershipClientOwned, PamOwnershipAgencyOwned:
		return normalized, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPamOwnership, value)
	}
}

type PamGrantMethod string

const (
	PamGrantMethodCredentialHandoff    PamGrantMethod = "CREDENTIAL_HANDOFF"
	PamGrantMethodInviteAgencyIdentity PamGrantMethod = "INVITE_AGENCY_IDENTITY"
)

type IdentityPurpose string

const (
	IdentityPurposeHumanInteractive    IdentityPurpose = "HUMAN_INTERACTIVE"
	IdentityPurposeIntegrationNonHuman IdentityPurpose = "INTEGRATION_NON_HUMAN"
)

type VerificationMode string

const (
	VerificationModeAPIAuto         VerificationMode = "API_AUTO"
	VerificationModeAttestationOnly VerificationMode = "ATTESTATION_ONLY"
	VerificationModeEvidenceUpload  VerificationMode = "EVIDENCE_UPLOAD"
)

type RotationTrigger string

const (
	RotationTriggerOnCheckin RotationTrigger = "ON_CHECKIN"
	RotationTriggerScheduled RotationTrigger = "SCHEDULED"
	RotationTriggerOffboard  RotationTrigger = "OFFBOARD"
	RotationTriggerManual    RotationTrigger = "MANUAL"
)

const DefaultCheckoutDurationMinutes = 60

// CheckoutPolicy bounds a privileged credential checkout session.
type CheckoutPolicy struct {
	DurationMinutes int
	RequireApproval bool
	RequireReason   bool
}

func (p CheckoutPolicy) WithDefaults() CheckoutPolicy {
	if p.DurationMinutes <= 0 {
		p.DurationMinutes = DefaultCheckoutDurationMinutes
	}
	return p
}

func (p CheckoutPolicy) Validate() error {
	if p.DurationMinutes < 0 {
		return fmt.Errorf("%w: duration minutes must not be negative", ErrInvalidCheckoutPolicy)
	}
	return nil
}

// RotationPolicy says when the underlying shared credential must be rotated.
// Execution belongs to the external PAM session subsystem; this core only
// validates and exposes the shape.
type RotationPolicy struct {
	Trigger      RotationTrigger
	IntervalDays int
}

func (p RotationPolicy) Validate() error {
	switch p.Trigger {
	case RotationTriggerOnCheckin, RotationTriggerOffboard, RotationTriggerManual:
		return nil
	case RotationTriggerScheduled:
		if p.IntervalDays <= 0 {
			return fmt.Errorf("%w: scheduled rotation requires interval days", ErrInvalidRotationPolicy)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown trigger %q", ErrInvalidRotationPolicy, p.Trigger)
	}
}

// PamConfig describes privileged shared-account access for one platform. The
// ownership field is the variant tag: the ownership-specific fields only
// apply under their own tag and validation rejects mixed shapes.
type PamConfig struct {
	Ownership   PamOwnership
	GrantMethod PamGrantMethod
	Checkout    *CheckoutPolicy
	Rotation    *RotationPolicy

	// AGENCY_OWNED fields.
	AgencyIdentityEmail string
	IdentityPurpose     IdentityPurpose
	ProvisioningSource  string

	// CLIENT_OWNED field.
	RequiresDedicatedAgencyLogin bool
}

func (c PamConfig) Validate() error {
	switch c.Ownership {
	case PamOwnershipClientOwned:
		if c.GrantMethod != PamGrantMethodCredentialHandoff {
			return fmt.Errorf(
				"%w: CLIENT_OWNED requires CREDENTIAL_HANDOFF grant method, got %q",
				ErrInvalidPamConfig, c.GrantMethod,
			)
		}
		if strings.TrimSpace(c.AgencyIdentityEmail) != "" {
			return fmt.Errorf("%w: CLIENT_OWNED must not carry an agency identity email", ErrInvalidPamConfig)
		}
	case PamOwnershipAgencyOwned:
		if c.GrantMethod != PamGrantMethodInviteAgencyIdentity {
			return fmt.Errorf(
				"%w: AGENCY_OWNED requires INVITE_AGENCY_IDENTITY grant method, got %q",
				ErrInvalidPamConfig, c.GrantMethod,
			)
		}
		if strings.TrimSpace(c.AgencyIdentityEmail) == "" && strings.TrimSpace(c.ProvisioningSource) == "" {
			return fmt.Errorf(
				"%w: AGENCY_OWNED requires an agency identity email or provisioning source",
				ErrInvalidPamConfig,
			)
		}
		switch c.IdentityPurpose {
		case IdentityPurposeHumanInteractive, IdentityPurposeIntegrationNonHuman, "":
		default:
			return fmt.Errorf("%w: unknown identity purpose %q", ErrInvalidPamConfig, c.IdentityPurpose)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPamOwnership, c.Ownership)
	}

	if c.Checkout != nil {
		if err := c.Checkout.Validate(); err != nil {
			return err
		}
	}
	if c.Rotation != nil {
		if err := c.Rotation.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// EffectiveCheckout returns the checkout policy with defaults applied.
func (c PamConfig) EffectiveCheckout() CheckoutPolicy {
	if c.Checkout == nil {
		return CheckoutPolicy{}.WithDefaults()
	}
	return c.Checkout.WithDefaults()
}

// Context projects the config into the field map conditional rules match
// against. The identity purpose is only populated for AGENCY_OWNED configs
// where it means something.
func (c PamConfig) Context() CapabilityContext {
	ctx := CapabilityContext{
		ContextFieldPamOwnership: string(c.Ownership),
	}
	if c.Ownership == PamOwnershipAgencyOwned && c.IdentityPurpose != "" {
		ctx[ContextFieldIdentityPurpose] = string(c.IdentityPurpose)
	}
	return ctx
}

// AuthRef is an opaque credential reference. The raw secret never enters this
// module; the token is whatever handle the caller's vault issued.
type AuthRef struct {
	AccessToken string
}

// ProvisioningRequest is one grant/verify/revoke attempt against a platform.
// Constructed per operation, validated, consumed once; never persisted here.
type ProvisioningRequest struct {
	Auth           AuthRef
	Target         string
	Role           string
	Identity       string
	AccessItemType AccessItemType
	Pam            *PamConfig
	Metadata       map[string]any
}

// OperationResult is the uniform outcome shape every plugin operation
// returns. Failures surface as data, not errors, so callers always get the
// same envelope regardless of platform.
type OperationResult struct {
	Success bool
	Data    map[string]any
	Error   string
}

type AccessItemStatus string

const (
	AccessItemStatusRequested       AccessItemStatus = "requested"
	AccessItemStatusProvisioning    AccessItemStatus = "provisioning"
	AccessItemStatusPendingEvidence AccessItemStatus = "pending_evidence"
	AccessItemStatusGranted         AccessItemStatus = "granted"
	AccessItemStatusVerified        AccessItemStatus = "verified"
	AccessItemStatusRevoked         AccessItemStatus = "revoked"
	AccessItemStatusFailed          AccessItemStatus = "failed"
)

// AccessItem tracks one requested piece of access through its lifecycle.
type AccessItem struct {
	ID             string
	AgencyID       string
	PlatformKey    string
	AccessItemType AccessItemType
	Role           string
	Identity       string
	Target         string
	Status         AccessItemStatus
	LastError      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (i *AccessItem) TransitionTo(status AccessItemStatus, reason string, now time.Time) error {
	if i == nil {
		return nil
	}
	if i.Status == status {
		i.UpdatedAt = now
		if strings.TrimSpace(reason) != "" {
			i.LastError = strings.TrimSpace(reason)
		}
		return nil
	}
	if !accessItemTransitionAllowed(i.Status, status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidAccessItemStatusTransition, i.Status, status)
	}
	i.Status = status
	i.UpdatedAt = now
	if strings.TrimSpace(reason) != "" {
		i.LastError = strings.TrimSpace(reason)
	}
	if status == AccessItemStatusGranted || status == AccessItemStatusVerified {
		i.LastError = ""
	}
	return nil
}

func accessItemTransitionAllowed(current, next AccessItemStatus) bool {
	allowed := map[AccessItemStatus]map[AccessItemStatus]struct{}{
		AccessItemStatusRequested: {
			AccessItemStatusProvisioning:    {},
			AccessItemStatusPendingEvidence: {},
			AccessItemStatusFailed:          {},
		},
		AccessItemStatusProvisioning: {
			AccessItemStatusGranted: {},
			AccessItemStatusFailed:  {},
		},
		AccessItemStatusPendingEvidence: {
			AccessItemStatusGranted: {},
			AccessItemStatusFailed:  {},
		},
		AccessItemStatusGranted: {
			AccessItemStatusVerified: {},
			AccessItemStatusRevoked:  {},
			AccessItemStatusFailed:   {},
		},
		AccessItemStatusVerified: {
			AccessItemStatusRevoked: {},
			AccessItemStatusFailed:  {},
		},
		AccessItemStatusFailed: {
			AccessItemStatusRequested:    {},
			AccessItemStatusProvisioning: {},
		},
		AccessItemStatusRevoked: {},
	}
	_, ok := allowed[current][next]
	return ok
}

// ActivityStatus mirrors the decision outcome recorded per operation.
type ActivityStatus string

const (
	ActivityStatusOK      ActivityStatus = "ok"
	ActivityStatusBlocked ActivityStatus = "blocked"
	ActivityStatusManual  ActivityStatus = "manual"
	ActivityStatusError   ActivityStatus = "error"
)

type ActivityEntry struct {
	ID          string
	AgencyID    string
	PlatformKey string
	Operation   string
	AccessType  AccessItemType
	Identity    string
	Status      ActivityStatus
	Detail      string
	Metadata    map[string]any
	CreatedAt   time.Time
}

type ActivityFilter struct {
	AgencyID    string
	PlatformKey string
	Operation   string
	Status      ActivityStatus
	From        *time.Time
	To          *time.Time
	Page        int
	PerPage     int
}

type ActivityPage struct {
	Items   []ActivityEntry
	Page    int
	PerPage int
	Total   int
	HasNext bool
}

// EvidenceKind is what a manual-path artifact is.
type EvidenceKind string

const (
	EvidenceKindScreenshot  EvidenceKind = "screenshot"
	EvidenceKindAttestation EvidenceKind = "attestation"
)

// EvidenceRecord is the durable artifact of a manual provisioning step. The
// artifact itself lives in external storage; only the reference is kept.
type EvidenceRecord struct {
	ID           string
	AccessItemID string
	PlatformKey  string
	Kind         EvidenceKind
	ArtifactRef  string
	SubmittedBy  string
	Note         string
	CreatedAt    time.Time
}
