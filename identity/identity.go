// Package identity manages the agency-controlled identities used to hold
// access on client platforms: the human logins and the non-human service
// principals an AGENCY_OWNED configuration provisions against. Secret
// material never lives here; identities carry opaque vault references only.
package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-access/core"
)

var (
	ErrInvalidIdentity  = errors.New("identity: invalid integration identity")
	ErrIdentityNotFound = errors.New("identity: integration identity not found")
)

// Kind is what sort of principal an integration identity is.
type Kind string

const (
	KindServiceAccount Kind = "SERVICE_ACCOUNT"
	KindOAuthApp       Kind = "OAUTH_APP"
	KindAPIKey         Kind = "API_KEY"
	KindSystemUser     Kind = "SYSTEM_USER"
)

func ParseKind(value string) (Kind, error) {
	normalized := Kind(strings.ToUpper(strings.TrimSpace(value)))
	switch normalized {
	case KindServiceAccount, KindOAuthApp, KindAPIKey, KindSystemUser:
		return normalized, nil
	default:
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidIdentity, value)
	}
}

// Purpose returns the identity purpose a kind implies. System users are the
// only interactive kind; everything else is a non-human integration
// principal.
func (k Kind) Purpose() core.IdentityPurpose {
	if k == KindSystemUser {
		return core.IdentityPurposeHumanInteractive
	}
	return core.IdentityPurposeIntegrationNonHuman
}

// IntegrationIdentity is one agency-controlled principal. SecretRef is the
// opaque handle the agency vault issued for its credential.
type IntegrationIdentity struct {
	ID       string
	AgencyID string
	Email    string
	Kind     Kind

	// Platforms is an allow-list of platform keys this identity may hold
	// access on. Empty means unrestricted.
	Platforms []string
	Scopes    []string

	Rotation      *core.RotationPolicy
	SecretRef     string
	LastRotatedAt time.Time

	Disabled  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (i IntegrationIdentity) Validate() error {
	if strings.TrimSpace(i.AgencyID) == "" {
		return fmt.Errorf("%w: agency id is required", ErrInvalidIdentity)
	}
	if strings.TrimSpace(i.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidIdentity)
	}
	if !strings.Contains(i.Email, "@") {
		return fmt.Errorf("%w: email %q is not an address", ErrInvalidIdentity, i.Email)
	}
	if _, err := ParseKind(string(i.Kind)); err != nil {
		return err
	}
	if i.Rotation != nil {
		if err := i.Rotation.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// AllowsPlatform reports whether this identity may hold access on a platform.
func (i IntegrationIdentity) AllowsPlatform(platformKey string) bool {
	if len(i.Platforms) == 0 {
		return true
	}
	wanted := strings.TrimSpace(platformKey)
	for _, key := range i.Platforms {
		if strings.TrimSpace(key) == wanted {
			return true
		}
	}
	return false
}

// RotationDue reports whether the identity's credential is past its scheduled
// rotation interval. Only SCHEDULED policies produce time-based due dates;
// the other triggers fire off external events.
func (i IntegrationIdentity) RotationDue(now time.Time) bool {
	if i.Rotation == nil || i.Rotation.Trigger != core.RotationTriggerScheduled {
		return false
	}
	if i.Rotation.IntervalDays <= 0 {
		return false
	}
	anchor := i.LastRotatedAt
	if anchor.IsZero() {
		anchor = i.CreatedAt
	}
	if anchor.IsZero() {
		return false
	}
	due := anchor.AddDate(0, 0, i.Rotation.IntervalDays)
	return !now.Before(due)
}

// PamConfig projects the identity into the AGENCY_OWNED configuration shape
// used for capability resolution.
func (i IntegrationIdentity) PamConfig() *core.PamConfig {
	return &core.PamConfig{
		Ownership:           core.PamOwnershipAgencyOwned,
		GrantMethod:         core.PamGrantMethodInviteAgencyIdentity,
		AgencyIdentityEmail: strings.TrimSpace(i.Email),
		IdentityPurpose:     i.Kind.Purpose(),
		Rotation:            i.Rotation,
	}
}
