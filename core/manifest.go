package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrManifestNotFound = errors.New("core: manifest not found")
	ErrInvalidManifest  = errors.New("core: invalid manifest")
)

// SecurityCapabilities declares which access models a platform's own security
// surface supports, plus the catalog's PAM recommendation for it.
type SecurityCapabilities struct {
	SupportsDelegation      bool
	SupportsGroupAccess     bool
	SupportsOAuth           bool
	SupportsCredentialLogin bool
	PamRecommendation       string
	PamRationale            string
}

// AutomationCapabilities declares what the platform plugin can do through the
// provider API.
type AutomationCapabilities struct {
	OAuthSupported        bool
	APIVerification       bool
	AutomatedProvisioning bool
}

// ConditionalRule overrides a base capability block when every field in When
// equals the corresponding request context field. A context missing a field
// the rule names never matches.
type ConditionalRule struct {
	When map[string]string
	Then Capability
}

func (r ConditionalRule) Matches(ctx CapabilityContext) bool {
	if len(r.When) == 0 {
		return false
	}
	for field, want := range r.When {
		got, ok := ctx[field]
		if !ok || got != want {
			return false
		}
	}
	return true
}

// CapabilityRule binds one access item type to its base capability block and
// an ordered list of conditional overrides. Declaration order is load-bearing:
// the first matching conditional wins, so restrictive rules must be declared
// before looser ones.
type CapabilityRule struct {
	AccessItemType AccessItemType
	Base           Capability
	Conditional    []ConditionalRule
}

// PlatformManifest is the immutable declarative descriptor of one platform.
// Manifests are authored externally and loaded once at process start; no
// write path exists in this module.
type PlatformManifest struct {
	PlatformKey   string
	DisplayName   string
	PluginVersion string
	Category      string
	Tier          int

	SupportedAccessItemTypes []AccessItemType
	AllowedAccessTypes       []AccessItemType
	AllowedOwnershipModels   []PamOwnership
	VerificationModes        []VerificationMode

	Security   SecurityCapabilities
	Automation AutomationCapabilities

	CapabilityRules []CapabilityRule
}

func (m PlatformManifest) Validate() error {
	if strings.TrimSpace(m.PlatformKey) == "" {
		return fmt.Errorf("%w: platform key is required", ErrInvalidManifest)
	}
	if strings.TrimSpace(m.DisplayName) == "" {
		return fmt.Errorf("%w: %s: display name is required", ErrInvalidManifest, m.PlatformKey)
	}
	if strings.TrimSpace(m.PluginVersion) == "" {
		return fmt.Errorf("%w: %s: plugin version is required", ErrInvalidManifest, m.PlatformKey)
	}
	if strings.TrimSpace(m.Category) == "" {
		return fmt.Errorf("%w: %s: category is required", ErrInvalidManifest, m.PlatformKey)
	}
	if m.Tier < 1 || m.Tier > 3 {
		return fmt.Errorf("%w: %s: tier must be within [1,3], got %d", ErrInvalidManifest, m.PlatformKey, m.Tier)
	}
	if len(m.SupportedAccessItemTypes) == 0 {
		return fmt.Errorf("%w: %s: supported access item types are required", ErrInvalidManifest, m.PlatformKey)
	}
	if len(m.AllowedAccessTypes) == 0 {
		return fmt.Errorf("%w: %s: allowed access types are required", ErrInvalidManifest, m.PlatformKey)
	}
	if len(m.VerificationModes) == 0 {
		return fmt.Errorf("%w: %s: verification modes are required", ErrInvalidManifest, m.PlatformKey)
	}
	if strings.TrimSpace(m.Security.PamRecommendation) == "" {
		return fmt.Errorf("%w: %s: pam recommendation is required", ErrInvalidManifest, m.PlatformKey)
	}
	for _, declared := range m.SupportedAccessItemTypes {
		if _, err := ParseAccessItemType(string(declared)); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidManifest, m.PlatformKey, err)
		}
	}
	for _, allowed := range m.AllowedAccessTypes {
		if _, err := ParseAccessItemType(string(allowed)); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidManifest, m.PlatformKey, err)
		}
	}
	seen := map[AccessItemType]struct{}{}
	for _, rule := range m.CapabilityRules {
		ruleType, err := ParseAccessItemType(string(rule.AccessItemType))
		if err != nil {
			return fmt.Errorf("%w: %s: capability rule: %v", ErrInvalidManifest, m.PlatformKey, err)
		}
		if _, dup := seen[ruleType]; dup {
			return fmt.Errorf(
				"%w: %s: duplicate capability rule for %s",
				ErrInvalidManifest, m.PlatformKey, ruleType,
			)
		}
		seen[ruleType] = struct{}{}
	}
	return nil
}

// AllowsAccessType reports whether the type is actually provisionable on this
// platform (as opposed to merely presentable in a catalog UI).
func (m PlatformManifest) AllowsAccessType(itemType AccessItemType) bool {
	normalized := itemType.Normalize()
	for _, allowed := range m.AllowedAccessTypes {
		if allowed.Normalize() == normalized {
			return true
		}
	}
	return false
}

// AllowsOwnership reports whether the PAM ownership model is valid for this
// platform.
func (m PlatformManifest) AllowsOwnership(ownership PamOwnership) bool {
	for _, allowed := range m.AllowedOwnershipModels {
		if allowed == ownership {
			return true
		}
	}
	return false
}

func (m PlatformManifest) capabilityRuleFor(itemType AccessItemType) (CapabilityRule, bool) {
	normalized := itemType.Normalize()
	for _, rule := range m.CapabilityRules {
		if rule.AccessItemType.Normalize() == normalized {
			return rule, true
		}
	}
	return CapabilityRule{}, false
}

// Label returns the human-facing platform name, falling back to the key.
func (m PlatformManifest) Label() string {
	if name := strings.TrimSpace(m.DisplayName); name != "" {
		return name
	}
	return strings.TrimSpace(m.PlatformKey)
}
