package ga4

import (
	"github.com/goliatone/go-access/core"
	"github.com/goliatone/go-access/platforms"
)

const PlatformKey = "ga4"

const (
	RoleViewer  = "viewer"
	RoleAnalyst = "analyst"
	RoleEditor  = "editor"
	RoleAdmin   = "admin"
)

// RoleMap maps requestable role labels onto the Admin API binding roles.
func RoleMap() map[string]string {
	return map[string]string{
		RoleViewer:  "predefinedRoles/viewer",
		RoleAnalyst: "predefinedRoles/analyst",
		RoleEditor:  "predefinedRoles/editor",
		RoleAdmin:   "predefinedRoles/admin",
	}
}

func Manifest() core.PlatformManifest {
	return core.PlatformManifest{
		PlatformKey:   PlatformKey,
		DisplayName:   "Google Analytics 4",
		PluginVersion: "1.2.0",
		Category:      "analytics",
		Tier:          1,
		SupportedAccessItemTypes: []core.AccessItemType{
			core.AccessItemTypeNamedInvite,
			core.AccessItemTypeGroupAccess,
			core.AccessItemTypeSharedAccount,
		},
		AllowedAccessTypes: []core.AccessItemType{
			core.AccessItemTypeNamedInvite,
			core.AccessItemTypeGroupAccess,
		},
		AllowedOwnershipModels: []core.PamOwnership{
			core.PamOwnershipClientOwned,
			core.PamOwnershipAgencyOwned,
		},
		VerificationModes: []core.VerificationMode{
			core.VerificationModeAPIAuto,
			core.VerificationModeEvidenceUpload,
		},
		Security: core.SecurityCapabilities{
			SupportsDelegation:      false,
			SupportsGroupAccess:     true,
			SupportsOAuth:           true,
			SupportsCredentialLogin: true,
			PamRecommendation:       "AVOID",
			PamRationale:            "Property user links cover every agency workflow; shared Google logins add risk with no capability gain.",
		},
		Automation: core.AutomationCapabilities{
			OAuthSupported:        true,
			APIVerification:       true,
			AutomatedProvisioning: true,
		},
		CapabilityRules: []core.CapabilityRule{
			platforms.AutomatedInviteRule(core.AccessItemTypeNamedInvite),
			platforms.EvidenceOnlyRule(core.AccessItemTypeGroupAccess),
			platforms.SharedAccountCapabilityRule(),
		},
	}
}

// New builds the GA4 plugin around an Admin API operations client.
func New(client platforms.OperationsClient) (core.Plugin, error) {
	return platforms.New(platforms.Config{
		Manifest: Manifest(),
		RoleMap:  RoleMap(),
		Client:   client,
	})
}
