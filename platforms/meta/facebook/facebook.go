package facebook

import (
	"github.com/goliatone/go-access/core"
	"github.com/goliatone/go-access/platforms"
)

const PlatformKey = "meta_ads"

const (
	RoleAnalyst    = "analyst"
	RoleAdvertiser = "advertiser"
	RoleAdmin      = "admin"
)

// RoleMap maps requestable role labels onto ad account task sets.
func RoleMap() map[string]string {
	return map[string]string{
		RoleAnalyst:    "ANALYZE",
		RoleAdvertiser: "ADVERTISE",
		RoleAdmin:      "MANAGE",
	}
}

func Manifest() core.PlatformManifest {
	return core.PlatformManifest{
		PlatformKey:   PlatformKey,
		DisplayName:   "Meta Ads",
		PluginVersion: "1.3.0",
		Category:      "paid_media",
		Tier:          1,
		SupportedAccessItemTypes: []core.AccessItemType{
			core.AccessItemTypeNamedInvite,
			core.AccessItemTypePartnerDelegation,
			core.AccessItemTypeSharedAccount,
		},
		AllowedAccessTypes: []core.AccessItemType{
			core.AccessItemTypeNamedInvite,
			core.AccessItemTypePartnerDelegation,
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
			SupportsDelegation:      true,
			SupportsGroupAccess:     false,
			SupportsOAuth:           true,
			SupportsCredentialLogin: true,
			PamRecommendation:       "AVOID",
			PamRationale:            "Business Manager partner sharing covers agency access; personal profile sharing violates platform terms.",
		},
		Automation: core.AutomationCapabilities{
			OAuthSupported:        true,
			APIVerification:       true,
			AutomatedProvisioning: true,
		},
		CapabilityRules: []core.CapabilityRule{
			platforms.AutomatedInviteRule(core.AccessItemTypeNamedInvite),
			platforms.AutomatedInviteRule(core.AccessItemTypePartnerDelegation),
			platforms.SharedAccountCapabilityRule(),
		},
	}
}

// New builds the Meta Ads plugin around a Graph API operations client.
func New(client platforms.OperationsClient) (core.Plugin, error) {
	return platforms.New(platforms.Config{
		Manifest: Manifest(),
		RoleMap:  RoleMap(),
		Client:   client,
	})
}
