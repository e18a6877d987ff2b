package tiktok

import (
	"github.com/goliatone/go-access/core"
	"github.com/goliatone/go-access/platforms"
)

const PlatformKey = "tiktok_ads"

const (
	RoleAnalyst  = "analyst"
	RoleOperator = "operator"
	RoleAdmin    = "admin"
)

func RoleMap() map[string]string {
	return map[string]string{
		RoleAnalyst:  "ANALYST",
		RoleOperator: "OPERATOR",
		RoleAdmin:    "ADMIN",
	}
}

func Manifest() core.PlatformManifest {
	return core.PlatformManifest{
		PlatformKey:   PlatformKey,
		DisplayName:   "TikTok Ads",
		PluginVersion: "1.0.0",
		Category:      "paid_media",
		Tier:          2,
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
			PamRecommendation:       "CONDITIONAL",
			PamRationale:            "Business Center covers most flows, but some markets still require a shared advertiser login under vault control.",
		},
		Automation: core.AutomationCapabilities{
			OAuthSupported:        true,
			APIVerification:       true,
			AutomatedProvisioning: false,
		},
		CapabilityRules: []core.CapabilityRule{
			// Member invites go out through Business Center by hand; the API
			// only confirms and removes them.
			{
				AccessItemType: core.AccessItemTypeNamedInvite,
				Base: core.Capability{
					CanVerifyAccess: true,
					CanRevokeAccess: true,
				},
			},
			{
				AccessItemType: core.AccessItemTypePartnerDelegation,
				Base: core.Capability{
					CanVerifyAccess: true,
				},
			},
			platforms.SharedAccountCapabilityRule(),
		},
	}
}

// New builds the TikTok Ads plugin around a Business API operations client.
func New(client platforms.OperationsClient) (core.Plugin, error) {
	return platforms.New(platforms.Config{
		Manifest: Manifest(),
		RoleMap:  RoleMap(),
		Client:   client,
	})
}
