// Package linkedin declares the LinkedIn Ads catalog entry. LinkedIn exposes
// no member management API for ad accounts, so every access type runs through
// the manual evidence flow and no plugin is registered for it.
package linkedin

import "github.com/goliatone/go-access/core"

const PlatformKey = "linkedin_ads"

func Manifest() core.PlatformManifest {
	return core.PlatformManifest{
		PlatformKey:   PlatformKey,
		DisplayName:   "LinkedIn Ads",
		PluginVersion: "1.0.0",
		Category:      "paid_media",
		Tier:          2,
		SupportedAccessItemTypes: []core.AccessItemType{
			core.AccessItemTypeNamedInvite,
			core.AccessItemTypeSharedAccount,
		},
		AllowedAccessTypes: []core.AccessItemType{
			core.AccessItemTypeNamedInvite,
		},
		AllowedOwnershipModels: []core.PamOwnership{
			core.PamOwnershipClientOwned,
			core.PamOwnershipAgencyOwned,
		},
		VerificationModes: []core.VerificationMode{
			core.VerificationModeEvidenceUpload,
			core.VerificationModeAttestationOnly,
		},
		Security: core.SecurityCapabilities{
			SupportsDelegation:      false,
			SupportsGroupAccess:     false,
			SupportsOAuth:           true,
			SupportsCredentialLogin: true,
			PamRecommendation:       "CONDITIONAL",
			PamRationale:            "Campaign Manager invites are manual; organic page posting often forces a shared login under vault control.",
		},
		Automation: core.AutomationCapabilities{
			OAuthSupported:        true,
			APIVerification:       false,
			AutomatedProvisioning: false,
		},
		CapabilityRules: []core.CapabilityRule{
			{
				AccessItemType: core.AccessItemTypeNamedInvite,
				Base:           core.Capability{RequiresEvidenceUpload: true},
			},
			{
				AccessItemType: core.AccessItemTypeSharedAccount,
				Base:           core.Capability{RequiresEvidenceUpload: true},
			},
		},
	}
}
