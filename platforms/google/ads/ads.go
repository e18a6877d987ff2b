package ads

import (
	"github.com/goliatone/go-access/core"
	"github.com/goliatone/go-access/platforms"
)

const PlatformKey = "google_ads"

const (
	RoleReadOnly = "read_only"
	RoleStandard = "standard"
	RoleAdmin    = "admin"
)

func RoleMap() map[string]string {
	return map[string]string{
		RoleReadOnly: "READ_ONLY",
		RoleStandard: "STANDARD",
		RoleAdmin:    "ADMIN",
	}
}

func Manifest() core.PlatformManifest {
	return core.PlatformManifest{
		PlatformKey:   PlatformKey,
		DisplayName:   "Google Ads",
		PluginVersion: "1.1.0",
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
			PamRationale:            "Manager account linking is the supported agency path; prefer MCC delegation over any shared login.",
		},
		Automation: core.AutomationCapabilities{
			OAuthSupported:        true,
			APIVerification:       true,
			AutomatedProvisioning: true,
		},
		CapabilityRules: []core.CapabilityRule{
			platforms.AutomatedInviteRule(core.AccessItemTypeNamedInvite),
			// Manager link invitations need an acceptance on the client side,
			// so granting stays manual while verify and revoke automate.
			{
				AccessItemType: core.AccessItemTypePartnerDelegation,
				Base: core.Capability{
					CanVerifyAccess: true,
					CanRevokeAccess: true,
				},
			},
			platforms.SharedAccountCapabilityRule(),
		},
	}
}

// New builds the Google Ads plugin around a Google Ads API operations client.
func New(client platforms.OperationsClient) (core.Plugin, error) {
	return platforms.New(platforms.Config{
		Manifest: Manifest(),
		RoleMap:  RoleMap(),
		Client:   client,
	})
}
