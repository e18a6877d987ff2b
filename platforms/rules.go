package platforms

import "github.com/goliatone/go-access/core"

// SharedAccountCapabilityRule is the capability rule every builtin platform
// declares for SHARED_ACCOUNT. The client-owned lockout is declared before
// the agency-owned unlocks on purpose: conditional rules resolve first match
// wins, so a client-owned context must never reach an unlock rule.
func SharedAccountCapabilityRule() core.CapabilityRule {
	automated := core.Capability{
		CanGrantAccess:  true,
		CanVerifyAccess: true,
		CanRevokeAccess: true,
	}
	return core.CapabilityRule{
		AccessItemType: core.AccessItemTypeSharedAccount,
		Base:           core.Capability{RequiresEvidenceUpload: true},
		Conditional: []core.ConditionalRule{
			{
				When: map[string]string{
					core.ContextFieldPamOwnership: string(core.PamOwnershipClientOwned),
				},
				Then: core.Capability{RequiresEvidenceUpload: true},
			},
			{
				When: map[string]string{
					core.ContextFieldPamOwnership:    string(core.PamOwnershipAgencyOwned),
					core.ContextFieldIdentityPurpose: string(core.IdentityPurposeHumanInteractive),
				},
				Then: automated,
			},
			{
				When: map[string]string{
					core.ContextFieldPamOwnership:    string(core.PamOwnershipAgencyOwned),
					core.ContextFieldIdentityPurpose: string(core.IdentityPurposeIntegrationNonHuman),
				},
				Then: automated,
			},
		},
	}
}

// AutomatedInviteRule declares full automation for a directly provisionable
// access type.
func AutomatedInviteRule(itemType core.AccessItemType) core.CapabilityRule {
	return core.CapabilityRule{
		AccessItemType: itemType,
		Base: core.Capability{
			CanGrantAccess:  true,
			CanVerifyAccess: true,
			CanRevokeAccess: true,
		},
	}
}

// EvidenceOnlyRule declares a type the platform supports but cannot automate.
func EvidenceOnlyRule(itemType core.AccessItemType) core.CapabilityRule {
	return core.CapabilityRule{
		AccessItemType: itemType,
		Base:           core.Capability{RequiresEvidenceUpload: true},
	}
}
