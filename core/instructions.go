package core

import (
	"fmt"
	"strings"
)

// InstructionStep is one step of a manual provisioning walkthrough shown to
// the person completing access by hand.
type InstructionStep struct {
	Title       string
	Description string
	Link        string
}

// ManualInstructionsInput feeds the instruction builder. RoleLabel and
// TargetLabel are display strings; AdminURL points at the platform's access
// management surface when the manifest knows it.
type ManualInstructionsInput struct {
	Manifest       PlatformManifest
	AccessItemType AccessItemType
	Identity       string
	RoleLabel      string
	TargetLabel    string
	AdminURL       string
	Pam            *PamConfig
}

// BuildManualInstructions produces the deterministic step list for completing
// an access item by hand. The same input always yields the same steps, so
// snapshots of rendered instructions stay stable across releases.
func BuildManualInstructions(in ManualInstructionsInput) []InstructionStep {
	platform := in.Manifest.Label()
	role := strings.TrimSpace(in.RoleLabel)
	if role == "" {
		role = "the requested role"
	}
	target := strings.TrimSpace(in.TargetLabel)
	if target == "" {
		target = "the target account"
	}
	identity := strings.TrimSpace(in.Identity)
	if identity == "" {
		identity = "the agency identity"
	}

	var steps []InstructionStep

	switch in.AccessItemType.Normalize() {
	case AccessItemTypeNamedInvite:
		steps = append(steps,
			InstructionStep{
				Title:       fmt.Sprintf("Open %s user management", platform),
				Description: fmt.Sprintf("Sign in to %s with an administrator account and open the user or member management screen for %s.", platform, target),
				Link:        in.AdminURL,
			},
			InstructionStep{
				Title:       "Invite the agency user",
				Description: fmt.Sprintf("Send an invite to %s with %s permissions.", identity, role),
			},
			InstructionStep{
				Title:       "Confirm acceptance",
				Description: fmt.Sprintf("Ask the invited user to accept, then confirm %s appears in the member list with %s permissions.", identity, role),
			},
		)

	case AccessItemTypeGroupAccess:
		steps = append(steps,
			InstructionStep{
				Title:       fmt.Sprintf("Open %s group settings", platform),
				Description: fmt.Sprintf("Sign in to %s and open the group or team configuration for %s.", platform, target),
				Link:        in.AdminURL,
			},
			InstructionStep{
				Title:       "Add the agency group",
				Description: fmt.Sprintf("Add %s to the group that carries %s permissions on %s.", identity, role, target),
			},
			InstructionStep{
				Title:       "Verify group membership",
				Description: fmt.Sprintf("Confirm the group now lists %s and that the group's effective permission is %s.", identity, role),
			},
		)

	case AccessItemTypePartnerDelegation:
		steps = append(steps,
			InstructionStep{
				Title:       fmt.Sprintf("Open %s partner settings", platform),
				Description: fmt.Sprintf("Sign in to %s as an administrator of %s and open the partner or delegation settings.", platform, target),
				Link:        in.AdminURL,
			},
			InstructionStep{
				Title:       "Delegate to the agency",
				Description: fmt.Sprintf("Create a partner delegation to the agency's account with %s permissions.", role),
			},
			InstructionStep{
				Title:       "Confirm the delegation",
				Description: fmt.Sprintf("Confirm the delegation shows as active on %s.", target),
			},
		)

	case AccessItemTypeProxyToken:
		steps = append(steps,
			InstructionStep{
				Title:       fmt.Sprintf("Create an access credential in %s", platform),
				Description: fmt.Sprintf("Sign in to %s and create an API credential scoped to %s with %s permissions.", platform, target, role),
				Link:        in.AdminURL,
			},
			InstructionStep{
				Title:       "Hand off via the secure channel",
				Description: "Deliver the credential reference through the approved secure handoff flow. Never paste credential material into tickets or chat.",
			},
		)

	case AccessItemTypeSharedAccount:
		steps = append(steps, sharedAccountSteps(platform, target, identity, in.Pam, in.AdminURL)...)

	default:
		steps = append(steps, InstructionStep{
			Title:       fmt.Sprintf("Provision access on %s", platform),
			Description: fmt.Sprintf("Grant %s access with %s permissions on %s following the platform's standard access procedure.", identity, role, target),
			Link:        in.AdminURL,
		})
	}

	steps = append(steps, InstructionStep{
		Title:       "Upload evidence",
		Description: "Capture a screenshot of the final access state and upload it as evidence to close out this access item.",
	})

	return steps
}

func sharedAccountSteps(platform, target, identity string, pam *PamConfig, adminURL string) []InstructionStep {
	if pam != nil && pam.Ownership == PamOwnershipAgencyOwned {
		return []InstructionStep{
			{
				Title:       fmt.Sprintf("Create a dedicated agency login on %s", platform),
				Description: fmt.Sprintf("Create a dedicated login on %s for %s using the agency-controlled identity %s. Do not reuse a personal account.", platform, target, identity),
				Link:        adminURL,
			},
			{
				Title:       "Enroll the credential in the vault",
				Description: "Store the credential in the agency vault and enable the configured rotation policy. The credential must never circulate outside the vault.",
			},
			{
				Title:       "Confirm checkout works",
				Description: "Perform a test checkout from the vault and confirm the login succeeds.",
			},
		}
	}
	return []InstructionStep{
		{
			Title:       fmt.Sprintf("Arrange credential handoff for %s", platform),
			Description: fmt.Sprintf("Ask the client to hand off the shared login for %s through the secure handoff flow. Never accept credentials over email or chat.", target),
			Link:        adminURL,
		},
		{
			Title:       "Enroll the credential in the vault",
			Description: "Store the handed-off credential in the agency vault so every use goes through checkout.",
		},
		{
			Title:       "Confirm checkout works",
			Description: "Perform a test checkout from the vault and confirm the login succeeds.",
		},
	}
}
