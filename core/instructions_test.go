package core

import (
	"strings"
	"testing"
)

func TestBuildManualInstructions_NamedInvite(t *testing.T) {
	steps := BuildManualInstructions(ManualInstructionsInput{
		Manifest:       testManifest(),
		AccessItemType: AccessItemTypeNamedInvite,
		Identity:       "ops@agency.example",
		RoleLabel:      "viewer",
		TargetLabel:    "properties/1234",
		AdminURL:       "https://analytics.google.com/admin",
	})
	if len(steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(steps))
	}
	if steps[0].Link != "https://analytics.google.com/admin" {
		t.Fatalf("expected admin link on first step, got %q", steps[0].Link)
	}
	if !strings.Contains(steps[1].Description, "ops@agency.example") {
		t.Fatalf("invite step must name the identity: %q", steps[1].Description)
	}
	if !strings.Contains(steps[1].Description, "viewer") {
		t.Fatalf("invite step must name the role: %q", steps[1].Description)
	}
	last := steps[len(steps)-1]
	if !strings.Contains(last.Description, "evidence") {
		t.Fatalf("final step must require evidence: %q", last.Description)
	}
}

func TestBuildManualInstructions_Deterministic(t *testing.T) {
	input := ManualInstructionsInput{
		Manifest:       testManifest(),
		AccessItemType: AccessItemTypeGroupAccess,
		Identity:       "ops@agency.example",
		RoleLabel:      "editor",
		TargetLabel:    "properties/1234",
	}
	first := BuildManualInstructions(input)
	second := BuildManualInstructions(input)
	if len(first) != len(second) {
		t.Fatalf("instruction count changed between runs: %d vs %d", len(first), len(second))
	}
	for idx := range first {
		if first[idx] != second[idx] {
			t.Fatalf("step %d differs between runs", idx)
		}
	}
}

func TestBuildManualInstructions_SharedAccountAgencyOwned(t *testing.T) {
	steps := BuildManualInstructions(ManualInstructionsInput{
		Manifest:       testManifest(),
		AccessItemType: AccessItemTypeSharedAccount,
		Identity:       "svc@agency.example",
		TargetLabel:    "properties/1234",
		Pam: &PamConfig{
			Ownership:           PamOwnershipAgencyOwned,
			GrantMethod:         PamGrantMethodInviteAgencyIdentity,
			AgencyIdentityEmail: "svc@agency.example",
		},
	})
	if !strings.Contains(steps[0].Description, "dedicated login") {
		t.Fatalf("agency-owned flow must create a dedicated login: %q", steps[0].Description)
	}
	joined := joinStepText(steps)
	if !strings.Contains(joined, "vault") {
		t.Fatalf("shared account flow must go through the vault: %q", joined)
	}
}

func TestBuildManualInstructions_SharedAccountClientOwned(t *testing.T) {
	steps := BuildManualInstructions(ManualInstructionsInput{
		Manifest:       testManifest(),
		AccessItemType: AccessItemTypeSharedAccount,
		TargetLabel:    "properties/1234",
		Pam: &PamConfig{
			Ownership:   PamOwnershipClientOwned,
			GrantMethod: PamGrantMethodCredentialHandoff,
		},
	})
	if !strings.Contains(steps[0].Description, "hand off") {
		t.Fatalf("client-owned flow must use credential handoff: %q", steps[0].Description)
	}
}

func TestBuildManualInstructions_EmptyFieldsFallBack(t *testing.T) {
	steps := BuildManualInstructions(ManualInstructionsInput{
		Manifest:       testManifest(),
		AccessItemType: AccessItemTypeNamedInvite,
	})
	joined := joinStepText(steps)
	if !strings.Contains(joined, "the requested role") {
		t.Fatalf("missing role placeholder: %q", joined)
	}
	if !strings.Contains(joined, "the target account") {
		t.Fatalf("missing target placeholder: %q", joined)
	}
}

func joinStepText(steps []InstructionStep) string {
	var b strings.Builder
	for _, step := range steps {
		b.WriteString(step.Title)
		b.WriteString(" ")
		b.WriteString(step.Description)
		b.WriteString(" ")
	}
	return b.String()
}
