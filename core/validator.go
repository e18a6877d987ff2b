package core

import (
	"fmt"
	"strings"
)

// Validation message contract. Callers surface these strings verbatim to
// client tooling, so changing them is a breaking change.
const (
	msgAccessTokenRequired    = "OAuth access token is required"
	msgTargetRequired         = "Target resource identifier is required"
	msgRoleRequired           = "Role is required"
	msgIdentityRequired       = "Identity (email) is required"
	msgAccessItemTypeRequired = "Access item type is required"
	msgSharedAccountBlocked   = "SHARED_ACCOUNT access cannot be granted/verified via API. Use evidence upload flow instead."
)

func msgUnsupportedAccessType(itemType AccessItemType, platformLabel string) string {
	return fmt.Sprintf("Access item type %s is not supported by %s", itemType, platformLabel)
}

// ValidateProvisioningRequest checks a request against the platform manifest
// and returns every failed check, not just the first. An empty slice means
// the request is valid. Validation failures are data, not errors.
func ValidateProvisioningRequest(manifest PlatformManifest, req ProvisioningRequest) []string {
	var problems []string

	if strings.TrimSpace(req.Auth.AccessToken) == "" {
		problems = append(problems, msgAccessTokenRequired)
	}
	if strings.TrimSpace(req.Target) == "" {
		problems = append(problems, msgTargetRequired)
	}
	if strings.TrimSpace(req.Role) == "" {
		problems = append(problems, msgRoleRequired)
	}
	if strings.TrimSpace(req.Identity) == "" {
		problems = append(problems, msgIdentityRequired)
	}

	itemType := req.AccessItemType.Normalize()
	switch {
	case itemType.IsZero():
		problems = append(problems, msgAccessItemTypeRequired)
	case itemType.IsShared():
		// Categorical: shared-account provisioning never goes through the
		// API path regardless of what the manifest resolves to.
		problems = append(problems, msgSharedAccountBlocked)
	case !manifest.AllowsAccessType(itemType):
		problems = append(problems, msgUnsupportedAccessType(itemType, manifest.Label()))
	}

	return problems
}
