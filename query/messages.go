package query

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-access/core"
)

const (
	TypeResolveCapability   = "access.query.capability.resolve"
	TypeGetManifest         = "access.query.manifest.get"
	TypeListManifests       = "access.query.manifest.list"
	TypeBuildInstructions   = "access.query.instructions.build"
	TypeListActivity        = "access.query.activity.list"
	TypeListAgencyPlatforms = "access.query.agency_platform.list"
)

type ResolveCapabilityMessage struct {
	PlatformKey    string
	AccessItemType core.AccessItemType
	Pam            *core.PamConfig
}

func (ResolveCapabilityMessage) Type() string { return TypeResolveCapability }

func (m ResolveCapabilityMessage) Validate() error {
	if strings.TrimSpace(m.PlatformKey) == "" {
		return fmt.Errorf("query: platform key is required")
	}
	if m.AccessItemType.Normalize().IsZero() {
		return fmt.Errorf("query: access item type is required")
	}
	return nil
}

type GetManifestMessage struct {
	PlatformKey string
}

func (GetManifestMessage) Type() string { return TypeGetManifest }

func (m GetManifestMessage) Validate() error {
	if strings.TrimSpace(m.PlatformKey) == "" {
		return fmt.Errorf("query: platform key is required")
	}
	return nil
}

type ListManifestsMessage struct{}

func (ListManifestsMessage) Type() string { return TypeListManifests }

func (ListManifestsMessage) Validate() error { return nil }

type BuildInstructionsMessage struct {
	PlatformKey    string
	AccessItemType core.AccessItemType
	Request        core.ProvisioningRequest
}

func (BuildInstructionsMessage) Type() string { return TypeBuildInstructions }

func (m BuildInstructionsMessage) Validate() error {
	if strings.TrimSpace(m.PlatformKey) == "" {
		return fmt.Errorf("query: platform key is required")
	}
	if m.AccessItemType.Normalize().IsZero() {
		return fmt.Errorf("query: access item type is required")
	}
	return nil
}

type ListActivityMessage struct {
	Filter core.ActivityFilter
}

func (ListActivityMessage) Type() string { return TypeListActivity }

func (m ListActivityMessage) Validate() error {
	if m.Filter.Page < 0 {
		return fmt.Errorf("query: page must be >= 0")
	}
	if m.Filter.PerPage < 0 {
		return fmt.Errorf("query: per_page must be >= 0")
	}
	return nil
}

type ListAgencyPlatformsMessage struct {
	AgencyID string
}

func (ListAgencyPlatformsMessage) Type() string { return TypeListAgencyPlatforms }

func (m ListAgencyPlatformsMessage) Validate() error {
	if strings.TrimSpace(m.AgencyID) == "" {
		return fmt.Errorf("query: agency id is required")
	}
	return nil
}
