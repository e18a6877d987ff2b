package query

import (
	"github.com/goliatone/go-access/core"
	gocmd "github.com/goliatone/go-command"
)

var (
	_ gocmd.Querier[ResolveCapabilityMessage, core.Capability]         = (*ResolveCapabilityQuery)(nil)
	_ gocmd.Querier[GetManifestMessage, core.PlatformManifest]         = (*GetManifestQuery)(nil)
	_ gocmd.Querier[ListManifestsMessage, []core.PlatformManifest]     = (*ListManifestsQuery)(nil)
	_ gocmd.Querier[BuildInstructionsMessage, []core.InstructionStep]  = (*BuildInstructionsQuery)(nil)
	_ gocmd.Querier[ListActivityMessage, core.ActivityPage]            = (*ListActivityQuery)(nil)
	_ gocmd.Querier[ListAgencyPlatformsMessage, []core.AgencyPlatform] = (*ListAgencyPlatformsQuery)(nil)
)
