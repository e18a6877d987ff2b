package query

import (
	"context"

	"github.com/goliatone/go-access/core"
)

type CapabilityResolver interface {
	ResolveCapability(
		ctx context.Context,
		platformKey string,
		itemType core.AccessItemType,
		pam *core.PamConfig,
	) (core.Capability, error)
}

type ManifestReader interface {
	Manifest(ctx context.Context, platformKey string) (core.PlatformManifest, error)
	Manifests(ctx context.Context) []core.PlatformManifest
}

type InstructionsBuilder interface {
	ManualInstructions(
		ctx context.Context,
		platformKey string,
		itemType core.AccessItemType,
		req core.ProvisioningRequest,
	) ([]core.InstructionStep, error)
}

type ActivityReader interface {
	ListActivity(ctx context.Context, filter core.ActivityFilter) (core.ActivityPage, error)
}

type AgencyPlatformReader interface {
	AgencyPlatforms(ctx context.Context, agencyID string) ([]core.AgencyPlatform, error)
}

type ResolveCapabilityQuery struct {
	resolver CapabilityResolver
}

func NewResolveCapabilityQuery(resolver CapabilityResolver) *ResolveCapabilityQuery {
	return &ResolveCapabilityQuery{resolver: resolver}
}

func (q *ResolveCapabilityQuery) Query(ctx context.Context, msg ResolveCapabilityMessage) (core.Capability, error) {
	if q == nil || q.resolver == nil {
		return core.Capability{}, queryDependencyError("query: capability resolver is required")
	}
	return q.resolver.ResolveCapability(ctx, msg.PlatformKey, msg.AccessItemType, msg.Pam)
}

type GetManifestQuery struct {
	reader ManifestReader
}

func NewGetManifestQuery(reader ManifestReader) *GetManifestQuery {
	return &GetManifestQuery{reader: reader}
}

func (q *GetManifestQuery) Query(ctx context.Context, msg GetManifestMessage) (core.PlatformManifest, error) {
	if q == nil || q.reader == nil {
		return core.PlatformManifest{}, queryDependencyError("query: manifest reader is required")
	}
	return q.reader.Manifest(ctx, msg.PlatformKey)
}

type ListManifestsQuery struct {
	reader ManifestReader
}

func NewListManifestsQuery(reader ManifestReader) *ListManifestsQuery {
	return &ListManifestsQuery{reader: reader}
}

func (q *ListManifestsQuery) Query(ctx context.Context, _ ListManifestsMessage) ([]core.PlatformManifest, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: manifest reader is required")
	}
	return q.reader.Manifests(ctx), nil
}

type BuildInstructionsQuery struct {
	builder InstructionsBuilder
}

func NewBuildInstructionsQuery(builder InstructionsBuilder) *BuildInstructionsQuery {
	return &BuildInstructionsQuery{builder: builder}
}

func (q *BuildInstructionsQuery) Query(
	ctx context.Context,
	msg BuildInstructionsMessage,
) ([]core.InstructionStep, error) {
	if q == nil || q.builder == nil {
		return nil, queryDependencyError("query: instructions builder is required")
	}
	return q.builder.ManualInstructions(ctx, msg.PlatformKey, msg.AccessItemType, msg.Request)
}

type ListActivityQuery struct {
	reader ActivityReader
}

func NewListActivityQuery(reader ActivityReader) *ListActivityQuery {
	return &ListActivityQuery{reader: reader}
}

func (q *ListActivityQuery) Query(ctx context.Context, msg ListActivityMessage) (core.ActivityPage, error) {
	if q == nil || q.reader == nil {
		return core.ActivityPage{}, queryDependencyError("query: activity reader is required")
	}
	return q.reader.ListActivity(ctx, msg.Filter)
}

type ListAgencyPlatformsQuery struct {
	reader AgencyPlatformReader
}

func NewListAgencyPlatformsQuery(reader AgencyPlatformReader) *ListAgencyPlatformsQuery {
	return &ListAgencyPlatformsQuery{reader: reader}
}

func (q *ListAgencyPlatformsQuery) Query(
	ctx context.Context,
	msg ListAgencyPlatformsMessage,
) ([]core.AgencyPlatform, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: agency platform reader is required")
	}
	return q.reader.AgencyPlatforms(ctx, msg.AgencyID)
}
