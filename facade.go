package access

import (
	"context"
	"fmt"
	"reflect"

	accesscommand "github.com/goliatone/go-access/command"
	"github.com/goliatone/go-access/core"
	accessquery "github.com/goliatone/go-access/query"
)

type CommandQueryService interface {
	accesscommand.MutatingService
	accessquery.CapabilityResolver
	accessquery.ManifestReader
	accessquery.InstructionsBuilder
	accessquery.AgencyPlatformReader
}

type Commands struct {
	Grant                *accesscommand.GrantCommand
	Verify               *accesscommand.VerifyCommand
	Revoke               *accesscommand.RevokeCommand
	RecordEvidence       *accesscommand.RecordEvidenceCommand
	UpsertAgencyPlatform *accesscommand.UpsertAgencyPlatformCommand
}

type Queries struct {
	ResolveCapability   *accessquery.ResolveCapabilityQuery
	GetManifest         *accessquery.GetManifestQuery
	ListManifests       *accessquery.ListManifestsQuery
	BuildInstructions   *accessquery.BuildInstructionsQuery
	ListActivity        *accessquery.ListActivityQuery
	ListAgencyPlatforms *accessquery.ListAgencyPlatformsQuery
}

type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	activityReader accessquery.ActivityReader
}

func WithActivityReader(reader accessquery.ActivityReader) FacadeOption {
	return func(options *facadeOptions) {
		options.activityReader = reader
	}
}

func NewFacade(service CommandQueryService, opts ...FacadeOption) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("access: command/query service is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	reader := cfg.activityReader
	if reader == nil {
		reader = resolveActivityReader(service)
	}

	facade := &Facade{service: service}
	facade.commands = Commands{
		Grant:                accesscommand.NewGrantCommand(service),
		Verify:               accesscommand.NewVerifyCommand(service),
		Revoke:               accesscommand.NewRevokeCommand(service),
		RecordEvidence:       accesscommand.NewRecordEvidenceCommand(service),
		UpsertAgencyPlatform: accesscommand.NewUpsertAgencyPlatformCommand(service),
	}
	facade.queries = Queries{
		ResolveCapability:   accessquery.NewResolveCapabilityQuery(service),
		GetManifest:         accessquery.NewGetManifestQuery(service),
		ListManifests:       accessquery.NewListManifestsQuery(service),
		BuildInstructions:   accessquery.NewBuildInstructionsQuery(service),
		ListActivity:        accessquery.NewListActivityQuery(reader),
		ListAgencyPlatforms: accessquery.NewListAgencyPlatformsQuery(service),
	}

	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}

// activitySinkReader lifts a store-level activity sink into the query-side
// reader contract.
type activitySinkReader struct {
	sink core.ActivitySink
}

func (r activitySinkReader) ListActivity(ctx context.Context, filter core.ActivityFilter) (core.ActivityPage, error) {
	return r.sink.List(ctx, filter)
}

func resolveActivityReader(service CommandQueryService) accessquery.ActivityReader {
	if service == nil {
		return nil
	}
	if reader, ok := service.(accessquery.ActivityReader); ok {
		return reader
	}
	provider, ok := service.(interface {
		Dependencies() core.ServiceDependencies
	})
	if !ok {
		return nil
	}
	deps := provider.Dependencies()
	if deps.ActivitySink != nil {
		return activitySinkReader{sink: deps.ActivitySink}
	}
	if deps.RepositoryFactory == nil {
		return nil
	}

	factoryValue := reflect.ValueOf(deps.RepositoryFactory)
	if !factoryValue.IsValid() {
		return nil
	}
	if factoryValue.Kind() == reflect.Ptr && factoryValue.IsNil() {
		return nil
	}
	method := factoryValue.MethodByName("ActivitySink")
	if !method.IsValid() || method.Type().NumIn() != 0 || method.Type().NumOut() != 1 {
		return nil
	}

	results, ok := safeReflectCall(method)
	if !ok {
		return nil
	}
	if len(results) != 1 {
		return nil
	}
	candidate := results[0]
	if !candidate.IsValid() {
		return nil
	}
	if candidate.Kind() == reflect.Ptr && candidate.IsNil() {
		return nil
	}
	sink, ok := candidate.Interface().(core.ActivitySink)
	if !ok {
		return nil
	}
	return activitySinkReader{sink: sink}
}

func safeReflectCall(method reflect.Value) (_ []reflect.Value, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return method.Call(nil), true
}
