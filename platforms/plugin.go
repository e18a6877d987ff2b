package platforms

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-access/core"
)

// OperationsClient performs the provider API calls for one platform. The
// native role handed in has already been resolved through the platform's role
// map. Implementations receive opaque token references and exchange them for
// live credentials outside this module.
type OperationsClient interface {
	Grant(ctx context.Context, req core.ProvisioningRequest, nativeRole string) (core.OperationResult, error)
	Verify(ctx context.Context, req core.ProvisioningRequest, nativeRole string) (core.OperationResult, error)
	Revoke(ctx context.Context, req core.ProvisioningRequest, nativeRole string) (core.OperationResult, error)
}

// Config wires one platform plugin.
type Config struct {
	Manifest core.PlatformManifest
	RoleMap  map[string]string
	Client   OperationsClient
}

// BasePlugin implements the uniform plugin contract on top of a manifest, a
// role map, and an operations client. Every operation validates the request
// before anything touches the provider API.
type BasePlugin struct {
	manifest core.PlatformManifest
	roleMap  map[string]string
	client   OperationsClient
}

func New(cfg Config) (*BasePlugin, error) {
	if err := cfg.Manifest.Validate(); err != nil {
		return nil, err
	}
	roleMap := make(map[string]string, len(cfg.RoleMap))
	for label, native := range cfg.RoleMap {
		roleMap[strings.TrimSpace(label)] = strings.TrimSpace(native)
	}
	return &BasePlugin{
		manifest: cfg.Manifest,
		roleMap:  roleMap,
		client:   cfg.Client,
	}, nil
}

func (p *BasePlugin) PlatformKey() string {
	return p.manifest.PlatformKey
}

func (p *BasePlugin) Manifest() core.PlatformManifest {
	return p.manifest
}

// RoleMap returns a copy of the requestable role labels and their native
// identifiers.
func (p *BasePlugin) RoleMap() map[string]string {
	out := make(map[string]string, len(p.roleMap))
	for label, native := range p.roleMap {
		out[label] = native
	}
	return out
}

func (p *BasePlugin) GrantAccess(ctx context.Context, req core.ProvisioningRequest) (core.OperationResult, error) {
	return p.run(ctx, req, func(ctx context.Context, client OperationsClient, nativeRole string) (core.OperationResult, error) {
		return client.Grant(ctx, req, nativeRole)
	})
}

func (p *BasePlugin) VerifyAccess(ctx context.Context, req core.ProvisioningRequest) (core.OperationResult, error) {
	return p.run(ctx, req, func(ctx context.Context, client OperationsClient, nativeRole string) (core.OperationResult, error) {
		return client.Verify(ctx, req, nativeRole)
	})
}

func (p *BasePlugin) RevokeAccess(ctx context.Context, req core.ProvisioningRequest) (core.OperationResult, error) {
	return p.run(ctx, req, func(ctx context.Context, client OperationsClient, nativeRole string) (core.OperationResult, error) {
		return client.Revoke(ctx, req, nativeRole)
	})
}

type operationFunc func(ctx context.Context, client OperationsClient, nativeRole string) (core.OperationResult, error)

func (p *BasePlugin) run(ctx context.Context, req core.ProvisioningRequest, op operationFunc) (core.OperationResult, error) {
	if problems := core.ValidateProvisioningRequest(p.manifest, req); len(problems) > 0 {
		return core.OperationResult{
			Success: false,
			Error:   strings.Join(problems, "; "),
		}, nil
	}

	nativeRole, ok := core.ResolveNativeRole(req.Role, p.roleMap)
	if !ok {
		return core.OperationResult{
			Success: false,
			Error: fmt.Sprintf(
				"Role %q is not recognized on %s. Available roles: %s",
				strings.TrimSpace(req.Role), p.manifest.Label(), strings.Join(core.RoleLabels(p.roleMap), ", "),
			),
		}, nil
	}

	if p.client == nil {
		return core.OperationResult{
			Success: false,
			Error:   fmt.Sprintf("%s has no API operations client configured", p.manifest.Label()),
		}, nil
	}
	return op(ctx, p.client, nativeRole)
}

var _ core.Plugin = (*BasePlugin)(nil)
