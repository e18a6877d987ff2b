package access

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-access/core"
	"github.com/goliatone/go-access/platforms"
)

type PluginPack struct {
	Name    string
	Plugins []core.Plugin
}

type ManifestPack struct {
	Name      string
	Manifests []core.PlatformManifest
}

type CommandQueryBundleFactory func(service CommandQueryService) (any, error)

type ExtensionHooks struct {
	mu sync.RWMutex

	pluginPacks   map[string]PluginPack
	manifestPacks map[string]ManifestPack
	bundles       map[string]CommandQueryBundleFactory
}

func NewExtensionHooks() *ExtensionHooks {
	return &ExtensionHooks{
		pluginPacks:   map[string]PluginPack{},
		manifestPacks: map[string]ManifestPack{},
		bundles:       map[string]CommandQueryBundleFactory{},
	}
}

func (h *ExtensionHooks) RegisterPluginPack(pack PluginPack) error {
	if h == nil {
		return fmt.Errorf("access: extension hooks are nil")
	}
	name := strings.TrimSpace(pack.Name)
	if name == "" {
		return fmt.Errorf("access: plugin pack name is required")
	}
	if len(pack.Plugins) == 0 {
		return fmt.Errorf("access: plugin pack %q has no plugins", name)
	}

	normalized := PluginPack{
		Name:    name,
		Plugins: append([]core.Plugin(nil), pack.Plugins...),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.pluginPacks[name]; exists {
		return fmt.Errorf("access: plugin pack %q already registered", name)
	}
	h.pluginPacks[name] = normalized
	return nil
}

func (h *ExtensionHooks) RegisterManifestPack(pack ManifestPack) error {
	if h == nil {
		return fmt.Errorf("access: extension hooks are nil")
	}
	name := strings.TrimSpace(pack.Name)
	if name == "" {
		return fmt.Errorf("access: manifest pack name is required")
	}
	if len(pack.Manifests) == 0 {
		return fmt.Errorf("access: manifest pack %q has no manifests", name)
	}
	for _, manifest := range pack.Manifests {
		if err := manifest.Validate(); err != nil {
			return fmt.Errorf("access: manifest pack %q: %w", name, err)
		}
	}

	normalized := ManifestPack{
		Name:      name,
		Manifests: append([]core.PlatformManifest(nil), pack.Manifests...),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.manifestPacks[name]; exists {
		return fmt.Errorf("access: manifest pack %q already registered", name)
	}
	h.manifestPacks[name] = normalized
	return nil
}

func (h *ExtensionHooks) RegisterCommandQueryBundle(
	name string,
	factory CommandQueryBundleFactory,
) error {
	if h == nil {
		return fmt.Errorf("access: extension hooks are nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("access: command/query bundle name is required")
	}
	if factory == nil {
		return fmt.Errorf("access: command/query bundle %q factory is required", name)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.bundles[name]; exists {
		return fmt.Errorf("access: command/query bundle %q already registered", name)
	}
	h.bundles[name] = factory
	return nil
}

func (h *ExtensionHooks) ApplyPluginPacks(registry *core.PluginRegistry) error {
	if h == nil {
		return nil
	}
	if registry == nil {
		return fmt.Errorf("access: plugin registry is required")
	}

	packs := h.PluginPacks()
	for _, pack := range packs {
		for _, plugin := range pack.Plugins {
			if plugin == nil {
				return fmt.Errorf("access: plugin pack %q contains nil plugin", pack.Name)
			}
			if err := registry.Register(plugin); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *ExtensionHooks) BuildCommandQueryBundles(
	service CommandQueryService,
) (map[string]any, error) {
	if h == nil {
		return map[string]any{}, nil
	}
	if service == nil {
		return nil, fmt.Errorf("access: command/query service is required")
	}

	h.mu.RLock()
	names := make([]string, 0, len(h.bundles))
	for name := range h.bundles {
		names = append(names, name)
	}
	sort.Strings(names)
	factories := make(map[string]CommandQueryBundleFactory, len(h.bundles))
	for name, factory := range h.bundles {
		factories[name] = factory
	}
	h.mu.RUnlock()

	result := make(map[string]any, len(names))
	for _, name := range names {
		bundle, err := factories[name](service)
		if err != nil {
			return nil, err
		}
		result[name] = bundle
	}
	return result, nil
}

func (h *ExtensionHooks) PluginPacks() []PluginPack {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.pluginPacks))
	for name := range h.pluginPacks {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]PluginPack, 0, len(names))
	for _, name := range names {
		pack := h.pluginPacks[name]
		out = append(out, PluginPack{
			Name:    pack.Name,
			Plugins: append([]core.Plugin(nil), pack.Plugins...),
		})
	}
	return out
}

// Manifests flattens the registered manifest packs in deterministic pack
// order.
func (h *ExtensionHooks) Manifests() []core.PlatformManifest {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.manifestPacks))
	for name := range h.manifestPacks {
		names = append(names, name)
	}
	sort.Strings(names)

	out := []core.PlatformManifest{}
	for _, name := range names {
		out = append(out, h.manifestPacks[name].Manifests...)
	}
	return out
}

// ManifestSource exposes the registered manifest packs as a core.ManifestSource
// suitable for WithManifestSource.
func (h *ExtensionHooks) ManifestSource() core.ManifestSource {
	return platforms.BuiltinManifests(h.Manifests())
}

func (h *ExtensionHooks) BundleNames() []string {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.bundles))
	for name := range h.bundles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
