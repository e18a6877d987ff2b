package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	ErrPluginNotFound      = errors.New("core: plugin not found")
	ErrPluginAlreadyExists = errors.New("core: plugin already registered")
)

// ManifestRegistry holds the full platform catalog. It is built once from a
// validated manifest set and immutable afterwards.
type ManifestRegistry struct {
	manifests map[string]PlatformManifest
}

// NewManifestRegistry validates every manifest and indexes them by platform
// key. Duplicate keys and invalid manifests fail construction.
func NewManifestRegistry(manifests ...PlatformManifest) (*ManifestRegistry, error) {
	indexed := make(map[string]PlatformManifest, len(manifests))
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		key := strings.TrimSpace(manifest.PlatformKey)
		if _, dup := indexed[key]; dup {
			return nil, fmt.Errorf("%w: duplicate platform key %q", ErrInvalidManifest, key)
		}
		indexed[key] = manifest
	}
	return &ManifestRegistry{manifests: indexed}, nil
}

// Get returns the manifest for a platform key.
func (r *ManifestRegistry) Get(platformKey string) (PlatformManifest, error) {
	key := strings.TrimSpace(platformKey)
	if key == "" {
		return PlatformManifest{}, fmt.Errorf("%w: empty platform key", ErrManifestNotFound)
	}
	manifest, ok := r.manifests[key]
	if !ok {
		return PlatformManifest{}, fmt.Errorf("%w: %s", ErrManifestNotFound, key)
	}
	return manifest, nil
}

// Has reports whether the platform key is present in the catalog.
func (r *ManifestRegistry) Has(platformKey string) bool {
	_, ok := r.manifests[strings.TrimSpace(platformKey)]
	return ok
}

// List returns every manifest sorted by platform key.
func (r *ManifestRegistry) List() []PlatformManifest {
	out := make([]PlatformManifest, 0, len(r.manifests))
	for _, manifest := range r.manifests {
		out = append(out, manifest)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PlatformKey < out[j].PlatformKey
	})
	return out
}

// Keys returns the sorted platform keys.
func (r *ManifestRegistry) Keys() []string {
	keys := make([]string, 0, len(r.manifests))
	for key := range r.manifests {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// PluginRegistry tracks the provisioning plugins available in this process.
// Unlike the manifest catalog it is mutable: plugins register at startup and
// test doubles swap in and out.
type PluginRegistry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
}

func NewPluginRegistry() *PluginRegistry {
	return &PluginRegistry{plugins: make(map[string]Plugin)}
}

// Register adds a plugin under its platform key. Registering the same key
// twice is a programming error and fails loudly.
func (r *PluginRegistry) Register(plugin Plugin) error {
	if plugin == nil {
		return errors.New("core: cannot register nil plugin")
	}
	key := strings.TrimSpace(plugin.PlatformKey())
	if key == "" {
		return errors.New("core: cannot register plugin with empty platform key")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.plugins[key]; dup {
		return fmt.Errorf("%w: %s", ErrPluginAlreadyExists, key)
	}
	r.plugins[key] = plugin
	return nil
}

// MustRegister is Register for startup wiring, panicking on conflict.
func (r *PluginRegistry) MustRegister(plugin Plugin) {
	if err := r.Register(plugin); err != nil {
		panic(err)
	}
}

// Get returns the plugin for a platform key.
func (r *PluginRegistry) Get(platformKey string) (Plugin, error) {
	key := strings.TrimSpace(platformKey)

	r.mu.RLock()
	defer r.mu.RUnlock()

	plugin, ok := r.plugins[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPluginNotFound, key)
	}
	return plugin, nil
}

// Has reports whether a plugin is registered for the key.
func (r *PluginRegistry) Has(platformKey string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.plugins[strings.TrimSpace(platformKey)]
	return ok
}

// Unregister removes a plugin. Removing an absent key is a no-op.
func (r *PluginRegistry) Unregister(platformKey string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.plugins, strings.TrimSpace(platformKey))
}

// Keys returns the sorted platform keys of all registered plugins.
func (r *PluginRegistry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.plugins))
	for key := range r.plugins {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
