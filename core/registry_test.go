package core

import (
	"context"
	"errors"
	"testing"
)

type testPlugin struct {
	key      string
	manifest PlatformManifest
}

func (p testPlugin) PlatformKey() string        { return p.key }
func (p testPlugin) Manifest() PlatformManifest { return p.manifest }

func (p testPlugin) GrantAccess(context.Context, ProvisioningRequest) (OperationResult, error) {
	return OperationResult{Success: true}, nil
}

func (p testPlugin) VerifyAccess(context.Context, ProvisioningRequest) (OperationResult, error) {
	return OperationResult{Success: true}, nil
}

func (p testPlugin) RevokeAccess(context.Context, ProvisioningRequest) (OperationResult, error) {
	return OperationResult{Success: true}, nil
}

func TestManifestRegistry_GetAndList(t *testing.T) {
	first := testManifest()
	second := testManifest()
	second.PlatformKey = "tiktok_ads"
	second.DisplayName = "TikTok Ads"

	registry, err := NewManifestRegistry(second, first)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}

	got, err := registry.Get("ga4")
	if err != nil {
		t.Fatalf("get manifest: %v", err)
	}
	if got.DisplayName != "Google Analytics 4" {
		t.Fatalf("unexpected manifest: %+v", got)
	}

	listed := registry.List()
	if len(listed) != 2 {
		t.Fatalf("expected 2 manifests, got %d", len(listed))
	}
	if listed[0].PlatformKey != "ga4" || listed[1].PlatformKey != "tiktok_ads" {
		t.Fatalf("expected sorted order, got %s, %s", listed[0].PlatformKey, listed[1].PlatformKey)
	}
}

func TestManifestRegistry_UnknownKey(t *testing.T) {
	registry, err := NewManifestRegistry(testManifest())
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}

	if _, err := registry.Get("unknown"); !errors.Is(err, ErrManifestNotFound) {
		t.Fatalf("expected ErrManifestNotFound, got %v", err)
	}
	if _, err := registry.Get(""); !errors.Is(err, ErrManifestNotFound) {
		t.Fatalf("expected ErrManifestNotFound for empty key, got %v", err)
	}
}

func TestManifestRegistry_RejectsInvalidManifest(t *testing.T) {
	manifest := testManifest()
	manifest.Tier = 9

	if _, err := NewManifestRegistry(manifest); !errors.Is(err, ErrInvalidManifest) {
		t.Fatalf("expected ErrInvalidManifest, got %v", err)
	}
}

func TestManifestRegistry_RejectsDuplicates(t *testing.T) {
	if _, err := NewManifestRegistry(testManifest(), testManifest()); !errors.Is(err, ErrInvalidManifest) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}
}

func TestManifestRegistry_RejectsDuplicateCapabilityRules(t *testing.T) {
	manifest := testManifest()
	manifest.CapabilityRules = append(manifest.CapabilityRules, CapabilityRule{
		AccessItemType: AccessItemTypeNamedInvite,
	})

	if _, err := NewManifestRegistry(manifest); !errors.Is(err, ErrInvalidManifest) {
		t.Fatalf("expected duplicate rule rejection, got %v", err)
	}
}

func TestPluginRegistry_RegisterAndGet(t *testing.T) {
	registry := NewPluginRegistry()
	plugin := testPlugin{key: "ga4", manifest: testManifest()}

	if err := registry.Register(plugin); err != nil {
		t.Fatalf("register plugin: %v", err)
	}
	if err := registry.Register(plugin); !errors.Is(err, ErrPluginAlreadyExists) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}

	got, err := registry.Get("ga4")
	if err != nil {
		t.Fatalf("get plugin: %v", err)
	}
	if got.PlatformKey() != "ga4" {
		t.Fatalf("unexpected plugin: %s", got.PlatformKey())
	}

	if _, err := registry.Get("missing"); !errors.Is(err, ErrPluginNotFound) {
		t.Fatalf("expected ErrPluginNotFound, got %v", err)
	}
}

func TestPluginRegistry_KeysSorted(t *testing.T) {
	registry := NewPluginRegistry()
	for _, key := range []string{"tiktok_ads", "ga4", "meta_ads"} {
		if err := registry.Register(testPlugin{key: key}); err != nil {
			t.Fatalf("register %s: %v", key, err)
		}
	}

	keys := registry.Keys()
	want := []string{"ga4", "meta_ads", "tiktok_ads"}
	for idx := range want {
		if keys[idx] != want[idx] {
			t.Fatalf("unexpected order: got %v want %v", keys, want)
		}
	}
}

func TestPluginRegistry_Unregister(t *testing.T) {
	registry := NewPluginRegistry()
	if err := registry.Register(testPlugin{key: "ga4"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	registry.Unregister("ga4")
	if registry.Has("ga4") {
		t.Fatalf("plugin should be gone after unregister")
	}
	registry.Unregister("ga4")
}
