package access

import (
	"fmt"

	"github.com/goliatone/go-access/core"
	"github.com/goliatone/go-access/platforms"
	googleads "github.com/goliatone/go-access/platforms/google/ads"
	"github.com/goliatone/go-access/platforms/google/ga4"
	"github.com/goliatone/go-access/platforms/linkedin"
	"github.com/goliatone/go-access/platforms/meta/facebook"
	"github.com/goliatone/go-access/platforms/tiktok"
)

func GA4Plugin(client platforms.OperationsClient) (core.Plugin, error) {
	return ga4.New(client)
}

func GoogleAdsPlugin(client platforms.OperationsClient) (core.Plugin, error) {
	return googleads.New(client)
}

func MetaAdsPlugin(client platforms.OperationsClient) (core.Plugin, error) {
	return facebook.New(client)
}

func TikTokAdsPlugin(client platforms.OperationsClient) (core.Plugin, error) {
	return tiktok.New(client)
}

// BuiltinManifests returns the manifest of every platform this module ships,
// including manual-only platforms that have no plugin.
func BuiltinManifests() []core.PlatformManifest {
	return []core.PlatformManifest{
		ga4.Manifest(),
		googleads.Manifest(),
		facebook.Manifest(),
		tiktok.Manifest(),
		linkedin.Manifest(),
	}
}

func BuiltinManifestSource() core.ManifestSource {
	return platforms.BuiltinManifests(BuiltinManifests())
}

// RegisterBuiltins registers every plugin-backed builtin platform against the
// registry using one shared operations client. LinkedIn Ads stays
// manifest-only: its access flows are provisioned manually.
func RegisterBuiltins(registry *core.PluginRegistry, client platforms.OperationsClient) error {
	if registry == nil {
		return fmt.Errorf("access: plugin registry is required")
	}
	factories := []func(platforms.OperationsClient) (core.Plugin, error){
		GA4Plugin,
		GoogleAdsPlugin,
		MetaAdsPlugin,
		TikTokAdsPlugin,
	}
	for _, build := range factories {
		plugin, err := build(client)
		if err != nil {
			return err
		}
		if err := registry.Register(plugin); err != nil {
			return err
		}
	}
	return nil
}
