package platforms

import (
	"context"

	"github.com/goliatone/go-access/core"
)

// BuiltinManifests is a core.ManifestSource over a fixed manifest set.
type BuiltinManifests []core.PlatformManifest

func (m BuiltinManifests) Manifests(context.Context) ([]core.PlatformManifest, error) {
	out := make([]core.PlatformManifest, len(m))
	copy(out, m)
	return out, nil
}

var _ core.ManifestSource = BuiltinManifests(nil)
