package core

// AccessTypeCapability is the resolved capability view for one access item
// type on one platform, independent of any specific request context.
type AccessTypeCapability struct {
	AccessItemType AccessItemType
	Base           Capability
	Conditional    []ConditionalRule
}

// EffectiveCapabilities resolves the capability block for an access item type
// under a request context. The base block applies when no conditional rule
// matches; the first matching conditional wins. A platform with no rule for
// the type falls back to the restrictive default block.
func EffectiveCapabilities(manifest PlatformManifest, itemType AccessItemType, ctx CapabilityContext) Capability {
	rule, ok := manifest.capabilityRuleFor(itemType)
	if !ok {
		return DefaultRestrictiveCapability()
	}
	for _, conditional := range rule.Conditional {
		if conditional.Matches(ctx) {
			return conditional.Then
		}
	}
	return rule.Base
}

// CapabilityForType returns the full declared capability rule for the type,
// reporting false when the manifest carries no rule for it.
func CapabilityForType(manifest PlatformManifest, itemType AccessItemType) (AccessTypeCapability, bool) {
	rule, ok := manifest.capabilityRuleFor(itemType)
	if !ok {
		return AccessTypeCapability{}, false
	}
	return AccessTypeCapability{
		AccessItemType: rule.AccessItemType.Normalize(),
		Base:           rule.Base,
		Conditional:    rule.Conditional,
	}, true
}

// PluginSupportsCapability resolves a single capability flag with an empty
// context. Use PluginSupportsCapabilityWithConfig when a PAM configuration is
// in play, otherwise conditional unlocks keyed on ownership never fire.
func PluginSupportsCapability(manifest PlatformManifest, itemType AccessItemType, flag CapabilityFlag) bool {
	return EffectiveCapabilities(manifest, itemType, nil).Flag(flag)
}

// PluginSupportsCapabilityWithConfig resolves a single capability flag under
// the context derived from the given PAM configuration.
func PluginSupportsCapabilityWithConfig(manifest PlatformManifest, itemType AccessItemType, flag CapabilityFlag, pam *PamConfig) bool {
	var ctx CapabilityContext
	if pam != nil {
		ctx = pam.Context()
	}
	return EffectiveCapabilities(manifest, itemType, ctx).Flag(flag)
}
