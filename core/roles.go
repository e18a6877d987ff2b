package core

import (
	"sort"
	"strings"
)

// ResolveNativeRole maps a requested role label onto a platform-native role
// identifier. Matching is case-insensitive over trimmed input. The second
// return reports whether the role resolved; an empty or unknown role never
// resolves.
func ResolveNativeRole(role string, roleMap map[string]string) (string, bool) {
	wanted := strings.ToLower(strings.TrimSpace(role))
	if wanted == "" {
		return "", false
	}
	for label, native := range roleMap {
		if strings.ToLower(strings.TrimSpace(label)) == wanted {
			return native, true
		}
	}
	return "", false
}

// RoleLabels returns the requestable role labels of a role map in sorted
// order, for instruction text and catalog listings.
func RoleLabels(roleMap map[string]string) []string {
	labels := make([]string, 0, len(roleMap))
	for label := range roleMap {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
