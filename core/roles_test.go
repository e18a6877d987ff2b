package core

import "testing"

func TestResolveNativeRole(t *testing.T) {
	roleMap := map[string]string{
		"viewer":  "predefinedRoles/viewer",
		"analyst": "predefinedRoles/analyst",
		"editor":  "predefinedRoles/editor",
		"admin":   "predefinedRoles/admin",
	}

	cases := []struct {
		name   string
		role   string
		want   string
		wantOK bool
	}{
		{name: "exact match", role: "viewer", want: "predefinedRoles/viewer", wantOK: true},
		{name: "case insensitive", role: "VIEWER", want: "predefinedRoles/viewer", wantOK: true},
		{name: "mixed case trimmed", role: "  Analyst ", want: "predefinedRoles/analyst", wantOK: true},
		{name: "unknown role", role: "owner", wantOK: false},
		{name: "empty role", role: "", wantOK: false},
		{name: "whitespace role", role: "   ", wantOK: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ResolveNativeRole(tc.role, roleMap)
			if ok != tc.wantOK {
				t.Fatalf("resolved=%v want %v", ok, tc.wantOK)
			}
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestResolveNativeRole_NilMap(t *testing.T) {
	if _, ok := ResolveNativeRole("viewer", nil); ok {
		t.Fatalf("nil role map must not resolve")
	}
}

func TestRoleLabels_Sorted(t *testing.T) {
	labels := RoleLabels(map[string]string{
		"editor": "e",
		"admin":  "a",
		"viewer": "v",
	})
	want := []string{"admin", "editor", "viewer"}
	if len(labels) != len(want) {
		t.Fatalf("expected %d labels, got %v", len(want), labels)
	}
	for idx := range want {
		if labels[idx] != want[idx] {
			t.Fatalf("unexpected order: got %v want %v", labels, want)
		}
	}
}
