package scope

import "testing"

func TestScopeOrg(t *testing.T) {
	cases := []struct {
		name      string
		caller    Caller
		requested string
		want      string
	}{
		{"standard admin ignores requested org", Caller{OrganizationID: "org-a", Role: RoleStandardAdmin}, "org-b", "org-a"},
		{"standard admin with no request", Caller{OrganizationID: "org-a", Role: RoleStandardAdmin}, "", "org-a"},
		{"super admin picks requested org", Caller{OrganizationID: "org-a", Role: RoleSuperAdmin}, "org-b", "org-b"},
		{"super admin omitting org sees all", Caller{OrganizationID: "org-a", Role: RoleSuperAdmin}, "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.caller.ScopeOrg(tc.requested); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCanQuery(t *testing.T) {
	cases := []struct {
		name   string
		caller Caller
		want   bool
	}{
		{"standard admin with org", Caller{OrganizationID: "o", Role: RoleStandardAdmin}, true},
		{"standard admin without org", Caller{AdminID: "a", Role: RoleStandardAdmin}, false},
		{"anonymous caller", Caller{}, false},
		{"super admin without org", Caller{AdminID: "a", Role: RoleSuperAdmin}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.caller.CanQuery(); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCanMutate(t *testing.T) {
	if (Caller{AdminID: "a", OrganizationID: "o"}).CanMutate() != true {
		t.Fatal("caller with admin and org should mutate")
	}
	if (Caller{AdminID: "a"}).CanMutate() {
		t.Fatal("caller without org must not mutate")
	}
	if (Caller{OrganizationID: "o"}).CanMutate() {
		t.Fatal("caller without admin id must not mutate")
	}
}
