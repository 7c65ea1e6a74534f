// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package auth

import "testing"

func TestAuthorizerPolicy(t *testing.T) {
	a, err := NewAuthorizer()
	if err != nil {
		t.Fatalf("NewAuthorizer: %v", err)
	}

	tests := []struct {
		role, object, action string
		want                 bool
	}{
		{RoleAdmin, ObjectProducts, ActionWrite, true},
		{RoleAdmin, ObjectOrders, ActionWrite, false},
		{RoleAdmin, ObjectRecommendations, ActionRead, false},
		{RoleShopper, ObjectProducts, ActionWrite, false},
		{RoleShopper, ObjectRecommendations, ActionRead, true},
		{RoleShopper, ObjectInteractions, ActionWrite, true},
		{RoleShopper, ObjectRatings, ActionWrite, true},
		{RoleShopper, ObjectOrders, ActionRead, true},
		{RoleShopper, ObjectOrders, ActionWrite, true},
		{"", ObjectOrders, ActionRead, false},
		{"guest", ObjectRecommendations, ActionRead, false},
	}
	for _, tt := range tests {
		got, err := a.Allowed(tt.role, tt.object, tt.action)
		if err != nil {
			t.Fatalf("Allowed(%s, %s, %s): %v", tt.role, tt.object, tt.action, err)
		}
		if got != tt.want {
			t.Errorf("Allowed(%s, %s, %s) = %v, want %v", tt.role, tt.object, tt.action, got, tt.want)
		}
	}
}

func TestParsePolicy(t *testing.T) {
	rules, err := parsePolicy("# comment\n\np, a, b, c\n  p ,x,y,z  \n")
	if err != nil {
		t.Fatalf("parsePolicy: %v", err)
	}
	if len(rules) != 2 || rules[1][0] != "x" || rules[1][2] != "z" {
		t.Errorf("rules = %v", rules)
	}

	if _, err := parsePolicy("p, a, b"); err == nil {
		t.Error("short rule accepted")
	}
	if _, err := parsePolicy("g, a, b"); err == nil {
		t.Error("grouping rule accepted")
	}
}
