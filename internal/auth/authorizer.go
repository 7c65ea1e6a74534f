// Vitrine - Storefront Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package auth

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Authorizer decides whether a role may perform an action on an object.
type Authorizer struct {
	enforcer *casbin.SyncedEnforcer
}

// NewAuthorizer builds an authorizer from the embedded model and policy.
func NewAuthorizer() (*Authorizer, error) {
	return newAuthorizer(embeddedModel, embeddedPolicy)
}

func newAuthorizer(modelText, policy string) (*Authorizer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	rules, err := parsePolicy(policy)
	if err != nil {
		return nil, err
	}
	if len(rules) > 0 {
		if _, err := enforcer.AddPolicies(rules); err != nil {
			return nil, fmt.Errorf("failed to add policies: %w", err)
		}
	}

	return &Authorizer{enforcer: enforcer}, nil
}

// parsePolicy reads "p, sub, obj, act" lines. Comments and blank lines are
// skipped.
func parsePolicy(policy string) ([][]string, error) {
	var rules [][]string
	for i, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for j := range parts {
			parts[j] = strings.TrimSpace(parts[j])
		}
		if parts[0] != "p" || len(parts) != 4 {
			return nil, fmt.Errorf("policy line %d: want \"p, sub, obj, act\", got %q", i+1, line)
		}
		rules = append(rules, parts[1:])
	}
	return rules, nil
}

// Allowed reports whether role may perform action on object.
func (a *Authorizer) Allowed(role, object, action string) (bool, error) {
	ok, err := a.enforcer.Enforce(role, object, action)
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}
	return ok, nil
}
