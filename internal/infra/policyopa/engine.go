// Package policyopa evaluates the role policy from a rego bundle instead of
// the built-in rbac rules, for deployments that tune access rules without a
// redeploy. The bundle must define data.toit.authz.deny as a set of codes.
package policyopa

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/domain"

	"github.com/open-policy-agent/opa/rego"
)

const defaultQuery = "data.toit.authz.deny"

type Engine struct {
	query rego.PreparedEvalQuery
}

func NewEngineFromBundlePath(ctx context.Context, bundlePath string) (*Engine, error) {
	if bundlePath == "" {
		return nil, errors.New("policy bundle path is required")
	}
	r := rego.New(
		rego.Query(defaultQuery),
		rego.StrictBuiltinErrors(true),
		rego.Load([]string{bundlePath}, nil),
	)
	prepared, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare policy: %w", err)
	}
	return &Engine{query: prepared}, nil
}

type policyInput struct {
	UserID       string `json:"user_id"`
	Role         string `json:"role"`
	RequiredRole string `json:"required_role"`
	IsActive     bool   `json:"is_active"`
}

func (e *Engine) Require(ctx context.Context, profile domain.Profile, role domain.Role) error {
	if e == nil {
		return errors.New("policy engine is nil")
	}
	input := policyInput{
		UserID:       profile.UserID,
		Role:         string(profile.Role),
		RequiredRole: string(role),
		IsActive:     profile.IsActive,
	}
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return fmt.Errorf("evaluate policy: %w", err)
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return errors.New("empty policy result")
	}
	codes, err := decodeDenyCodes(results[0].Expressions[0].Value)
	if err != nil {
		return err
	}
	if len(codes) == 0 {
		return nil
	}
	sort.Strings(codes)
	return &domain.AccessError{Code: codes[0], Err: domain.ErrForbidden}
}

func decodeDenyCodes(value any) ([]string, error) {
	raw, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected policy result type %T", value)
	}
	codes := make([]string, 0, len(raw))
	for _, entry := range raw {
		code, ok := entry.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected deny entry type %T", entry)
		}
		codes = append(codes, code)
	}
	return codes, nil
}
