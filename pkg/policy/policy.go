// Package policy validates the opaque policy-parameter payload a
// proposal carries, at the boundary where proposals enter the system.
//
// Parameters stay opaque by default: a kind with no registered schema
// accepts any payload within the byte bound. When a schema is
// registered, the payload must be a JSON object matching it, and the
// accepted form is canonicalized and hashed so the ledger records
// exactly what was approved.
package policy

import (
	"encoding/json"
	"fmt"

	"github.com/ars-protocol/ars-core/pkg/canonical"
	"github.com/ars-protocol/ars-core/pkg/governance"
	"github.com/ars-protocol/ars-core/pkg/protoerr"
)

// FieldSpec describes a single parameter field.
type FieldSpec struct {
	Type     string `json:"type"` // "string", "number", "boolean", "object", "array", "any"
	Required bool   `json:"required,omitempty"`
}

// Schema is a lightweight field-spec schema for one policy kind.
type Schema struct {
	Fields map[string]FieldSpec `json:"fields"`
	// AllowExtra permits fields not declared in the schema.
	AllowExtra bool `json:"allow_extra,omitempty"`
}

// Result is the outcome of a successful validation.
type Result struct {
	// CanonicalJSON is the RFC 8785 form of the params, nil when the
	// kind has no schema.
	CanonicalJSON []byte
	// ParamsHash is the sha256 of the canonical form (or of the raw
	// bytes for schemaless kinds).
	ParamsHash string
}

// Registry maps policy kinds to their parameter schemas.
type Registry struct {
	schemas map[governance.PolicyKind]*Schema
}

// NewRegistry creates an empty registry: all kinds opaque.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[governance.PolicyKind]*Schema)}
}

// Register installs a schema for kind, replacing any existing one.
func (r *Registry) Register(kind governance.PolicyKind, s *Schema) {
	r.schemas[kind] = s
}

// DefaultRegistry returns the schemas for the built-in policy kinds.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(governance.PolicyMintAsset, &Schema{
		Fields: map[string]FieldSpec{
			"amount": {Type: "number", Required: true},
		},
	})
	r.Register(governance.PolicyBurnAsset, &Schema{
		Fields: map[string]FieldSpec{
			"amount": {Type: "number", Required: true},
		},
	})
	r.Register(governance.PolicyUpdateRatio, &Schema{
		Fields: map[string]FieldSpec{
			"target_ratio_bps": {Type: "number", Required: true},
		},
	})
	r.Register(governance.PolicyRebalanceVault, &Schema{
		Fields: map[string]FieldSpec{
			"max_slippage_bps": {Type: "number"},
		},
	})
	return r
}

// Validate checks params against the schema registered for kind.
func (r *Registry) Validate(kind governance.PolicyKind, params []byte) (*Result, error) {
	schema, ok := r.schemas[kind]
	if !ok || schema == nil {
		return &Result{ParamsHash: canonical.HashBytes(params)}, nil
	}

	var obj map[string]any
	if err := json.Unmarshal(params, &obj); err != nil {
		return nil, protoerr.ErrInvalidPolicyParams.WithDetail("params for %s must be a JSON object: %v", kind, err)
	}

	for name, spec := range schema.Fields {
		val, present := obj[name]
		if !present {
			if spec.Required {
				return nil, protoerr.ErrInvalidPolicyParams.WithDetail("missing required field %q", name)
			}
			continue
		}
		if !typeMatches(spec.Type, val) {
			return nil, protoerr.ErrInvalidPolicyParams.WithDetail("field %q: expected %s, got %s", name, spec.Type, jsonType(val))
		}
	}
	if !schema.AllowExtra {
		for name := range obj {
			if _, declared := schema.Fields[name]; !declared {
				return nil, protoerr.ErrInvalidPolicyParams.WithDetail("unknown field %q", name)
			}
		}
	}

	canon, err := canonical.JCS(obj)
	if err != nil {
		return nil, protoerr.ErrInvalidPolicyParams.WithDetail("canonicalization failed: %v", err)
	}
	return &Result{
		CanonicalJSON: canon,
		ParamsHash:    canonical.HashBytes(canon),
	}, nil
}

func typeMatches(expected string, val any) bool {
	if expected == "" || expected == "any" {
		return true
	}
	return jsonType(val) == expected
}

func jsonType(val any) string {
	switch val.(type) {
	case string:
		return "string"
	case float64, json.Number:
		return "number"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", val)
	}
}
