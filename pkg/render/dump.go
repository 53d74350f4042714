package render

import (
	"encoding/json"
	"fmt"

	"github.com/usestring/jsontypegen/pkg/decl"
)

// ShapeDump emits the declaration graph as JSON, for debugging inference.
type ShapeDump struct{}

func (ShapeDump) Name() string        { return "shape" }
func (ShapeDump) Description() string { return "JSON dump of the declaration graph" }

func (ShapeDump) TypeIdent(key string) string {
	return decl.LeadingLetter(decl.PascalCase(key), "T")
}

func (ShapeDump) FieldIdent(key string) string {
	if key == "" {
		return `""`
	}
	return key
}

func (ShapeDump) ReservedTypeNames() []string { return nil }

func (d ShapeDump) Rules(policy NumberPolicy) (Rules, error) {
	p, err := policyOrDefault(policy)
	if err != nil {
		return Rules{}, err
	}
	return Rules{Target: d.Name(), NumberPolicy: p}, nil
}

func (d ShapeDump) Check(r Rules) error {
	return checkStructured(d.Name(), r)
}

func (ShapeDump) Emit(decls []decl.Declaration, _ Rules) (string, error) {
	if decls == nil {
		decls = []decl.Declaration{}
	}
	out, err := json.MarshalIndent(decls, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding declarations: %w", err)
	}
	return string(out) + "\n", nil
}
