package render

import "github.com/usestring/jsontypegen/pkg/decl"

// Target is one output language.
type Target interface {
	decl.Conventions

	Name() string
	Description() string

	// Rules returns the default rules for the given number policy.
	Rules(policy NumberPolicy) (Rules, error)
	// Check reports rules the target cannot honor.
	Check(r Rules) error
	// Emit renders decls. Rules have already passed Check.
	Emit(decls []decl.Declaration, r Rules) (string, error)
}

// Registry is an immutable set of targets keyed by name.
type Registry struct {
	byName map[string]Target
	order  []Target
}

// NewRegistry builds a registry. Later targets replace earlier ones with
// the same name.
func NewRegistry(targets ...Target) *Registry {
	reg := &Registry{byName: make(map[string]Target, len(targets))}
	for _, t := range targets {
		if _, dup := reg.byName[t.Name()]; !dup {
			reg.order = append(reg.order, t)
		} else {
			for i, o := range reg.order {
				if o.Name() == t.Name() {
					reg.order[i] = t
				}
			}
		}
		reg.byName[t.Name()] = t
	}
	return reg
}

// Lookup finds a target by name.
func (reg *Registry) Lookup(name string) (Target, bool) {
	t, ok := reg.byName[name]
	return t, ok
}

// Targets lists targets in registration order.
func (reg *Registry) Targets() []Target {
	out := make([]Target, len(reg.order))
	copy(out, reg.order)
	return out
}

var builtin = NewRegistry(
	Rust{},
	Go{},
	TypeScript{},
	TypeScript{TypeAlias: true},
	Kotlin{},
	JSONSchema{},
	OpenAPI{},
	ShapeDump{},
)

// DefaultTarget is used when no target is named.
const DefaultTarget = "rust"

// Lookup finds a built-in target.
func Lookup(name string) (Target, bool) {
	return builtin.Lookup(name)
}

// Targets lists the built-in targets.
func Targets() []Target {
	return builtin.Targets()
}

// Resolve finds the named target in reg, or among the built-in targets
// when reg is nil. An empty name selects DefaultTarget.
func Resolve(reg *Registry, name string) (Target, error) {
	if name == "" {
		name = DefaultTarget
	}
	if reg == nil {
		reg = builtin
	}
	t, ok := reg.Lookup(name)
	if !ok {
		return nil, invalid("unknown target %q", name)
	}
	return t, nil
}

// Defaults returns the default rules of the named built-in target.
func Defaults(target string, policy NumberPolicy) (Rules, error) {
	t, err := Resolve(nil, target)
	if err != nil {
		return Rules{}, err
	}
	return t.Rules(policy)
}
