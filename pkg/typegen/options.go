package typegen

import (
	"strings"

	"github.com/usestring/jsontypegen/pkg/render"
	"github.com/usestring/jsontypegen/pkg/sample"
)

// Options configures one generation. The zero value renders Rust with the
// target's default rules. Pointer fields distinguish "keep the target
// default" (nil) from an explicit empty value.
type Options struct {
	Target       string              `json:"target,omitempty" yaml:"target,omitempty"`
	NumberPolicy render.NumberPolicy `json:"number_policy,omitempty" yaml:"number_policy,omitempty"`

	TypeVisibility  *string  `json:"type_visibility,omitempty" yaml:"type_visibility,omitempty"`
	FieldVisibility *string  `json:"field_visibility,omitempty" yaml:"field_visibility,omitempty"`
	Derives         []string `json:"derives,omitempty" yaml:"derives,omitempty"`
	Imports         *bool    `json:"imports,omitempty" yaml:"imports,omitempty"`
	Package         string   `json:"package,omitempty" yaml:"package,omitempty"`

	// Tuple merges top-level array positions independently.
	Tuple bool `json:"tuple,omitempty" yaml:"tuple,omitempty"`

	Selector sample.Selector `json:"selector,omitempty" yaml:"selector,omitempty"`

	registry *render.Registry
}

// Option mutates Options.
type Option func(*Options)

// WithTarget selects the output language by registry name.
func WithTarget(name string) Option {
	return func(o *Options) { o.Target = name }
}

// WithNumberPolicy selects decimal or float numbers.
func WithNumberPolicy(p render.NumberPolicy) Option {
	return func(o *Options) { o.NumberPolicy = p }
}

// WithTypeVisibility overrides the visibility of every declared type.
func WithTypeVisibility(v string) Option {
	return func(o *Options) { o.TypeVisibility = &v }
}

// WithFieldVisibility overrides the visibility of every field.
func WithFieldVisibility(v string) Option {
	return func(o *Options) { o.FieldVisibility = &v }
}

// WithDerives replaces the derive list.
func WithDerives(derives ...string) Option {
	return func(o *Options) { o.Derives = derives }
}

// WithImports toggles import lines.
func WithImports(on bool) Option {
	return func(o *Options) { o.Imports = &on }
}

// WithPackage sets the package clause for targets that have one.
func WithPackage(name string) Option {
	return func(o *Options) { o.Package = name }
}

// WithTuple enables tuple mode.
func WithTuple(on bool) Option {
	return func(o *Options) { o.Tuple = on }
}

// WithSelector narrows decoded inputs to the selected samples.
func WithSelector(sel sample.Selector) Option {
	return func(o *Options) { o.Selector = sel }
}

// WithRegistry resolves targets in reg instead of the built-in registry.
func WithRegistry(reg *render.Registry) Option {
	return func(o *Options) { o.registry = reg }
}

// Apply returns a copy of o with opts applied.
func (o Options) Apply(opts ...Option) Options {
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o Options) target() (render.Target, error) {
	return render.Resolve(o.registry, o.Target)
}

// rules resolves the target's defaults with every override applied.
// A visibility qualifier on the root name wins over TypeVisibility.
func (o Options) rules(t render.Target, rootVisibility string) (render.Rules, error) {
	r, err := t.Rules(o.NumberPolicy)
	if err != nil {
		return render.Rules{}, err
	}
	if o.TypeVisibility != nil {
		r.TypeVisibility = *o.TypeVisibility
	}
	if rootVisibility != "" {
		r.TypeVisibility = rootVisibility
	}
	if o.FieldVisibility != nil {
		r.FieldVisibility = *o.FieldVisibility
	}
	if o.Derives != nil {
		r.Derives = o.Derives
	}
	if o.Imports != nil {
		r.Imports = *o.Imports
	}
	if o.Package != "" {
		r.Package = o.Package
	}
	return r, nil
}

// ParseRootName splits a root name such as "pub(crate) Point" into its
// visibility qualifier and the bare name. A name without whitespace has no
// qualifier.
func ParseRootName(raw string) (visibility, name string) {
	parts := strings.Fields(raw)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return "", parts[0]
	}
	return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
}
