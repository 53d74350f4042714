package decl

import (
	"strconv"

	"github.com/usestring/jsontypegen/pkg/shape"
)

// Builder assigns names to the records of one shape tree. A Builder holds
// per-invocation state and must not be reused across generations.
type Builder struct {
	conv  Conventions
	ns    *Namespace
	decls []Declaration
	docs  []shape.Shape
}

// NewBuilder creates a builder claiming names in ns. A nil ns gets a fresh
// namespace seeded with the reserved names of conv.
func NewBuilder(conv Conventions, ns *Namespace) *Builder {
	if ns == nil {
		ns = NewNamespace(conv.ReservedTypeNames()...)
	}
	return &Builder{conv: conv, ns: ns}
}

// Namespace returns the namespace the builder claims names in.
func (b *Builder) Namespace() *Namespace {
	return b.ns
}

// Documents returns the shape of each built document with its records
// replaced by references: one entry per Build call, or one per position
// for BuildTuple.
func (b *Builder) Documents() []shape.Shape {
	return b.docs
}

// Build declares the root shape under rootName, which is used verbatim.
//
// A record root becomes a struct. A root whose only records sit below
// collections or optionals names the outermost of them after the root and
// emits nothing for the wrappers. Any other root becomes an alias.
func Build(conv Conventions, rootName string, root shape.Shape) ([]Declaration, error) {
	return NewBuilder(conv, nil).Build(rootName, root)
}

// BuildTuple declares each tuple position. Positions holding records name
// them by inheriting rootName; scalar positions declare nothing.
func BuildTuple(conv Conventions, rootName string, positions []shape.Shape) ([]Declaration, error) {
	return NewBuilder(conv, nil).BuildTuple(rootName, positions)
}

// Build declares root. See the package-level Build.
func (b *Builder) Build(rootName string, root shape.Shape) ([]Declaration, error) {
	if err := b.checkRoot(rootName); err != nil {
		return nil, err
	}

	if _, ok := unwrapRecord(root); ok {
		first := len(b.decls)
		doc, err := b.walk(root, rootName, "$")
		if err != nil {
			return nil, err
		}
		b.decls[first].Root = true
		b.docs = append(b.docs, doc)
		return b.decls, nil
	}

	// No records anywhere in the tree, so the walk cannot claim names.
	name := b.ns.Claim(rootName)
	b.decls = append(b.decls, Declaration{Name: name, Kind: Alias, Target: root, Root: true})
	b.docs = append(b.docs, root)
	return b.decls, nil
}

// checkRoot rejects root names that cannot be claimed verbatim.
func (b *Builder) checkRoot(rootName string) error {
	if !IsIdentifier(rootName) {
		return &IdentifierError{Role: "root name", Raw: rootName}
	}
	if b.ns.Taken(rootName) {
		return &IdentifierError{Role: "root name", Raw: rootName, Reserved: true}
	}
	return nil
}

// BuildTuple declares tuple positions. See the package-level BuildTuple.
func (b *Builder) BuildTuple(rootName string, positions []shape.Shape) ([]Declaration, error) {
	if err := b.checkRoot(rootName); err != nil {
		return nil, err
	}

	for i, p := range positions {
		if _, ok := unwrapRecord(p); !ok {
			b.docs = append(b.docs, p)
			continue
		}
		first := len(b.decls)
		doc, err := b.walk(p, rootName, tuplePath(i))
		if err != nil {
			return nil, err
		}
		b.docs = append(b.docs, doc)
		if i == 0 && first < len(b.decls) {
			b.decls[first].Root = true
		}
	}
	return b.decls, nil
}

// walk replaces every record under s with a reference. name is the name a
// record at this position would take.
func (b *Builder) walk(s shape.Shape, name, path string) (shape.Shape, error) {
	switch x := s.(type) {
	case shape.Optional:
		inner, err := b.walk(x.Inner, name, path)
		if err != nil {
			return nil, err
		}
		return shape.Optional{Inner: inner}, nil

	case shape.Collection:
		elem, err := b.walk(x.Elem, name, path+"[]")
		if err != nil {
			return nil, err
		}
		return shape.Collection{Elem: elem}, nil

	case shape.Record:
		claimed := b.ns.Claim(name)
		// Reserve the slot now so the declaration precedes its children.
		idx := len(b.decls)
		b.decls = append(b.decls, Declaration{Name: claimed, Kind: Struct})

		fields, err := b.fields(x, path)
		if err != nil {
			return nil, err
		}
		b.decls[idx].Fields = fields
		return shape.Reference{Name: claimed}, nil
	}
	return s, nil
}

func (b *Builder) fields(r shape.Record, path string) ([]Field, error) {
	local := NewNamespace()
	fields := make([]Field, 0, len(r.Fields))

	for _, f := range r.Fields {
		fieldPath := path + "." + f.Key

		ident := b.conv.FieldIdent(f.Key)
		if ident == "" {
			return nil, &IdentifierError{Role: "field", Raw: f.Key, Path: fieldPath}
		}
		ident = local.Claim(ident)

		var child string
		if _, ok := unwrapRecord(f.Shape); ok {
			if child = b.conv.TypeIdent(f.Key); child == "" {
				return nil, &IdentifierError{Role: "type name", Raw: f.Key, Path: fieldPath}
			}
		}

		s, err := b.walk(f.Shape, child, fieldPath)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Key: f.Key, Ident: ident, Shape: s})
	}
	return fields, nil
}

// unwrapRecord strips collection and optional wrappers.
func unwrapRecord(s shape.Shape) (shape.Record, bool) {
	for {
		switch x := s.(type) {
		case shape.Optional:
			s = x.Inner
		case shape.Collection:
			s = x.Elem
		case shape.Record:
			return x, true
		default:
			return shape.Record{}, false
		}
	}
}

func tuplePath(i int) string {
	return "$[" + strconv.Itoa(i) + "]"
}
