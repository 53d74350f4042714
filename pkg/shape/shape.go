// Package shape infers structural types from sample values.
//
// A Shape describes one schema slot. Shapes form a closed sum type: every
// variant is declared in this package and satisfies the unexported marker
// method, so a type switch over the variants below is exhaustive.
//
// During merging a nil Shape stands for a slot that has not been observed
// yet. Finalize resolves every remaining nil (and every never-concrete Null)
// to Any, so finalized trees contain no nils.
package shape

import (
	"encoding/json"
	"strings"
)

// Kind identifies a Shape variant.
type Kind uint8

// Shape kinds.
const (
	KindNull Kind = iota + 1
	KindBoolean
	KindNumeric
	KindText
	KindOptional
	KindCollection
	KindRecord
	KindAny
	KindReference
)

var kindNames = map[Kind]string{
	KindNull:       "null",
	KindBoolean:    "boolean",
	KindNumeric:    "numeric",
	KindText:       "text",
	KindOptional:   "optional",
	KindCollection: "collection",
	KindRecord:     "record",
	KindAny:        "any",
	KindReference:  "reference",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Shape is the inferred type at one schema slot.
type Shape interface {
	Kind() Kind
	String() string
	isShape()
}

// Null is a slot that has only ever been null.
type Null struct{}

// Boolean is a true/false slot.
type Boolean struct{}

// Numeric is a number slot. It always denotes an arbitrary-precision
// number; narrowing to a native type is a rendering decision.
type Numeric struct{}

// Text is a string slot.
type Text struct{}

// Optional is a slot that was absent or null in some samples.
type Optional struct {
	Inner Shape
}

// Collection is a homogeneous array. All elements share one slot.
type Collection struct {
	Elem Shape
}

// Record is an object type.
type Record struct {
	Fields []Field
}

// Field is one member of a Record, in first-observed order.
type Field struct {
	Key   string
	Shape Shape
}

// Any is the fallback for conflicting or never-concrete slots.
type Any struct{}

// Reference points at a named declaration. Only the declaration builder
// produces references.
type Reference struct {
	Name string
}

func (Null) Kind() Kind       { return KindNull }
func (Boolean) Kind() Kind    { return KindBoolean }
func (Numeric) Kind() Kind    { return KindNumeric }
func (Text) Kind() Kind       { return KindText }
func (Optional) Kind() Kind   { return KindOptional }
func (Collection) Kind() Kind { return KindCollection }
func (Record) Kind() Kind     { return KindRecord }
func (Any) Kind() Kind        { return KindAny }
func (Reference) Kind() Kind  { return KindReference }

func (Null) isShape()       {}
func (Boolean) isShape()    {}
func (Numeric) isShape()    {}
func (Text) isShape()       {}
func (Optional) isShape()   {}
func (Collection) isShape() {}
func (Record) isShape()     {}
func (Any) isShape()        {}
func (Reference) isShape()  {}

func (Null) String() string    { return "Null" }
func (Boolean) String() string { return "Boolean" }
func (Numeric) String() string { return "Numeric" }
func (Text) String() string    { return "Text" }
func (Any) String() string     { return "Any" }

func (o Optional) String() string   { return "Optional<" + format(o.Inner) + ">" }
func (c Collection) String() string { return "Collection<" + format(c.Elem) + ">" }
func (r Reference) String() string  { return "&" + r.Name }

func (r Record) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, f := range r.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Key)
		sb.WriteString(": ")
		sb.WriteString(format(f.Shape))
	}
	sb.WriteByte('}')
	return sb.String()
}

// Lookup returns the shape of the field with the given key.
func (r Record) Lookup(key string) (Shape, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Shape, true
		}
	}
	return nil, false
}

func format(s Shape) string {
	if s == nil {
		return "?"
	}
	return s.String()
}

// Equal reports whether two shapes are structurally identical, including
// field order.
func Equal(a, b Shape) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Optional:
		return Equal(x.Inner, b.(Optional).Inner)
	case Collection:
		return Equal(x.Elem, b.(Collection).Elem)
	case Reference:
		return x.Name == b.(Reference).Name
	case Record:
		y := b.(Record)
		if len(x.Fields) != len(y.Fields) {
			return false
		}
		for i := range x.Fields {
			if x.Fields[i].Key != y.Fields[i].Key || !Equal(x.Fields[i].Shape, y.Fields[i].Shape) {
				return false
			}
		}
		return true
	}
	return true
}

// jsonShape is the wire form used by MarshalJSON.
type jsonShape struct {
	Kind   string      `json:"kind"`
	Inner  Shape       `json:"inner,omitempty"`
	Fields []jsonField `json:"fields,omitempty"`
	Name   string      `json:"name,omitempty"`
}

type jsonField struct {
	Key   string `json:"key"`
	Shape Shape  `json:"shape"`
}

func marshal(s Shape) ([]byte, error) {
	js := jsonShape{Kind: s.Kind().String()}
	switch x := s.(type) {
	case Optional:
		js.Inner = x.Inner
	case Collection:
		js.Inner = x.Elem
	case Reference:
		js.Name = x.Name
	case Record:
		js.Fields = make([]jsonField, len(x.Fields))
		for i, f := range x.Fields {
			js.Fields[i] = jsonField{Key: f.Key, Shape: f.Shape}
		}
	}
	return json.Marshal(js)
}

func (s Null) MarshalJSON() ([]byte, error)       { return marshal(s) }
func (s Boolean) MarshalJSON() ([]byte, error)    { return marshal(s) }
func (s Numeric) MarshalJSON() ([]byte, error)    { return marshal(s) }
func (s Text) MarshalJSON() ([]byte, error)       { return marshal(s) }
func (s Optional) MarshalJSON() ([]byte, error)   { return marshal(s) }
func (s Collection) MarshalJSON() ([]byte, error) { return marshal(s) }
func (s Record) MarshalJSON() ([]byte, error)     { return marshal(s) }
func (s Any) MarshalJSON() ([]byte, error)        { return marshal(s) }
func (s Reference) MarshalJSON() ([]byte, error)  { return marshal(s) }
