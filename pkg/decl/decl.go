// Package decl turns a merged shape tree into a flat, ordered list of named
// declarations.
//
// Every record in the tree becomes a struct declaration and is replaced by a
// shape.Reference to it. Names are claimed in a Namespace scoped to a single
// build, in the order records are first visited, which is also the order
// declarations are returned in: root first, then depth-first discovery.
package decl

import (
	"errors"
	"fmt"

	"github.com/usestring/jsontypegen/pkg/shape"
)

// ErrInvalidIdentifier is returned when a root name or key cannot be turned
// into an identifier.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// IdentifierError reports the raw name that could not be sanitized.
type IdentifierError struct {
	Role string // "root name", "field" or "type name"
	Raw  string
	Path string
	// Reserved is set when Raw is valid but names a type the target
	// already uses.
	Reserved bool
}

func (e *IdentifierError) Error() string {
	if e.Reserved {
		return fmt.Sprintf("%s %q clashes with a type the target reserves", e.Role, e.Raw)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s %q at %s cannot be turned into a valid identifier", e.Role, e.Raw, e.Path)
	}
	return fmt.Sprintf("%s %q cannot be turned into a valid identifier", e.Role, e.Raw)
}

func (e *IdentifierError) Unwrap() error {
	return ErrInvalidIdentifier
}

// Kind distinguishes declaration bodies.
type Kind uint8

const (
	// Struct declares a record type.
	Struct Kind = iota
	// Alias names a non-record shape.
	Alias
)

func (k Kind) String() string {
	if k == Alias {
		return "alias"
	}
	return "struct"
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Declaration is one named, emittable type.
type Declaration struct {
	Name   string      `json:"name"`
	Kind   Kind        `json:"kind"`
	Fields []Field     `json:"fields,omitempty"`
	Target shape.Shape `json:"target,omitempty"` // aliased shape, Alias only
	Root   bool        `json:"root,omitempty"`
}

// Field is one member of a struct declaration. Records inside Shape have
// already been replaced by references.
type Field struct {
	Key   string      `json:"key"`
	Ident string      `json:"ident"`
	Shape shape.Shape `json:"shape"`
}

// Renamed reports whether the field needs a serialization rename to map
// back to its JSON key.
func (f Field) Renamed() bool {
	return f.Ident != f.Key
}

// Conventions supplies a target language's identifier rules.
type Conventions interface {
	// TypeIdent derives a type name from a field key.
	// It returns "" when no identifier can be derived.
	TypeIdent(key string) string
	// FieldIdent derives a field identifier from a key, rewriting reserved
	// words. It returns "" when no identifier can be derived.
	FieldIdent(key string) string
	// ReservedTypeNames lists names a declaration must never take.
	ReservedTypeNames() []string
}
