package shape

import "github.com/usestring/jsontypegen/pkg/value"

// Of returns the shape of a single sample value.
func Of(v value.Value) Shape {
	switch v.Kind() {
	case value.Null:
		return Null{}
	case value.Bool:
		return Boolean{}
	case value.Number:
		return Numeric{}
	case value.String:
		return Text{}
	case value.Array:
		var elem Shape
		for _, item := range v.Items() {
			elem = Merge(elem, Of(item))
		}
		return Collection{Elem: elem}
	case value.Object:
		members := v.Members()
		fields := make([]Field, len(members))
		for i, m := range members {
			fields[i] = Field{Key: m.Key, Shape: Of(m.Value)}
		}
		return Record{Fields: fields}
	}
	return Any{}
}

// Observe folds one more sample into the shape accumulated for a slot.
func Observe(existing Shape, v value.Value) Shape {
	return Merge(existing, Of(v))
}

// Merge combines two shapes seen at the same slot. A nil operand is a slot
// with no observation and yields the other operand unchanged.
//
// Apart from the order of record fields, which follows a then b, Merge is
// commutative, and Any absorbs every operand.
func Merge(a, b Shape) Shape {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}

	if a.Kind() == KindAny || b.Kind() == KindAny {
		return Any{}
	}

	// Null only marks the slot optional; it never changes the underlying shape.
	if a.Kind() == KindNull {
		return optional(b)
	}
	if b.Kind() == KindNull {
		return optional(a)
	}
	if oa, ok := a.(Optional); ok {
		return optional(Merge(oa.Inner, unwrap(b)))
	}
	if ob, ok := b.(Optional); ok {
		return optional(Merge(a, ob.Inner))
	}

	switch x := a.(type) {
	case Boolean, Numeric, Text:
		if a.Kind() == b.Kind() {
			return a
		}
	case Collection:
		if y, ok := b.(Collection); ok {
			return Collection{Elem: Merge(x.Elem, y.Elem)}
		}
	case Record:
		if y, ok := b.(Record); ok {
			return mergeRecords(x, y)
		}
	case Reference:
		if y, ok := b.(Reference); ok && x.Name == y.Name {
			return a
		}
	}

	return Any{}
}

// mergeRecords unions two field lists. Fields of a keep their order; fields
// only b has are appended in b's order. A field missing on either side was
// absent from some sample and becomes optional.
func mergeRecords(a, b Record) Record {
	fields := make([]Field, 0, len(a.Fields)+len(b.Fields))
	seen := make(map[string]bool, len(a.Fields))

	for _, fa := range a.Fields {
		seen[fa.Key] = true
		if sb, ok := b.Lookup(fa.Key); ok {
			fields = append(fields, Field{Key: fa.Key, Shape: Merge(fa.Shape, sb)})
		} else {
			fields = append(fields, Field{Key: fa.Key, Shape: absent(fa.Shape)})
		}
	}
	for _, fb := range b.Fields {
		if seen[fb.Key] {
			continue
		}
		fields = append(fields, Field{Key: fb.Key, Shape: absent(fb.Shape)})
	}

	return Record{Fields: fields}
}

// absent records that a slot was missing from at least one sample.
func absent(s Shape) Shape {
	return Merge(s, Null{})
}

// optional wraps s unless it is already optional or carries no concrete
// information. A nil shape merged with null stays Null so that a later
// concrete sample can still make it Optional.
func optional(s Shape) Shape {
	if s == nil {
		return Null{}
	}
	switch s.Kind() {
	case KindNull, KindAny, KindOptional:
		return s
	}
	return Optional{Inner: s}
}

func unwrap(s Shape) Shape {
	if o, ok := s.(Optional); ok {
		return o.Inner
	}
	return s
}

// Finalize resolves a merged shape for emission: never-observed slots and
// slots that were only ever null become Any, and an Optional whose inner
// shape resolves to Any collapses to Any.
func Finalize(s Shape) Shape {
	if s == nil {
		return Any{}
	}
	switch x := s.(type) {
	case Null:
		return Any{}
	case Optional:
		inner := Finalize(x.Inner)
		if inner.Kind() == KindAny {
			return Any{}
		}
		return Optional{Inner: inner}
	case Collection:
		return Collection{Elem: Finalize(x.Elem)}
	case Record:
		fields := make([]Field, len(x.Fields))
		for i, f := range x.Fields {
			fields[i] = Field{Key: f.Key, Shape: Finalize(f.Shape)}
		}
		return Record{Fields: fields}
	}
	return s
}
