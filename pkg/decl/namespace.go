package decl

import "strconv"

// Namespace is the flat set of type names claimed during one generation.
// It is created per invocation and passed explicitly; nothing is shared
// between generations.
type Namespace struct {
	taken map[string]bool
	order []string
}

// NewNamespace creates a namespace in which the reserved names count as
// taken. Reserved names are never returned by Names.
func NewNamespace(reserved ...string) *Namespace {
	ns := &Namespace{taken: make(map[string]bool, len(reserved))}
	for _, r := range reserved {
		ns.taken[r] = true
	}
	return ns
}

// Claim takes candidate, or candidate followed by the smallest integer ≥2
// that is still free, and returns the claimed name.
func (ns *Namespace) Claim(candidate string) string {
	name := candidate
	for n := 2; ns.taken[name]; n++ {
		name = candidate + strconv.Itoa(n)
	}
	ns.taken[name] = true
	ns.order = append(ns.order, name)
	return name
}

// Taken reports whether name is reserved or claimed.
func (ns *Namespace) Taken(name string) bool {
	return ns.taken[name]
}

// Names returns claimed names in claim order.
func (ns *Namespace) Names() []string {
	out := make([]string, len(ns.order))
	copy(out, ns.order)
	return out
}
