// Package stats computes per-field statistics over a set of samples,
// guided by the finalized shape inferred from them. The statistics are
// informational: they never feed back into shape inference or rendering.
package stats

import (
	"net"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/google/uuid"

	"github.com/usestring/jsontypegen/pkg/shape"
	"github.com/usestring/jsontypegen/pkg/value"
)

// FieldStat contains statistics for one field path across all samples.
type FieldStat struct {
	Path          string   `json:"path"`                  // e.g. "user.name", "items[].id", "[].id"
	Type          string   `json:"type"`                  // shape kind, "collection<record>" for arrays
	Frequency     float64  `json:"frequency"`             // fraction of parent objects containing the key
	Present       uint64   `json:"present"`               // parent objects containing the key
	Nulls         uint64   `json:"nulls"`                 // parent objects holding null for the key
	Samples       uint64   `json:"samples"`               // top-level samples in which the key appears
	Required      bool     `json:"required"`              // present in every parent object and never null
	Nullable      bool     `json:"nullable"`              // null at least once
	DistinctCount int      `json:"distinct_count"`        // distinct non-null values
	Examples      []any    `json:"examples,omitempty"`    // first distinct scalar values
	Format        string   `json:"format,omitempty"`      // uuid, date-time, date, email, uri, ipv4, enum
	EnumValues    []string `json:"enum_values,omitempty"` // distinct values when Format is "enum"
	Truncated     bool     `json:"truncated,omitempty"`   // children beyond the depth limit were skipped
}

const (
	defaultMaxDepth       = 8
	defaultMaxExamples    = 3
	minSamplesForFormat   = 5
	maxEnumDistinctValues = 10
)

// Options tunes a Compute call.
type Options struct {
	MaxDepth    int // nesting levels walked below the root
	MaxExamples int // examples kept per field
}

// Option configures Options.
type Option func(*Options)

// WithMaxDepth limits how deep nested records are walked.
func WithMaxDepth(n int) Option {
	return func(o *Options) { o.MaxDepth = n }
}

// WithMaxExamples sets how many examples each field keeps.
func WithMaxExamples(n int) Option {
	return func(o *Options) { o.MaxExamples = n }
}

var (
	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	dateRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// instance is one occurrence of a slot, tagged with the index of the
// top-level sample it came from.
type instance struct {
	v      value.Value
	origin uint32
}

type walker struct {
	opts  Options
	stats []FieldStat
}

// Compute walks root alongside samples and returns one FieldStat per
// record field, in pre-order. Samples must be the values root was folded
// from.
func Compute(root shape.Shape, samples []value.Value, opts ...Option) []FieldStat {
	if root == nil || len(samples) == 0 {
		return nil
	}
	o := Options{MaxDepth: defaultMaxDepth, MaxExamples: defaultMaxExamples}
	for _, opt := range opts {
		opt(&o)
	}

	instances := make([]instance, len(samples))
	for i, s := range samples {
		instances[i] = instance{v: s, origin: uint32(i)}
	}
	w := &walker{opts: o}
	w.walk(root, "", instances, 0)
	return w.stats
}

func (w *walker) walk(s shape.Shape, path string, instances []instance, depth int) {
	switch x := unwrap(s).(type) {
	case shape.Record:
		for _, f := range x.Fields {
			fieldPath := join(path, f.Key)
			stat, children := w.field(fieldPath, f, instances)
			if depth >= w.opts.MaxDepth && nested(f.Shape) {
				stat.Truncated = true
				w.stats = append(w.stats, stat)
				continue
			}
			w.stats = append(w.stats, stat)
			w.walk(f.Shape, fieldPath, children, depth+1)
		}
	case shape.Collection:
		var items []instance
		for _, in := range instances {
			if in.v.Kind() != value.Array {
				continue
			}
			for _, item := range in.v.Items() {
				if !item.IsNull() {
					items = append(items, instance{v: item, origin: in.origin})
				}
			}
		}
		w.walk(x.Elem, path+"[]", items, depth)
	}
}

// field computes the statistics of one key over the parent instances and
// returns the non-null child instances for recursion.
func (w *walker) field(path string, f shape.Field, parents []instance) (FieldStat, []instance) {
	var (
		objects  uint64
		present  = roaring.New()
		nulls    = roaring.New()
		origins  = roaring.New()
		distinct = map[string]bool{}
		examples []any
		strs     []string
		children []instance
	)
	for i, p := range parents {
		if p.v.Kind() != value.Object {
			continue
		}
		objects++
		v, ok := p.v.Lookup(f.Key)
		if !ok {
			continue
		}
		present.Add(uint32(i))
		origins.Add(p.origin)
		if v.IsNull() {
			nulls.Add(uint32(i))
			continue
		}
		children = append(children, instance{v: v, origin: p.origin})

		key := fingerprint(v)
		if !distinct[key] {
			distinct[key] = true
			if scalar(v) && len(examples) < w.opts.MaxExamples {
				examples = append(examples, v.JSONInterface())
			}
		}
		if v.Kind() == value.String {
			strs = append(strs, v.Text())
		}
	}

	stat := FieldStat{
		Path:          path,
		Type:          typeName(f.Shape),
		Present:       present.GetCardinality(),
		Nulls:         nulls.GetCardinality(),
		Samples:       origins.GetCardinality(),
		DistinctCount: len(distinct),
		Examples:      examples,
	}
	if objects > 0 {
		stat.Frequency = float64(stat.Present) / float64(objects)
	}
	stat.Nullable = !nulls.IsEmpty()
	stat.Required = objects > 0 && stat.Present == objects && nulls.IsEmpty()

	if len(strs) >= minSamplesForFormat && len(strs) == len(children) {
		stat.Format, stat.EnumValues = detectFormat(strs)
	}
	return stat, children
}

// detectFormat reports the first format every value satisfies. Values
// with few distinct spellings are reported as an enum.
func detectFormat(values []string) (string, []string) {
	checks := []struct {
		name string
		ok   func(string) bool
	}{
		{"uuid", isUUID},
		{"date-time", isDateTime},
		{"date", isDate},
		{"email", emailRegex.MatchString},
		{"uri", isURI},
		{"ipv4", isIPv4},
	}
	for _, c := range checks {
		if all(values, c.ok) {
			return c.name, nil
		}
	}

	seen := map[string]bool{}
	for _, v := range values {
		seen[v] = true
	}
	if len(seen) <= maxEnumDistinctValues && len(seen) < len(values) {
		enum := make([]string, 0, len(seen))
		for v := range seen {
			enum = append(enum, v)
		}
		sort.Strings(enum)
		return "enum", enum
	}
	return "", nil
}

func all(values []string, ok func(string) bool) bool {
	for _, v := range values {
		if !ok(v) {
			return false
		}
	}
	return true
}

// isUUID accepts only the canonical hyphenated form; uuid.Parse also
// takes urn and braced spellings.
func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func isDateTime(s string) bool {
	_, err := time.Parse(time.RFC3339Nano, s)
	return err == nil
}

func isDate(s string) bool {
	if !dateRegex.MatchString(s) {
		return false
	}
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}

func isURI(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && (u.Host != "" || u.Opaque != "")
}

func isIPv4(s string) bool {
	ip := net.ParseIP(s)
	return ip != nil && ip.To4() != nil && !strings.Contains(s, ":")
}

func fingerprint(v value.Value) string {
	b, err := v.MarshalJSON()
	if err != nil {
		return v.Kind().String() + ":" + v.Text()
	}
	return string(b)
}

func scalar(v value.Value) bool {
	switch v.Kind() {
	case value.Bool, value.Number, value.String:
		return true
	}
	return false
}

func unwrap(s shape.Shape) shape.Shape {
	if o, ok := s.(shape.Optional); ok {
		return o.Inner
	}
	return s
}

func nested(s shape.Shape) bool {
	switch x := unwrap(s).(type) {
	case shape.Record:
		return true
	case shape.Collection:
		return nested(x.Elem)
	}
	return false
}

// typeName names a shape without spelling out record fields.
func typeName(s shape.Shape) string {
	switch x := unwrap(s).(type) {
	case nil:
		return "any"
	case shape.Collection:
		return "collection<" + typeName(x.Elem) + ">"
	default:
		return x.Kind().String()
	}
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
