package value

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"slices"
	"strconv"
	"strings"
)

// FromAny converts a generic Go value as produced by encoding/json or a jq
// engine. Map keys carry no order, so they are sorted for determinism.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return t, nil
	case bool:
		return BoolValue(t), nil
	case string:
		return StringValue(t), nil
	case json.Number:
		return NumberValue(t.String()), nil
	case int:
		return NumberValue(strconv.Itoa(t)), nil
	case int64:
		return NumberValue(strconv.FormatInt(t, 10)), nil
	case uint64:
		return NumberValue(strconv.FormatUint(t, 10)), nil
	case float64:
		if math.IsInf(t, 0) || math.IsNaN(t) {
			return NullValue(), nil
		}
		return NumberValue(strconv.FormatFloat(t, 'g', -1, 64)), nil
	case *big.Int:
		return NumberValue(t.String()), nil
	case []any:
		items := make([]Value, 0, len(t))
		for _, item := range t {
			v, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return ArrayValue(items...), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		members := make([]Member, 0, len(keys))
		for _, k := range keys {
			v, err := FromAny(t[k])
			if err != nil {
				return Value{}, err
			}
			members = append(members, Member{Key: k, Value: v})
		}
		return ObjectValue(members...), nil
	}
	return Value{}, fmt.Errorf("unsupported value type %T", x)
}

// Interface converts v into the generic form jq engines consume: numbers
// become int, *big.Int or float64 depending on their literal.
func (v Value) Interface() any {
	return v.toAny(func(lit string) any {
		if i, err := strconv.Atoi(lit); err == nil {
			return i
		}
		if !strings.ContainsAny(lit, ".eE") {
			if b, ok := new(big.Int).SetString(lit, 10); ok {
				return b
			}
		}
		f, _ := strconv.ParseFloat(lit, 64)
		return f
	})
}

// JSONInterface converts v into the generic form of encoding/json with
// UseNumber, so number literals survive unchanged.
func (v Value) JSONInterface() any {
	return v.toAny(func(lit string) any { return json.Number(lit) })
}

func (v Value) toAny(number func(string) any) any {
	switch v.kind {
	case Bool:
		return v.boolean
	case Number:
		return number(v.text)
	case String:
		return v.text
	case Array:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.toAny(number)
		}
		return out
	case Object:
		out := make(map[string]any, len(v.members))
		for _, m := range v.members {
			out[m.Key] = m.Value.toAny(number)
		}
		return out
	}
	return nil
}
