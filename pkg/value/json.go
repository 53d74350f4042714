package value

import (
	"fmt"

	"github.com/valyala/fastjson"
)

// Parse decodes exactly one JSON document.
func Parse(data []byte) (Value, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return Value{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return fromFastJSON(v), nil
}

// ParseStream decodes a sequence of whitespace-separated JSON documents,
// which covers both single documents and newline-delimited JSON.
func ParseStream(data []byte) ([]Value, error) {
	var sc fastjson.Scanner
	sc.InitBytes(data)

	var out []Value
	for sc.Next() {
		out = append(out, fromFastJSON(sc.Value()))
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("invalid JSON at document %d: %w", len(out)+1, err)
	}
	return out, nil
}

// fromFastJSON copies a fastjson tree. fastjson values are only valid until
// the parser is reused, so nothing from v is retained.
func fromFastJSON(v *fastjson.Value) Value {
	switch v.Type() {
	case fastjson.TypeNull:
		return NullValue()
	case fastjson.TypeTrue:
		return BoolValue(true)
	case fastjson.TypeFalse:
		return BoolValue(false)
	case fastjson.TypeNumber:
		return NumberValue(string(v.MarshalTo(nil)))
	case fastjson.TypeString:
		return StringValue(string(v.GetStringBytes()))
	case fastjson.TypeArray:
		arr := v.GetArray()
		items := make([]Value, 0, len(arr))
		for _, item := range arr {
			items = append(items, fromFastJSON(item))
		}
		return ArrayValue(items...)
	case fastjson.TypeObject:
		o := v.GetObject()
		members := make([]Member, 0, o.Len())
		o.Visit(func(key []byte, child *fastjson.Value) {
			members = append(members, Member{Key: string(key), Value: fromFastJSON(child)})
		})
		return ObjectValue(members...)
	}
	return NullValue()
}
