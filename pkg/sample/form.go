package sample

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/usestring/jsontypegen/pkg/value"
)

// decodeForm turns each line of form-urlencoded data into one object.
// Keys keep their first-seen order and repeated keys become arrays.
func decodeForm(body []byte) ([]value.Value, error) {
	var out []value.Value
	for i, line := range bytes.Split(body, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		v, err := formValue(string(line))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func formValue(query string) (value.Value, error) {
	var (
		order  []string
		values = map[string][]value.Value{}
	)
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawVal, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return value.Value{}, fmt.Errorf("invalid key %q: %w", rawKey, err)
		}
		val, err := url.QueryUnescape(rawVal)
		if err != nil {
			return value.Value{}, fmt.Errorf("invalid value for %q: %w", key, err)
		}
		if _, seen := values[key]; !seen {
			order = append(order, key)
		}
		values[key] = append(values[key], value.StringValue(val))
	}

	members := make([]value.Member, 0, len(order))
	for _, k := range order {
		vs := values[k]
		if len(vs) == 1 {
			members = append(members, value.Member{Key: k, Value: vs[0]})
			continue
		}
		members = append(members, value.Member{Key: k, Value: value.ArrayValue(vs...)})
	}
	return value.ObjectValue(members...), nil
}
