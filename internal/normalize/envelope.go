package normalize

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Decode parses a response body with numbers kept as json.Number and strips any
// service envelope around the payload.
func Decode(data []byte) (any, error) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return Unwrap(v), nil
}

// Unwrap removes the envelopes the member service puts around payloads:
// {"d": ...}, {"<Operation>Result": ...} and JSON documents that were encoded
// a second time as a string.
func Unwrap(v any) any {
	for {
		switch t := v.(type) {
		case string:
			s := strings.TrimSpace(t)
			if !strings.HasPrefix(s, "{") && !strings.HasPrefix(s, "[") && s != "null" {
				return v
			}
			var inner any
			dec := json.NewDecoder(strings.NewReader(s))
			dec.UseNumber()
			if err := dec.Decode(&inner); err != nil {
				return v
			}
			v = inner
		case map[string]any:
			if len(t) != 1 {
				return v
			}
			var next any
			found := false
			for k, val := range t {
				if k == "d" || (strings.HasSuffix(k, "Result") && len(k) > len("Result")) {
					next, found = val, true
				}
			}
			if !found {
				return v
			}
			v = next
		default:
			return v
		}
	}
}
