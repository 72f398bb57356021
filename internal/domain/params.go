package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Param is one entry of an ordered parameter mapping.
type Param struct {
	Key   string
	Value any
}

// Params is an insertion-ordered mapping of parameter names to values.
// Query strings are built in this order, so decoding from JSON or YAML keeps
// the order in which keys appear in the source document.
type Params []Param

// Len returns the number of entries.
func (p Params) Len() int { return len(p) }

// Has reports whether key is present, regardless of its value.
func (p Params) Has(key string) bool {
	for _, kv := range p {
		if kv.Key == key {
			return true
		}
	}
	return false
}

// Get returns the value stored under key.
func (p Params) Get(key string) (any, bool) {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return nil, false
}

// Set replaces the value of an existing key in place or appends a new entry.
func (p *Params) Set(key string, value any) {
	for i := range *p {
		if (*p)[i].Key == key {
			(*p)[i].Value = value
			return
		}
	}
	*p = append(*p, Param{Key: key, Value: value})
}

// Delete removes key if present.
func (p *Params) Delete(key string) {
	out := (*p)[:0]
	for _, kv := range *p {
		if kv.Key != key {
			out = append(out, kv)
		}
	}
	*p = out
}

// Keys returns the keys in order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for _, kv := range p {
		keys = append(keys, kv.Key)
	}
	return keys
}

// UnmarshalJSON decodes a JSON object keeping key order. Numbers are kept as
// json.Number so their textual form survives into the query string.
func (p *Params) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*p = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object, received %s", jsonKind(tok))
	}

	out := Params{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected string key, received %v", keyTok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		out.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*p = out
	return nil
}

// MarshalJSON encodes the mapping as a JSON object in insertion order.
func (p Params) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(kv.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(kv.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalYAML decodes a YAML mapping keeping key order.
func (p *Params) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected mapping", node.Line)
	}
	out := Params{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var value any
		if err := node.Content[i+1].Decode(&value); err != nil {
			return err
		}
		out.Set(node.Content[i].Value, value)
	}
	*p = out
	return nil
}

// StringifyValue renders a parameter value the way it appears in a query
// string. The second result is false for null values, which are omitted.
// Arrays are comma-joined; objects are rendered as compact JSON.
func StringifyValue(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case json.Number:
		return formatNumber(val), true
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		return formatFloat(val), true
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			s, _ := StringifyValue(item)
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), true
	case fmt.Stringer:
		return val.String(), true
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val), true
		}
		return string(raw), true
	}
}

// formatNumber renders n in canonical form, so 1.50 becomes 1.5 and 1e2
// becomes 100. Integer literals keep every digit.
func formatNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	f, err := n.Float64()
	if err != nil {
		return n.String()
	}
	return formatFloat(f)
}

// formatFloat matches the shortest round-trip text of ECMAScript
// Number-to-String: plain decimals in [1e-6, 1e21), exponent form outside.
func formatFloat(f float64) string {
	abs := math.Abs(f)
	if f == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	exp = strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + exp
}

func jsonKind(tok json.Token) string {
	switch t := tok.(type) {
	case json.Delim:
		if t == '[' {
			return "array"
		}
		return string(t)
	case string:
		return "string"
	case json.Number, float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", tok)
	}
}
