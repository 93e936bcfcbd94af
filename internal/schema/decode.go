package schema

import (
	"encoding/json"
	"math"
	"regexp"
	"time"
)

// datetimePattern is the UTC ISO-8601 form accepted for timestamps:
// 2024-01-01T10:30:45.123Z. Offsets other than Z are rejected.
var datetimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?Z$`)

// ParseDatetime parses a timestamp in the accepted ISO-8601 form.
func ParseDatetime(s string) (time.Time, bool) {
	if !datetimePattern.MatchString(s) {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// fields is a decoded JSON object with defaults merged in.
type fields map[string]any

// asObject returns v as a JSON object.
func asObject(v any) (map[string]any, bool) {
	obj, ok := v.(map[string]any)
	return obj, ok && obj != nil
}

// applyDefaults returns a shallow copy of obj where every key absent from
// obj takes its value from defaults. A key present with a JSON null is not
// absent and is left for validation to reject.
func applyDefaults(obj map[string]any, defaults map[string]any) fields {
	out := make(fields, len(obj)+len(defaults))
	for k, v := range obj {
		out[k] = v
	}
	for k, v := range defaults {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, int32, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}

func (c *collector) typeMismatch(path Path, want string, got any) {
	c.add(path, KindType, "Expected %s, received %s", want, typeName(got))
}

// str reads a string field. ok is false when the field is absent or has
// the wrong type; an issue is recorded for the latter and, when required,
// for the former.
func (f fields) str(c *collector, path Path, key string, required bool) (string, bool) {
	v, present := f[key]
	if !present {
		if required {
			c.add(path.Child(key), KindRequired, "Required")
		}
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		c.typeMismatch(path.Child(key), "string", v)
		return "", false
	}
	return s, true
}

// nonEmpty reads a required string that must have at least one character.
func (f fields) nonEmpty(c *collector, path Path, key, message string) (string, bool) {
	s, ok := f.str(c, path, key, true)
	if !ok {
		return "", false
	}
	if s == "" {
		c.add(path.Child(key), KindRequired, "%s", message)
		return "", false
	}
	return s, true
}

func (f fields) boolean(c *collector, path Path, key string) (bool, bool) {
	v, present := f[key]
	if !present {
		c.add(path.Child(key), KindRequired, "Required")
		return false, false
	}
	b, ok := v.(bool)
	if !ok {
		c.typeMismatch(path.Child(key), "boolean", v)
		return false, false
	}
	return b, true
}

// integer reads a required whole number.
func (f fields) integer(c *collector, path Path, key string) (int, bool) {
	v, present := f[key]
	if !present {
		c.add(path.Child(key), KindRequired, "Required")
		return 0, false
	}
	n, isNumber, isInt := toInt(v)
	switch {
	case !isNumber:
		c.typeMismatch(path.Child(key), "number", v)
		return 0, false
	case !isInt:
		c.add(path.Child(key), KindType, "Expected integer, received float")
		return 0, false
	}
	return n, true
}

// positiveID reads a required positive integer id.
func (f fields) positiveID(c *collector, path Path, key string) (int, bool) {
	n, ok := f.integer(c, path, key)
	if !ok {
		return 0, false
	}
	if n <= 0 {
		c.add(path.Child(key), KindRange, "Number must be greater than 0")
		return 0, false
	}
	return n, true
}

// datetime reads an optional (or required) ISO-8601 timestamp and returns
// it in its original textual form.
func (f fields) datetime(c *collector, path Path, key string, required bool) (string, bool) {
	s, ok := f.str(c, path, key, required)
	if !ok {
		return "", false
	}
	if _, valid := ParseDatetime(s); !valid {
		c.add(path.Child(key), KindFormat, "Invalid datetime")
		return "", false
	}
	return s, true
}

// stringList reads an array of strings. Elements of the wrong type are
// reported individually and kept as empty strings so indices line up.
func (f fields) stringList(c *collector, path Path, key string) ([]string, bool) {
	v, present := f[key]
	if !present {
		c.add(path.Child(key), KindRequired, "Required")
		return []string{}, false
	}
	arr, ok := v.([]any)
	if !ok {
		c.typeMismatch(path.Child(key), "array", v)
		return []string{}, false
	}
	out := make([]string, len(arr))
	valid := true
	for i, elem := range arr {
		s, ok := elem.(string)
		if !ok {
			c.typeMismatch(path.Child(key, i), "string", elem)
			valid = false
			continue
		}
		out[i] = s
	}
	return out, valid
}

// list reads an array of arbitrary elements.
func (f fields) list(c *collector, path Path, key string) ([]any, bool) {
	v, present := f[key]
	if !present {
		c.add(path.Child(key), KindRequired, "Required")
		return nil, false
	}
	arr, ok := v.([]any)
	if !ok {
		c.typeMismatch(path.Child(key), "array", v)
		return nil, false
	}
	return arr, true
}

// object reads a nested JSON object.
func (f fields) object(c *collector, path Path, key string, required bool) (map[string]any, bool) {
	v, present := f[key]
	if !present {
		if required {
			c.add(path.Child(key), KindRequired, "Required")
		}
		return nil, false
	}
	obj, ok := asObject(v)
	if !ok {
		c.typeMismatch(path.Child(key), "object", v)
		return nil, false
	}
	return obj, true
}

// enum reads a string restricted to allowed.
func (f fields) enum(c *collector, path Path, key string, allowed []string) (string, bool) {
	s, ok := f.str(c, path, key, true)
	if !ok {
		return "", false
	}
	for _, a := range allowed {
		if s == a {
			return s, true
		}
	}
	c.add(path.Child(key), KindEnum, "%s", (&EnumError{Value: s, Allowed: allowed}).Error())
	return "", false
}

func toInt(v any) (n int, isNumber, isInt bool) {
	var f float64
	switch x := v.(type) {
	case int:
		return x, true, true
	case int32:
		return int(x), true, true
	case int64:
		return int(x), true, true
	case float32:
		f = float64(x)
	case float64:
		f = x
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return int(i), true, true
		}
		parsed, err := x.Float64()
		if err != nil {
			return 0, false, false
		}
		f = parsed
	default:
		return 0, false, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, true, false
	}
	return int(f), true, true
}
