package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexList is a slice that can be unmarshaled from either a single JSON value or a JSON array.
type FlexList[T any] []T

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexList[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	// If it starts with '[', treat it as a normal array
	if data[0] == '[' {
		var slice []T
		if err := json.Unmarshal(data, &slice); err != nil {
			return err
		}
		*f = FlexList[T](slice)
		return nil
	}

	// Otherwise, try to unmarshal as a single item and wrap it in a slice
	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return err
	}
	*f = FlexList[T]{item}
	return nil
}

// Slice converts FlexList[T] back to []T.
func (f FlexList[T]) Slice() []T {
	return []T(f)
}

// StringList accepts a JSON array of strings or a single comma-separated string.
type StringList []string

// UnmarshalJSON implements the json.Unmarshaler interface.
func (s *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	var raw []FlexString
	if data[0] == '[' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	} else {
		var single FlexString
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		for _, part := range strings.Split(string(single), ",") {
			raw = append(raw, FlexString(part))
		}
	}

	out := make(StringList, 0, len(raw))
	for _, v := range raw {
		if t := strings.TrimSpace(string(v)); t != "" {
			out = append(out, t)
		}
	}
	*s = out
	return nil
}

// FlexString is a string that can be unmarshaled from a JSON string, number or bool.
type FlexString string

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	if data[0] == '{' || data[0] == '[' {
		return fmt.Errorf("FlexString: expected scalar, got %s", string(data))
	}
	*f = FlexString(string(data))
	return nil
}

// String returns the trimmed value.
func (f FlexString) String() string {
	return strings.TrimSpace(string(f))
}

// FlexFloat is a float64 that can be unmarshaled from a JSON number or a numeric string.
// Present reports whether a non-empty value was supplied; Invalid reports a supplied
// value that is not numeric.
type FlexFloat struct {
	Value   float64
	Present bool
	Invalid bool
	Raw     string
}

// Float builds a present FlexFloat.
func Float(v float64) FlexFloat {
	return FlexFloat{Value: v, Present: true, Raw: strconv.FormatFloat(v, 'f', -1, 64)}
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	*f = FlexFloat{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexFloat{Value: n, Present: true, Raw: string(data)}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("FlexFloat: unexpected type, expected number or string")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f.Present = true
	f.Raw = s
	val, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		f.Invalid = true
		return nil
	}
	f.Value = val
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if !f.Present {
		return []byte("null"), nil
	}
	if f.Invalid {
		return json.Marshal(f.Raw)
	}
	return json.Marshal(f.Value)
}

// Valid reports a present, numeric value.
func (f FlexFloat) Valid() bool {
	return f.Present && !f.Invalid
}

// FlexBool accepts JSON booleans, 0/1 and common yes/no strings.
type FlexBool struct {
	Value   bool
	Present bool
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (b *FlexBool) UnmarshalJSON(data []byte) error {
	*b = FlexBool{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	var raw FlexString
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch strings.ToLower(raw.String()) {
	case "":
		return nil
	case "true", "yes", "y", "1", "on":
		*b = FlexBool{Value: true, Present: true}
	case "false", "no", "n", "0", "off":
		*b = FlexBool{Value: false, Present: true}
	default:
		return fmt.Errorf("FlexBool: invalid boolean %q", raw)
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (b FlexBool) MarshalJSON() ([]byte, error) {
	if !b.Present {
		return []byte("null"), nil
	}
	return json.Marshal(b.Value)
}

// Or returns the value when present, def otherwise.
func (b FlexBool) Or(def bool) bool {
	if !b.Present {
		return def
	}
	return b.Value
}
