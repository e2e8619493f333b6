package report

import (
	"bytes"
	"encoding/json"
)

// Scalar keeps a JSON value exactly as the model wrote it. Strings are
// unquoted, anything else (numbers, booleans, null, nested values) is kept
// as compact JSON text.
type Scalar struct {
	raw  json.RawMessage
	text string
	set  bool
}

// NewScalar builds a string-valued Scalar.
func NewScalar(text string) Scalar {
	raw, _ := json.Marshal(text)
	return Scalar{raw: raw, text: text, set: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Scalar) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var text string
		if err := json.Unmarshal(b, &text); err != nil {
			return err
		}
		*s = Scalar{raw: append(json.RawMessage(nil), b...), text: text, set: true}
		return nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, b); err != nil {
		return err
	}
	*s = Scalar{raw: append(json.RawMessage(nil), b...), text: buf.String(), set: true}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s Scalar) MarshalJSON() ([]byte, error) {
	if !s.set {
		return []byte("null"), nil
	}
	return s.raw, nil
}

// String returns the verbatim text of the value.
func (s Scalar) String() string {
	return s.text
}

// IsSet reports whether the key was present in the reply.
func (s Scalar) IsSet() bool {
	return s.set
}

// IsString reports whether the value was a JSON string.
func (s Scalar) IsString() bool {
	return len(s.raw) > 0 && s.raw[0] == '"'
}
