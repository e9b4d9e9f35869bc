package codec

import (
	"bytes"
	"encoding/json"
	"unicode/utf8"
)

// nullSentinel is stored in a text field to mark it as intentionally absent.
const nullSentinel = "null"

// NullString is a fixed-width text field value that may be absent.
type NullString struct {
	Value string
	Valid bool
}

// Text returns a present NullString holding s.
func Text(s string) NullString {
	return NullString{Value: s, Valid: true}
}

// Absent returns the absent NullString.
func Absent() NullString {
	return NullString{}
}

// String returns the value, or "" when absent.
func (n NullString) String() string {
	if !n.Valid {
		return ""
	}
	return n.Value
}

// MarshalJSON encodes an absent value as null.
func (n NullString) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (n *NullString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = NullString{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*n = Text(s)
	return nil
}

// DecodeFixedString decodes a NUL-terminated fixed-width text field. Without
// a NUL the whole field is the value. Only the exact text "null" means
// absent; an empty field is a present empty string.
func DecodeFixedString(b []byte) (NullString, error) {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	if !utf8.Valid(b) {
		return NullString{}, NewError(KindDecodeError, -1, "invalid text bytes %q", b)
	}
	s := string(b)
	if s == nullSentinel {
		return Absent(), nil
	}
	return Text(s), nil
}

// EncodeFixedString writes s into dst, left-packed and zero-filled. An absent
// value is written as "null". The text must fit in len(dst).
func EncodeFixedString(dst []byte, s NullString) error {
	text := s.Value
	if !s.Valid {
		text = nullSentinel
	}
	if len(text) > len(dst) {
		return NewError(KindDecodeError, -1, "text %q exceeds field width %d", text, len(dst))
	}
	n := copy(dst, text)
	clear(dst[n:])
	return nil
}
