package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Text is a free-text document field. The store enforces no schema, so numbers
// and booleans written by other clients are accepted and kept in their text form.
type Text string

// UnmarshalJSON accepts strings, numbers, booleans and null.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	if data[0] == '{' || data[0] == '[' {
		*t = ""
		return nil
	}
	*t = Text(data)
	return nil
}

func (t Text) String() string { return string(t) }

// Float returns the numeric value of the text when it holds a plain number.
func (t Text) Float() (float64, bool) {
	return parseFinite(string(t))
}

// parseFinite parses a decimal number. NaN and infinities are rejected: they
// cannot be encoded back to JSON.
func parseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Number is a numeric document field. Numeric strings are accepted; anything
// else decodes to zero.
type Number float64

// UnmarshalJSON accepts numbers, numeric strings and null.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = Number(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, ok := parseFinite(s); ok {
			*n = Number(v)
			return nil
		}
	}
	*n = 0
	return nil
}

// Strings is a sequence of text values. A single scalar is read as a one-element list.
type Strings []string

// UnmarshalJSON accepts arrays of scalars, a single string, or null.
func (s *Strings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}
	if data[0] == '[' {
		var raw []Text
		if err := json.Unmarshal(data, &raw); err != nil {
			*s = nil
			return nil
		}
		out := make([]string, len(raw))
		for i, v := range raw {
			out[i] = string(v)
		}
		*s = out
		return nil
	}
	var one Text
	if err := one.UnmarshalJSON(data); err != nil || one == "" {
		*s = nil
		return nil
	}
	*s = Strings{string(one)}
	return nil
}

// Clone returns an independent copy.
func (s Strings) Clone() Strings {
	if s == nil {
		return nil
	}
	out := make(Strings, len(s))
	copy(out, s)
	return out
}

// Initials derives the two-letter avatar shown next to a name.
func Initials(name string) string {
	runes := []rune(name)
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return strings.ToUpper(string(runes))
}

// Flag is a boolean document field. "true"/"false" strings and 0/1 are accepted;
// anything else decodes to false.
type Flag bool

// UnmarshalJSON accepts booleans, boolean strings and numbers.
func (f *Flag) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = Flag(b)
		return nil
	}
	var t Text
	_ = t.UnmarshalJSON(data)
	if v, err := strconv.ParseBool(strings.TrimSpace(string(t))); err == nil {
		*f = Flag(v)
		return nil
	}
	if v, ok := t.Float(); ok {
		*f = Flag(v != 0)
		return nil
	}
	*f = false
	return nil
}

// Amount parses a money-like text such as "$1200" or "350.5". A single leading
// currency symbol is dropped; anything else that does not parse yields false.
func (t Text) Amount() (float64, bool) {
	s := strings.TrimSpace(string(t))
	if r, size := utf8.DecodeRuneInString(s); size > 0 && unicode.Is(unicode.Sc, r) {
		s = strings.TrimSpace(s[size:])
	}
	return parseFinite(s)
}
