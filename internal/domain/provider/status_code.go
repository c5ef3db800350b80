package provider

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// StatusCode is a PSP status code as received. Numeric codes keep their integer
// value; anything else is kept as text.
type StatusCode struct {
	text    string
	value   int
	numeric bool
}

// ParseStatusCode builds a StatusCode from its textual form. "2", "+2" and "2.0"
// all yield the numeric code 2.
func ParseStatusCode(s string) StatusCode {
	s = strings.TrimSpace(s)
	if s == "" {
		return StatusCode{}
	}
	if n, err := strconv.Atoi(s); err == nil {
		return NumericStatusCode(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && math.Abs(f) < math.MaxInt32 && f == math.Trunc(f) {
		return NumericStatusCode(int(f))
	}
	return StatusCode{text: s}
}

// NumericStatusCode builds a numeric StatusCode
func NumericStatusCode(n int) StatusCode {
	return StatusCode{text: strconv.Itoa(n), value: n, numeric: true}
}

// String returns the canonical text of the code ("" when absent)
func (c StatusCode) String() string {
	return c.text
}

// Int returns the integer value when the code is numeric
func (c StatusCode) Int() (int, bool) {
	return c.value, c.numeric
}

// IsZero reports whether no status code was present
func (c StatusCode) IsZero() bool {
	return c.text == ""
}

func (c StatusCode) MarshalJSON() ([]byte, error) {
	switch {
	case c.numeric:
		return []byte(strconv.Itoa(c.value)), nil
	case c.text == "":
		return []byte("null"), nil
	default:
		return json.Marshal(c.text)
	}
}

func (c *StatusCode) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = StatusCode{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = ParseStatusCode(s)
		return nil
	}
	*c = ParseStatusCode(string(data))
	return nil
}
