package jsonvalue

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/oarkflow/date"
)

// URL is a Transformable url.URL carried as a String.
type URL struct {
	url.URL
}

// ParseURL percent-encodes s and parses it.
func ParseURL(s string) (URL, error) {
	var u URL
	err := u.Deserialize(NewString(s))
	return u, err
}

// Deserialize percent-encodes every character that may not appear in a URL
// and parses the result. Existing %XX escapes are kept.
func (u *URL) Deserialize(v Value) error {
	if v.kind != StringKind || v.str == "" {
		return newInconvertible(v, "URL")
	}
	parsed, err := url.Parse(percentEncode(v.str))
	if err != nil {
		return &Error{Kind: Inconvertible, Value: v, Target: "URL", Err: err}
	}
	u.URL = *parsed
	return nil
}

// Serialize renders the URL as a String.
func (u URL) Serialize() Value {
	return NewString(u.URL.String())
}

const urlAllowed = "-._~!$&'()*+,;=:@/?#[]"

func percentEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
			b.WriteByte(c)
		case strings.IndexByte(urlAllowed, c) >= 0:
			b.WriteByte(c)
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// Color is an RGB colour carried as a "#RRGGBB" String.
//
// Deserialize is lenient: a String whose hex digits cannot be read decodes
// to black rather than failing. Only non-String values are rejected.
type Color struct {
	R, G, B uint8
}

// Deserialize reads a "#RRGGBB" or "RRGGBB" String.
func (c *Color) Deserialize(v Value) error {
	if v.kind != StringKind {
		return newInconvertible(v, "Color")
	}
	rgb := scanHex(strings.TrimPrefix(v.str, "#"))
	c.R = uint8(rgb >> 16)
	c.G = uint8(rgb >> 8)
	c.B = uint8(rgb)
	return nil
}

// Serialize renders the colour as "#rrggbb".
func (c Color) Serialize() Value {
	return NewString(c.Hex())
}

// Hex returns the colour as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// scanHex reads the leading hex digits of s, after optional whitespace and
// "0x" prefix. It returns 0 when there are none and saturates on overflow.
func scanHex(s string) uint32 {
	s = strings.TrimLeft(s, " \t\n")
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') && isHex(s[2]) {
		s = s[2:]
	}
	var n uint64
	for i := 0; i < len(s) && isHex(s[i]); i++ {
		n = n<<4 | uint64(hexVal(s[i]))
		if n > math.MaxUint32 {
			return math.MaxUint32
		}
	}
	return uint32(n)
}

func hexVal(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	}
	return c - '0'
}

// Time is a Transformable time.Time. Deserialize accepts the date formats
// understood by github.com/oarkflow/date; Serialize writes RFC 3339.
type Time struct {
	time.Time
}

// Deserialize parses a date String.
func (t *Time) Deserialize(v Value) error {
	if v.kind != StringKind {
		return newInconvertible(v, "Time")
	}
	parsed, err := date.Parse(v.str)
	if err != nil {
		return &Error{Kind: Inconvertible, Value: v, Target: "Time", Err: err}
	}
	t.Time = parsed
	return nil
}

// Serialize renders the time as an RFC 3339 String.
func (t Time) Serialize() Value {
	return NewString(t.Format(time.RFC3339Nano))
}
