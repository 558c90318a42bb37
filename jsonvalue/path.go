package jsonvalue

import (
	"strconv"
	"strings"
	"unicode"
)

// Path is one step of a path: either a Key into a Map or an Index into an
// Array. The interface is sealed.
type Path interface {
	step(v Value) (Value, error)
}

// Key selects a Map entry.
type Key string

// Index selects an Array element.
type Index int

func (k Key) step(v Value) (Value, error) {
	if v.kind != MapKind {
		return Value{}, newInvalidStep(k, v.kind)
	}
	child, ok := v.obj[string(k)]
	if !ok {
		return Value{}, newMissingKey(string(k))
	}
	return child, nil
}

func (i Index) step(v Value) (Value, error) {
	if v.kind != ArrayKind {
		return Value{}, newInvalidStep(i, v.kind)
	}
	if int(i) < 0 || int(i) >= len(v.arr) {
		return Value{}, newIndexOutOfBounds(int(i))
	}
	return v.arr[i], nil
}

// Keys builds a path made only of Key steps.
func Keys(keys ...string) []Path {
	path := make([]Path, len(keys))
	for i, k := range keys {
		path[i] = Key(k)
	}
	return path
}

// ParsePath parses the textual form produced by FormatPath. Keys are
// separated by dots, indexes are written in brackets and keys that are not
// plain identifiers are double quoted:
//
//	manufacturer.models[0]."model.year"
//
// A leading "$" or "." is accepted and ignored. The empty string is the
// empty path.
func ParsePath(s string) ([]Path, error) {
	p := pathParser{src: s}
	return p.parse()
}

// MustParsePath is like ParsePath but panics on malformed input.
func MustParsePath(s string) []Path {
	path, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return path
}

// FormatPath renders path in the syntax accepted by ParsePath.
func FormatPath(path []Path) string {
	var b strings.Builder
	for i, p := range path {
		switch s := p.(type) {
		case Key:
			if i > 0 {
				b.WriteByte('.')
			}
			if isPlainKey(string(s)) {
				b.WriteString(string(s))
			} else {
				b.WriteString(strconv.Quote(string(s)))
			}
		case Index:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(int(s)))
			b.WriteByte(']')
		}
	}
	return b.String()
}

func isPlainKey(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '-' || unicode.IsLetter(r):
		case unicode.IsDigit(r) && i > 0:
		default:
			return false
		}
	}
	return true
}

type pathParser struct {
	src string
	pos int
}

func (p *pathParser) fail(msg string) error {
	return &PathSyntaxError{Path: p.src, Offset: p.pos, Msg: msg}
}

func (p *pathParser) parse() ([]Path, error) {
	if strings.HasPrefix(p.src, "$") {
		p.pos++
	}
	var path []Path
	first := true
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '[':
			idx, err := p.index()
			if err != nil {
				return nil, err
			}
			path = append(path, idx)
		case c == '.':
			p.pos++
			if p.pos == len(p.src) {
				if first && len(path) == 0 {
					return path, nil
				}
				return nil, p.fail("trailing dot")
			}
			fallthrough
		default:
			if !first && c != '.' {
				return nil, p.fail("expected '.' or '['")
			}
			k, err := p.key()
			if err != nil {
				return nil, err
			}
			path = append(path, k)
		}
		first = false
	}
	return path, nil
}

func (p *pathParser) index() (Path, error) {
	end := strings.IndexByte(p.src[p.pos:], ']')
	if end < 0 {
		return nil, p.fail("unterminated index")
	}
	digits := p.src[p.pos+1 : p.pos+end]
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return nil, p.fail("index must be a non-negative integer")
	}
	p.pos += end + 1
	return Index(n), nil
}

func (p *pathParser) key() (Path, error) {
	if p.pos < len(p.src) && p.src[p.pos] == '"' {
		q, err := strconv.QuotedPrefix(p.src[p.pos:])
		if err != nil {
			return nil, p.fail("unterminated quoted key")
		}
		k, err := strconv.Unquote(q)
		if err != nil {
			return nil, p.fail(err.Error())
		}
		p.pos += len(q)
		return Key(k), nil
	}
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != '.' && p.src[p.pos] != '[' {
		p.pos++
	}
	if p.pos == start {
		return nil, p.fail("empty key")
	}
	return Key(p.src[start:p.pos]), nil
}
