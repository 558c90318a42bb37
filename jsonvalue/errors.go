package jsonvalue

import (
	"fmt"
)

// ErrorKind identifies the class of a conversion or resolution failure.
type ErrorKind uint8

const (
	// Inconvertible means a value could not be converted to the requested type.
	Inconvertible ErrorKind = iota + 1
	// MissingKey means a map had no entry for the requested key.
	MissingKey
	// IndexOutOfBounds means an array index was negative or past the end.
	IndexOutOfBounds
	// InvalidStepForContainer means a key was applied to a non-map or an index to a non-array.
	InvalidStepForContainer
	// Missing means a null root was rendered to bytes.
	Missing
	// InvalidForEncoding means the value tree could not be written as JSON text.
	InvalidForEncoding
)

func (k ErrorKind) String() string {
	switch k {
	case Inconvertible:
		return "inconvertible"
	case MissingKey:
		return "missing key"
	case IndexOutOfBounds:
		return "index out of bounds"
	case InvalidStepForContainer:
		return "invalid step for container"
	case Missing:
		return "missing"
	case InvalidForEncoding:
		return "invalid for encoding"
	default:
		return "unknown"
	}
}

// Error is returned by every failing operation in this package. Two errors
// match under errors.Is when their kinds are equal, so the Err* sentinels
// can be used to test for a class of failure.
type Error struct {
	Kind ErrorKind

	// Value is the offending value for Inconvertible and InvalidForEncoding.
	Value Value
	// Target describes the requested type for Inconvertible.
	Target string
	// Key is set for MissingKey.
	Key string
	// Index is set for IndexOutOfBounds.
	Index int
	// Step and Container are set for InvalidStepForContainer.
	Step      Path
	Container Kind

	Err error
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case Inconvertible:
		msg = fmt.Sprintf("%s inconvertible to type: %s", e.Value.Stringify(false), e.Target)
	case MissingKey:
		msg = fmt.Sprintf("missing key: %q", e.Key)
	case IndexOutOfBounds:
		msg = fmt.Sprintf("index out of bounds: %d", e.Index)
	case InvalidStepForContainer:
		msg = fmt.Sprintf("invalid path step %s for %s", describeStep(e.Step), e.Container)
	case Missing:
		msg = "missing value"
	case InvalidForEncoding:
		msg = fmt.Sprintf("invalid value for encoding: %s", e.Value.Kind())
	default:
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrInconvertible      = &Error{Kind: Inconvertible}
	ErrMissingKey         = &Error{Kind: MissingKey}
	ErrIndexOutOfBounds   = &Error{Kind: IndexOutOfBounds}
	ErrInvalidStep        = &Error{Kind: InvalidStepForContainer}
	ErrMissing            = &Error{Kind: Missing}
	ErrInvalidForEncoding = &Error{Kind: InvalidForEncoding}
)

func newInconvertible(v Value, target string) error {
	return &Error{Kind: Inconvertible, Value: v, Target: target}
}

func newMissingKey(key string) error {
	return &Error{Kind: MissingKey, Key: key}
}

func newIndexOutOfBounds(i int) error {
	return &Error{Kind: IndexOutOfBounds, Index: i}
}

func newInvalidStep(step Path, container Kind) error {
	return &Error{Kind: InvalidStepForContainer, Step: step, Container: container}
}

func describeStep(p Path) string {
	if p == nil {
		return "<nil>"
	}
	return FormatPath([]Path{p})
}

// PathSyntaxError reports a malformed textual path given to ParsePath.
type PathSyntaxError struct {
	Path   string
	Offset int
	Msg    string
}

func (e *PathSyntaxError) Error() string {
	return fmt.Sprintf("invalid path %q at offset %d: %s", e.Path, e.Offset, e.Msg)
}
