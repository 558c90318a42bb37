package jsonvalue

// Serializer is implemented by types that render themselves as a Value.
// Serialize always checks for it before falling back to reflection.
type Serializer interface {
	Serialize() Value
}

// Transformable is a type that converts both ways. Deserialize is
// implemented on the pointer receiver.
type Transformable interface {
	Serializer
	Deserialize(v Value) error
}

// TransformablePtr constrains PT to be *T implementing Transformable.
type TransformablePtr[T any] interface {
	*T
	Transformable
}

// Deserialize resolves path against v and deserializes the result into a
// new T.
func Deserialize[T any, PT TransformablePtr[T]](v Value, path ...Path) (T, error) {
	var out T
	target, err := v.Resolve(path...)
	if err != nil {
		return out, err
	}
	if err := PT(&out).Deserialize(target); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// TryDeserialize is the optional form of Deserialize.
func TryDeserialize[T any, PT TransformablePtr[T]](v Value, path ...Path) (T, bool) {
	out, err := Deserialize[T, PT](v, path...)
	if err != nil {
		logDiscarded("deserialize "+typeName[T](), err)
		return out, false
	}
	return out, true
}

// DeserializeOr is TryDeserialize with a fallback.
func DeserializeOr[T any, PT TransformablePtr[T]](v Value, def T, path ...Path) T {
	out, ok := TryDeserialize[T, PT](v, path...)
	if !ok {
		return def
	}
	return out
}

// TransformerFor returns Deserialize for T as a plain conversion function.
func TransformerFor[T any, PT TransformablePtr[T]]() func(Value) (T, error) {
	return func(v Value) (T, error) {
		return Deserialize[T, PT](v)
	}
}

// Integer is the set of types FromIntEnum accepts.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// FromStringEnum returns the member of an enum-like string type whose raw
// value equals the String v. Anything else is Inconvertible.
func FromStringEnum[E ~string](v Value, members ...E) (E, error) {
	if v.kind == StringKind {
		for _, m := range members {
			if string(m) == v.str {
				return m, nil
			}
		}
	}
	var zero E
	return zero, newInconvertible(v, typeName[E]())
}

// FromIntEnum returns the member of an enum-like integer type whose raw
// value equals v converted with ToInt64.
func FromIntEnum[E Integer](v Value, members ...E) (E, error) {
	var zero E
	i, err := ToInt64(v)
	if err != nil {
		return zero, newInconvertible(v, typeName[E]())
	}
	for _, m := range members {
		if int64(m) == i {
			return m, nil
		}
	}
	return zero, newInconvertible(v, typeName[E]())
}

// StringEnumValue serializes a member of an enum-like string type.
func StringEnumValue[E ~string](e E) Value {
	return NewString(string(e))
}

// IntEnumValue serializes a member of an enum-like integer type.
func IntEnumValue[E Integer](e E) Value {
	return NewInt(int64(e))
}
