package jsonvalue

// Resolve walks path from v and returns the value it designates. Key steps
// descend only into Maps and Index steps only into Arrays; the first step
// that cannot be taken ends the walk with a MissingKey, IndexOutOfBounds or
// InvalidStepForContainer error. An empty path resolves to v itself.
func (v Value) Resolve(path ...Path) (Value, error) {
	cur := v
	for _, p := range path {
		if p == nil {
			return Value{}, newInvalidStep(nil, cur.kind)
		}
		next, err := p.step(cur)
		if err != nil {
			return Value{}, err
		}
		cur = next
	}
	return cur, nil
}

// Has reports whether path resolves against v.
func (v Value) Has(path ...Path) bool {
	_, err := v.Resolve(path...)
	return err == nil
}

// ArrayAt returns a copy of the Array at path. Any other kind, or a path
// that does not resolve, yields an empty slice.
func (v Value) ArrayAt(path ...Path) []Value {
	arr, ok := v.Get(path...).Array()
	if !ok {
		return []Value{}
	}
	return arr
}

// MapAt returns a copy of the Map at path. Any other kind, or a path that
// does not resolve, yields an empty map.
func (v Value) MapAt(path ...Path) map[string]Value {
	obj, ok := v.Get(path...).Map()
	if !ok {
		return map[string]Value{}
	}
	return obj
}
