package jsonvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manufacturer = `{
	"manufacturer": {"company_name": "BMW", "founded": 1916},
	"models": [{"name": "M5"}, {"name": "M3"}],
	"flags": [1, 2, 3]
}`

func TestResolve(t *testing.T) {
	doc := ParseString(manufacturer)

	tests := []struct {
		name    string
		path    []Path
		want    Value
		wantErr error
	}{
		{name: "empty path is identity", path: nil, want: doc},
		{name: "nested key", path: Keys("manufacturer", "company_name"), want: NewString("BMW")},
		{name: "index then key", path: []Path{Key("models"), Index(1), Key("name")}, want: NewString("M3")},
		{name: "missing key", path: Keys("manufacturer", "ceo"), wantErr: ErrMissingKey},
		{name: "index out of bounds", path: []Path{Key("flags"), Index(5)}, wantErr: ErrIndexOutOfBounds},
		{name: "negative index", path: []Path{Key("flags"), Index(-1)}, wantErr: ErrIndexOutOfBounds},
		{name: "key into array", path: []Path{Key("flags"), Key("x")}, wantErr: ErrInvalidStep},
		{name: "index into map", path: []Path{Key("manufacturer"), Index(0)}, wantErr: ErrInvalidStep},
		{name: "step into scalar", path: Keys("manufacturer", "founded", "x"), wantErr: ErrInvalidStep},
		{name: "nil step", path: []Path{nil}, wantErr: ErrInvalidStep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := doc.Resolve(tt.path...)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, got.IsNull())
				assert.True(t, doc.Get(tt.path...).IsNull())
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got.Stringify(false))
			assert.True(t, got.Equal(doc.Get(tt.path...)))
		})
	}
}

func TestResolve_ErrorDetail(t *testing.T) {
	_, err := ParseString(`[1,2,3]`).Resolve(Index(5))
	var jerr *Error
	require.ErrorAs(t, err, &jerr)
	assert.Equal(t, IndexOutOfBounds, jerr.Kind)
	assert.Equal(t, 5, jerr.Index)
	assert.Equal(t, "index out of bounds: 5", err.Error())

	_, err = ParseString(`{}`).Resolve(Key("make"))
	require.ErrorAs(t, err, &jerr)
	assert.Equal(t, "make", jerr.Key)

	_, err = ParseString(`"s"`).Resolve(Index(0))
	require.ErrorAs(t, err, &jerr)
	assert.Equal(t, StringKind, jerr.Container)
	assert.Equal(t, "invalid path step [0] for string", err.Error())
}

func TestResolve_Deterministic(t *testing.T) {
	doc := ParseString(manufacturer)
	path := []Path{Key("models"), Index(0), Key("name")}
	first, err := doc.Resolve(path...)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := doc.Resolve(path...)
		require.NoError(t, err)
		assert.True(t, first.Equal(again))
	}
}

func TestArrayAtMapAt(t *testing.T) {
	doc := ParseString(manufacturer)
	assert.Len(t, doc.ArrayAt(Key("models")), 2)
	assert.Empty(t, doc.ArrayAt(Key("manufacturer")))
	assert.Empty(t, doc.ArrayAt(Key("nope")))
	assert.Len(t, doc.MapAt(Key("manufacturer")), 2)
	assert.Empty(t, doc.MapAt(Key("flags")))
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		input string
		want  []Path
	}{
		{"", nil},
		{"$", nil},
		{".", []Path{}},
		{"a", []Path{Key("a")}},
		{"$.a.b", []Path{Key("a"), Key("b")}},
		{".a", []Path{Key("a")}},
		{"models[1].name", []Path{Key("models"), Index(1), Key("name")}},
		{"[0][2]", []Path{Index(0), Index(2)}},
		{`a."b.c"[3]`, []Path{Key("a"), Key("b.c"), Index(3)}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePath(tt.input)
			require.NoError(t, err)
			assert.Equal(t, len(tt.want), len(got))
			assert.Equal(t, FormatPath(tt.want), FormatPath(got))
		})
	}
}

func TestParsePath_Errors(t *testing.T) {
	for _, input := range []string{"a.", "a..b", "a[", "a[x]", "a[-1]", "a[0]b", `"unterminated`} {
		t.Run(input, func(t *testing.T) {
			_, err := ParsePath(input)
			var perr *PathSyntaxError
			assert.ErrorAs(t, err, &perr)
		})
	}

	assert.Panics(t, func() { MustParsePath("a[") })
}

func TestFormatPath(t *testing.T) {
	path := []Path{Key("models"), Index(0), Key("model year"), Key("name")}
	text := FormatPath(path)
	assert.Equal(t, `models[0]."model year".name`, text)

	back, err := ParsePath(text)
	require.NoError(t, err)
	assert.Equal(t, path, back)
}
