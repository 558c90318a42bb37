package jsonvalue

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialize_Vehicle(t *testing.T) {
	source := ParseString(`{"make":"BMW","model":"M5","year":2016}`)
	car, err := Decode[Vehicle](source)
	require.NoError(t, err)

	got := Serialize(car)
	assert.True(t, got.Get(Key("make")).Equal(NewString("BMW")))
	assert.True(t, got.Get(Key("model")).Equal(NewString("M5")))
	assert.True(t, got.Get(Key("year")).Equal(NewInt(2016)))
	assert.True(t, got.Get(Key("style")).IsNull())
	assert.Equal(t, 0, got.Get(Key("prices")).Len())
}

type listedVehicle struct {
	Make  string
	Year  *int64
	Style Style
	Seen  Time
}

func (l listedVehicle) JSONFields() []Field {
	return []Field{
		ScalarField("make", l.Make),
		Optional("year", l.Year, ScalarField[int64]),
		Transform("style", l.Style),
		Object("seen", l.Seen),
	}
}

func TestSerialize_FieldLister(t *testing.T) {
	year := int64(2016)
	when := Time{time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)}

	got := Serialize(listedVehicle{Make: "BMW", Year: &year, Style: Coupe, Seen: when})
	want := NewMap(map[string]any{
		"make":  "BMW",
		"year":  2016,
		"style": "coupe",
		"seen":  "2020-01-02T03:04:05Z",
	})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Serialize mismatch (-want +got):\n%s", diff)
	}

	absent := Serialize(&listedVehicle{Make: "BMW"})
	assert.True(t, absent.Has(Key("year")))
	assert.True(t, absent.Get(Key("year")).IsNull())
}

type base struct {
	ID   int
	Name string
}

type Audited struct {
	CreatedBy string
}

type record struct {
	base
	*Audited
	Name     string
	Secret   string `json:"-"`
	Renamed  int    `json:"renamed_field,omitempty"`
	Tags     []string
	Labels   map[string]int
	Parent   *record
	Color    Color
	internal int
}

func TestSerialize_Reflection(t *testing.T) {
	r := record{
		base:     base{ID: 1, Name: "base name"},
		Audited:  &Audited{CreatedBy: "ops"},
		Name:     "outer name",
		Secret:   "hidden",
		Renamed:  3,
		Tags:     []string{"a"},
		Labels:   map[string]int{"x": 1},
		Color:    Color{R: 1},
		internal: 9,
	}

	got := Serialize(r)
	want := NewMap(map[string]any{
		"id":            1,
		"name":          "outer name",
		"createdBy":     "ops",
		"renamed_field": 3,
		"tags":          []any{"a"},
		"labels":        map[string]any{"x": 1},
		"parent":        nil,
		"color":         "#010000",
	})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Serialize mismatch (-want +got):\n%s", diff)
	}
}

func TestSerialize_KeyStyle(t *testing.T) {
	type sample struct {
		ModelYear int
	}
	assert.True(t, Serialize(sample{1}).Has(Key("modelYear")))
	assert.True(t, Serialize(sample{1}, WithKeyStyle(Snake)).Has(Key("model_year")))
	assert.True(t, Serialize(sample{1}, WithKeyStyle(Exact)).Has(Key("ModelYear")))
}

type custom struct {
	Make string
}

func (c custom) Serialize() Value {
	return NewString("custom:" + c.Make)
}

func (c custom) JSONFields() []Field {
	return []Field{ScalarField("make", c.Make)}
}

func TestSerialize_Precedence(t *testing.T) {
	assert.Equal(t, "custom:BMW", Serialize(custom{Make: "BMW"}).Stringify(false))
	assert.Equal(t, "custom:BMW", Serialize(&custom{Make: "BMW"}).Stringify(false))

	var nilCustom *custom
	assert.True(t, Serialize(nilCustom).IsNull())
}

type plate struct {
	Number int
}

func (p *plate) Serialize() Value {
	return NewString(fmt.Sprintf("plate-%d", p.Number))
}

func TestSerialize_PointerReceiver(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"pointer", &plate{Number: 1}, `"plate-1"`},
		{"value", plate{Number: 2}, `"plate-2"`},
		{"nested value", struct{ Plate plate }{plate{Number: 3}}, `{"plate":"plate-3"}`},
		{"slice of values", []plate{{Number: 4}}, `["plate-4"]`},
		{"map of values", map[string]plate{"front": {Number: 5}}, `{"front":"plate-5"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Serialize(tt.in)
			assert.True(t, ParseString(tt.want).Equal(got), "got %s", got.Stringify(false))
		})
	}
}

func TestSerialize_Scalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Null()},
		{"value", NewInt(3), NewInt(3)},
		{"value pointer", ptr(NewString("p")), NewString("p")},
		{"string", "s", NewString("s")},
		{"uint8", uint8(8), NewInt(8)},
		{"float32", float32(0.5), NewFloat(0.5)},
		{"named string", Sedan, NewString("sedan")},
		{"named int", Drive, NewInt(2)},
		{"time", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), NewString("2020-01-01T00:00:00Z")},
		{"pointer to int", ptr(7), NewInt(7)},
		{"nil pointer", (*int)(nil), Null()},
		{"func", func() {}, Null()},
		{"int keyed map", map[int]string{1: "a"}, Null()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Serialize(tt.in)
			assert.True(t, tt.want.Equal(got), "got %s", got.Stringify(false))
		})
	}
}

func TestFieldsValue(t *testing.T) {
	v := FieldsValue([]Field{
		Primitive("a", NewInt(1)),
		Absent("b"),
		Primitive("a", NewInt(2)),
	})
	assert.Equal(t, `{"a":2,"b":null}`, v.Stringify(false))
	assert.True(t, Absent("x").IsAbsent())
	assert.False(t, Primitive("x", Null()).IsAbsent())
}

func ptr[T any](v T) *T {
	return &v
}
