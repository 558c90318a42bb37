// Package display renders documents for the terminal, optionally with ANSI
// colors.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/mcncl/typedjson/jsonvalue"
)

// Palette holds one colorizer per kind of token.
type Palette struct {
	Key    func(...any) string
	String func(...any) string
	Number func(...any) string
	Bool   func(...any) string
	Null   func(...any) string
	Punct  func(...any) string
}

// NewPalette returns a colored palette, or a plain one when enabled is false.
func NewPalette(enabled bool) *Palette {
	if !enabled {
		return &Palette{
			Key:    fmt.Sprint,
			String: fmt.Sprint,
			Number: fmt.Sprint,
			Bool:   fmt.Sprint,
			Null:   fmt.Sprint,
			Punct:  fmt.Sprint,
		}
	}
	return &Palette{
		Key:    colorizer(color.FgBlue, color.Bold),
		String: colorizer(color.FgGreen),
		Number: colorizer(color.FgCyan),
		Bool:   colorizer(color.FgYellow),
		Null:   colorizer(color.FgMagenta),
		Punct:  colorizer(color.Reset),
	}
}

func colorizer(attrs ...color.Attribute) func(...any) string {
	c := color.New(attrs...)
	// the palette decides whether to color, not the global NoColor switch
	c.EnableColor()
	return c.SprintFunc()
}

// UseColor resolves an auto, always or never setting against f. Auto colors
// terminals unless NO_COLOR is set.
func UseColor(mode string, f *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Printer writes documents as JSON text.
type Printer struct {
	palette *Palette
	pretty  bool
	indent  string
}

// NewPrinter creates a printer. Pretty output indents by two spaces.
func NewPrinter(colored, pretty bool) *Printer {
	return &Printer{
		palette: NewPalette(colored),
		pretty:  pretty,
		indent:  "  ",
	}
}

// Render returns the JSON text of v. Map keys are written in sorted order.
func (p *Printer) Render(v jsonvalue.Value) string {
	var b strings.Builder
	p.write(&b, v, 0)
	return b.String()
}

// Fprint writes the rendered document and a trailing newline to w.
func (p *Printer) Fprint(w io.Writer, v jsonvalue.Value) error {
	_, err := io.WriteString(w, p.Render(v)+"\n")
	return err
}

func (p *Printer) write(b *strings.Builder, v jsonvalue.Value, depth int) {
	switch v.Kind() {
	case jsonvalue.MapKind:
		p.writeMap(b, v, depth)
	case jsonvalue.ArrayKind:
		p.writeArray(b, v, depth)
	case jsonvalue.NullKind:
		b.WriteString(p.palette.Null("null"))
	case jsonvalue.BoolKind:
		b.WriteString(p.palette.Bool(scalarText(v)))
	case jsonvalue.StringKind:
		b.WriteString(p.palette.String(scalarText(v)))
	default:
		b.WriteString(p.palette.Number(scalarText(v)))
	}
}

func (p *Printer) writeMap(b *strings.Builder, v jsonvalue.Value, depth int) {
	keys := v.Keys()
	if len(keys) == 0 {
		b.WriteString(p.palette.Punct("{}"))
		return
	}
	b.WriteString(p.palette.Punct("{"))
	for i, k := range keys {
		if i > 0 {
			b.WriteString(p.palette.Punct(","))
		}
		p.newline(b, depth+1)
		b.WriteString(p.palette.Key(scalarText(jsonvalue.NewString(k))))
		b.WriteString(p.palette.Punct(":"))
		if p.pretty {
			b.WriteByte(' ')
		}
		p.write(b, v.Get(jsonvalue.Key(k)), depth+1)
	}
	p.newline(b, depth)
	b.WriteString(p.palette.Punct("}"))
}

func (p *Printer) writeArray(b *strings.Builder, v jsonvalue.Value, depth int) {
	if v.Len() == 0 {
		b.WriteString(p.palette.Punct("[]"))
		return
	}
	b.WriteString(p.palette.Punct("["))
	for i, child := range v.All() {
		if i > 0 {
			b.WriteString(p.palette.Punct(","))
		}
		p.newline(b, depth+1)
		p.write(b, child, depth+1)
	}
	p.newline(b, depth)
	b.WriteString(p.palette.Punct("]"))
}

func (p *Printer) newline(b *strings.Builder, depth int) {
	if !p.pretty {
		return
	}
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(p.indent, depth))
}

// scalarText returns the JSON text of a scalar, falling back to the display
// form for floats JSON cannot represent
func scalarText(v jsonvalue.Value) string {
	data, err := v.Bytes(false)
	if err != nil {
		return v.Stringify(false)
	}
	return string(data)
}
