package formatter

import (
	"fmt"
	"go/format"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var importBlockRegex = regexp.MustCompile(`(?s)import\s*\((.+?)\)`)

// Formatter formats generated Go code according to standard conventions
type Formatter struct{}

// NewFormatter creates a new Formatter instance
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Format runs gofmt over code and groups imports into standard library
// and third-party blocks
func (f *Formatter) Format(code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", nil
	}

	formatted, err := format.Source([]byte(code))
	if err != nil {
		return "", fmt.Errorf("failed to parse Go code: %w", err)
	}

	grouped := f.formatImports(string(formatted))
	if grouped == string(formatted) {
		return grouped, nil
	}

	// Regrouping can change alignment of comments, so format once more
	final, err := format.Source([]byte(grouped))
	if err != nil {
		return "", fmt.Errorf("failed to format grouped imports: %w", err)
	}
	return string(final), nil
}

// formatImports organizes import statements with standard library imports first,
// followed by third-party imports with a blank line in between
func (f *Formatter) formatImports(code string) string {
	importMatches := importBlockRegex.FindStringSubmatch(code)
	if len(importMatches) < 2 {
		// No import block found or it's a single-line import
		return code
	}

	var stdLibImports, thirdPartyImports []string
	for _, line := range strings.Split(strings.TrimSpace(importMatches[1]), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if isStdLib(line) {
			stdLibImports = append(stdLibImports, line)
		} else {
			thirdPartyImports = append(thirdPartyImports, line)
		}
	}

	sort.Slice(stdLibImports, func(i, j int) bool { return importPath(stdLibImports[i]) < importPath(stdLibImports[j]) })
	sort.Slice(thirdPartyImports, func(i, j int) bool { return importPath(thirdPartyImports[i]) < importPath(thirdPartyImports[j]) })

	var b strings.Builder
	b.WriteString("import (\n")
	for _, imp := range stdLibImports {
		b.WriteString("\t" + imp + "\n")
	}
	if len(stdLibImports) > 0 && len(thirdPartyImports) > 0 {
		b.WriteString("\n")
	}
	for _, imp := range thirdPartyImports {
		b.WriteString("\t" + imp + "\n")
	}
	b.WriteString(")")

	loc := importBlockRegex.FindStringIndex(code)
	return code[:loc[0]] + b.String() + code[loc[1]:]
}

// importPath extracts the quoted path from an import line, which may carry
// an alias such as `uuid "github.com/google/uuid"`
func importPath(line string) string {
	start := strings.IndexByte(line, '"')
	if start < 0 {
		return line
	}
	path, err := strconv.Unquote(line[start:])
	if err != nil {
		return strings.Trim(line[start:], `"`)
	}
	return path
}

// isStdLib reports whether the first path element has no dot
func isStdLib(line string) bool {
	first, _, _ := strings.Cut(importPath(line), "/")
	return !strings.Contains(first, ".")
}
