package parser

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/mcncl/typedjson/internal/errors"
	"github.com/mcncl/typedjson/internal/models"
	"github.com/mcncl/typedjson/jsonvalue"
)

// Parse reads exactly one JSON document from reader. Unlike jsonvalue.Parse
// it reports why the input was rejected.
func Parse(reader io.Reader) (models.IntermediateRepresentation, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("failed to read input", err)
	}
	return ParseBytes(data)
}

// ParseBytes is Parse for an in-memory document
func ParseBytes(data []byte) (models.IntermediateRepresentation, error) {
	root, err := jsonvalue.FromBytes(data)
	if err != nil {
		return models.IntermediateRepresentation{}, classify(data, err)
	}
	return models.IntermediateRepresentation{
		Root:        root,
		RootIsArray: root.Kind() == jsonvalue.ArrayKind,
	}, nil
}

// classify maps codec failures onto the application sentinels
func classify(data []byte, err error) error {
	if stderrors.Is(err, jsonvalue.ErrEmptyInput) {
		return errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}
	if stderrors.Is(err, jsonvalue.ErrTrailingData) {
		return errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	}
	var syntaxError *json.SyntaxError
	if stderrors.As(err, &syntaxError) {
		line, col := position(data, syntaxError.Offset)
		return errors.NewParsingError(
			fmt.Sprintf("JSON syntax error at line %d, column %d", line, col),
			fmt.Errorf("%w: %s", errors.ErrInvalidJSON, syntaxError.Error()),
		)
	}
	return errors.NewParsingError("failed to decode JSON", fmt.Errorf("%w: %v", errors.ErrInvalidJSON, err))
}

// position converts a byte offset into a 1-based line and column
func position(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col := 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.IntermediateRepresentation, error) {
	if strings.TrimSpace(jsonString) == "" {
		return models.IntermediateRepresentation{}, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return ParseBytes([]byte(jsonString))
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (models.IntermediateRepresentation, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.IntermediateRepresentation{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.IntermediateRepresentation{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	if len(data) == 0 {
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}
	return ParseBytes(data)
}
