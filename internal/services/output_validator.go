package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/doeshing/alfred-sf/internal/domain"
)

// itemListSchema is the structural minimum a command backend must print:
// an object whose items member is an array of objects.
const itemListSchema = `{
  "type": "object",
  "required": ["items"],
  "properties": {
    "items": {
      "type": "array",
      "items": {"type": "object"}
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *gojsonschema.Schema
	schemaErr      error
)

func itemSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(itemListSchema))
	})
	return compiledSchema, schemaErr
}

// singleDocument rejects payloads that are not exactly one JSON value, such as
// a document followed by a log line or several concatenated documents.
func singleDocument(payload []byte) error {
	dec := json.NewDecoder(bytes.NewReader(payload))
	var doc json.RawMessage
	if err := dec.Decode(&doc); err != nil {
		return err
	}
	if err := dec.Decode(&doc); !errors.Is(err, io.EOF) {
		return errors.New("trailing data after JSON document")
	}
	return nil
}

// ValidateItemList checks that payload is a non-empty item list document.
// It returns ErrEmptyOutput for blank output and ErrMalformedOutput for
// anything that is not an object with an items array.
func ValidateItemList(payload []byte) error {
	if len(bytes.TrimSpace(payload)) == 0 {
		return domain.ErrEmptyOutput
	}
	if err := singleDocument(payload); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedOutput, err)
	}
	schema, err := itemSchema()
	if err != nil {
		return fmt.Errorf("compile item schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedOutput, err)
	}
	if !result.Valid() {
		reasons := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			reasons = append(reasons, desc.String())
		}
		return fmt.Errorf("%w: %s", domain.ErrMalformedOutput, strings.Join(reasons, "; "))
	}
	return nil
}
