package world

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed world.schema.json
var schemaJSON []byte

const schemaURL = "world.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("failed to parse world schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("failed to add world schema: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// ValidateSchema checks raw world JSON against the embedded schema.
func ValidateSchema(data []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse world JSON: %w", err)
	}

	if err := schema.Validate(inst); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			var problems []string
			collectSchemaErrors(verr, &problems)
			return &ValidationError{Problems: problems}
		}
		return fmt.Errorf("schema validation error: %w", err)
	}
	return nil
}

func collectSchemaErrors(err *jsonschema.ValidationError, problems *[]string) {
	if len(err.Causes) == 0 {
		loc := "/" + strings.Join(err.InstanceLocation, "/")
		keyword := "schema"
		if err.ErrorKind != nil {
			if path := err.ErrorKind.KeywordPath(); len(path) > 0 {
				keyword = strings.Join(path, ".")
			}
		}
		*problems = append(*problems, fmt.Sprintf("%s: %s validation failed", loc, keyword))
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, problems)
	}
}
