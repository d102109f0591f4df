package todo

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const slotSchemaURL = "https://bloom.invalid/tasks.schema.json"

// slotSchema describes the value held in the store slot.
const slotSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "additionalProperties": false,
    "required": ["id", "text", "completed", "createdAt"],
    "properties": {
      "id": {"type": "integer"},
      "text": {"type": "string", "minLength": 1},
      "completed": {"type": "boolean"},
      "createdAt": {"type": "string", "format": "date-time"}
    }
  }
}`

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func slotValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true
		if err := compiler.AddResource(slotSchemaURL, strings.NewReader(slotSchema)); err != nil {
			compileErr = fmt.Errorf("add slot schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile(slotSchemaURL)
	})
	return compiled, compileErr
}

// validateSlot checks raw slot content against the slot schema and returns
// the first violation with its path.
func validateSlot(data []byte) error {
	schema, err := slotValidator()
	if err != nil {
		return err
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		return firstSchemaError(err)
	}
	return nil
}

func firstSchemaError(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	path := jsonPointerToPath(ve.InstanceLocation)
	if path == "" {
		return fmt.Errorf("%s", ve.Message)
	}
	return fmt.Errorf("%s: %s", path, ve.Message)
}

// jsonPointerToPath turns "/0/createdAt" into "[0].createdAt".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}
