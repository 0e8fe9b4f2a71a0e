package curriculum

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const degreeSchemaURL = "schema://degree.json"

// degreeSchema describes the curriculum file format accepted by ParseDegree.
const degreeSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["id", "name", "subjects"],
  "additionalProperties": false,
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "name": {"type": "string", "minLength": 1},
    "subjects": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name", "term"],
        "additionalProperties": false,
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "name": {"type": "string", "minLength": 1},
          "term": {"type": "integer", "minimum": 1}
        }
      }
    },
    "edges": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["subject", "prerequisite", "class", "min_state"],
        "additionalProperties": false,
        "properties": {
          "subject": {"type": "string", "minLength": 1},
          "prerequisite": {"type": "string", "minLength": 1},
          "class": {"enum": ["ToEnroll", "ToSitExam"]},
          "min_state": {"enum": ["Pending", "InProgress", "Regularized", "Approved"]}
        }
      }
    }
  }
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func degreeFileSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var def any
		if err := json.Unmarshal([]byte(degreeSchema), &def); err != nil {
			compileErr = fmt.Errorf("parse degree schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(degreeSchemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(degreeSchemaURL)
	})
	return compiledSchema, compileErr
}

// ParseDegree decodes a curriculum document, validating it against the degree
// file schema first. The returned degree has not been loaded into a Graph yet.
func ParseDegree(r io.Reader) (Degree, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Degree{}, fmt.Errorf("read degree file: %w", err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Degree{}, fmt.Errorf("invalid JSON: %w", err)
	}

	sch, err := degreeFileSchema()
	if err != nil {
		return Degree{}, err
	}
	if err := sch.Validate(doc); err != nil {
		return Degree{}, fmt.Errorf("degree file schema validation failed: %w", err)
	}

	var d Degree
	if err := json.Unmarshal(raw, &d); err != nil {
		return Degree{}, fmt.Errorf("decode degree: %w", err)
	}
	return d, nil
}

// LoadFile reads, validates and loads the degree stored at path.
func LoadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open degree file: %w", err)
	}
	defer f.Close()

	d, err := ParseDegree(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Load(d)
}
