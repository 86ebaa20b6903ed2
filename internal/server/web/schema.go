package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const maxBodyBytes = 1 << 20

// Request body schemas, by file name under schemas/.
const (
	schemaCreateTodo    = "create_todo.json"
	schemaUpdateTodo    = "update_todo.json"
	schemaReorder       = "reorder.json"
	schemaUpdateProject = "update_project.json"
)

type schemaSet struct {
	schemas map[string]*jsonschema.Schema
}

func compileSchemas() (*schemaSet, error) {
	compiler := jsonschema.NewCompiler()
	names := []string{schemaCreateTodo, schemaUpdateTodo, schemaReorder, schemaUpdateProject}

	for _, name := range names {
		data, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			return nil, err
		}

		if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", name, err)
		}
	}

	set := &schemaSet{schemas: make(map[string]*jsonschema.Schema, len(names))}

	for _, name := range names {
		schema, err := compiler.Compile(name)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}

		set.schemas[name] = schema
	}

	return set, nil
}

// validate checks raw JSON against the named schema and returns a client
// facing message on failure.
func (ss *schemaSet) validate(name string, body []byte) error {
	schema, ok := ss.schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %s", name)
	}

	var doc any

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	if err := dec.Decode(&doc); err != nil {
		return errors.New("Invalid JSON body")
	}

	if dec.More() {
		return errors.New("Invalid JSON body")
	}

	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return errors.New(describe(name, ve))
		}

		return err
	}

	return nil
}

// arrayFields names the required array property of a schema. A missing or
// non-array value gets a fixed message instead of the schema text.
var arrayFields = map[string]string{
	schemaReorder: "todoIds",
}

// describe returns the first leaf cause as "location: message".
func describe(name string, ve *jsonschema.ValidationError) string {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}

	if field, ok := arrayFields[name]; ok {
		missing := ve.InstanceLocation == "" && strings.HasSuffix(ve.KeywordLocation, "/required")
		if missing || ve.InstanceLocation == "/"+field {
			return field + " must be an array"
		}
	}

	field := strings.TrimPrefix(ve.InstanceLocation, "/")
	if field == "" {
		return "Invalid request body: " + ve.Message
	}

	return fmt.Sprintf("Invalid request body: %s: %s", strings.ReplaceAll(field, "/", "."), ve.Message)
}

// decode reads, validates and unmarshals the request body into dst. It writes
// the 400 response itself and reports whether the handler should continue.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, schema string, dst any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.jsonError(w, "Request body too large", http.StatusRequestEntityTooLarge)
		return false
	}

	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}

	if err := s.schemas.validate(schema, body); err != nil {
		s.jsonError(w, err.Error(), http.StatusBadRequest)
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		s.jsonError(w, "Invalid JSON body", http.StatusBadRequest)
		return false
	}

	return true
}
