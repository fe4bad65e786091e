package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("validation: schema invalid")
	ErrSchemaValidation = errors.New("validation: document does not match schema")
)

// ValidationIssue is one failed keyword, located by JSON pointer into the
// validated document.
type ValidationIssue struct {
	Location string
	Message  string
}

func (i ValidationIssue) String() string {
	location := "#" + strings.TrimPrefix(strings.TrimSpace(i.Location), "#")
	if i.Message == "" {
		return location
	}
	return location + ": " + i.Message
}

// PayloadValidationError lists every issue found in one document. It matches
// ErrSchemaValidation and its Cause under errors.Is.
type PayloadValidationError struct {
	Issues []ValidationIssue
	Cause  error
}

func (e *PayloadValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	labels := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		labels[i] = issue.String()
	}
	return strings.Join(labels, "; ")
}

func (e *PayloadValidationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrSchemaValidation}
	}
	return []error{ErrSchemaValidation, e.Cause}
}

// Issues returns the issues carried by err. Errors that did not come from a
// schema check yield a single issue holding the error text.
func Issues(err error) []ValidationIssue {
	var payloadErr *PayloadValidationError
	var schemaErr *jsonschema.ValidationError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &payloadErr):
		return payloadErr.Issues
	case errors.As(err, &schemaErr):
		return leafIssues(schemaErr, nil)
	default:
		return []ValidationIssue{{Message: err.Error()}}
	}
}

// Validator holds a compiled schema. It is safe for concurrent use.
type Validator struct {
	schema *jsonschema.Schema
}

// Compile prepares a validator for the given JSON schema document.
func Compile(name string, schema []byte) (*Validator, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "schema.json"
	}
	compiled, err := compileSchema(name, schema)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return &Validator{schema: compiled}, nil
}

// MustCompile is Compile for package-level schemas known to be valid.
func MustCompile(name string, schema []byte) *Validator {
	v, err := Compile(name, schema)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks a decoded JSON document (maps, slices, float64, string,
// bool, nil) against the schema.
func (v *Validator) Validate(payload any) error {
	if v == nil || v.schema == nil {
		return nil
	}
	if err := v.schema.Validate(payload); err != nil {
		return &PayloadValidationError{
			Issues: Issues(err),
			Cause:  err,
		}
	}
	return nil
}

// ValidateJSON decodes raw JSON and validates it.
func (v *Validator) ValidateJSON(raw []byte) error {
	var payload any
	decoder := json.NewDecoder(bytes.NewReader(raw))
	if err := decoder.Decode(&payload); err != nil {
		return &PayloadValidationError{
			Issues: []ValidationIssue{{Message: err.Error()}},
			Cause:  err,
		}
	}
	return v.Validate(payload)
}

func compileSchema(name string, schema []byte) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(name, bytes.NewReader(schema)); err != nil {
		return nil, err
	}
	return compiler.Compile(name)
}

// leafIssues flattens the cause tree; only leaves name a concrete keyword.
func leafIssues(node *jsonschema.ValidationError, out []ValidationIssue) []ValidationIssue {
	if node == nil {
		return out
	}
	if len(node.Causes) == 0 {
		return append(out, ValidationIssue{
			Location: strings.TrimSpace(node.InstanceLocation),
			Message:  strings.TrimSpace(node.Message),
		})
	}
	for _, cause := range node.Causes {
		out = leafIssues(cause, out)
	}
	return out
}
