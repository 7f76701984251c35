package manifest

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/package_info.schema.json
var schemaBytes []byte

const schemaURL = "package_info.schema.json"

var (
	recordSchema = sync.OnceValues(compileSchema)
	printer      = message.NewPrinter(language.English)
)

// Issue is one schema violation in a record.
type Issue struct {
	Location string // JSON pointer into the record, "" for the document itself
	Keyword  string // failing schema keyword, e.g. "required"
	Message  string
}

func (i Issue) String() string {
	if i.Location == "" {
		return i.Message
	}
	return i.Location + ": " + i.Message
}

// SchemaError reports a record that parsed as JSON but does not match the
// record schema.
type SchemaError struct {
	Issues []Issue
}

func (e *SchemaError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return strings.Join(parts, "; ")
}

func compileSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
	if err != nil {
		return nil, fmt.Errorf("unmarshaling schema JSON: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	schema, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	return schema, nil
}

// Validate checks data against the package record schema. Malformed JSON is
// a plain error; a well-formed document that breaks the schema returns a
// *SchemaError.
func Validate(data []byte) error {
	schema, err := recordSchema()
	if err != nil {
		return err
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parsing JSON: %w", err)
	}

	err = schema.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	return &SchemaError{Issues: issuesOf(ve)}
}

// issuesOf flattens the cause tree of ve into its leaves, skipping the
// container keywords that carry no detail of their own.
func issuesOf(ve *jsonschema.ValidationError) []Issue {
	var issues []Issue
	seen := make(map[Issue]bool)

	stack := []*jsonschema.ValidationError{ve}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(e.Causes) > 0 {
			for i := len(e.Causes) - 1; i >= 0; i-- {
				stack = append(stack, e.Causes[i])
			}
			continue
		}
		if e.ErrorKind == nil {
			continue
		}

		kw := e.ErrorKind.KeywordPath()
		if len(kw) == 0 || kw[len(kw)-1] == "$ref" || kw[len(kw)-1] == "allOf" {
			continue
		}
		issue := Issue{Keyword: kw[len(kw)-1], Message: e.ErrorKind.LocalizedString(printer)}
		if len(e.InstanceLocation) > 0 {
			issue.Location = "/" + strings.Join(e.InstanceLocation, "/")
		}
		if !seen[issue] {
			seen[issue] = true
			issues = append(issues, issue)
		}
	}

	if len(issues) == 0 {
		issues = append(issues, Issue{Message: ve.Error()})
	}
	return issues
}
