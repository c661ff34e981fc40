package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/matzehuels/plugindex/pkg/errors"
	"github.com/matzehuels/plugindex/pkg/plugin"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "plugindex-index.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func indexSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		c.AssertFormat = true
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// Violation is one problem found in an index file. Location is a JSON
// pointer into the document ("" for the root).
type Violation struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

func (v Violation) String() string {
	loc := v.Location
	if loc == "" {
		loc = "/"
	}
	return loc + ": " + v.Message
}

// Validate checks data against the index schema and reports every record
// that repeats the (name, owner) identity of an earlier one. It returns an
// error only when data is not JSON at all.
func Validate(data []byte) ([]Violation, error) {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "parse index")
	}

	schema, err := indexSchema()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "compile index schema")
	}

	var violations []Violation
	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !stderrors.As(err, &ve) {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "validate index")
		}
		violations = append(violations, leafViolations(ve)...)
		sort.SliceStable(violations, func(i, j int) bool {
			return violations[i].Location < violations[j].Location
		})
		// Records that fail the schema may not decode, so duplicates are
		// only checked on structurally valid documents.
		return violations, nil
	}

	records, err := Decode(data)
	if err != nil {
		return append(violations, Violation{Message: err.Error()}), nil
	}
	return append(violations, duplicateViolations(records)...), nil
}

// ValidateFile reads path and validates its contents.
func ValidateFile(path string) ([]Violation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "read index %s", path)
	}
	return Validate(data)
}

func leafViolations(ve *jsonschema.ValidationError) []Violation {
	if len(ve.Causes) == 0 {
		return []Violation{{Location: ve.InstanceLocation, Message: ve.Message}}
	}
	var out []Violation
	for _, c := range ve.Causes {
		out = append(out, leafViolations(c)...)
	}
	return out
}

func duplicateViolations(records []plugin.Record) []Violation {
	var out []Violation
	first := make(map[plugin.Reference]int, len(records))
	for i, rec := range records {
		ref := rec.Reference()
		if j, ok := first[ref]; ok {
			out = append(out, Violation{
				Location: fmt.Sprintf("/%d", i),
				Message:  fmt.Sprintf("duplicate plugin %s (first at /%d)", ref, j),
			})
			continue
		}
		first[ref] = i
	}
	return out
}
