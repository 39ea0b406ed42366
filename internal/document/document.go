// Package document loads repository YAML documents.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Kind classifies a load failure.
type Kind int

const (
	// KindIO is any read failure other than a missing file.
	KindIO Kind = iota
	// KindNotFound means the path does not exist.
	KindNotFound
	// KindParse means the content is not a well-formed document.
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindParse:
		return "parse error"
	default:
		return "io error"
	}
}

// ErrNotFound matches load errors of KindNotFound with errors.Is.
var ErrNotFound = errors.New("document not found")

// LoadError describes why a document could not be loaded.
type LoadError struct {
	Path string
	Kind Kind
	Err  error
}

func (e *LoadError) Error() string {
	switch e.Kind {
	case KindParse:
		return fmt.Sprintf("%s: parse error: %v", e.Path, e.Err)
	case KindNotFound:
		return fmt.Sprintf("%s: not found", e.Path)
	default:
		return fmt.Sprintf("read %s: %v", e.Path, e.Err)
	}
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool {
	return target == ErrNotFound && e.Kind == KindNotFound
}

// Document is a parsed YAML document.
type Document struct {
	Path  string
	root  yaml.Node
	value any
}

// Load reads path from fsys and parses it.
func Load(fsys afero.Fs, path string) (*Document, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Path: path, Kind: KindNotFound, Err: err}
		}
		return nil, &LoadError{Path: path, Kind: KindIO, Err: err}
	}
	return Parse(path, data)
}

// Parse parses data as the document stored at path. Only the first YAML
// document of a stream is read.
func Parse(path string, data []byte) (*Document, error) {
	doc := &Document{Path: path}
	if err := yaml.Unmarshal(data, &doc.root); err != nil {
		return nil, parseError(path, err)
	}
	if doc.root.Kind == 0 {
		return nil, parseError(path, errors.New("empty document"))
	}

	var raw any
	if err := doc.root.Decode(&raw); err != nil {
		return nil, parseError(path, err)
	}
	value, err := jsonValue(raw)
	if err != nil {
		return nil, parseError(path, err)
	}
	doc.value = value
	return doc, nil
}

// Value returns the document in the JSON data model: maps with string keys,
// slices, strings, bools, nil and json.Number.
func (d *Document) Value() any {
	return d.value
}

// Decode decodes the document into v using yaml struct tags.
func (d *Document) Decode(v any) error {
	if err := d.root.Decode(v); err != nil {
		return parseError(d.Path, err)
	}
	return nil
}

// jsonValue converts a decoded YAML value into the JSON data model. Mappings
// with non-string keys and non-finite numbers are rejected. Unquoted
// timestamps become RFC 3339 strings, so they satisfy "type": "string".
func jsonValue(raw any) (any, error) {
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("not representable as JSON: %w", err)
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(b))
}

func parseError(path string, err error) *LoadError {
	return &LoadError{Path: path, Kind: KindParse, Err: err}
}
