// Package schemas embeds the Device Repository JSON Schemas and compiles the
// validators used to check repository documents.
package schemas

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	jsonc "github.com/muhammadmuzzammil1998/jsonc"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed *.schema.jsonc draft/*.schema.jsonc
var schemaFS embed.FS

const (
	deviceRepositoryURL = "https://schema.thethings.network/devicerepository/1/schema"
	draftDevicesURL     = "https://lorawan-schema.org/draft/devices/1/schema"
)

// resources maps schema file paths to the URL they are registered under.
// The URL must match the document's $id.
var resources = []struct {
	path string
	url  string
}{
	{path: "devicerepository.schema.jsonc", url: deviceRepositoryURL},
	{path: "draft/devices.schema.jsonc", url: draftDevicesURL},
}

// Ref identifies one of the schema definitions repository documents are
// validated against.
type Ref int

const (
	Vendors Ref = iota
	Vendor
	EndDevice
	EndDeviceProfile
)

// Refs lists every schema reference in traversal order.
var Refs = []Ref{Vendors, Vendor, EndDevice, EndDeviceProfile}

func (r Ref) String() string {
	switch r {
	case Vendors:
		return "vendors"
	case Vendor:
		return "vendor"
	case EndDevice:
		return "endDevice"
	case EndDeviceProfile:
		return "endDeviceProfile"
	}
	return fmt.Sprintf("Ref(%d)", int(r))
}

// URL returns the absolute schema location of the definition.
func (r Ref) URL() string {
	switch r {
	case Vendors, Vendor:
		return deviceRepositoryURL + "#/definitions/" + r.String()
	case EndDevice, EndDeviceProfile:
		return draftDevicesURL + "#/definitions/" + r.String()
	}
	return ""
}

// Set holds the compiled validators for every Ref.
type Set struct {
	validators map[Ref]*jsonschema.Schema
}

// NewSet compiles the embedded schemas.
func NewSet() (*Set, error) {
	return NewSetFS(schemaFS)
}

// NewSetFS compiles schemas read from fsys. The files must be laid out like
// the embedded ones.
func NewSetFS(fsys fs.FS) (*Set, error) {
	c := jsonschema.NewCompiler()
	c.DefaultDraft(jsonschema.Draft7)
	for _, res := range resources {
		data, err := fs.ReadFile(fsys, res.path)
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", res.path, err)
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonc.ToJSON(data)))
		if err != nil {
			return nil, fmt.Errorf("decode schema %s: %w", res.path, err)
		}
		if err := c.AddResource(res.url, doc); err != nil {
			return nil, fmt.Errorf("register schema %s: %w", res.path, err)
		}
	}

	set := &Set{validators: make(map[Ref]*jsonschema.Schema, len(Refs))}
	for _, ref := range Refs {
		s, err := c.Compile(ref.URL())
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", ref, err)
		}
		set.validators[ref] = s
	}
	return set, nil
}

// Validate checks a decoded document against the schema identified by ref.
// Documents that do not conform yield a *ViolationError.
func (s *Set) Validate(ref Ref, instance any) error {
	schema, ok := s.validators[ref]
	if !ok {
		return fmt.Errorf("unknown schema %s", ref)
	}
	err := schema.Validate(instance)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("validate against %s: %w", ref, err)
	}
	return &ViolationError{
		Ref:        ref,
		Violations: violations(ve),
		err:        ve,
	}
}
