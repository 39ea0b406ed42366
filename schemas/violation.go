package schemas

import (
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// Violation is a single schema violation reported by the validation engine.
type Violation struct {
	// Location is the JSON pointer of the offending value, "/" for the document root.
	Location string
	Message  string
}

func (v Violation) String() string {
	return fmt.Sprintf("at '%s': %s", v.Location, v.Message)
}

// ViolationError is returned by Set.Validate for documents that do not
// conform to their schema.
type ViolationError struct {
	Ref        Ref
	Violations []Violation
	err        error
}

func (e *ViolationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "does not conform to %s schema", e.Ref)
	for _, v := range e.Violations {
		b.WriteString("\n  ")
		b.WriteString(v.String())
	}
	return b.String()
}

func (e *ViolationError) Unwrap() error { return e.err }

// violations flattens the detailed output of the engine into its leaf errors,
// keeping the engine's order.
func violations(ve *jsonschema.ValidationError) []Violation {
	var out []Violation
	var walk func(u *jsonschema.OutputUnit)
	walk = func(u *jsonschema.OutputUnit) {
		if len(u.Errors) == 0 {
			if u.Error != nil {
				out = append(out, Violation{
					Location: instanceLocation(u.InstanceLocation),
					Message:  u.Error.String(),
				})
			}
			return
		}
		for i := range u.Errors {
			walk(&u.Errors[i])
		}
	}
	walk(ve.DetailedOutput())
	if len(out) == 0 {
		out = append(out, Violation{Location: "/", Message: ve.Error()})
	}
	return out
}

func instanceLocation(ptr string) string {
	if ptr == "" {
		return "/"
	}
	return ptr
}
