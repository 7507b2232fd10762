package summarize

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// UnknownValue is the rendered value for fields that are missing or
// malformed. Summarization never fails on object shape; it degrades to this.
const UnknownValue = "Unknown"

// Field is the result of extracting a single value from a cluster object.
// A missing or malformed field is represented explicitly rather than raised
// as an error.
type Field struct {
	Value string
	Known bool
}

// String renders the field, substituting UnknownValue when the field was not
// extractable.
func (f Field) String() string {
	if !f.Known {
		return UnknownValue
	}
	return f.Value
}

// Is reports whether the field is known and equal to want.
func (f Field) Is(want string) bool {
	return f.Known && f.Value == want
}

// stringField extracts a nested string field from an unstructured object.
// Any shape mismatch along the path yields an unknown Field.
func stringField(obj *unstructured.Unstructured, path ...string) Field {
	if obj == nil {
		return Field{}
	}
	value, found, err := unstructured.NestedString(obj.Object, path...)
	if err != nil || !found || value == "" {
		return Field{}
	}
	return Field{Value: value, Known: true}
}
