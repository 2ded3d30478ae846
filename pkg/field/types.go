// ABOUTME: Typed field model for game metadata
// ABOUTME: Defines the Kind enumeration and the immutable Field value

package field

import (
	"encoding/json"
	"fmt"
)

// Kind is the validation category of a field
type Kind int

const (
	LineText Kind = iota
	MultilineText
	Integer
	Float
	Bool
	Range
	Date
	File
	Alphanumeric
)

var kindNames = [...]string{
	LineText:      "LineText",
	MultilineText: "MultilineText",
	Integer:       "Integer",
	Float:         "Float",
	Bool:          "Bool",
	Range:         "Range",
	Date:          "Date",
	File:          "File",
	Alphanumeric:  "Alphanumeric",
}

// Kinds returns every kind in declaration order
func Kinds() []Kind {
	return []Kind{LineText, MultilineText, Integer, Float, Bool, Range, Date, File, Alphanumeric}
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a kind name back to its Kind
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return LineText, fmt.Errorf("unknown field kind: %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Field is one named, typed and validated attribute of a game.
// A Field never changes once built; edits construct a replacement.
type Field struct {
	name        string
	value       string
	editable    bool
	kind        Kind
	formatError string
}

// New validates raw against kind and returns the resulting Field.
// An invalid raw value yields an empty value and a populated FormatError.
func New(name, raw string, kind Kind, editable bool) Field {
	f := Field{
		name:     name,
		value:    raw,
		editable: editable,
		kind:     kind,
	}
	if msg := validate(kind, raw); msg != "" {
		f.value = ""
		f.formatError = msg
	}
	return f
}

func (f Field) Name() string        { return f.name }
func (f Field) Value() string       { return f.value }
func (f Field) Editable() bool      { return f.editable }
func (f Field) Kind() Kind          { return f.kind }
func (f Field) FormatError() string { return f.formatError }

// Valid reports whether the raw value passed validation
func (f Field) Valid() bool {
	return f.formatError == ""
}

type fieldJSON struct {
	Name               string `json:"name"`
	Value              string `json:"value"`
	Editable           bool   `json:"editable"`
	FieldType          Kind   `json:"field_type"`
	FormatErrorMessage string `json:"format_error_message"`
}

// MarshalJSON renders the transport form consumed by UI callers
func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(fieldJSON{
		Name:               f.name,
		Value:              f.value,
		Editable:           f.editable,
		FieldType:          f.kind,
		FormatErrorMessage: f.formatError,
	})
}
