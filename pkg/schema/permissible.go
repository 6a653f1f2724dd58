package schema

// PermissibleValue is one allowed value of an enumeration. The source model
// allows either a bare string or a structured record with a description and
// a meaning URI; both variants are represented here behind a single Text
// accessor so consumers never branch on the representation.
type PermissibleValue struct {
	text        string
	description string
	meaning     string
	structured  bool
}

// SimpleValue builds a bare-string permissible value.
func SimpleValue(text string) PermissibleValue {
	return PermissibleValue{text: text}
}

// StructuredValue builds a permissible value carrying a description and a
// meaning URI alongside its text.
func StructuredValue(text, description, meaning string) PermissibleValue {
	return PermissibleValue{
		text:        text,
		description: description,
		meaning:     meaning,
		structured:  true,
	}
}

// Text returns the value's text, the only part that matters for validation.
func (v PermissibleValue) Text() string { return v.text }

// Description returns the description of a structured value, or "".
func (v PermissibleValue) Description() string { return v.description }

// Meaning returns the meaning URI of a structured value, or "".
func (v PermissibleValue) Meaning() string { return v.meaning }

// Structured reports whether the value carries more than bare text.
func (v PermissibleValue) Structured() bool { return v.structured }
