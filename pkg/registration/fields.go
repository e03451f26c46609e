package registration

import "strings"

// Field identifies one of the fixed registration inputs. The string value is
// the identifier used by the rendered form and the HTTP surface.
type Field string

const (
	FieldFatherName         Field = "namaBapak"
	FieldMotherName         Field = "namaIbu"
	FieldYoungerSiblingName Field = "namaAdik"
	FieldOlderSiblingName   Field = "namaKakak"
	FieldNIK                Field = "nik"
	FieldEmail              Field = "email"
	FieldOwnName            Field = "namaKamu"
	FieldPassphrase         Field = "kataSandi"
)

var orderedFields = [...]Field{
	FieldFatherName,
	FieldMotherName,
	FieldYoungerSiblingName,
	FieldOlderSiblingName,
	FieldNIK,
	FieldEmail,
	FieldOwnName,
	FieldPassphrase,
}

var fieldLabels = map[Field]string{
	FieldFatherName:         "Nama Bapak",
	FieldMotherName:         "Nama Ibu",
	FieldYoungerSiblingName: "Nama Adik",
	FieldOlderSiblingName:   "Nama Kakak",
	FieldNIK:                "NIK",
	FieldEmail:              "Email",
	FieldOwnName:            "Nama Kamu",
	FieldPassphrase:         "Kata Sandi",
}

// Fields returns the registration fields in render order. The returned slice
// is a fresh copy.
func Fields() []Field {
	out := make([]Field, len(orderedFields))
	copy(out, orderedFields[:])
	return out
}

// ParseField resolves a raw identifier (surrounding whitespace ignored).
func ParseField(name string) (Field, bool) {
	field := Field(strings.TrimSpace(name))
	if !field.Known() {
		return "", false
	}
	return field, true
}

// Known reports whether f is one of the fixed registration fields.
func (f Field) Known() bool {
	_, ok := fieldLabels[f]
	return ok
}

// Label returns the display label, or the raw identifier for unknown fields.
func (f Field) Label() string {
	if label, ok := fieldLabels[f]; ok {
		return label
	}
	return string(f)
}

func (f Field) String() string {
	return string(f)
}

// Values maps each field to its current string value.
type Values map[Field]string

// NewValues returns a Values map with every field set to "".
func NewValues() Values {
	values := make(Values, len(orderedFields))
	for _, field := range orderedFields {
		values[field] = ""
	}
	return values
}

// Clone returns an independent copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for field, value := range v {
		out[field] = value
	}
	return out
}

// FieldErrors maps a field to its current validation message. A missing key
// means the field is valid (or has not been validated yet).
type FieldErrors map[Field]string

// Touched records which fields lost focus at least once.
type Touched map[Field]bool
