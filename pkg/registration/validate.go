package registration

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// NIKLength is the exact number of digits of a national ID.
	NIKLength = 16
	// PassphraseMinLength is the minimum passphrase length in characters.
	PassphraseMinLength = 100
)

// Validation messages. The passphrase length message is built by
// passphraseTooShort because it carries the live count.
const (
	MsgFatherNameRequired         = "Nama Bapak wajib diisi"
	MsgMotherNameRequired         = "Nama Ibu wajib diisi"
	MsgYoungerSiblingNameRequired = "Nama Adik wajib diisi"
	MsgOlderSiblingNameRequired   = "Nama Kakak wajib diisi"
	MsgNIKRequired                = "NIK wajib diisi"
	MsgNIKNumeric                 = "NIK harus berupa angka"
	MsgNIKLength                  = "NIK harus tepat 16 digit"
	MsgEmailRequired              = "Email wajib diisi"
	MsgEmailFormat                = "Format email tidak valid"
	MsgOwnNameRequired            = "Nama Kamu wajib diisi"
	MsgPassphraseRequired         = "Kata Sandi wajib diisi"
)

// local@domain.tld with no whitespace anywhere; \p{Z} covers the unicode
// separators that \s misses under RE2.
var emailPattern = regexp.MustCompile(`^[^\s\p{Z}@]+@[^\s\p{Z}@]+\.[^\s\p{Z}@]+$`)

var requiredMessages = map[Field]string{
	FieldFatherName:         MsgFatherNameRequired,
	FieldMotherName:         MsgMotherNameRequired,
	FieldYoungerSiblingName: MsgYoungerSiblingNameRequired,
	FieldOlderSiblingName:   MsgOlderSiblingNameRequired,
	FieldOwnName:            MsgOwnNameRequired,
}

// ValidateField returns the validation message for value in field, or "" when
// the value is acceptable. Unknown fields always validate.
func ValidateField(field Field, value string) string {
	switch field {
	case FieldNIK:
		return validateNIK(value)
	case FieldEmail:
		return validateEmail(value)
	case FieldPassphrase:
		return validatePassphrase(value)
	}
	if msg, ok := requiredMessages[field]; ok {
		if isBlank(value) {
			return msg
		}
	}
	return ""
}

// Validate returns the messages of every invalid field in values. Fields
// missing from values are validated as "".
func Validate(values Values) FieldErrors {
	errs := make(FieldErrors)
	for _, field := range orderedFields {
		if msg := ValidateField(field, values[field]); msg != "" {
			errs[field] = msg
		}
	}
	return errs
}

// IsValid reports whether every field is filled in and passes validation.
func IsValid(values Values) bool {
	for _, field := range orderedFields {
		value := values[field]
		if isBlank(value) {
			return false
		}
		if ValidateField(field, value) != "" {
			return false
		}
	}
	return true
}

// AcceptsInput reports whether value may replace a field's current value at
// input time. The NIK field only takes digits, at most NIKLength of them;
// every other field accepts anything.
func AcceptsInput(field Field, value string) bool {
	if field != FieldNIK {
		return true
	}
	return isDigits(value) && len(value) <= NIKLength
}

func validateNIK(value string) string {
	if isBlank(value) {
		return MsgNIKRequired
	}
	if !isDigits(value) {
		return MsgNIKNumeric
	}
	if len(value) != NIKLength {
		return MsgNIKLength
	}
	return ""
}

func validateEmail(value string) string {
	if isBlank(value) {
		return MsgEmailRequired
	}
	if !emailPattern.MatchString(value) {
		return MsgEmailFormat
	}
	return ""
}

func validatePassphrase(value string) string {
	if value == "" {
		return MsgPassphraseRequired
	}
	if n := utf8.RuneCountInString(value); n < PassphraseMinLength {
		return passphraseTooShort(n)
	}
	return ""
}

// PassphraseRemaining returns how many more characters value needs to reach
// PassphraseMinLength, 0 once it is long enough.
func PassphraseRemaining(value string) int {
	if n := utf8.RuneCountInString(value); n < PassphraseMinLength {
		return PassphraseMinLength - n
	}
	return 0
}

func passphraseTooShort(n int) string {
	return fmt.Sprintf("Kata Sandi minimal %d karakter (%d/%d)", PassphraseMinLength, n, PassphraseMinLength)
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

// isDigits reports whether value holds only ASCII digits. The empty string
// counts as digits.
func isDigits(value string) bool {
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}
