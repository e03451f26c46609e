// Package registration holds the validation and state rules of the
// registration form: the eight fixed fields, their validators, the passphrase
// strength tiers, the confirmation summary and the Session that tracks values,
// touched flags and errors while a user edits the form.
//
// Everything here is synchronous and free of I/O. ValidateField, IsValid and
// StrengthFor are pure functions so renderers and tests can call them without
// a Session. A Session is owned by a single writer; callers that share one
// across goroutines must serialise access themselves.
//
// Lifecycle of a Session:
//
//	Editing --OnSubmitted (valid)--> Confirmed --Dismiss--> Editing
package registration
