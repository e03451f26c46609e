// Package model defines the typed form description consumed by renderers.
// A FormModel carries the ordered fields of the registration form together
// with their labels, placeholders, hints and descriptive validation rules.
// Validation rules are informational: renderers map them onto HTML
// attributes, while the authoritative checks live in pkg/registration.
// Renderer-facing directives travel in Metadata under the keys declared in
// this package (input mode, row grouping, max length) so renderers never
// parse raw schema extensions.
package model
