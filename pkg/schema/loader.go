// Package schema builds the registration FormModel from an OpenAPI 3
// document. The default document is embedded; callers may supply their own
// copy (for relabelled or translated forms) as long as it declares the same
// eight fields.
package schema

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-regform/pkg/model"
	"github.com/goliatone/go-regform/pkg/registration"
)

//go:embed registration.openapi.yaml
var embeddedDocument []byte

const (
	// ComponentName is the component schema describing the form.
	ComponentName = "Registration"

	extensionNamespace = "x-formgen"
)

// Document returns a copy of the embedded OpenAPI document.
func Document() []byte {
	return append([]byte(nil), embeddedDocument...)
}

// Default loads the embedded document.
func Default(ctx context.Context) (model.FormModel, error) {
	return Load(ctx, embeddedDocument)
}

// Load parses an OpenAPI document (JSON or YAML) and converts its
// Registration component into a FormModel ordered by x-formgen.order. Each of
// the eight registration fields must be declared exactly once.
func Load(ctx context.Context, data []byte) (model.FormModel, error) {
	if err := ctx.Err(); err != nil {
		return model.FormModel{}, err
	}
	if len(data) == 0 {
		return model.FormModel{}, errors.New("schema: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return model.FormModel{}, fmt.Errorf("schema: load document: %w", err)
	}
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return model.FormModel{}, errors.New("schema: document has no component schemas")
	}

	ref, ok := doc.Components.Schemas[ComponentName]
	if !ok || ref == nil || ref.Value == nil {
		return model.FormModel{}, fmt.Errorf("schema: component %q not found", ComponentName)
	}
	return buildForm(ref.Value)
}

type orderedField struct {
	order int
	field model.Field
}

func buildForm(src *openapi3.Schema) (model.FormModel, error) {
	formExt := extensionMap(src.Extensions)
	form := model.FormModel{
		ID:       stringOr(formExt["formId"], "registration"),
		Title:    stringOr(formExt["title"], src.Title),
		Subtitle: stringOr(formExt["subtitle"], src.Description),
	}

	required := make(map[string]struct{}, len(src.Required))
	for _, name := range src.Required {
		required[name] = struct{}{}
	}

	fields := make([]orderedField, 0, len(src.Properties))
	seenOrder := make(map[int]string, len(src.Properties))
	for name, prop := range src.Properties {
		if _, ok := registration.ParseField(name); !ok {
			return model.FormModel{}, fmt.Errorf("schema: unknown field %q", name)
		}
		if prop == nil || prop.Value == nil {
			return model.FormModel{}, fmt.Errorf("schema: field %q has no schema", name)
		}
		_, isRequired := required[name]
		entry, err := convertField(name, prop.Value, isRequired)
		if err != nil {
			return model.FormModel{}, err
		}
		if other, dup := seenOrder[entry.order]; dup {
			return model.FormModel{}, fmt.Errorf("schema: fields %q and %q share order %d", other, name, entry.order)
		}
		seenOrder[entry.order] = name
		fields = append(fields, entry)
	}

	for _, name := range registration.Fields() {
		if _, ok := src.Properties[name.String()]; !ok {
			return model.FormModel{}, fmt.Errorf("schema: missing field %q", name.String())
		}
	}

	sort.Slice(fields, func(i, j int) bool {
		return fields[i].order < fields[j].order
	})

	form.Fields = make([]model.Field, 0, len(fields))
	for _, entry := range fields {
		form.Fields = append(form.Fields, entry.field)
	}
	return form, nil
}

func convertField(name string, src *openapi3.Schema, required bool) (orderedField, error) {
	ext := extensionMap(src.Extensions)
	order, ok := intValue(ext["order"])
	if !ok {
		return orderedField{}, fmt.Errorf("schema: field %q is missing %s.order", name, extensionNamespace)
	}

	field := model.Field{
		Name:        name,
		Type:        fieldType(src.Type),
		Format:      src.Format,
		Required:    required,
		Label:       stringOr(ext["label"], registration.Field(name).Label()),
		Placeholder: stringOr(ext["placeholder"], ""),
		Description: src.Description,
	}

	if required {
		field.Validations = append(field.Validations, model.ValidationRule{Kind: model.ValidationRuleRequired})
	}
	if src.MinLength > 0 {
		field.Validations = append(field.Validations, model.ValidationRule{
			Kind:   model.ValidationRuleMinLength,
			Params: map[string]string{"value": strconv.FormatUint(src.MinLength, 10)},
		})
	}
	if src.MaxLength != nil {
		field.Validations = append(field.Validations, model.ValidationRule{
			Kind:   model.ValidationRuleMaxLength,
			Params: map[string]string{"value": strconv.FormatUint(*src.MaxLength, 10)},
		})
	}
	if src.Pattern != "" {
		field.Validations = append(field.Validations, model.ValidationRule{
			Kind:   model.ValidationRulePattern,
			Params: map[string]string{"pattern": src.Pattern},
		})
	}

	metadata := make(map[string]string)
	for key, target := range map[string]string{
		"hint":      model.MetadataHint,
		"inputmode": model.MetadataInputMode,
		"row":       model.MetadataRow,
		"counter":   model.MetadataCounter,
	} {
		if value := stringOr(ext[key], ""); value != "" {
			metadata[target] = value
		}
	}
	if len(metadata) > 0 {
		field.Metadata = metadata
	}

	return orderedField{order: order, field: field}, nil
}

func fieldType(types *openapi3.Types) model.FieldType {
	if types == nil {
		return model.FieldTypeString
	}
	switch {
	case types.Is("integer"):
		return model.FieldTypeInteger
	case types.Is("boolean"):
		return model.FieldTypeBoolean
	default:
		return model.FieldTypeString
	}
}

func extensionMap(raw map[string]any) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	mapped, ok := raw[extensionNamespace].(map[string]any)
	if !ok {
		return nil
	}
	return mapped
}

func stringOr(value any, fallback string) string {
	switch v := value.(type) {
	case string:
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	}
	return fallback
}

func intValue(value any) (int, bool) {
	switch v := value.(type) {
	case float64:
		return int(v), v == float64(int(v))
	case int:
		return v, true
	case int64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	default:
		return 0, false
	}
}
