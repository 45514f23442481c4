package a2anet

import (
	"encoding/json"
	"reflect"
	"strings"
)

// SchemaBuilder constructs JSON Schema objects from Go structs. Create one
// with SchemaFrom and refine it with Desc, Required, and Enum before Build.
type SchemaBuilder struct {
	properties map[string]*schemaProperty
	required   []string
}

type schemaProperty struct {
	Type        string                     `json:"type"`
	Description string                     `json:"description,omitempty"`
	Enum        []string                   `json:"enum,omitempty"`
	Items       *schemaProperty            `json:"items,omitempty"`
	Properties  map[string]*schemaProperty `json:"properties,omitempty"`
	Required    []string                   `json:"required,omitempty"`
}

// SchemaFrom creates a SchemaBuilder by reflecting on the struct type T.
// Property names come from json tags; Go types map to JSON Schema types.
func SchemaFrom[T any]() *SchemaBuilder {
	var zero T
	t := reflect.TypeOf(zero)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	sb := &SchemaBuilder{properties: make(map[string]*schemaProperty)}
	if t == nil || t.Kind() != reflect.Struct {
		return sb
	}
	sb.properties = structProperties(t)
	return sb
}

func structProperties(t reflect.Type) map[string]*schemaProperty {
	props := make(map[string]*schemaProperty)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		if name == "" {
			name = field.Name
		}
		props[name] = propertyFor(field.Type)
	}
	return props
}

func propertyFor(t reflect.Type) *schemaProperty {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return &schemaProperty{Type: "string"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &schemaProperty{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &schemaProperty{Type: "number"}
	case reflect.Bool:
		return &schemaProperty{Type: "boolean"}
	case reflect.Slice, reflect.Array:
		return &schemaProperty{Type: "array", Items: propertyFor(t.Elem())}
	case reflect.Struct:
		props := structProperties(t)
		return &schemaProperty{Type: "object", Properties: props}
	case reflect.Map:
		return &schemaProperty{Type: "object"}
	default:
		return &schemaProperty{Type: "string"}
	}
}

// Desc sets the description for a property.
func (s *SchemaBuilder) Desc(field, description string) *SchemaBuilder {
	if prop, ok := s.properties[field]; ok {
		prop.Description = description
	}
	return s
}

// Required marks properties as required.
func (s *SchemaBuilder) Required(fields ...string) *SchemaBuilder {
	for _, field := range fields {
		if _, ok := s.properties[field]; !ok {
			continue
		}
		exists := false
		for _, r := range s.required {
			if r == field {
				exists = true
				break
			}
		}
		if !exists {
			s.required = append(s.required, field)
		}
	}
	return s
}

// Enum restricts a string property to the given values.
func (s *SchemaBuilder) Enum(field string, values ...string) *SchemaBuilder {
	if prop, ok := s.properties[field]; ok {
		prop.Enum = values
	}
	return s
}

// Build marshals the schema.
func (s *SchemaBuilder) Build() json.RawMessage {
	root := &schemaProperty{
		Type:       "object",
		Properties: s.properties,
		Required:   s.required,
	}
	if root.Properties == nil {
		root.Properties = map[string]*schemaProperty{}
	}
	data, err := json.Marshal(root)
	if err != nil {
		return json.RawMessage(`{"type":"object"}`)
	}
	return data
}
