package serialize

import (
	"bytes"
	"encoding/json"
	"strconv"
	"unicode"

	"github.com/diwise/entity-extensions/pkg/extensions/container"
	exterrors "github.com/diwise/entity-extensions/pkg/extensions/errors"
	"github.com/diwise/entity-extensions/pkg/extensions/registry"
	"github.com/diwise/entity-extensions/pkg/extensions/types"
	"github.com/diwise/entity-extensions/pkg/extensions/types/values"
)

// Attributes walks the attribute descriptors registered for an entity kind
// and renders the container's values into a JSON ready tree. Attributes that
// were never populated are omitted entirely (absent, not null). The
// container is never mutated.
func Attributes(reg *registry.Registry, entityKind string, attributes *container.Container) (map[string]any, error) {
	out := map[string]any{}

	if attributes == nil {
		return out, nil
	}

	for _, descriptor := range reg.DescriptorsFor(entityKind) {
		value, ok := attributes.Get(descriptor.Code)
		if !ok {
			continue
		}

		rendered, err := render(reg, descriptor.Type, value)
		if err != nil {
			return nil, err
		}

		out[descriptor.Code] = rendered
	}

	return out, nil
}

func render(reg *registry.Registry, td types.TypeDescriptor, value types.AttributeValue) (any, error) {
	if !td.IsObject() {
		if td.IsArray {
			arr, ok := value.(*values.ScalarArrayValue)
			if !ok {
				return nil, exterrors.NewTypeMismatchError("", td.String(), string(value.ValueKind()))
			}

			elements := arr.Elements()
			rendered := make([]any, 0, len(elements))
			for _, element := range elements {
				rendered = append(rendered, coerce(element, td.Scalar))
			}
			return rendered, nil
		}

		return coerce(value.Value(), td.Scalar), nil
	}

	if td.IsArray {
		arr, ok := value.(*values.ObjectArrayValue)
		if !ok {
			return nil, exterrors.NewTypeMismatchError("", td.String(), string(value.ValueKind()))
		}

		items := arr.Items()
		rendered := make([]any, 0, len(items))
		for _, item := range items {
			obj, err := renderObject(reg, td.Object, item)
			if err != nil {
				return nil, err
			}
			rendered = append(rendered, obj)
		}
		return rendered, nil
	}

	obj, ok := value.(*values.ObjectValue)
	if !ok {
		return nil, exterrors.NewTypeMismatchError("", td.String(), string(value.ValueKind()))
	}

	return renderObject(reg, td.Object, obj)
}

func renderObject(reg *registry.Registry, schemaName string, obj *values.ObjectValue) (Object, error) {
	schema, ok := reg.ResolveObjectSchema(schemaName)
	if !ok {
		return Object{}, exterrors.NewSchemaMismatchError(schemaName, "", "schema is not registered")
	}

	fields := make([]Field, 0, len(schema.Fields))

	for _, f := range schema.Fields {
		raw, ok := obj.Field(f.Name)
		if !ok {
			return Object{}, exterrors.NewMissingAccessorError(schemaName, f.Name)
		}

		fields = append(fields, Field{
			Name:  snakeCase(f.Name),
			Value: coerce(raw, f.Kind),
		})
	}

	return Object{fields: fields}, nil
}

// Field is a single named value within a serialized object
type Field struct {
	Name  string
	Value any
}

// Object is a serialized object value that marshals its fields in schema
// declaration order, which encoding/json maps cannot guarantee.
type Object struct {
	fields []Field
}

func (o Object) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')

	for i, f := range o.fields {
		if i > 0 {
			buf.WriteByte(',')
		}

		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')

		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// coerce converts a stored value to the declared scalar kind. A value whose
// runtime type already matches passes through unchanged, numeric looking
// values convert, and a non numeric string assigned to a numeric kind
// collapses to the kind's zero value. The lossy fallback is a documented
// compatibility behaviour, not an error.
func coerce(raw any, kind types.ScalarKind) any {
	switch kind {
	case types.KindString:
		switch v := raw.(type) {
		case string:
			return v
		case bool:
			return strconv.FormatBool(v)
		case int:
			return strconv.FormatInt(int64(v), 10)
		case int64:
			return strconv.FormatInt(v, 10)
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
		return ""
	case types.KindInt:
		switch v := raw.(type) {
		case int:
			return int64(v)
		case int32:
			return int64(v)
		case int64:
			return v
		case float64:
			return int64(v)
		case bool:
			if v {
				return int64(1)
			}
			return int64(0)
		case string:
			if i, err := strconv.ParseInt(v, 10, 64); err == nil {
				return i
			}
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return int64(f)
			}
		}
		return int64(0)
	case types.KindFloat:
		switch v := raw.(type) {
		case float64:
			return v
		case float32:
			return float64(v)
		case int:
			return float64(v)
		case int64:
			return float64(v)
		case bool:
			if v {
				return float64(1)
			}
			return float64(0)
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return float64(0)
	case types.KindBool:
		switch v := raw.(type) {
		case bool:
			return v
		case int:
			return v != 0
		case int64:
			return v != 0
		case float64:
			return v != 0
		case string:
			if b, err := strconv.ParseBool(v); err == nil {
				return b
			}
		}
		return false
	}

	return raw
}

func snakeCase(name string) string {
	out := make([]rune, 0, len(name)+4)

	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				out = append(out, '_')
			}
			r = unicode.ToLower(r)
		}
		out = append(out, r)
	}

	return string(out)
}
