package readmodel

import (
	"fmt"
	"io"
	"strings"

	"github.com/diwise/entity-extensions/pkg/extensions/registry"
	"github.com/diwise/entity-extensions/pkg/extensions/types"
	yaml "gopkg.in/yaml.v2"
)

type FieldDeclaration struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
}

type SchemaDeclaration struct {
	Name   string             `yaml:"name"`
	Fields []FieldDeclaration `yaml:"fields"`
}

type AttributeDeclaration struct {
	EntityKind string `yaml:"entityKind"`
	Code       string `yaml:"code"`
	Kind       string `yaml:"kind"`
}

// Declarations is the static, human authored list of object type schemas and
// attribute declarations that populates the type registry at startup.
type Declarations struct {
	Schemas    []SchemaDeclaration    `yaml:"schemas"`
	Attributes []AttributeDeclaration `yaml:"attributes"`
}

func LoadDeclarations(data io.Reader) (*Declarations, error) {

	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	declarations := &Declarations{}
	err = yaml.Unmarshal(buf, &declarations)

	return declarations, err
}

// RegisterDeclarations materializes the declarations into the registry.
// Schemas are registered before attributes so that object typed attributes
// can refer to any declared schema regardless of document order.
func RegisterDeclarations(reg *registry.Registry, declarations *Declarations) error {
	for _, s := range declarations.Schemas {
		schema := types.ObjectTypeSchema{
			Name:   s.Name,
			Fields: make([]types.FieldDescriptor, 0, len(s.Fields)),
		}

		for _, f := range s.Fields {
			kind := types.ScalarKind(f.Kind)
			if !kind.IsValid() {
				return fmt.Errorf("field \"%s\" of schema \"%s\" declares unknown kind \"%s\"", f.Name, s.Name, f.Kind)
			}

			schema.Fields = append(schema.Fields, types.FieldDescriptor{Name: f.Name, Kind: kind})
		}

		if err := reg.RegisterObjectSchema(schema); err != nil {
			return err
		}
	}

	for _, a := range declarations.Attributes {
		descriptor, err := parseKindExpression(a.Kind)
		if err != nil {
			return fmt.Errorf("attribute \"%s\" of entity kind \"%s\": %w", a.Code, a.EntityKind, err)
		}

		if descriptor.IsObject() {
			if _, ok := reg.ResolveObjectSchema(descriptor.Object); !ok {
				return fmt.Errorf("attribute \"%s\" of entity kind \"%s\" refers to undeclared schema \"%s\"", a.Code, a.EntityKind, descriptor.Object)
			}
		}

		err = reg.Register(types.AttributeDescriptor{
			EntityKind: a.EntityKind,
			Code:       a.Code,
			Type:       descriptor,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// parseKindExpression turns a declared kind such as "int", "[]string",
// "GiftMessage" or "[]GiftMessage" into a type descriptor.
func parseKindExpression(expr string) (types.TypeDescriptor, error) {
	isArray := strings.HasPrefix(expr, "[]")
	name := strings.TrimPrefix(expr, "[]")

	if name == "" {
		return types.TypeDescriptor{}, fmt.Errorf("empty kind expression")
	}

	if kind := types.ScalarKind(name); kind.IsValid() {
		if isArray {
			return types.ArrayOfScalar(kind), nil
		}
		return types.Scalar(kind), nil
	}

	if isArray {
		return types.ArrayOfObject(name), nil
	}

	return types.Object(name), nil
}
