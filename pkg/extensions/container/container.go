package container

import (
	exterrors "github.com/diwise/entity-extensions/pkg/extensions/errors"
	"github.com/diwise/entity-extensions/pkg/extensions/registry"
	"github.com/diwise/entity-extensions/pkg/extensions/types"
	"github.com/diwise/entity-extensions/pkg/extensions/types/values"
)

// Container is the per entity bag of extension attribute values. It lives
// for the duration of a single fetch and serialize cycle and is owned by
// exactly one entity instance.
type Container struct {
	entityKind string
	registry   *registry.Registry
	values     map[string]types.AttributeValue
}

func New(reg *registry.Registry, entityKind string) *Container {
	return &Container{
		entityKind: entityKind,
		registry:   reg,
		values:     map[string]types.AttributeValue{},
	}
}

func (c *Container) EntityKind() string {
	return c.entityKind
}

func (c *Container) Registry() *registry.Registry {
	return c.registry
}

// Get returns the value stored under the given attribute code, if any.
func (c *Container) Get(code string) (types.AttributeValue, bool) {
	v, ok := c.values[code]
	return v, ok
}

// Set stores a value under the given attribute code after validating its
// shape against the registered descriptor. Validating at write time makes a
// bad write attributable to the mutator that performed it, instead of
// surfacing as a surprise at serialization time. Last write wins.
func (c *Container) Set(code string, value types.AttributeValue) error {
	descriptor, ok := c.registry.Lookup(c.entityKind, code)
	if !ok {
		return exterrors.NewUnknownAttributeError(c.entityKind, code)
	}

	if err := c.validate(descriptor, value); err != nil {
		return err
	}

	c.values[code] = value

	return nil
}

func (c *Container) validate(d types.AttributeDescriptor, value types.AttributeValue) error {
	expected := expectedValueKind(d.Type)

	if value == nil || value.ValueKind() != expected {
		actual := "nothing"
		if value != nil {
			actual = string(value.ValueKind())
		}
		return exterrors.NewTypeMismatchError(d.Code, d.Type.String(), actual)
	}

	// object values must also conform to the declared schema name
	if d.Type.IsObject() {
		schemaName := ""

		switch obj := value.(type) {
		case *values.ObjectValue:
			schemaName = obj.SchemaName()
		case *values.ObjectArrayValue:
			schemaName = obj.SchemaName()
		}

		if schemaName != d.Type.Object {
			return exterrors.NewTypeMismatchError(d.Code, d.Type.String(), schemaName)
		}
	}

	return nil
}

func expectedValueKind(td types.TypeDescriptor) types.ValueKind {
	if td.IsObject() {
		if td.IsArray {
			return types.ValueKindObjectArray
		}
		return types.ValueKindObject
	}

	if td.IsArray {
		return types.ValueKindScalarArray
	}

	return types.ValueKindScalar
}

// Holder is implemented by entities that can carry a container through a
// fetch and serialize cycle. Domain types get it for free by embedding
// Extendable.
type Holder interface {
	AttachExtensions(c *Container)
	Extensions() *Container
}

// Extendable can be embedded by read model types to let the pipeline attach
// extension attributes to their instances.
type Extendable struct {
	extensions *Container
}

func (e *Extendable) AttachExtensions(c *Container) {
	e.extensions = c
}

// Extensions returns the attached container, or nil if none was attached.
func (e *Extendable) Extensions() *Container {
	return e.extensions
}
