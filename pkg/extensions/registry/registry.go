package registry

import (
	"fmt"

	exterrors "github.com/diwise/entity-extensions/pkg/extensions/errors"
	"github.com/diwise/entity-extensions/pkg/extensions/types"
)

// Registry is the static table of attribute descriptors and object type
// schemas. It is populated during process initialization and read only
// afterwards, so concurrent readers need no synchronization.
type Registry struct {
	attributes map[string]types.AttributeDescriptor
	order      map[string][]string
	schemas    map[string]types.ObjectTypeSchema
}

func New() *Registry {
	return &Registry{
		attributes: map[string]types.AttributeDescriptor{},
		order:      map[string][]string{},
		schemas:    map[string]types.ObjectTypeSchema{},
	}
}

func attributeKey(entityKind, code string) string {
	return entityKind + "/" + code
}

// Register adds an attribute descriptor to the registry. The (entityKind,
// code) pair must be unique.
func (r *Registry) Register(d types.AttributeDescriptor) error {
	if d.EntityKind == "" || d.Code == "" {
		return fmt.Errorf("attribute descriptors require both an entity kind and a code")
	}

	if !d.Type.IsValid() {
		return fmt.Errorf("attribute \"%s\" has an invalid type descriptor", d.Code)
	}

	key := attributeKey(d.EntityKind, d.Code)
	if _, exists := r.attributes[key]; exists {
		return exterrors.NewDuplicateAttributeError(d.EntityKind, d.Code)
	}

	r.attributes[key] = d
	r.order[d.EntityKind] = append(r.order[d.EntityKind], d.Code)

	return nil
}

// Lookup returns the descriptor registered for the given entity kind and
// attribute code, if any.
func (r *Registry) Lookup(entityKind, code string) (types.AttributeDescriptor, bool) {
	d, ok := r.attributes[attributeKey(entityKind, code)]
	return d, ok
}

// DescriptorsFor returns all descriptors registered for an entity kind, in
// registration order.
func (r *Registry) DescriptorsFor(entityKind string) []types.AttributeDescriptor {
	codes := r.order[entityKind]

	descriptors := make([]types.AttributeDescriptor, 0, len(codes))
	for _, code := range codes {
		descriptors = append(descriptors, r.attributes[attributeKey(entityKind, code)])
	}

	return descriptors
}

// RegisterObjectSchema adds a named object type schema. Schema names must be
// unique and every field must be of a valid scalar kind.
func (r *Registry) RegisterObjectSchema(s types.ObjectTypeSchema) error {
	if s.Name == "" {
		return fmt.Errorf("object type schemas require a name")
	}

	if _, exists := r.schemas[s.Name]; exists {
		return exterrors.NewDuplicateSchemaError(s.Name)
	}

	seen := map[string]struct{}{}

	for _, f := range s.Fields {
		if !f.Kind.IsValid() {
			return fmt.Errorf("field \"%s\" of schema \"%s\" has invalid kind \"%s\"", f.Name, s.Name, f.Kind)
		}

		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("schema \"%s\" declares field \"%s\" more than once", s.Name, f.Name)
		}
		seen[f.Name] = struct{}{}
	}

	r.schemas[s.Name] = s

	return nil
}

// ResolveObjectSchema returns the schema registered under the given name,
// if any.
func (r *Registry) ResolveObjectSchema(name string) (types.ObjectTypeSchema, bool) {
	s, ok := r.schemas[name]
	return s, ok
}
