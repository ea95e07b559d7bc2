package types

// ScalarKind enumerates the primitive kinds an extension attribute,
// or a field within an object valued attribute, may be declared as.
type ScalarKind string

const (
	KindBool   ScalarKind = "bool"
	KindInt    ScalarKind = "int"
	KindFloat  ScalarKind = "float"
	KindString ScalarKind = "string"
)

func (k ScalarKind) IsValid() bool {
	return k == KindBool || k == KindInt || k == KindFloat || k == KindString
}

// TypeDescriptor describes the declared shape of an extension attribute:
// a scalar, an array of scalars, a named object type, or an array of objects.
type TypeDescriptor struct {
	Scalar  ScalarKind
	Object  string
	IsArray bool
}

func Scalar(kind ScalarKind) TypeDescriptor {
	return TypeDescriptor{Scalar: kind}
}

func ArrayOfScalar(kind ScalarKind) TypeDescriptor {
	return TypeDescriptor{Scalar: kind, IsArray: true}
}

func Object(schemaName string) TypeDescriptor {
	return TypeDescriptor{Object: schemaName}
}

func ArrayOfObject(schemaName string) TypeDescriptor {
	return TypeDescriptor{Object: schemaName, IsArray: true}
}

func (td TypeDescriptor) IsObject() bool {
	return td.Object != ""
}

func (td TypeDescriptor) IsValid() bool {
	if td.IsObject() {
		return td.Scalar == ""
	}
	return td.Scalar.IsValid()
}

func (td TypeDescriptor) String() string {
	name := string(td.Scalar)
	if td.IsObject() {
		name = td.Object
	}

	if td.IsArray {
		return "[]" + name
	}

	return name
}

// AttributeDescriptor declares a single extension attribute for an entity
// kind. Descriptors are registered once at startup and never change.
type AttributeDescriptor struct {
	EntityKind string
	Code       string
	Type       TypeDescriptor
}

// FieldDescriptor declares a single scalar field within an object type schema.
type FieldDescriptor struct {
	Name string
	Kind ScalarKind
}

// ObjectTypeSchema declares the shape of an object valued attribute. The
// field order is significant and is preserved through serialization.
type ObjectTypeSchema struct {
	Name   string
	Fields []FieldDescriptor
}

func (s ObjectTypeSchema) Field(name string) (FieldDescriptor, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// ValueKind is the tag of the AttributeValue union.
type ValueKind string

const (
	ValueKindScalar      ValueKind = "Scalar"
	ValueKindScalarArray ValueKind = "ScalarArray"
	ValueKindObject      ValueKind = "Object"
	ValueKindObjectArray ValueKind = "ObjectArray"
)

// AttributeValue is a value stored in an attribute container. Non scalar
// values are produced by the hydration factory, scalar values are assigned
// directly by mutators.
type AttributeValue interface {
	ValueKind() ValueKind
	Value() any
}

// Entity is the read side view of a domain object that extension
// attributes can be attached to.
type Entity interface {
	ID() string
	Kind() string
}
