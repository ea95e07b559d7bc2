package values

import (
	"github.com/diwise/entity-extensions/pkg/extensions/types"
)

// ScalarValue holds a single scalar value
type ScalarValue struct {
	val any
}

func (sv *ScalarValue) ValueKind() types.ValueKind {
	return types.ValueKindScalar
}

func (sv *ScalarValue) Value() any {
	return sv.val
}

// NewBool is a convenience function for creating bool valued scalars
func NewBool(value bool) *ScalarValue {
	return &ScalarValue{val: value}
}

// NewInt is a convenience function for creating int valued scalars
func NewInt(value int64) *ScalarValue {
	return &ScalarValue{val: value}
}

// NewFloat is a convenience function for creating float valued scalars
func NewFloat(value float64) *ScalarValue {
	return &ScalarValue{val: value}
}

// NewString is a convenience function for creating string valued scalars
func NewString(value string) *ScalarValue {
	return &ScalarValue{val: value}
}

// NewScalar wraps an arbitrary raw value as a scalar. The serializer will
// coerce it against the declared kind on output.
func NewScalar(value any) *ScalarValue {
	return &ScalarValue{val: value}
}

// ScalarArrayValue holds an ordered sequence of scalar values
type ScalarArrayValue struct {
	vals []any
}

func (sav *ScalarArrayValue) ValueKind() types.ValueKind {
	return types.ValueKindScalarArray
}

func (sav *ScalarArrayValue) Value() any {
	return sav.vals
}

func (sav *ScalarArrayValue) Elements() []any {
	return sav.vals
}

func NewScalarArray(values []any) *ScalarArrayValue {
	return &ScalarArrayValue{vals: values}
}

// NewStringArray accepts a string slice and returns a new ScalarArrayValue
func NewStringArray(values []string) *ScalarArrayValue {
	arr := make([]any, 0, len(values))
	for _, v := range values {
		arr = append(arr, v)
	}
	return &ScalarArrayValue{vals: arr}
}

// ObjectValue holds a set of named field values conforming to a registered
// object type schema
type ObjectValue struct {
	schemaName string
	fields     map[string]any
}

func (ov *ObjectValue) ValueKind() types.ValueKind {
	return types.ValueKindObject
}

func (ov *ObjectValue) Value() any {
	return ov.fields
}

func (ov *ObjectValue) SchemaName() string {
	return ov.schemaName
}

func (ov *ObjectValue) Field(name string) (any, bool) {
	v, ok := ov.fields[name]
	return v, ok
}

func NewObject(schemaName string, fields map[string]any) *ObjectValue {
	return &ObjectValue{
		schemaName: schemaName,
		fields:     fields,
	}
}

// ObjectArrayValue holds an ordered sequence of objects conforming to the
// same registered object type schema
type ObjectArrayValue struct {
	schemaName string
	items      []*ObjectValue
}

func (oav *ObjectArrayValue) ValueKind() types.ValueKind {
	return types.ValueKindObjectArray
}

func (oav *ObjectArrayValue) Value() any {
	return oav.items
}

func (oav *ObjectArrayValue) SchemaName() string {
	return oav.schemaName
}

func (oav *ObjectArrayValue) Items() []*ObjectValue {
	return oav.items
}

func NewObjectArray(schemaName string, items ...*ObjectValue) *ObjectArrayValue {
	return &ObjectArrayValue{
		schemaName: schemaName,
		items:      items,
	}
}
