package hydrate

import (
	"testing"

	exterrors "github.com/diwise/entity-extensions/pkg/extensions/errors"
	"github.com/diwise/entity-extensions/pkg/extensions/registry"
	"github.com/diwise/entity-extensions/pkg/extensions/types"
	"github.com/matryer/is"
)

func TestHydrateObject(t *testing.T) {
	is, reg := setupTest(t)

	obj, err := Object(reg, "Special", map[string]any{
		"label":       "something",
		"value":       "very special",
		"referenceId": 1234,
	})
	is.NoErr(err)
	is.Equal(obj.SchemaName(), "Special")

	ref, ok := obj.Field("referenceId")
	is.True(ok)
	is.Equal(ref, int64(1234))
}

func TestHydrateObjectConvertsNumericStrings(t *testing.T) {
	is, reg := setupTest(t)

	obj, err := Object(reg, "Special", map[string]any{
		"label":       "a",
		"value":       "b",
		"referenceId": "42",
	})
	is.NoErr(err)

	ref, _ := obj.Field("referenceId")
	is.Equal(ref, int64(42))
}

func TestHydrateObjectMissingFieldFails(t *testing.T) {
	is, reg := setupTest(t)

	_, err := Object(reg, "Special", map[string]any{
		"label": "a",
		"value": "b",
	})

	mismatch, ok := err.(exterrors.SchemaMismatchError)
	is.True(ok) // expected a SchemaMismatchError
	is.Equal(mismatch.Field, "referenceId")
	is.Equal(mismatch.Index, -1)
}

func TestHydrateObjectInconvertibleValueFails(t *testing.T) {
	is, reg := setupTest(t)

	_, err := Object(reg, "Special", map[string]any{
		"label":       "a",
		"value":       "b",
		"referenceId": "not a number",
	})

	mismatch, ok := err.(exterrors.SchemaMismatchError)
	is.True(ok) // expected a SchemaMismatchError
	is.Equal(mismatch.Field, "referenceId")
}

func TestHydrateObjectUnknownSchemaFails(t *testing.T) {
	is, reg := setupTest(t)

	_, err := Object(reg, "NeverRegistered", map[string]any{})
	_, ok := err.(exterrors.SchemaMismatchError)
	is.True(ok)
}

func TestHydrateObjectIgnoresUndeclaredKeys(t *testing.T) {
	is, reg := setupTest(t)

	obj, err := Object(reg, "Special", map[string]any{
		"label":       "a",
		"value":       "b",
		"referenceId": 1,
		"extra":       "ignored",
	})
	is.NoErr(err)

	_, ok := obj.Field("extra")
	is.True(!ok)
}

func TestHydrateObjectArrayReportsFailingIndex(t *testing.T) {
	is, reg := setupTest(t)

	_, err := ObjectArray(reg, "Special", []map[string]any{
		{"label": "a", "value": "b", "referenceId": 1},
		{"label": "a", "value": "b"},
	})

	mismatch, ok := err.(exterrors.SchemaMismatchError)
	is.True(ok) // expected a SchemaMismatchError
	is.Equal(mismatch.Index, 1)
	is.Equal(mismatch.Field, "referenceId")
}

func TestHydrateObjectArray(t *testing.T) {
	is, reg := setupTest(t)

	arr, err := ObjectArray(reg, "Special", []map[string]any{
		{"label": "a", "value": "b", "referenceId": 1},
		{"label": "c", "value": "d", "referenceId": 2},
	})
	is.NoErr(err)
	is.Equal(len(arr.Items()), 2)
}

func setupTest(t *testing.T) (*is.I, *registry.Registry) {
	is := is.New(t)
	reg := registry.New()

	is.NoErr(reg.RegisterObjectSchema(types.ObjectTypeSchema{
		Name: "Special",
		Fields: []types.FieldDescriptor{
			{Name: "label", Kind: types.KindString},
			{Name: "value", Kind: types.KindString},
			{Name: "referenceId", Kind: types.KindInt},
		},
	}))

	return is, reg
}
