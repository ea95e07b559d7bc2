package serialize

import (
	"encoding/json"
	"testing"

	"github.com/diwise/entity-extensions/pkg/extensions/container"
	exterrors "github.com/diwise/entity-extensions/pkg/extensions/errors"
	"github.com/diwise/entity-extensions/pkg/extensions/hydrate"
	"github.com/diwise/entity-extensions/pkg/extensions/registry"
	"github.com/diwise/entity-extensions/pkg/extensions/types"
	"github.com/diwise/entity-extensions/pkg/extensions/types/values"
	"github.com/matryer/is"
)

func TestStringValuePassesThroughUnchanged(t *testing.T) {
	is, reg, c := setupTest(t)

	is.NoErr(c.Set("status_note", values.NewString("fragile, handle with care")))

	out, err := Attributes(reg, "order", c)
	is.NoErr(err)
	is.Equal(out["status_note"], "fragile, handle with care")
}

func TestNonNumericStringCollapsesToZero(t *testing.T) {
	is, reg, c := setupTest(t)

	// documented lossy fallback, kept for compatibility
	is.NoErr(c.Set("priority", values.NewString("urgent")))

	out, err := Attributes(reg, "order", c)
	is.NoErr(err)
	is.Equal(out["priority"], int64(0))
}

func TestNumericStringCoercesToDeclaredKind(t *testing.T) {
	is, reg, c := setupTest(t)

	is.NoErr(c.Set("priority", values.NewString("7")))

	out, err := Attributes(reg, "order", c)
	is.NoErr(err)
	is.Equal(out["priority"], int64(7))
}

func TestUnsetAttributesAreOmitted(t *testing.T) {
	is, reg, c := setupTest(t)

	out, err := Attributes(reg, "order", c)
	is.NoErr(err)

	_, present := out["status_note"]
	is.True(!present) // absent, not null

	b, err := json.Marshal(out)
	is.NoErr(err)
	is.Equal(string(b), "{}")
}

func TestNilContainerSerializesToEmptyTree(t *testing.T) {
	is, reg, _ := setupTest(t)

	out, err := Attributes(reg, "order", nil)
	is.NoErr(err)
	is.Equal(len(out), 0)
}

func TestScalarArrayPreservesElementOrder(t *testing.T) {
	is, reg, c := setupTest(t)

	is.NoErr(c.Set("tags", values.NewStringArray([]string{"b2b", "recurring", "vip"})))

	out, err := Attributes(reg, "order", c)
	is.NoErr(err)

	b, err := json.Marshal(out["tags"])
	is.NoErr(err)
	is.Equal(string(b), `["b2b","recurring","vip"]`)
}

func TestScalarArrayElementsAreCoercedIndependently(t *testing.T) {
	is, reg, c := setupTest(t)

	is.NoErr(c.Set("related_ids", values.NewScalarArray([]any{"1", 2, "nope"})))

	out, err := Attributes(reg, "order", c)
	is.NoErr(err)

	b, err := json.Marshal(out["related_ids"])
	is.NoErr(err)
	is.Equal(string(b), `[1,2,0]`)
}

func TestObjectArrayRoundTrip(t *testing.T) {
	is, reg, c := setupTest(t)

	obj, err := hydrate.Object(reg, "Special", map[string]any{
		"label":       "something",
		"value":       "very special",
		"referenceId": 1234,
	})
	is.NoErr(err)

	is.NoErr(c.Set("my_special_attribute", values.NewObjectArray("Special", obj)))

	out, err := Attributes(reg, "order", c)
	is.NoErr(err)

	b, err := json.Marshal(out)
	is.NoErr(err)
	is.Equal(string(b), `{"my_special_attribute":[{"label":"something","value":"very special","reference_id":1234}]}`)
}

func TestObjectFieldsEmitInSchemaOrder(t *testing.T) {
	is, reg, c := setupTest(t)

	obj, err := hydrate.Object(reg, "Special", map[string]any{
		"label":       "l",
		"value":       "v",
		"referenceId": 1,
	})
	is.NoErr(err)

	is.NoErr(c.Set("special", obj))

	out, err := Attributes(reg, "order", c)
	is.NoErr(err)

	b, err := json.Marshal(out["special"])
	is.NoErr(err)
	is.Equal(string(b), `{"label":"l","value":"v","reference_id":1}`)
}

func TestMissingObjectFieldFailsSerialization(t *testing.T) {
	is, reg, c := setupTest(t)

	// bypass hydration to simulate an incompletely hydrated value
	is.NoErr(c.Set("special", values.NewObject("Special", map[string]any{"label": "l"})))

	_, err := Attributes(reg, "order", c)

	missing, ok := err.(exterrors.MissingAccessorError)
	is.True(ok) // expected a MissingAccessorError
	is.Equal(missing.Schema, "Special")
	is.Equal(missing.Field, "value")
}

func TestSerializationDoesNotMutateTheContainer(t *testing.T) {
	is, reg, c := setupTest(t)

	is.NoErr(c.Set("priority", values.NewString("not a number")))

	_, err := Attributes(reg, "order", c)
	is.NoErr(err)

	v, ok := c.Get("priority")
	is.True(ok)
	is.Equal(v.Value(), "not a number") // stored value must be untouched
}

func setupTest(t *testing.T) (*is.I, *registry.Registry, *container.Container) {
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

	is.NoErr(reg.Register(types.AttributeDescriptor{EntityKind: "order", Code: "status_note", Type: types.Scalar(types.KindString)}))
	is.NoErr(reg.Register(types.AttributeDescriptor{EntityKind: "order", Code: "priority", Type: types.Scalar(types.KindInt)}))
	is.NoErr(reg.Register(types.AttributeDescriptor{EntityKind: "order", Code: "tags", Type: types.ArrayOfScalar(types.KindString)}))
	is.NoErr(reg.Register(types.AttributeDescriptor{EntityKind: "order", Code: "related_ids", Type: types.ArrayOfScalar(types.KindInt)}))
	is.NoErr(reg.Register(types.AttributeDescriptor{EntityKind: "order", Code: "special", Type: types.Object("Special")}))
	is.NoErr(reg.Register(types.AttributeDescriptor{EntityKind: "order", Code: "my_special_attribute", Type: types.ArrayOfObject("Special")}))

	return is, reg, container.New(reg, "order")
}
