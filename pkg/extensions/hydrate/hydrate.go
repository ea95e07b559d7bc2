package hydrate

import (
	"fmt"
	"math"
	"strconv"

	exterrors "github.com/diwise/entity-extensions/pkg/extensions/errors"
	"github.com/diwise/entity-extensions/pkg/extensions/registry"
	"github.com/diwise/entity-extensions/pkg/extensions/types"
	"github.com/diwise/entity-extensions/pkg/extensions/types/values"
)

// Object builds a typed object value from a loosely typed record, checking
// it against the named schema. This is the single chokepoint where raw data
// from query rows or external payloads is verified before it enters a
// container. Keys in the record that the schema does not declare are ignored.
func Object(reg *registry.Registry, schemaName string, record map[string]any) (*values.ObjectValue, error) {
	schema, ok := reg.ResolveObjectSchema(schemaName)
	if !ok {
		return nil, exterrors.NewSchemaMismatchError(schemaName, "", "schema is not registered")
	}

	fields := make(map[string]any, len(schema.Fields))

	for _, f := range schema.Fields {
		raw, ok := record[f.Name]
		if !ok {
			return nil, exterrors.NewSchemaMismatchError(schemaName, f.Name, "is missing from the record")
		}

		converted, err := convert(raw, f.Kind)
		if err != nil {
			return nil, exterrors.NewSchemaMismatchError(schemaName, f.Name, err.Error())
		}

		fields[f.Name] = converted
	}

	return values.NewObject(schemaName, fields), nil
}

// ObjectArray applies Object element-wise. The first record that fails stops
// hydration, and the returned error reports the index of that record.
func ObjectArray(reg *registry.Registry, schemaName string, records []map[string]any) (*values.ObjectArrayValue, error) {
	items := make([]*values.ObjectValue, 0, len(records))

	for idx, record := range records {
		obj, err := Object(reg, schemaName, record)
		if err != nil {
			if mismatch, ok := err.(exterrors.SchemaMismatchError); ok {
				return nil, mismatch.AtIndex(idx)
			}
			return nil, err
		}

		items = append(items, obj)
	}

	return values.NewObjectArray(schemaName, items...), nil
}

// convert checks that a raw value is convertible to the declared scalar kind
// and normalizes it. Hydration is strict on purpose: inconvertible values are
// rejected here so that the permissive serialization time coercion never has
// to paper over malformed input.
func convert(raw any, kind types.ScalarKind) (any, error) {
	switch kind {
	case types.KindString:
		switch v := raw.(type) {
		case string:
			return v, nil
		case int:
			return strconv.FormatInt(int64(v), 10), nil
		case int64:
			return strconv.FormatInt(v, 10), nil
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		}
	case types.KindInt:
		switch v := raw.(type) {
		case int:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case int64:
			return v, nil
		case float64:
			if v != math.Trunc(v) {
				return nil, fmt.Errorf("value %v has a fractional part", v)
			}
			return int64(v), nil
		case string:
			i, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("value \"%s\" is not convertible to int", v)
			}
			return i, nil
		}
	case types.KindFloat:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("value \"%s\" is not convertible to float", v)
			}
			return f, nil
		}
	case types.KindBool:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("value \"%s\" is not convertible to bool", v)
			}
			return b, nil
		}
	}

	return nil, fmt.Errorf("value of type %T is not convertible to %s", raw, kind)
}
