package mutators

import (
	"context"

	"github.com/diwise/entity-extensions/pkg/extensions/container"
	"github.com/diwise/entity-extensions/pkg/extensions/hydrate"
	"github.com/diwise/entity-extensions/pkg/extensions/pipeline"
	"github.com/diwise/entity-extensions/pkg/extensions/types/values"
)

func Bool(code string, value bool) pipeline.Mutator {
	return pipeline.NewMutator("set-"+code, func(ctx context.Context, e pipeline.Entity, attributes *container.Container) error {
		return attributes.Set(code, values.NewBool(value))
	})
}

func Int(code string, value int64) pipeline.Mutator {
	return pipeline.NewMutator("set-"+code, func(ctx context.Context, e pipeline.Entity, attributes *container.Container) error {
		return attributes.Set(code, values.NewInt(value))
	})
}

func Number(code string, value float64) pipeline.Mutator {
	return pipeline.NewMutator("set-"+code, func(ctx context.Context, e pipeline.Entity, attributes *container.Container) error {
		return attributes.Set(code, values.NewFloat(value))
	})
}

func Text(code, value string) pipeline.Mutator {
	return pipeline.NewMutator("set-"+code, func(ctx context.Context, e pipeline.Entity, attributes *container.Container) error {
		return attributes.Set(code, values.NewString(value))
	})
}

func TextList(code string, list []string) pipeline.Mutator {
	return pipeline.NewMutator("set-"+code, func(ctx context.Context, e pipeline.Entity, attributes *container.Container) error {
		return attributes.Set(code, values.NewStringArray(list))
	})
}

// HydratedObject hydrates a raw record against the named schema and stores
// the result under the given attribute code.
func HydratedObject(code, schemaName string, record map[string]any) pipeline.Mutator {
	return pipeline.NewMutator("hydrate-"+code, func(ctx context.Context, e pipeline.Entity, attributes *container.Container) error {
		obj, err := hydrate.Object(attributes.Registry(), schemaName, record)
		if err != nil {
			return err
		}

		return attributes.Set(code, obj)
	})
}

// HydratedObjectArray hydrates a sequence of raw records against the named
// schema and stores the result under the given attribute code.
func HydratedObjectArray(code, schemaName string, records []map[string]any) pipeline.Mutator {
	return pipeline.NewMutator("hydrate-"+code, func(ctx context.Context, e pipeline.Entity, attributes *container.Container) error {
		arr, err := hydrate.ObjectArray(attributes.Registry(), schemaName, records)
		if err != nil {
			return err
		}

		return attributes.Set(code, arr)
	})
}
