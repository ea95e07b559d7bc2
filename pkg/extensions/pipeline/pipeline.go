package pipeline

import (
	"context"

	"github.com/diwise/entity-extensions/pkg/extensions/container"
	exterrors "github.com/diwise/entity-extensions/pkg/extensions/errors"
	"github.com/diwise/entity-extensions/pkg/extensions/registry"
	"github.com/diwise/entity-extensions/pkg/extensions/types"
)

// Entity is what the pipeline requires from the objects it augments: the
// read model identity plus the ability to carry an attribute container.
type Entity interface {
	types.Entity
	container.Holder
}

// Mutator is a unit of post fetch logic that augments one entity's attribute
// container. Mutators run in registration order and may read what earlier
// mutators wrote for the same entity.
type Mutator interface {
	ID() string
	Apply(ctx context.Context, entity Entity, attributes *container.Container) error
}

// Metadata describes the fetch result the batch was taken from.
type Metadata struct {
	TotalCount int
}

type mutatorFunc struct {
	id    string
	apply func(ctx context.Context, entity Entity, attributes *container.Container) error
}

func (m *mutatorFunc) ID() string {
	return m.id
}

func (m *mutatorFunc) Apply(ctx context.Context, entity Entity, attributes *container.Container) error {
	return m.apply(ctx, entity, attributes)
}

// NewMutator wraps a plain function as a Mutator
func NewMutator(id string, apply func(ctx context.Context, entity Entity, attributes *container.Container) error) Mutator {
	return &mutatorFunc{id: id, apply: apply}
}

// Pipeline runs an ordered chain of mutators over a batch of fetched
// entities before they reach the caller.
type Pipeline struct {
	registry *registry.Registry
	mutators []Mutator
}

func New(reg *registry.Registry, mutators ...Mutator) *Pipeline {
	return &Pipeline{
		registry: reg,
		mutators: mutators,
	}
}

// RunAfterFetch augments every entity in the batch and returns the same
// sequence, never changing its cardinality. Empty batches are returned
// untouched without allocating any containers. Each entity gets one
// container, created lazily before its first mutator and shared by the rest
// of the chain. The first mutator error stops the run and is propagated as a
// MutatorFailure naming the mutator and the entity index; whether to fail
// the whole batch or fall back to unaugmented entities is the caller's call.
func (p *Pipeline) RunAfterFetch(ctx context.Context, entityKind string, entities []Entity, meta Metadata) ([]Entity, error) {
	if meta.TotalCount == 0 || len(entities) == 0 || len(p.mutators) == 0 {
		return entities, nil
	}

	for idx, entity := range entities {
		attributes := entity.Extensions()
		if attributes == nil {
			attributes = container.New(p.registry, entityKind)
			entity.AttachExtensions(attributes)
		}

		for _, mutator := range p.mutators {
			if err := ctx.Err(); err != nil {
				return nil, exterrors.NewMutatorFailure(mutator.ID(), idx, err)
			}

			if err := mutator.Apply(ctx, entity, attributes); err != nil {
				return nil, exterrors.NewMutatorFailure(mutator.ID(), idx, err)
			}
		}
	}

	return entities, nil
}
