package readmodel

import (
	"context"

	"github.com/diwise/entity-extensions/internal/pkg/application/subscriptions"
	"github.com/diwise/entity-extensions/pkg/extensions/pipeline"
	"github.com/diwise/entity-extensions/pkg/extensions/registry"
	"github.com/diwise/entity-extensions/pkg/extensions/serialize"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("entity-extensions/readmodel")

// EntityQuerier is the surface the presentation layer talks to.
type EntityQuerier interface {
	QueryEntities(ctx context.Context, entityKind string) (*QueryEntitiesResult, error)
}

// FetchResult is what a repository hands to the augmentation pipeline.
type FetchResult struct {
	Entities   []pipeline.Entity
	TotalCount int
}

// Repository is the boundary to the underlying storage and query engine,
// which this service does not own.
type Repository interface {
	FetchAll(ctx context.Context, entityKind string) (FetchResult, error)
}

type readModelApp struct {
	registry   *registry.Registry
	repository Repository
	pipelines  map[string]*pipeline.Pipeline
	notifier   subscriptions.Notifier
}

type Option func(*readModelApp)

// WithMutators registers the mutator chain to run after every fetch of the
// given entity kind. Chain order is invocation order.
func WithMutators(entityKind string, mutators ...pipeline.Mutator) Option {
	return func(app *readModelApp) {
		app.pipelines[entityKind] = pipeline.New(app.registry, mutators...)
	}
}

func WithNotifier(n subscriptions.Notifier) Option {
	return func(app *readModelApp) {
		app.notifier = n
	}
}

func New(ctx context.Context, reg *registry.Registry, repo Repository, options ...Option) EntityQuerier {
	app := &readModelApp{
		registry:   reg,
		repository: repo,
		pipelines:  map[string]*pipeline.Pipeline{},
	}

	for _, option := range options {
		option(app)
	}

	return app
}

func (app *readModelApp) QueryEntities(ctx context.Context, entityKind string) (*QueryEntitiesResult, error) {
	var err error

	ctx, span := tracer.Start(ctx, "query-entities")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	logger := logging.GetFromContext(ctx)

	fetched, err := app.repository.FetchAll(ctx, entityKind)
	if err != nil {
		return nil, err
	}

	entities := fetched.Entities

	if pl, ok := app.pipelines[entityKind]; ok {
		entities, err = pl.RunAfterFetch(ctx, entityKind, entities, pipeline.Metadata{TotalCount: fetched.TotalCount})
		if err != nil {
			// no fallback to unaugmented entities here, the caller gets to decide
			logger.Error("augmentation failed", "entity_kind", entityKind, "err", err.Error())
			return nil, err
		}
	}

	result := &QueryEntitiesResult{
		Entities:   make([]AugmentedEntity, 0, len(entities)),
		TotalCount: fetched.TotalCount,
	}

	for _, entity := range entities {
		attributes, serr := serialize.Attributes(app.registry, entityKind, entity.Extensions())
		if serr != nil {
			err = serr
			logger.Error("serialization failed", "entity_kind", entityKind, "entity_id", entity.ID(), "err", err.Error())
			return nil, err
		}

		result.Entities = append(result.Entities, NewAugmentedEntity(entity, attributes))
	}

	if app.notifier != nil {
		app.notifier.BatchAugmented(ctx, entityKind, fetched.TotalCount)
	}

	return result, nil
}
