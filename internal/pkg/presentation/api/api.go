package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/diwise/entity-extensions/internal/pkg/application/readmodel"
	"github.com/diwise/entity-extensions/internal/pkg/presentation/api/auth"
	apierrors "github.com/diwise/entity-extensions/internal/pkg/presentation/api/errors"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("entity-extensions/api")

func RegisterHandlers(ctx context.Context, r *chi.Mux, policies io.Reader, app readmodel.EntityQuerier) error {

	authenticator, err := auth.NewAuthenticator(ctx, policies)
	if err != nil {
		return fmt.Errorf("failed to create api authenticator: %w", err)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(Logger(logging.GetFromContext(ctx)))

		r.Get("/entities", NewQueryEntitiesHandler(app, authenticator))
	})

	return nil
}

func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			_, ctx, _ = o11y.AddTraceIDToLoggerAndStoreInContext(
				trace.SpanFromContext(ctx),
				logger,
				ctx)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewQueryEntitiesHandler handles GET requests for augmented read model entities
func NewQueryEntitiesHandler(app readmodel.EntityQuerier, authenticator auth.Enticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "query-entities")
		defer func() {
			if err != nil {
				span.RecordError(err)
			}
			span.End()
		}()

		traceID, ctx, logger := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(ctx), ctx)

		entityKind := r.URL.Query().Get("kind")
		if entityKind == "" {
			err = errors.New("the kind parameter must be present in a request for entities")
			apierrors.ReportNewBadRequestData(w, err.Error(), traceID)
			return
		}

		if err = authenticator.CheckAccess(ctx, r, []string{entityKind}); err != nil {
			apierrors.ReportUnauthorizedRequest(w, "access denied", traceID)
			return
		}

		result, err := app.QueryEntities(ctx, entityKind)
		if err != nil {
			switch err.(type) {
			case readmodel.UnknownEntityKindError:
				apierrors.ReportNotFoundError(w, err.Error(), traceID)
			case readmodel.NotFoundError:
				apierrors.ReportNotFoundError(w, err.Error(), traceID)
			default:
				logger.Error("failed to query entities", "err", err.Error())
				apierrors.ReportNewInternalError(w, err.Error(), traceID)
			}
			return
		}

		body, err := json.Marshal(result)
		if err != nil {
			apierrors.ReportNewInternalError(w, err.Error(), traceID)
			return
		}

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	}
}
