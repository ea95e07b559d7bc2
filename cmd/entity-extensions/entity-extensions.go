package main

import (
	"context"
	"net/http"
	"os"

	"github.com/diwise/entity-extensions/internal/pkg/application/extensions/giftmessage"
	"github.com/diwise/entity-extensions/internal/pkg/application/readmodel"
	"github.com/diwise/entity-extensions/internal/pkg/application/subscriptions"
	"github.com/diwise/entity-extensions/internal/pkg/infrastructure/router"
	"github.com/diwise/entity-extensions/internal/pkg/infrastructure/storage"
	"github.com/diwise/entity-extensions/internal/pkg/presentation/api"
	"github.com/diwise/entity-extensions/pkg/datamodels/orders"
	"github.com/diwise/entity-extensions/pkg/extensions/registry"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
)

const serviceName string = "entity-extensions"

func main() {
	serviceVersion := buildinfo.SourceVersion()

	ctx, logger, cleanup := o11y.Init(context.Background(), serviceName, serviceVersion, "json")
	defer cleanup()

	declarationsFile := env.GetVariableOrDefault(ctx, "DECLARATIONS_FILE", "/opt/diwise/config/extensions.yaml")
	policiesFile := env.GetVariableOrDefault(ctx, "AUTHZ_POLICIES_FILE", "/opt/diwise/config/authz.rego")

	reg := registry.New()

	declarations, err := os.Open(declarationsFile)
	if err != nil {
		logger.Error("failed to open declarations file", "file", declarationsFile, "err", err.Error())
		os.Exit(1)
	}

	loaded, err := readmodel.LoadDeclarations(declarations)
	declarations.Close()
	if err != nil {
		logger.Error("failed to load attribute declarations", "err", err.Error())
		os.Exit(1)
	}

	if err = readmodel.RegisterDeclarations(reg, loaded); err != nil {
		logger.Error("failed to register attribute declarations", "err", err.Error())
		os.Exit(1)
	}

	pool, err := storage.Connect(ctx, storage.LoadConfiguration(ctx))
	if err != nil {
		logger.Error("failed to connect to database", "err", err.Error())
		os.Exit(1)
	}
	defer pool.Close()

	repo := storage.NewOrderRepository(pool)

	options := []readmodel.Option{
		readmodel.WithMutators(orders.EntityKind, giftmessage.NewMutator(repo)),
	}

	notifierEndpoint := env.GetVariableOrDefault(ctx, "NOTIFIER_ENDPOINT", "")
	if notifierEndpoint != "" {
		notifier, _ := subscriptions.NewNotifier(ctx, notifierEndpoint)
		if err = notifier.Start(); err != nil {
			logger.Error("failed to start notifier", "err", err.Error())
			os.Exit(1)
		}
		defer notifier.Stop()

		options = append(options, readmodel.WithNotifier(notifier))
	}

	app := readmodel.New(ctx, reg, repo, options...)

	policies, err := os.Open(policiesFile)
	if err != nil {
		logger.Error("failed to open authz policies", "file", policiesFile, "err", err.Error())
		os.Exit(1)
	}
	defer policies.Close()

	r := router.New(serviceName)

	if err = api.RegisterHandlers(ctx, r, policies, app); err != nil {
		logger.Error("failed to register handlers", "err", err.Error())
		os.Exit(1)
	}

	port := env.GetVariableOrDefault(ctx, "SERVICE_PORT", "8080")
	logger.Info("starting to listen for connections", "port", port)

	err = http.ListenAndServe(":"+port, r)
	if err != nil {
		logger.Error("failed to listen for connections", "err", err.Error())
		os.Exit(1)
	}
}
