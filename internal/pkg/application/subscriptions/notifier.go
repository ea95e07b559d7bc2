package subscriptions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

// Notifier tells an interested endpoint that a batch of entities has been
// fetched and augmented. Delivery is asynchronous and best effort; the query
// path never blocks on it.
type Notifier interface {
	Start() error
	Stop() error

	BatchAugmented(ctx context.Context, entityKind string, totalCount int)
}

var tracer = otel.Tracer("entity-extensions/notifier")

type action func()

type notifier struct {
	started  bool
	endpoint string

	queue chan action
}

func NewNotifier(ctx context.Context, endpoint string) (Notifier, error) {
	return &notifier{
		endpoint: endpoint,
		queue:    make(chan action, 32),
	}, nil
}

func (n *notifier) Start() error {
	if n.started {
		return fmt.Errorf("already started")
	}

	n.started = true

	go n.run()

	return nil
}

func (n *notifier) Stop() error {
	if n.started {
		// Create a result channel so that we can wait for completion
		resultChan := make(chan bool)

		n.queue <- func() {
			// close the queue to signal the consumers that we are going out of business
			close(n.queue)
			resultChan <- true
		}

		// blocking read until our action has been processed
		<-resultChan
	}
	return nil
}

func (n *notifier) BatchAugmented(ctx context.Context, entityKind string, totalCount int) {
	if n.started {
		var err error

		logger := logging.GetFromContext(ctx)

		ctx, span := tracer.Start(
			tracing.ExtractHeaders(context.Background(), tracing.InjectHeaders(ctx)),
			"post",
		)

		n.queue <- func() {
			defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

			err = postNotification(ctx, NewNotification(entityKind, totalCount), n.endpoint)
			if err != nil {
				logger.Error("failed to post notification", "err", err.Error())
			}
		}
	}
}

// Notification is the payload posted to the notification endpoint
type Notification struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	EntityKind string `json:"entityKind"`
	TotalCount int    `json:"totalCount"`
	NotifiedAt string `json:"notifiedAt"`
}

func NewNotification(entityKind string, totalCount int) *Notification {
	return &Notification{
		ID:         fmt.Sprintf("urn:diwise:Notification:%s", uuid.New().String()),
		Type:       "BatchAugmented",
		EntityKind: entityKind,
		TotalCount: totalCount,
		NotifiedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
}

func postNotification(ctx context.Context, notification *Notification, endpoint string) error {
	body, err := json.MarshalIndent(notification, "", " ")
	if err != nil {
		return fmt.Errorf("marshalling error (%w)", err)
	}

	httpClient := http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("unable to create new request (%w)", err)
	}

	req.Header.Add("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request (%w)", err)
	}

	defer resp.Body.Close()

	return nil
}

func (n *notifier) run() {
	// repeat until the queue is closed
	for action := range n.queue {
		if action == nil {
			return
		}

		action()
	}
}
