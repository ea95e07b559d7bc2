package giftmessage

import (
	"context"
	"errors"
	"fmt"

	"github.com/diwise/entity-extensions/pkg/extensions/container"
	"github.com/diwise/entity-extensions/pkg/extensions/hydrate"
	"github.com/diwise/entity-extensions/pkg/extensions/pipeline"
)

// An order level extension that attaches the gift message, if any, that the
// buyer entered at checkout. The order read model itself knows nothing about
// gift messages; they live in their own table and ride along as an
// extension attribute.

const (
	AttributeCode string = "gift_message"
	SchemaName    string = "GiftMessage"
)

// ErrNoGiftMessage is returned by a Reader when an order has no gift message
var ErrNoGiftMessage = errors.New("no gift message")

type Reader interface {
	FetchGiftMessage(ctx context.Context, orderID string) (map[string]any, error)
}

// NewMutator returns the mutator that augments each order in a fetched
// batch with its gift message. Orders without one are left untouched.
func NewMutator(reader Reader) pipeline.Mutator {
	return pipeline.NewMutator("gift-message", func(ctx context.Context, entity pipeline.Entity, attributes *container.Container) error {
		record, err := reader.FetchGiftMessage(ctx, entity.ID())
		if err != nil {
			if errors.Is(err, ErrNoGiftMessage) {
				return nil
			}
			return fmt.Errorf("failed to fetch gift message for order %s: %w", entity.ID(), err)
		}

		message, err := hydrate.Object(attributes.Registry(), SchemaName, record)
		if err != nil {
			return err
		}

		return attributes.Set(AttributeCode, message)
	})
}
