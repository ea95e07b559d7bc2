package orders

import (
	"github.com/diwise/entity-extensions/pkg/extensions/container"
)

const EntityKind string = "order"

// Order is the read model view of a placed order. Core fields are fixed by
// the data contract; anything extension authors want to add rides along in
// the embedded extension container.
type Order struct {
	container.Extendable

	OrderID string  `json:"id"`
	Number  string  `json:"order_number"`
	Status  string  `json:"status"`
	Total   float64 `json:"total"`
}

func New(id, number, status string, total float64) *Order {
	return &Order{
		OrderID: id,
		Number:  number,
		Status:  status,
		Total:   total,
	}
}

func (o *Order) ID() string {
	return o.OrderID
}

func (o *Order) Kind() string {
	return EntityKind
}
