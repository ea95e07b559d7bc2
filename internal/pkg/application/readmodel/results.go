package readmodel

import (
	"encoding/json"
	"fmt"

	"github.com/diwise/entity-extensions/pkg/extensions/types"
)

// AugmentedEntity pairs a fetched entity with its serialized extension
// attributes. It marshals as the entity's own JSON with an
// extension_attributes object injected; the key is omitted when no
// attributes were populated.
type AugmentedEntity struct {
	entity     types.Entity
	attributes map[string]any
}

func NewAugmentedEntity(entity types.Entity, attributes map[string]any) AugmentedEntity {
	return AugmentedEntity{
		entity:     entity,
		attributes: attributes,
	}
}

func (ae AugmentedEntity) Entity() types.Entity {
	return ae.entity
}

func (ae AugmentedEntity) Attributes() map[string]any {
	return ae.attributes
}

func (ae AugmentedEntity) MarshalJSON() ([]byte, error) {
	body, err := json.Marshal(ae.entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity %s: %w", ae.entity.ID(), err)
	}

	if len(ae.attributes) == 0 {
		return body, nil
	}

	contents := map[string]json.RawMessage{}
	if err = json.Unmarshal(body, &contents); err != nil {
		return nil, err
	}

	attributes, err := json.Marshal(ae.attributes)
	if err != nil {
		return nil, err
	}

	contents["extension_attributes"] = attributes

	return json.Marshal(contents)
}

type QueryEntitiesResult struct {
	Entities   []AugmentedEntity `json:"entities"`
	TotalCount int               `json:"totalCount"`
}
