// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package eventprocessor

import (
	"fmt"

	"github.com/goccy/go-json"
)

type validatable interface {
	Validate() error
}

// marshalPayload validates v and encodes it as JSON.
func marshalPayload(v validatable) ([]byte, error) {
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("validate event: %w", err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// unmarshalPayload decodes data into v and validates the result.
func unmarshalPayload(data []byte, v validatable) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal event: %w", err)
	}
	if err := v.Validate(); err != nil {
		return fmt.Errorf("validate event: %w", err)
	}
	return nil
}

// DecodeInteraction decodes an interactions.tracked payload.
func DecodeInteraction(data []byte) (*InteractionMessage, error) {
	var m InteractionMessage
	if err := unmarshalPayload(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// DecodeRebuildRequest decodes a similarities.rebuild payload.
func DecodeRebuildRequest(data []byte) (*RebuildRequest, error) {
	var r RebuildRequest
	if err := unmarshalPayload(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// DecodeCatalogUpdate decodes a catalog.products payload.
func DecodeCatalogUpdate(data []byte) (*CatalogUpdate, error) {
	var u CatalogUpdate
	if err := unmarshalPayload(data, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
