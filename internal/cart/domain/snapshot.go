package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// SnapshotKey is the storage key the cart is kept under.
const SnapshotKey = "cart"

// ErrMalformedSnapshot is returned by DecodeSnapshot for data that is not a
// JSON array of cart lines.
var ErrMalformedSnapshot = errors.New("malformed cart snapshot")

// EncodeSnapshot serializes the whole cart as a JSON array:
//
//	[{"id":1,"name":"A","price":1000,"quantity":2}]
//
// There is no version field; changing this layout breaks stored carts.
func EncodeSnapshot(c Cart) ([]byte, error) {
	if c == nil {
		c = Cart{}
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode cart snapshot: %w", err)
	}
	return b, nil
}

// DecodeSnapshot parses data written by EncodeSnapshot. A JSON null decodes
// to an empty cart.
func DecodeSnapshot(data []byte) (Cart, error) {
	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if c == nil {
		c = Cart{}
	}
	return c, nil
}
