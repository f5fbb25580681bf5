package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Product is an upstream catalog item. Only "id" is relied upon; every other
// attribute is carried through as decoded JSON.
type Product map[string]any

// ID returns the product id as text. Numeric ids use their JSON representation.
func (p Product) ID() string {
	switch v := p["id"].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// Field returns the named attribute. Null values are reported as absent.
func (p Product) Field(name string) (any, bool) {
	v, ok := p[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// DecodeProducts decodes an upstream listing body. Numbers are kept as json.Number
// so prices survive the round trip without float rounding.
func DecodeProducts(body []byte) ([]Product, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return []Product{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var products []Product
	if err := dec.Decode(&products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}
