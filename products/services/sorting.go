package services

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"

	"catalog-aggregator-backend/products/models"

	"github.com/shopspring/decimal"
)

// value kinds, in cross-kind order
const (
	kindNumber = iota
	kindString
	kindBool
	kindOther
)

// SortProducts orders products in place by the named attribute. Items lacking the
// attribute are placed last in either direction, and equal values fall back to id
// ascending, so the order is total and repeatable.
func SortProducts(products []models.Product, attribute string, ascending bool) {
	slices.SortStableFunc(products, func(a, b models.Product) int {
		av, aok := a.Field(attribute)
		bv, bok := b.Field(attribute)

		switch {
		case !aok && !bok:
			return strings.Compare(a.ID(), b.ID())
		case !aok:
			return 1
		case !bok:
			return -1
		}

		c := compareValues(av, bv)
		if !ascending {
			c = -c
		}
		if c != 0 {
			return c
		}
		return strings.Compare(a.ID(), b.ID())
	})
}

func compareValues(a, b any) int {
	ak, bk := kindOf(a), kindOf(b)
	if ak != bk {
		if ak < bk {
			return -1
		}
		return 1
	}

	switch ak {
	case kindNumber:
		return compareNumbers(a, b)
	case kindString:
		return strings.Compare(a.(string), b.(string))
	case kindBool:
		ab, bb := a.(bool), b.(bool)
		switch {
		case ab == bb:
			return 0
		case !ab:
			return -1
		default:
			return 1
		}
	default:
		return 0
	}
}

func kindOf(v any) int {
	switch v.(type) {
	case json.Number, float64, float32, int, int64:
		return kindNumber
	case string:
		return kindString
	case bool:
		return kindBool
	default:
		return kindOther
	}
}

func compareNumbers(a, b any) int {
	ad, aerr := toDecimal(a)
	bd, berr := toDecimal(b)
	if aerr != nil || berr != nil {
		return strings.Compare(numberText(a), numberText(b))
	}
	return ad.Cmp(bd)
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case json.Number:
		return decimal.NewFromString(n.String())
	case float64:
		return decimal.NewFromFloat(n), nil
	case float32:
		return decimal.NewFromFloat32(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	}
	return decimal.Zero, strconv.ErrSyntax
}

func numberText(v any) string {
	if n, ok := v.(json.Number); ok {
		return n.String()
	}
	return ""
}
