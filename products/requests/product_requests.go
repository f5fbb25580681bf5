package requests

import (
	"github.com/gofiber/fiber/v2"
)

// ProductQuery holds the raw listing query parameters. Values are kept as sent so
// the upstream filters are forwarded unmodified.
type ProductQuery struct {
	Top      string
	MinPrice string
	MaxPrice string
	Sort     string
	Order    string
	Page     string
}

func ParseProductQuery(c *fiber.Ctx) ProductQuery {
	return ProductQuery{
		Top:      c.Query("top"),
		MinPrice: c.Query("minPrice"),
		MaxPrice: c.Query("maxPrice"),
		Sort:     c.Query("sort"),
		Order:    c.Query("order"),
		Page:     c.Query("page"),
	}
}

// UpstreamFilters returns the hints forwarded to every partition. Absent values are omitted.
func (q ProductQuery) UpstreamFilters() map[string]string {
	filters := make(map[string]string, 3)
	if q.Top != "" {
		filters["top"] = q.Top
	}
	if q.MinPrice != "" {
		filters["minPrice"] = q.MinPrice
	}
	if q.MaxPrice != "" {
		filters["maxPrice"] = q.MaxPrice
	}
	return filters
}

// SortRequested reports whether both sort and order were supplied.
func (q ProductQuery) SortRequested() bool {
	return q.Sort != "" && q.Order != ""
}

// Ascending is true only for order=asc; every other value sorts descending.
func (q ProductQuery) Ascending() bool {
	return q.Order == "asc"
}
