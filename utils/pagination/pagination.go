package pagination

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

type PaginationParams struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// ParseLeadingInt reads the integer prefix of raw ("12abc" -> 12), ignoring leading
// whitespace and accepting an optional sign and a 0x hex prefix. Values beyond the int
// range saturate at math.MaxInt / math.MinInt. ok is false when there are no digits.
func ParseLeadingInt(raw string) (int, bool) {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	sign := ""
	if s != "" && (s[0] == '+' || s[0] == '-') {
		sign, s = s[:1], s[1:]
	}

	base, isDigit := 10, isDecimalDigit
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base, isDigit, s = 16, isHexDigit, s[2:]
	}

	end := 0
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.ParseInt(sign+s[:end], base, strconv.IntSize)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return int(n), true
}

func isDecimalDigit(b byte) bool { return b >= '0' && b <= '9' }

func isHexDigit(b byte) bool {
	return isDecimalDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// ResolvePaginationParams turns the raw top/page query values into a page request.
// The page size is min(top, sizeCap) when top is a positive integer, otherwise sizeCap.
// The page is 1-based; anything below 1 or unparsable becomes 1.
func ResolvePaginationParams(top, page string, sizeCap int) PaginationParams {
	size := sizeCap
	if n, ok := ParseLeadingInt(top); ok && n > 0 && n < sizeCap {
		size = n
	}

	current := 1
	if n, ok := ParseLeadingInt(page); ok && n > 1 {
		current = n
	}

	return PaginationParams{Page: current, PageSize: size}
}

// Bounds returns the half-open [start, end) window of the page within total items.
// Pages past the end produce an empty window.
func (p PaginationParams) Bounds(total int) (int, int) {
	if p.PageSize <= 0 || p.Page <= 0 {
		return 0, 0
	}
	pages := (total + p.PageSize - 1) / p.PageSize
	if p.Page-1 >= pages {
		return total, total
	}
	start := (p.Page - 1) * p.PageSize
	end := start + p.PageSize
	if end > total {
		end = total
	}
	return start, end
}

// Slice returns the items on the requested page, never nil.
func Slice[T any](items []T, p PaginationParams) []T {
	start, end := p.Bounds(len(items))
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}
