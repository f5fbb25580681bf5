package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLeadingInt(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"5", 5, true},
		{"  12abc", 12, true},
		{"-3", -3, true},
		{"+7", 7, true},
		{"abc", 0, false},
		{"", 0, false},
		{"-", 0, false},
		{"3.9", 3, true},
		{"0x2", 2, true},
		{"-0X1f", -31, true},
		{"0x", 0, false},
		{"0xg", 0, false},
		{"99999999999999999999", math.MaxInt, true},
		{"-99999999999999999999", math.MinInt, true},
	}
	for _, tc := range cases {
		got, ok := ParseLeadingInt(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestResolvePaginationParams(t *testing.T) {
	assert.Equal(t, PaginationParams{Page: 1, PageSize: 10}, ResolvePaginationParams("", "", 10))
	assert.Equal(t, PaginationParams{Page: 2, PageSize: 5}, ResolvePaginationParams("5", "2", 10))
	// top above the cap is clamped
	assert.Equal(t, PaginationParams{Page: 1, PageSize: 10}, ResolvePaginationParams("50", "1", 10))
	// zero, negative and junk fall back to the cap / first page
	assert.Equal(t, PaginationParams{Page: 1, PageSize: 10}, ResolvePaginationParams("0", "0", 10))
	assert.Equal(t, PaginationParams{Page: 1, PageSize: 10}, ResolvePaginationParams("-4", "-2", 10))
	assert.Equal(t, PaginationParams{Page: 1, PageSize: 10}, ResolvePaginationParams("ten", "two", 10))
}

func TestBoundsAndSlice(t *testing.T) {
	items := make([]int, 15)
	for i := range items {
		items[i] = i + 1
	}

	assert.Equal(t, []int{6, 7, 8, 9, 10}, Slice(items, PaginationParams{Page: 2, PageSize: 5}))
	assert.Equal(t, []int{11, 12, 13, 14, 15}, Slice(items, PaginationParams{Page: 2, PageSize: 10}))

	out := Slice(items, PaginationParams{Page: 4, PageSize: 5})
	assert.NotNil(t, out)
	assert.Empty(t, out)

	start, end := PaginationParams{Page: 1, PageSize: 10}.Bounds(0)
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}

func TestPageNeverExceedsCap(t *testing.T) {
	items := make([]int, 100)
	for _, top := range []string{"", "1", "3", "10", "11", "1000", "x"} {
		p := ResolvePaginationParams(top, "1", 10)
		assert.LessOrEqual(t, len(Slice(items, p)), 10, top)
	}
}

func TestHugePageIsPastTheEnd(t *testing.T) {
	items := make([]int, 15)
	for i := range items {
		items[i] = i + 1
	}

	for _, page := range []string{"1844674407370955163", "99999999999999999999", "4611686018427387904"} {
		p := ResolvePaginationParams("", page, 10)
		assert.Greater(t, p.Page, 1, page)

		out := Slice(items, p)
		assert.NotNil(t, out, page)
		assert.Empty(t, out, page)
	}

	assert.Equal(t, PaginationParams{Page: 2, PageSize: 10}, ResolvePaginationParams("", "0x2", 10))
	assert.Empty(t, Slice(items, PaginationParams{Page: math.MaxInt, PageSize: 10}))
}
