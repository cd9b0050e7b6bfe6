package pagination

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromQuery_Defaults(t *testing.T) {
	p := FromQuery(url.Values{}, 12)
	assert.Equal(t, Params{Page: 1, PerPage: 12, Offset: 0}, p)
}

func TestFromQuery_InvalidDefaultPerPage(t *testing.T) {
	assert.Equal(t, 20, FromQuery(url.Values{}, 0).PerPage)
	assert.Equal(t, 20, FromQuery(url.Values{}, 1000).PerPage)
}

func TestFromQuery_CustomValues(t *testing.T) {
	p := FromQuery(url.Values{"page": {"3"}, "per_page": {"5"}}, 12)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 5, p.PerPage)
	assert.Equal(t, 10, p.Offset)
}

func TestFromQuery_IgnoresGarbage(t *testing.T) {
	tests := []url.Values{
		{"page": {"0"}},
		{"page": {"-2"}},
		{"page": {"abc"}},
		{"per_page": {"0"}},
		{"per_page": {"101"}},
		{"per_page": {"x"}},
	}
	for _, q := range tests {
		p := FromQuery(q, 12)
		assert.Equal(t, 1, p.Page, q.Encode())
		assert.Equal(t, 12, p.PerPage, q.Encode())
	}
}

func TestPaginate_FirstPage(t *testing.T) {
	r := Paginate([]int{1, 2, 3, 4, 5}, FromQuery(url.Values{"per_page": {"2"}}, 12))

	assert.Equal(t, []int{1, 2}, r.Data)
	assert.Equal(t, 5, r.TotalCount)
	assert.Equal(t, 3, r.TotalPages)
	assert.True(t, r.HasNext)
	assert.False(t, r.HasPrev)
}

func TestPaginate_LastPartialPage(t *testing.T) {
	r := Paginate([]int{1, 2, 3, 4, 5}, FromQuery(url.Values{"page": {"3"}, "per_page": {"2"}}, 12))

	assert.Equal(t, []int{5}, r.Data)
	assert.False(t, r.HasNext)
	assert.True(t, r.HasPrev)
}

func TestPaginate_PastEnd(t *testing.T) {
	r := Paginate([]string{"a"}, FromQuery(url.Values{"page": {"9"}}, 12))

	assert.Empty(t, r.Data)
	assert.NotNil(t, r.Data)
	assert.Equal(t, 1, r.TotalPages)
}

func TestPaginate_Empty(t *testing.T) {
	r := Paginate([]string(nil), DefaultParams(12))

	assert.Empty(t, r.Data)
	assert.Equal(t, 0, r.TotalPages)
	assert.False(t, r.HasNext)
}

func TestPaginate_DoesNotAliasInput(t *testing.T) {
	items := []int{1, 2, 3}
	r := Paginate(items, DefaultParams(2))
	r.Data[0] = 99
	assert.Equal(t, 1, items[0])
}
