package paginate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumPages(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		perPage int
		want    int
	}{
		{"empty result keeps one page", 0, 10, 1},
		{"exact fit", 20, 10, 2},
		{"partial last page", 21, 10, 3},
		{"single item", 1, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.count, tt.perPage).NumPages())
		})
	}
}

func TestPage(t *testing.T) {
	p := New(25, 10)

	first, err := p.Page(1)
	require.NoError(t, err)
	assert.Equal(t, 0, first.Offset)
	assert.Equal(t, 10, first.Limit)
	assert.True(t, first.HasNext)
	assert.False(t, first.HasPrevious)

	last, err := p.Page(3)
	require.NoError(t, err)
	assert.Equal(t, 20, last.Offset)
	assert.False(t, last.HasNext)
	assert.True(t, last.HasPrevious)

	_, err = p.Page(4)
	assert.ErrorIs(t, err, ErrEmptyPage)
	_, err = p.Page(0)
	assert.ErrorIs(t, err, ErrEmptyPage)
}

func TestPageOrLast(t *testing.T) {
	p := New(25, 10)

	assert.Equal(t, 2, p.PageOrLast(2).Number)
	assert.Equal(t, 3, p.PageOrLast(99).Number)
	assert.Equal(t, 3, p.PageOrLast(-1).Number)
	assert.Equal(t, 1, New(0, 10).PageOrLast(5).Number)
}

func TestParsePage(t *testing.T) {
	assert.Equal(t, 1, ParsePage(""))
	assert.Equal(t, 1, ParsePage("abc"))
	assert.Equal(t, 4, ParsePage(" 4 "))
	assert.Equal(t, -2, ParsePage("-2"))
}

func TestNew_ClampsPerPage(t *testing.T) {
	p := New(5, 0)
	assert.Equal(t, 1, p.PerPage)
	assert.Equal(t, 5, p.NumPages())
}
