package pagination

import (
	"testing"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		page    string
		limit   string
		want    Page
		wantErr bool
	}{
		{name: "defaults", want: Page{Page: 1, Limit: 10}},
		{name: "explicit", page: "3", limit: "25", want: Page{Page: 3, Limit: 25}},
		{name: "max limit", page: "1", limit: "100", want: Page{Page: 1, Limit: 100}},
		{name: "zero page", page: "0", wantErr: true},
		{name: "negative page", page: "-2", wantErr: true},
		{name: "text page", page: "abc", wantErr: true},
		{name: "zero limit", limit: "0", wantErr: true},
		{name: "limit over max", limit: "101", wantErr: true},
		{name: "text limit", limit: "ten", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.page, tt.limit)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPage_Meta(t *testing.T) {
	t.Parallel()

	p := Page{Page: 2, Limit: 10}
	assert.Equal(t, 10, p.Offset())
	assert.Equal(t, Meta{
		TotalItems:  25,
		CurrentPage: 2,
		PageSize:    10,
		TotalPages:  3,
		HasNextPage: true,
		HasPrevPage: true,
	}, p.Meta(25))

	empty := Page{Page: 1, Limit: 10}.Meta(0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNextPage)
	assert.False(t, empty.HasPrevPage)
}
