package mob

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscountFor(t *testing.T) {
	cases := []struct {
		count int
		want  int
	}{
		{0, 0},
		{1, 0},
		{2, 5},
		{4, 5},
		{5, 10},
		{9, 10},
		{10, 15},
		{19, 15},
		{20, 25},
		{100, 25},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DiscountFor(tc.count), "count=%d", tc.count)
	}
}
