package iterutil

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeqOf(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, Collect(SeqOf(1, 2, 3)))
	assert.Empty(t, Collect(SeqOf[int]()))

	t.Run("break", func(t *testing.T) {
		k := 0
		var got []int
		for v := range SeqOf(1, 2, 3) {
			if k > 1 {
				break
			}
			got = append(got, v)
			k++
		}
		assert.Equal(t, []int{1, 2}, got)
	})
}

func TestMap(t *testing.T) {
	got := Collect(Map(SeqOf(1, 2, 3), strconv.Itoa))
	assert.Equal(t, []string{"1", "2", "3"}, got)

	t.Run("break", func(t *testing.T) {
		for range Map(SeqOf(1, 2, 3), strconv.Itoa) {
			break
		}
	})
}

func TestTake(t *testing.T) {
	cases := []struct {
		name  string
		count int
		want  []int
	}{
		{
			name:  "take none",
			count: 0,
			want:  nil,
		},
		{
			name:  "take some",
			count: 2,
			want:  []int{1, 2},
		},
		{
			name:  "take all",
			count: 3,
			want:  []int{1, 2, 3},
		},
		{
			name:  "take more than available",
			count: 10,
			want:  []int{1, 2, 3},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Collect(Take(SeqOf(1, 2, 3), tc.count)))
		})
	}
}

func TestFirst(t *testing.T) {
	v, ok := First(SeqOf("a", "b"))
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	v, ok = First(SeqOf[string]())
	assert.False(t, ok)
	assert.Empty(t, v)
}
