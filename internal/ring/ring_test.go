package ring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuffer_EvictsOldest(t *testing.T) {
	b := New[int](3)
	for i := 1; i <= 5; i++ {
		b.Push(i)
	}

	assert.Equal(t, 3, b.Len())
	assert.Equal(t, []int{3, 4, 5}, b.Items())
}

func TestBuffer_Last(t *testing.T) {
	b := New[string](8)
	b.Push("a")
	b.Push("b")
	b.Push("c")

	assert.Equal(t, []string{"b", "c"}, b.Last(2))
	assert.Equal(t, []string{"a", "b", "c"}, b.Last(10))
	assert.Nil(t, b.Last(0))
}

func TestBuffer_LastAfterWrap(t *testing.T) {
	b := New[int](3)
	for i := 1; i <= 7; i++ {
		b.Push(i)
	}

	assert.Equal(t, []int{6, 7}, b.Last(2))
	v, ok := b.Newest()
	assert.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestBuffer_Empty(t *testing.T) {
	b := New[int](0)

	assert.Equal(t, 1, b.Cap())
	_, ok := b.Newest()
	assert.False(t, ok)
	assert.Empty(t, b.Items())
}
