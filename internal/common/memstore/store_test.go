package memstore

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreOrderAndOverwrite(t *testing.T) {
	s := New[int]()
	s.Set("a", 1)
	s.Set("b", 2)
	s.Set("a", 3)
	assert.Equal(t, []int{3, 2}, s.List(nil))
	assert.False(t, s.Insert("b", 9))
	assert.True(t, s.Insert("c", 4))
	assert.Equal(t, []int{4}, s.List(func(v int) bool { return v == 4 }))

	assert.True(t, s.Delete("a"))
	assert.False(t, s.Delete("a"))
	assert.Equal(t, 2, s.Len())
}

func TestStoreUpdateIsAtomic(t *testing.T) {
	s := New[int]()
	s.Set("n", 0)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = s.Update("n", func(v int) (int, error) { return v + 1, nil })
		}()
	}
	wg.Wait()
	v, _ := s.Get("n")
	assert.Equal(t, 100, v)

	_, found, err := s.Update("n", func(v int) (int, error) { return 0, errors.New("no") })
	assert.True(t, found)
	assert.Error(t, err)
	v, _ = s.Get("n")
	assert.Equal(t, 100, v)
}

func TestStoreTrim(t *testing.T) {
	s := New[string]()
	for _, k := range []string{"1", "2", "3", "4"} {
		s.Set(k, k)
	}
	s.Trim(2)
	assert.Equal(t, []string{"3", "4"}, s.List(nil))
}
