package registry

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	r := New[string, int]()
	assert.NotNil(t, r)
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Keys())
}

func TestRegisterAndGet(t *testing.T) {
	r := New[string, int]()

	r.Register("one", 1)
	r.Register("two", 2)

	v, ok := r.Get("one")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = r.Get("three")
	assert.False(t, ok)
	assert.Equal(t, 0, v)
}

func TestRegistrationOrder(t *testing.T) {
	r := New[string, int]()
	r.Register("zeta", 1)
	r.Register("alpha", 2)
	r.Register("mid", 3)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, r.Keys())
	assert.Equal(t, []int{1, 2, 3}, r.Values())
}

func TestRegisterOverwriteKeepsPosition(t *testing.T) {
	r := New[string, string]()
	r.Register("first", "a")
	r.Register("second", "b")
	r.Register("first", "c")

	assert.Equal(t, []string{"first", "second"}, r.Keys())
	assert.Equal(t, []string{"c", "b"}, r.Values())
}

func TestDelete(t *testing.T) {
	r := New[string, int]()
	r.Register("a", 1)
	r.Register("b", 2)
	r.Register("c", 3)

	r.Delete("b")
	r.Delete("missing")

	assert.False(t, r.Has("b"))
	assert.Equal(t, []string{"a", "c"}, r.Keys())

	r.Register("b", 4)
	assert.Equal(t, []string{"a", "c", "b"}, r.Keys())
}

func TestRangeOrderAndStop(t *testing.T) {
	r := New[string, int]()
	r.Register("x", 1)
	r.Register("y", 2)
	r.Register("z", 3)

	var seen []string
	r.Range(func(k string, _ int) bool {
		seen = append(seen, k)
		return k != "y"
	})

	assert.Equal(t, []string{"x", "y"}, seen)
}

func TestRangeMutationDuringIteration(t *testing.T) {
	r := New[string, int]()
	r.Register("a", 1)
	r.Register("b", 2)

	count := 0
	r.Range(func(k string, _ int) bool {
		count++
		r.Delete(k)
		r.Register(k+"-new", 0)
		return true
	})

	assert.Equal(t, 2, count)
	assert.Equal(t, []string{"a-new", "b-new"}, r.Keys())
}

func TestGetOrCreate(t *testing.T) {
	r := New[string, int]()

	calls := 0
	factory := func() int {
		calls++
		return 7
	}

	assert.Equal(t, 7, r.GetOrCreate("k", factory))
	assert.Equal(t, 7, r.GetOrCreate("k", factory))
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"k"}, r.Keys())
}

func TestGetOrCreateConcurrent(t *testing.T) {
	r := New[string, int]()

	var calls atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.GetOrCreate("shared", func() int {
				calls.Add(1)
				return 1
			})
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, r.Len())
}
