package bridge

import (
	"sync"
	"testing"
	"time"

	"github.com/glimte/sqlbridge-go/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopItem() *workItem {
	return newWorkItem(contracts.KindGeneric, func() (any, error) { return nil, nil })
}

func TestTaskQueue(t *testing.T) {
	t.Run("pop returns items in push order", func(t *testing.T) {
		q := newTaskQueue()

		items := make([]*workItem, 5)
		for i := range items {
			items[i] = noopItem()
			q.push(items[i])
		}

		for i := range items {
			got, ok := q.pop(time.Second)
			require.True(t, ok)
			assert.Same(t, items[i], got, "item %d out of order", i)
		}
	})

	t.Run("pop times out on empty queue", func(t *testing.T) {
		q := newTaskQueue()

		start := time.Now()
		item, ok := q.pop(20 * time.Millisecond)

		assert.False(t, ok)
		assert.Nil(t, item)
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("pop wakes on push from another goroutine", func(t *testing.T) {
		q := newTaskQueue()
		pushed := noopItem()

		go func() {
			time.Sleep(10 * time.Millisecond)
			q.push(pushed)
		}()

		got, ok := q.pop(time.Second)
		require.True(t, ok)
		assert.Same(t, pushed, got)
	})

	t.Run("concurrent producers lose no items", func(t *testing.T) {
		q := newTaskQueue()

		const producers = 8
		const perProducer = 50

		var wg sync.WaitGroup
		for p := 0; p < producers; p++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < perProducer; i++ {
					q.push(noopItem())
				}
			}()
		}
		wg.Wait()

		received := 0
		for {
			_, ok := q.pop(10 * time.Millisecond)
			if !ok {
				break
			}
			received++
		}

		assert.Equal(t, producers*perProducer, received)
		assert.Equal(t, 0, q.depth())
	})

	t.Run("depth tracks queued items", func(t *testing.T) {
		q := newTaskQueue()
		assert.Equal(t, 0, q.depth())

		q.push(noopItem())
		q.push(noopItem())
		assert.Equal(t, 2, q.depth())

		_, ok := q.tryPop()
		require.True(t, ok)
		assert.Equal(t, 1, q.depth())
	})

	t.Run("stale signal does not produce a phantom item", func(t *testing.T) {
		q := newTaskQueue()

		q.push(noopItem())
		_, ok := q.tryPop()
		require.True(t, ok)

		// The push's wakeup signal is still buffered; pop must re-check and
		// time out rather than return a nil item.
		item, ok := q.pop(20 * time.Millisecond)
		assert.False(t, ok)
		assert.Nil(t, item)
	})
}

func TestCompletion(t *testing.T) {
	t.Run("resolves exactly once", func(t *testing.T) {
		c := newCompletion()

		c.resolve(1, nil)
		c.resolve(2, nil)
		c.resolve(nil, assert.AnError)

		out := <-c.ch
		assert.Equal(t, 1, out.value)
		assert.NoError(t, out.err)

		select {
		case extra := <-c.ch:
			t.Fatalf("completion resolved more than once: %+v", extra)
		default:
		}
	})

	t.Run("concurrent resolution settles on a single outcome", func(t *testing.T) {
		c := newCompletion()

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(v int) {
				defer wg.Done()
				c.resolve(v, nil)
			}(i)
		}
		wg.Wait()

		out := <-c.ch
		assert.NoError(t, out.err)
		assert.IsType(t, 0, out.value)

		select {
		case <-c.ch:
			t.Fatal("more than one outcome delivered")
		default:
		}
	})

	t.Run("resolving an abandoned completion does not block", func(t *testing.T) {
		c := newCompletion()

		done := make(chan struct{})
		go func() {
			// Nobody ever receives; resolve must still return.
			c.resolve("orphaned", nil)
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("resolve blocked on abandoned completion")
		}
	})
}
