package interceptors

import (
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/glimte/sqlbridge-go/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingCollector is a test double for MetricsCollector.
type recordingCollector struct {
	mu         sync.Mutex
	counts     map[string]int
	errCounts  map[string]int
	waits      []time.Duration
	executions []time.Duration
}

func newRecordingCollector() *recordingCollector {
	return &recordingCollector{
		counts:    make(map[string]int),
		errCounts: make(map[string]int),
	}
}

func (c *recordingCollector) IncrementOperationCount(kind string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[kind]++
}

func (c *recordingCollector) RecordQueueWait(kind string, wait time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.waits = append(c.waits, wait)
}

func (c *recordingCollector) RecordExecutionTime(kind string, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.executions = append(c.executions, duration)
}

func (c *recordingCollector) IncrementErrorCount(kind string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errCounts[kind]++
}

func TestChain(t *testing.T) {
	t.Run("empty chain invokes the operation directly", func(t *testing.T) {
		chain := NewChain(nil)

		v, err := chain.Execute(contracts.NewOperationInfo(contracts.KindExec), func() (any, error) {
			return "done", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "done", v)
	})

	t.Run("interceptors run in registration order", func(t *testing.T) {
		var order []string
		mk := func(name string) Interceptor {
			return NewInterceptorFunc(name, func(info contracts.OperationInfo, next contracts.Operation) (any, error) {
				order = append(order, name+":before")
				v, err := next()
				order = append(order, name+":after")
				return v, err
			})
		}

		chain := NewChain(nil).Add(mk("outer")).Add(mk("inner"))
		assert.Equal(t, 2, chain.Len())

		_, err := chain.Execute(contracts.NewOperationInfo(contracts.KindExec), func() (any, error) {
			order = append(order, "op")
			return nil, nil
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"outer:before", "inner:before", "op", "inner:after", "outer:after"}, order)
	})

	t.Run("an interceptor can short-circuit the chain", func(t *testing.T) {
		denied := errors.New("operation denied")
		chain := NewChain(nil).Add(NewInterceptorFunc("deny", func(info contracts.OperationInfo, next contracts.Operation) (any, error) {
			return nil, denied
		}))

		ran := false
		_, err := chain.Execute(contracts.NewOperationInfo(contracts.KindExec), func() (any, error) {
			ran = true
			return nil, nil
		})

		assert.ErrorIs(t, err, denied)
		assert.False(t, ran)
	})
}

func TestLoggingInterceptor(t *testing.T) {
	t.Run("passes value and error through unchanged", func(t *testing.T) {
		i := NewLoggingInterceptor(slog.Default())
		info := contracts.NewOperationInfo(contracts.KindQuery)

		v, err := i.Intercept(info, func() (any, error) { return 7, nil })
		require.NoError(t, err)
		assert.Equal(t, 7, v)

		boom := errors.New("boom")
		_, err = i.Intercept(info, func() (any, error) { return nil, boom })
		assert.ErrorIs(t, err, boom)
	})

	t.Run("has a name", func(t *testing.T) {
		assert.Equal(t, "LoggingInterceptor", NewLoggingInterceptor(nil).Name())
	})
}

func TestMetricsInterceptor(t *testing.T) {
	t.Run("records counts waits and durations", func(t *testing.T) {
		collector := newRecordingCollector()
		i := NewMetricsInterceptor(collector)
		info := contracts.NewOperationInfo(contracts.KindExec)

		_, err := i.Intercept(info, func() (any, error) {
			time.Sleep(time.Millisecond)
			return nil, nil
		})
		require.NoError(t, err)

		assert.Equal(t, 1, collector.counts["exec"])
		assert.Empty(t, collector.errCounts)
		require.Len(t, collector.executions, 1)
		assert.GreaterOrEqual(t, collector.executions[0], time.Millisecond)
		assert.Len(t, collector.waits, 1)
	})

	t.Run("counts failures by kind", func(t *testing.T) {
		collector := newRecordingCollector()
		i := NewMetricsInterceptor(collector)
		info := contracts.NewOperationInfo(contracts.KindQuery)

		_, err := i.Intercept(info, func() (any, error) {
			return nil, errors.New("no such table")
		})
		require.Error(t, err)

		assert.Equal(t, 1, collector.counts["query"])
		assert.Equal(t, 1, collector.errCounts["query"])
	})
}
