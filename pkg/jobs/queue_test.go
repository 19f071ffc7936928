package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJobs(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]int{}
	done := make(chan struct{}, 3)

	q := NewQueue("test", func(ctx context.Context, job Job) error {
		mu.Lock()
		seen[job.ID]++
		mu.Unlock()
		done <- struct{}{}
		return nil
	}, QueueConfig{Workers: 2})

	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "a", Type: "push"}))
	require.NoError(t, q.Enqueue(Job{ID: "b", Type: "push"}))
	require.NoError(t, q.Enqueue(Job{ID: "c", Type: "push"}))

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for jobs")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, map[string]int{"a": 1, "b": 1, "c": 1}, seen)
}

func TestQueueHandlerErrorNotRequeued(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	done := make(chan struct{}, 1)

	q := NewQueue("test", func(ctx context.Context, job Job) error {
		mu.Lock()
		calls++
		mu.Unlock()
		done <- struct{}{}
		return errors.New("boom")
	}, QueueConfig{Workers: 1})

	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "a", Type: "push"}))
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for job")
	}

	// Give a would-be requeue a moment to show up.
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestQueueEnqueueBeforeStart(t *testing.T) {
	q := NewQueue("test", func(ctx context.Context, job Job) error { return nil }, QueueConfig{})
	err := q.Enqueue(Job{ID: "a"})
	require.Error(t, err)
}

func TestQueueEnqueueStampsTime(t *testing.T) {
	received := make(chan Job, 1)
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		received <- job
		return nil
	}, QueueConfig{Workers: 1})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "a"}))
	select {
	case job := <-received:
		assert.False(t, job.Enqueued.IsZero())
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for job")
	}
}
