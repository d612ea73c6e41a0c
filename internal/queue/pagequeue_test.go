package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swigspot/gswcrawl/internal/domain"
	"github.com/swigspot/gswcrawl/internal/queue"
)

func TestEnqueueDeduplicates(t *testing.T) {
	q := queue.New()

	assert.True(t, q.Enqueue(domain.NewPage("http://a.ch/1", ""), 1))
	assert.False(t, q.Enqueue(domain.NewPage("http://a.ch/1", ""), 2))
	assert.True(t, q.Enqueue(domain.NewPage("http://a.ch/2", ""), 1))
	assert.Equal(t, 2, q.Size())

	// dedup persists after dequeue: the seen-set covers the whole run
	_, ok := q.TryDequeue()
	require.True(t, ok)
	assert.False(t, q.Enqueue(domain.NewPage("http://a.ch/1", ""), 1))
}

func TestEnqueueRejectsBinarySuffixes(t *testing.T) {
	q := queue.New()

	for _, u := range []string{
		"http://a.ch/img.jpg",
		"http://a.ch/img.JPEG",
		"http://a.ch/doc.pdf",
		"http://a.ch/pic.png",
	} {
		assert.False(t, q.Enqueue(domain.NewPage(u, ""), 1), u)
	}
	assert.True(t, q.Empty())
}

func TestDequeueFIFO(t *testing.T) {
	q := queue.New()
	q.Enqueue(domain.NewPage("http://a.ch/1", ""), 1)
	q.Enqueue(domain.NewPage("http://a.ch/2", ""), 2)

	item, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "http://a.ch/1", item.Page.URL)
	assert.Equal(t, 1, item.Depth)

	item, err = q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "http://a.ch/2", item.Page.URL)
	assert.True(t, q.Empty())
}

func TestDequeueBlocksUntilEnqueue(t *testing.T) {
	q := queue.New()

	done := make(chan string)
	go func() {
		item, err := q.Dequeue(context.Background())
		if err != nil {
			done <- err.Error()
			return
		}
		done <- item.Page.URL
	}()

	time.Sleep(20 * time.Millisecond)
	q.Enqueue(domain.NewPage("http://a.ch/late", ""), 1)

	select {
	case got := <-done:
		assert.Equal(t, "http://a.ch/late", got)
	case <-time.After(2 * time.Second):
		t.Fatal("dequeue did not wake up")
	}
}

func TestDequeueCancellation(t *testing.T) {
	q := queue.New()
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error)
	go func() {
		_, err := q.Dequeue(ctx)
		errc <- err
	}()

	cancel()
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("dequeue did not observe cancellation")
	}
}
