package desc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/zerojuls/ScheduleStorm-Server/internal/model"
)

type fakeFetcher struct {
	mu      sync.Mutex
	calls   int
	body    string
	ok      bool
	err     error
	latency time.Duration
}

func (f *fakeFetcher) DescriptionPage(ctx context.Context, subject, coursenum string) (string, bool, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.latency > 0 {
		time.Sleep(f.latency)
	}
	return f.body, f.ok, f.err
}

type fakeSink struct {
	mu    sync.Mutex
	descs []model.CourseDescription
}

func (s *fakeSink) UpsertDescription(ctx context.Context, d model.CourseDescription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.descs = append(s.descs, d)
	return nil
}

func TestPoolDrainsAllTasks(t *testing.T) {
	const numTasks = 12

	fetcher := &fakeFetcher{
		body:    `<article class="welcome"><p>3 credits<br>A course.</p></article>`,
		ok:      true,
		latency: time.Millisecond,
	}
	sink := &fakeSink{}

	tasks := make([]model.FetchTask, 0, numTasks)
	for i := 0; i < numTasks; i++ {
		tasks = append(tasks, model.FetchTask{
			CourseNum: fmt.Sprintf("%d", 1100+i),
			Subject:   "PHIL",
			Title:     "A Course",
		})
	}

	// Fewer workers than tasks: Run must still block until every task is
	// fetched and stored.
	pool := NewPool(3, fetcher, sink)
	pool.Run(context.Background(), tasks)

	if fetcher.calls != numTasks {
		t.Errorf("fetch calls = %d, want %d", fetcher.calls, numTasks)
	}
	if len(sink.descs) != numTasks {
		t.Errorf("stored descriptions = %d, want %d", len(sink.descs), numTasks)
	}
}

func TestPoolSoftErrorStoresPartial(t *testing.T) {
	tests := []struct {
		name    string
		fetcher *fakeFetcher
	}{
		{"non-success response", &fakeFetcher{body: "", ok: false}},
		{"not found marker", &fakeFetcher{body: "page not found", ok: true}},
		{"fetch error", &fakeFetcher{err: errors.New("connection reset")}},
	}

	task := model.FetchTask{CourseNum: "1101", Subject: "PHIL", Title: "Critical Thinking"}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &fakeSink{}
			pool := NewPool(1, tt.fetcher, sink)
			pool.Run(context.Background(), []model.FetchTask{task})

			if len(sink.descs) != 1 {
				t.Fatalf("stored descriptions = %d, want 1", len(sink.descs))
			}
			if sink.descs[0] != Partial(task) {
				t.Errorf("stored %+v, want partial record", sink.descs[0])
			}
		})
	}
}

func TestPoolNoTasks(t *testing.T) {
	pool := NewPool(4, &fakeFetcher{}, &fakeSink{})
	// Must return immediately instead of blocking on an empty queue.
	pool.Run(context.Background(), nil)
}
