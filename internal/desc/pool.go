package desc

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zerojuls/ScheduleStorm-Server/internal/logger"
	"github.com/zerojuls/ScheduleStorm-Server/internal/model"
)

// Fetcher retrieves the calendar page for one course. ok reports whether the
// page resolved with a success status; a false ok is a soft failure, not an
// error.
type Fetcher interface {
	DescriptionPage(ctx context.Context, subject, coursenum string) (body string, ok bool, err error)
}

// Sink receives the mined descriptions.
type Sink interface {
	UpsertDescription(ctx context.Context, d model.CourseDescription) error
}

// Pool fetches course descriptions with a bounded number of concurrent
// workers. Task ordering across workers is unspecified; every upsert is
// independently keyed by (subject, coursenum), so reordering is safe.
type Pool struct {
	workers int
	fetcher Fetcher
	sink    Sink
}

// NewPool creates a pool of the given concurrency.
func NewPool(workers int, fetcher Fetcher, sink Sink) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		workers: workers,
		fetcher: fetcher,
		sink:    sink,
	}
}

// Run drains the given tasks and blocks until every one has been fetched and
// stored. A failed task degrades to a partial description; it never
// terminates its worker or the drain.
func (p *Pool) Run(ctx context.Context, tasks []model.FetchTask) {
	if len(tasks) == 0 {
		return
	}

	queue := make(chan model.FetchTask, len(tasks))
	for _, t := range tasks {
		queue <- t
	}
	close(queue)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < p.workers; i++ {
		g.Go(func() error {
			for task := range queue {
				p.process(ctx, task)
			}
			return nil
		})
	}
	g.Wait()
}

// process handles a single task end to end.
func (p *Pool) process(ctx context.Context, task model.FetchTask) {
	logger.Info("fetching course description", logger.Fields{
		"subject":   task.Subject,
		"coursenum": task.CourseNum,
	})

	start := time.Now()
	body, ok, err := p.fetcher.DescriptionPage(ctx, task.Subject, task.CourseNum)
	logger.RecordTiming("desc.fetch", time.Since(start))

	var d model.CourseDescription
	switch {
	case err != nil:
		logger.Error("couldn't fetch description", logger.Fields{
			"subject":   task.Subject,
			"coursenum": task.CourseNum,
		}, err)
		d = Partial(task)

	case !ok || strings.Contains(body, notFoundMarker):
		d = Partial(task)

	default:
		d = Parse(body, task)
	}

	if err := p.sink.UpsertDescription(ctx, d); err != nil {
		logger.Error("couldn't store description", logger.Fields{
			"subject":   task.Subject,
			"coursenum": task.CourseNum,
		}, err)
		return
	}
	logger.IncrCounter("descriptions.upserted")
}
