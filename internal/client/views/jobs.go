package views

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/jobswipe/internal/client/metrics"
	"github.com/dmitrijs2005/jobswipe/internal/client/models"
	"github.com/dmitrijs2005/jobswipe/internal/client/optimistic"
	"github.com/dmitrijs2005/jobswipe/internal/client/services"
)

var jobsMessages = optimistic.Messages{
	RateLimited: "Daily quota exceeded: swipe limit reached, try again tomorrow.",
	Failed:      "Failed to save your choice. Please try again.",
}

// JobsQueue drives the swipe page. The head of the queue is the card on
// screen; swiping or bookmarking it advances immediately.
type JobsQueue struct {
	jobs      services.JobsService
	bookmarks services.BookmarksService
	list      *optimistic.List[models.Job]

	mu  sync.RWMutex
	all []models.Job
}

func NewJobsQueue(jobs services.JobsService, bookmarks services.BookmarksService, m *metrics.Client) *JobsQueue {
	return &JobsQueue{
		jobs:      jobs,
		bookmarks: bookmarks,
		list:      optimistic.New[models.Job](nil, listOptions("jobs", m, jobsMessages)...),
	}
}

// Load seeds the queue from the personalised feed.
func (q *JobsQueue) Load(ctx context.Context) error {
	feed, err := q.jobs.Feed(ctx)
	if err != nil {
		return fmt.Errorf("load jobs: %w", err)
	}
	q.list.Replace(feed.Jobs)

	q.mu.Lock()
	q.all = append([]models.Job(nil), feed.All...)
	q.mu.Unlock()
	return nil
}

func (q *JobsQueue) Current() (models.Job, bool) {
	return q.list.Head()
}

func (q *JobsQueue) Remaining() []models.Job {
	return q.list.Items()
}

// Catalogue is the unfiltered job list of the last load.
func (q *JobsQueue) Catalogue() []models.Job {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return append([]models.Job(nil), q.all...)
}

// Swipe removes jobID and records the decision. A match is delivered as the
// result's Effect (*models.Match).
func (q *JobsQueue) Swipe(ctx context.Context, jobID string, dir models.Direction) <-chan optimistic.Result[models.Job] {
	return q.list.Go(ctx, jobID, func(ctx context.Context, job models.Job) (any, error) {
		res, err := q.jobs.Swipe(ctx, job.ID, dir)
		if err != nil {
			return nil, err
		}
		if res.IsMatch() {
			return res.Match, nil
		}
		return nil, nil
	})
}

// Bookmark saves jobID for later and removes it from the queue.
func (q *JobsQueue) Bookmark(ctx context.Context, jobID, notes string) <-chan optimistic.Result[models.Job] {
	return q.list.Go(ctx, jobID, func(ctx context.Context, job models.Job) (any, error) {
		_, err := q.bookmarks.Create(ctx, job.ID, notes)
		return nil, err
	})
}

// Reset empties the queue, as when the signed-in user changes.
func (q *JobsQueue) Reset() {
	q.list.Reset()
	q.mu.Lock()
	q.all = nil
	q.mu.Unlock()
}

// Close detaches the queue; in-flight completions become no-ops.
func (q *JobsQueue) Close() {
	q.list.Detach()
}
