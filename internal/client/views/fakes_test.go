package views

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/jobswipe/internal/client/models"
)

/*************
 * Fake services
 *************/

type fakeJobs struct {
	mu sync.Mutex

	feed    *models.JobFeed
	feedErr error

	swipeResult models.SwipeResult
	swipeErr    error
	swipeGate   chan struct{}
	swipes      []models.SwipeRequest
}

func (f *fakeJobs) Feed(context.Context) (*models.JobFeed, error) {
	return f.feed, f.feedErr
}

func (f *fakeJobs) Swipe(_ context.Context, jobID string, dir models.Direction) (models.SwipeResult, error) {
	f.mu.Lock()
	f.swipes = append(f.swipes, models.SwipeRequest{JobID: jobID, Direction: dir})
	gate := f.swipeGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return f.swipeResult, f.swipeErr
}

func (f *fakeJobs) swipeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.swipes)
}

type fakeBookmarks struct {
	mu sync.Mutex

	items     []models.Bookmark
	listErr   error
	createErr error
	deleteErr error

	created []models.CreateBookmarkRequest
	deleted []string
}

func (f *fakeBookmarks) Create(_ context.Context, jobID, notes string) (*models.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, models.CreateBookmarkRequest{JobID: jobID, Notes: notes})
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Bookmark{ID: "b-" + jobID, JobID: jobID}, nil
}

func (f *fakeBookmarks) List(context.Context) ([]models.Bookmark, error) {
	return f.items, f.listErr
}

func (f *fakeBookmarks) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

type fakeApplications struct {
	mu sync.Mutex

	items       []models.Application
	listErr     error
	withdrawErr error

	lastStatus models.ApplicationStatus
	withdrawn  []string
}

func (f *fakeApplications) List(_ context.Context, status models.ApplicationStatus) ([]models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastStatus = status
	return f.items, f.listErr
}

func (f *fakeApplications) Withdraw(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.withdrawn = append(f.withdrawn, id)
	return f.withdrawErr
}

type fakeAnalytics struct {
	resp *models.CandidateAnalytics
	err  error
}

func (f *fakeAnalytics) Candidate(context.Context) (*models.CandidateAnalytics, error) {
	return f.resp, f.err
}

type fakeFeed struct {
	articles []models.Article
}

func (f *fakeFeed) TechFeed(context.Context) []models.Article {
	return f.articles
}
