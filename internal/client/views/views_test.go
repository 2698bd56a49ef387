package views

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/jobswipe/internal/client/client"
	"github.com/dmitrijs2005/jobswipe/internal/client/metrics"
	"github.com/dmitrijs2005/jobswipe/internal/client/models"
	"github.com/dmitrijs2005/jobswipe/internal/client/optimistic"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func jobIDs(jobs []models.Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func loadedQueue(t *testing.T, jobs *fakeJobs, bm *fakeBookmarks, m *metrics.Client) *JobsQueue {
	t.Helper()
	if jobs.feed == nil {
		jobs.feed = &models.JobFeed{
			Jobs: []models.Job{{ID: "A"}, {ID: "B"}, {ID: "C"}},
			All:  []models.Job{{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D"}},
		}
	}
	q := NewJobsQueue(jobs, bm, m)
	require.NoError(t, q.Load(context.Background()))
	return q
}

func TestJobsQueue_Load(t *testing.T) {
	q := loadedQueue(t, &fakeJobs{}, &fakeBookmarks{}, nil)

	cur, ok := q.Current()
	require.True(t, ok)
	require.Equal(t, "A", cur.ID)
	require.Equal(t, []string{"A", "B", "C"}, jobIDs(q.Remaining()))
	require.Len(t, q.Catalogue(), 4)

	failing := NewJobsQueue(&fakeJobs{feedErr: client.ErrUnavailable}, &fakeBookmarks{}, nil)
	require.ErrorIs(t, failing.Load(context.Background()), client.ErrUnavailable)
}

func TestJobsQueue_SwipeAck(t *testing.T) {
	jobs := &fakeJobs{swipeResult: models.SwipeResult{Kind: models.SwipeAck, Success: true}}
	q := loadedQueue(t, jobs, &fakeBookmarks{}, nil)

	res := <-q.Swipe(context.Background(), "A", models.DirectionLeft)
	require.Equal(t, optimistic.Done, res.Outcome)
	require.Equal(t, []string{"B", "C"}, jobIDs(q.Remaining()))
	require.Equal(t, []models.SwipeRequest{{JobID: "A", Direction: models.DirectionLeft}}, jobs.swipes)
}

func TestJobsQueue_SwipeMatchIsNotReinserted(t *testing.T) {
	match := &models.Match{ID: "m1", JobID: "j1", RevealStatus: true}
	jobs := &fakeJobs{
		feed:        &models.JobFeed{Jobs: []models.Job{{ID: "j1"}, {ID: "j2"}}},
		swipeResult: models.SwipeResult{Kind: models.SwipeMatch, Success: true, Match: match},
	}
	q := loadedQueue(t, jobs, &fakeBookmarks{}, nil)

	res := <-q.Swipe(context.Background(), "j1", models.DirectionRight)
	require.Equal(t, optimistic.Effect, res.Outcome)
	require.Same(t, match, res.Effect.(*models.Match))
	require.Equal(t, []string{"j2"}, jobIDs(q.Remaining()))
}

func TestJobsQueue_SwipeRollback(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		outcome optimistic.Outcome
		msg     string
	}{
		{"rate limited", &client.APIError{StatusCode: 429}, optimistic.RateLimited, jobsMessages.RateLimited},
		{"server error", &client.APIError{StatusCode: 502}, optimistic.Failed, jobsMessages.Failed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.New()
			q := loadedQueue(t, &fakeJobs{swipeErr: tt.err}, &fakeBookmarks{}, m)

			res := <-q.Swipe(context.Background(), "A", models.DirectionRight)
			require.Equal(t, tt.outcome, res.Outcome)
			require.Equal(t, tt.msg, res.Message())
			require.Equal(t, []string{"A", "B", "C"}, jobIDs(q.Remaining()))

			n, err := testutil.GatherAndCount(m.Registry(), "jobswipe_client_optimistic_rollbacks_total")
			require.NoError(t, err)
			require.Equal(t, 1, n)
		})
	}
}

func TestJobsQueue_DoubleSwipeIsOneCall(t *testing.T) {
	gate := make(chan struct{})
	jobs := &fakeJobs{swipeGate: gate}
	q := loadedQueue(t, jobs, &fakeBookmarks{}, nil)

	first := q.Swipe(context.Background(), "A", models.DirectionRight)
	second := q.Swipe(context.Background(), "A", models.DirectionRight)

	require.Equal(t, optimistic.Skipped, (<-second).Outcome)
	close(gate)
	require.Equal(t, optimistic.Done, (<-first).Outcome)
	require.Equal(t, 1, jobs.swipeCount())
}

func TestJobsQueue_Bookmark(t *testing.T) {
	bm := &fakeBookmarks{}
	q := loadedQueue(t, &fakeJobs{}, bm, nil)

	res := <-q.Bookmark(context.Background(), "B", "looks good")
	require.Equal(t, optimistic.Done, res.Outcome)
	require.Equal(t, []string{"A", "C"}, jobIDs(q.Remaining()))
	require.Equal(t, []models.CreateBookmarkRequest{{JobID: "B", Notes: "looks good"}}, bm.created)

	bm.createErr = errors.New("offline")
	res = <-q.Bookmark(context.Background(), "C", "")
	require.Equal(t, optimistic.Failed, res.Outcome)
	require.Equal(t, []string{"C", "A"}, jobIDs(q.Remaining()))
}

func TestJobsQueue_CloseMakesLateCompletionsNoop(t *testing.T) {
	gate := make(chan struct{})
	q := loadedQueue(t, &fakeJobs{swipeGate: gate, swipeErr: errors.New("late")}, &fakeBookmarks{}, nil)

	ch := q.Swipe(context.Background(), "A", models.DirectionLeft)
	q.Close()
	close(gate)

	require.Equal(t, optimistic.Failed, (<-ch).Outcome)
	require.Equal(t, []string{"B", "C"}, jobIDs(q.Remaining()))
}

func TestBookmarks_RemoveByJobID(t *testing.T) {
	svc := &fakeBookmarks{items: []models.Bookmark{{ID: "b1", JobID: "j1"}, {ID: "b2", JobID: "j2"}}}
	v := NewBookmarks(svc, nil)
	require.NoError(t, v.Load(context.Background()))

	require.Equal(t, optimistic.Skipped, (<-v.Remove(context.Background(), "b1")).Outcome)
	require.Empty(t, svc.deleted)

	res := <-v.Remove(context.Background(), "j1")
	require.Equal(t, optimistic.Done, res.Outcome)
	require.Equal(t, "b1", res.Item.ID)
	require.Len(t, v.Items(), 1)
	require.Equal(t, []string{"j1"}, svc.deleted)

	svc.deleteErr = &client.APIError{StatusCode: 500}
	res = <-v.Remove(context.Background(), "j2")
	require.Equal(t, optimistic.Failed, res.Outcome)
	require.Equal(t, bookmarksMessages.Failed, res.Message())
	require.Len(t, v.Items(), 1)

	require.Equal(t, optimistic.Skipped, (<-v.Remove(context.Background(), "missing")).Outcome)

	v.Close()
	require.Equal(t, optimistic.Skipped, (<-v.Remove(context.Background(), "j2")).Outcome)
}

func TestBookmarks_LoadError(t *testing.T) {
	v := NewBookmarks(&fakeBookmarks{listErr: client.ErrUnauthorized}, nil)
	require.ErrorIs(t, v.Load(context.Background()), client.ErrUnauthorized)
}

func TestApplications_FilterAndWithdraw(t *testing.T) {
	svc := &fakeApplications{items: []models.Application{{ID: "a1", Status: models.StatusPending}, {ID: "a2", Status: models.StatusPending}}}
	v := NewApplications(svc, nil)
	require.Equal(t, models.StatusAll, v.Filter())

	require.NoError(t, v.Load(context.Background(), models.StatusPending))
	require.Equal(t, models.StatusPending, svc.lastStatus)
	require.Equal(t, models.StatusPending, v.Filter())

	require.NoError(t, v.Load(context.Background(), ""))
	require.Equal(t, models.StatusPending, svc.lastStatus)

	res := <-v.Withdraw(context.Background(), "a2")
	require.Equal(t, optimistic.Done, res.Outcome)
	require.Equal(t, []string{"a2"}, svc.withdrawn)
	require.Len(t, v.Items(), 1)

	svc.withdrawErr = &client.APIError{StatusCode: 429}
	res = <-v.Withdraw(context.Background(), "a1")
	require.Equal(t, optimistic.RateLimited, res.Outcome)
	require.Equal(t, applicationsMessages.RateLimited, res.Message())
	require.Equal(t, "a1", v.Items()[0].ID)
	v.Close()
}

func TestViews_ResetForgetsPreviousUser(t *testing.T) {
	gate := make(chan struct{})
	q := loadedQueue(t, &fakeJobs{swipeGate: gate, swipeErr: errors.New("late")}, &fakeBookmarks{}, nil)
	ch := q.Swipe(context.Background(), "A", models.DirectionRight)

	q.Reset()
	close(gate)
	require.Equal(t, optimistic.Failed, (<-ch).Outcome)
	require.Empty(t, q.Remaining())
	require.Empty(t, q.Catalogue())
	_, ok := q.Current()
	require.False(t, ok)

	bm := NewBookmarks(&fakeBookmarks{items: []models.Bookmark{{ID: "b1", JobID: "j1"}}}, nil)
	require.NoError(t, bm.Load(context.Background()))
	bm.Reset()
	require.Empty(t, bm.Items())

	apps := NewApplications(&fakeApplications{items: []models.Application{{ID: "a1"}}}, nil)
	require.NoError(t, apps.Load(context.Background(), models.StatusInterview))
	apps.Reset()
	require.Empty(t, apps.Items())
	require.Equal(t, models.StatusAll, apps.Filter())
}

func TestApplications_LoadErrorKeepsFilter(t *testing.T) {
	svc := &fakeApplications{listErr: errors.New("boom")}
	v := NewApplications(svc, nil)
	require.Error(t, v.Load(context.Background(), models.StatusRejected))
	require.Equal(t, models.StatusAll, v.Filter())
}

func TestDashboard(t *testing.T) {
	d := NewDashboard(&fakeAnalytics{resp: &models.CandidateAnalytics{
		TotalMatches:      2,
		TotalApplications: 4,
		ApplicationsBreakdown: []models.ApplicationBreakdown{
			{Status: models.StatusPending, Count: 3},
			{Status: models.StatusInterview, Count: 1},
		},
	}})
	s, err := d.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, []StatusShare{
		{Status: models.StatusPending, Count: 3, Percent: 75},
		{Status: models.StatusInterview, Count: 1, Percent: 25},
	}, s.Shares)

	empty, err := NewDashboard(&fakeAnalytics{resp: &models.CandidateAnalytics{
		ApplicationsBreakdown: []models.ApplicationBreakdown{{Status: models.StatusPending}},
	}}).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, empty.Shares[0].Percent)

	_, err = NewDashboard(&fakeAnalytics{err: client.ErrUnavailable}).Load(context.Background())
	require.ErrorIs(t, err, client.ErrUnavailable)
}

func TestFeed_Limit(t *testing.T) {
	f := NewFeed(&fakeFeed{articles: []models.Article{{Title: "a"}, {Title: "b"}, {Title: "c"}}})
	require.Len(t, f.Articles(context.Background(), 2), 2)
	require.Len(t, f.Articles(context.Background(), 0), 3)
	require.Len(t, f.Articles(context.Background(), 10), 3)
}
