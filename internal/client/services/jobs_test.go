package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/jobswipe/internal/client/client"
	"github.com/dmitrijs2005/jobswipe/internal/client/models"
	"github.com/stretchr/testify/require"
)

func TestFeed(t *testing.T) {
	d := &fakeDoer{body: `{"jobs":[{"id":"j1","company":{"name":"Acme"}}],"all":[{"id":"j1"},{"id":"j2"}]}`}
	feed, err := NewJobsService(d).Feed(context.Background())
	require.NoError(t, err)
	require.Len(t, feed.Jobs, 1)
	require.Equal(t, "Acme", feed.Jobs[0].Company.Name)
	require.Len(t, feed.All, 2)
	require.Equal(t, http.MethodGet, d.last().Method)
	require.Equal(t, "/jobs/feed", d.last().Path)
}

func TestSwipe(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantKind    models.SwipeKind
		wantSuccess bool
		wantMatchID string
	}{
		{"ack", `{"success":true}`, models.SwipeAck, true, ""},
		{"ack false", `{"success":false}`, models.SwipeAck, false, ""},
		{"empty", ``, models.SwipeAck, true, ""},
		{"match", `{"id":"m1","job_id":"j1","reveal_status":true,"explainability_json":{"reason":"skills"}}`, models.SwipeMatch, true, "m1"},
		{"hidden match", `{"id":"m2","reveal_status":false}`, models.SwipeMatch, true, "m2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDoer{body: tt.body}
			res, err := NewJobsService(d).Swipe(context.Background(), "j1", models.DirectionRight)
			require.NoError(t, err)
			require.Equal(t, tt.wantKind, res.Kind)
			require.Equal(t, tt.wantSuccess, res.Success)
			if tt.wantMatchID != "" {
				require.True(t, res.IsMatch())
				require.Equal(t, tt.wantMatchID, res.Match.ID)
			} else {
				require.False(t, res.IsMatch())
			}

			req := d.last()
			require.Equal(t, "/jobs/swipe", req.Path)
			require.Equal(t, models.SwipeRequest{JobID: "j1", Direction: models.DirectionRight}, req.Body)
		})
	}
}

func TestSwipe_Validation(t *testing.T) {
	d := &fakeDoer{}
	_, err := NewJobsService(d).Swipe(context.Background(), "", models.DirectionLeft)
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewJobsService(d).Swipe(context.Background(), "j1", "up")
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.Equal(t, 0, d.calls())
}

func TestSwipe_ErrorKeepsClassification(t *testing.T) {
	d := &fakeDoer{err: &client.APIError{StatusCode: 429}}
	_, err := NewJobsService(d).Swipe(context.Background(), "j1", models.DirectionLeft)
	require.ErrorIs(t, err, client.ErrRateLimited)
}

func TestSwipe_MalformedMatch(t *testing.T) {
	d := &fakeDoer{body: `{"reveal_status":"yes"}`}
	_, err := NewJobsService(d).Swipe(context.Background(), "j1", models.DirectionRight)
	require.Error(t, err)
}
