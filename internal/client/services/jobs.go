package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/jobswipe/internal/client/client"
	"github.com/dmitrijs2005/jobswipe/internal/client/models"
	"github.com/tidwall/gjson"
)

type JobsService interface {
	Feed(ctx context.Context) (*models.JobFeed, error)
	Swipe(ctx context.Context, jobID string, dir models.Direction) (models.SwipeResult, error)
}

type jobsService struct {
	http Doer
}

func NewJobsService(hc Doer) JobsService {
	return &jobsService{http: hc}
}

func (s *jobsService) Feed(ctx context.Context) (*models.JobFeed, error) {
	var feed models.JobFeed
	if err := s.http.DoJSON(ctx, client.Request{Method: http.MethodGet, Path: "/jobs/feed"}, &feed); err != nil {
		return nil, fmt.Errorf("get job feed: %w", err)
	}
	return &feed, nil
}

// Swipe posts the decision. A response carrying "reveal_status" is a Match;
// anything else is a plain acknowledgment.
func (s *jobsService) Swipe(ctx context.Context, jobID string, dir models.Direction) (models.SwipeResult, error) {
	if jobID == "" {
		return models.SwipeResult{}, fmt.Errorf("%w: job id is empty", ErrInvalidArgument)
	}
	if !dir.Valid() {
		return models.SwipeResult{}, fmt.Errorf("%w: direction %q", ErrInvalidArgument, dir)
	}

	resp, err := s.http.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   "/jobs/swipe",
		Body:   models.SwipeRequest{JobID: jobID, Direction: dir},
	})
	if err != nil {
		return models.SwipeResult{}, fmt.Errorf("swipe %s %s: %w", dir, jobID, err)
	}
	return decodeSwipe(resp.Body)
}

func decodeSwipe(body []byte) (models.SwipeResult, error) {
	if gjson.GetBytes(body, "reveal_status").Exists() {
		var m models.Match
		if err := json.Unmarshal(body, &m); err != nil {
			return models.SwipeResult{}, fmt.Errorf("decode match: %w", err)
		}
		return models.SwipeResult{Kind: models.SwipeMatch, Success: true, Match: &m}, nil
	}

	success := true
	if v := gjson.GetBytes(body, "success"); v.Exists() {
		success = v.Bool()
	}
	return models.SwipeResult{Kind: models.SwipeAck, Success: success}, nil
}
