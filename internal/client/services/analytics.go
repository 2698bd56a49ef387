package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/jobswipe/internal/client/client"
	"github.com/dmitrijs2005/jobswipe/internal/client/models"
)

type AnalyticsService interface {
	Candidate(ctx context.Context) (*models.CandidateAnalytics, error)
}

type analyticsService struct {
	http Doer
}

func NewAnalyticsService(hc Doer) AnalyticsService {
	return &analyticsService{http: hc}
}

func (s *analyticsService) Candidate(ctx context.Context) (*models.CandidateAnalytics, error) {
	var a models.CandidateAnalytics
	if err := s.http.DoJSON(ctx, client.Request{Method: http.MethodGet, Path: "/analytics/candidate"}, &a); err != nil {
		return nil, fmt.Errorf("get candidate analytics: %w", err)
	}
	return &a, nil
}
