package views

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/jobswipe/internal/client/models"
	"github.com/dmitrijs2005/jobswipe/internal/client/services"
)

type Dashboard struct {
	svc services.AnalyticsService
}

func NewDashboard(svc services.AnalyticsService) *Dashboard {
	return &Dashboard{svc: svc}
}

type StatusShare struct {
	Status  models.ApplicationStatus
	Count   int
	Percent int
}

type Summary struct {
	Analytics models.CandidateAnalytics
	// Shares follows the breakdown order; Percent is relative to
	// TotalApplications.
	Shares []StatusShare
}

func (d *Dashboard) Load(ctx context.Context) (*Summary, error) {
	a, err := d.svc.Candidate(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dashboard: %w", err)
	}

	s := &Summary{Analytics: *a, Shares: make([]StatusShare, 0, len(a.ApplicationsBreakdown))}
	for _, b := range a.ApplicationsBreakdown {
		share := StatusShare{Status: b.Status, Count: b.Count}
		if a.TotalApplications > 0 {
			share.Percent = b.Count * 100 / a.TotalApplications
		}
		s.Shares = append(s.Shares, share)
	}
	return s, nil
}
