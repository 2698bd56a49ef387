package views

import (
	"context"

	"github.com/dmitrijs2005/jobswipe/internal/client/models"
	"github.com/dmitrijs2005/jobswipe/internal/client/services"
)

type Feed struct {
	svc services.FeedService
}

func NewFeed(svc services.FeedService) *Feed {
	return &Feed{svc: svc}
}

func (f *Feed) Articles(ctx context.Context, limit int) []models.Article {
	all := f.svc.TechFeed(ctx)
	if limit > 0 && len(all) > limit {
		return all[:limit]
	}
	return all
}
