package services

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/jobswipe/internal/client/cache"
	"github.com/dmitrijs2005/jobswipe/internal/client/client"
	"github.com/dmitrijs2005/jobswipe/internal/client/models"
	"github.com/dmitrijs2005/jobswipe/internal/logging"
)

// TechFeedCacheKey names the session-scoped copy of the news feed.
const TechFeedCacheKey = "tech_feed_cache"

type FeedService interface {
	// TechFeed never fails: errors are logged and yield an empty list.
	TechFeed(ctx context.Context) []models.Article
}

type feedService struct {
	http  Doer
	url   string
	store cache.Store
	log   logging.Logger
}

// NewFeedService reads the third-party feed at url and keeps the result in
// store for the rest of the session.
func NewFeedService(hc Doer, url string, store cache.Store, log logging.Logger) FeedService {
	return &feedService{http: hc, url: url, store: store, log: log}
}

func (s *feedService) TechFeed(ctx context.Context) []models.Article {
	if raw, ok, err := s.store.Get(ctx, TechFeedCacheKey); err == nil && ok {
		var cached []models.Article
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached
		}
	}

	var resp models.FeedResponse
	err := s.http.DoJSON(ctx, client.Request{
		Method:  http.MethodGet,
		Path:    s.url,
		NoAuth:  true,
		NoCache: true,
	}, &resp)
	if err != nil {
		s.log.Error(ctx, "failed to fetch tech feed", "error", err)
		return []models.Article{}
	}

	articles := resp.Articles
	if articles == nil {
		articles = []models.Article{}
	}
	if raw, err := json.Marshal(articles); err == nil {
		if err := s.store.Set(ctx, TechFeedCacheKey, raw); err != nil {
			s.log.Warn(ctx, "failed to keep tech feed", "error", err)
		}
	}
	return articles
}
