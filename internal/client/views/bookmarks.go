package views

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/jobswipe/internal/client/metrics"
	"github.com/dmitrijs2005/jobswipe/internal/client/models"
	"github.com/dmitrijs2005/jobswipe/internal/client/optimistic"
	"github.com/dmitrijs2005/jobswipe/internal/client/services"
)

var bookmarksMessages = optimistic.Messages{
	RateLimited: "Too many requests. Please wait a moment.",
	Failed:      "Failed to remove bookmark. Please try again.",
}

// Bookmarks lists saved jobs. Entries are keyed and removed by job id.
type Bookmarks struct {
	svc  services.BookmarksService
	list *optimistic.List[models.Bookmark]
}

func NewBookmarks(svc services.BookmarksService, m *metrics.Client) *Bookmarks {
	return &Bookmarks{
		svc:  svc,
		list: optimistic.New[models.Bookmark](nil, listOptions("bookmarks", m, bookmarksMessages)...),
	}
}

func (b *Bookmarks) Load(ctx context.Context) error {
	items, err := b.svc.List(ctx)
	if err != nil {
		return fmt.Errorf("load bookmarks: %w", err)
	}
	b.list.Replace(items)
	return nil
}

func (b *Bookmarks) Items() []models.Bookmark {
	return b.list.Items()
}

func (b *Bookmarks) Remove(ctx context.Context, jobID string) <-chan optimistic.Result[models.Bookmark] {
	return b.list.Go(ctx, jobID, func(ctx context.Context, bm models.Bookmark) (any, error) {
		return nil, b.svc.Delete(ctx, bm.JobID)
	})
}

func (b *Bookmarks) Reset() {
	b.list.Reset()
}

func (b *Bookmarks) Close() {
	b.list.Detach()
}
