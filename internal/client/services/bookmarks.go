package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/jobswipe/internal/client/client"
	"github.com/dmitrijs2005/jobswipe/internal/client/models"
)

type BookmarksService interface {
	Create(ctx context.Context, jobID, notes string) (*models.Bookmark, error)
	List(ctx context.Context) ([]models.Bookmark, error)
	// Delete removes the bookmark of jobID.
	Delete(ctx context.Context, jobID string) error
}

type bookmarksService struct {
	http Doer
}

func NewBookmarksService(hc Doer) BookmarksService {
	return &bookmarksService{http: hc}
}

func (s *bookmarksService) Create(ctx context.Context, jobID, notes string) (*models.Bookmark, error) {
	if jobID == "" {
		return nil, fmt.Errorf("%w: job id is empty", ErrInvalidArgument)
	}

	var b models.Bookmark
	err := s.http.DoJSON(ctx, client.Request{
		Method: http.MethodPost,
		Path:   "/bookmarks",
		Body:   models.CreateBookmarkRequest{JobID: jobID, Notes: notes},
	}, &b)
	if err != nil {
		return nil, fmt.Errorf("create bookmark for %s: %w", jobID, err)
	}
	if b.JobID == "" {
		b.JobID = jobID
	}
	return &b, nil
}

func (s *bookmarksService) List(ctx context.Context) ([]models.Bookmark, error) {
	var out []models.Bookmark
	if err := s.http.DoJSON(ctx, client.Request{Method: http.MethodGet, Path: "/bookmarks"}, &out); err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return out, nil
}

func (s *bookmarksService) Delete(ctx context.Context, jobID string) error {
	if jobID == "" {
		return fmt.Errorf("%w: job id is empty", ErrInvalidArgument)
	}
	if _, err := s.http.Do(ctx, client.Request{Method: http.MethodDelete, Path: "/bookmarks/" + url.PathEscape(jobID)}); err != nil {
		return fmt.Errorf("delete bookmark of %s: %w", jobID, err)
	}
	return nil
}
