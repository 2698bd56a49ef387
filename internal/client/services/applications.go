package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/jobswipe/internal/client/client"
	"github.com/dmitrijs2005/jobswipe/internal/client/models"
)

type ApplicationsService interface {
	// List filters by status; "" and models.StatusAll mean no filter.
	List(ctx context.Context, status models.ApplicationStatus) ([]models.Application, error)
	Withdraw(ctx context.Context, id string) error
}

type applicationsService struct {
	http Doer
}

func NewApplicationsService(hc Doer) ApplicationsService {
	return &applicationsService{http: hc}
}

func (s *applicationsService) List(ctx context.Context, status models.ApplicationStatus) ([]models.Application, error) {
	req := client.Request{Method: http.MethodGet, Path: "/applications"}
	switch {
	case status == "" || status == models.StatusAll:
	case status.Valid():
		req.Query = map[string]string{"status": string(status)}
	default:
		return nil, fmt.Errorf("%w: application status %q", ErrInvalidArgument, status)
	}

	var out []models.Application
	if err := s.http.DoJSON(ctx, req, &out); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return out, nil
}

func (s *applicationsService) Withdraw(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: application id is empty", ErrInvalidArgument)
	}
	if _, err := s.http.Do(ctx, client.Request{Method: http.MethodDelete, Path: "/applications/" + url.PathEscape(id)}); err != nil {
		return fmt.Errorf("withdraw application %s: %w", id, err)
	}
	return nil
}
