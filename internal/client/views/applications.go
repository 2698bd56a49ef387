package views

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/jobswipe/internal/client/metrics"
	"github.com/dmitrijs2005/jobswipe/internal/client/models"
	"github.com/dmitrijs2005/jobswipe/internal/client/optimistic"
	"github.com/dmitrijs2005/jobswipe/internal/client/services"
)

var applicationsMessages = optimistic.Messages{
	RateLimited: "Too many requests. Please wait a moment.",
	Failed:      "Failed to withdraw application. Please try again.",
}

type Applications struct {
	svc  services.ApplicationsService
	list *optimistic.List[models.Application]

	mu     sync.RWMutex
	filter models.ApplicationStatus
}

func NewApplications(svc services.ApplicationsService, m *metrics.Client) *Applications {
	return &Applications{
		svc:    svc,
		list:   optimistic.New[models.Application](nil, listOptions("applications", m, applicationsMessages)...),
		filter: models.StatusAll,
	}
}

// Load fetches applications with the given status; "" keeps the current
// filter.
func (a *Applications) Load(ctx context.Context, status models.ApplicationStatus) error {
	if status == "" {
		status = a.Filter()
	}
	items, err := a.svc.List(ctx, status)
	if err != nil {
		return fmt.Errorf("load applications: %w", err)
	}

	a.mu.Lock()
	a.filter = status
	a.mu.Unlock()
	a.list.Replace(items)
	return nil
}

func (a *Applications) Filter() models.ApplicationStatus {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.filter
}

func (a *Applications) Items() []models.Application {
	return a.list.Items()
}

func (a *Applications) Withdraw(ctx context.Context, id string) <-chan optimistic.Result[models.Application] {
	return a.list.Go(ctx, id, func(ctx context.Context, app models.Application) (any, error) {
		return nil, a.svc.Withdraw(ctx, app.ID)
	})
}

func (a *Applications) Reset() {
	a.list.Reset()
	a.mu.Lock()
	a.filter = models.StatusAll
	a.mu.Unlock()
}

func (a *Applications) Close() {
	a.list.Detach()
}
