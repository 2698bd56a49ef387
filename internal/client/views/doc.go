// Package views holds the page-level controllers: the swipe queue, the
// bookmark and application lists, the dashboard and the news feed. List
// pages use optimistic removal with rollback.
package views

import (
	"github.com/dmitrijs2005/jobswipe/internal/client/metrics"
	"github.com/dmitrijs2005/jobswipe/internal/client/optimistic"
)

func listOptions(name string, m *metrics.Client, msgs optimistic.Messages) []optimistic.Option {
	return []optimistic.Option{
		optimistic.WithName(name),
		optimistic.WithMessages(msgs),
		optimistic.OnRollback(m.Rollback),
	}
}
