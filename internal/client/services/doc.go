// Package services contains the typed jobswipe domain operations used by the
// CLI: authentication, the job queue, bookmarks, applications, analytics and
// the tech news feed.
//
// Services stay declarative: token injection, caching, forced logout and
// rate-limit notification all happen in the HTTP layer (package client).
package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/jobswipe/internal/client/client"
)

// ErrInvalidArgument is returned before any network call when an operation's
// input is malformed.
var ErrInvalidArgument = errors.New("invalid argument")

// Doer is the HTTP layer as seen by the services.
type Doer interface {
	Do(ctx context.Context, req client.Request) (*client.Response, error)
	DoJSON(ctx context.Context, req client.Request, out any) error
}
