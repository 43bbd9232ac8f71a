package connectors

import (
	"context"

	"github.com/custodia-labs/timetable-cli/internal/connectors/filesystem"
	"github.com/custodia-labs/timetable-cli/internal/connectors/web"
	"github.com/custodia-labs/timetable-cli/internal/core/domain"
	"github.com/custodia-labs/timetable-cli/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.PageFetcher = (*Router)(nil)

// Router fetches http(s) references over the web and everything else from
// the local filesystem.
type Router struct {
	remote driven.PageFetcher
	local  driven.PageFetcher
}

// NewRouter creates a router over the given connectors.
func NewRouter(remote, local driven.PageFetcher) *Router {
	return &Router{remote: remote, local: local}
}

// NewDefaultRouter creates a router over the web and filesystem connectors.
func NewDefaultRouter(settings domain.CrawlSettings) *Router {
	return NewRouter(
		web.NewClient(web.Config{
			UserAgent:         settings.UserAgent,
			RequestsPerSecond: settings.RequestsPerSecond,
			Timeout:           settings.Timeout,
		}),
		filesystem.NewFetcher(),
	)
}

// Fetch dispatches to the connector for the reference.
func (r *Router) Fetch(ctx context.Context, ref domain.PageRef) ([]byte, error) {
	if ref.IsRemote() {
		return r.remote.Fetch(ctx, ref)
	}
	return r.local.Fetch(ctx, ref)
}
