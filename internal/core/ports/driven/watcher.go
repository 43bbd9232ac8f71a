package driven

import "context"

// ChangeWatcher reports changes below a local directory.
type ChangeWatcher interface {
	// Watch sends on the returned channel whenever files below dir change.
	// Bursts of events are coalesced. The channel closes when ctx is done.
	Watch(ctx context.Context, dir string) (<-chan struct{}, error)
}
