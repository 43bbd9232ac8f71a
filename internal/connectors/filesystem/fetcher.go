package filesystem

import (
	"context"
	"errors"
	"os"

	"github.com/custodia-labs/timetable-cli/internal/core/domain"
	"github.com/custodia-labs/timetable-cli/internal/core/ports/driven"
)

// ErrRemoteReference indicates an http(s) reference was given to the
// filesystem fetcher.
var ErrRemoteReference = errors.New("filesystem: remote reference")

// Verify interface compliance.
var _ driven.PageFetcher = (*Fetcher)(nil)

// Fetcher reads pages from the local filesystem.
type Fetcher struct{}

// NewFetcher creates a filesystem fetcher.
func NewFetcher() *Fetcher {
	return &Fetcher{}
}

// Fetch reads the file a local reference points to.
func (f *Fetcher) Fetch(ctx context.Context, ref domain.PageRef) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &driven.FetchError{Ref: ref, Err: err}
	}
	if ref.IsRemote() {
		return nil, &driven.FetchError{Ref: ref, Err: ErrRemoteReference}
	}

	data, err := os.ReadFile(ref.LocalPath())
	if err != nil {
		return nil, &driven.FetchError{Ref: ref, Err: err}
	}
	return data, nil
}
