package connectors

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/timetable-cli/internal/core/domain"
)

type stubFetcher struct {
	name string
	refs []domain.PageRef
}

func (s *stubFetcher) Fetch(_ context.Context, ref domain.PageRef) ([]byte, error) {
	s.refs = append(s.refs, ref)
	return []byte(s.name), nil
}

func TestRouter_Fetch(t *testing.T) {
	remote := &stubFetcher{name: "remote"}
	local := &stubFetcher{name: "local"}
	r := NewRouter(remote, local)

	tests := []struct {
		ref      domain.PageRef
		expected string
	}{
		{"https://school.example/plan/index.html", "remote"},
		{"http://school.example/plan/index.html", "remote"},
		{"/srv/plan/index.html", "local"},
		{"file:///srv/plan/index.html", "local"},
		{"plan/index.html", "local"},
	}

	for _, tt := range tests {
		t.Run(string(tt.ref), func(t *testing.T) {
			body, err := r.Fetch(context.Background(), tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(body))
		})
	}
	assert.Len(t, remote.refs, 2)
	assert.Len(t, local.refs, 3)
}

func TestNewDefaultRouter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(path, []byte("<html></html>"), 0644))

	r := NewDefaultRouter(domain.DefaultCrawlSettings())
	require.NotNil(t, r)

	body, err := r.Fetch(context.Background(), domain.PageRef(path))
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(body))
}
