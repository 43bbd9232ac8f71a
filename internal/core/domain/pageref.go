package domain

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

const filePrefix = "file://"

// PageRef references one page of a timetable export.
// It is either an http(s) URL or a local path (optionally file:// prefixed).
type PageRef string

// String returns the reference as a string.
func (r PageRef) String() string {
	return string(r)
}

// IsRemote returns true for http and https references.
func (r PageRef) IsRemote() bool {
	s := strings.ToLower(string(r))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// LocalPath returns the filesystem path of a local reference.
func (r PageRef) LocalPath() string {
	return strings.TrimPrefix(string(r), filePrefix)
}

// Sibling resolves rel against the directory holding this page.
// This is pure path arithmetic and performs no I/O.
func (r PageRef) Sibling(rel string) PageRef {
	if r.IsRemote() {
		base, err := url.Parse(string(r))
		if err == nil {
			if ref, err := url.Parse(rel); err == nil {
				return PageRef(base.ResolveReference(ref).String())
			}
		}
		return PageRef(path.Join(path.Dir(string(r)), rel))
	}

	joined := filepath.Join(filepath.Dir(r.LocalPath()), filepath.FromSlash(rel))
	if strings.HasPrefix(string(r), filePrefix) {
		return PageRef(filePrefix + joined)
	}
	return PageRef(joined)
}

// Name returns the page filename without directory and extension,
// e.g. "o12" for "https://school.example/plany/o12.html".
func (r PageRef) Name() string {
	var base string
	if r.IsRemote() {
		p := string(r)
		if u, err := url.Parse(p); err == nil {
			p = u.Path
		}
		base = path.Base(p)
	} else {
		base = filepath.Base(r.LocalPath())
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// Page is one fetched page of a timetable export.
type Page struct {
	// Ref is where the page was fetched from.
	Ref PageRef

	// Body is the raw HTML.
	Body []byte
}
