package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRef_Sibling(t *testing.T) {
	tests := []struct {
		name     string
		ref      PageRef
		rel      string
		expected PageRef
	}{
		{"remote", "https://school.example/plan/index.html", "plany/o1.html", "https://school.example/plan/plany/o1.html"},
		{"remote parent", "https://school.example/plan/plany/o1.html", "../lista.html", "https://school.example/plan/lista.html"},
		{"remote from directory", "https://school.example/plan/", "lista.html", "https://school.example/plan/lista.html"},
		{"local", "/srv/plan/index.html", "plany/o1.html", "/srv/plan/plany/o1.html"},
		{"local file url", "file:///srv/plan/index.html", "lista.html", "file:///srv/plan/lista.html"},
		{"local sibling", "/srv/plan/plany/o1.html", "n3.html", "/srv/plan/plany/n3.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.ref.Sibling(tt.rel))
		})
	}
}

func TestPageRef_Name(t *testing.T) {
	assert.Equal(t, "o12", PageRef("https://school.example/plany/o12.html").Name())
	assert.Equal(t, "o12", PageRef("https://school.example/plany/o12.html?x=1").Name())
	assert.Equal(t, "n3", PageRef("/srv/plan/plany/n3.html").Name())
	assert.Equal(t, "s7", PageRef("file:///srv/plan/plany/s7.htm").Name())
	assert.Equal(t, "index", PageRef("index.html").Name())
}

func TestPageRef_IsRemote(t *testing.T) {
	assert.True(t, PageRef("http://school.example/").IsRemote())
	assert.True(t, PageRef("HTTPS://school.example/").IsRemote())
	assert.False(t, PageRef("/srv/plan/index.html").IsRemote())
	assert.False(t, PageRef("file:///srv/plan/index.html").IsRemote())
}

func TestPageRef_LocalPath(t *testing.T) {
	assert.Equal(t, "/srv/plan/index.html", PageRef("file:///srv/plan/index.html").LocalPath())
	assert.Equal(t, "/srv/plan/index.html", PageRef("/srv/plan/index.html").LocalPath())
}
