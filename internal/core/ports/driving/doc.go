// Package driving declares what the CLI and TUI may ask of the core:
// crawling an export, querying stored runs and lessons, editing crawl
// settings and scheduling re-crawls. internal/core/services implements
// every interface here.
package driving
