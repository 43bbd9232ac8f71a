// Package domain models an Optivum timetable export.
//
// A crawl fills a Dataset page by page. Teachers, classrooms, registers and
// teams are deduplicated by name, lessons by their slot key. Freezing the
// Dataset yields a Timetable, which is what storage, the CLI and the TUI work
// with. PageRef addresses a page either by URL or by local path, and
// CrawlRun records one pass over an export.
//
// Only the standard library may be imported here.
package domain
