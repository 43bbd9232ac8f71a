package domain

import "time"

// CrawlRun records one crawl of a timetable export.
type CrawlRun struct {
	// ID is the unique identifier for the run.
	ID string `json:"id"`

	// Root is the page the crawl started from.
	Root PageRef `json:"root"`

	// StartedAt and FinishedAt bound the crawl.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Pages counts pages visited, including failed ones.
	Pages int `json:"pages"`

	// FailedPages counts pages whose extraction was aborted.
	FailedPages int `json:"failed_pages"`

	// UnrecognizedPages counts pages that matched no known layout.
	UnrecognizedPages int `json:"unrecognized_pages"`

	// Lessons is the number of lessons in the resulting timetable.
	Lessons int `json:"lessons"`
}

// Duration returns how long the crawl took.
func (r CrawlRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// CrawlResult is a finished crawl with its timetable.
type CrawlResult struct {
	Run       CrawlRun   `json:"run"`
	Timetable *Timetable `json:"timetable"`
}

// Dialect is the navigation layout a page was recognised as.
type Dialect string

// Page layouts of a timetable export.
const (
	// DialectFrameset is a frameset whose "list" frame holds the navigation.
	DialectFrameset Dialect = "frameset"

	// DialectLinkList is a bulleted list, tree or index table of timetable links.
	DialectLinkList Dialect = "link_list"

	// DialectDropdown is a set of selection controls listing entities.
	DialectDropdown Dialect = "dropdown"

	// DialectMenu is a menu of links to sub-menu pages.
	DialectMenu Dialect = "menu"

	// DialectTimetable is a leaf page holding a weekly grid.
	DialectTimetable Dialect = "timetable"

	// DialectUnknown is a page that matched none of the above.
	DialectUnknown Dialect = "unknown"
)
