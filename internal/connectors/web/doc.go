// Package web fetches timetable pages published on a web server.
//
// Requests are throttled with a token bucket so that crawling a school's
// site with several workers does not flood it, and transient failures
// (network errors, 429 and 5xx responses) are retried with backoff.
package web
