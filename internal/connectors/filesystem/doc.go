// Package filesystem reads timetable exports saved to a local directory and
// watches that directory for changes.
package filesystem
