// Package sqlite stores crawl runs and their timetables in a SQLite file,
// ~/.timetable/data/timetable.db unless told otherwise.
//
// The driver is modernc.org/sqlite, so the binary builds without cgo. Every
// table hangs off a run id and deletes cascade, so removing a run removes its
// registers, teachers, rooms and lessons with it. Schema changes go in
// numbered files under migrations/ and are applied on open.
package sqlite
