// Package connectors provides implementations of the PageFetcher interface
// for the places a timetable export can live. Each connector knows how to
// fetch pages from one kind of reference (web server, local directory).
//
// Router dispatches each reference to the matching connector.
package connectors
