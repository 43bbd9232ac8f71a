// Package normalisers provides implementations of the PageParser interface
// for timetable exports. Each parser knows how to turn the pages of one
// generator family into entities and lessons of a Dataset.
package normalisers
