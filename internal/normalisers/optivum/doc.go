// Package optivum provides a PageParser for timetables exported by the
// Optivum timetable generator.
//
// An export comes in one of four navigation layouts (a frameset, a bulleted
// list or tree of links, drop-down lists, or a menu) that all lead to leaf
// pages holding one weekly grid per class, teacher or classroom. The same
// lesson shows up on up to three leaf pages; Dataset merges those sightings.
//
// Selectors follow the generator's markup: table.tabela for the grid, td.g
// for time spans, td.l for lesson cells, and span.p/.n/.s/.o for the subject,
// teacher, classroom and class labels inside a cell.
package optivum
