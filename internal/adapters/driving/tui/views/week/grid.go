package week

import (
	"cmp"
	"slices"

	"github.com/custodia-labs/timetable-cli/internal/core/domain"
)

// Slot is one row of the week grid: a lesson number and time span.
type Slot struct {
	Number *int
	Start  domain.TimeOfDay
	End    domain.TimeOfDay
}

// Grid arranges lessons by slot (row) and weekday (column).
type Grid struct {
	Days  []domain.Weekday
	Slots []Slot
	cells map[gridKey][]domain.LessonView
}

type gridKey struct {
	slot int
	day  domain.Weekday
}

// BuildGrid arranges lessons into a grid. Monday to Friday are always
// present; weekend days only when they hold lessons.
func BuildGrid(lessons []domain.LessonView) Grid {
	g := Grid{
		Days:  []domain.Weekday{domain.Monday, domain.Tuesday, domain.Wednesday, domain.Thursday, domain.Friday},
		cells: make(map[gridKey][]domain.LessonView),
	}

	for _, v := range lessons {
		if !slices.Contains(g.Days, v.Lesson.Weekday) && v.Lesson.Weekday.IsValid() {
			g.Days = append(g.Days, v.Lesson.Weekday)
		}
	}
	slices.Sort(g.Days)

	for _, v := range lessons {
		s := slotOf(v.Lesson)
		i := slices.IndexFunc(g.Slots, func(o Slot) bool { return sameSlot(o, s) })
		if i < 0 {
			g.Slots = append(g.Slots, s)
		}
	}
	slices.SortFunc(g.Slots, func(a, b Slot) int {
		if c := cmp.Compare(a.Start.Minutes(), b.Start.Minutes()); c != 0 {
			return c
		}
		return cmp.Compare(numberOf(a), numberOf(b))
	})

	for _, v := range lessons {
		s := slotOf(v.Lesson)
		i := slices.IndexFunc(g.Slots, func(o Slot) bool { return sameSlot(o, s) })
		k := gridKey{slot: i, day: v.Lesson.Weekday}
		g.cells[k] = append(g.cells[k], v)
	}
	return g
}

// Cell returns the lessons in a slot on a day.
func (g Grid) Cell(slot int, day domain.Weekday) []domain.LessonView {
	return g.cells[gridKey{slot: slot, day: day}]
}

func slotOf(l domain.Lesson) Slot {
	return Slot{Number: l.Number, Start: l.Start, End: l.End}
}

func sameSlot(a, b Slot) bool {
	return numberOf(a) == numberOf(b) && a.Start == b.Start && a.End == b.End
}

func numberOf(s Slot) int {
	if s.Number == nil {
		return -1
	}
	return *s.Number
}
