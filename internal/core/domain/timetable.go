package domain

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// Timetable is an immutable snapshot of a crawled Dataset.
// It is what gets stored, printed and browsed.
type Timetable struct {
	GeneratedOn time.Time   `json:"generated_on"`
	Teachers    []Teacher   `json:"teachers"`
	Classrooms  []Classroom `json:"classrooms"`
	Registers   []Register  `json:"registers"`
	Teams       []Team      `json:"teams"`
	Subjects    []Subject   `json:"subjects"`
	Lessons     []Lesson    `json:"lessons"`
}

// Teacher returns the teacher with the given id.
func (t *Timetable) Teacher(id int) (Teacher, bool) {
	return findByID(t.Teachers, id, func(e Teacher) int { return e.ID })
}

// Classroom returns the classroom with the given id.
func (t *Timetable) Classroom(id int) (Classroom, bool) {
	return findByID(t.Classrooms, id, func(e Classroom) int { return e.ID })
}

// Register returns the register with the given id.
func (t *Timetable) Register(id int) (Register, bool) {
	return findByID(t.Registers, id, func(e Register) int { return e.ID })
}

// Team returns the team with the given id.
func (t *Timetable) Team(id int) (Team, bool) {
	return findByID(t.Teams, id, func(e Team) int { return e.ID })
}

// Subject returns the subject with the given id.
func (t *Timetable) Subject(id int) (Subject, bool) {
	return findByID(t.Subjects, id, func(e Subject) int { return e.ID })
}

// RegisterByName returns the register with the given name, case-insensitively.
func (t *Timetable) RegisterByName(name string) (Register, bool) {
	for _, r := range t.Registers {
		if strings.EqualFold(r.Name, name) {
			return r, true
		}
	}
	return Register{}, false
}

// LessonsFor returns the lessons of a register (including its teams),
// sorted by weekday, start time and lesson number.
func (t *Timetable) LessonsFor(registerID int) []Lesson {
	var out []Lesson
	for _, l := range t.Lessons {
		if l.RegisterID == registerID {
			out = append(out, l)
		}
	}
	SortLessons(out)
	return out
}

// SortLessons orders lessons by weekday, start time, lesson number, then id.
func SortLessons(lessons []Lesson) {
	slices.SortStableFunc(lessons, func(a, b Lesson) int {
		if c := cmp.Compare(a.Weekday, b.Weekday); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Start.Minutes(), b.Start.Minutes()); c != 0 {
			return c
		}
		if c := cmp.Compare(lessonNumber(a), lessonNumber(b)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// LessonView is a lesson with every reference resolved to a display name.
type LessonView struct {
	Lesson    Lesson   `json:"lesson"`
	Subject   string   `json:"subject"`
	Teachers  []string `json:"teachers"`
	Classroom string   `json:"classroom,omitempty"`
	Register  string   `json:"register"`
	Team      string   `json:"team,omitempty"`
}

// Group returns the team name, or the register name for whole-register lessons.
func (v LessonView) Group() string {
	if v.Team != "" {
		return v.Team
	}
	return v.Register
}

// View resolves the lesson's references.
func (t *Timetable) View(l Lesson) LessonView {
	v := LessonView{Lesson: l, Teachers: []string{}}
	if s, ok := t.Subject(l.SubjectID); ok {
		v.Subject = s.Name
	}
	for _, id := range l.TeacherIDs {
		if teacher, ok := t.Teacher(id); ok {
			v.Teachers = append(v.Teachers, teacher.Name)
		}
	}
	if c, ok := t.Classroom(l.ClassroomID); ok {
		v.Classroom = c.Name
	}
	if r, ok := t.Register(l.RegisterID); ok {
		v.Register = r.Name
	}
	if team, ok := t.Team(l.TeamID); ok {
		v.Team = team.Name
	}
	return v
}

func lessonNumber(l Lesson) int {
	if l.Number == nil {
		return -1
	}
	return *l.Number
}

func findByID[T any](items []T, id int, idOf func(T) int) (T, bool) {
	for _, item := range items {
		if idOf(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}
