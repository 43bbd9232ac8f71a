package domain

// Lesson is one weekly lesson slot.
type Lesson struct {
	// ID is the legacy numeric identity key, see LessonKey.Legacy.
	ID int64 `json:"id"`

	// Weekday is the day of the week.
	Weekday Weekday `json:"weekday"`

	// Number is the lesson number printed in the grid's first column, if any.
	Number *int `json:"number,omitempty"`

	// Start and End bound the lesson.
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`

	// SubjectID references the taught Subject.
	SubjectID int `json:"subject_id"`

	// TeacherIDs lists the teachers. Empty when no page revealed one.
	TeacherIDs []int `json:"teacher_ids"`

	// ClassroomID references the Classroom, or 0 when unknown.
	ClassroomID int `json:"classroom_id,omitempty"`

	// RegisterID references the Register attending.
	RegisterID int `json:"register_id"`

	// TeamID references the Team attending, or 0 for the whole register.
	TeamID int `json:"team_id,omitempty"`
}

// Key returns the lesson's identity key.
func (l *Lesson) Key() LessonKey {
	return LessonKey{
		Weekday:    l.Weekday,
		Start:      l.Start,
		SubjectID:  l.SubjectID,
		RegisterID: l.RegisterID,
		TeamID:     l.TeamID,
	}
}

// GroupID returns the team id, or the register id for whole-register lessons.
func (l *Lesson) GroupID() int {
	if l.TeamID != 0 {
		return l.TeamID
	}
	return l.RegisterID
}

// LessonKey identifies a lesson regardless of which page revealed it.
// Teacher and classroom are not part of it, so sightings of the same lesson
// on a class page and on a teacher page merge instead of duplicating.
type LessonKey struct {
	Weekday    Weekday
	Start      TimeOfDay
	SubjectID  int
	RegisterID int
	TeamID     int
}

// Legacy packs the key into the historical integer form:
// weekday in the highest digit group, start minute in the next,
// and (group*100 + subject) mod 10^7 in the lowest seven digits.
// The truncation can make unrelated lessons share a value.
func (k LessonKey) Legacy() int64 {
	group := k.TeamID
	if group == 0 {
		group = k.RegisterID
	}
	timeValue := int64(k.Start.Minutes())
	dataValue := int64(group)*100 + int64(k.SubjectID)
	return (int64(k.Weekday)+1)*100_000_000_000 +
		timeValue*10_000_000 +
		dataValue%10_000_000
}
