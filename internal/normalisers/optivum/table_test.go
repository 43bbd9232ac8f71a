package optivum

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/timetable-cli/internal/core/domain"
)

const classRef = domain.PageRef("/srv/plan/plany/o1.html")

func TestParseTimespan(t *testing.T) {
	want := [2]domain.TimeOfDay{{Hour: 8, Minute: 0}, {Hour: 8, Minute: 45}}

	tests := []struct {
		name string
		text string
	}{
		{"leading zeros", "08:00-08:45"},
		{"no leading zeros", "8:00-8:45"},
		{"space after dash", "8:00- 8:45"},
		{"padded", "  08:00- 08:45 "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := parseTimespan(tt.text)
			require.NoError(t, err)
			assert.Equal(t, want, [2]domain.TimeOfDay{start, end})
		})
	}

	t.Run("afternoon", func(t *testing.T) {
		start, end, err := parseTimespan("14:05-14:50")
		require.NoError(t, err)
		assert.Equal(t, "14:05", start.String())
		assert.Equal(t, "14:50", end.String())
	})

	t.Run("malformed", func(t *testing.T) {
		_, _, err := parseTimespan("lekcja 1")
		assert.ErrorIs(t, err, domain.ErrMalformedTimespan)
	})
}

func TestExtractTable_MiniLessons(t *testing.T) {
	cell := `<span style="font-size:85%"><span class="p">ang-1</span> <a href="n1.html" class="n">JD</a> <a href="s3.html" class="s">21</a></span><br>` +
		`<span style="font-size:85%"><span class="p">ang-2</span> <a href="n2.html" class="n">AB</a> <a href="s4.html" class="s">22</a></span>`

	ds := domain.NewDataset()
	_, dialect, err := process(t, classRef, string(leafPage("1A", 7, cell)), ds)
	require.NoError(t, err)
	assert.Equal(t, domain.DialectTimetable, dialect)

	tt := ds.Snapshot()
	require.Len(t, tt.Lessons, 2)
	require.Len(t, tt.Subjects, 1)
	assert.Equal(t, "ang", tt.Subjects[0].Name)
	require.Len(t, tt.Teams, 2)
	assert.Equal(t, "1A-1", tt.Teams[0].Name)
	assert.Equal(t, "1A-2", tt.Teams[1].Name)

	first, second := tt.Lessons[0], tt.Lessons[1]
	assert.Equal(t, 1, first.RegisterID)
	assert.Equal(t, 1, second.RegisterID)
	assert.NotEqual(t, first.TeamID, second.TeamID)
	assert.Equal(t, []int{1}, first.TeacherIDs)
	assert.Equal(t, 3, first.ClassroomID)
	assert.Equal(t, []int{2}, second.TeacherIDs)
	assert.Equal(t, 4, second.ClassroomID)
	assert.Equal(t, domain.Monday, first.Weekday)
	require.NotNil(t, first.Number)
	assert.Equal(t, 1, *first.Number)
	assert.Equal(t, time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC), ds.GeneratedOn())
}

func TestExtractTable_WholeClass(t *testing.T) {
	cell := `<span class="p">mat</span> <a href="n1.html" class="n">JD</a> <a href="s3.html" class="s">21</a>`

	ds := domain.NewDataset()
	_, _, err := process(t, classRef, string(leafPage("1A", 7, "", cell)), ds)
	require.NoError(t, err)

	tt := ds.Snapshot()
	require.Len(t, tt.Lessons, 1)
	l := tt.Lessons[0]
	assert.Equal(t, domain.Tuesday, l.Weekday)
	assert.Zero(t, l.TeamID)
	assert.Equal(t, 1, l.RegisterID)
	assert.Equal(t, "08:00", l.Start.String())
	assert.Equal(t, "08:45", l.End.String())

	register, _ := tt.Register(1)
	assert.Equal(t, "1A", register.Name)
}

func TestExtractTable_StackedLines(t *testing.T) {
	cell := `<span class="p">fiz</span>-1/2 <a href="n1.html" class="n">JD</a> <a href="s3.html" class="s">21</a><br>` +
		`<span class="p">chem</span>-2/2 <a href="n2.html" class="n">AB</a> <a href="s4.html" class="s">22</a>`

	ds := domain.NewDataset()
	_, _, err := process(t, classRef, string(leafPage("1A", 7, cell)), ds)
	require.NoError(t, err)

	tt := ds.Snapshot()
	require.Len(t, tt.Lessons, 2)

	fiz, chem := tt.View(tt.Lessons[0]), tt.View(tt.Lessons[1])
	assert.Equal(t, "fiz", fiz.Subject)
	assert.Equal(t, "1A-1/2", fiz.Team)
	assert.Equal(t, []int{1}, fiz.Lesson.TeacherIDs)

	assert.Equal(t, "chem", chem.Subject)
	assert.Equal(t, "1A-2/2", chem.Team)
	assert.Equal(t, []int{2}, chem.Lesson.TeacherIDs)
	assert.Equal(t, 4, chem.Lesson.ClassroomID)
}

func TestExtractTable_TeacherPage(t *testing.T) {
	cell := `<span class="p">wf</span> <a href="o1.html" class="o">1A</a>-ch, <a href="o2.html" class="o">1B</a>-ch <a href="s9.html" class="s">Sg</a>`

	ds := domain.NewDataset()
	_, _, err := process(t, "/srv/plan/plany/n5.html", string(leafPage("J.Kowalski (JK)", 7, cell)), ds)
	require.NoError(t, err)

	tt := ds.Snapshot()
	require.Len(t, tt.Lessons, 2)
	for i, want := range []string{"1A-ch", "1B-ch"} {
		v := tt.View(tt.Lessons[i])
		assert.Equal(t, want, v.Team)
		assert.Equal(t, []int{5}, v.Lesson.TeacherIDs)
		assert.Equal(t, 9, v.Lesson.ClassroomID)
		assert.Equal(t, "Sg", v.Classroom)
	}
	assert.Equal(t, 1, tt.Lessons[0].RegisterID)
	assert.Equal(t, 2, tt.Lessons[1].RegisterID)
}

func TestExtractTable_PlainTextLabels(t *testing.T) {
	cell := `<span class="p">rel</span> <span class="n">Kr</span> <span class="s">kaplica</span> <span class="o">2C</span>`

	ds := domain.NewDataset()
	_, _, err := process(t, "/srv/plan/plany/s7.html", string(leafPage("kaplica", 7, cell)), ds)
	require.NoError(t, err)

	tt := ds.Snapshot()
	require.Len(t, tt.Lessons, 1)
	v := tt.View(tt.Lessons[0])
	assert.Equal(t, "2C", v.Register)
	assert.GreaterOrEqual(t, v.Lesson.RegisterID, domain.SyntheticIDBase)
	assert.Equal(t, []string{"Kr"}, v.Teachers)
	assert.Equal(t, "kaplica", v.Classroom)
	assert.Equal(t, 7, v.Lesson.ClassroomID)
}

func TestExtractTable_JointSessionMarker(t *testing.T) {
	cell := `<span class="p">rel</span> <span class="p">#rel1</span> <a href="n1.html" class="n">JD</a>`

	ds := domain.NewDataset()
	_, _, err := process(t, classRef, string(leafPage("1A", 7, cell)), ds)
	require.NoError(t, err)

	tt := ds.Snapshot()
	require.Len(t, tt.Lessons, 1)
	v := tt.View(tt.Lessons[0])
	assert.Equal(t, "1A #rel1", v.Team)
	assert.Equal(t, "1A #rel1", v.Group())
}

func TestExtractTable_MergesAcrossPages(t *testing.T) {
	ds := domain.NewDataset()

	classCell := `<span class="p">mat</span> <a href="n1.html" class="n">JD</a>`
	_, _, err := process(t, classRef, string(leafPage("1A", 7, classCell)), ds)
	require.NoError(t, err)

	roomCell := `<span class="p">mat</span> <a href="o1.html" class="o">1A</a>`
	_, _, err = process(t, "/srv/plan/plany/s3.html", string(leafPage("21", 7, roomCell)), ds)
	require.NoError(t, err)

	tt := ds.Snapshot()
	require.Len(t, tt.Lessons, 1)
	assert.Equal(t, []int{1}, tt.Lessons[0].TeacherIDs)
	assert.Equal(t, 3, tt.Lessons[0].ClassroomID)
}

func TestExtractTable_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{
			name: "six headers",
			body: string(leafPage("1A", 6, `<span class="p">mat</span>`)),
			want: domain.ErrMalformedTable,
		},
		{
			name: "no grid",
			body: `<html><body><span class="tytulnapis">1A</span>` + footer + `</body></html>`,
			want: domain.ErrMalformedTable,
		},
		{
			name: "header only",
			body: `<html><body><table class="tabela"><tr><th>1</th><th>2</th><th>3</th><th>4</th><th>5</th><th>6</th><th>7</th></tr></table>` + footer + `</body></html>`,
			want: domain.ErrMalformedTable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := domain.NewDataset()
			_, dialect, err := process(t, classRef, tt.body, ds)

			assert.Equal(t, domain.DialectTimetable, dialect)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, domain.DatasetStats{}, ds.Stats())
			assert.True(t, ds.GeneratedOn().IsZero())
		})
	}

	t.Run("bad time span", func(t *testing.T) {
		body := string(leafPage("1A", 7))
		body = replaceOnce(body, " 8:00- 8:45", "rano")
		_, _, err := process(t, classRef, body, domain.NewDataset())
		assert.ErrorIs(t, err, domain.ErrMalformedTimespan)
	})

	t.Run("column count mismatch", func(t *testing.T) {
		body := string(leafPage("1A", 7))
		body = replaceOnce(body, `<td class="l">&nbsp;</td>`, "")
		_, _, err := process(t, classRef, body, domain.NewDataset())
		assert.ErrorIs(t, err, domain.ErrColumnCountMismatch)
	})

	t.Run("invalid page reference", func(t *testing.T) {
		_, _, err := process(t, "/srv/plan/plany/index.html", string(leafPage("1A", 7)), domain.NewDataset())
		assert.ErrorIs(t, err, domain.ErrInvalidReference)
	})
}
