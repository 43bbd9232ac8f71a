package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/timetable-cli/internal/core/domain"
	"github.com/custodia-labs/timetable-cli/internal/core/ports/driving"
)

var (
	lessonsRun       string
	lessonsRegister  string
	lessonsTeacher   string
	lessonsClassroom string
	lessonsDay       string
	lessonsJSON      bool
)

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "List lessons of a crawl run",
	Long: `Lists the lessons of a stored crawl run, sorted by weekday, start time
and lesson number. Filters match names case-insensitively and combine.`,
	Example: `  timetable lessons --register 1a
  timetable lessons --teacher "Jane Doe" --day mon
  timetable lessons --run 5f0c... --classroom 21 --json`,
	Args: cobra.NoArgs,
	RunE: runLessons,
}

func init() {
	lessonsCmd.Flags().StringVar(&lessonsRun, "run", driving.LatestRun, "run ID")
	lessonsCmd.Flags().StringVarP(&lessonsRegister, "register", "r", "", "only lessons of this register, e.g. 1a")
	lessonsCmd.Flags().StringVarP(&lessonsTeacher, "teacher", "t", "", "only lessons taught by this teacher")
	lessonsCmd.Flags().StringVarP(&lessonsClassroom, "classroom", "c", "", "only lessons in this classroom")
	lessonsCmd.Flags().StringVarP(&lessonsDay, "day", "d", "", "only lessons on this weekday, e.g. mon")
	lessonsCmd.Flags().BoolVar(&lessonsJSON, "json", false, "output lessons as JSON")
	rootCmd.AddCommand(lessonsCmd)
}

func runLessons(cmd *cobra.Command, _ []string) error {
	if timetableService == nil {
		return errors.New("timetable service not configured")
	}

	filter := driving.LessonFilter{
		Register:  lessonsRegister,
		Teacher:   lessonsTeacher,
		Classroom: lessonsClassroom,
	}
	if lessonsDay != "" {
		day, err := domain.ParseWeekday(lessonsDay)
		if err != nil {
			return err
		}
		filter.Weekday = &day
	}

	lessons, err := timetableService.Lessons(cmd.Context(), lessonsRun, filter)
	if err != nil {
		return fmt.Errorf("failed to list lessons: %w", err)
	}

	if lessonsJSON {
		return outputJSON(cmd, lessons)
	}

	if len(lessons) == 0 {
		cmd.Println("No lessons found.")
		return nil
	}

	rows := make([][]string, len(lessons))
	for i, v := range lessons {
		rows[i] = lessonRow(v)
	}
	printTable(cmd, []string{"DAY", "NR", "TIME", "SUBJECT", "TEACHERS", "ROOM", "GROUP"}, rows)
	return nil
}

func lessonRow(v domain.LessonView) []string {
	l := v.Lesson
	nr := ""
	if l.Number != nil {
		nr = strconv.Itoa(*l.Number)
	}
	return []string{
		l.Weekday.Short(),
		nr,
		l.Start.String() + "-" + l.End.String(),
		v.Subject,
		strings.Join(v.Teachers, ", "),
		v.Classroom,
		v.Group(),
	}
}
